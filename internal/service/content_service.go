package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/Navaneeth433/Murdermystery/internal/model"
	"github.com/Navaneeth433/Murdermystery/internal/repository"
	"github.com/Navaneeth433/Murdermystery/internal/util"
	"github.com/Navaneeth433/Murdermystery/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 管理后台尝试列表的上限
const adminAttemptListLimit = 500

type ContentService struct {
	ContentRepo    *repository.ContentRepository
	AttemptRepo    *repository.AttemptRepository
	Access         *AccessService
	Attempts       *AttemptService
	StorageService *StorageService
	Leaderboard    *LeaderboardService
}

func NewContentService(
	contentRepo *repository.ContentRepository,
	attemptRepo *repository.AttemptRepository,
	access *AccessService,
	attempts *AttemptService,
	storage *StorageService,
	leaderboard *LeaderboardService,
) *ContentService {
	return &ContentService{
		ContentRepo:    contentRepo,
		AttemptRepo:    attemptRepo,
		Access:         access,
		Attempts:       attempts,
		StorageService: storage,
		Leaderboard:    leaderboard,
	}
}

// ContentRequest 创建/更新章节。Panels 为管理员粘贴的原始文本
type ContentRequest struct {
	Title         string     `json:"title" binding:"required"`
	ChapterNumber int        `json:"chapterNumber" binding:"required,min=1"`
	TimeLimit     int        `json:"timeLimit" binding:"min=0"`
	IsUnlocked    bool       `json:"isUnlocked"`
	UnlockTime    *time.Time `json:"unlockTime"`
	Panels        string     `json:"panels"`
}

func (r *ContentRequest) apply(content *model.Content) {
	content.Title = strings.TrimSpace(r.Title)
	content.ChapterNumber = r.ChapterNumber
	content.TimeLimit = r.TimeLimit
	content.IsUnlocked = r.IsUnlocked
	content.UnlockTime = r.UnlockTime
	content.Panels = model.EncodePanels(util.ParsePanelInput(r.Panels))
}

// ChapterDetail 章节详情页
type ChapterDetail struct {
	Content *model.Content     `json:"content"`
	Panels  []string           `json:"panels"`
	Media   *util.Media        `json:"media,omitempty"`
	State   model.AttemptState `json:"attemptState"`
	// Attempted 已开始过（无论是否结算）
	Attempted bool `json:"attempted"`
}

// Detail 管理员 preview 时跳过访问控制
func (s *ContentService) Detail(ctx context.Context, viewer model.Viewer, id uint, preview bool) (*ChapterDetail, error) {
	var content *model.Content
	if preview && viewer.IsAdmin {
		c, err := s.find(ctx, id)
		if err != nil {
			return nil, err
		}
		content = c
	} else {
		if !viewer.Known() {
			return nil, util.ErrNotAuthenticated
		}
		c, ok, err := s.Access.CanAccessContent(ctx, viewer, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, util.ErrChapterLocked
		}
		content = c
	}

	state, err := s.Attempts.State(ctx, viewer, content.ID)
	if err != nil {
		return nil, err
	}
	panels := content.PanelList()
	return &ChapterDetail{
		Content:   content,
		Panels:    panels,
		Media:     util.DetectMedia(panels),
		State:     state,
		Attempted: state != model.AttemptNone,
	}, nil
}

func (s *ContentService) find(ctx context.Context, id uint) (*model.Content, error) {
	content, err := s.ContentRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrContentNotFound
	}
	if err != nil {
		return nil, err
	}
	return content, nil
}

func (s *ContentService) List(ctx context.Context) ([]model.Content, error) {
	return s.ContentRepo.ListOrdered(ctx)
}

func (s *ContentService) Create(ctx context.Context, req *ContentRequest) (*model.Content, error) {
	content := &model.Content{}
	req.apply(content)
	if content.Title == "" {
		return nil, fmt.Errorf("title required: %w", util.ErrInvalidInput)
	}
	if err := s.ContentRepo.Create(ctx, content); err != nil {
		return nil, err
	}
	logger.Log.Info("chapter created",
		zap.Uint("contentID", content.ID),
		zap.Int("chapter", content.ChapterNumber),
		zap.Int("panels", len(content.PanelList())),
	)
	return content, nil
}

func (s *ContentService) Update(ctx context.Context, id uint, req *ContentRequest) (*model.Content, error) {
	content, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	req.apply(content)
	if content.Title == "" {
		return nil, fmt.Errorf("title required: %w", util.ErrInvalidInput)
	}
	if err := s.ContentRepo.Update(ctx, content); err != nil {
		return nil, err
	}
	return content, nil
}

// Toggle 切换管理员开放状态
func (s *ContentService) Toggle(ctx context.Context, id uint) (*model.Content, error) {
	content, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	content.IsUnlocked = !content.IsUnlocked
	if err := s.ContentRepo.Update(ctx, content); err != nil {
		return nil, err
	}
	logger.Log.Info("chapter toggled", zap.Uint("contentID", id), zap.Bool("unlocked", content.IsUnlocked))
	return content, nil
}

// Delete 连同该章节的所有尝试一起删除
func (s *ContentService) Delete(ctx context.Context, id uint) error {
	affected, err := s.ContentRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return util.ErrContentNotFound
	}
	logger.Log.Info("chapter deleted", zap.Uint("contentID", id))
	if s.Leaderboard != nil {
		s.Leaderboard.Invalidate(ctx)
	}
	return nil
}

func (s *ContentService) ListAttempts(ctx context.Context) ([]model.AttemptRecord, error) {
	records, err := s.AttemptRepo.ListRecent(ctx, adminAttemptListLimit)
	if records == nil {
		records = []model.AttemptRecord{}
	}
	return records, err
}

// UploadPanel 上传一张面板图片（或视频）并追加到章节末尾
func (s *ContentService) UploadPanel(ctx context.Context, id uint, file *multipart.FileHeader) (*model.Content, error) {
	content, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if file.Size > util.MaxPanelUploadBytes {
		return nil, fmt.Errorf("panel file too large: %w", util.ErrInvalidInput)
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	mimeType, err := util.ValidateMimeType(src, []string{util.MimeImage, util.MimeVideo})
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, util.ErrInvalidInput)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	filename := fmt.Sprintf("panels/chapter-%d/%s%s", content.ChapterNumber, uuid.NewString(), ext)
	url, err := s.StorageService.Upload(ctx, filename, src, file.Size, mimeType)
	if err != nil {
		return nil, err
	}

	content.Panels = model.EncodePanels(append(content.PanelList(), url))
	if err := s.ContentRepo.Update(ctx, content); err != nil {
		return nil, err
	}
	logger.Log.Info("panel uploaded", zap.Uint("contentID", id), zap.String("url", url))
	return content, nil
}
