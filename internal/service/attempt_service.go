package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/Navaneeth433/Murdermystery/internal/model"
	"github.com/Navaneeth433/Murdermystery/internal/repository"
	"github.com/Navaneeth433/Murdermystery/internal/util"
	"github.com/Navaneeth433/Murdermystery/pkg/logger"
	"github.com/Navaneeth433/Murdermystery/pkg/monitoring"
	"github.com/Navaneeth433/Murdermystery/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AttemptService 管理 NONE -> IN_PROGRESS -> FINALIZED 的状态流转
type AttemptService struct {
	Access      *AccessService
	ContentRepo *repository.ContentRepository
	AttemptRepo *repository.AttemptRepository
	DB          *gorm.DB
	Locker      ChapterLocker
	Leaderboard *LeaderboardService
	Now         func() time.Time

	mu           sync.RWMutex
	scorer       ScoringPolicy
	bonusEnabled bool
}

func NewAttemptService(
	access *AccessService,
	contentRepo *repository.ContentRepository,
	attemptRepo *repository.AttemptRepository,
	db *gorm.DB,
	locker ChapterLocker,
	leaderboard *LeaderboardService,
	scorer ScoringPolicy,
	bonusEnabled bool,
) *AttemptService {
	if locker == nil {
		locker = NewLocalChapterLocker()
	}
	return &AttemptService{
		Access:       access,
		ContentRepo:  contentRepo,
		AttemptRepo:  attemptRepo,
		DB:           db,
		Locker:       locker,
		Leaderboard:  leaderboard,
		Now:          time.Now,
		scorer:       scorer,
		bonusEnabled: bonusEnabled,
	}
}

// SetScoring 配置热更新时切换计分策略
func (s *AttemptService) SetScoring(scorer ScoringPolicy, bonusEnabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scorer = scorer
	s.bonusEnabled = bonusEnabled
}

func (s *AttemptService) scoring() (ScoringPolicy, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scorer, s.bonusEnabled
}

type StartResult struct {
	AttemptID uint `json:"attemptId"`
	TimeLimit int  `json:"timeLimit"`
}

// authorize 校验身份与访问权限，返回章节
func (s *AttemptService) authorize(ctx context.Context, viewer model.Viewer, contentID uint) (*model.Content, error) {
	if !viewer.Known() {
		return nil, util.ErrNotAuthenticated
	}
	content, ok, err := s.Access.CanAccessContent(ctx, viewer, contentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		monitoring.AccessDenied.Inc()
		return nil, util.ErrChapterLocked
	}
	return content, nil
}

// Start 开始挑战。唯一索引才是防重复的最终保障，预检查只是为了给出更早的错误。
func (s *AttemptService) Start(ctx context.Context, viewer model.Viewer, contentID uint) (result *StartResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "AttemptService.Start",
		attribute.Int64("viewer.id", int64(viewer.UserID)),
		attribute.Int64("content.id", int64(contentID)))
	defer func() { tracing.EndSpan(span, err) }()

	content, err := s.authorize(ctx, viewer, contentID)
	if err != nil {
		return nil, err
	}

	existing, err := s.AttemptRepo.FindByUserAndContent(ctx, viewer.UserID, contentID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, util.ErrAttemptExists
	}

	attempt := &model.Attempt{
		UserID:    viewer.UserID,
		ContentID: contentID,
		StartTime: s.Now(),
	}
	if err := s.AttemptRepo.Create(ctx, attempt); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrAttemptExists
		}
		return nil, err
	}

	monitoring.AttemptsStarted.WithLabelValues(strconv.Itoa(content.ChapterNumber)).Inc()
	logger.Log.Info("attempt started",
		zap.Uint("userID", viewer.UserID),
		zap.Uint("contentID", contentID),
		zap.Int("chapter", content.ChapterNumber),
	)

	return &StartResult{AttemptID: attempt.ID, TimeLimit: content.TimeLimit}, nil
}

// Submit 结算挑战。同一章节的结算串行执行，写入只发生一次。
func (s *AttemptService) Submit(ctx context.Context, viewer model.Viewer, contentID uint, completed bool) (breakdown *ScoreBreakdown, err error) {
	ctx, span := tracing.StartSpan(ctx, "AttemptService.Submit",
		attribute.Int64("viewer.id", int64(viewer.UserID)),
		attribute.Int64("content.id", int64(contentID)),
		attribute.Bool("completed", completed))
	defer func() { tracing.EndSpan(span, err) }()

	content, err := s.authorize(ctx, viewer, contentID)
	if err != nil {
		return nil, err
	}

	unlock, err := s.Locker.Lock(ctx, contentID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	scorer, bonusEnabled := s.scoring()

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		attempts := s.AttemptRepo.WithTx(tx)
		contents := s.ContentRepo.WithTx(tx)

		attempt, err := attempts.FindByUserAndContent(ctx, viewer.UserID, contentID)
		if err != nil {
			return err
		}
		switch attempt.State() {
		case model.AttemptNone:
			return util.ErrAttemptNotFound
		case model.AttemptFinalized:
			return util.ErrAttemptFinalized
		}

		now := s.Now()
		elapsed := int(now.Sub(attempt.StartTime).Seconds())
		if elapsed < 0 {
			elapsed = 0
		}

		chapterPoints := scorer.Score(elapsed, content.TimeLimit, completed)
		bonus := 0
		if completed && bonusEnabled {
			maxChapter, err := contents.MaxChapterNumber(ctx)
			if err != nil {
				return err
			}
			if content.ChapterNumber == maxChapter {
				prior, err := attempts.CountCompletedByOthers(ctx, contentID, viewer.UserID)
				if err != nil {
					return err
				}
				bonus = SolverBonus(prior)
			}
		}

		written, err := attempts.Finalize(ctx, attempt.ID, repository.FinalizeFields{
			EndTime:     now,
			TimeTaken:   elapsed,
			Completed:   completed,
			Score:       chapterPoints + float64(bonus),
			BonusPoints: bonus,
		})
		if err != nil {
			return err
		}
		if !written {
			return util.ErrAttemptFinalized
		}

		breakdown = &ScoreBreakdown{
			Completed:     completed,
			TimeTaken:     elapsed,
			ChapterPoints: chapterPoints,
			BonusPoints:   bonus,
			TotalPoints:   chapterPoints + float64(bonus),
			Policy:        scorer.Name(),
			Revealed:      completed && content.ChapterNumber == s.Access.Rules.Trigger,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	chapter := strconv.Itoa(content.ChapterNumber)
	monitoring.AttemptsFinalized.WithLabelValues(chapter, strconv.FormatBool(completed)).Inc()
	if breakdown.BonusPoints > 0 {
		monitoring.SolverBonuses.WithLabelValues(strconv.Itoa(breakdown.BonusPoints)).Inc()
		logger.Log.Info("solver bonus granted",
			zap.Uint("userID", viewer.UserID),
			zap.Int("chapter", content.ChapterNumber),
			zap.Int("bonus", breakdown.BonusPoints),
		)
	}
	logger.Log.Info("attempt finalized",
		zap.Uint("userID", viewer.UserID),
		zap.Uint("contentID", contentID),
		zap.Bool("completed", completed),
		zap.Float64("score", breakdown.TotalPoints),
	)

	if s.Leaderboard != nil {
		s.Leaderboard.Invalidate(ctx)
	}
	return breakdown, nil
}

// State 当前用户在该章节上的尝试状态
func (s *AttemptService) State(ctx context.Context, viewer model.Viewer, contentID uint) (model.AttemptState, error) {
	if !viewer.Known() {
		return model.AttemptNone, nil
	}
	attempt, err := s.AttemptRepo.FindByUserAndContent(ctx, viewer.UserID, contentID)
	if err != nil {
		return model.AttemptNone, err
	}
	return attempt.State(), nil
}
