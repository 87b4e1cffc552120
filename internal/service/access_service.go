package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/Navaneeth433/Murdermystery/internal/config"
	"github.com/Navaneeth433/Murdermystery/internal/model"
	"github.com/Navaneeth433/Murdermystery/internal/repository"
	"github.com/Navaneeth433/Murdermystery/internal/util"
	"github.com/Navaneeth433/Murdermystery/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

// ChapterRules 章节解锁规则：
//   - First 及之前的章节没有前置要求
//   - 其余普通章节要求完成上一编号章节
//   - Hidden 中的章节只在完成 Trigger 章节后出现
type ChapterRules struct {
	First   int
	Trigger int
	Hidden  []int
}

func DefaultChapterRules() ChapterRules {
	return ChapterRules{First: 1, Trigger: 6, Hidden: []int{7, 8}}
}

func RulesFromConfig(cfg config.ChaptersConfig) ChapterRules {
	return ChapterRules{First: cfg.First, Trigger: cfg.Trigger, Hidden: cfg.Hidden}
}

func (r ChapterRules) IsHidden(number int) bool {
	for _, n := range r.Hidden {
		if n == number {
			return true
		}
	}
	return false
}

type AccessService struct {
	ContentRepo *repository.ContentRepository
	AttemptRepo *repository.AttemptRepository
	Rules       ChapterRules
	Now         func() time.Time
}

func NewAccessService(contentRepo *repository.ContentRepository, attemptRepo *repository.AttemptRepository, rules ChapterRules) *AccessService {
	return &AccessService{
		ContentRepo: contentRepo,
		AttemptRepo: attemptRepo,
		Rules:       rules,
		Now:         time.Now,
	}
}

// progress 单次判定内缓存“是否完成第 N 章”的查询结果
type progress struct {
	s      *AccessService
	userID uint
	done   map[int]bool
}

func (s *AccessService) progressFor(viewer model.Viewer) *progress {
	return &progress{s: s, userID: viewer.UserID, done: make(map[int]bool)}
}

func (p *progress) completed(ctx context.Context, number int) (bool, error) {
	if p.userID == 0 {
		return false, nil
	}
	if v, ok := p.done[number]; ok {
		return v, nil
	}
	v, err := p.s.HasCompletedChapter(ctx, p.userID, number)
	if err != nil {
		return false, err
	}
	p.done[number] = v
	return v, nil
}

// HasCompletedChapter 该编号没有对应章节时视为未完成
func (s *AccessService) HasCompletedChapter(ctx context.Context, userID uint, number int) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	content, err := s.ContentRepo.FindByChapterNumber(ctx, number)
	if err != nil || content == nil {
		return false, err
	}
	return s.AttemptRepo.HasCompleted(ctx, userID, content.ID)
}

// HiddenTierRevealed 匿名用户恒为 false
func (s *AccessService) HiddenTierRevealed(ctx context.Context, viewer model.Viewer) (bool, error) {
	return s.progressFor(viewer).completed(ctx, s.Rules.Trigger)
}

// IsAccessible 编号重复时只有 id 最小的那条可以进入，与章节列表和进度判定保持一致
func (s *AccessService) IsAccessible(ctx context.Context, viewer model.Viewer, content *model.Content) (bool, error) {
	first, err := s.ContentRepo.FindByChapterNumber(ctx, content.ChapterNumber)
	if err != nil {
		return false, err
	}
	if first != nil && first.ID != content.ID {
		return false, nil
	}
	return s.decide(ctx, s.progressFor(viewer), content, s.Now())
}

func (s *AccessService) decide(ctx context.Context, p *progress, content *model.Content, now time.Time) (bool, error) {
	if s.Rules.IsHidden(content.ChapterNumber) {
		// 隐藏章节不受管理员开关和定时限制
		return p.completed(ctx, s.Rules.Trigger)
	}
	if !content.UnlockedAt(now) {
		return false, nil
	}
	if content.ChapterNumber <= s.Rules.First {
		return true, nil
	}
	return p.completed(ctx, content.ChapterNumber-1)
}

// CanAccessContent start/submit/详情页使用的入口
func (s *AccessService) CanAccessContent(ctx context.Context, viewer model.Viewer, contentID uint) (*model.Content, bool, error) {
	content, err := s.ContentRepo.FindByID(ctx, contentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, util.ErrContentNotFound
	}
	if err != nil {
		return nil, false, err
	}
	ok, err := s.IsAccessible(ctx, viewer, content)
	return content, ok, err
}

// VisibleChapters 章节页：First..Trigger 每个编号都占一格（缺失即占位），
// 隐藏章节仅在揭晓后出现。
func (s *AccessService) VisibleChapters(ctx context.Context, viewer model.Viewer) (listing *model.ChapterListing, err error) {
	ctx, span := tracing.StartSpan(ctx, "AccessService.VisibleChapters",
		attribute.Int64("viewer.id", int64(viewer.UserID)))
	defer func() { tracing.EndSpan(span, err) }()

	p := s.progressFor(viewer)
	now := s.Now()

	revealed, err := p.completed(ctx, s.Rules.Trigger)
	if err != nil {
		return nil, err
	}

	contents, err := s.ContentRepo.ListOrdered(ctx)
	if err != nil {
		return nil, err
	}

	shown := make(map[int]model.Chapter)
	seen := make(map[int]bool)
	var extra []model.Chapter
	for i := range contents {
		c := &contents[i]
		// 编号重复时只看 id 最小的那条
		if seen[c.ChapterNumber] {
			continue
		}
		seen[c.ChapterNumber] = true
		if s.Rules.IsHidden(c.ChapterNumber) {
			if revealed {
				shown[c.ChapterNumber] = model.RealChapter(c, true)
			}
			continue
		}
		if !c.UnlockedAt(now) {
			continue
		}
		accessible, err := s.decide(ctx, p, c, now)
		if err != nil {
			return nil, err
		}
		shown[c.ChapterNumber] = model.RealChapter(c, accessible)
	}

	var chapters []model.Chapter
	slot := func(n int) {
		if ch, ok := shown[n]; ok {
			chapters = append(chapters, ch)
			delete(shown, n)
			return
		}
		chapters = append(chapters, model.PlaceholderChapter(n))
	}
	for n := s.Rules.First; n <= s.Rules.Trigger; n++ {
		slot(n)
	}
	if revealed {
		for _, n := range s.Rules.Hidden {
			slot(n)
		}
	}
	// 超出固定格位的普通章节（例如第 9 章）按编号追加
	for _, ch := range shown {
		extra = append(extra, ch)
	}
	chapters = append(chapters, extra...)
	sort.SliceStable(chapters, func(i, j int) bool {
		return chapters[i].Number < chapters[j].Number
	})

	return &model.ChapterListing{Chapters: chapters, Revealed: revealed}, nil
}
