package service

import (
	"context"
	"encoding/json"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/Navaneeth433/Murdermystery/internal/model"
	"github.com/Navaneeth433/Murdermystery/internal/repository"
	"github.com/Navaneeth433/Murdermystery/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const leaderboardCacheKey = "leaderboard:totals"

// LeaderboardService 汇总每个用户所有尝试的得分
type LeaderboardService struct {
	AttemptRepo *repository.AttemptRepository
	Redis       *redis.Client
	CacheTTL    time.Duration

	group singleflight.Group
	limit atomic.Int64
}

func NewLeaderboardService(attemptRepo *repository.AttemptRepository, rdb *redis.Client, cacheTTL time.Duration) *LeaderboardService {
	return &LeaderboardService{
		AttemptRepo: attemptRepo,
		Redis:       rdb,
		CacheTTL:    cacheTTL,
	}
}

// SetLimit 接口默认返回的条数，可随配置热更新
func (s *LeaderboardService) SetLimit(limit int) {
	s.limit.Store(int64(limit))
}

func (s *LeaderboardService) Limit() int {
	return int(s.limit.Load())
}

// Leaderboard limit <= 0 表示不截断
func (s *LeaderboardService) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	field := strconv.Itoa(limit)
	if entries, ok := s.cached(ctx, field); ok {
		return entries, nil
	}

	// 合并后的查询由多个请求共享，不能随第一个请求取消
	shared := context.WithoutCancel(ctx)
	v, err, _ := s.group.Do(field, func() (interface{}, error) {
		entries, err := s.AttemptRepo.Leaderboard(shared, limit)
		if err != nil {
			return nil, err
		}
		if entries == nil {
			entries = []model.LeaderboardEntry{}
		}
		s.store(shared, field, entries)
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.LeaderboardEntry), nil
}

// Invalidate 有新的结算时清空缓存
func (s *LeaderboardService) Invalidate(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, leaderboardCacheKey).Err(); err != nil {
		logger.Log.Warn("leaderboard cache invalidate failed", zap.Error(err))
	}
}

func (s *LeaderboardService) cached(ctx context.Context, field string) ([]model.LeaderboardEntry, bool) {
	if s.Redis == nil || s.CacheTTL <= 0 {
		return nil, false
	}
	raw, err := s.Redis.HGet(ctx, leaderboardCacheKey, field).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Log.Warn("leaderboard cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var entries []model.LeaderboardEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false
	}
	return entries, true
}

func (s *LeaderboardService) store(ctx context.Context, field string, entries []model.LeaderboardEntry) {
	if s.Redis == nil || s.CacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}
	pipe := s.Redis.TxPipeline()
	pipe.HSet(ctx, leaderboardCacheKey, field, raw)
	pipe.Expire(ctx, leaderboardCacheKey, s.CacheTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Log.Warn("leaderboard cache write failed", zap.Error(err))
	}
}
