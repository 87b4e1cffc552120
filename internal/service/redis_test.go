package service

import (
	"context"
	"testing"
	"time"

	"github.com/Navaneeth433/Murdermystery/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

func TestRedisChapterLocker(t *testing.T) {
	mr, rdb := newTestRedis(t)
	l := NewRedisChapterLocker(rdb)
	l.Retry = 5 * time.Millisecond
	ctx := context.Background()
	const key = "chapter:finalize:1"

	unlock, err := l.Lock(ctx, 1)
	require.NoError(t, err)
	assert.True(t, mr.Exists(key))
	assert.Equal(t, l.TTL, mr.TTL(key))

	t.Run("held lock blocks until context ends", func(t *testing.T) {
		waitCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()
		_, err := l.Lock(waitCtx, 1)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("other chapters are independent", func(t *testing.T) {
		other, err := l.Lock(ctx, 2)
		require.NoError(t, err)
		other()
		assert.False(t, mr.Exists("chapter:finalize:2"))
	})

	t.Run("release only deletes own token", func(t *testing.T) {
		// 锁过期后被其他实例重新持有
		require.NoError(t, mr.Set(key, "someone-else"))
		unlock()
		got, err := mr.Get(key)
		require.NoError(t, err)
		assert.Equal(t, "someone-else", got)
	})

	mr.Del(key)
	again, err := l.Lock(ctx, 1)
	require.NoError(t, err)
	again()
	assert.False(t, mr.Exists(key))
}

func totalFor(entries []model.LeaderboardEntry, userID uint) float64 {
	for _, e := range entries {
		if e.UserID == userID {
			return e.TotalScore
		}
	}
	return -1
}

func TestLeaderboard_RedisCacheInvalidatedOnSubmit(t *testing.T) {
	mr, rdb := newTestRedis(t)
	env := newTestEnv(t)
	ctx := context.Background()

	env.leaderboard = NewLeaderboardService(env.attemptRepo, rdb, time.Minute)
	env.attempts.Leaderboard = env.leaderboard
	env.attempts.Locker = NewRedisChapterLocker(rdb)

	alice := env.newUser(t, "alice@example.com")
	bob := env.newUser(t, "bob@example.com")
	ch1 := env.newChapter(t, 1)
	ch2 := env.newChapter(t, 2)

	env.solve(t, alice, ch1)
	entries, err := env.leaderboard.Leaderboard(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, totalFor(entries, bob.UserID))
	assert.True(t, mr.Exists(leaderboardCacheKey))

	// 绕过服务直接写库，缓存不受影响
	require.NoError(t, env.attemptRepo.Create(ctx, &model.Attempt{
		UserID: bob.UserID, ContentID: ch1.ID, StartTime: env.clock, Score: scored(100),
	}))
	entries, err = env.leaderboard.Leaderboard(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, totalFor(entries, bob.UserID), "served from cache")

	env.solve(t, alice, ch2)
	assert.False(t, mr.Exists(leaderboardCacheKey))

	entries, err = env.leaderboard.Leaderboard(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 100.0, totalFor(entries, bob.UserID))
}

func TestLeaderboard_CancelledCallerDoesNotFailQuery(t *testing.T) {
	env := newTestEnv(t)
	alice := env.newUser(t, "alice@example.com")
	env.solve(t, alice, env.newChapter(t, 1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	entries, err := env.leaderboard.Leaderboard(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
