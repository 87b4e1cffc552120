package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/Navaneeth433/Murdermystery/internal/model"
	"github.com/Navaneeth433/Murdermystery/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.newUser(t, "start@example.com")
	ch1 := env.newChapter(t, 1, withTimeLimit(300))
	ch2 := env.newChapter(t, 2)

	res, err := env.attempts.Start(ctx, u, ch1.ID)
	require.NoError(t, err)
	assert.NotZero(t, res.AttemptID)
	assert.Equal(t, 300, res.TimeLimit)

	state, err := env.attempts.State(ctx, u, ch1.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AttemptInProgress, state)

	t.Run("second start conflicts", func(t *testing.T) {
		_, err := env.attempts.Start(ctx, u, ch1.ID)
		assert.ErrorIs(t, err, util.ErrConflict)

		var count int64
		require.NoError(t, env.db.Model(&model.Attempt{}).
			Where("user_id = ? AND content_id = ?", u.UserID, ch1.ID).Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})

	t.Run("anonymous is forbidden", func(t *testing.T) {
		_, err := env.attempts.Start(ctx, model.Anonymous(), ch1.ID)
		assert.ErrorIs(t, err, util.ErrForbidden)
	})

	t.Run("locked chapter is forbidden", func(t *testing.T) {
		_, err := env.attempts.Start(ctx, u, ch2.ID)
		assert.ErrorIs(t, err, util.ErrForbidden)
	})

	t.Run("missing chapter", func(t *testing.T) {
		_, err := env.attempts.Start(ctx, u, 12345)
		assert.ErrorIs(t, err, util.ErrNotFound)
	})
}

// 预检查并发时可能都通过，此时由唯一索引兜底
func TestStart_ConcurrentCallsCreateOneAttempt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.newUser(t, "race@example.com")
	ch1 := env.newChapter(t, 1)

	const n = 8
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.attempts.Start(ctx, u, ch1.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, util.ErrConflict)
	}
	assert.Equal(t, 1, succeeded)

	var count int64
	require.NoError(t, env.db.Model(&model.Attempt{}).
		Where("user_id = ? AND content_id = ?", u.UserID, ch1.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSubmit_AccessRevokedAfterStart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.newUser(t, "revoked@example.com")
	ch1 := env.newChapter(t, 1)

	_, err := env.attempts.Start(ctx, u, ch1.ID)
	require.NoError(t, err)

	ch1.IsUnlocked = false
	require.NoError(t, env.contents.Update(ctx, ch1))

	_, err = env.attempts.Submit(ctx, u, ch1.ID, true)
	assert.ErrorIs(t, err, util.ErrForbidden)

	state, err := env.attempts.State(ctx, u, ch1.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AttemptInProgress, state)
}

func TestSubmit_WriteOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.newUser(t, "once@example.com")
	ch1 := env.newChapter(t, 1)
	env.newChapter(t, 2)

	_, err := env.attempts.Submit(ctx, u, ch1.ID, true)
	assert.ErrorIs(t, err, util.ErrNotFound, "submit before start")

	_, err = env.attempts.Start(ctx, u, ch1.ID)
	require.NoError(t, err)
	env.advance(42 * time.Second)

	b, err := env.attempts.Submit(ctx, u, ch1.ID, false)
	require.NoError(t, err)
	assert.False(t, b.Completed)
	assert.Equal(t, 42, b.TimeTaken)
	assert.Equal(t, 0.0, b.TotalPoints)

	env.advance(time.Minute)
	_, err = env.attempts.Submit(ctx, u, ch1.ID, true)
	assert.ErrorIs(t, err, util.ErrConflict)

	a, err := env.attemptRepo.FindByUserAndContent(ctx, u.UserID, ch1.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AttemptFinalized, a.State())
	assert.False(t, a.Completed)
	require.NotNil(t, a.TimeTaken)
	assert.Equal(t, 42, *a.TimeTaken)
	require.NotNil(t, a.Score)
	assert.Equal(t, 0.0, *a.Score)
}

func TestSubmit_ClampsNegativeElapsed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.newUser(t, "clock@example.com")
	ch1 := env.newChapter(t, 1)
	env.newChapter(t, 2)

	_, err := env.attempts.Start(ctx, u, ch1.ID)
	require.NoError(t, err)
	env.advance(-10 * time.Minute)

	b, err := env.attempts.Submit(ctx, u, ch1.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 0, b.TimeTaken)
}

func TestSubmit_TimeWeighted(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.attempts.SetScoring(TimeWeightedPolicy{}, true)
	u := env.newUser(t, "fast@example.com")
	ch1 := env.newChapter(t, 1, withTimeLimit(100))
	env.newChapter(t, 2)

	_, err := env.attempts.Start(ctx, u, ch1.ID)
	require.NoError(t, err)
	env.advance(50 * time.Second)

	b, err := env.attempts.Submit(ctx, u, ch1.ID, true)
	require.NoError(t, err)
	assert.Equal(t, PolicyTimeWeighted, b.Policy)
	assert.InDelta(t, 85.0, b.ChapterPoints, 1e-9)
	assert.Equal(t, 0, b.BonusPoints)
}

func TestSubmit_FirstSolverBonus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	final := env.newChapter(t, 1)

	want := []int{FirstSolverBonus, SecondSolverBonus, LaterSolverBonus, LaterSolverBonus}
	for i, bonus := range want {
		u := env.newUser(t, string(rune('a'+i))+"@example.com")
		b := env.solve(t, u, final)
		assert.Equal(t, bonus, b.BonusPoints, "solver #%d", i+1)
		assert.Equal(t, 100.0, b.ChapterPoints)
		assert.Equal(t, 100.0+float64(bonus), b.TotalPoints)

		a, err := env.attemptRepo.FindByUserAndContent(ctx, u.UserID, final.ID)
		require.NoError(t, err)
		assert.Equal(t, bonus, a.BonusPoints)
		assert.Equal(t, 100.0+float64(bonus), *a.Score)
	}
}

func TestSubmit_BonusOnlyOnFinalChapter(t *testing.T) {
	env := newTestEnv(t)
	u := env.newUser(t, "early@example.com")
	ch1 := env.newChapter(t, 1)
	env.newChapter(t, 2)

	b := env.solve(t, u, ch1)
	assert.Equal(t, 0, b.BonusPoints)
	assert.Equal(t, 100.0, b.TotalPoints)
}

func TestSubmit_BonusDisabled(t *testing.T) {
	env := newTestEnv(t)
	env.attempts.SetScoring(CompletionPolicy{}, false)
	u := env.newUser(t, "plain@example.com")
	final := env.newChapter(t, 1)

	b := env.solve(t, u, final)
	assert.Equal(t, 0, b.BonusPoints)
}

func TestSubmit_FailedAttemptEarnsNoBonus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	final := env.newChapter(t, 1)

	quitter := env.newUser(t, "quit@example.com")
	_, err := env.attempts.Start(ctx, quitter, final.ID)
	require.NoError(t, err)
	b, err := env.attempts.Submit(ctx, quitter, final.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 0, b.BonusPoints)

	// 失败的尝试不计入先解者次数
	solver := env.newUser(t, "solver@example.com")
	assert.Equal(t, FirstSolverBonus, env.solve(t, solver, final).BonusPoints)
}

func TestSubmit_ConcurrentSolversGetDistinctBonuses(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	final := env.newChapter(t, 1)

	const solvers = 5
	viewers := make([]model.Viewer, solvers)
	for i := range viewers {
		viewers[i] = env.newUser(t, string(rune('k'+i))+"@example.com")
		_, err := env.attempts.Start(ctx, viewers[i], final.ID)
		require.NoError(t, err)
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		bonuses []int
	)
	for _, v := range viewers {
		wg.Add(1)
		go func(v model.Viewer) {
			defer wg.Done()
			b, err := env.attempts.Submit(ctx, v, final.ID, true)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			bonuses = append(bonuses, b.BonusPoints)
			mu.Unlock()
		}(v)
	}
	wg.Wait()

	sort.Sort(sort.Reverse(sort.IntSlice(bonuses)))
	assert.Equal(t, []int{500, 200, 100, 100, 100}, bonuses)
}

func TestSubmit_RevealsHiddenTier(t *testing.T) {
	env := newTestEnv(t)
	u := env.newUser(t, "reveal@example.com")

	var last *ScoreBreakdown
	for n := 1; n <= 6; n++ {
		last = env.solve(t, u, env.newChapter(t, n))
		if n < 6 {
			assert.False(t, last.Revealed)
		}
	}
	assert.True(t, last.Revealed)
}

func TestEndToEnd_CompletingChapterOneOpensChapterTwo(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	auth, err := NewAuthService(env.users, testConfig())
	require.NoError(t, err)

	ch1 := env.newChapter(t, 1)
	ch2 := env.newChapter(t, 2)

	session, err := auth.Register(ctx, "Alice", "Alice@Example.com")
	require.NoError(t, err)
	alice := model.Viewer{UserID: session.User.ID}

	ok, err := env.access.IsAccessible(ctx, alice, ch2)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = env.attempts.Start(ctx, alice, ch1.ID)
	require.NoError(t, err)
	_, err = env.attempts.Submit(ctx, alice, ch1.ID, true)
	require.NoError(t, err)

	ok, err = env.access.IsAccessible(ctx, alice, ch2)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = env.attempts.Start(ctx, alice, ch2.ID)
	assert.NoError(t, err)
}
