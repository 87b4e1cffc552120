package service

import (
	"context"
	"testing"
	"time"

	"github.com/Navaneeth433/Murdermystery/internal/config"
	"github.com/Navaneeth433/Murdermystery/internal/model"
	"github.com/Navaneeth433/Murdermystery/internal/repository"
	"github.com/Navaneeth433/Murdermystery/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(&config.DatabaseConfig{
		Driver:   "sqlite",
		Path:     "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on",
		LogLevel: "silent",
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

type testEnv struct {
	db          *gorm.DB
	users       *repository.UserRepository
	contents    *repository.ContentRepository
	attemptRepo *repository.AttemptRepository
	access      *AccessService
	attempts    *AttemptService
	leaderboard *LeaderboardService

	clock time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	env := &testEnv{
		db:          db,
		users:       repository.NewUserRepository(db),
		contents:    repository.NewContentRepository(db),
		attemptRepo: repository.NewAttemptRepository(db),
		clock:       time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	now := func() time.Time { return env.clock }

	env.access = NewAccessService(env.contents, env.attemptRepo, DefaultChapterRules())
	env.access.Now = now
	env.leaderboard = NewLeaderboardService(env.attemptRepo, nil, 0)
	env.attempts = NewAttemptService(env.access, env.contents, env.attemptRepo, db, nil, env.leaderboard, CompletionPolicy{}, true)
	env.attempts.Now = now
	return env
}

func (e *testEnv) advance(d time.Duration) {
	e.clock = e.clock.Add(d)
}

func (e *testEnv) newUser(t *testing.T, email string) model.Viewer {
	t.Helper()
	u := &model.User{Name: email, Email: email}
	require.NoError(t, e.users.Create(context.Background(), u))
	return model.Viewer{UserID: u.ID}
}

// newChapter 默认已开放、不限时
func (e *testEnv) newChapter(t *testing.T, number int, opts ...func(*model.Content)) *model.Content {
	t.Helper()
	c := &model.Content{
		Title:         "Chapter",
		ChapterNumber: number,
		IsUnlocked:    true,
	}
	for _, opt := range opts {
		opt(c)
	}
	require.NoError(t, e.contents.Create(context.Background(), c))
	return c
}

func (e *testEnv) solve(t *testing.T, viewer model.Viewer, content *model.Content) *ScoreBreakdown {
	t.Helper()
	ctx := context.Background()
	_, err := e.attempts.Start(ctx, viewer, content.ID)
	require.NoError(t, err)
	b, err := e.attempts.Submit(ctx, viewer, content.ID, true)
	require.NoError(t, err)
	return b
}

func locked(c *model.Content) { c.IsUnlocked = false }

func withTimeLimit(seconds int) func(*model.Content) {
	return func(c *model.Content) { c.TimeLimit = seconds }
}

func unlockAt(at time.Time) func(*model.Content) {
	return func(c *model.Content) { c.UnlockTime = &at }
}
