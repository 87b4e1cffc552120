package service

import (
	"context"
	"testing"
	"time"

	"github.com/Navaneeth433/Murdermystery/internal/config"
	"github.com/Navaneeth433/Murdermystery/internal/model"
	"github.com/Navaneeth433/Murdermystery/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		JWT:   config.JWTConfig{Secret: "test-secret-test-secret-test-secret", ExpireTime: time.Hour},
		Admin: config.AdminConfig{Username: "warden", Password: "s3cret-pass"},
	}
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	cfg := testConfig()
	auth, err := NewAuthService(env.users, cfg)
	require.NoError(t, err)

	session, err := auth.Register(ctx, " Holmes ", " Sherlock@Baker.St ")
	require.NoError(t, err)
	assert.Equal(t, "sherlock@baker.st", session.User.Email)
	assert.Equal(t, "Holmes", session.User.Name)
	assert.False(t, session.Admin)

	claims, err := util.ParseJWT(session.Token, cfg.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, claims.UserID)
	assert.False(t, claims.IsAdmin)

	_, err = auth.Register(ctx, "Other", "SHERLOCK@baker.st")
	assert.ErrorIs(t, err, util.ErrConflict)

	login, err := auth.Login(ctx, "sherlock@BAKER.st")
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, login.User.ID)

	_, err = auth.Login(ctx, "watson@baker.st")
	assert.ErrorIs(t, err, util.ErrNotFound)

	_, err = auth.Register(ctx, "", "x@y.z")
	assert.ErrorIs(t, err, util.ErrInvalidInput)

	me, err := auth.CurrentUser(ctx, model.Viewer{UserID: session.User.ID})
	require.NoError(t, err)
	assert.Equal(t, "Holmes", me.Name)

	_, err = auth.CurrentUser(ctx, model.Anonymous())
	assert.ErrorIs(t, err, util.ErrForbidden)
}

func TestAuthService_AdminLogin(t *testing.T) {
	env := newTestEnv(t)
	cfg := testConfig()
	auth, err := NewAuthService(env.users, cfg)
	require.NoError(t, err)

	session, err := auth.AdminLogin("warden", "s3cret-pass")
	require.NoError(t, err)
	assert.True(t, session.Admin)

	claims, err := util.ParseJWT(session.Token, cfg.JWT.Secret)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin)
	assert.Zero(t, claims.UserID)

	_, err = auth.AdminLogin("warden", "wrong")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
	_, err = auth.AdminLogin("root", "s3cret-pass")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}
