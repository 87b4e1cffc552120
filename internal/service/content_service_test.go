package service

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Navaneeth433/Murdermystery/internal/model"
	"github.com/Navaneeth433/Murdermystery/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContentService(t *testing.T, env *testEnv) (*ContentService, string) {
	t.Helper()
	root := t.TempDir()
	storage := &StorageService{Provider: &LocalStorageProvider{Root: root}}
	return NewContentService(env.contents, env.attemptRepo, env.access, env.attempts, storage, env.leaderboard), root
}

func TestContentService_CreateParsesPanels(t *testing.T) {
	env := newTestEnv(t)
	svc, _ := newContentService(t, env)
	ctx := context.Background()

	c, err := svc.Create(ctx, &ContentRequest{
		Title:         "  The Study  ",
		ChapterNumber: 1,
		IsUnlocked:    true,
		Panels:        "panel one: https://cdn.example.com/1.png, and 'https://cdn.example.com/2.png'",
	})
	require.NoError(t, err)
	assert.Equal(t, "The Study", c.Title)
	assert.Equal(t, []string{"https://cdn.example.com/1.png", "https://cdn.example.com/2.png"}, c.PanelList())

	updated, err := svc.Update(ctx, c.ID, &ContentRequest{
		Title:         "The Study",
		ChapterNumber: 1,
		TimeLimit:     600,
		IsUnlocked:    true,
		Panels:        `{"panels": ["https://cdn.example.com/3.png"]}`,
	})
	require.NoError(t, err)
	assert.Equal(t, 600, updated.TimeLimit)
	assert.Equal(t, []string{"https://cdn.example.com/3.png"}, updated.PanelList())

	_, err = svc.Update(ctx, 999, &ContentRequest{Title: "x", ChapterNumber: 1})
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestContentService_Toggle(t *testing.T) {
	env := newTestEnv(t)
	svc, _ := newContentService(t, env)
	ctx := context.Background()
	c := env.newChapter(t, 1)

	toggled, err := svc.Toggle(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsUnlocked)

	ok, err := env.access.IsAccessible(ctx, model.Anonymous(), toggled)
	require.NoError(t, err)
	assert.False(t, ok)

	toggled, err = svc.Toggle(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsUnlocked)
}

func TestContentService_DeleteRemovesAttempts(t *testing.T) {
	env := newTestEnv(t)
	svc, _ := newContentService(t, env)
	ctx := context.Background()
	u := env.newUser(t, "gone@example.com")
	c := env.newChapter(t, 1)
	env.solve(t, u, c)

	require.NoError(t, svc.Delete(ctx, c.ID))

	var count int64
	require.NoError(t, env.db.Model(&model.Attempt{}).Where("content_id = ?", c.ID).Count(&count).Error)
	assert.Zero(t, count)

	assert.ErrorIs(t, svc.Delete(ctx, c.ID), util.ErrNotFound)
}

func TestContentService_Detail(t *testing.T) {
	env := newTestEnv(t)
	svc, _ := newContentService(t, env)
	ctx := context.Background()
	u := env.newUser(t, "reader@example.com")

	ch1 := env.newChapter(t, 1, func(c *model.Content) {
		c.Panels = model.EncodePanels([]string{"https://youtu.be/abc123"})
	})
	ch2 := env.newChapter(t, 2, locked)

	d, err := svc.Detail(ctx, u, ch1.ID, false)
	require.NoError(t, err)
	assert.False(t, d.Attempted)
	assert.Equal(t, model.AttemptNone, d.State)
	require.NotNil(t, d.Media)
	assert.Equal(t, util.MediaYouTube, d.Media.Type)
	assert.Contains(t, d.Media.URL, "/embed/abc123")

	// 查看详情不会创建尝试，计时从 start 开始
	var count int64
	require.NoError(t, env.db.Model(&model.Attempt{}).Where("user_id = ?", u.UserID).Count(&count).Error)
	assert.Zero(t, count)

	env.solve(t, u, ch1)
	d, err = svc.Detail(ctx, u, ch1.ID, false)
	require.NoError(t, err)
	assert.True(t, d.Attempted)
	assert.Equal(t, model.AttemptFinalized, d.State)

	_, err = svc.Detail(ctx, u, ch2.ID, false)
	assert.ErrorIs(t, err, util.ErrForbidden)

	_, err = svc.Detail(ctx, model.Anonymous(), ch1.ID, false)
	assert.ErrorIs(t, err, util.ErrForbidden)

	// preview 只对管理员生效
	_, err = svc.Detail(ctx, u, ch2.ID, true)
	assert.ErrorIs(t, err, util.ErrForbidden)

	d, err = svc.Detail(ctx, model.Viewer{IsAdmin: true}, ch2.ID, true)
	require.NoError(t, err)
	assert.Equal(t, ch2.ID, d.Content.ID)
	assert.Empty(t, d.Panels)
	assert.Nil(t, d.Media)
}

func TestContentService_ListAttempts(t *testing.T) {
	env := newTestEnv(t)
	svc, _ := newContentService(t, env)
	ctx := context.Background()

	records, err := svc.ListAttempts(ctx)
	require.NoError(t, err)
	assert.NotNil(t, records)

	u := env.newUser(t, "row@example.com")
	c := env.newChapter(t, 1, func(c *model.Content) { c.Title = "Prologue" })
	env.solve(t, u, c)

	records, err = svc.ListAttempts(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "row@example.com", records[0].UserEmail)
	assert.Equal(t, "Prologue", records[0].ContentTitle)
	assert.True(t, records[0].Completed)
	require.NotNil(t, records[0].EndTime)
}

// pngHeader 足以让 http.DetectContentType 识别为 image/png
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func multipartFile(t *testing.T, name string, data []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func TestContentService_UploadPanel(t *testing.T) {
	env := newTestEnv(t)
	svc, root := newContentService(t, env)
	ctx := context.Background()
	c := env.newChapter(t, 3, func(c *model.Content) {
		c.Panels = model.EncodePanels([]string{"https://cdn.example.com/a.png"})
	})

	updated, err := svc.UploadPanel(ctx, c.ID, multipartFile(t, "scene.PNG", pngHeader))
	require.NoError(t, err)

	panels := updated.PanelList()
	require.Len(t, panels, 2)
	assert.Equal(t, "https://cdn.example.com/a.png", panels[0])
	assert.True(t, strings.HasPrefix(panels[1], "/uploads/panels/chapter-3/"))
	assert.True(t, strings.HasSuffix(panels[1], ".png"))

	stored := filepath.Join(root, strings.TrimPrefix(panels[1], "/uploads/"))
	data, err := os.ReadFile(stored)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)

	_, err = svc.UploadPanel(ctx, c.ID, multipartFile(t, "notes.txt", []byte("just some text")))
	assert.ErrorIs(t, err, util.ErrInvalidInput)
}
