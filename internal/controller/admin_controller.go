package controller

import (
	"github.com/Navaneeth433/Murdermystery/internal/service"
	"github.com/Navaneeth433/Murdermystery/internal/util"

	"github.com/gin-gonic/gin"
)

// AdminController 章节管理、尝试记录与用户删除
type AdminController struct {
	ContentService *service.ContentService
	UserService    *service.UserService
}

func NewAdminController(contents *service.ContentService, users *service.UserService) *AdminController {
	return &AdminController{ContentService: contents, UserService: users}
}

// ListContents godoc
// @Summary 全部章节（含未开放）
// @Tags 管理员
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Content}
// @Router /api/admin/contents [get]
func (c *AdminController) ListContents(ctx *gin.Context) {
	contents, err := c.ContentService.List(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	type row struct {
		ID            uint     `json:"id"`
		Title         string   `json:"title"`
		ChapterNumber int      `json:"chapterNumber"`
		TimeLimit     int      `json:"timeLimit"`
		IsUnlocked    bool     `json:"isUnlocked"`
		UnlockTime    any      `json:"unlockTime"`
		Panels        []string `json:"panels"`
	}
	rows := make([]row, 0, len(contents))
	for i := range contents {
		ct := &contents[i]
		rows = append(rows, row{
			ID:            ct.ID,
			Title:         ct.Title,
			ChapterNumber: ct.ChapterNumber,
			TimeLimit:     ct.TimeLimit,
			IsUnlocked:    ct.IsUnlocked,
			UnlockTime:    ct.UnlockTime,
			Panels:        ct.PanelList(),
		})
	}
	util.Success(ctx, rows)
}

// CreateContent godoc
// @Summary 创建章节
// @Description panels 可以是 JSON 对象、数组，或包含 URL 的任意文本
// @Tags 管理员
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.ContentRequest true "章节"
// @Success 201 {object} util.Response{data=model.Content}
// @Router /api/admin/contents [post]
func (c *AdminController) CreateContent(ctx *gin.Context) {
	var req service.ContentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	content, err := c.ContentService.Create(ctx.Request.Context(), &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, content)
}

// UpdateContent godoc
// @Summary 更新章节
// @Tags 管理员
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "章节ID"
// @Param body body service.ContentRequest true "章节"
// @Success 200 {object} util.Response{data=model.Content}
// @Router /api/admin/contents/{id} [put]
func (c *AdminController) UpdateContent(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var req service.ContentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	content, err := c.ContentService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, content)
}

// ToggleContent godoc
// @Summary 切换章节开放状态
// @Tags 管理员
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "章节ID"
// @Success 200 {object} util.Response{data=model.Content}
// @Router /api/admin/contents/{id}/toggle [post]
func (c *AdminController) ToggleContent(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	content, err := c.ContentService.Toggle(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, content)
}

// DeleteContent godoc
// @Summary 删除章节及其全部尝试
// @Tags 管理员
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "章节ID"
// @Success 200 {object} util.Response
// @Router /api/admin/contents/{id} [delete]
func (c *AdminController) DeleteContent(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := c.ContentService.Delete(ctx.Request.Context(), id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": id})
}

// UploadPanel godoc
// @Summary 上传面板图片
// @Tags 管理员
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "章节ID"
// @Param file formData file true "图片或视频"
// @Success 200 {object} util.Response{data=model.Content}
// @Router /api/admin/contents/{id}/panels [post]
func (c *AdminController) UploadPanel(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	content, err := c.ContentService.UploadPanel(ctx.Request.Context(), id, file)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, content)
}

// ListAttempts godoc
// @Summary 最近的挑战记录
// @Tags 管理员
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.AttemptRecord}
// @Router /api/admin/attempts [get]
func (c *AdminController) ListAttempts(ctx *gin.Context) {
	records, err := c.ContentService.ListAttempts(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, records)
}

// DeleteUser godoc
// @Summary 删除用户及其全部尝试
// @Tags 管理员
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "用户ID"
// @Success 200 {object} util.Response
// @Router /api/admin/users/{id} [delete]
func (c *AdminController) DeleteUser(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := c.UserService.DeleteUser(ctx.Request.Context(), id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": id})
}
