package controller

import (
	"github.com/Navaneeth433/Murdermystery/internal/service"
	"github.com/Navaneeth433/Murdermystery/internal/util"

	"github.com/gin-gonic/gin"
)

type ChapterController struct {
	AccessService  *service.AccessService
	AttemptService *service.AttemptService
	ContentService *service.ContentService
}

func NewChapterController(access *service.AccessService, attempts *service.AttemptService, contents *service.ContentService) *ChapterController {
	return &ChapterController{
		AccessService:  access,
		AttemptService: attempts,
		ContentService: contents,
	}
}

// ListChapters godoc
// @Summary 章节列表
// @Description 未创建的章节显示为占位；隐藏章节在完成触发章节后出现
// @Tags 章节
// @Produce json
// @Success 200 {object} util.Response{data=model.ChapterListing}
// @Router /api/chapters [get]
func (c *ChapterController) ListChapters(ctx *gin.Context) {
	listing, err := c.AccessService.VisibleChapters(ctx.Request.Context(), util.ViewerFromContext(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, listing)
}

// GetChapter godoc
// @Summary 章节详情
// @Tags 章节
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "章节ID"
// @Param preview query bool false "管理员预览"
// @Success 200 {object} util.Response{data=service.ChapterDetail}
// @Failure 403 {object} util.Response "章节未解锁"
// @Failure 404 {object} util.Response "章节不存在"
// @Router /api/chapters/{id} [get]
func (c *ChapterController) GetChapter(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	preview := ctx.Query("preview") == "1" || ctx.Query("preview") == "true"
	detail, err := c.ContentService.Detail(ctx.Request.Context(), util.ViewerFromContext(ctx), id, preview)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// StartAttempt godoc
// @Summary 开始挑战
// @Tags 章节
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "章节ID"
// @Success 201 {object} util.Response{data=service.StartResult}
// @Failure 403 {object} util.Response "章节未解锁"
// @Failure 409 {object} util.Response "已经开始过"
// @Router /api/chapters/{id}/start [post]
func (c *ChapterController) StartAttempt(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	result, err := c.AttemptService.Start(ctx.Request.Context(), util.ViewerFromContext(ctx), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, result)
}

// swagger:model SubmitRequest
type SubmitRequest struct {
	Completed bool `json:"completed"`
}

// SubmitAttempt godoc
// @Summary 提交挑战结果
// @Tags 章节
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "章节ID"
// @Param body body SubmitRequest true "是否完成"
// @Success 200 {object} util.Response{data=service.ScoreBreakdown}
// @Failure 404 {object} util.Response "没有进行中的挑战"
// @Failure 409 {object} util.Response "已经提交过"
// @Router /api/chapters/{id}/submit [post]
func (c *ChapterController) SubmitAttempt(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var req SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	breakdown, err := c.AttemptService.Submit(ctx.Request.Context(), util.ViewerFromContext(ctx), id, req.Completed)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, breakdown)
}
