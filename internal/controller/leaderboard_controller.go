package controller

import (
	"strconv"

	"github.com/Navaneeth433/Murdermystery/internal/service"
	"github.com/Navaneeth433/Murdermystery/internal/util"

	"github.com/gin-gonic/gin"
)

type LeaderboardController struct {
	LeaderboardService *service.LeaderboardService
}

func NewLeaderboardController(leaderboard *service.LeaderboardService) *LeaderboardController {
	return &LeaderboardController{LeaderboardService: leaderboard}
}

// GetLeaderboard godoc
// @Summary 排行榜
// @Description 按总分倒序，没有尝试的用户记 0 分
// @Tags 排行榜
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "返回条数，默认取配置"
// @Success 200 {object} util.Response{data=[]model.LeaderboardEntry}
// @Failure 403 {object} util.Response "仅管理员"
// @Router /api/leaderboard [get]
func (c *LeaderboardController) GetLeaderboard(ctx *gin.Context) {
	limit := c.LeaderboardService.Limit()
	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			util.BadRequest(ctx, "invalid limit")
			return
		}
		limit = n
	}

	entries, err := c.LeaderboardService.Leaderboard(ctx.Request.Context(), limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}

// GetFullLeaderboard godoc
// @Summary 完整排行榜（不截断）
// @Tags 管理员
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.LeaderboardEntry}
// @Router /api/admin/leaderboard [get]
func (c *LeaderboardController) GetFullLeaderboard(ctx *gin.Context) {
	entries, err := c.LeaderboardService.Leaderboard(ctx.Request.Context(), 0)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}
