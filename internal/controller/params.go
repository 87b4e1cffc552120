package controller

import (
	"github.com/Navaneeth433/Murdermystery/internal/util"

	"github.com/gin-gonic/gin"
)

// pathID 解析 :id，非法时直接返回 400
func pathID(ctx *gin.Context) (uint, bool) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid id")
		return 0, false
	}
	return id, true
}
