package controller

import (
	"explora_backend/internal/service"
	"explora_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type BadgeController struct {
	QueryService *service.MissionQueryService
}

func NewBadgeController(queryService *service.MissionQueryService) *BadgeController {
	return &BadgeController{QueryService: queryService}
}

// @Summary 徽章收藏
// @Description 返回全部有效徽章及玩家的获得状态
// @Tags 徽章
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.BadgeCollection}
// @Router /api/badges [get]
func (c *BadgeController) GetCollection(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	collection, err := c.QueryService.GetBadgeCollection(user.UserID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, collection)
}
