package controller

import (
	"explora_backend/internal/service"
	"explora_backend/internal/util"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AdminController struct {
	AuthoringService *service.AuthoringService
	StorageService   *service.StorageService
}

func NewAdminController(authoringService *service.AuthoringService, storageService *service.StorageService) *AdminController {
	return &AdminController{
		AuthoringService: authoringService,
		StorageService:   storageService,
	}
}

// @Summary 创建任务
// @Description 创建任务及其阶段与测验题目，单事务写入
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.MissionCreateRequest true "任务定义"
// @Success 201 {object} util.Response{data=model.Mission}
// @Router /api/admin/missions [post]
func (c *AdminController) CreateMission(ctx *gin.Context) {
	var req service.MissionCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	mission, err := c.AuthoringService.CreateMission(req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, mission)
}

// @Summary 创建徽章
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.BadgeCreateRequest true "徽章定义"
// @Success 201 {object} util.Response{data=model.Badge}
// @Router /api/admin/badges [post]
func (c *AdminController) CreateBadge(ctx *gin.Context) {
	var req service.BadgeCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	badge, err := c.AuthoringService.CreateBadge(req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, badge)
}

type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// @Summary 上下架任务
// @Description 切换任务可见性，不影响已有进度
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "任务ID"
// @Param body body SetActiveRequest true "目标状态"
// @Success 200 {object} util.Response
// @Router /api/admin/missions/{id}/active [patch]
func (c *AdminController) SetMissionActive(ctx *gin.Context) {
	missionID, err := parseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid mission id")
		return
	}

	var req SetActiveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AuthoringService.SetMissionActive(missionID, *req.Active); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"active": *req.Active})
}

// @Summary 上传素材
// @Description 上传徽章图标或任务封面图
// @Tags 管理
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "文件"
// @Success 201 {object} util.Response
// @Router /api/admin/assets [post]
func (c *AdminController) UploadAsset(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	ext := filepath.Ext(file.Filename)
	filename := fmt.Sprintf("assets/%s/%s%s", time.Now().Format("2006-01"), uuid.NewString(), ext)

	url, err := c.StorageService.Upload(ctx.Request.Context(), filename, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"url": url})
}
