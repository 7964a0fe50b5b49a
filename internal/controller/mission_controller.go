package controller

import (
	"explora_backend/internal/service"
	"explora_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type MissionController struct {
	MissionService *service.MissionService
	QueryService   *service.MissionQueryService
}

func NewMissionController(missionService *service.MissionService, queryService *service.MissionQueryService) *MissionController {
	return &MissionController{
		MissionService: missionService,
		QueryService:   queryService,
	}
}

// @Summary 任务列表
// @Description 按玩家视角返回任务分类（可用/进行中/已完成/锁定）及统计
// @Tags 任务
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.MissionListing}
// @Router /api/missions [get]
func (c *MissionController) ListMissions(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	listing, err := c.QueryService.ListMissionsForPlayer(user.UserID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, listing)
}

// @Summary 任务详情
// @Description 返回任务元数据、阶段列表、玩家进度与可开始标志
// @Tags 任务
// @Produce json
// @Security BearerAuth
// @Param id path int true "任务ID"
// @Success 200 {object} util.Response{data=service.MissionDetail}
// @Router /api/missions/{id} [get]
func (c *MissionController) GetMissionDetail(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	missionID, err := parseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid mission id")
		return
	}

	detail, err := c.QueryService.GetMissionDetail(missionID, user.UserID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// @Summary 开始任务
// @Description 创建进度记录并返回第一阶段内容
// @Tags 任务
// @Produce json
// @Security BearerAuth
// @Param id path int true "任务ID"
// @Success 201 {object} util.Response{data=service.StartMissionResult}
// @Failure 400 {object} util.Response "不满足开始条件"
// @Failure 409 {object} util.Response "任务已在进行中"
// @Router /api/missions/{id}/start [post]
func (c *MissionController) StartMission(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	missionID, err := parseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid mission id")
		return
	}

	result, err := c.MissionService.StartMission(user.UserID, missionID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, result)
}

// @Summary 提交阶段响应
// @Description 校验当前阶段的响应，更新进度并返回反馈与下一阶段
// @Tags 任务
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "进度ID"
// @Param phaseId path int true "阶段ID"
// @Param body body service.PhaseResponse true "阶段响应"
// @Success 200 {object} util.Response{data=service.SubmitResult}
// @Router /api/progress/{id}/phases/{phaseId}/submit [post]
func (c *MissionController) SubmitPhaseResponse(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	progressID, err := parseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid progress id")
		return
	}
	phaseID, err := parseUintParam(ctx, "phaseId")
	if err != nil {
		util.BadRequest(ctx, "invalid phase id")
		return
	}

	var resp service.PhaseResponse
	if err := ctx.ShouldBindJSON(&resp); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if !c.ownsProgress(ctx, user.UserID, progressID) {
		return
	}

	result, err := c.MissionService.SubmitPhaseResponse(progressID, phaseID, &resp)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

type SingleAnswerRequest struct {
	Chosen string `json:"chosen" binding:"required,oneof=A B C D"`
}

// @Summary 提交单题答案
// @Description 对当前测验阶段的一道题作答，答完全部题目后阶段自动推进
// @Tags 任务
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "进度ID"
// @Param questionId path int true "题目ID"
// @Param body body SingleAnswerRequest true "所选选项"
// @Success 200 {object} util.Response{data=service.SubmitResult}
// @Router /api/progress/{id}/questions/{questionId}/answer [post]
func (c *MissionController) SubmitSingleQuizAnswer(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	progressID, err := parseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid progress id")
		return
	}
	questionID, err := parseUintParam(ctx, "questionId")
	if err != nil {
		util.BadRequest(ctx, "invalid question id")
		return
	}

	var req SingleAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if !c.ownsProgress(ctx, user.UserID, progressID) {
		return
	}

	result, err := c.MissionService.SubmitSingleQuizAnswer(progressID, questionID, req.Chosen)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 跳过当前阶段
// @Description 无评分推进到下一阶段；返回空内容表示任务已完成
// @Tags 任务
// @Produce json
// @Security BearerAuth
// @Param id path int true "进度ID"
// @Success 200 {object} util.Response{data=service.PhaseContent}
// @Router /api/progress/{id}/advance [post]
func (c *MissionController) AdvancePhase(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	progressID, err := parseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid progress id")
		return
	}

	if !c.ownsProgress(ctx, user.UserID, progressID) {
		return
	}

	content, err := c.MissionService.AdvancePhase(progressID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, content)
}

// @Summary 当前阶段内容
// @Tags 任务
// @Produce json
// @Security BearerAuth
// @Param id path int true "进度ID"
// @Success 200 {object} util.Response{data=service.PhaseContent}
// @Router /api/progress/{id}/phase [get]
func (c *MissionController) GetCurrentPhase(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	progressID, err := parseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid progress id")
		return
	}

	if !c.ownsProgress(ctx, user.UserID, progressID) {
		return
	}

	content, err := c.MissionService.GetCurrentPhase(progressID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, content)
}

// @Summary 玩家仪表盘
// @Description 探索统计、任务统计、最近徽章与排行榜
// @Tags 任务
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.PlayerDashboard}
// @Router /api/dashboard [get]
func (c *MissionController) GetDashboard(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	dashboard, err := c.QueryService.GetPlayerDashboard(user.UserID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, dashboard)
}

// @Summary 经验排行榜
// @Tags 任务
// @Produce json
// @Security BearerAuth
// @Param limit query int false "返回数量" default(10)
// @Success 200 {object} util.Response
// @Router /api/leaderboard [get]
func (c *MissionController) GetLeaderboard(ctx *gin.Context) {
	limit := 10
	if limitStr := ctx.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	leaderboard, err := c.QueryService.GetLeaderboard(limit)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, leaderboard)
}

// ownsProgress rejects requests against another player's progress record.
func (c *MissionController) ownsProgress(ctx *gin.Context, userID, progressID uint) bool {
	progress, err := c.MissionService.ProgressRepo.FindByID(progressID)
	if err != nil {
		util.NotFound(ctx)
		return false
	}
	if progress.UserID != userID {
		util.Forbidden(ctx)
		return false
	}
	return true
}

func parseUintParam(ctx *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}
