package controller

import (
	"explora_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthController struct {
	DB *gorm.DB
}

func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{DB: db}
}

// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Router /health [get]
func (c *HealthController) Check(ctx *gin.Context) {
	status := "ok"

	sqlDB, err := c.DB.DB()
	if err != nil || sqlDB.Ping() != nil {
		status = "degraded"
	}

	util.Success(ctx, gin.H{
		"status": status,
		"time":   time.Now().UTC(),
	})
}
