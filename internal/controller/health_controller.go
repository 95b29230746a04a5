package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type HealthController struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewHealthController(db *gorm.DB, rdb *redis.Client) *HealthController {
	return &HealthController{DB: db, Redis: rdb}
}

// @Summary Service health
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (c *HealthController) Check(ctx *gin.Context) {
	status := http.StatusOK
	result := gin.H{"status": "ok"}

	checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	if sqlDB, err := c.DB.DB(); err != nil || sqlDB.PingContext(checkCtx) != nil {
		status = http.StatusServiceUnavailable
		result["database"] = "down"
	} else {
		result["database"] = "up"
	}

	if c.Redis != nil {
		if err := c.Redis.Ping(checkCtx).Err(); err != nil {
			result["redis"] = "down"
		} else {
			result["redis"] = "up"
		}
	}

	ctx.JSON(status, result)
}
