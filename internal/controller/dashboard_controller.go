package controller

import (
	"mfd_crm_backend/internal/service"
	"mfd_crm_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	Service *service.DashboardService
}

func NewDashboardController(svc *service.DashboardService) *DashboardController {
	return &DashboardController{Service: svc}
}

// @Summary Dashboard summary for the current distributor
// @Tags dashboard
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /dashboard [get]
func (c *DashboardController) GetDashboard(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	dash, err := c.Service.GetDashboard(claims.UserID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, dash)
}
