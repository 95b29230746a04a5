package controller

import (
	"strconv"

	"mfd_crm_backend/internal/service"
	"mfd_crm_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type MeetingController struct {
	Service *service.MeetingService
}

func NewMeetingController(svc *service.MeetingService) *MeetingController {
	return &MeetingController{Service: svc}
}

// @Summary Schedule a meeting with a lead
// @Tags meetings
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.MeetingRequest true "Meeting details"
// @Success 201 {object} util.Response
// @Router /meetings [post]
func (c *MeetingController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.MeetingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	m, err := c.Service.Create(claims.UserID, req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Created(ctx, m)
}

// @Summary List meetings
// @Tags meetings
// @Produce json
// @Security ApiKeyAuth
// @Param status query string false "Filter by status"
// @Param leadId query int false "Filter by lead"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} util.Response
// @Router /meetings [get]
func (c *MeetingController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	leadID := 0
	if idStr := ctx.Query("leadId"); idStr != "" {
		leadID, _ = strconv.Atoi(idStr)
	}

	page, limit := parsePaging(ctx)
	meetings, total, err := c.Service.List(claims.UserID, ctx.Query("status"), uint(leadID), page, limit)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: meetings, Total: total, Page: page, Limit: limit})
}

// @Summary Get one meeting
// @Tags meetings
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Meeting id"
// @Success 200 {object} util.Response
// @Router /meetings/{id} [get]
func (c *MeetingController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	m, err := c.Service.Get(claims.UserID, uint(id))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, m)
}

// @Summary Update a meeting
// @Tags meetings
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Meeting id"
// @Param body body service.MeetingUpdateRequest true "Fields to update"
// @Success 200 {object} util.Response
// @Router /meetings/{id} [put]
func (c *MeetingController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	var req service.MeetingUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	m, err := c.Service.Update(claims.UserID, uint(id), req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, m)
}

// @Summary Cancel and remove a meeting
// @Tags meetings
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Meeting id"
// @Success 200 {object} util.Response
// @Router /meetings/{id} [delete]
func (c *MeetingController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	if err := c.Service.Delete(claims.UserID, uint(id)); err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
