package controller

import (
	"errors"
	"strconv"

	"mfd_crm_backend/internal/model"
	"mfd_crm_backend/internal/service"
	"mfd_crm_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LeadController struct {
	Service *service.LeadService
}

func NewLeadController(svc *service.LeadService) *LeadController {
	return &LeadController{Service: svc}
}

func parsePaging(ctx *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

func respondServiceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrLeadNotFound),
		errors.Is(err, util.ErrMeetingNotFound),
		errors.Is(err, util.ErrKYCNotFound),
		errors.Is(err, util.ErrFormNotFound),
		errors.Is(err, util.ErrVersionNotFound),
		errors.Is(err, util.ErrSubmissionNotFound),
		errors.Is(err, util.ErrFormNotPublished):
		util.Error(ctx, 404, err.Error())
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrKYCAlreadyExists),
		errors.Is(err, util.ErrNoQuestions),
		errors.Is(err, util.ErrInvalidStatus):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// @Summary Create a lead
// @Tags leads
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.LeadRequest true "Lead details"
// @Success 201 {object} util.Response
// @Router /leads [post]
func (c *LeadController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.LeadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lead, err := c.Service.Create(claims.UserID, req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Created(ctx, lead)
}

// @Summary List leads
// @Tags leads
// @Produce json
// @Security ApiKeyAuth
// @Param status query string false "Filter by status"
// @Param search query string false "Search name, email or phone"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} util.Response
// @Router /leads [get]
func (c *LeadController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	page, limit := parsePaging(ctx)
	leads, total, err := c.Service.List(claims.UserID, ctx.Query("status"), ctx.Query("search"), page, limit)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: leads, Total: total, Page: page, Limit: limit})
}

// @Summary Get one lead
// @Tags leads
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Lead id"
// @Success 200 {object} util.Response
// @Router /leads/{id} [get]
func (c *LeadController) Get(ctx *gin.Context) {
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

	lead, err := c.Service.Get(claims.UserID, uint(id))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, lead)
}

// @Summary Update a lead
// @Tags leads
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Lead id"
// @Param body body service.LeadRequest true "Lead details"
// @Success 200 {object} util.Response
// @Router /leads/{id} [put]
func (c *LeadController) Update(ctx *gin.Context) {
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

	var req service.LeadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lead, err := c.Service.Update(claims.UserID, uint(id), req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, lead)
}

// @Summary Delete a lead
// @Tags leads
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Lead id"
// @Success 200 {object} util.Response
// @Router /leads/{id} [delete]
func (c *LeadController) Delete(ctx *gin.Context) {
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

type LeadStatusRequest struct {
	Status model.LeadStatus `json:"status" binding:"required"`
}

// @Summary Update a lead's status
// @Tags leads
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Lead id"
// @Param body body LeadStatusRequest true "New status"
// @Success 200 {object} util.Response
// @Router /leads/{id}/status [patch]
func (c *LeadController) UpdateStatus(ctx *gin.Context) {
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

	var req LeadStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lead, err := c.Service.UpdateStatus(claims.UserID, uint(id), req.Status)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, lead)
}
