package controller

import (
	"errors"
	"strconv"

	"mfd_crm_backend/internal/scoring"
	"mfd_crm_backend/internal/service"
	"mfd_crm_backend/internal/util"
	"mfd_crm_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

type AssessmentController struct {
	Service *service.AssessmentService
}

func NewAssessmentController(svc *service.AssessmentService) *AssessmentController {
	return &AssessmentController{Service: svc}
}

// @Summary Create an assessment form
// @Tags assessments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.FormRequest true "Form details"
// @Success 201 {object} util.Response
// @Router /assessments/forms [post]
func (c *AssessmentController) CreateForm(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.FormRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	form, err := c.Service.CreateForm(claims.UserID, req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Created(ctx, form)
}

// @Summary List the caller's assessment forms
// @Tags assessments
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} util.Response
// @Router /assessments/forms [get]
func (c *AssessmentController) ListForms(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	page, limit := parsePaging(ctx)
	forms, total, err := c.Service.ListForms(claims.UserID, page, limit)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: forms, Total: total, Page: page, Limit: limit})
}

// @Summary Get one assessment form
// @Tags assessments
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Form id"
// @Success 200 {object} util.Response
// @Router /assessments/forms/{id} [get]
func (c *AssessmentController) GetForm(ctx *gin.Context) {
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

	form, err := c.Service.GetForm(claims.UserID, uint(id))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, form)
}

// @Summary Save a new version of a form
// @Description Compiles the question list into a schema and scoring config and appends them as an immutable version.
// @Tags assessments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Form id"
// @Param body body service.VersionRequest true "Question list and optional scoring overrides"
// @Success 201 {object} util.Response
// @Router /assessments/forms/{id}/versions [post]
func (c *AssessmentController) CreateVersion(ctx *gin.Context) {
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

	var req service.VersionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	version, err := c.Service.CreateVersion(claims.UserID, uint(id), claims.UserID, req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Created(ctx, version)
}

// @Summary List a form's versions, newest first
// @Tags assessments
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Form id"
// @Success 200 {object} util.Response
// @Router /assessments/forms/{id}/versions [get]
func (c *AssessmentController) ListVersions(ctx *gin.Context) {
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

	versions, err := c.Service.ListVersions(claims.UserID, uint(id))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, versions)
}

// @Summary Publish a form's public link
// @Tags assessments
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Form id"
// @Success 200 {object} util.Response
// @Router /assessments/forms/{id}/publish [post]
func (c *AssessmentController) PublishForm(ctx *gin.Context) {
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

	form, err := c.Service.PublishForm(claims.UserID, uint(id))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, form)
}

type GenerateScoringRequest struct {
	Questions []scoring.Question `json:"questions" binding:"required"`
}

// @Summary Generate a scoring config for a question list
// @Description Runs the configured scoring generator. The result is returned for review, not persisted.
// @Tags assessments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Form id"
// @Param body body GenerateScoringRequest true "Question list"
// @Success 200 {object} util.Response
// @Router /assessments/forms/{id}/ai-scoring [post]
func (c *AssessmentController) GenerateScoring(ctx *gin.Context) {
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
	if _, err := c.Service.GetForm(claims.UserID, uint(id)); err != nil {
		respondServiceError(ctx, err)
		return
	}

	var req GenerateScoringRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	cfg, err := c.Service.GenerateScoring(ctx.Request.Context(), req.Questions)
	if err != nil {
		if errors.Is(err, util.ErrNoQuestions) {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.UpstreamError(ctx)
		return
	}
	util.Success(ctx, cfg)
}

// @Summary Fetch a published form by its public slug
// @Tags public
// @Produce json
// @Param slug path string true "Public slug"
// @Success 200 {object} util.Response
// @Router /ai/public/{slug} [get]
func (c *AssessmentController) GetPublicForm(ctx *gin.Context) {
	pf, err := c.Service.GetPublicForm(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, pf)
}

// @Summary Submit answers to a published form
// @Tags public
// @Accept json
// @Produce json
// @Param slug path string true "Public slug"
// @Param body body service.SubmitRequest true "Answers"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response "Per-field validation errors"
// @Router /ai/public/{slug}/submit [post]
func (c *AssessmentController) SubmitPublic(ctx *gin.Context) {
	var req service.SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	submission, err := c.Service.SubmitPublic(ctx.Request.Context(), ctx.Param("slug"), req)
	if err != nil {
		var vErr *service.ValidationError
		if errors.As(err, &vErr) {
			util.ValidationFailed(ctx, vErr.Fields)
			return
		}
		respondServiceError(ctx, err)
		return
	}

	monitoring.SubmissionCounter.WithLabelValues(submission.Bucket).Inc()
	util.Created(ctx, submission)
}

// @Summary List submissions
// @Tags assessments
// @Produce json
// @Security ApiKeyAuth
// @Param formId query int false "Filter by form"
// @Param bucket query string false "Filter by risk bucket"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} util.Response
// @Router /assessments/submissions [get]
func (c *AssessmentController) ListSubmissions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	formID := 0
	if idStr := ctx.Query("formId"); idStr != "" {
		formID, _ = strconv.Atoi(idStr)
	}

	page, limit := parsePaging(ctx)
	subs, total, err := c.Service.ListSubmissions(claims.UserID, uint(formID), ctx.Query("bucket"), page, limit)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: subs, Total: total, Page: page, Limit: limit})
}

// @Summary Get one submission with its question list
// @Tags assessments
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Submission id"
// @Success 200 {object} util.Response
// @Router /assessments/submissions/{id} [get]
func (c *AssessmentController) GetSubmission(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	detail, err := c.Service.GetSubmission(claims.UserID, ctx.Param("id"))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// @Summary Recreate a submission from its raw answers
// @Description Repair operation: deletes the submission and re-evaluates it against the version it was taken with.
// @Tags assessments
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Submission id"
// @Success 200 {object} util.Response
// @Router /assessments/submissions/{id}/recreate [post]
func (c *AssessmentController) RecreateSubmission(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	submission, err := c.Service.RecreateSubmission(claims.UserID, ctx.Param("id"))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, submission)
}
