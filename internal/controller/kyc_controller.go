package controller

import (
	"strconv"

	"mfd_crm_backend/internal/model"
	"mfd_crm_backend/internal/service"
	"mfd_crm_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type KYCController struct {
	Service *service.KYCService
}

func NewKYCController(svc *service.KYCService) *KYCController {
	return &KYCController{Service: svc}
}

// @Summary Create a KYC record for a lead
// @Tags kyc
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Lead id"
// @Param body body service.KYCRequest true "KYC details"
// @Success 201 {object} util.Response
// @Router /leads/{id}/kyc [post]
func (c *KYCController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	leadID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid lead id")
		return
	}

	var req service.KYCRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	rec, err := c.Service.Create(claims.UserID, uint(leadID), req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Created(ctx, rec)
}

// @Summary Get a lead's KYC record
// @Tags kyc
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Lead id"
// @Success 200 {object} util.Response
// @Router /leads/{id}/kyc [get]
func (c *KYCController) GetByLead(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	leadID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid lead id")
		return
	}

	rec, err := c.Service.GetByLead(claims.UserID, uint(leadID))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, rec)
}

// @Summary Update a lead's KYC record
// @Tags kyc
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Lead id"
// @Param body body service.KYCRequest true "KYC details"
// @Success 200 {object} util.Response
// @Router /leads/{id}/kyc [put]
func (c *KYCController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	leadID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid lead id")
		return
	}

	var req service.KYCRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	rec, err := c.Service.Update(claims.UserID, uint(leadID), req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, rec)
}

// @Summary Attach a proof document to a KYC record
// @Tags kyc
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "KYC record id"
// @Param file formData file true "Document"
// @Success 200 {object} util.Response
// @Router /kyc/{id}/documents [post]
func (c *KYCController) UploadDocument(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	kycID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	rec, err := c.Service.AttachDocument(
		ctx.Request.Context(),
		claims.UserID,
		uint(kycID),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
		fileHeader.Size,
	)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, rec)
}

// @Summary Verify or reject a KYC record
// @Tags kyc
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "KYC record id"
// @Param body body service.KYCStatusRequest true "New status"
// @Success 200 {object} util.Response
// @Router /admin/kyc/{id}/status [patch]
func (c *KYCController) SetStatus(ctx *gin.Context) {
	kycID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	var req service.KYCStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	rec, err := c.Service.SetStatus(uint(kycID), req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, rec)
}

// @Summary List KYC records by status
// @Tags kyc
// @Produce json
// @Security ApiKeyAuth
// @Param status query string false "Filter by status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} util.Response
// @Router /admin/kyc [get]
func (c *KYCController) ListByStatus(ctx *gin.Context) {
	page, limit := parsePaging(ctx)
	recs, total, err := c.Service.ListByStatus(model.KYCStatus(ctx.Query("status")), page, limit)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: recs, Total: total, Page: page, Limit: limit})
}

// @Summary Get a download link for a stored document
// @Tags kyc
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "KYC record id"
// @Param key query string true "Document object key"
// @Success 200 {object} util.Response
// @Router /kyc/{id}/documents/url [get]
func (c *KYCController) DocumentURL(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	kycID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}
	key := ctx.Query("key")
	if key == "" {
		util.BadRequest(ctx, "key is required")
		return
	}

	url, err := c.Service.DocumentURL(ctx.Request.Context(), claims.UserID, uint(kycID), key)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"url": url})
}

// @Summary Remove a stored document
// @Tags kyc
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "KYC record id"
// @Param key query string true "Document object key"
// @Success 200 {object} util.Response
// @Router /kyc/{id}/documents [delete]
func (c *KYCController) RemoveDocument(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	kycID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}
	key := ctx.Query("key")
	if key == "" {
		util.BadRequest(ctx, "key is required")
		return
	}

	rec, err := c.Service.RemoveDocument(ctx.Request.Context(), claims.UserID, uint(kycID), key)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, rec)
}
