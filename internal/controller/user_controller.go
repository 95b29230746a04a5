package controller

import (
	"mfd_crm_backend/internal/repository"
	"mfd_crm_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	Repo *repository.UserRepository
}

func NewUserController(repo *repository.UserRepository) *UserController {
	return &UserController{Repo: repo}
}

// @Summary List registered users
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} util.Response
// @Router /admin/users [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	page, limit := parsePaging(ctx)
	users, total, err := c.Repo.List(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	for i := range users {
		users[i].Password = ""
	}
	util.Success(ctx, util.PageResponse{List: users, Total: total, Page: page, Limit: limit})
}
