package app

import (
	"mfd_crm_backend/docs"
	"mfd_crm_backend/internal/config"
	"mfd_crm_backend/internal/middleware"
	"mfd_crm_backend/internal/model"
	"mfd_crm_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerDistributorRoutes(authGroup, c)
	}

	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.Check)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// Respondent-facing form link, no login required.
	publicForm := router.Group("/api/ai/public")
	{
		publicForm.GET("/:slug", c.assessment.GetPublicForm)
		publicForm.POST("/:slug/submit", c.assessment.SubmitPublic)
	}
}

func (a *App) registerDistributorRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)
	rg.PUT("/profile", c.auth.UpdateProfile)
	rg.GET("/dashboard", c.dashboard.GetDashboard)

	leads := rg.Group("/leads")
	{
		leads.POST("", c.lead.Create)
		leads.GET("", c.lead.List)
		leads.GET("/:id", c.lead.Get)
		leads.PUT("/:id", c.lead.Update)
		leads.DELETE("/:id", c.lead.Delete)
		leads.PATCH("/:id/status", c.lead.UpdateStatus)

		leads.POST("/:id/kyc", c.kyc.Create)
		leads.GET("/:id/kyc", c.kyc.GetByLead)
		leads.PUT("/:id/kyc", c.kyc.Update)
	}

	rg.POST("/kyc/:id/documents", c.kyc.UploadDocument)
	rg.GET("/kyc/:id/documents/url", c.kyc.DocumentURL)
	rg.DELETE("/kyc/:id/documents", c.kyc.RemoveDocument)

	meetings := rg.Group("/meetings")
	{
		meetings.POST("", c.meeting.Create)
		meetings.GET("", c.meeting.List)
		meetings.GET("/:id", c.meeting.Get)
		meetings.PUT("/:id", c.meeting.Update)
		meetings.DELETE("/:id", c.meeting.Delete)
	}

	assessments := rg.Group("/assessments")
	{
		assessments.POST("/forms", c.assessment.CreateForm)
		assessments.GET("/forms", c.assessment.ListForms)
		assessments.GET("/forms/:id", c.assessment.GetForm)
		assessments.POST("/forms/:id/versions", c.assessment.CreateVersion)
		assessments.GET("/forms/:id/versions", c.assessment.ListVersions)
		assessments.POST("/forms/:id/publish", c.assessment.PublishForm)
		assessments.POST("/forms/:id/ai-scoring", c.assessment.GenerateScoring)

		assessments.GET("/submissions", c.assessment.ListSubmissions)
		assessments.GET("/submissions/:id", c.assessment.GetSubmission)
		assessments.POST("/submissions/:id/recreate", c.assessment.RecreateSubmission)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/users", c.user.ListUsers)
		admin.GET("/kyc", c.kyc.ListByStatus)
		admin.PATCH("/kyc/:id/status", c.kyc.SetStatus)
	}
}
