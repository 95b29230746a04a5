package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mfd_crm_backend/internal/config"
	"mfd_crm_backend/internal/controller"
	"mfd_crm_backend/internal/repository"
	"mfd_crm_backend/internal/service"
	"mfd_crm_backend/pkg/database"
	"mfd_crm_backend/pkg/logger"
	"mfd_crm_backend/pkg/monitoring"
	"mfd_crm_backend/pkg/security"
	"mfd_crm_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
}

type repositories struct {
	user       *repository.UserRepository
	lead       *repository.LeadRepository
	meeting    *repository.MeetingRepository
	kyc        *repository.KYCRepository
	assessment *repository.AssessmentRepository
}

type services struct {
	auth       *service.AuthService
	storage    *service.StorageService
	lead       *service.LeadService
	meeting    *service.MeetingService
	kyc        *service.KYCService
	assessment *service.AssessmentService
	dashboard  *service.DashboardService
}

type controllers struct {
	auth       *controller.AuthController
	lead       *controller.LeadController
	meeting    *controller.MeetingController
	kyc        *controller.KYCController
	assessment *controller.AssessmentController
	dashboard  *controller.DashboardController
	user       *controller.UserController
	health     *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		lead:       repository.NewLeadRepository(db),
		meeting:    repository.NewMeetingRepository(db),
		kyc:        repository.NewKYCRepository(db),
		assessment: repository.NewAssessmentRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) (*services, error) {
	s := &services{}

	storage, err := service.NewStorageService(&cfg.Storage)
	if err != nil {
		return nil, err
	}
	s.storage = storage

	var generator service.ScoringGenerator = service.DefaultScoringGenerator{}
	if cfg.AI.BaseURL != "" {
		generator = service.NewAIScoringService(cfg.AI)
		logger.Log.Info("AI scoring generator enabled", zap.String("model", cfg.AI.Model))
	}

	s.auth = service.NewAuthService(repos.user, cfg)
	s.lead = service.NewLeadService(repos.lead)
	s.meeting = service.NewMeetingService(repos.meeting, repos.lead)
	s.kyc = service.NewKYCService(repos.kyc, repos.lead, s.storage)
	s.assessment = service.NewAssessmentService(repos.assessment, repos.lead, rdb, generator, cfg)
	s.dashboard = service.NewDashboardService(repos.lead, repos.meeting, repos.kyc, repos.assessment)

	return s, nil
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		lead:       controller.NewLeadController(s.lead),
		meeting:    controller.NewMeetingController(s.meeting),
		kyc:        controller.NewKYCController(s.kyc),
		assessment: controller.NewAssessmentController(s.assessment),
		dashboard:  controller.NewDashboardController(s.dashboard),
		user:       controller.NewUserController(repos.user),
		health:     controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		return nil, err
	}

	if cfg.ForceMigrate || cfg.MigrateOnly {
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
		logger.Log.Info("Database migration completed")
		if cfg.MigrateOnly {
			return &App{Config: cfg, DB: db}, nil
		}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services, err := app.initServices(repos, cfg, rdb)
	if err != nil {
		return nil, err
	}
	controllers := app.initControllers(services, repos, db, rdb)

	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("mfd-crm", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	return app, nil
}

// ReloadConfig swaps in settings that are read per request. Server, database
// and storage settings still require a restart.
func (a *App) ReloadConfig(newCfg *config.Config) {
	a.Config.JWT = newCfg.JWT
	a.Config.Redis.FormCacheTTLMinutes = newCfg.Redis.FormCacheTTLMinutes
	logger.Log.Info("Configuration reloaded")
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
