package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/niyatisanja0206/resume-builder/adapters/event"
	httpAdapter "github.com/niyatisanja0206/resume-builder/adapters/http"
	"github.com/niyatisanja0206/resume-builder/adapters/persistence"
	adrender "github.com/niyatisanja0206/resume-builder/adapters/render"
	authUC "github.com/niyatisanja0206/resume-builder/internal/application/usecase/auth"
	exportUC "github.com/niyatisanja0206/resume-builder/internal/application/usecase/export"
	resumeUC "github.com/niyatisanja0206/resume-builder/internal/application/usecase/resume"
	statsUC "github.com/niyatisanja0206/resume-builder/internal/application/usecase/stats"
	"github.com/niyatisanja0206/resume-builder/internal/config"
	"github.com/niyatisanja0206/resume-builder/pkg/auth"
	"github.com/niyatisanja0206/resume-builder/pkg/logger"
	"github.com/niyatisanja0206/resume-builder/pkg/tracing"
)

func main() {
	fmt.Println("Start Resume Builder API Server...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)

	if cfg.Tracing.OTLPEndpoint != "" {
		tp, err := tracing.NewTracerProvider(cfg, appLogger, "resume-builder-api")
		if err != nil {
			log.Fatalf("FATAL: cannot init tracing: %v", err)
		}
		defer func() { _ = tp.Shutdown(context.Background()) }()
	}

	// Initialize dependencies
	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		log.Fatalf("FATAL: cannot connect Postgres: %v", err)
	}
	defer dbPool.Close()

	redisClient, err := persistence.NewRedisClient(cfg, appLogger)
	if err != nil {
		log.Fatalf("FATAL: cannot connect Redis: %v", err)
	}
	defer redisClient.Close()

	kafkaClient, err := event.NewKafkaProducerClient(cfg)
	if err != nil {
		log.Fatalf("FATAL: cannot init Kafka: %v", err)
	}
	defer kafkaClient.Close()

	// Repositories and stores
	userRepo := persistence.NewPostgresUserRepo(dbPool)
	resumeRepo := persistence.NewPostgresResumeRepo(dbPool, appLogger)
	sessionStore := persistence.NewRedisSessionStore(redisClient)
	documentCache := persistence.NewRedisDocumentCache(redisClient, cfg.Cache.ResumeTTL)
	statsCache := persistence.NewRedisStatsCache(redisClient, cfg.Cache.StatsTTL)

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)

	// PDF engine: the loader owns the lifecycle, so a machine without a
	// usable browser still boots and serves the HTML fallback.
	pdfLoader := adrender.NewLoader(func() (adrender.Engine, error) {
		return adrender.NewChromeEngine(cfg.Render.ChromePath, cfg.Render.Timeout)
	}, adrender.NewFallbackEngine(), appLogger)

	// Use Cases
	resolveUseCase := resumeUC.NewResolveUseCase(resumeRepo, sessionStore, documentCache, appLogger)
	saveSectionUseCase := resumeUC.NewSaveSectionUseCase(resumeRepo, sessionStore, resolveUseCase, statsCache, appLogger)
	newResumeUseCase := resumeUC.NewNewResumeUseCase(resumeRepo, sessionStore, resolveUseCase, statsCache, appLogger)
	listResumesUseCase := resumeUC.NewListResumesUseCase(resumeRepo)
	deleteResumeUseCase := resumeUC.NewDeleteResumeUseCase(resumeRepo, sessionStore, resolveUseCase, statsCache, appLogger)
	draftUseCase := resumeUC.NewDraftUseCase(sessionStore)
	purgeUseCase := resumeUC.NewPurgeTemporaryUseCase(sessionStore)

	getStatsUseCase := statsUC.NewGetStatsUseCase(resumeRepo, statsCache, appLogger)
	incrementDownloadUseCase := statsUC.NewIncrementDownloadUseCase(resumeRepo, statsCache, kafkaClient, appLogger)

	exportUseCase := exportUC.NewUseCase(resolveUseCase, sessionStore, pdfLoader, incrementDownloadUseCase, appLogger)

	loginUseCase := authUC.NewLoginUseCase(userRepo, jwtSvc, appLogger)
	registerUseCase := authUC.NewRegisterUseCase(userRepo, jwtSvc, appLogger)
	logoutUseCase := authUC.NewLogoutUseCase(sessionStore, appLogger)
	deleteAccountUseCase := authUC.NewDeleteAccountUseCase(userRepo, resumeRepo, sessionStore, appLogger)

	// HTTP Handlers
	authHandler := httpAdapter.NewAuthHandler(loginUseCase, registerUseCase, logoutUseCase, deleteAccountUseCase, appLogger)
	resumeHandler := httpAdapter.NewResumeHandler(
		resolveUseCase,
		saveSectionUseCase,
		newResumeUseCase,
		listResumesUseCase,
		deleteResumeUseCase,
		draftUseCase,
		purgeUseCase,
		appLogger,
	)
	exportHandler := httpAdapter.NewExportHandler(exportUseCase, appLogger)
	statsHandler := httpAdapter.NewStatsHandler(getStatsUseCase, incrementDownloadUseCase, appLogger)

	// Middleware
	authMiddleware := httpAdapter.AuthMiddleware(jwtSvc)

	// Setup Gin router
	router := gin.Default()
	router.Use(httpAdapter.ErrorMiddleware(appLogger))

	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		private := api.Group("/")
		private.Use(authMiddleware)
		{
			private.POST("/auth/logout", authHandler.Logout)
			private.DELETE("/auth/account", authHandler.DeleteAccount)
			private.GET("/auth/user-stats", statsHandler.UserStats)
			private.POST("/auth/increment-download-count", statsHandler.IncrementDownload)

			resumeGroup := private.Group("/resume")
			{
				resumeGroup.GET("/data/:email", resumeHandler.GetResumeData)
				resumeGroup.POST("/save", resumeHandler.SaveResume)
				resumeGroup.POST("/new", resumeHandler.NewResume)
				resumeGroup.DELETE("/temporary", resumeHandler.PurgeTemporary)
				resumeGroup.PUT("/draft/:section", resumeHandler.PutDraft)
				resumeGroup.GET("/draft/:section", resumeHandler.GetDraft)

				resumeGroup.GET("/preview", exportHandler.Preview)
				resumeGroup.POST("/export", exportHandler.Export)
				resumeGroup.POST("/export/retry", exportHandler.RetryEngine)
				resumeGroup.GET("/export/engine", exportHandler.EngineState)
			}

			usersGroup := private.Group("/users")
			{
				usersGroup.GET("/resumes", resumeHandler.ListResumes)
				usersGroup.DELETE("/resumes/:id", resumeHandler.DeleteResume)
			}
		}

		api.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })
	}

	log.Printf("Server running on port %s", cfg.App.Port)
	if err := router.Run(":" + cfg.App.Port); err != nil {
		log.Fatalf("Cannot run server: %v", err)
	}
}
