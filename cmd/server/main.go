package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	batchapp "github.com/equipment/backend/internal/application/batch"
	equipmentapp "github.com/equipment/backend/internal/application/equipment"
	"github.com/equipment/backend/internal/application/extraction"
	meteringapp "github.com/equipment/backend/internal/application/metering"
	searchapp "github.com/equipment/backend/internal/application/search"
	signboardapp "github.com/equipment/backend/internal/application/signboard"
	"github.com/equipment/backend/internal/infrastructure/config"
	"github.com/equipment/backend/internal/infrastructure/drive"
	"github.com/equipment/backend/internal/infrastructure/excel"
	"github.com/equipment/backend/internal/infrastructure/llm"
	"github.com/equipment/backend/internal/infrastructure/logger"
	"github.com/equipment/backend/internal/infrastructure/ocr"
	"github.com/equipment/backend/internal/infrastructure/persistence"
	"github.com/equipment/backend/internal/infrastructure/search"
	"github.com/equipment/backend/internal/infrastructure/storage"
	"github.com/equipment/backend/internal/interfaces/http/handler"
	"github.com/equipment/backend/internal/interfaces/http/middleware"
	"github.com/equipment/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/equipment/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Equipment Inventory API
//	@version		1.0
//	@description	建設機材・看板在庫管理システム API - 銘板写真からのOCR/LLM抽出と在庫台帳管理

//	@contact.name	API Support
//	@contact.url	https://github.com/equipment/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.basic	BasicAuth
//	@description				HTTP Basic authentication. Disabled when no username is configured.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting equipment backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected",
		zap.String("driver", cfg.Database.Driver),
	)

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Image blob storage: local directory by default, S3-compatible when
	// configured. The local directory doubles as a static file root.
	var blobs storage.BlobStore
	var localImageDir string
	switch cfg.Storage.Backend {
	case "s3":
		s3Store, err := storage.NewS3BlobStore(&cfg.Storage, storage.WithS3Logger(log))
		if err != nil {
			log.Fatal("Failed to initialize S3 storage", zap.Error(err))
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := s3Store.EnsureBucket(ctx); err != nil {
			log.Warn("Could not ensure S3 bucket exists", zap.Error(err))
		}
		cancel()
		blobs = s3Store
		log.Info("Using S3 blob storage", zap.String("bucket", cfg.Storage.Bucket))
	default:
		localStore, err := storage.NewLocalBlobStore(cfg.Storage.LocalDir, storage.WithLocalLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize local storage", zap.Error(err))
		}
		blobs = localStore
		localImageDir = localStore.Dir()
		log.Info("Using local blob storage", zap.String("dir", localImageDir))
	}

	// Initialize repositories
	equipmentRepo := persistence.NewGormEquipmentRepository(db.DB)
	signboardRepo := persistence.NewGormSignboardRepository(db.DB)
	usageRepo := persistence.NewGormUsageRepository(db.DB,
		persistence.WithFreeLimit(cfg.Google.VisionFreeLimit),
	)

	// Extraction clients
	ocrClient := ocr.NewVisionClient(cfg.Google.VisionCredentialsFile, ocr.WithVisionLogger(log))
	llmClient := llm.NewGeminiClient(cfg.Gemini.APIKey, cfg.Gemini.Model,
		llm.WithGeminiLogger(log),
		llm.WithGeminiTimeout(cfg.Gemini.Timeout),
	)
	if !llmClient.Configured() {
		log.Warn("Gemini API key not configured, extraction falls back to OCR text only")
	}

	// Document search providers: Tavily when a key is present, DuckDuckGo as
	// the keyless fallback.
	var primarySearch searchapp.Provider
	if cfg.Search.TavilyAPIKey != "" {
		primarySearch = search.NewTavilyClient(cfg.Search.TavilyAPIKey,
			search.WithTavilyTimeout(cfg.Search.Timeout),
		)
	}
	fallbackSearch := search.NewDuckDuckGoClient(search.WithDuckDuckGoTimeout(cfg.Search.Timeout))

	// Initialize services
	pipeline := extraction.NewPipeline(ocrClient, llmClient, usageRepo, equipmentRepo, blobs, log)
	equipmentSvc := equipmentapp.NewService(equipmentRepo, blobs, log)
	signboardSvc := signboardapp.NewService(signboardRepo, blobs, log)
	meteringSvc := meteringapp.NewService(usageRepo, log)
	searchSvc := searchapp.NewService(primarySearch, fallbackSearch, cfg.Search.MaxResults, log)

	tracker := batchapp.NewTracker()
	runner := batchapp.NewRunner(pipeline, tracker, cfg.Batch.ImageDir, cfg.Batch.ItemDelay, log)

	driveClient := drive.NewClient(cfg.Google.OAuthCredentialsFile, cfg.Google.OAuthTokenFile,
		drive.WithDriveLogger(log),
	)

	exporter := excel.NewExporter()

	// Initialize handlers
	equipmentHandler := handler.NewEquipmentHandler(equipmentSvc, pipeline, exporter, cfg.Batch.JSONImportDir, log)
	signboardHandler := handler.NewSignboardHandler(signboardSvc, exporter, log)
	searchHandler := handler.NewSearchHandler(searchSvc)
	batchHandler := handler.NewBatchHandler(runner)
	driveHandler := handler.NewDriveHandler(driveClient, runner, cfg.Google.SignboardFolderID, cfg.Google.EquipmentFolderIDs, log)
	usageHandler := handler.NewUsageHandler(meteringSvc)
	settingRepo := persistence.NewGormSettingRepository(db.DB)
	configHandler := handler.NewConfigHandler(cfg.Google.VisionCredentialsFile, cfg.Google.OAuthCredentialsFile, cfg.Google.OAuthTokenFile, llmClient, driveClient, settingRepo, cfg.Google.DriveFolderID, log)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	} else {
		_ = engine.SetTrustedProxies(nil)
	}

	// Global middleware
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Swagger documentation endpoint
	if cfg.Swagger.Enabled {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Stored nameplate images are served directly when the local backend is
	// active. S3 deployments serve images from the bucket's public URL.
	if localImageDir != "" {
		engine.Static("/images", localImageDir)
	}

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Basic auth covers the whole API surface. An empty username disables it.
	r.Use(middleware.BasicAuth(cfg.Auth.Username, cfg.Auth.PasswordHash))
	if cfg.Auth.Username == "" {
		log.Warn("Basic auth disabled, API is open")
	}

	// Equipment domain (records, extraction, import/export)
	equipmentRoutes := router.NewDomainGroup("equipment", "/equipment")
	equipmentRoutes.GET("", equipmentHandler.ListEquipment)
	equipmentRoutes.POST("", equipmentHandler.CreateEquipment)
	equipmentRoutes.GET("/categories", equipmentHandler.ListCategories)
	equipmentRoutes.GET("/export/excel", equipmentHandler.ExportExcel)
	equipmentRoutes.POST("/upload", equipmentHandler.UploadImage)
	equipmentRoutes.POST("/import/json", equipmentHandler.ImportJSON)
	equipmentRoutes.POST("/import/upload", equipmentHandler.ImportJSONUpload)
	equipmentRoutes.GET("/import/files", equipmentHandler.ListImportFiles)
	equipmentRoutes.POST("/import/file", equipmentHandler.ImportJSONFile)
	equipmentRoutes.DELETE("", equipmentHandler.DeleteAllEquipment)
	equipmentRoutes.GET("/:id", equipmentHandler.GetEquipment)
	equipmentRoutes.PUT("/:id", equipmentHandler.UpdateEquipment)
	equipmentRoutes.DELETE("/:id", equipmentHandler.DeleteEquipment)
	equipmentRoutes.POST("/:id/increment", equipmentHandler.Increment)
	equipmentRoutes.POST("/:id/decrement", equipmentHandler.Decrement)

	// Signboard domain (inventory with a quantity ledger)
	signboardRoutes := router.NewDomainGroup("signboard", "/signboards")
	signboardRoutes.GET("", signboardHandler.ListSignboards)
	signboardRoutes.POST("", signboardHandler.CreateSignboard)
	signboardRoutes.GET("/export/excel", signboardHandler.ExportExcel)
	signboardRoutes.POST("/reset-quantities", signboardHandler.ResetQuantities)
	signboardRoutes.GET("/history/all", signboardHandler.GetAllHistory)
	signboardRoutes.GET("/:id", signboardHandler.GetSignboard)
	signboardRoutes.PUT("/:id", signboardHandler.UpdateSignboard)
	signboardRoutes.DELETE("/:id", signboardHandler.DeleteSignboard)
	signboardRoutes.POST("/:id/quantity/add", signboardHandler.AddQuantity)
	signboardRoutes.POST("/:id/quantity/subtract", signboardHandler.SubtractQuantity)
	signboardRoutes.POST("/:id/increment", signboardHandler.Increment)
	signboardRoutes.POST("/:id/decrement", signboardHandler.Decrement)
	signboardRoutes.GET("/:id/history", signboardHandler.GetHistory)

	// Document search
	searchRoutes := router.NewDomainGroup("search", "/search")
	searchRoutes.GET("/documents", searchHandler.SearchDocuments)

	// Batch import of local nameplate images
	batchRoutes := router.NewDomainGroup("batch", "/batch")
	batchRoutes.POST("/import", batchHandler.StartLocalImport)
	batchRoutes.GET("/progress", batchHandler.GetProgress)
	batchRoutes.GET("/progress/:job_id", batchHandler.GetJobProgress)
	batchRoutes.GET("/local-files", batchHandler.ListLocalFiles)

	// Google Drive import
	driveRoutes := router.NewDomainGroup("drive", "/drive")
	driveRoutes.GET("/status", driveHandler.GetStatus)
	driveRoutes.GET("/auth-url", driveHandler.GetAuthURL)
	driveRoutes.POST("/connect", driveHandler.Connect)
	driveRoutes.GET("/folder-info", driveHandler.GetFolderInfo)
	driveRoutes.POST("/import", driveHandler.StartImport)
	driveRoutes.POST("/import-file", driveHandler.ImportFile)
	driveRoutes.GET("/signboards", driveHandler.ListSignboardTemplates)
	driveRoutes.GET("/equipment-folders", driveHandler.ListEquipmentFolders)
	driveRoutes.GET("/images/:file_id", driveHandler.GetImage)

	// API usage metering
	usageRoutes := router.NewDomainGroup("api-usage", "/api-usage")
	usageRoutes.GET("", usageHandler.GetStats)
	usageRoutes.GET("/:api", usageHandler.GetStats)
	usageRoutes.GET("/:api/history", usageHandler.GetHistory)
	usageRoutes.POST("/:api/reset", usageHandler.Reset)

	// Runtime configuration
	configRoutes := router.NewDomainGroup("config", "/config")
	configRoutes.GET("/vision-credentials", configHandler.GetVisionCredentialsStatus)
	configRoutes.POST("/vision-credentials", configHandler.UploadVisionCredentials)
	configRoutes.POST("/oauth-credentials", configHandler.UploadOAuthCredentials)
	configRoutes.GET("/api-status", configHandler.GetAPIStatus)
	configRoutes.GET("/drive-folder", configHandler.GetDriveFolder)
	configRoutes.POST("/drive-folder", configHandler.SetDriveFolder)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(equipmentRoutes).
		Register(signboardRoutes).
		Register(searchRoutes).
		Register(batchRoutes).
		Register(driveRoutes).
		Register(usageRoutes).
		Register(configRoutes).
		Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
