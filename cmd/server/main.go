package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/JeongJaeHyung/SYNEX-QUOTATION-sub000/internal/config"
	"github.com/JeongJaeHyung/SYNEX-QUOTATION-sub000/internal/middleware"
	"github.com/JeongJaeHyung/SYNEX-QUOTATION-sub000/internal/quote/entity"
	"github.com/JeongJaeHyung/SYNEX-QUOTATION-sub000/internal/quote/handler"
	"github.com/JeongJaeHyung/SYNEX-QUOTATION-sub000/internal/quote/repository"
	"github.com/JeongJaeHyung/SYNEX-QUOTATION-sub000/internal/quote/service"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// .env 파일 로드
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	// 설정 로드
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 로거 초기화
	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting synex-quotation service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	// 데이터베이스 초기화
	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&entity.Part{},
		&entity.EquipmentTemplate{},
		&entity.TemplateLine{},
		&entity.Document{},
		&entity.DocumentLine{},
		&entity.DocumentTemplate{},
	); err != nil {
		zapLogger.Warn("AutoMigrate warning", zap.Error(err))
	}
	zapLogger.Info("Database migration completed")

	// Redis 초기화
	rdb := initRedis(cfg.Redis)

	// 의존성 초기화
	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, rdb, cfg)
	handlers := handler.NewHandlers(services)

	// Gin 모드 설정
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 라우터 구성
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(router, handlers, cfg)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 정상 종료
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config) {
	// 헬스 체크
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 버전 정보
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	// API v1 (인증 필수)
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(cfg.JWT.Secret))
	{
		// 품목 마스터
		parts := v1.Group("/parts")
		{
			parts.GET("", h.Catalog.List)
			parts.GET("/:maker/:part", h.Catalog.Get)
			parts.POST("", middleware.RequirePermission("catalog:write"), h.Catalog.Create)
			parts.POST("/reorder", middleware.RequirePermission("catalog:write"), h.Catalog.Reorder)
			parts.PUT("/:maker/:part/price", middleware.RequirePermission("catalog:write"), h.Catalog.UpdatePrice)
			parts.DELETE("/:maker/:part", middleware.RequirePermission("catalog:write"), h.Catalog.Delete)
		}

		// 장비 템플릿
		templates := v1.Group("/templates")
		{
			templates.GET("", h.Template.List)
			templates.GET("/:id", h.Template.Get)
			templates.POST("", h.Template.Create)
			templates.DELETE("/:id", h.Template.Delete)
			templates.POST("/:id/lines", h.Template.AddLine)
			templates.PUT("/:id/lines/:maker/:part", h.Template.UpdateLine)
			templates.DELETE("/:id/lines/:maker/:part", h.Template.RemoveLine)
			templates.POST("/:id/reorder", h.Template.Reorder)
		}

		// 견적 문서
		documents := v1.Group("/documents")
		{
			documents.GET("", h.Document.List)
			documents.POST("", h.Document.Create)
			documents.GET("/:id", h.Document.Get)
			documents.PUT("/:id", h.Document.Update)
			documents.DELETE("/:id", h.Document.Delete)
			documents.GET("/:id/grouped", h.Document.GetGrouped)
			documents.GET("/:id/export", h.Document.Export)
			documents.POST("/compare", h.Document.CreateComparison)
			documents.PUT("/compare/:id", h.Document.UpdateComparison)
		}
	}
}
