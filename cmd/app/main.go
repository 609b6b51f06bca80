package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"miniapp-user-backend/docs"
	"miniapp-user-backend/internal/common/config"
	"miniapp-user-backend/internal/common/logger"
	"miniapp-user-backend/internal/common/middleware"
	"miniapp-user-backend/internal/features/auth/verifier"
	userHandler "miniapp-user-backend/internal/features/user/delivery/http"
	userEvents "miniapp-user-backend/internal/features/user/events"
	userRepo "miniapp-user-backend/internal/features/user/repository/redis"
	userService "miniapp-user-backend/internal/features/user/service"
	"miniapp-user-backend/internal/platform/redis"
)

const serviceName = "miniapp-user-backend"

// @title           Mini App User API
// @version         1.0
// @description     User store for a Telegram Mini App. All endpoints require init_data authentication.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey TelegramInitData
// @in header
// @name init_data
// @description Telegram Mini App init_data string for authentication

// @tag.name users
// @tag.description User records keyed by telegram id

func main() {
	// Инициализируем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log := logger.Init(serviceName, cfg.Debug)
	log.Info().
		Str("version", "1.0.0").
		Bool("debug", cfg.Debug).
		Msg("Starting Mini App User Backend")

	// Инициализируем Redis
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	redisClient, err := redis.Open(ctx, redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	log.Info().Str("addr", cfg.RedisAddr()).Msg("Redis connection established")

	userRepository := userRepo.NewUserRepository(redisClient, cfg.Redis.KeyPrefix)
	userSvcConfig := userService.Config{
		DefaultLanguageCode: cfg.Store.DefaultLanguageCode,
	}
	if cfg.Redis.EventsStream != "" {
		userSvcConfig.Events = userEvents.NewRedisStreamPublisher(redisClient, cfg.Redis.EventsStream, cfg.Redis.EventsMaxLen)
	}
	userSvc := userService.NewUserService(userRepository, userSvcConfig, log)
	initDataVerifier := verifier.New(verifier.Config{
		MaxAge:      cfg.Telegram.InitDataMaxAge,
		RejectStale: cfg.Telegram.RejectStaleInitData,
	}, log)

	log.Info().Msg("Services initialized")

	// Настраиваем Gin
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Добавляем middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.HandleErrors(log))
	router.Use(middleware.Recovery(log))

	// Настраиваем CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.AllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "PATCH", "OPTIONS"}
	corsConfig.AllowHeaders = []string{
		"Content-Type", "Authorization", "Accept",
		middleware.InitDataHeader, middleware.AltInitDataHeader,
	}
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	// Настраиваем роуты
	v1 := router.Group("/api/v1")
	v1.Use(middleware.TelegramInitData(initDataVerifier, cfg.Telegram.BotToken, log))
	userHandler.NewUserHandler(userSvc, cfg.Telegram.AdminIDs).RegisterRoutes(v1)

	setupProbes(router, redisClient, log)

	if cfg.Debug {
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", cfg.Server.Port)
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	log.Info().Msg("Routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Ждем сигнала для graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

func setupProbes(router *gin.Engine, redisClient *redis.Client, log zerolog.Logger) {
	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   serviceName,
		})
	})

	// Liveness probe
	router.GET("/live", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	// Readiness probe
	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := redisClient.HealthCheck(ctx); err != nil {
			log.Warn().Err(err).Msg("Readiness check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unready",
				"error":  "redis unavailable",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "ready",
			"timestamp": time.Now().UTC(),
			"service":   serviceName,
		})
	})
}
