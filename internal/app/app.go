package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "goodsgo/docs"
	"goodsgo/internal/config"
	"goodsgo/internal/handlers"
	"goodsgo/internal/logger"
	"goodsgo/internal/middleware"
	"goodsgo/internal/pdf"
	"goodsgo/internal/repositories"
	"goodsgo/internal/routes"
	"goodsgo/internal/services"
)

const shutdownTimeout = 10 * time.Second

// Run serves the API until SIGINT or SIGTERM.
func Run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	var logOpts []logger.Option
	if cfg.Server.Mode == gin.DebugMode {
		logOpts = append(logOpts, logger.WithLevel("debug"))
	}
	log := logger.New(cfg.Log, logOpts...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// === DB ===
	dialect, err := repositories.ParseDialect(cfg.Database.Driver)
	if err != nil {
		return err
	}
	db, err := repositories.Open(dialect, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("[app] close db", "err", err)
		}
	}()
	if cfg.Database.Migrate {
		if err := db.Migrate(ctx); err != nil {
			return err
		}
		log.Info("[app] schema applied", "driver", string(dialect))
	}

	// === Repos ===
	taskRepo := repositories.NewTaskRepository(db)
	itemRepo := repositories.NewItemRepository(db)
	locationRepo := repositories.NewLocationRepository(db)
	userRepo := repositories.NewUserRepository(db)
	activityRepo := repositories.NewTaskActivityRepository(db)

	// === Notifications ===
	var emailService services.EmailService
	if cfg.Email.Enabled() {
		emailService = services.NewEmailService(
			cfg.Email.SMTPHost,
			cfg.Email.SMTPPort,
			cfg.Email.SMTPUser,
			cfg.Email.SMTPPassword,
			cfg.Email.FromEmail,
		)
	}
	var telegramService *services.TelegramService
	if cfg.Telegram.Enabled() {
		bot, err := services.NewTelegramBot(cfg.Telegram.Token)
		if err != nil {
			// the service still runs without the staff chat
			log.Warn("[app] telegram disabled", "err", err)
		} else {
			telegramService = services.NewTelegramService(bot, cfg.Telegram.ChatID)
		}
	}
	notifier := services.NewLeaderNotifier(userRepo, itemRepo, locationRepo, emailService, telegramService, log)

	// === Services ===
	cache := services.NewTaskListCache(cfg.Cache.Size, cfg.Cache.TTL)
	taskService := services.NewTaskService(taskRepo, itemRepo, locationRepo, userRepo, activityRepo, cache, notifier, log)
	authService := services.NewAuthService(userRepo, log)

	tokens, err := middleware.NewSessionTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(authService, tokens, cfg.Auth.CookieSecure, log)
	sheets := pdf.NewSheetGenerator(cfg.Export.FontPath)
	if err := sheets.CheckFont(); err != nil {
		log.Warn("[app] run sheets will not render Japanese text; set export.font_path", "err", err)
	}
	taskHandler := handlers.NewTaskHandler(taskService, sheets, log)

	// === Gin ===
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(router, routes.Deps{
		Tokens:   tokens,
		Profiles: authService,
		DB:       db,
		Auth:     authHandler,
		Tasks:    taskHandler,
	})

	// === Run ===
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("[app] listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}
	log.Info("[app] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
