package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/redmonkez12/jwt-auth-api/docs" // Swagger docs
	"github.com/redmonkez12/jwt-auth-api/internal/account"
	"github.com/redmonkez12/jwt-auth-api/internal/auth"
	"github.com/redmonkez12/jwt-auth-api/internal/config"
	"github.com/redmonkez12/jwt-auth-api/internal/database"
	httpServer "github.com/redmonkez12/jwt-auth-api/internal/http"
	"github.com/redmonkez12/jwt-auth-api/internal/logging"
	"github.com/redmonkez12/jwt-auth-api/internal/user"
)

// @title           JWT Auth API
// @version         1.0
// @description     Account registration, login and self-service profile management with stateless bearer tokens.

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token.

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"token_format", cfg.Auth.TokenFormat,
		"password_hasher", cfg.Auth.PasswordHasher,
	)
	if cfg.Auth.TokenFormat == config.TokenFormatJWT && cfg.Auth.UsesDefaultSecret() {
		logger.Warn("JWT_SECRET is not set, using the insecure development default")
	}

	sqlDB, err := database.Open(cfg.Database.ConnectionString(), database.PoolConfig{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer sqlDB.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(context.Background(), sqlDB); err != nil {
			return err
		}
		logger.Info("database migrations applied")
	}

	db := database.NewBunDB(sqlDB)

	userRepo := user.NewRepository(db)

	hasher, err := auth.NewPasswordHasher(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize password hasher: %w", err)
	}

	tokenService, err := auth.NewTokenService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}

	accountService := account.NewService(userRepo, hasher, tokenService, logger)
	accountHandler := account.NewHandler(accountService)
	authMiddleware := auth.NewMiddleware(tokenService)

	router := httpServer.NewRouter(cfg, accountHandler, authMiddleware, logger)

	server := httpServer.NewServer(
		":"+cfg.Server.Port,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
		logger,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		logger.Info("received signal", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}
