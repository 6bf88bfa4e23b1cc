package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/uiineed/todo-service/internal/config"
	"github.com/uiineed/todo-service/internal/domain/repository"
	memorystore "github.com/uiineed/todo-service/internal/domain/repository/memory"
	"github.com/uiineed/todo-service/internal/domain/repository/postgres"
	redisstore "github.com/uiineed/todo-service/internal/domain/repository/redis"
	httphandler "github.com/uiineed/todo-service/internal/handler/http"
	"github.com/uiineed/todo-service/internal/infrastructure/database"
	redisinfra "github.com/uiineed/todo-service/internal/infrastructure/redis"
	"github.com/uiineed/todo-service/internal/infrastructure/security"
	"github.com/uiineed/todo-service/internal/service"
	"github.com/uiineed/todo-service/internal/utils/logger"
)

// App wires configuration, storage, services and the HTTP server.
type App struct {
	cfg        *config.Config
	logger     *zap.Logger
	httpServer *http.Server
	cleanup    []func()
}

// New builds the application from configuration.
func New(cfg *config.Config) (*App, error) {
	log, err := logger.New(cfg.Logging.Level, cfg.App.Environment)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	app := &App{cfg: cfg, logger: log}

	// Release already-acquired resources when a later constructor fails.
	ok := false
	defer func() {
		if !ok {
			app.closeResources()
		}
	}()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(cfg.Database, "migrations"); err != nil {
			return nil, err
		}
		log.Info("database migrations applied")
	}

	pool, err := database.NewPool(context.Background(), cfg.Database)
	if err != nil {
		return nil, err
	}
	app.cleanup = append(app.cleanup, pool.Close)

	var states repository.StateStore
	if cfg.Redis.Enabled {
		client, err := redisinfra.NewClient(context.Background(), cfg.Redis)
		if err != nil {
			return nil, err
		}
		app.cleanup = append(app.cleanup, func() { _ = client.Close() })
		states = redisstore.NewStateStore(client, logger.WithComponent(log, "state_store"), cfg.WeChat.StateTTL)
		log.Info("using redis login state store")
	} else {
		states = memorystore.NewStateStore(cfg.WeChat.StateTTL)
		log.Info("using in-memory login state store")
	}

	tokens, err := security.NewJWTService(cfg.JWT, logger.WithComponent(log, "jwt"))
	if err != nil {
		return nil, err
	}

	userRepo := postgres.NewUserRepository(pool)
	todoRepo := postgres.NewTodoRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)

	wechat := service.NewWeChatService(cfg.WeChat, logger.WithComponent(log, "wechat"))
	users := service.NewUserService(userRepo, logger.WithComponent(log, "users"))
	auth := service.NewAuthService(wechat, users, states, tokens, logger.WithComponent(log, "auth"))
	todos := service.NewTodoService(todoRepo, categoryRepo, logger.WithComponent(log, "todos"))
	categories := service.NewCategoryService(categoryRepo, todoRepo, logger.WithComponent(log, "categories"))

	router := httphandler.SetupRouter(auth, todos, categories, tokens, logger.WithComponent(log, "http"))

	app.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ok = true
	return app, nil
}

// closeResources releases acquired resources in reverse acquisition order.
func (a *App) closeResources() {
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		a.cleanup[i]()
	}
}

// Run starts the HTTP server and blocks until a shutdown signal arrives,
// then drains in-flight requests within the shutdown timeout.
func (a *App) Run() error {
	errChan := make(chan error, 1)
	go func() {
		a.logger.Info("http server starting", zap.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return fmt.Errorf("http server failed: %w", err)
	case sig := <-quit:
		a.logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}

	a.closeResources()
	a.logger.Info("shutdown complete")
	return nil
}
