package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"elibrary/docs"
	"elibrary/internal/config"
	"elibrary/internal/database"
	"elibrary/internal/database/migration"
	handlers "elibrary/internal/http/handler"
	"elibrary/internal/http/middleware"
	"elibrary/internal/otel"
	"elibrary/internal/repository/postgres"
	"elibrary/internal/service"
	"elibrary/internal/storage"
)

// serve wires the application and blocks until SIGINT/SIGTERM or a listener error.
func serve(ctx context.Context, cfg *config.AppConfig, log *slog.Logger, migrate bool) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Error("tracing_shutdown_failed", slog.String("error", err.Error()))
		}
	}()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if migrate {
		if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
			return err
		}
	}

	store, err := storage.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize file storage: %w", err)
	}

	docRepo := postgres.NewDocumentPostgres(db)
	tagRepo := postgres.NewTagPostgres(db)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	app, err := newApp(cfg, log, reg, handlers.Routes{
		APIPrefix:    cfg.APIPrefix,
		PublicPrefix: cfg.Storage.PublicPrefix,
		DB:           db,
		Store:        store,
		Gatherer:     reg,
		Documents:    service.NewDocumentService(log, store, docRepo, tagRepo, cfg.Storage.PublicPrefix),
		Comments:     service.NewCommentService(log, postgres.NewCommentPostgres(db), docRepo),
		Tags:         service.NewTagService(log, tagRepo),
		Users:        service.NewUserService(log, postgres.NewUserPostgres(db)),
	})
	if err != nil {
		return err
	}

	addr := ":" + cfg.Port
	listenErr := make(chan error, 1)
	go func() {
		log.Info("server_starting", slog.String("addr", addr), slog.String("storage_driver", cfg.Storage.Driver))
		listenErr <- app.Listen(addr)
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	log.Info("server_stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownSec)*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

// newApp builds the Fiber app with middleware, routes and Swagger UI.
func newApp(cfg *config.AppConfig, log *slog.Logger, reg prometheus.Registerer, routes handlers.Routes) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		AppName:               "elibrary",
		ErrorHandler:          handlers.ErrorHandler(),
		BodyLimit:             cfg.BodyLimitMB * 1024 * 1024,
		DisableStartupMessage: true,
	})

	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	app.Use(otelfiber.Middleware())
	// RequestID must run before Logger so every log line carries request_id.
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(promMiddleware.Handler())

	handlers.RegisterRoutes(app, routes)

	docs.SwaggerInfo.BasePath = cfg.APIPrefix
	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	return app, nil
}
