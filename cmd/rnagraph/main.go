package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rna-graph/internal/common/config"
	"rna-graph/internal/common/logging"
	"rna-graph/internal/common/metrics"
	"rna-graph/internal/common/middleware"
	"rna-graph/internal/rnagraph/handlers"
	"rna-graph/internal/rnagraph/interaction"
	"rna-graph/internal/rnagraph/mapper"
	"rna-graph/internal/rnagraph/repository"
	"rna-graph/internal/rnagraph/service"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"go.uber.org/zap"
)

// ============================================================
// RNA Graph Service
// ============================================================

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	m := metrics.New(true)

	// ============================================================
	// Upload Journal
	// ============================================================

	var db *sql.DB
	var journal *repository.Repository
	if cfg.JournalDBPath != "" {
		db, err = repository.OpenSQLite(cfg.JournalDBPath)
		if err != nil {
			logger.Fatal("failed to open journal", zap.Error(err))
		}
		defer db.Close()

		journal = repository.New(db)
		if err := journal.Init(context.Background(), cfg.MigrationsPath); err != nil {
			logger.Fatal("failed to init journal", zap.Error(err))
		}
	}

	// ============================================================
	// Pipeline
	// ============================================================

	annotator := interaction.NewAnnotator(cfg.AnnotatorURL, cfg.AnnotatorTimeoutDuration())
	pipeline := mapper.New(annotator, logger, m)
	sessions := service.NewSessionManager(pipeline, journal, cfg.AsyncInteractions, logger, m)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		BodyLimit:    cfg.BodyLimit(),
		AppName:      "RNA Graph Service",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger(logger))
	app.Use(middleware.CORS(cfg.CORSOrigins))

	handlers.Register(app, handlers.Deps{
		Sessions: sessions,
		Pipeline: pipeline,
		Metrics:  m,
		DB:       db,
		Logger:   logger,
	})

	// ============================================================
	// Server Start
	// ============================================================

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop

		logger.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			logger.Warn("shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Port)
	logger.Info("starting RNA Graph Service",
		zap.String("addr", addr),
		zap.String("env", cfg.Environment),
		zap.Bool("remote_annotator", cfg.AnnotatorURL != ""),
		zap.Bool("async_interactions", cfg.AsyncInteractions),
	)

	if err := app.Listen(addr); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
	sessions.Wait()
}
