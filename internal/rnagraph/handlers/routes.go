package handlers

import (
	"database/sql"

	"rna-graph/internal/common/metrics"
	"rna-graph/internal/rnagraph/mapper"
	"rna-graph/internal/rnagraph/service"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"go.uber.org/zap"
)

type Deps struct {
	Sessions *service.SessionManager
	Pipeline *mapper.Pipeline
	Metrics  *metrics.Metrics
	DB       *sql.DB
	Logger   *zap.Logger
}

// Register вешает все маршруты сервиса на app
func Register(app *fiber.App, deps Deps) {
	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", LivenessProbe)
	app.Get("/health/ready", ReadinessProbe(deps.DB))
	app.Get("/health/startup", StartupProbe)
	app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))

	// ============================================================
	// Converter Routes
	// ============================================================

	convert := NewConvertHandler(deps.Pipeline, deps.Logger)
	app.Post("/convert", convert.Convert)

	// ============================================================
	// Session Routes
	// ============================================================

	sessions := NewSessionHandler(deps.Sessions, deps.Logger)
	app.Post("/sessions", sessions.Create)
	app.Post("/sessions/:id/upload", sessions.Upload)
	app.Get("/sessions/:id/scene", sessions.Scene)
	app.Post("/sessions/:id/events", sessions.Events)
	app.Get("/sessions/:id/preview.svg", sessions.Preview)
	app.Get("/sessions/:id/uploads", sessions.Uploads)
	app.Delete("/sessions/:id", sessions.Delete)
}
