// Package httpserver exposes the vault HTTP API.
package httpserver

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/and161185/goph-vault/internal/observability"
	"github.com/and161185/goph-vault/internal/service"
)

// Deps bundles dependencies for the HTTP app.
type Deps struct {
	Auth      service.AuthService
	Records   service.RecordService
	Generator service.GeneratorService
	// DB is pinged by /health; nil skips the check.
	DB      Pinger
	Log     *zap.Logger
	Metrics *observability.Metrics

	CORSOrigins    string
	RequestTimeout time.Duration
}

// New builds the fiber app with middleware and routes registered.
func New(d Deps) (*fiber.App, error) {
	if d.Auth == nil || d.Records == nil || d.Generator == nil {
		return nil, errors.New("httpserver: nil service")
	}
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Metrics == nil {
		d.Metrics = observability.NewMetrics()
	}
	if d.CORSOrigins == "" {
		d.CORSOrigins = "*"
	}

	app := fiber.New(fiber.Config{
		AppName:               "goph-vault",
		DisableStartupMessage: true,
		ErrorHandler:          ErrorHandler(d.Log),
	})

	app.Use(RequestID())
	app.Use(Logging(d.Log, d.Metrics))
	app.Use(Recover(d.Log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: d.CORSOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Content-Type,Authorization",
	}))
	app.Use(Timeout(d.RequestTimeout))

	h := &Handlers{
		auth:    d.Auth,
		records: d.Records,
		gen:     d.Generator,
		db:      d.DB,
		metrics: d.Metrics,
	}

	app.Get("/health", h.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Metrics.Registry, promhttp.HandlerOpts{})))

	api := app.Group("/api")
	api.Post("/auth/login", h.Login)
	api.Get("/generate-password", h.GeneratePassword)

	gated := api.Group("", RequireSession(d.Auth, d.Metrics))
	gated.Get("/auth/session", h.Session)
	gated.Get("/items", h.ListItems)
	gated.Post("/items", h.CreateItem)
	gated.Get("/items/:id", h.GetItem)
	gated.Put("/items/:id", h.UpdateItem)
	gated.Delete("/items/:id", h.DeleteItem)

	return app, nil
}
