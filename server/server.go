package server

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/meikuraledutech/flow"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// schemaManager is implemented by stores that own their database schema.
type schemaManager interface {
	CreateSchema(ctx context.Context) error
	DropSchema(ctx context.Context) error
}

// Server exposes variable resolution and condition evaluation over HTTP.
type Server struct {
	app      *fiber.App
	store    flow.OutputStore
	log      *zap.Logger
	registry *prometheus.Registry
	metrics  *metrics
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Server) {
		s.log = log
	}
}

// WithRegistry sets the Prometheus registry the server registers its collectors on.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.registry = reg
	}
}

// New builds a Server whose /runs routes read from and write to store.
func New(store flow.OutputStore, opts ...Option) *Server {
	s := &Server{store: store}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	s.metrics = newMetrics(s.registry)

	// Params are kept by the memory store, so they must outlive the request buffer.
	s.app = fiber.New(fiber.Config{Immutable: true})
	s.app.Use(s.logRequests)
	s.routes()
	return s
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves HTTP on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.log.Info("listening", zap.String("addr", addr))
	return s.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) routes() {
	app := s.app

	// ── Stateless evaluation ──────────────────────────────────────────
	app.Post("/resolve", s.resolve)
	app.Post("/evaluate", s.evaluate)
	app.Post("/branches", s.branches)

	// ── Runs (node output snapshots) ──────────────────────────────────
	app.Post("/runs", s.createRun)
	app.Delete("/runs/:id", s.deleteRun)
	app.Get("/runs/:id/nodes", s.listOutputs)
	app.Get("/runs/:id/nodes/:node", s.getOutput)
	app.Put("/runs/:id/nodes/:node", s.saveOutput)
	app.Delete("/runs/:id/nodes/:node", s.deleteOutput)

	app.Post("/runs/:id/resolve", s.resolveRun)
	app.Post("/runs/:id/evaluate", s.evaluateRun)
	app.Post("/runs/:id/branches", s.branchesRun)

	// ── Schema ────────────────────────────────────────────────────────
	if sm, ok := s.store.(schemaManager); ok {
		app.Post("/schema", func(c fiber.Ctx) error {
			if err := sm.CreateSchema(c.Context()); err != nil {
				return s.internalError(c, err)
			}
			return c.JSON(fiber.Map{"message": "schema created"})
		})
		app.Delete("/schema", func(c fiber.Ctx) error {
			if err := sm.DropSchema(c.Context()); err != nil {
				return s.internalError(c, err)
			}
			return c.JSON(fiber.Map{"message": "schema dropped"})
		})
	}

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
}

func (s *Server) logRequests(c fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		status = fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}
	}

	s.metrics.observeRequest(c.Method(), status)
	s.log.Debug("request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", status),
		zap.Duration("latency", time.Since(start)),
	)
	return err
}

func (s *Server) internalError(c fiber.Ctx, err error) error {
	s.log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
