package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/ppiankov/knowval/internal/model"
	"go.uber.org/zap"
)

// Store is the persistence the API edits directly
type Store interface {
	Snapshot() (model.KnowledgeBase, error)
	SaveSnapshot(kb model.KnowledgeBase) error
	Policy() (model.ReferencePolicy, error)
	SavePolicy(p model.ReferencePolicy) error
	ListExamples() ([]string, error)
	LoadExample(name string) (model.KnowledgeBase, error)
	History(ctx context.Context) ([]model.HistoryRun, error)
}

// Validations runs persisted validations
type Validations interface {
	Run(ctx context.Context) (*model.ValidationReport, error)
	ValidateText(ctx context.Context) (string, error)
	LatestReport(ctx context.Context) (*model.ValidationReport, error)
}

// Server exposes the validator over REST
type Server struct {
	app         *fiber.App
	store       Store
	validations Validations
	logger      *zap.Logger
}

// NewServer builds the fiber app. metrics may be nil to leave /metrics unmounted.
func NewServer(cfg model.ServerConfig, store Store, validations Validations, metrics http.Handler, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:               "knowval",
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		BodyLimit:             cfg.BodyLimit,
		DisableStartupMessage: true,
	})

	s := &Server{
		app:         app,
		store:       store,
		validations: validations,
		logger:      logger,
	}

	app.Use(recover.New())
	app.Use(s.requestLogger)

	if metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(metrics))
	}

	api := app.Group("/api/v1")
	api.Get("/health", s.health)
	api.Get("/knowledge", s.getKnowledge)
	api.Put("/knowledge", s.putKnowledge)
	api.Get("/reference", s.getReference)
	api.Put("/reference", s.putReference)
	api.Post("/validate", s.validate)
	api.Post("/validate-text", s.validateText)
	api.Get("/validation-report", s.validationReport)
	api.Get("/examples", s.listExamples)
	api.Post("/load-example", s.loadExample)
	api.Get("/history", s.history)

	return s
}

// App returns the fiber app (tests drive it with app.Test)
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves until Shutdown is called
func (s *Server) Listen(addr string) error {
	s.logger.Info("server starting", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown stops the server, waiting up to timeout for open requests
func (s *Server) Shutdown(timeout time.Duration) error {
	return s.app.ShutdownWithTimeout(timeout)
}

func (s *Server) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.logger.Debug("request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", c.Response().StatusCode()),
		zap.Duration("latency", time.Since(start)))
	return err
}
