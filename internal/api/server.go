// Package api exposes the learning and approval operations over HTTP for
// the web dashboard. Ingestion stays on the CLI; the API only reads,
// suggests and corrects.
package api

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/ysiton/shekelwise/internal/categorize"
	"github.com/ysiton/shekelwise/internal/common"
	"github.com/ysiton/shekelwise/internal/learning"
	"github.com/ysiton/shekelwise/internal/service"
)

// Config holds the API server configuration.
type Config struct {
	// SimilarityThreshold applies when a request does not supply its own.
	SimilarityThreshold float64
	// SuggestionLimit caps improvement suggestion responses.
	SuggestionLimit int
}

// DefaultConfig returns the default API configuration.
func DefaultConfig() Config {
	return Config{
		SimilarityThreshold: learning.DefaultSimilarityThreshold,
		SuggestionLimit:     20,
	}
}

// Server wires the HTTP routes to the categorization services.
type Server struct {
	app        *fiber.App
	store      service.Storage
	pipeline   *categorize.Pipeline
	learner    *learning.Categorizer
	propagator *learning.Propagator
	config     Config
}

// NewServer builds the fiber application and registers all routes.
func NewServer(store service.Storage, pipeline *categorize.Pipeline, learner *learning.Categorizer, propagator *learning.Propagator, config Config) *Server {
	s := &Server{
		app: fiber.New(fiber.Config{
			AppName:               "shekelwise",
			DisableStartupMessage: true,
		}),
		store:      store,
		pipeline:   pipeline,
		learner:    learner,
		propagator: propagator,
		config:     config,
	}

	s.app.Get("/api/health", s.handleHealth)
	s.app.Get("/api/ai-stats", s.handleStats)
	s.app.Get("/api/ai-suggestions", s.handleSuggestions)
	s.app.Get("/api/similar-businesses", s.handleSimilar)
	s.app.Post("/api/approve-business", s.handleApprove)
	s.app.Post("/api/retrain", s.handleRetrain)

	return s
}

// App returns the underlying fiber application, used by tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves the API on the given address until Shutdown.
func (s *Server) Listen(addr string) error {
	slog.Info("starting API server", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func jsonError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

func statusFor(err error) int {
	if errors.Is(err, common.ErrNotFound) {
		return fiber.StatusNotFound
	}
	return fiber.StatusInternalServerError
}
