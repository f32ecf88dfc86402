package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"video-splitter/internal/config"
	"video-splitter/internal/diagnostics"
	"video-splitter/internal/jobs"
	"video-splitter/internal/metrics"
	"video-splitter/internal/retention"
	"video-splitter/internal/split"
)

// Deps groups the collaborators the HTTP surface exposes.
type Deps struct {
	Tracker *jobs.Tracker
	Events  *jobs.EventBus
	Runner  *split.Runner
	Prober  split.Prober
	Sweeper *retention.Sweeper
	Checker *diagnostics.Checker
}

// Server is the Fiber HTTP surface over the orchestration core.
type Server struct {
	app     *fiber.App
	cfg     *config.Config
	log     zerolog.Logger
	tracker *jobs.Tracker
	events  *jobs.EventBus
	runner  *split.Runner
	prober  split.Prober
	sweeper *retention.Sweeper
	checker *diagnostics.Checker
}

// NewServer wires routes and middleware over the given collaborators.
func NewServer(cfg *config.Config, log zerolog.Logger, deps Deps) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit:             int(cfg.Storage.MaxUploadBytes),
		DisableStartupMessage: true,
	})

	s := &Server{
		app:     app,
		cfg:     cfg,
		log:     log,
		tracker: deps.Tracker,
		events:  deps.Events,
		runner:  deps.Runner,
		prober:  deps.Prober,
		sweeper: deps.Sweeper,
		checker: deps.Checker,
	}

	// Request id + logging + metrics middleware.
	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()

		reqID := c.Get("X-Request-Id")
		if reqID == "" {
			reqID = uuid.New().String()
		}
		c.Locals("request_id", reqID)

		err := c.Next()

		latency := time.Since(start)
		status := c.Response().StatusCode()
		// The metric label uses the route template, not the raw path;
		// per-job URLs must not mint new label sets.
		metrics.RecordRequest(c.Method(), c.Route().Path, status, latency.Milliseconds())
		log.Info().
			Str("request_id", reqID).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Int64("latency_ms", latency.Milliseconds()).
			Msg("request")

		return err
	})

	app.Get("/healthz", s.handleHealth)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Post("/api/split", s.handleSplit)
	app.Get("/api/progress/:jobId", s.handleProgress)
	app.Get("/api/jobs/:jobId/events", s.handleJobEvents)
	app.Post("/api/cleanup", s.handleCleanup)
	app.Get("/api/diagnostics", s.handleDiagnostics)

	// Produced parts and archives are downloaded straight from the
	// storage area.
	app.Static("/parts", cfg.Storage.UploadDir)

	return s
}

// Listen serves HTTP on the configured address until failure.
func (s *Server) Listen() error {
	s.log.Info().Str("addr", s.cfg.Addr()).Msg("http server listening")
	return s.app.Listen(s.cfg.Addr())
}

// Shutdown drains in-flight requests. Detached job runs are not
// awaited; their records die with the process.
func (s *Server) Shutdown() error {
	return s.app.ShutdownWithTimeout(5 * time.Second)
}

// App exposes the underlying Fiber app for handler tests.
func (s *Server) App() *fiber.App {
	return s.app
}
