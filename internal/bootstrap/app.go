package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"video-splitter/internal/archive"
	"video-splitter/internal/config"
	"video-splitter/internal/diagnostics"
	"video-splitter/internal/domain"
	"video-splitter/internal/jobs"
	"video-splitter/internal/logging"
	"video-splitter/internal/media"
	"video-splitter/internal/metrics"
	"video-splitter/internal/retention"
	"video-splitter/internal/server"
	"video-splitter/internal/split"
)

// App wires configuration, the orchestration core, the retention
// sweeper, and the HTTP surface into one runnable unit.
type App struct {
	Config      *config.Config
	Log         zerolog.Logger
	Tracker     *jobs.Tracker
	Events      *jobs.EventBus
	Runner      *split.Runner
	Sweeper     *retention.Sweeper
	Server      *server.Server
	Diagnostics domain.DiagnosticReport
}

// New builds the application from the config file at path.
func New(configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logging.New(cfg.Log)
	metrics.MustRegister()

	if err := os.MkdirAll(cfg.Storage.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("prepare upload directory: %w", err)
	}

	checker := diagnostics.NewChecker()
	report := checker.Run(cfg.Media, cfg.Storage)
	for _, item := range report.Items {
		if item.Status == domain.DiagnosticStatusFail {
			log.Warn().Str("check", item.ID).Str("message", item.Message).Msg("startup check failed")
		}
	}

	engine := media.NewEngine(cfg.Media.FFmpegPath, cfg.Media.FFprobePath)
	tracker := jobs.NewTracker()
	events := jobs.NewEventBus(1000)
	runner := split.NewRunner(
		engine,
		engine,
		archive.NewZipper(),
		tracker,
		events,
		cfg.Storage.UploadDir,
		log,
	)
	sweeper := retention.NewSweeper(
		cfg.Storage.UploadDir,
		cfg.RetentionMaxAge(),
		cfg.SweepInterval(),
		log,
	)

	srv := server.NewServer(cfg, log, server.Deps{
		Tracker: tracker,
		Events:  events,
		Runner:  runner,
		Prober:  engine,
		Sweeper: sweeper,
		Checker: checker,
	})

	return &App{
		Config:      cfg,
		Log:         log,
		Tracker:     tracker,
		Events:      events,
		Runner:      runner,
		Sweeper:     sweeper,
		Server:      srv,
		Diagnostics: report,
	}, nil
}

// Run starts the retention sweeper and serves HTTP until the listener
// fails or the context is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a.Config.Retention.Enabled {
		a.Sweeper.Start(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Server.Listen()
	}()

	select {
	case <-ctx.Done():
		return a.Server.Shutdown()
	case err := <-errCh:
		return err
	}
}
