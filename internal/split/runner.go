package split

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"video-splitter/internal/domain"
	"video-splitter/internal/jobs"
	"video-splitter/internal/media"
	"video-splitter/internal/metrics"
)

// Prober reports a source file's total duration in seconds.
type Prober interface {
	Probe(ctx context.Context, path string) (float64, error)
}

// Cutter produces one segment file for a planned window.
type Cutter interface {
	Cut(ctx context.Context, req media.CutRequest) (media.CommandLog, error)
}

// Archiver bundles produced files into one archive.
type Archiver interface {
	Bundle(files []string, archivePath string) error
}

// SourceAsset is the input file for one job. Managed uploads live in
// the server's storage area and are deleted by the run on both
// terminal states; externally owned files never are.
type SourceAsset struct {
	Path    string
	Managed bool
}

// Request carries everything one orchestrator run needs.
type Request struct {
	JobID        string
	Source       SourceAsset
	BaseName     string
	IntroSeconds int
	OutroSeconds int
	PartSeconds  int
	Quality      domain.QualityTier
	PublicBase   string
}

// Runner drives one job end-to-end: probe, plan, per-segment cut with
// progress updates, archive, publish, then source disposal. A run
// executes detached from the request that created it; callers observe
// it only through the tracker and event bus. There is no cancellation
// contract once a run has started.
type Runner struct {
	prober   Prober
	cutter   Cutter
	archiver Archiver
	tracker  *jobs.Tracker
	events   *jobs.EventBus
	log      zerolog.Logger

	// outputRoot hosts output directories for externally owned
	// sources, which must not gain siblings next to the user's file.
	outputRoot string

	mkdirAll func(path string, perm os.FileMode) error
	remove   func(path string) error
}

// NewRunner constructs the production runner with OS dependencies.
func NewRunner(
	prober Prober,
	cutter Cutter,
	archiver Archiver,
	tracker *jobs.Tracker,
	events *jobs.EventBus,
	outputRoot string,
	log zerolog.Logger,
) *Runner {
	return &Runner{
		prober:     prober,
		cutter:     cutter,
		archiver:   archiver,
		tracker:    tracker,
		events:     events,
		outputRoot: outputRoot,
		log:        log,
		mkdirAll:   os.MkdirAll,
		remove:     os.Remove,
	}
}

// Run executes one job to a terminal state. It never returns an error
// to its caller; failures are recorded on the tracker.
func (r *Runner) Run(ctx context.Context, req Request) {
	log := r.log.With().Str("job_id", req.JobID).Logger()
	started := time.Now()

	r.tracker.SetStatus(req.JobID, domain.JobStatusProcessing)
	r.publishStatus(req.JobID, domain.JobStatusProcessing, "Job started")

	totalDuration, err := r.prober.Probe(ctx, req.Source.Path)
	if err != nil {
		r.fail(req, started, log, err)
		return
	}
	log.Debug().Float64("duration", totalDuration).Msg("source analyzed")

	plan, err := BuildPlan(totalDuration, req.IntroSeconds, req.OutroSeconds, req.PartSeconds)
	if err != nil {
		r.fail(req, started, log, err)
		return
	}

	outputDir := r.outputDir(req.Source)
	if err := r.mkdirAll(outputDir, 0o755); err != nil {
		r.fail(req, started, log, fmt.Errorf("cannot create output directory: %w", err))
		return
	}
	dirBase := filepath.Base(outputDir)

	files := make([]string, 0, len(plan))
	for i, seg := range plan {
		fileName := PartFileName(req.BaseName, i)
		outPath := filepath.Join(outputDir, fileName)

		cmdLog, err := r.cutter.Cut(ctx, media.CutRequest{
			Input:    req.Source.Path,
			Output:   outPath,
			Start:    seg.Start,
			Duration: seg.Duration,
			Reencode: seg.Reencode,
			Quality:  req.Quality,
		})
		log.Debug().
			Str("command", cmdLog.Command).
			Int("exit_code", cmdLog.ExitCode).
			Int("segment", i+1).
			Msg("segment command completed")
		if err != nil {
			r.fail(req, started, log, err)
			return
		}
		metrics.IncSegment(cutMode(seg))

		files = append(files, outPath)
		part := domain.Part{
			URL:      fmt.Sprintf("%s/parts/%s/%s", req.PublicBase, dirBase, fileName),
			Duration: seg.Duration,
		}
		r.tracker.AppendPart(req.JobID, part)

		percent := int(math.Round(float64(i+1) / float64(len(plan)) * 100))
		r.tracker.SetProgress(req.JobID, percent)
		r.events.Publish(jobs.Event{
			JobID:   req.JobID,
			Type:    jobs.EventTypeProgress,
			Status:  domain.JobStatusProcessing,
			Percent: percent,
			Part:    &part,
			Message: fmt.Sprintf("Segment %d of %d completed", i+1, len(plan)),
		})
	}

	archivePath := filepath.Join(outputDir, ArchiveFileName)
	if err := r.archiver.Bundle(files, archivePath); err != nil {
		r.fail(req, started, log, err)
		return
	}
	archiveURL := fmt.Sprintf("%s/parts/%s/%s", req.PublicBase, dirBase, ArchiveFileName)
	r.tracker.SetArchive(req.JobID, archiveURL)

	r.tracker.SetStatus(req.JobID, domain.JobStatusDone)
	r.publishStatus(req.JobID, domain.JobStatusDone, "Job completed")
	r.events.Publish(jobs.Event{
		JobID:      req.JobID,
		Type:       jobs.EventTypeResult,
		Status:     domain.JobStatusDone,
		Percent:    100,
		ArchiveURL: archiveURL,
		Message:    fmt.Sprintf("%d segments archived", len(files)),
	})

	r.disposeSource(req.Source, log)
	metrics.IncJob("done")
	metrics.ObserveJobDuration(time.Since(started))
	log.Info().Int("segments", len(files)).Dur("elapsed", time.Since(started)).Msg("job completed")

	// Output reclamation is owned by the retention sweeper, keyed on
	// directory mtime; a per-job timer would not survive restarts.
}

// fail records the terminal error and performs source disposal.
func (r *Runner) fail(req Request, started time.Time, log zerolog.Logger, err error) {
	r.tracker.SetError(req.JobID, err.Error())
	r.events.Publish(jobs.Event{
		JobID:   req.JobID,
		Type:    jobs.EventTypeError,
		Status:  domain.JobStatusError,
		Message: err.Error(),
	})

	r.disposeSource(req.Source, log)
	metrics.IncJob("error")
	metrics.ObserveJobDuration(time.Since(started))
	log.Error().Err(err).Msg("job failed")
}

// disposeSource deletes a managed upload. Disposal failures are
// logged and never replace the run's own outcome.
func (r *Runner) disposeSource(source SourceAsset, log zerolog.Logger) {
	if !source.Managed {
		return
	}
	if err := r.remove(source.Path); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("path", source.Path).Msg("could not remove source file")
	}
}

// outputDir places job output next to a managed upload, or under the
// server's output root for externally owned sources.
func (r *Runner) outputDir(source SourceAsset) string {
	base := filepath.Base(source.Path)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + "_parts"
	if source.Managed {
		return filepath.Join(filepath.Dir(source.Path), name)
	}
	return filepath.Join(r.outputRoot, name)
}

// publishStatus sends a normalized status event.
func (r *Runner) publishStatus(jobID string, status domain.JobStatus, message string) {
	r.events.Publish(jobs.Event{
		JobID:   jobID,
		Type:    jobs.EventTypeStatus,
		Status:  status,
		Message: message,
	})
}

// cutMode labels a segment for metrics.
func cutMode(seg Segment) string {
	if seg.Reencode {
		return "encode"
	}
	return "copy"
}

// NewRunnerForTests constructs a runner with injectable fs behavior.
func NewRunnerForTests(
	prober Prober,
	cutter Cutter,
	archiver Archiver,
	tracker *jobs.Tracker,
	events *jobs.EventBus,
	outputRoot string,
	log zerolog.Logger,
	mkdirAll func(path string, perm os.FileMode) error,
	remove func(path string) error,
) *Runner {
	return &Runner{
		prober:     prober,
		cutter:     cutter,
		archiver:   archiver,
		tracker:    tracker,
		events:     events,
		outputRoot: outputRoot,
		log:        log,
		mkdirAll:   mkdirAll,
		remove:     remove,
	}
}
