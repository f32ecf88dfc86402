package media

import (
	"context"
	"os"
	"strconv"
	"strings"

	"video-splitter/internal/domain"
	"video-splitter/internal/timecode"
)

// Engine drives ffprobe and ffmpeg through their CLI interfaces. It is
// the only place that talks to the external media binaries; callers see
// blocking Probe and Cut calls regardless of how the engine runs them.
type Engine struct {
	ffmpegPath  string
	ffprobePath string
	runner      commandRunner
	stat        func(name string) (os.FileInfo, error)
}

// NewEngine constructs the production engine with OS dependencies.
func NewEngine(ffmpegPath, ffprobePath string) *Engine {
	return &Engine{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		runner:      &execRunner{},
		stat:        os.Stat,
	}
}

// Probe reports a source file's total duration in seconds. It fails
// when the engine cannot open or parse the source, or when the
// reported duration is not positive.
func (e *Engine) Probe(ctx context.Context, path string) (float64, error) {
	args := buildProbeArgs(path)
	result, runErr := e.runner.Run(ctx, e.ffprobePath, args...)
	log := CommandLog{
		Command:  e.ffprobePath,
		Args:     args,
		ExitCode: result.ExitCode,
		Stdout:   result.Stdout,
		Stderr:   result.Stderr,
	}
	if runErr != nil {
		return 0, &ProbeError{
			Path:       path,
			Message:    "failed to analyze video file",
			CommandLog: log,
			Err:        runErr,
		}
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(result.Stdout), 64)
	if err != nil {
		return 0, &ProbeError{
			Path:       path,
			Message:    "engine reported an unparseable duration",
			CommandLog: log,
			Err:        err,
		}
	}
	if duration <= 0 {
		return 0, &ProbeError{
			Path:       path,
			Message:    "invalid video file or zero duration",
			CommandLog: log,
		}
	}

	return duration, nil
}

// CutRequest describes one segment to produce from a source window.
type CutRequest struct {
	Input    string
	Output   string
	Start    float64
	Duration float64
	Reencode bool
	Quality  domain.QualityTier
}

// Cut produces one output file for the requested window. Copy mode
// re-multiplexes the source bytes; encode mode re-compresses with the
// tier's preset. The returned CommandLog is valid in both outcomes.
func (e *Engine) Cut(ctx context.Context, req CutRequest) (CommandLog, error) {
	args := buildCutArgs(req)
	result, runErr := e.runner.Run(ctx, e.ffmpegPath, args...)
	log := CommandLog{
		Command:  e.ffmpegPath,
		Args:     args,
		ExitCode: result.ExitCode,
		Stdout:   result.Stdout,
		Stderr:   result.Stderr,
	}
	if runErr != nil {
		return log, &EncodeError{
			Output:     req.Output,
			Message:    "ffmpeg segment cut failed",
			CommandLog: log,
			Err:        runErr,
		}
	}

	if _, err := e.stat(req.Output); err != nil {
		return log, &EncodeError{
			Output:     req.Output,
			Message:    "ffmpeg completed but segment file is missing",
			CommandLog: log,
			Err:        err,
		}
	}

	return log, nil
}

// qualityPreset maps a tier to x264 speed and constant-rate-factor.
type qualityPreset struct {
	Speed string
	CRF   int
}

// presetFor returns encode parameters for a tier, defaulting to medium
// for unknown tiers.
func presetFor(tier domain.QualityTier) qualityPreset {
	switch tier {
	case domain.QualityFast:
		return qualityPreset{Speed: "ultrafast", CRF: 28}
	case domain.QualityHigh:
		return qualityPreset{Speed: "slow", CRF: 18}
	default:
		return qualityPreset{Speed: "medium", CRF: 23}
	}
}

// buildProbeArgs builds ffprobe args that print only the container
// duration in seconds.
func buildProbeArgs(path string) []string {
	return []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}
}

// buildCutArgs builds ffmpeg args for one segment window. The seek is
// placed before the input for fast keyframe seeking.
func buildCutArgs(req CutRequest) []string {
	args := []string{
		"-hide_banner",
		"-nostdin",
		"-y",
		"-ss", timecode.Timestamp(req.Start),
		"-i", req.Input,
		"-t", formatSeconds(req.Duration),
	}

	if req.Reencode {
		preset := presetFor(req.Quality)
		args = append(args,
			"-c:v", "libx264",
			"-preset", preset.Speed,
			"-crf", strconv.Itoa(preset.CRF),
			"-c:a", "aac",
			"-movflags", "+faststart",
		)
	} else {
		args = append(args,
			"-c", "copy",
			"-avoid_negative_ts", "make_zero",
		)
	}

	return append(args, req.Output)
}

// formatSeconds renders a duration argument without trailing zeros.
func formatSeconds(seconds float64) string {
	s := strconv.FormatFloat(seconds, 'f', -1, 64)
	if s == "" {
		return "0"
	}
	return s
}

// NewEngineForTests constructs an engine with injectable dependencies.
func NewEngineForTests(
	ffmpegPath string,
	ffprobePath string,
	runner commandRunner,
	stat func(name string) (os.FileInfo, error),
) *Engine {
	return &Engine{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		runner:      runner,
		stat:        stat,
	}
}
