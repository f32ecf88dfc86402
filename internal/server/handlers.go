package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"video-splitter/internal/domain"
	"video-splitter/internal/jobs"
	"video-splitter/internal/split"
	"video-splitter/internal/timecode"
)

// handleSplit accepts a multipart upload plus trim/split parameters,
// validates everything that can be validated before a job exists, then
// registers the job and starts its run detached from this request.
func (s *Server) handleSplit(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("video")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "No video uploaded"})
	}

	introSec := timecode.ParseSeconds(c.FormValue("intro", "0"))
	outroSec := timecode.ParseSeconds(c.FormValue("outro", "0"))
	partSec := s.cfg.Split.DefaultPartSeconds
	if raw := strings.TrimSpace(c.FormValue("part")); raw != "" {
		partSec = timecode.ParseSeconds(raw)
	}
	quality := domain.QualityTier(c.FormValue("quality", s.cfg.Split.DefaultQuality))

	if introSec < 0 || outroSec < 0 || partSec <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Invalid time values. Trims must be non-negative and part duration must be greater than 0.",
		})
	}

	fileBase, fileExt := splitUploadName(fileHeader.Filename)
	baseName := split.SanitizeName(c.FormValue("name"), fileBase)

	storedPath := filepath.Join(
		s.cfg.Storage.UploadDir,
		fmt.Sprintf("%s_%d%s", fileBase, time.Now().UnixNano(), fileExt),
	)
	if err := c.SaveFile(fileHeader, storedPath); err != nil {
		s.log.Error().Err(err).Msg("could not store upload")
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "Upload failed"})
	}

	// Preflight probe + plan so unusable submissions are rejected
	// before any job record exists. The detached run re-probes; the
	// cost is negligible next to the transcode work.
	totalDuration, err := s.prober.Probe(c.UserContext(), storedPath)
	if err != nil {
		s.discardUpload(storedPath)
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}
	if _, err := split.BuildPlan(totalDuration, introSec, outroSec, partSec); err != nil {
		s.discardUpload(storedPath)
		var vErr *split.ValidationError
		if errors.As(err, &vErr) {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: vErr.Message})
		}
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	jobID := uuid.New().String()
	s.tracker.Register(jobID)

	req := split.Request{
		JobID:        jobID,
		Source:       split.SourceAsset{Path: storedPath, Managed: true},
		BaseName:     baseName,
		IntroSeconds: introSec,
		OutroSeconds: outroSec,
		PartSeconds:  partSec,
		Quality:      quality,
		PublicBase:   c.BaseURL(),
	}
	go s.runner.Run(context.Background(), req)

	s.log.Info().
		Str("job_id", jobID).
		Int("intro", introSec).
		Int("outro", outroSec).
		Int("part", partSec).
		Str("quality", string(quality)).
		Msg("job accepted")

	return c.JSON(SubmitResponse{JobID: jobID})
}

// handleProgress returns the current job snapshot for pollers.
func (s *Server) handleProgress(c *fiber.Ctx) error {
	job, ok := s.tracker.Get(c.Params("jobId"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "Job not found"})
	}

	resp := ProgressResponse{
		ID:      job.ID,
		Status:  job.Status,
		Percent: job.Percent,
		Parts:   job.Parts,
	}
	if job.ArchiveURL != "" {
		resp.ArchiveURL = &job.ArchiveURL
	}
	if job.Error != "" {
		resp.Error = &job.Error
	}
	return c.JSON(resp)
}

// handleJobEvents returns the incremental event feed for one job.
func (s *Server) handleJobEvents(c *fiber.Ctx) error {
	jobID := c.Params("jobId")
	if _, ok := s.tracker.Get(jobID); !ok {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "Job not found"})
	}

	since := int64(c.QueryInt("since", 0))
	events := s.events.Since(jobID, since)
	if events == nil {
		events = []jobs.Event{}
	}
	return c.JSON(events)
}

// handleCleanup triggers an immediate retention sweep.
func (s *Server) handleCleanup(c *fiber.Ctx) error {
	removed := s.sweeper.Sweep(time.Now())
	return c.JSON(CleanupResponse{
		Message: "Cleanup completed successfully",
		Removed: removed,
	})
}

// handleDiagnostics reruns the startup checks and returns the report.
func (s *Server) handleDiagnostics(c *fiber.Ctx) error {
	report := s.checker.Run(s.cfg.Media, s.cfg.Storage)
	return c.JSON(report)
}

// handleHealth is the liveness probe.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// discardUpload removes a stored upload that never became a job.
func (s *Server) discardUpload(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.log.Warn().Err(err).Str("path", path).Msg("could not remove rejected upload")
	}
}

// splitUploadName sanitizes an uploaded file name into a safe base and
// a safe extension, defaulting to .mp4 for suspicious extensions.
func splitUploadName(filename string) (base, ext string) {
	ext = strings.ToLower(filepath.Ext(filename))
	if !safeExt(ext) {
		ext = ".mp4"
	}
	base = split.SanitizeName(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)), "video")
	return base, ext
}

// safeExt accepts extensions of the form ".alnum".
func safeExt(ext string) bool {
	if len(ext) < 2 || ext[0] != '.' {
		return false
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
