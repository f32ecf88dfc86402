package server

import "video-splitter/internal/domain"

// SubmitResponse acknowledges an accepted split job.
type SubmitResponse struct {
	JobID string `json:"jobId"`
}

// ErrorResponse carries a caller-facing failure message.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ProgressResponse is the job snapshot returned to pollers. Archive
// and error are null until set, matching what download UIs expect.
type ProgressResponse struct {
	ID         string           `json:"id"`
	Status     domain.JobStatus `json:"status"`
	Percent    int              `json:"percent"`
	Parts      []domain.Part    `json:"parts"`
	ArchiveURL *string          `json:"archiveUrl"`
	Error      *string          `json:"error"`
}

// CleanupResponse reports the outcome of an on-demand sweep.
type CleanupResponse struct {
	Message string `json:"message"`
	Removed int    `json:"removed"`
}
