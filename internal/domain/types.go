package domain

import "time"

// JobStatus tracks the lifecycle state of one split job.
type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusDone       JobStatus = "done"
	JobStatusError      JobStatus = "error"
)

// QualityTier names an encoder speed/quality trade-off for re-encoded
// segments. Copy-mode segments ignore the tier entirely.
type QualityTier string

const (
	QualityFast   QualityTier = "fast"
	QualityMedium QualityTier = "medium"
	QualityHigh   QualityTier = "high"
)

// Part describes one produced output segment.
type Part struct {
	URL      string  `json:"url"`
	Duration float64 `json:"duration"`
}

// Job is the tracked record of one trim-and-split request.
// Percent is meaningful while processing and ends at 100 on done;
// Error is populated only in the error status.
type Job struct {
	ID         string    `json:"id"`
	Status     JobStatus `json:"status"`
	Percent    int       `json:"percent"`
	Parts      []Part    `json:"parts"`
	ArchiveURL string    `json:"archiveUrl,omitempty"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
