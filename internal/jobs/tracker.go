package jobs

import (
	"sync"
	"time"

	"video-splitter/internal/domain"
)

// Tracker is the shared in-memory record of every job's lifecycle.
// Each record is written only by the orchestrator run that owns the
// job; pollers read snapshots. Writes against unknown ids are silently
// dropped so late or duplicate updates after external cleanup never
// fail a run. Records live for the server process only.
type Tracker struct {
	mu   sync.RWMutex
	jobs map[string]*domain.Job
	now  func() time.Time
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		jobs: make(map[string]*domain.Job),
		now:  time.Now,
	}
}

// Register initializes a queued record for a newly accepted job.
func (t *Tracker) Register(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now().UTC()
	t.jobs[id] = &domain.Job{
		ID:        id,
		Status:    domain.JobStatusQueued,
		Parts:     []domain.Part{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetStatus updates the lifecycle state of a known job.
func (t *Tracker) SetStatus(id string, status domain.JobStatus) {
	t.mu.Lock()
	defer t.mu.Unlock()

	job, ok := t.jobs[id]
	if !ok {
		return
	}
	job.Status = status
	job.UpdatedAt = t.now().UTC()
}

// SetProgress updates percent, clamped to [0,100].
func (t *Tracker) SetProgress(id string, percent int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	job, ok := t.jobs[id]
	if !ok {
		return
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	job.Percent = percent
	job.UpdatedAt = t.now().UTC()
}

// AppendPart records one completed segment in plan order.
func (t *Tracker) AppendPart(id string, part domain.Part) {
	t.mu.Lock()
	defer t.mu.Unlock()

	job, ok := t.jobs[id]
	if !ok {
		return
	}
	job.Parts = append(job.Parts, part)
	job.UpdatedAt = t.now().UTC()
}

// SetArchive records the bundled archive reference. The orchestrator
// only calls this after every part has been appended.
func (t *Tracker) SetArchive(id, url string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	job, ok := t.jobs[id]
	if !ok {
		return
	}
	job.ArchiveURL = url
	job.UpdatedAt = t.now().UTC()
}

// SetError records a failure message and force-transitions the job to
// the terminal error state.
func (t *Tracker) SetError(id, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	job, ok := t.jobs[id]
	if !ok {
		return
	}
	job.Error = message
	job.Status = domain.JobStatusError
	job.UpdatedAt = t.now().UTC()
}

// Get returns a snapshot of the job record, or false for unknown ids.
func (t *Tracker) Get(id string) (domain.Job, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	job, ok := t.jobs[id]
	if !ok {
		return domain.Job{}, false
	}

	// The copy keeps an empty parts list empty; pollers serialize it
	// as [] rather than null.
	snapshot := *job
	snapshot.Parts = make([]domain.Part, 0, len(job.Parts))
	snapshot.Parts = append(snapshot.Parts, job.Parts...)
	return snapshot, true
}
