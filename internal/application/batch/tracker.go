// Package batch runs bulk image imports and tracks their progress per job.
package batch

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/equipment/backend/internal/domain/shared"
)

// Status is the lifecycle state of a batch job
type Status string

const (
	StatusIdle       Status = "idle"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// ItemError reports one file that failed during a job
type ItemError struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// Snapshot is a point-in-time copy of a job's progress
type Snapshot struct {
	JobID       string      `json:"job_id"`
	Status      Status      `json:"status"`
	Current     int         `json:"current"`
	Total       int         `json:"total"`
	CurrentFile string      `json:"current_file"`
	Errors      []ItemError `json:"errors"`
	StartedAt   *time.Time  `json:"started_at,omitempty"`
	FinishedAt  *time.Time  `json:"finished_at,omitempty"`
}

type jobState struct {
	snapshot Snapshot
}

// Tracker records per-job progress. Only one job may be processing at a
// time; finished jobs stay queryable by id.
type Tracker struct {
	mu     sync.Mutex
	jobs   map[string]*jobState
	latest string
	now    func() time.Time
}

// NewTracker creates an empty Tracker
func NewTracker() *Tracker {
	return &Tracker{jobs: make(map[string]*jobState), now: time.Now}
}

// Begin registers a new job and returns its id. It fails if another job is
// still processing.
func (t *Tracker) Begin(total int) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.latest != "" {
		if st, ok := t.jobs[t.latest]; ok && st.snapshot.Status == StatusProcessing {
			return "", shared.NewDomainError("INVALID_STATE", "a batch job is already running")
		}
	}

	id := uuid.NewString()
	started := t.now()
	t.jobs[id] = &jobState{snapshot: Snapshot{
		JobID:     id,
		Status:    StatusProcessing,
		Total:     total,
		StartedAt: &started,
	}}
	t.latest = id
	return id, nil
}

// Advance marks the job as working on item current (1-based) of total
func (t *Tracker) Advance(jobID string, current int, file string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if st, ok := t.jobs[jobID]; ok {
		st.snapshot.Current = current
		st.snapshot.CurrentFile = file
	}
}

// RecordError appends a per-item failure without stopping the job
func (t *Tracker) RecordError(jobID, file, msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if st, ok := t.jobs[jobID]; ok {
		st.snapshot.Errors = append(st.snapshot.Errors, ItemError{File: file, Error: msg})
	}
}

// Complete marks the job as finished
func (t *Tracker) Complete(jobID string) {
	t.finish(jobID, StatusCompleted)
}

// Fail marks the job as aborted with a job-level error
func (t *Tracker) Fail(jobID, msg string) {
	t.mu.Lock()
	if st, ok := t.jobs[jobID]; ok {
		st.snapshot.Errors = append(st.snapshot.Errors, ItemError{Error: msg})
	}
	t.mu.Unlock()
	t.finish(jobID, StatusError)
}

func (t *Tracker) finish(jobID string, status Status) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if st, ok := t.jobs[jobID]; ok {
		finished := t.now()
		st.snapshot.Status = status
		st.snapshot.CurrentFile = ""
		st.snapshot.FinishedAt = &finished
	}
}

// Snapshot returns a copy of one job's progress
func (t *Tracker) Snapshot(jobID string) (Snapshot, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	st, ok := t.jobs[jobID]
	if !ok {
		return Snapshot{}, false
	}
	return copySnapshot(st.snapshot), true
}

// Latest returns the most recently started job, or an idle snapshot when no
// job has run yet.
func (t *Tracker) Latest() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	if st, ok := t.jobs[t.latest]; ok {
		return copySnapshot(st.snapshot)
	}
	return Snapshot{Status: StatusIdle}
}

func copySnapshot(s Snapshot) Snapshot {
	out := s
	out.Errors = append([]ItemError(nil), s.Errors...)
	return out
}
