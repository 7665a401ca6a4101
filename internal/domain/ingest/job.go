package ingest

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status is a job's lifecycle state.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Job is the handle for one background ingestion. It is safe for
// concurrent use.
type Job struct {
	ID    string
	BotID int64

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu         sync.Mutex
	status     Status
	err        error
	startedAt  time.Time
	finishedAt time.Time
}

func newJob(botID int64) *Job {
	ctx, cancel := context.WithCancel(context.Background())
	return &Job{
		ID:        uuid.NewString(),
		BotID:     botID,
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
		status:    StatusRunning,
		startedAt: time.Now().UTC(),
	}
}

// Done is closed when the job reaches a terminal state.
func (j *Job) Done() <-chan struct{} { return j.done }

// Status returns the job's current state.
func (j *Job) Status() Status {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status
}

// Err returns the failure cause, nil unless Status is failed.
func (j *Job) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}

// Cancel asks the job to stop. Chunks already upserted stay in the
// index. Cancelling a finished job is a no-op.
func (j *Job) Cancel() { j.cancel() }

// finish records the terminal state exactly once.
func (j *Job) finish(status Status, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status != StatusRunning {
		return
	}
	j.status = status
	j.err = err
	j.finishedAt = time.Now().UTC()
	close(j.done)
}

// Snapshot is a point-in-time serializable view of a job.
type Snapshot struct {
	ID         string     `json:"id"`
	BotID      int64      `json:"botId"`
	Status     Status     `json:"status"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}

// Snapshot returns the job's current state for status reporting.
func (j *Job) Snapshot() Snapshot {
	j.mu.Lock()
	defer j.mu.Unlock()

	snap := Snapshot{
		ID:        j.ID,
		BotID:     j.BotID,
		Status:    j.status,
		StartedAt: j.startedAt,
	}
	if j.err != nil {
		snap.Error = j.err.Error()
	}
	if !j.finishedAt.IsZero() {
		t := j.finishedAt
		snap.FinishedAt = &t
	}
	return snap
}
