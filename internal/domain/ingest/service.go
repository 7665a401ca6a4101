package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/funny-life2033/HyperDriveAI-backend/internal/infra/docstore"
	"github.com/funny-life2033/HyperDriveAI-backend/internal/infra/embed"
	"github.com/funny-life2033/HyperDriveAI-backend/internal/infra/eventbus"
	"github.com/funny-life2033/HyperDriveAI-backend/internal/infra/vector"
)

// Event bus topics announcing terminal job states.
const (
	TopicCompleted = "ingest.completed"
	TopicFailed    = "ingest.failed"
)

// Notification is the payload published on the event bus when a job
// finishes.
type Notification struct {
	JobID string
	BotID int64
	Err   error
}

// Stage names the pipeline step an ingestion failed in.
type Stage string

// Splitting is pure and cannot fail, so it has no stage constant.
const (
	StageFetch  Stage = "fetch"
	StageEmbed  Stage = "embed"
	StageUpsert Stage = "upsert"
)

// IngestionError wraps a pipeline failure with the stage and source file
// it happened in. The pipeline aborts on the first failure; chunks
// upserted before it are kept.
type IngestionError struct {
	Stage  Stage
	FileID string
	Err    error
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("ingest %s (file %s): %v", e.Stage, e.FileID, e.Err)
}

func (e *IngestionError) Unwrap() error { return e.Err }

// Service runs document ingestions and tracks their jobs in memory.
type Service struct {
	store    docstore.Store
	embedder embed.Embedder
	index    vector.Index
	splitter Splitter
	bus      eventbus.EventBus
	logger   *slog.Logger

	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewService creates an ingestion Service.
func NewService(store docstore.Store, embedder embed.Embedder, index vector.Index, splitter Splitter, bus eventbus.EventBus, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    store,
		embedder: embedder,
		index:    index,
		splitter: splitter,
		bus:      bus,
		logger:   logger,
		jobs:     make(map[string]*Job),
	}
}

// Start launches a background ingestion of fileIDs into the bot's
// collection and returns its job handle. Empty fileIDs still runs the
// job, which completes immediately with zero upserts.
func (s *Service) Start(botID int64, fileIDs []string) *Job {
	job := newJob(botID)

	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	go s.run(job, fileIDs)
	return job
}

// Job looks up a tracked job by ID.
func (s *Service) Job(id string) (*Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	return job, ok
}

func (s *Service) run(job *Job, fileIDs []string) {
	err := s.ingest(job.ctx, job.BotID, fileIDs)
	switch {
	case err == nil:
		job.finish(StatusCompleted, nil)
		s.bus.Publish(TopicCompleted, Notification{JobID: job.ID, BotID: job.BotID})
		s.logger.Info("ingestion completed", "job", job.ID, "bot", job.BotID, "files", len(fileIDs))
	case errors.Is(err, context.Canceled):
		job.finish(StatusCancelled, nil)
		s.logger.Info("ingestion cancelled", "job", job.ID, "bot", job.BotID)
	default:
		job.finish(StatusFailed, err)
		s.bus.Publish(TopicFailed, Notification{JobID: job.ID, BotID: job.BotID, Err: err})
		s.logger.Error("ingestion failed", "job", job.ID, "bot", job.BotID, "err", err)
	}
}

// ingest runs fetch, split, embed and upsert per file, chunk by chunk.
// Embedding chunk by chunk keeps memory flat on large documents and
// means a mid-document failure leaves earlier chunks queryable.
func (s *Service) ingest(ctx context.Context, botID int64, fileIDs []string) error {
	for _, fileID := range fileIDs {
		doc, err := s.store.Fetch(ctx, fileID)
		if err != nil {
			return &IngestionError{Stage: StageFetch, FileID: fileID, Err: err}
		}

		chunks := s.splitter.Split(doc.Text)
		for i, chunk := range chunks {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			vecs, err := s.embedder.Embed(ctx, []string{chunk})
			if err != nil {
				return &IngestionError{Stage: StageEmbed, FileID: fileID, Err: err}
			}
			if len(vecs) != 1 {
				return &IngestionError{Stage: StageEmbed, FileID: fileID,
					Err: fmt.Errorf("expected 1 vector, got %d", len(vecs))}
			}

			rec := vector.Record{
				ID:      fmt.Sprintf("%s#%d", fileID, i),
				Content: chunk,
				Vector:  vecs[0],
				Metadata: map[string]string{
					"source": fileID,
					"chunk":  strconv.Itoa(i),
				},
			}
			if err := s.index.Upsert(ctx, botID, []vector.Record{rec}); err != nil {
				return &IngestionError{Stage: StageUpsert, FileID: fileID, Err: err}
			}
		}
	}
	return nil
}
