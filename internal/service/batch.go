package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/docflow/docflow/internal/store"
	"github.com/docflow/docflow/internal/store/model"
	"github.com/docflow/docflow/pkg/metrics"
)

// JobQueue wakes the batch worker when a new job is ready. The worker
// also scans the store on its own ticker, so a missed nudge only delays
// pickup, it never loses a job.
type JobQueue interface {
	Enqueue(ctx context.Context, jobID uuid.UUID) error
}

type BatchService struct {
	store store.Store
	queue JobQueue
}

func NewBatchService(store store.Store, queue JobQueue) *BatchService {
	return &BatchService{store: store, queue: queue}
}

// CreateBatch validates the selection, moves every document to pending
// and creates a queued job, all in one transaction. The job is handed to
// the worker only after the transaction commits.
func (s *BatchService) CreateBatch(ctx context.Context, documentIDs []string) (*model.Job, error) {
	if len(documentIDs) == 0 {
		return nil, NewErrEmptyBatch()
	}

	documents := make([]*model.Document, 0, len(documentIDs))
	for _, id := range documentIDs {
		documentID, err := uuid.Parse(id)
		if err != nil {
			return nil, NewErrDocumentNotFound(id)
		}
		document, err := s.store.Document().Get(ctx, documentID)
		if err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return nil, NewErrDocumentNotFound(id)
			}
			return nil, err
		}
		if document.Status != model.DocumentStatusDraft {
			return nil, NewErrDocumentNotProcessable(id, document.Status)
		}
		documents = append(documents, document)
	}

	txCtx, err := s.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, err
	}

	for _, document := range documents {
		if err := document.SubmitForReview(); err != nil {
			_, _ = store.Rollback(txCtx)
			return nil, NewErrDocumentNotProcessable(document.ID.String(), document.Status)
		}
		if _, err := s.store.Document().Update(txCtx, *document); err != nil {
			_, _ = store.Rollback(txCtx)
			return nil, err
		}
	}

	job, err := s.store.Job().Create(txCtx, *model.NewJob(documentIDs))
	if err != nil {
		_, _ = store.Rollback(txCtx)
		return nil, err
	}

	if _, err := store.Commit(txCtx); err != nil {
		return nil, err
	}

	metrics.IncreaseJobsCreatedTotalMetric()

	if err := s.queue.Enqueue(ctx, job.ID); err != nil {
		// the scan ticker will pick the job up
		zap.S().Named("batch_service").Warnf("failed to notify worker about job %s: %v", job.ID, err)
	}

	return job, nil
}

func (s *BatchService) GetJob(ctx context.Context, id string) (*model.Job, error) {
	jobID, err := uuid.Parse(id)
	if err != nil {
		return nil, NewErrResourceNotFound(id, "job")
	}

	job, err := s.store.Job().Get(ctx, jobID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrJobNotFound(jobID)
		}
		return nil, err
	}
	return job, nil
}
