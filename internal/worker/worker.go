package worker

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lthibault/jitterbug/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/docflow/docflow/internal/store"
	"github.com/docflow/docflow/internal/store/model"
	"github.com/docflow/docflow/pkg/metrics"
)

const (
	defaultScanInterval = 1 * time.Second
	defaultConcurrency  = 4
	defaultApproveRatio = 0.8
)

// ReviewFunc decides the outcome of a single document review. Returning
// true approves the document, false rejects it.
type ReviewFunc func(document *model.Document) bool

// RatioReview approves roughly the given fraction of documents.
func RatioReview(approveRatio float64) ReviewFunc {
	return func(_ *model.Document) bool {
		return rand.Float64() < approveRatio
	}
}

// BatchProcessor executes queued batch jobs: it claims a job, reviews
// every document in it and records the terminal outcome. Jobs are picked
// up either through Enqueue or by the periodic store scan, whichever
// happens first.
type BatchProcessor struct {
	store        store.Store
	scanInterval time.Duration
	concurrency  int
	review       ReviewFunc
	nudge        chan uuid.UUID
	log          *zap.SugaredLogger

	mu       sync.Mutex
	inFlight map[uuid.UUID]struct{}
}

type Option func(*BatchProcessor)

func WithScanInterval(d time.Duration) Option {
	return func(p *BatchProcessor) {
		p.scanInterval = d
	}
}

func WithConcurrency(n int) Option {
	return func(p *BatchProcessor) {
		p.concurrency = n
	}
}

func WithReviewFunc(fn ReviewFunc) Option {
	return func(p *BatchProcessor) {
		p.review = fn
	}
}

func NewBatchProcessor(s store.Store, opts ...Option) *BatchProcessor {
	p := &BatchProcessor{
		store:        s,
		scanInterval: defaultScanInterval,
		concurrency:  defaultConcurrency,
		review:       RatioReview(defaultApproveRatio),
		nudge:        make(chan uuid.UUID, 64),
		log:          zap.S().Named("batch_worker"),
		inFlight:     make(map[uuid.UUID]struct{}),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Enqueue wakes the processor for the given job. It never blocks; when
// the buffer is full the scan ticker picks the job up instead.
func (p *BatchProcessor) Enqueue(_ context.Context, jobID uuid.UUID) error {
	select {
	case p.nudge <- jobID:
	default:
	}
	return nil
}

// Run processes jobs until ctx is cancelled. It returns after every
// in-flight job has finished.
func (p *BatchProcessor) Run(ctx context.Context) error {
	ticker := jitterbug.New(p.scanInterval, &jitterbug.Norm{Stdev: 50 * time.Millisecond})
	defer ticker.Stop()

	g := &errgroup.Group{}
	g.SetLimit(p.concurrency)

	p.log.Infof("batch worker started (concurrency=%d, scan=%s)", p.concurrency, p.scanInterval)
	defer p.log.Info("batch worker stopped")

	for {
		select {
		case <-ctx.Done():
			return g.Wait()
		case jobID := <-p.nudge:
			p.spawn(ctx, g, jobID)
		case <-ticker.C:
			jobs, err := p.store.Job().List(ctx, store.NewJobQueryFilter().ByStatus(model.JobStatusQueued))
			if err != nil {
				p.log.Errorf("failed to scan for queued jobs: %v", err)
				continue
			}
			metrics.UpdateJobStatusCountMetric(model.JobStatusQueued, len(jobs))
			for _, job := range jobs {
				p.spawn(ctx, g, job.ID)
			}
		}
	}
}

func (p *BatchProcessor) spawn(ctx context.Context, g *errgroup.Group, jobID uuid.UUID) {
	p.mu.Lock()
	if _, busy := p.inFlight[jobID]; busy {
		p.mu.Unlock()
		return
	}
	p.inFlight[jobID] = struct{}{}
	p.mu.Unlock()

	g.Go(func() error {
		defer func() {
			p.mu.Lock()
			delete(p.inFlight, jobID)
			p.mu.Unlock()
		}()
		if err := p.Process(ctx, jobID); err != nil {
			p.log.Errorf("job %s failed: %v", jobID, err)
		}
		return nil
	})
}

// Process runs one job to a terminal state. Any error while reviewing
// documents marks the job failed with the error message; the job record
// itself is never left in processing.
func (p *BatchProcessor) Process(ctx context.Context, jobID uuid.UUID) error {
	job, err := p.store.Job().Get(ctx, jobID)
	if err != nil {
		return errors.Wrap(err, "loading job")
	}

	// claim it; a job already claimed by another worker is not an error
	if err := job.Start(); err != nil {
		return nil
	}
	if _, err := p.store.Job().Update(ctx, *job); err != nil {
		return errors.Wrap(err, "claiming job")
	}

	if err := p.reviewDocuments(ctx, job); err != nil {
		return p.fail(ctx, job, err)
	}

	if err := job.Complete(); err != nil {
		return err
	}
	if _, err := p.store.Job().Update(ctx, *job); err != nil {
		return errors.Wrap(err, "completing job")
	}

	p.log.Infof("job %s completed (%d documents)", job.ID, len(job.Documents()))
	return nil
}

func (p *BatchProcessor) reviewDocuments(ctx context.Context, job *model.Job) error {
	for _, id := range job.Documents() {
		if err := ctx.Err(); err != nil {
			return err
		}

		documentID, err := uuid.Parse(id)
		if err != nil {
			return errors.Wrapf(err, "invalid document id %q", id)
		}
		document, err := p.store.Document().Get(ctx, documentID)
		if err != nil {
			return errors.Wrapf(err, "loading document %s", id)
		}

		outcome := model.DocumentStatusApproved
		if p.review(document) {
			err = document.Approve()
		} else {
			outcome = model.DocumentStatusRejected
			err = document.Reject()
		}
		if err != nil {
			return errors.Wrapf(err, "reviewing document %s", id)
		}

		if _, err := p.store.Document().Update(ctx, *document); err != nil {
			return errors.Wrapf(err, "updating document %s", id)
		}
		metrics.IncreaseDocumentsReviewedTotalMetric(outcome)
	}
	return nil
}

func (p *BatchProcessor) fail(ctx context.Context, job *model.Job, cause error) error {
	if err := job.Fail(cause.Error()); err != nil {
		return err
	}
	if _, err := p.store.Job().Update(ctx, *job); err != nil {
		return errors.Wrap(err, "recording job failure")
	}
	return cause
}
