package batch

import (
	"context"
	"sync"

	"go.uber.org/zap"

	api "github.com/docflow/docflow/api/v1alpha1"
)

// State is the submission lifecycle of the controller.
type State string

const (
	// StateIdle means no submission is in flight. The controller is
	// also Idle after a job finished or polling failed.
	StateIdle State = "idle"
	// StateSubmitting means the batch creation request is in flight.
	StateSubmitting State = "submitting"
	// StatePolling means a job was created and is being polled.
	StatePolling State = "polling"
	// StateSubmitError means the last batch creation request failed.
	// A new Submit is allowed and clears the error.
	StateSubmitError State = "submit-error"
)

// BatchSubmitter creates a batch job from a set of document ids and
// returns the job id. Implemented by the client transport.
type BatchSubmitter interface {
	SubmitBatch(ctx context.Context, documentIDs []string) (string, error)
}

// Controller drives the submit-then-watch lifecycle of one batch at a
// time: it snapshots the selection, creates the job, hands the job id
// to its poller and reports the outcome. A completion callback fires
// exactly once per job, on the transition into the completed status;
// failed jobs never fire it.
type Controller struct {
	submitter   BatchSubmitter
	poller      *Poller
	selection   *SelectionSet
	onCompleted func(job *api.Job)
	log         *zap.SugaredLogger

	mu        sync.Mutex
	state     State
	jobID     string
	submitErr error
	doneCh    chan struct{}
	closed    bool
}

type ControllerOption func(*Controller)

// WithCompletionFunc registers the callback fired when a job reaches
// the completed status.
func WithCompletionFunc(fn func(job *api.Job)) ControllerOption {
	return func(c *Controller) {
		c.onCompleted = fn
	}
}

func NewController(submitter BatchSubmitter, getter JobGetter, selection *SelectionSet, opts ...ControllerOption) *Controller {
	return NewControllerWithPoller(submitter, selection, nil, getter, opts...)
}

// NewControllerWithPoller builds a controller around an explicit poller
// configuration. pollOpts are applied on top of the controller's own
// transition hook.
func NewControllerWithPoller(submitter BatchSubmitter, selection *SelectionSet, pollOpts []PollerOption, getter JobGetter, opts ...ControllerOption) *Controller {
	c := &Controller{
		submitter: submitter,
		selection: selection,
		state:     StateIdle,
		log:       zap.S().Named("batch_controller"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.poller = NewPoller(getter, append(pollOpts, WithTransitionFunc(c.observe))...)
	return c
}

// CanSubmit reports whether a Submit would be accepted: the selection
// is non-empty and no submission is in flight.
func (c *Controller) CanSubmit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canSubmitLocked()
}

func (c *Controller) canSubmitLocked() bool {
	if c.closed {
		return false
	}
	if c.state == StateSubmitting || c.state == StatePolling {
		return false
	}
	return c.selection.Len() > 0
}

// Submit snapshots the selection and creates a batch job from it. A
// refused submit (empty selection, submission already in flight, or a
// previous job still polling) is a no-op and returns false; it is not
// an error. An accepted submit returns true; its outcome is observable
// through State, SubmitError, Job and Done.
func (c *Controller) Submit(ctx context.Context) bool {
	c.mu.Lock()
	if !c.canSubmitLocked() {
		c.mu.Unlock()
		return false
	}
	ids := c.selection.IDs()
	c.state = StateSubmitting
	c.submitErr = nil
	c.doneCh = make(chan struct{})
	c.mu.Unlock()

	jobID, err := c.submitter.SubmitBatch(ctx, ids)

	c.mu.Lock()
	if c.closed {
		c.resolveLocked()
		c.mu.Unlock()
		return true
	}
	if err != nil {
		c.state = StateSubmitError
		c.submitErr = err
		c.resolveLocked()
		c.mu.Unlock()

		c.log.Warnw("batch submission failed", "documents", len(ids), "error", err)
		return true
	}
	c.state = StatePolling
	c.jobID = jobID
	c.mu.Unlock()

	c.log.Infow("batch submitted", "job_id", jobID, "documents", len(ids))
	c.poller.Start(ctx, jobID)
	return true
}

// observe receives transitions from the owned poller.
func (c *Controller) observe(t Transition) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if t.Err == nil && !t.Terminal {
		c.mu.Unlock()
		return
	}

	// Polling error or terminal status: the submission is resolved
	// either way and a new one may begin.
	c.state = StateIdle
	ch := c.doneCh
	c.doneCh = nil
	completed := t.Job != nil && t.Job.Status == api.JobStatusCompleted
	c.mu.Unlock()

	if completed {
		c.selection.Clear()
		if c.onCompleted != nil {
			c.onCompleted(t.Job)
		}
	}
	// Waiters are released only after the completion callback has run.
	if ch != nil {
		close(ch)
	}
}

func (c *Controller) resolveLocked() {
	if c.doneCh != nil {
		close(c.doneCh)
		c.doneCh = nil
	}
}

// Done returns a channel closed when the current submission resolves:
// the job reached a terminal status, polling failed, or the creation
// request failed. With no submission in flight it returns an already
// closed channel.
func (c *Controller) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.doneCh == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return c.doneCh
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// JobID returns the id of the job created by the most recent
// successful submission, or the empty string.
func (c *Controller) JobID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.jobID
}

// SubmitError returns the error of the last failed creation request,
// or nil. It is cleared by the next accepted Submit.
func (c *Controller) SubmitError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitErr
}

// Job returns the most recent job state seen by the poller.
func (c *Controller) Job() *api.Job {
	return c.poller.Job()
}

// PollError returns the fetch error that ended polling, if any.
func (c *Controller) PollError() error {
	return c.poller.Err()
}

// Close stops the owned poller and refuses further submissions.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.state = StateIdle
	c.resolveLocked()
	c.mu.Unlock()

	c.poller.Stop()
}
