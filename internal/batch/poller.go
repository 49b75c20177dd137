package batch

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	api "github.com/docflow/docflow/api/v1alpha1"
)

const DefaultPollInterval = 2 * time.Second

// JobGetter fetches the current state of a batch job. Implemented by
// the client transport.
type JobGetter interface {
	GetJob(ctx context.Context, id string) (*api.Job, error)
}

// Transition describes one resolved fetch of the active polling
// session. Either Job or Err is set, never both.
type Transition struct {
	JobID    string
	Job      *api.Job
	Err      error
	Terminal bool
}

// TransitionFunc receives transitions from the poller goroutine. It is
// never invoked for a session that has been superseded or stopped.
type TransitionFunc func(t Transition)

// session is one polling lifecycle. A new Start replaces the previous
// session; results arriving for a replaced session are discarded.
type session struct {
	jobID  string
	ctx    context.Context
	cancel context.CancelFunc
	timer  *time.Timer
	done   bool
}

// Poller repeatedly fetches a job until it reaches a terminal status or
// a fetch fails. Fetches within a session are strictly sequential: the
// next one is scheduled only after the previous one resolves, with the
// first fetch issued immediately on Start.
type Poller struct {
	getter     JobGetter
	interval   time.Duration
	terminal   map[api.JobStatus]struct{}
	transition TransitionFunc
	log        *zap.SugaredLogger

	mu      sync.Mutex
	session *session
	job     *api.Job
	err     error
}

type PollerOption func(*Poller)

// WithPollInterval overrides the delay between a resolved fetch and the
// next one.
func WithPollInterval(d time.Duration) PollerOption {
	return func(p *Poller) {
		p.interval = d
	}
}

// WithTerminalStatuses replaces the set of statuses that end a session.
func WithTerminalStatuses(statuses ...api.JobStatus) PollerOption {
	return func(p *Poller) {
		p.terminal = make(map[api.JobStatus]struct{}, len(statuses))
		for _, s := range statuses {
			p.terminal[s] = struct{}{}
		}
	}
}

// WithTransitionFunc registers a callback invoked after every resolved
// fetch of the active session.
func WithTransitionFunc(fn TransitionFunc) PollerOption {
	return func(p *Poller) {
		p.transition = fn
	}
}

func NewPoller(getter JobGetter, opts ...PollerOption) *Poller {
	p := &Poller{
		getter:   getter,
		interval: DefaultPollInterval,
		terminal: map[api.JobStatus]struct{}{
			api.JobStatusCompleted: {},
			api.JobStatusFailed:    {},
		},
		log: zap.S().Named("poller"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start begins polling the given job. Any previous session is stopped
// first; its in-flight fetch, if one is pending, is discarded when it
// resolves.
func (p *Poller) Start(ctx context.Context, jobID string) {
	p.mu.Lock()
	p.stopLocked()

	sctx, cancel := context.WithCancel(ctx)
	s := &session{jobID: jobID, ctx: sctx, cancel: cancel}
	p.session = s
	p.job = nil
	p.err = nil
	p.mu.Unlock()

	go p.fetch(s)
}

// Stop ends the active session, if any. The pending timer is cancelled
// synchronously; a fetch already on the wire resolves into nothing.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Poller) stopLocked() {
	s := p.session
	if s == nil {
		return
	}
	s.done = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.cancel()
	p.session = nil
}

// Job returns the most recent state fetched by the active session, or
// nil before the first fetch resolves.
func (p *Poller) Job() *api.Job {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.job
}

// Err returns the fetch error that ended the session, if any. The
// poller does not retry: the first failed fetch ends the session.
func (p *Poller) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *Poller) IsPolling() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session != nil && !p.session.done
}

func (p *Poller) fetch(s *session) {
	job, err := p.getter.GetJob(s.ctx, s.jobID)

	p.mu.Lock()
	if p.session != s || s.done {
		p.mu.Unlock()
		return
	}

	if err != nil {
		if s.ctx.Err() != nil {
			// Torn down while the fetch was on the wire.
			s.done = true
			p.mu.Unlock()
			return
		}
		p.err = err
		s.done = true
		p.mu.Unlock()

		p.log.Warnw("job fetch failed", "job_id", s.jobID, "error", err)
		p.notify(Transition{JobID: s.jobID, Err: err})
		return
	}

	p.job = job
	_, terminal := p.terminal[job.Status]
	if terminal {
		s.done = true
	} else {
		s.timer = time.AfterFunc(p.interval, func() {
			p.fetch(s)
		})
	}
	p.mu.Unlock()

	p.notify(Transition{JobID: s.jobID, Job: job, Terminal: terminal})
}

func (p *Poller) notify(t Transition) {
	if p.transition != nil {
		p.transition(t)
	}
}
