package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/teemow/inboxsaver/internal/logging"
)

// DefaultIncrement is the granularity at which a waiting scheduler checks for
// a stop request.
const DefaultIncrement = time.Second

// ErrAlreadyStarted is returned when Start is called twice.
var ErrAlreadyStarted = errors.New("scheduler already started")

// State is the lifecycle state of a Scheduler.
type State int32

const (
	Idle State = iota
	Running
	WaitingForInterval
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case WaitingForInterval:
		return "waiting"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// PassFunc runs one pass.
type PassFunc func(ctx context.Context) error

// Scheduler runs a PassFunc on an interval.
type Scheduler struct {
	pass      PassFunc
	interval  time.Duration
	increment time.Duration
	logger    logging.Logger

	state   atomic.Int32
	passes  atomic.Int64
	started atomic.Bool
	stopped atomic.Bool

	stopOnce sync.Once
	stopCh   chan struct{}
	trigger  chan struct{}
	done     chan struct{}
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithIncrement sets how often a waiting scheduler checks for a stop request.
func WithIncrement(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.increment = d
		}
	}
}

// WithLogger sets the logger used to report pass failures.
func WithLogger(l logging.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Scheduler. An interval of zero means a single pass.
func New(pass PassFunc, interval time.Duration, opts ...Option) *Scheduler {
	s := &Scheduler{
		pass:      pass,
		interval:  interval,
		increment: DefaultIncrement,
		logger:    logging.NewSlogAdapter(logging.Discard()),
		stopCh:    make(chan struct{}),
		trigger:   make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current state.
func (s *Scheduler) State() State {
	return State(s.state.Load())
}

// Passes returns the number of passes started so far.
func (s *Scheduler) Passes() int64 {
	return s.passes.Load()
}

// Start begins scheduling. With a zero interval it runs one pass, moves to
// Stopped and returns the pass error. Otherwise it starts the background loop
// and returns immediately. Cancelling ctx stops the loop like Stop does.
func (s *Scheduler) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	if s.interval <= 0 {
		defer close(s.done)
		err := s.runPass(ctx)
		s.state.Store(int32(Stopped))
		return err
	}

	go s.loop(ctx)
	return nil
}

// Stop requests the loop to exit and blocks until it has. Stopping a
// scheduler that was never started moves it straight to Stopped.
func (s *Scheduler) Stop() {
	s.stopped.Store(true)
	s.stopOnce.Do(func() { close(s.stopCh) })

	if s.started.CompareAndSwap(false, true) {
		s.state.Store(int32(Stopped))
		close(s.done)
		return
	}
	<-s.done
}

// RunNow asks a waiting loop to start the next pass immediately. It reports
// false when the request could not be queued.
func (s *Scheduler) RunNow() bool {
	if s.interval <= 0 || s.stopped.Load() || !s.started.Load() {
		return false
	}
	select {
	case s.trigger <- struct{}{}:
		return true
	default:
		return false
	}
}

// Wait blocks until the scheduler has stopped.
func (s *Scheduler) Wait() {
	<-s.done
}

// Done is closed once the scheduler has stopped.
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.done)
	defer s.state.Store(int32(Stopped))

	for {
		if s.stopped.Load() || ctx.Err() != nil {
			return
		}
		if err := s.runPass(ctx); err != nil {
			s.logger.Error("pass failed", logging.KeyError, err.Error())
		}
		if s.stopped.Load() {
			return
		}

		s.state.Store(int32(WaitingForInterval))
		if !s.wait(ctx) {
			return
		}
	}
}

// runPass runs one pass detached from ctx cancellation.
func (s *Scheduler) runPass(ctx context.Context) error {
	s.state.Store(int32(Running))
	s.passes.Add(1)
	return s.pass(context.WithoutCancel(ctx))
}

// wait sleeps for the interval in increments. It returns false when the
// scheduler should exit and true when the next pass is due.
func (s *Scheduler) wait(ctx context.Context) bool {
	remaining := s.interval
	for remaining > 0 {
		if s.stopped.Load() {
			return false
		}
		step := min(s.increment, remaining)
		timer := time.NewTimer(step)
		select {
		case <-timer.C:
			remaining -= step
		case <-s.stopCh:
			timer.Stop()
			return false
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-s.trigger:
			timer.Stop()
			s.logger.Info("running pass on request")
			return true
		}
	}
	return !s.stopped.Load()
}
