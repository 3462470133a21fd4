package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countingPass(n *atomic.Int64, err error) PassFunc {
	return func(ctx context.Context) error {
		n.Add(1)
		return err
	}
}

func TestScheduler_OneShot(t *testing.T) {
	var n atomic.Int64
	passErr := errors.New("pass failed")
	s := New(countingPass(&n, passErr), 0)

	err := s.Start(context.Background())
	assert.ErrorIs(t, err, passErr)
	assert.Equal(t, int64(1), n.Load())
	assert.Equal(t, Stopped, s.State())

	select {
	case <-s.Done():
	default:
		t.Fatal("one-shot scheduler should be done after Start returns")
	}
}

func TestScheduler_OneShotNeverWaits(t *testing.T) {
	var sawWaiting atomic.Bool
	var s *Scheduler
	s = New(func(ctx context.Context) error {
		if s.State() == WaitingForInterval {
			sawWaiting.Store(true)
		}
		return nil
	}, 0)

	require.NoError(t, s.Start(context.Background()))
	assert.False(t, sawWaiting.Load())
	assert.Equal(t, int64(1), s.Passes())
}

func TestScheduler_StartTwice(t *testing.T) {
	s := New(func(ctx context.Context) error { return nil }, 0)
	require.NoError(t, s.Start(context.Background()))
	assert.ErrorIs(t, s.Start(context.Background()), ErrAlreadyStarted)
}

func TestScheduler_StopDuringWait(t *testing.T) {
	var n atomic.Int64
	s := New(countingPass(&n, nil), time.Hour, WithIncrement(10*time.Millisecond))
	require.NoError(t, s.Start(context.Background()))

	require.Eventually(t, func() bool {
		return s.State() == WaitingForInterval
	}, time.Second, time.Millisecond)

	start := time.Now()
	s.Stop()
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, Stopped, s.State())
	assert.Equal(t, int64(1), n.Load())

	select {
	case <-s.Done():
	default:
		t.Fatal("Stop returned before the loop exited")
	}
}

func TestScheduler_StopWaitsForRunningPass(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool
	s := New(func(ctx context.Context) error {
		close(entered)
		<-release
		finished.Store(true)
		return nil
	}, time.Hour, WithIncrement(10*time.Millisecond))
	require.NoError(t, s.Start(context.Background()))
	<-entered

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a pass was running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	<-stopped
	assert.True(t, finished.Load())
	assert.Equal(t, int64(1), s.Passes())
}

func TestScheduler_Periodic(t *testing.T) {
	var n atomic.Int64
	s := New(countingPass(&n, nil), 20*time.Millisecond, WithIncrement(5*time.Millisecond))
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	require.Eventually(t, func() bool { return n.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
}

func TestScheduler_PassErrorsDoNotStopLoop(t *testing.T) {
	var n atomic.Int64
	logger := &recordingLogger{}
	s := New(countingPass(&n, errors.New("auth failed")), 10*time.Millisecond,
		WithIncrement(5*time.Millisecond), WithLogger(logger))
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	require.Eventually(t, func() bool { return n.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
	assert.GreaterOrEqual(t, logger.errors.Load(), int64(1))
}

func TestScheduler_RunNow(t *testing.T) {
	var n atomic.Int64
	s := New(countingPass(&n, nil), time.Hour, WithIncrement(10*time.Millisecond))
	assert.False(t, s.RunNow(), "RunNow before Start")

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	require.Eventually(t, func() bool {
		return s.State() == WaitingForInterval
	}, time.Second, time.Millisecond)

	assert.True(t, s.RunNow())
	require.Eventually(t, func() bool { return n.Load() == 2 }, time.Second, time.Millisecond)
}

func TestScheduler_RunNowOneShot(t *testing.T) {
	s := New(func(ctx context.Context) error { return nil }, 0)
	require.NoError(t, s.Start(context.Background()))
	assert.False(t, s.RunNow())
}

func TestScheduler_ContextCancel(t *testing.T) {
	var n atomic.Int64
	ctx, cancel := context.WithCancel(context.Background())
	s := New(countingPass(&n, nil), time.Hour, WithIncrement(10*time.Millisecond))
	require.NoError(t, s.Start(ctx))

	require.Eventually(t, func() bool {
		return s.State() == WaitingForInterval
	}, time.Second, time.Millisecond)
	cancel()

	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("loop did not exit after context cancellation")
	}
	assert.Equal(t, Stopped, s.State())
}

func TestScheduler_PassContextNotCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var passErr atomic.Value
	s := New(func(pctx context.Context) error {
		cancel()
		passErr.Store(pctx.Err() == nil)
		return nil
	}, time.Hour, WithIncrement(10*time.Millisecond))
	require.NoError(t, s.Start(ctx))
	s.Wait()

	assert.Equal(t, true, passErr.Load())
}

func TestScheduler_StopBeforeStart(t *testing.T) {
	s := New(func(ctx context.Context) error { return nil }, time.Second)
	s.Stop()
	assert.Equal(t, Stopped, s.State())
	assert.ErrorIs(t, s.Start(context.Background()), ErrAlreadyStarted)
	s.Wait()
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "running", Running.String())
	assert.Equal(t, "waiting", WaitingForInterval.String())
	assert.Equal(t, "stopped", Stopped.String())
}

type recordingLogger struct {
	errors atomic.Int64
}

func (l *recordingLogger) Debug(string, ...interface{}) {}
func (l *recordingLogger) Info(string, ...interface{})  {}
func (l *recordingLogger) Warn(string, ...interface{})  {}
func (l *recordingLogger) Error(string, ...interface{}) { l.errors.Add(1) }
