package gamesync

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatedSyncer blocks each run until release is closed
type gatedSyncer struct {
	runs    atomic.Int32
	started chan struct{}
	release chan struct{}
	ctxErr  atomic.Value
}

func newGatedSyncer() *gatedSyncer {
	return &gatedSyncer{started: make(chan struct{}, 8), release: make(chan struct{})}
}

func (s *gatedSyncer) Run(ctx context.Context, trigger Trigger) *Report {
	s.runs.Add(1)
	s.started <- struct{}{}

	report := newReport(trigger, time.Now())
	select {
	case <-s.release:
		report.complete(time.Now())
	case <-ctx.Done():
		s.ctxErr.Store(ctx.Err())
		report.fail(ctx.Err(), time.Now())
	}
	return report
}

func TestRunner_ConcurrentTriggersShareOneRun(t *testing.T) {
	syncer := newGatedSyncer()
	runner := NewRunner(context.Background(), syncer)

	var (
		wg      sync.WaitGroup
		reports [2]*Report
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		reports[0] = runner.Trigger(context.Background(), TriggerScheduled)
	}()
	<-syncer.started

	wg.Add(1)
	go func() {
		defer wg.Done()
		reports[1] = runner.Trigger(context.Background(), TriggerManual)
	}()

	// Give the second trigger time to join the in-flight run
	time.Sleep(50 * time.Millisecond)
	close(syncer.release)
	wg.Wait()

	assert.Equal(t, int32(1), syncer.runs.Load())
	require.NotNil(t, reports[0])
	assert.Same(t, reports[0], reports[1])
	assert.Equal(t, TriggerScheduled, reports[1].Trigger)
	assert.Same(t, reports[0], runner.LastReport())
}

func TestRunner_SequentialTriggersRunAgain(t *testing.T) {
	syncer := newGatedSyncer()
	close(syncer.release)
	runner := NewRunner(context.Background(), syncer)

	assert.Nil(t, runner.LastReport())

	first := runner.Trigger(context.Background(), TriggerManual)
	second := runner.Trigger(context.Background(), TriggerManual)

	assert.Equal(t, int32(2), syncer.runs.Load())
	assert.NotEqual(t, first.RunID, second.RunID)
	assert.True(t, second.Succeeded())
}

func TestRunner_CallerCancellationDoesNotAbortRun(t *testing.T) {
	syncer := newGatedSyncer()
	runner := NewRunner(context.Background(), syncer)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan *Report, 1)
	go func() { done <- runner.Trigger(ctx, TriggerManual) }()

	<-syncer.started
	cancel()
	time.Sleep(20 * time.Millisecond)
	close(syncer.release)

	report := <-done
	assert.True(t, report.Succeeded())
	assert.Nil(t, syncer.ctxErr.Load())
}

func TestRunner_BaseCancellationStopsRun(t *testing.T) {
	syncer := newGatedSyncer()
	base, shutdown := context.WithCancel(context.Background())
	runner := NewRunner(base, syncer)

	done := make(chan *Report, 1)
	go func() { done <- runner.Trigger(context.Background(), TriggerScheduled) }()

	<-syncer.started
	shutdown()

	select {
	case report := <-done:
		assert.Equal(t, StatusFailed, report.Status)
		assert.ErrorIs(t, report.Err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("run did not stop after shutdown")
	}
}
