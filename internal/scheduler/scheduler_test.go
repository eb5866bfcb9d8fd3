package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"ticketsync/ingestion/internal/gamesync"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRunner struct {
	calls    atomic.Int32
	triggers chan gamesync.Trigger
}

func (r *countingRunner) Trigger(ctx context.Context, trigger gamesync.Trigger) *gamesync.Report {
	r.calls.Add(1)
	select {
	case r.triggers <- trigger:
	default:
	}
	return &gamesync.Report{Trigger: trigger, Status: gamesync.StatusSuccess}
}

func TestNextSyncTime(t *testing.T) {
	now := time.Date(2024, 10, 1, 13, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		expr string
		want time.Time
	}{
		{name: "twice daily", expr: "0 */12 * * *", want: time.Date(2024, 10, 2, 0, 0, 0, 0, time.UTC)},
		{name: "hourly", expr: "0 * * * *", want: time.Date(2024, 10, 1, 14, 0, 0, 0, time.UTC)},
		{name: "descriptor", expr: "@daily", want: time.Date(2024, 10, 2, 0, 0, 0, 0, time.UTC)},
		{name: "seconds field", expr: "30 0 13 * * *", want: time.Date(2024, 10, 1, 13, 0, 30, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextSyncTime(tt.expr, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextSyncTime_StrictlyAfterNow(t *testing.T) {
	now := time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)
	got, err := NextSyncTime("0 */12 * * *", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 10, 2, 0, 0, 0, 0, time.UTC), got)
}

func TestNextSyncTime_Invalid(t *testing.T) {
	_, err := NextSyncTime("whenever", time.Now())
	assert.Error(t, err)

	_, err = NextSyncTime("0 0 30 2 *", time.Now())
	assert.Error(t, err)
}

func TestScheduler_FiresScheduledTrigger(t *testing.T) {
	runner := &countingRunner{triggers: make(chan gamesync.Trigger, 1)}
	s := NewScheduler("* * * * * *", runner)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()
	assert.False(t, s.Next().IsZero())

	select {
	case trigger := <-runner.triggers:
		assert.Equal(t, gamesync.TriggerScheduled, trigger)
	case <-time.After(3 * time.Second):
		t.Fatal("scheduled sync did not fire")
	}
}

func TestScheduler_RejectsBadSchedule(t *testing.T) {
	s := NewScheduler("every tuesday", &countingRunner{})
	assert.Error(t, s.Start(context.Background()))
}
