package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalSchedulerRunsImmediatelyAndRepeats(t *testing.T) {
	s := NewIntervalScheduler(10*time.Millisecond, nil)

	var runs atomic.Int32
	require.NoError(t, s.Start(context.Background(), func(time.Time) { runs.Add(1) }))

	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
	require.NoError(t, s.Stop(context.Background()))

	after := runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, runs.Load())
}

func TestIntervalSchedulerStopsOnContext(t *testing.T) {
	s := NewIntervalScheduler(time.Hour, nil)
	ctx, cancel := context.WithCancel(context.Background())

	started := make(chan struct{}, 1)
	require.NoError(t, s.Start(ctx, func(time.Time) { started <- struct{}{} }))
	<-started

	done := s.Done()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("loop did not exit after cancel")
	}
}

func TestIntervalSchedulerRejectsZeroInterval(t *testing.T) {
	err := NewIntervalScheduler(0, nil).Start(context.Background(), func(time.Time) {})
	assert.Error(t, err)
}

func TestStopWithoutStart(t *testing.T) {
	assert.NoError(t, NewIntervalScheduler(time.Second, nil).Stop(context.Background()))
}

func TestIntervalSchedulerReportsTriggersInLocation(t *testing.T) {
	loc := time.FixedZone("EST", -5*60*60)
	s := NewIntervalScheduler(10*time.Millisecond, loc)
	s.now = func() time.Time { return time.Date(2024, time.October, 1, 3, 0, 0, 0, time.UTC) }

	triggers := make(chan time.Time, 8)
	require.NoError(t, s.Start(context.Background(), func(at time.Time) {
		select {
		case triggers <- at:
		default:
		}
	}))
	first := <-triggers
	tick := <-triggers
	require.NoError(t, s.Stop(context.Background()))

	assert.Equal(t, loc, first.Location())
	assert.Equal(t, time.September, first.Month(), "03:00 UTC is still the previous evening in EST")
	assert.Equal(t, loc, tick.Location())
}
