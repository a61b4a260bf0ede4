package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextRun(t *testing.T) {
	loc := time.UTC
	tests := []struct {
		name string
		now  time.Time
		hour int
		want time.Time
	}{
		{
			name: "later today",
			now:  time.Date(2026, 3, 2, 6, 30, 0, 0, loc),
			hour: 8,
			want: time.Date(2026, 3, 2, 8, 0, 0, 0, loc),
		},
		{
			name: "already passed today",
			now:  time.Date(2026, 3, 2, 9, 0, 0, 0, loc),
			hour: 8,
			want: time.Date(2026, 3, 3, 8, 0, 0, 0, loc),
		},
		{
			name: "exactly at the hour",
			now:  time.Date(2026, 3, 2, 8, 0, 0, 0, loc),
			hour: 8,
			want: time.Date(2026, 3, 3, 8, 0, 0, 0, loc),
		},
		{
			name: "month rollover",
			now:  time.Date(2026, 1, 31, 23, 0, 0, 0, loc),
			hour: 0,
			want: time.Date(2026, 2, 1, 0, 0, 0, 0, loc),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextRun(tt.now, tt.hour))
		})
	}
}

type recordingQueuer struct {
	mu    sync.Mutex
	calls []time.Time
	fired chan struct{}
}

func (q *recordingQueuer) QueueDailyReminders(ctx context.Context, today time.Time) (int, error) {
	q.mu.Lock()
	q.calls = append(q.calls, today)
	q.mu.Unlock()
	select {
	case q.fired <- struct{}{}:
	default:
	}
	return 3, nil
}

func TestReminderScheduler_SweepsAtHour(t *testing.T) {
	log, _ := test.NewNullLogger()
	queuer := &recordingQueuer{fired: make(chan struct{}, 1)}

	s := NewReminderScheduler(queuer, 8, log)
	// the first call schedules the timer, later calls report the sweep time
	start := time.Date(2026, 3, 2, 7, 59, 59, 999_000_000, time.UTC)
	s.now = func() time.Time { return start }

	s.Start(context.Background())

	select {
	case <-queuer.fired:
	case <-time.After(2 * time.Second):
		t.Fatal("reminder sweep did not run")
	}
	s.Stop()

	queuer.mu.Lock()
	defer queuer.mu.Unlock()
	require.NotEmpty(t, queuer.calls)
	assert.Equal(t, start, queuer.calls[0])
}

func TestReminderScheduler_StopBeforeRun(t *testing.T) {
	log, _ := test.NewNullLogger()
	queuer := &recordingQueuer{fired: make(chan struct{}, 1)}

	s := NewReminderScheduler(queuer, 8, log)
	s.now = func() time.Time { return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) }

	s.Start(context.Background())
	s.Stop()
	s.Stop()

	queuer.mu.Lock()
	defer queuer.mu.Unlock()
	assert.Empty(t, queuer.calls)
}
