package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ReminderQueuer queues reminders for the appointments of the day after today.
type ReminderQueuer interface {
	QueueDailyReminders(ctx context.Context, today time.Time) (int, error)
}

// ReminderScheduler runs the reminder sweep once a day at a fixed hour.
type ReminderScheduler struct {
	queuer   ReminderQueuer
	log      *logrus.Logger
	hour     int
	now      func() time.Time
	stopChan chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func NewReminderScheduler(queuer ReminderQueuer, hour int, log *logrus.Logger) *ReminderScheduler {
	return &ReminderScheduler{
		queuer:   queuer,
		log:      log,
		hour:     hour,
		now:      time.Now,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (s *ReminderScheduler) Start(ctx context.Context) {
	s.log.Infof("Starting reminder scheduler, daily at %02d:00", s.hour)
	go s.run(ctx)
}

// Stop signals the loop and waits for a sweep in progress to finish.
func (s *ReminderScheduler) Stop() {
	s.stopOnce.Do(func() {
		s.log.Info("Stopping reminder scheduler")
		close(s.stopChan)
	})
	<-s.done
}

func (s *ReminderScheduler) run(ctx context.Context) {
	defer close(s.done)

	for {
		wait := nextRun(s.now(), s.hour).Sub(s.now())
		timer := time.NewTimer(wait)

		select {
		case <-timer.C:
			s.sweep(ctx)
		case <-s.stopChan:
			timer.Stop()
			s.log.Info("Reminder scheduler stopped")
			return
		case <-ctx.Done():
			timer.Stop()
			s.log.Info("Reminder scheduler cancelled")
			return
		}
	}
}

func (s *ReminderScheduler) sweep(ctx context.Context) {
	queued, err := s.queuer.QueueDailyReminders(ctx, s.now())
	if err != nil {
		s.log.Errorf("Failed to queue daily reminders: %+v", err)
		return
	}
	s.log.WithField("queued", queued).Info("Daily reminder sweep completed")
}

// nextRun returns the first instant strictly after now at hour:00 in now's location.
func nextRun(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
