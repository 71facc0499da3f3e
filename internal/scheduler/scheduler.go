package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/shaw8386/server/internal/domain"
	"github.com/shaw8386/server/internal/lottery"
)

// Checker is the check pipeline the scheduler drives. Both entry points
// claim before they process, so timer and sweep can race freely.
type Checker interface {
	ProcessTicket(ctx context.Context, id uint)
	ProcessDue(ctx context.Context)
	PendingTickets(ctx context.Context) ([]domain.Ticket, error)
}

// Scheduler owns the per-ticket one-shot timers and the periodic
// recovery sweep. Timers do not survive a restart; the sweep, driven by
// the durable scheduled_time + processed state, is the actual
// correctness guarantee.
type Scheduler struct {
	checker    Checker
	cron       *cron.Cron
	sweepEvery time.Duration

	mu      sync.Mutex
	timers  map[uint]*time.Timer
	stopped bool
}

func New(checker Checker, loc *time.Location, sweepEvery time.Duration) *Scheduler {
	return &Scheduler{
		checker:    checker,
		cron:       cron.New(cron.WithLocation(loc)),
		sweepEvery: sweepEvery,
		timers:     make(map[uint]*time.Timer),
	}
}

func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(fmt.Sprintf("@every %v", s.sweepEvery), s.Sweep)
	if err != nil {
		return fmt.Errorf("s.cron.AddFunc -> %w", err)
	}

	s.cron.Start()
	zap.L().Info("recovery sweep started", zap.Duration("interval", s.sweepEvery))

	return nil
}

// Sweep runs one recovery pass.
func (s *Scheduler) Sweep() {
	s.checker.ProcessDue(context.Background())
}

// ScheduleCheck arms the one-shot deferred check for a ticket. Delays
// in the past are floored so an already-drawn ticket is still checked
// shortly after registration instead of inline.
func (s *Scheduler) ScheduleCheck(id uint, delay time.Duration) {
	if delay < lottery.FloorDelay {
		delay = lottery.FloorDelay
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	if t, ok := s.timers[id]; ok {
		t.Stop()
	}

	s.timers[id] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.timers, id)
		s.mu.Unlock()

		s.checker.ProcessTicket(context.Background(), id)
	})
}

// RearmPending re-creates the one-shot timers for every unprocessed
// ticket, typically right after a restart. Overdue tickets get the
// floor delay and fire almost immediately.
func (s *Scheduler) RearmPending() error {
	tickets, err := s.checker.PendingTickets(context.Background())
	if err != nil {
		return fmt.Errorf("s.checker.PendingTickets -> %w", err)
	}

	now := time.Now()
	for _, t := range tickets {
		s.ScheduleCheck(t.ID, t.ScheduledTime.Sub(now))
	}

	if len(tickets) > 0 {
		zap.L().Info("re-armed pending tickets", zap.Int("count", len(tickets)))
	}

	return nil
}

// Stop halts the sweep and cancels pending timers. No draining: an
// in-flight check that dies with the process is recovered by the next
// run's sweep.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	s.mu.Unlock()

	s.cron.Stop()
}
