package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/shaw8386/server/internal/config"
	"github.com/shaw8386/server/internal/domain"
	"github.com/shaw8386/server/internal/lottery"
	"github.com/shaw8386/server/internal/repository"
)

var (
	ErrTicketNotFound = repository.ErrTicketNotFound
	ErrInvalidRegion  = repository.ErrInvalidRegion
	ErrUnknownRegion  = lottery.ErrUnknownRegion
)

type TicketRepository interface {
	Create(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error)
	FindByToken(ctx context.Context, token string) ([]domain.Ticket, error)
	FindUnprocessed(ctx context.Context) ([]domain.Ticket, error)
	ClaimOne(ctx context.Context, id uint, now time.Time, lease time.Duration) (domain.Ticket, bool, error)
	ClaimDue(ctx context.Context, now time.Time, lease time.Duration) ([]domain.Ticket, error)
	MarkProcessed(ctx context.Context, id uint) error
}

type ResultFetcher interface {
	Fetch(ctx context.Context, station string) ([]byte, error)
}

type Dispatcher interface {
	Send(ctx context.Context, token, title, body string)
}

// TimerScheduler arms the one-shot deferred check for a ticket. The
// timer is a latency optimization only; the durable scheduled_time plus
// the recovery sweep is what guarantees the check happens.
type TimerScheduler interface {
	ScheduleCheck(id uint, delay time.Duration)
}

const (
	// RegistrationScheduled means the check was deferred to the draw time.
	RegistrationScheduled = "scheduled"
	// RegistrationImmediate means the caller waited and got a verdict.
	RegistrationImmediate = "immediate"
)

type RegistrationResult struct {
	Mode    string
	Ticket  domain.Ticket
	Verdict *domain.Verdict
}

type TicketService struct {
	repo       TicketRepository
	fetcher    ResultFetcher
	dispatcher Dispatcher
	drawConf   *config.DrawConfig
	lease      time.Duration
	sched      TimerScheduler
	now        func() time.Time
}

func NewTicketService(repo TicketRepository, fetcher ResultFetcher, dispatcher Dispatcher, drawConf *config.DrawConfig, schedConf *config.SchedulerConfig) *TicketService {
	return &TicketService{
		repo:       repo,
		fetcher:    fetcher,
		dispatcher: dispatcher,
		drawConf:   drawConf,
		lease:      schedConf.Lease(),
		now:        time.Now,
	}
}

// AttachScheduler wires the one-shot timer owner. Set once at startup;
// registration still works without it, the sweep picks the slack up.
func (s *TicketService) AttachScheduler(sched TimerScheduler) {
	s.sched = sched
}

// RegisterTicket computes the draw schedule, persists the ticket and
// arms its one-shot check. When the draw has already happened and the
// caller asked to wait, the check runs inline (after taking the claim,
// so a concurrent sweep cannot double-process) and the verdict is
// returned directly.
func (s *TicketService) RegisterTicket(ctx context.Context, ticket domain.Ticket, waitForResult bool) (RegistrationResult, error) {
	now := s.now()

	schedule, err := lottery.Schedule(s.drawConf, ticket.Region, ticket.BuyDate, now)
	if err != nil {
		return RegistrationResult{}, fmt.Errorf("lottery.Schedule -> %w", err)
	}
	ticket.ScheduledTime = schedule.ScheduledTime

	created, err := s.repo.Create(ctx, ticket)
	if err != nil {
		return RegistrationResult{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	if schedule.Due() && waitForResult {
		claimed, ok, err := s.repo.ClaimOne(ctx, created.ID, now, s.lease)
		if err != nil {
			return RegistrationResult{}, fmt.Errorf("s.repo.ClaimOne -> %w", err)
		}
		if ok {
			verdict := s.check(ctx, claimed)
			return RegistrationResult{
				Mode:    RegistrationImmediate,
				Ticket:  claimed,
				Verdict: &verdict,
			}, nil
		}
		// Lost the claim to the sweep; fall through to a scheduled ack.
	}

	if s.sched != nil {
		s.sched.ScheduleCheck(created.ID, schedule.EffectiveDelay())
	}

	zap.L().Info("ticket scheduled",
		zap.Uint("ticket_id", created.ID),
		zap.String("region", string(created.Region)),
		zap.Time("scheduled_time", created.ScheduledTime),
		zap.Duration("delay", schedule.EffectiveDelay()))

	return RegistrationResult{
		Mode:   RegistrationScheduled,
		Ticket: created,
	}, nil
}

func (s *TicketService) ListTickets(ctx context.Context, token string) ([]domain.Ticket, error) {
	tickets, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByToken -> %w", err)
	}

	return tickets, nil
}

// PendingTickets lists every unprocessed ticket, for re-arming timers
// after a restart.
func (s *TicketService) PendingTickets(ctx context.Context) ([]domain.Ticket, error) {
	tickets, err := s.repo.FindUnprocessed(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindUnprocessed -> %w", err)
	}

	return tickets, nil
}

// ProcessTicket is the one-shot timer path: claim this ticket if it is
// still due and unprocessed, then run the check. Losing the claim is
// normal - the sweep got there first.
func (s *TicketService) ProcessTicket(ctx context.Context, id uint) {
	claimed, ok, err := s.repo.ClaimOne(ctx, id, s.now(), s.lease)
	if err != nil {
		zap.L().Error("claim failed, sweep will retry", zap.Uint("ticket_id", id), zap.Error(err))
		return
	}
	if !ok {
		zap.L().Debug("ticket already claimed elsewhere", zap.Uint("ticket_id", id))
		return
	}

	s.check(ctx, claimed)
}

// ProcessDue is the recovery sweep path: claim everything overdue and
// check each ticket, independently and in parallel.
func (s *TicketService) ProcessDue(ctx context.Context) {
	claimed, err := s.repo.ClaimDue(ctx, s.now(), s.lease)
	if err != nil {
		zap.L().Error("sweep claim failed, retrying next interval", zap.Error(err))
		return
	}
	if len(claimed) == 0 {
		return
	}

	zap.L().Info("sweep recovered due tickets", zap.Int("count", len(claimed)))

	var wg sync.WaitGroup
	for _, ticket := range claimed {
		wg.Add(1)
		go func(t domain.Ticket) {
			defer wg.Done()
			s.check(ctx, t)
		}(ticket)
	}
	wg.Wait()
}

// check runs the result pipeline for one claimed ticket: fetch, parse,
// match, notify, mark processed. The ticket is marked processed only
// after a non-empty prize table was evaluated; a vendor that has not
// published yet leaves the ticket pending so the sweep retries after
// the claim lease expires.
func (s *TicketService) check(ctx context.Context, ticket domain.Ticket) domain.Verdict {
	raw, err := s.fetcher.Fetch(ctx, ticket.Station)
	if err != nil {
		zap.L().Warn("vendor fetch failed",
			zap.Uint("ticket_id", ticket.ID),
			zap.String("station", ticket.Station),
			zap.Error(err))
		s.dispatcher.Send(ctx, ticket.NotificationToken, notificationTitle, fetchFailedMessage)
		return domain.Verdict{Outcome: domain.OutcomeNoResult}
	}

	table := lottery.Parse(raw, ticket.Region, ticket.BuyDate)
	verdict := lottery.Match(ticket.Number, table, ticket.Region)

	if verdict.Outcome == domain.OutcomeNoResult {
		zap.L().Info("no result published yet, will retry",
			zap.Uint("ticket_id", ticket.ID),
			zap.String("buy_date", ticket.BuyDate))
		return verdict
	}

	s.dispatcher.Send(ctx, ticket.NotificationToken, notificationTitle, VerdictMessage(verdict))

	if err := s.repo.MarkProcessed(ctx, ticket.ID); err != nil {
		// The claim lease still guards against an immediate duplicate;
		// worst case the ticket is re-checked once after the lease.
		zap.L().Error("mark processed failed", zap.Uint("ticket_id", ticket.ID), zap.Error(err))
	}

	zap.L().Info("ticket checked",
		zap.Uint("ticket_id", ticket.ID),
		zap.String("outcome", string(verdict.Outcome)),
		zap.String("tier", verdict.Tier))

	return verdict
}
