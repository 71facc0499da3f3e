package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/shaw8386/server/internal/domain"
	"github.com/shaw8386/server/internal/repository/dao"
)

var (
	ErrTicketNotFound = dao.ErrTicketNotFound
	ErrInvalidRegion  = dao.ErrInvalidRegion
)

type TicketDAO interface {
	Insert(ctx context.Context, ticket dao.Ticket) (dao.Ticket, error)
	FindByID(ctx context.Context, id uint) (dao.Ticket, error)
	FindByToken(ctx context.Context, token string) ([]dao.Ticket, error)
	FindUnprocessed(ctx context.Context) ([]dao.Ticket, error)
	ClaimOne(ctx context.Context, id uint, now time.Time, lease time.Duration) (dao.Ticket, bool, error)
	ClaimDue(ctx context.Context, now time.Time, lease time.Duration) ([]dao.Ticket, error)
	MarkProcessed(ctx context.Context, id uint) error
}

type TicketRepository struct {
	dao TicketDAO
}

func NewTicketRepository(dao TicketDAO) *TicketRepository {
	return &TicketRepository{
		dao: dao,
	}
}

func (r *TicketRepository) Create(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error) {
	created, err := r.dao.Insert(ctx, dao.Ticket{
		TicketNumber:      ticket.Number,
		Region:            string(ticket.Region),
		Station:           ticket.Station,
		Label:             ticket.Label,
		NotificationToken: ticket.NotificationToken,
		BuyDate:           ticket.BuyDate,
		ScheduledTime:     ticket.ScheduledTime,
	})
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *TicketRepository) FindByToken(ctx context.Context, token string) ([]domain.Ticket, error) {
	found, err := r.dao.FindByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByToken -> %w", err)
	}

	tickets := make([]domain.Ticket, 0, len(found))
	for _, t := range found {
		tickets = append(tickets, r.daoToDomain(t))
	}

	return tickets, nil
}

func (r *TicketRepository) FindUnprocessed(ctx context.Context) ([]domain.Ticket, error) {
	found, err := r.dao.FindUnprocessed(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindUnprocessed -> %w", err)
	}

	tickets := make([]domain.Ticket, 0, len(found))
	for _, t := range found {
		tickets = append(tickets, r.daoToDomain(t))
	}

	return tickets, nil
}

func (r *TicketRepository) ClaimOne(ctx context.Context, id uint, now time.Time, lease time.Duration) (domain.Ticket, bool, error) {
	claimed, ok, err := r.dao.ClaimOne(ctx, id, now, lease)
	if err != nil {
		return domain.Ticket{}, false, fmt.Errorf("r.dao.ClaimOne -> %w", err)
	}
	if !ok {
		return domain.Ticket{}, false, nil
	}

	return r.daoToDomain(claimed), true, nil
}

func (r *TicketRepository) ClaimDue(ctx context.Context, now time.Time, lease time.Duration) ([]domain.Ticket, error) {
	claimed, err := r.dao.ClaimDue(ctx, now, lease)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ClaimDue -> %w", err)
	}

	tickets := make([]domain.Ticket, 0, len(claimed))
	for _, t := range claimed {
		tickets = append(tickets, r.daoToDomain(t))
	}

	return tickets, nil
}

func (r *TicketRepository) MarkProcessed(ctx context.Context, id uint) error {
	if err := r.dao.MarkProcessed(ctx, id); err != nil {
		return fmt.Errorf("r.dao.MarkProcessed -> %w", err)
	}

	return nil
}

func (r *TicketRepository) daoToDomain(t dao.Ticket) domain.Ticket {
	return domain.Ticket{
		ID:                t.ID,
		Number:            t.TicketNumber,
		Region:            domain.Region(t.Region),
		Station:           t.Station,
		Label:             t.Label,
		NotificationToken: t.NotificationToken,
		BuyDate:           t.BuyDate,
		ScheduledTime:     t.ScheduledTime,
		Processed:         t.Processed,
		CreatedAt:         t.CreatedAt,
	}
}
