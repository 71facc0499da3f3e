package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrTicketNotFound = errors.New("ticket not found")
	ErrInvalidRegion  = errors.New("invalid region")
)

type Ticket struct {
	ID uint `gorm:"primaryKey"`

	TicketNumber      string `gorm:"type:varchar(20);not null"`
	Region            string `gorm:"type:varchar(10);not null;check:region IN ('north','central','south')"`
	Station           string `gorm:"type:varchar(50);not null"`
	Label             string `gorm:"type:varchar(100)"`
	NotificationToken string `gorm:"type:text;not null"`
	BuyDate           string `gorm:"type:varchar(20);not null"`

	ScheduledTime time.Time `gorm:"not null;index:idx_tickets_due"`
	Processed     bool      `gorm:"not null;default:false;index:idx_tickets_due"`

	CreatedAt time.Time `gorm:"not null"`
}

type TicketDAO struct {
	db *gorm.DB
}

func NewTicketDAO(db *gorm.DB) *TicketDAO {
	return &TicketDAO{
		db: db,
	}
}

func (d *TicketDAO) Insert(ctx context.Context, ticket Ticket) (Ticket, error) {
	result := d.db.WithContext(ctx).Create(&ticket)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) && err.Code == pgerrcode.CheckViolation {
			return Ticket{}, ErrInvalidRegion
		}

		return Ticket{}, result.Error
	}

	return ticket, nil
}

func (d *TicketDAO) FindByID(ctx context.Context, id uint) (Ticket, error) {
	var ticket Ticket

	result := d.db.WithContext(ctx).First(&ticket, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Ticket{}, ErrTicketNotFound
		}

		return Ticket{}, result.Error
	}

	return ticket, nil
}

func (d *TicketDAO) FindByToken(ctx context.Context, token string) ([]Ticket, error) {
	var tickets []Ticket

	result := d.db.WithContext(ctx).
		Where("notification_token = ?", token).
		Order("created_at DESC").
		Find(&tickets)
	if result.Error != nil {
		return nil, result.Error
	}

	return tickets, nil
}

func (d *TicketDAO) FindUnprocessed(ctx context.Context) ([]Ticket, error) {
	var tickets []Ticket

	result := d.db.WithContext(ctx).Where("processed = ?", false).Find(&tickets)
	if result.Error != nil {
		return nil, result.Error
	}

	return tickets, nil
}

// ClaimOne takes the processing lease on a single due ticket. The
// conditional UPDATE only succeeds while the row is unprocessed and its
// scheduled_time has passed; whoever flips the row first owns it, the
// loser sees zero rows affected. Claiming bumps scheduled_time by the
// lease so the sweep ignores the ticket until the lease runs out.
func (d *TicketDAO) ClaimOne(ctx context.Context, id uint, now time.Time, lease time.Duration) (Ticket, bool, error) {
	result := d.db.WithContext(ctx).
		Model(&Ticket{}).
		Where("id = ? AND processed = ? AND scheduled_time <= ?", id, false, now).
		Update("scheduled_time", now.Add(lease))
	if result.Error != nil {
		return Ticket{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return Ticket{}, false, nil
	}

	ticket, err := d.FindByID(ctx, id)
	if err != nil {
		return Ticket{}, false, err
	}

	return ticket, true, nil
}

// ClaimDue claims every due ticket it can win. Candidates are read
// first, then claimed row by row with the same conditional UPDATE as
// ClaimOne, so a ticket grabbed concurrently by its one-shot timer is
// simply skipped.
func (d *TicketDAO) ClaimDue(ctx context.Context, now time.Time, lease time.Duration) ([]Ticket, error) {
	var candidates []Ticket

	result := d.db.WithContext(ctx).
		Where("processed = ? AND scheduled_time <= ?", false, now).
		Find(&candidates)
	if result.Error != nil {
		return nil, result.Error
	}

	claimed := make([]Ticket, 0, len(candidates))
	for _, candidate := range candidates {
		ticket, ok, err := d.ClaimOne(ctx, candidate.ID, now, lease)
		if err != nil {
			return claimed, err
		}
		if ok {
			claimed = append(claimed, ticket)
		}
	}

	return claimed, nil
}

// MarkProcessed flips processed false->true. Idempotent; the flip never
// goes back.
func (d *TicketDAO) MarkProcessed(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).
		Model(&Ticket{}).
		Where("id = ? AND processed = ?", id, false).
		Update("processed", true)

	return result.Error
}
