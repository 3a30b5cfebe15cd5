package bookings

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wolfman30/reservation-assistant/internal/reservation"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Repository stores booked lists in the booked_intervals table.
type Repository struct {
	db querier
}

// NewRepository creates a repository backed by pgx pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("bookings: pgx pool required")
	}
	return &Repository{db: pool}
}

// NewRepositoryWithQuerier allows injecting mocks for tests.
func NewRepositoryWithQuerier(q querier) *Repository {
	if q == nil {
		panic("bookings: querier required")
	}
	return &Repository{db: q}
}

func (r *Repository) List(ctx context.Context, owner string) ([]reservation.BookedInterval, error) {
	if err := checkOwner(owner); err != nil {
		return nil, err
	}
	query := `
		SELECT id::text, title, start_value, end_value, all_day, description
		FROM booked_intervals
		WHERE owner_id = $1
		ORDER BY created_at, seq
	`
	rows, err := r.db.Query(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("bookings: list booked intervals: %w", err)
	}
	defer rows.Close()

	out := []reservation.BookedInterval{}
	for rows.Next() {
		var iv reservation.BookedInterval
		if err := rows.Scan(&iv.ID, &iv.Title, &iv.Start, &iv.End, &iv.AllDay, &iv.Description); err != nil {
			return nil, fmt.Errorf("bookings: scan booked interval: %w", err)
		}
		out = append(out, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("bookings: iterate booked intervals: %w", err)
	}
	return out, nil
}

func (r *Repository) Append(ctx context.Context, owner string, interval reservation.BookedInterval) error {
	if err := checkOwner(owner); err != nil {
		return err
	}
	id, err := uuid.Parse(interval.ID)
	if err != nil {
		id = uuid.New()
	}
	query := `
		INSERT INTO booked_intervals (id, owner_id, title, start_value, end_value, all_day, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := r.db.Exec(ctx, query,
		id.String(), owner, interval.Title, interval.Start, interval.End, interval.AllDay, interval.Description,
	); err != nil {
		return fmt.Errorf("bookings: insert booked interval: %w", err)
	}
	return nil
}

var _ Store = (*Repository)(nil)
