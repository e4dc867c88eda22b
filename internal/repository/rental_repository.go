package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/toolbay/rental-engine/internal/domain"
)

type rentalRepository struct {
	ext sqlx.ExtContext
}

// NewRentalRepository creates a rental repository bound to the given handle
func NewRentalRepository(ext sqlx.ExtContext) RentalRepository {
	return &rentalRepository{ext: ext}
}

func (r *rentalRepository) Create(ctx context.Context, rental *domain.Rental) error {
	query := `
		INSERT INTO rentals (id, member_id, tool_id, start_date, end_date, status, total_price, return_comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.ext.ExecContext(ctx, query,
		rental.ID,
		rental.MemberID,
		rental.ToolID,
		rental.StartDate,
		rental.EndDate,
		rental.Status,
		rental.TotalPrice,
		rental.ReturnComment,
		rental.CreatedAt,
		rental.UpdatedAt,
	)

	return err
}

func (r *rentalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Rental, error) {
	query := `
		SELECT id, member_id, tool_id, start_date, end_date, status, total_price, return_comment, created_at, updated_at
		FROM rentals
		WHERE id = $1
	`

	var rental domain.Rental
	err := sqlx.GetContext(ctx, r.ext, &rental, query, id)
	if err != nil {
		return nil, err
	}

	return &rental, nil
}

func (r *rentalRepository) Update(ctx context.Context, rental *domain.Rental) error {
	query := `
		UPDATE rentals
		SET start_date = $2, end_date = $3, status = $4, total_price = $5, return_comment = $6, updated_at = $7
		WHERE id = $1
	`

	_, err := r.ext.ExecContext(ctx, query,
		rental.ID,
		rental.StartDate,
		rental.EndDate,
		rental.Status,
		rental.TotalPrice,
		rental.ReturnComment,
		rental.UpdatedAt,
	)

	return err
}

func (r *rentalRepository) ListOccupyingByTool(ctx context.Context, toolID uuid.UUID) ([]*domain.Rental, error) {
	query := `
		SELECT id, member_id, tool_id, start_date, end_date, status, total_price, return_comment, created_at, updated_at
		FROM rentals
		WHERE tool_id = $1 AND status IN ($2, $3)
		ORDER BY start_date
	`

	var rentals []*domain.Rental
	err := sqlx.SelectContext(ctx, r.ext, &rentals, query, toolID, domain.RentalStatusPending, domain.RentalStatusActive)
	if err != nil {
		return nil, err
	}

	return rentals, nil
}

func (r *rentalRepository) ListByStatus(ctx context.Context, status string) ([]*domain.Rental, error) {
	query := `
		SELECT id, member_id, tool_id, start_date, end_date, status, total_price, return_comment, created_at, updated_at
		FROM rentals
		WHERE status = $1
		ORDER BY created_at
	`

	var rentals []*domain.Rental
	err := sqlx.SelectContext(ctx, r.ext, &rentals, query, status)
	if err != nil {
		return nil, err
	}

	return rentals, nil
}

func (r *rentalRepository) ListHistory(ctx context.Context, filter domain.RentalHistoryFilter) ([]*domain.Rental, error) {
	query := `
		SELECT id, member_id, tool_id, start_date, end_date, status, total_price, return_comment, created_at, updated_at
		FROM rentals
		WHERE ($1::uuid IS NULL OR member_id = $1)
		  AND ($2::uuid IS NULL OR tool_id = $2)
		  AND ($3::text IS NULL OR status = $3)
		  AND ($4::date IS NULL OR start_date >= $4)
		  AND ($5::date IS NULL OR end_date <= $5)
		ORDER BY created_at DESC
	`

	var rentals []*domain.Rental
	err := sqlx.SelectContext(ctx, r.ext, &rentals, query,
		filter.MemberID,
		filter.ToolID,
		filter.Status,
		filter.From,
		filter.To,
	)
	if err != nil {
		return nil, err
	}

	return rentals, nil
}

func (r *rentalRepository) ListActiveEndedBefore(ctx context.Context, date time.Time) ([]*domain.Rental, error) {
	query := `
		SELECT id, member_id, tool_id, start_date, end_date, status, total_price, return_comment, created_at, updated_at
		FROM rentals
		WHERE status = $1 AND end_date < $2
		ORDER BY end_date
	`

	var rentals []*domain.Rental
	err := sqlx.SelectContext(ctx, r.ext, &rentals, query, domain.RentalStatusActive, date)
	if err != nil {
		return nil, err
	}

	return rentals, nil
}
