package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/toolbay/rental-engine/internal/domain"
)

type memberRepository struct {
	ext sqlx.ExtContext
}

// NewMemberRepository creates a member repository bound to the given handle
func NewMemberRepository(ext sqlx.ExtContext) MemberRepository {
	return &memberRepository{ext: ext}
}

func (r *memberRepository) Create(ctx context.Context, member *domain.Member) error {
	query := `
		INSERT INTO members (id, name, email, total_debt, membership_expiry, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.ext.ExecContext(ctx, query,
		member.ID,
		member.Name,
		member.Email,
		member.TotalDebt,
		member.MembershipExpiry,
		member.CreatedAt,
		member.UpdatedAt,
	)

	return err
}

func (r *memberRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	query := `
		SELECT id, name, email, total_debt, membership_expiry, created_at, updated_at
		FROM members
		WHERE id = $1
	`

	var member domain.Member
	err := sqlx.GetContext(ctx, r.ext, &member, query, id)
	if err != nil {
		return nil, err
	}

	return &member, nil
}

func (r *memberRepository) Update(ctx context.Context, member *domain.Member) error {
	query := `
		UPDATE members
		SET name = $2, email = $3, total_debt = $4, membership_expiry = $5, updated_at = $6
		WHERE id = $1
	`

	_, err := r.ext.ExecContext(ctx, query,
		member.ID,
		member.Name,
		member.Email,
		member.TotalDebt,
		member.MembershipExpiry,
		member.UpdatedAt,
	)

	return err
}

func (r *memberRepository) List(ctx context.Context) ([]*domain.Member, error) {
	query := `
		SELECT id, name, email, total_debt, membership_expiry, created_at, updated_at
		FROM members
		ORDER BY name
	`

	var members []*domain.Member
	err := sqlx.SelectContext(ctx, r.ext, &members, query)
	if err != nil {
		return nil, err
	}

	return members, nil
}

func (r *memberRepository) ListExpired(ctx context.Context, asOf time.Time) ([]*domain.Member, error) {
	query := `
		SELECT id, name, email, total_debt, membership_expiry, created_at, updated_at
		FROM members
		WHERE membership_expiry < $1
		ORDER BY membership_expiry
	`

	var members []*domain.Member
	err := sqlx.SelectContext(ctx, r.ext, &members, query, asOf)
	if err != nil {
		return nil, err
	}

	return members, nil
}
