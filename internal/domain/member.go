package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Member of the association. TotalDebt is a cached projection of the ledger;
// it is adjusted only by ledger operations and never goes negative.
type Member struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	Name             string          `json:"name" db:"name"`
	Email            string          `json:"email" db:"email"`
	TotalDebt        decimal.Decimal `json:"total_debt" db:"total_debt"`
	MembershipExpiry time.Time       `json:"membership_expiry" db:"membership_expiry"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`
}

type CreateMemberRequest struct {
	Name             string `json:"name" validate:"required"`
	Email            string `json:"email" validate:"required,email"`
	MembershipExpiry string `json:"membership_expiry" validate:"required,datetime=2006-01-02"`
}

type BalanceResponse struct {
	MemberID  uuid.UUID       `json:"member_id"`
	TotalDebt decimal.Decimal `json:"total_debt"`
}
