package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	RentalStatusPending   = "pending"
	RentalStatusActive    = "active"
	RentalStatusRejected  = "rejected"
	RentalStatusCompleted = "completed"
)

// IsTerminalRentalStatus reports whether a rental may never leave the status.
func IsTerminalRentalStatus(status string) bool {
	return status == RentalStatusRejected || status == RentalStatusCompleted
}

// Rental represents one tool borrowed by one member for an inclusive date range.
type Rental struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	MemberID      uuid.UUID       `json:"member_id" db:"member_id"`
	ToolID        uuid.UUID       `json:"tool_id" db:"tool_id"`
	StartDate     time.Time       `json:"start_date" db:"start_date"`
	EndDate       time.Time       `json:"end_date" db:"end_date"`
	Status        string          `json:"status" db:"status"`
	TotalPrice    decimal.Decimal `json:"total_price" db:"total_price"`
	ReturnComment *string         `json:"return_comment,omitempty" db:"return_comment"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// DTOs for requests and responses

type RequestRentalRequest struct {
	MemberID  string `json:"member_id" validate:"required,uuid4"`
	ToolID    string `json:"tool_id" validate:"required,uuid4"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

type BookDirectRequest struct {
	MemberID  string           `json:"member_id" validate:"required,uuid4"`
	ToolID    string           `json:"tool_id" validate:"required,uuid4"`
	StartDate string           `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string           `json:"end_date" validate:"required,datetime=2006-01-02"`
	Price     *decimal.Decimal `json:"price,omitempty"`
}

type ApproveRentalRequest struct {
	FinalPrice decimal.Decimal `json:"final_price" validate:"required"`
}

type CompleteRentalRequest struct {
	ReturnComment string `json:"return_comment"`
}

// RentalHistoryFilter narrows ListHistory results. Nil fields are ignored.
type RentalHistoryFilter struct {
	MemberID *uuid.UUID
	ToolID   *uuid.UUID
	Status   *string
	From     *time.Time
	To       *time.Time
}
