package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TransactionTypeRental        = "rental"
	TransactionTypeMembershipFee = "membershipFee"
	TransactionTypeRepairCost    = "repairCost"
	TransactionTypePayment       = "payment"
)

// Transaction status applies to charge-type entries only; payments are
// written as paid.
const (
	TransactionStatusPending = "pending"
	TransactionStatusPaid    = "paid"
)

// Transaction is one append-only ledger entry. Amount is signed: positive for
// charges, negative for payment credits. Amounts are never mutated after the
// row is written; a payment may only flip prior charges to paid.
type Transaction struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	MemberID    uuid.UUID       `json:"member_id" db:"member_id"`
	RentalID    *uuid.UUID      `json:"rental_id,omitempty" db:"rental_id"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	Type        string          `json:"type" db:"type"`
	Method      *string         `json:"method,omitempty" db:"method"`
	Date        time.Time       `json:"date" db:"date"`
	Description string          `json:"description" db:"description"`
	Status      string          `json:"status" db:"status"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// IsCharge reports whether the entry increases a member's debt.
func (t *Transaction) IsCharge() bool {
	return t.Type != TransactionTypePayment && t.Amount.IsPositive()
}

type RecordPaymentRequest struct {
	MemberID       string          `json:"member_id" validate:"required,uuid4"`
	Amount         decimal.Decimal `json:"amount" validate:"required"`
	Method         string          `json:"method" validate:"required"`
	TransactionIDs []string        `json:"transaction_ids,omitempty" validate:"omitempty,dive,uuid4"`
}

type RepairChargeRequest struct {
	MemberID    string          `json:"member_id" validate:"required,uuid4"`
	RentalID    string          `json:"rental_id" validate:"required,uuid4"`
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Description string          `json:"description"`
}

type TransactionHistoryResponse struct {
	MemberID     uuid.UUID      `json:"member_id"`
	Transactions []*Transaction `json:"transactions"`
}
