package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/toolbay/rental-engine/internal/domain"
)

// RentalRepository defines the interface for rental data operations
type RentalRepository interface {
	// Create creates a new rental
	Create(ctx context.Context, rental *domain.Rental) error

	// GetByID retrieves a rental by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Rental, error)

	// Update updates a rental
	Update(ctx context.Context, rental *domain.Rental) error

	// ListOccupyingByTool retrieves the pending and active rentals of a tool
	ListOccupyingByTool(ctx context.Context, toolID uuid.UUID) ([]*domain.Rental, error)

	// ListByStatus retrieves rentals in the given status, oldest first
	ListByStatus(ctx context.Context, status string) ([]*domain.Rental, error)

	// ListHistory retrieves rentals matching the filter, newest first
	ListHistory(ctx context.Context, filter domain.RentalHistoryFilter) ([]*domain.Rental, error)

	// ListActiveEndedBefore retrieves active rentals whose end date passed
	ListActiveEndedBefore(ctx context.Context, date time.Time) ([]*domain.Rental, error)
}

// ToolRepository defines the interface for tool data operations
type ToolRepository interface {
	// Create creates a new tool
	Create(ctx context.Context, tool *domain.Tool) error

	// GetByID retrieves a tool by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Tool, error)

	// Update updates a tool
	Update(ctx context.Context, tool *domain.Tool) error

	// List retrieves all tools
	List(ctx context.Context) ([]*domain.Tool, error)

	// ListByStatus retrieves tools in the given status
	ListByStatus(ctx context.Context, status string) ([]*domain.Tool, error)

	// AppendConditionEntry appends an entry to a tool's condition history
	AppendConditionEntry(ctx context.Context, entry *domain.ToolConditionEntry) error

	// ListConditionLog retrieves a tool's condition history, newest first
	ListConditionLog(ctx context.Context, toolID uuid.UUID) ([]*domain.ToolConditionEntry, error)
}

// MemberRepository defines the interface for member data operations
type MemberRepository interface {
	// Create creates a new member
	Create(ctx context.Context, member *domain.Member) error

	// GetByID retrieves a member by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error)

	// Update updates a member
	Update(ctx context.Context, member *domain.Member) error

	// List retrieves all members
	List(ctx context.Context) ([]*domain.Member, error)

	// ListExpired retrieves members whose membership expired before the date
	ListExpired(ctx context.Context, asOf time.Time) ([]*domain.Member, error)
}

// TransactionRepository defines the interface for ledger entry operations.
// Entries are append-only: there is no update or delete, only MarkChargesPaid
// which flips the status of charge-type rows.
type TransactionRepository interface {
	// Create appends a new ledger entry
	Create(ctx context.Context, tx *domain.Transaction) error

	// GetByID retrieves a ledger entry by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)

	// ListByMember retrieves all entries of a member, newest first
	ListByMember(ctx context.Context, memberID uuid.UUID) ([]*domain.Transaction, error)

	// MarkChargesPaid marks the given charge entries of a member as paid and
	// returns how many rows were affected
	MarkChargesPaid(ctx context.Context, memberID uuid.UUID, ids []uuid.UUID) (int64, error)
}
