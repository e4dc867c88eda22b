package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/toolbay/rental-engine/internal/config"
	"github.com/toolbay/rental-engine/internal/domain"
	"github.com/toolbay/rental-engine/internal/repository"
	customError "github.com/toolbay/rental-engine/pkg/errors"
	"github.com/toolbay/rental-engine/pkg/utils"
)

// RentalService owns the rental lifecycle: pending -> active -> completed,
// pending -> rejected. Each transition applies its rental, tool and ledger
// mutations inside one store transaction, and admission is serialized per
// tool so two overlapping bookings cannot both pass the availability check.
type RentalService struct {
	store  repository.Store
	ledger *LedgerService
	config *config.Config
	locks  *toolLockRegistry
}

func NewRentalService(store repository.Store, ledger *LedgerService, cfg *config.Config) *RentalService {
	return &RentalService{
		store:  store,
		ledger: ledger,
		config: cfg,
		locks:  newToolLockRegistry(),
	}
}

// RequestRental creates a pending rental on behalf of a member. No charge is
// posted and the tool is not touched until an admin approves the request.
func (s *RentalService) RequestRental(ctx context.Context, memberID, toolID uuid.UUID, startDate, endDate time.Time) (*domain.Rental, error) {
	return s.createRental(ctx, memberID, toolID, startDate, endDate, nil, false)
}

// BookDirect creates an active rental, skipping approval. The tool is marked
// rented and the member is charged immediately. When no manual price is
// given the price is prorated from the tool's weekly rate.
func (s *RentalService) BookDirect(ctx context.Context, memberID, toolID uuid.UUID, startDate, endDate time.Time, manualPrice *decimal.Decimal) (*domain.Rental, error) {
	return s.createRental(ctx, memberID, toolID, startDate, endDate, manualPrice, true)
}

func (s *RentalService) createRental(ctx context.Context, memberID, toolID uuid.UUID, startDate, endDate time.Time, manualPrice *decimal.Decimal, direct bool) (*domain.Rental, error) {
	startDate = utils.DateOnly(startDate)
	endDate = utils.DateOnly(endDate)

	boundary := s.config.GetBoundaryWeekday()
	if startDate.Weekday() != boundary || endDate.Weekday() != boundary {
		return nil, customError.WrapValidation(fmt.Sprintf("rental dates must fall on a %s", boundary))
	}
	if !endDate.After(startDate) {
		return nil, customError.WrapValidation("end date must be after start date")
	}
	if manualPrice != nil && !manualPrice.IsPositive() {
		return nil, customError.WrapValidation("price must be positive")
	}

	unlock := s.locks.Lock(toolID)
	defer unlock()

	var rental *domain.Rental
	err := s.store.WithinTx(ctx, func(r *repository.Repositories) error {
		tool, err := r.Tools.GetByID(ctx, toolID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return customError.WrapToolNotFound(toolID.String())
			}
			return customError.WrapDatabaseError(err)
		}

		if _, err := r.Members.GetByID(ctx, memberID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return customError.WrapMemberNotFound(memberID.String())
			}
			return customError.WrapDatabaseError(err)
		}

		if IsMaintenanceBlocked(tool, time.Now()) {
			return customError.WrapMaintenanceBlocked(toolID.String(), tool.MaintenanceImportance)
		}

		existing, err := r.Rentals.ListOccupyingByTool(ctx, toolID)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}
		if !IsAvailable(toolID, startDate, endDate, existing) {
			return customError.WrapBookingConflict(toolID.String())
		}

		if direct && tool.Status != domain.ToolStatusAvailable {
			return customError.WrapToolNotAvailable(toolID.String(), tool.Status)
		}

		price := decimal.Zero
		if manualPrice != nil {
			price = *manualPrice
		} else {
			price = utils.ProratePrice(tool.WeeklyPrice, utils.DaysBetween(startDate, endDate))
		}

		status := domain.RentalStatusPending
		if direct {
			status = domain.RentalStatusActive
		}

		now := time.Now()
		rental = &domain.Rental{
			ID:         uuid.New(),
			MemberID:   memberID,
			ToolID:     toolID,
			StartDate:  startDate,
			EndDate:    endDate,
			Status:     status,
			TotalPrice: price,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		if err := r.Rentals.Create(ctx, rental); err != nil {
			return customError.WrapDatabaseError(err)
		}

		if direct {
			tool.Status = domain.ToolStatusRented
			tool.UpdatedAt = now
			if err := r.Tools.Update(ctx, tool); err != nil {
				return customError.WrapDatabaseError(err)
			}

			description := fmt.Sprintf("Rental of %s (%s to %s)", tool.Name,
				startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))
			if _, err := s.ledger.ChargeInTx(ctx, r, memberID, price, domain.TransactionTypeRental, description, &rental.ID); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if direct {
		s.ledger.InvalidateBalance(ctx, memberID)
	}
	return rental, nil
}

// ApproveRental activates a pending rental at the given final price, marks
// the tool rented and charges the member. The tool's status is re-checked
// here because time has passed since the request; losing that race is a
// conflict, not a state transition error.
func (s *RentalService) ApproveRental(ctx context.Context, rentalID uuid.UUID, finalPrice decimal.Decimal) (*domain.Rental, error) {
	if !finalPrice.IsPositive() {
		return nil, customError.WrapValidation("final price must be positive")
	}

	existing, err := s.getRental(ctx, rentalID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(existing.ToolID)
	defer unlock()

	var rental *domain.Rental
	err = s.store.WithinTx(ctx, func(r *repository.Repositories) error {
		// Re-read under the lock; the pre-lock copy may be stale.
		rental, err = r.Rentals.GetByID(ctx, rentalID)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}

		if rental.Status != domain.RentalStatusPending {
			return customError.WrapStateTransition(rental.Status, "approve")
		}

		tool, err := r.Tools.GetByID(ctx, rental.ToolID)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}
		if tool.Status != domain.ToolStatusAvailable {
			return customError.WrapToolNotAvailable(tool.ID.String(), tool.Status)
		}

		now := time.Now()
		rental.Status = domain.RentalStatusActive
		rental.TotalPrice = finalPrice
		rental.UpdatedAt = now
		if err := r.Rentals.Update(ctx, rental); err != nil {
			return customError.WrapDatabaseError(err)
		}

		tool.Status = domain.ToolStatusRented
		tool.UpdatedAt = now
		if err := r.Tools.Update(ctx, tool); err != nil {
			return customError.WrapDatabaseError(err)
		}

		description := fmt.Sprintf("Rental of %s (%s to %s)", tool.Name,
			rental.StartDate.Format("2006-01-02"), rental.EndDate.Format("2006-01-02"))
		if _, err := s.ledger.ChargeInTx(ctx, r, rental.MemberID, finalPrice, domain.TransactionTypeRental, description, &rental.ID); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.ledger.InvalidateBalance(ctx, rental.MemberID)
	return rental, nil
}

// RejectRental moves a pending rental to rejected. The tool and the ledger
// are untouched.
func (s *RentalService) RejectRental(ctx context.Context, rentalID uuid.UUID) (*domain.Rental, error) {
	var rental *domain.Rental
	err := s.store.WithinTx(ctx, func(r *repository.Repositories) error {
		var err error
		rental, err = r.Rentals.GetByID(ctx, rentalID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return customError.WrapRentalNotFound(rentalID.String())
			}
			return customError.WrapDatabaseError(err)
		}

		if rental.Status != domain.RentalStatusPending {
			return customError.WrapStateTransition(rental.Status, "reject")
		}

		rental.Status = domain.RentalStatusRejected
		rental.UpdatedAt = time.Now()
		if err := r.Rentals.Update(ctx, rental); err != nil {
			return customError.WrapDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rental, nil
}

// CompleteRental records the return of an active rental: the rental is
// completed with its end date set to the actual return day, the tool becomes
// available again and a condition entry is appended to the tool's history.
// The charge posted at creation or approval time stands; returns do not
// refund.
func (s *RentalService) CompleteRental(ctx context.Context, rentalID uuid.UUID, returnComment string) (*domain.Rental, error) {
	existing, err := s.getRental(ctx, rentalID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(existing.ToolID)
	defer unlock()

	var rental *domain.Rental
	err = s.store.WithinTx(ctx, func(r *repository.Repositories) error {
		rental, err = r.Rentals.GetByID(ctx, rentalID)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}

		if rental.Status != domain.RentalStatusActive {
			return customError.WrapStateTransition(rental.Status, "complete")
		}

		tool, err := r.Tools.GetByID(ctx, rental.ToolID)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}

		now := time.Now()
		rental.Status = domain.RentalStatusCompleted
		rental.EndDate = utils.DateOnly(now)
		if returnComment != "" {
			rental.ReturnComment = &returnComment
		}
		rental.UpdatedAt = now
		if err := r.Rentals.Update(ctx, rental); err != nil {
			return customError.WrapDatabaseError(err)
		}

		tool.Status = domain.ToolStatusAvailable
		tool.UpdatedAt = now
		if err := r.Tools.Update(ctx, tool); err != nil {
			return customError.WrapDatabaseError(err)
		}

		entry := &domain.ToolConditionEntry{
			ID:        uuid.New(),
			ToolID:    tool.ID,
			RentalID:  &rental.ID,
			Comment:   returnComment,
			Status:    tool.Status,
			CreatedAt: now,
		}
		if err := r.Tools.AppendConditionEntry(ctx, entry); err != nil {
			return customError.WrapDatabaseError(err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return rental, nil
}

// GetRental returns a single rental.
func (s *RentalService) GetRental(ctx context.Context, rentalID uuid.UUID) (*domain.Rental, error) {
	return s.getRental(ctx, rentalID)
}

// ListPending returns rentals awaiting approval, oldest first.
func (s *RentalService) ListPending(ctx context.Context) ([]*domain.Rental, error) {
	rentals, err := s.store.Repos().Rentals.ListByStatus(ctx, domain.RentalStatusPending)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return rentals, nil
}

// ListActive returns currently running rentals, oldest first.
func (s *RentalService) ListActive(ctx context.Context) ([]*domain.Rental, error) {
	rentals, err := s.store.Repos().Rentals.ListByStatus(ctx, domain.RentalStatusActive)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return rentals, nil
}

// ListHistory returns rentals matching the filter, newest first.
func (s *RentalService) ListHistory(ctx context.Context, filter domain.RentalHistoryFilter) ([]*domain.Rental, error) {
	rentals, err := s.store.Repos().Rentals.ListHistory(ctx, filter)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return rentals, nil
}

func (s *RentalService) getRental(ctx context.Context, rentalID uuid.UUID) (*domain.Rental, error) {
	rental, err := s.store.Repos().Rentals.GetByID(ctx, rentalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapRentalNotFound(rentalID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return rental, nil
}
