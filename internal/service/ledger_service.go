package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/toolbay/rental-engine/internal/config"
	"github.com/toolbay/rental-engine/internal/domain"
	"github.com/toolbay/rental-engine/internal/repository"
	customError "github.com/toolbay/rental-engine/pkg/errors"
)

// LedgerService maintains each member's outstanding balance as an append-only
// log of signed transactions. TotalDebt on the member row is a cached
// projection adjusted only here.
type LedgerService struct {
	store  repository.Store
	redis  *redis.Client
	config *config.Config
}

func NewLedgerService(store repository.Store, redisClient *redis.Client, cfg *config.Config) *LedgerService {
	return &LedgerService{
		store:  store,
		redis:  redisClient,
		config: cfg,
	}
}

// Charge appends a positive transaction and increases the member's debt.
// Idempotency is the caller's responsibility.
func (s *LedgerService) Charge(ctx context.Context, memberID uuid.UUID, amount decimal.Decimal, txType, description string, rentalID *uuid.UUID) (*domain.Transaction, error) {
	var tx *domain.Transaction
	err := s.store.WithinTx(ctx, func(r *repository.Repositories) error {
		var chargeErr error
		tx, chargeErr = s.ChargeInTx(ctx, r, memberID, amount, txType, description, rentalID)
		return chargeErr
	})
	if err != nil {
		return nil, err
	}

	s.InvalidateBalance(ctx, memberID)
	return tx, nil
}

// ChargeInTx appends a charge within an already open transactional scope.
// The rental lifecycle uses this to post charges atomically with its own
// rental and tool writes.
func (s *LedgerService) ChargeInTx(ctx context.Context, r *repository.Repositories, memberID uuid.UUID, amount decimal.Decimal, txType, description string, rentalID *uuid.UUID) (*domain.Transaction, error) {
	if !amount.IsPositive() {
		return nil, customError.WrapValidation("charge amount must be positive")
	}

	member, err := r.Members.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapMemberNotFound(memberID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	now := time.Now()
	tx := &domain.Transaction{
		ID:          uuid.New(),
		MemberID:    memberID,
		RentalID:    rentalID,
		Amount:      amount,
		Type:        txType,
		Date:        now,
		Description: description,
		Status:      domain.TransactionStatusPending,
		CreatedAt:   now,
	}

	if err := r.Transactions.Create(ctx, tx); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	member.TotalDebt = member.TotalDebt.Add(amount)
	member.UpdatedAt = now
	if err := r.Members.Update(ctx, member); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return tx, nil
}

// ApplyPayment appends a negative transaction of type payment and decreases
// the member's debt by the paid amount, clamped at zero. Selected charge
// transactions are marked paid; these marks are bookkeeping only, the debt
// decrement is driven solely by the payment amount.
func (s *LedgerService) ApplyPayment(ctx context.Context, memberID uuid.UUID, amount decimal.Decimal, method string, selectedTransactionIDs []uuid.UUID) (*domain.Transaction, error) {
	if !amount.IsPositive() {
		return nil, customError.WrapValidation("payment amount must be positive")
	}
	if method == "" {
		return nil, customError.WrapValidation("payment method is required")
	}

	var payment *domain.Transaction
	err := s.store.WithinTx(ctx, func(r *repository.Repositories) error {
		member, err := r.Members.GetByID(ctx, memberID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return customError.WrapMemberNotFound(memberID.String())
			}
			return customError.WrapDatabaseError(err)
		}

		now := time.Now()
		payment = &domain.Transaction{
			ID:          uuid.New(),
			MemberID:    memberID,
			Amount:      amount.Neg(),
			Type:        domain.TransactionTypePayment,
			Method:      &method,
			Date:        now,
			Description: fmt.Sprintf("Payment received (%s)", method),
			Status:      domain.TransactionStatusPaid,
			CreatedAt:   now,
		}

		if err := r.Transactions.Create(ctx, payment); err != nil {
			return customError.WrapDatabaseError(err)
		}

		newDebt := member.TotalDebt.Sub(amount)
		if newDebt.IsNegative() {
			newDebt = decimal.Zero
		}
		member.TotalDebt = newDebt
		member.UpdatedAt = now
		if err := r.Members.Update(ctx, member); err != nil {
			return customError.WrapDatabaseError(err)
		}

		if len(selectedTransactionIDs) > 0 {
			if _, err := r.Transactions.MarkChargesPaid(ctx, memberID, selectedTransactionIDs); err != nil {
				return customError.WrapDatabaseError(err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.InvalidateBalance(ctx, memberID)
	return payment, nil
}

// ChargeRepairCost posts a repair charge against a member for damage found
// after a rental. The rental must exist; the charge references it.
func (s *LedgerService) ChargeRepairCost(ctx context.Context, memberID, rentalID uuid.UUID, amount decimal.Decimal, description string) (*domain.Transaction, error) {
	var tx *domain.Transaction
	err := s.store.WithinTx(ctx, func(r *repository.Repositories) error {
		if _, err := r.Rentals.GetByID(ctx, rentalID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return customError.WrapRentalNotFound(rentalID.String())
			}
			return customError.WrapDatabaseError(err)
		}

		if description == "" {
			description = "Repair cost"
		}

		var chargeErr error
		tx, chargeErr = s.ChargeInTx(ctx, r, memberID, amount, domain.TransactionTypeRepairCost, description, &rentalID)
		return chargeErr
	})
	if err != nil {
		return nil, err
	}

	s.InvalidateBalance(ctx, memberID)
	return tx, nil
}

// GetBalance returns the member's outstanding debt, served from Redis when a
// fresh value is cached.
func (s *LedgerService) GetBalance(ctx context.Context, memberID uuid.UUID) (decimal.Decimal, error) {
	key := balanceKey(memberID)

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, key).Result(); err == nil {
			if balance, parseErr := decimal.NewFromString(cached); parseErr == nil {
				return balance, nil
			}
		}
	}

	member, err := s.store.Repos().Members.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, customError.WrapMemberNotFound(memberID.String())
		}
		return decimal.Zero, customError.WrapDatabaseError(err)
	}

	if s.redis != nil {
		if err := s.redis.Set(ctx, key, member.TotalDebt.String(), s.config.Business.BalanceCacheTTL).Err(); err != nil {
			log.Printf("caching balance for member %s: %v", memberID, customError.WrapCacheError(err))
		}
	}

	return member.TotalDebt, nil
}

// ListTransactions returns a member's ledger history, newest first.
func (s *LedgerService) ListTransactions(ctx context.Context, memberID uuid.UUID) ([]*domain.Transaction, error) {
	if _, err := s.store.Repos().Members.GetByID(ctx, memberID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapMemberNotFound(memberID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	txs, err := s.store.Repos().Transactions.ListByMember(ctx, memberID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return txs, nil
}

// InvalidateBalance drops the cached balance for a member. Callers invoke it
// after a ledger-touching transaction commits; cache failures are logged and
// not returned because the next read repopulates the key.
func (s *LedgerService) InvalidateBalance(ctx context.Context, memberID uuid.UUID) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, balanceKey(memberID)).Err(); err != nil {
		log.Printf("dropping cached balance for member %s: %v", memberID, customError.WrapCacheError(err))
	}
}

func balanceKey(memberID uuid.UUID) string {
	return "balance:" + memberID.String()
}
