package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/toolbay/rental-engine/internal/domain"
)

type transactionRepository struct {
	ext sqlx.ExtContext
}

// NewTransactionRepository creates a ledger entry repository bound to the given handle
func NewTransactionRepository(ext sqlx.ExtContext) TransactionRepository {
	return &transactionRepository{ext: ext}
}

func (r *transactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	query := `
		INSERT INTO transactions (id, member_id, rental_id, amount, type, method, date, description, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.ext.ExecContext(ctx, query,
		tx.ID,
		tx.MemberID,
		tx.RentalID,
		tx.Amount,
		tx.Type,
		tx.Method,
		tx.Date,
		tx.Description,
		tx.Status,
		tx.CreatedAt,
	)

	return err
}

func (r *transactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	query := `
		SELECT id, member_id, rental_id, amount, type, method, date, description, status, created_at
		FROM transactions
		WHERE id = $1
	`

	var tx domain.Transaction
	err := sqlx.GetContext(ctx, r.ext, &tx, query, id)
	if err != nil {
		return nil, err
	}

	return &tx, nil
}

func (r *transactionRepository) ListByMember(ctx context.Context, memberID uuid.UUID) ([]*domain.Transaction, error) {
	query := `
		SELECT id, member_id, rental_id, amount, type, method, date, description, status, created_at
		FROM transactions
		WHERE member_id = $1
		ORDER BY date DESC, created_at DESC
	`

	var txs []*domain.Transaction
	err := sqlx.SelectContext(ctx, r.ext, &txs, query, memberID)
	if err != nil {
		return nil, err
	}

	return txs, nil
}

func (r *transactionRepository) MarkChargesPaid(ctx context.Context, memberID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	// Only charge rows can be flipped; amounts are never touched.
	query := `
		UPDATE transactions
		SET status = $1
		WHERE member_id = $2 AND id = ANY($3) AND type != $4 AND amount > 0
	`

	strIDs := make([]string, 0, len(ids))
	for _, id := range ids {
		strIDs = append(strIDs, id.String())
	}

	res, err := r.ext.ExecContext(ctx, query,
		domain.TransactionStatusPaid,
		memberID,
		pq.Array(strIDs),
		domain.TransactionTypePayment,
	)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
