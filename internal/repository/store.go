package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Repositories bundles all repositories bound to the same database handle,
// either the connection pool or one open transaction.
type Repositories struct {
	Rentals      RentalRepository
	Tools        ToolRepository
	Members      MemberRepository
	Transactions TransactionRepository
}

// Store gives access to the repositories and to a transactional scope.
// Every lifecycle transition runs inside WithinTx so that rental, tool,
// member and ledger writes commit or fail as one unit.
type Store interface {
	// Repos returns repositories bound to the connection pool
	Repos() *Repositories

	// WithinTx runs fn with repositories bound to a single transaction.
	// The transaction is committed when fn returns nil and rolled back
	// otherwise.
	WithinTx(ctx context.Context, fn func(r *Repositories) error) error
}

type sqlStore struct {
	db *sqlx.DB
}

// NewStore creates a Store backed by a Postgres connection pool
func NewStore(db *sqlx.DB) Store {
	return &sqlStore{db: db}
}

func newRepositories(ext sqlx.ExtContext) *Repositories {
	return &Repositories{
		Rentals:      &rentalRepository{ext: ext},
		Tools:        &toolRepository{ext: ext},
		Members:      &memberRepository{ext: ext},
		Transactions: &transactionRepository{ext: ext},
	}
}

func (s *sqlStore) Repos() *Repositories {
	return newRepositories(s.db)
}

func (s *sqlStore) WithinTx(ctx context.Context, fn func(r *Repositories) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(newRepositories(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit failed: %w", err)
	}
	return nil
}
