package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/toolbay/rental-engine/internal/domain"
	"github.com/toolbay/rental-engine/internal/repository"
)

type MockRentalRepository struct {
	mock.Mock
}

func (m *MockRentalRepository) Create(ctx context.Context, rental *domain.Rental) error {
	args := m.Called(ctx, rental)
	return args.Error(0)
}

func (m *MockRentalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}

func (m *MockRentalRepository) Update(ctx context.Context, rental *domain.Rental) error {
	args := m.Called(ctx, rental)
	return args.Error(0)
}

func (m *MockRentalRepository) ListOccupyingByTool(ctx context.Context, toolID uuid.UUID) ([]*domain.Rental, error) {
	args := m.Called(ctx, toolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Rental), args.Error(1)
}

func (m *MockRentalRepository) ListByStatus(ctx context.Context, status string) ([]*domain.Rental, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Rental), args.Error(1)
}

func (m *MockRentalRepository) ListHistory(ctx context.Context, filter domain.RentalHistoryFilter) ([]*domain.Rental, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Rental), args.Error(1)
}

func (m *MockRentalRepository) ListActiveEndedBefore(ctx context.Context, date time.Time) ([]*domain.Rental, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Rental), args.Error(1)
}

type MockToolRepository struct {
	mock.Mock
}

func (m *MockToolRepository) Create(ctx context.Context, tool *domain.Tool) error {
	args := m.Called(ctx, tool)
	return args.Error(0)
}

func (m *MockToolRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tool, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tool), args.Error(1)
}

func (m *MockToolRepository) Update(ctx context.Context, tool *domain.Tool) error {
	args := m.Called(ctx, tool)
	return args.Error(0)
}

func (m *MockToolRepository) List(ctx context.Context) ([]*domain.Tool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Tool), args.Error(1)
}

func (m *MockToolRepository) ListByStatus(ctx context.Context, status string) ([]*domain.Tool, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Tool), args.Error(1)
}

func (m *MockToolRepository) AppendConditionEntry(ctx context.Context, entry *domain.ToolConditionEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockToolRepository) ListConditionLog(ctx context.Context, toolID uuid.UUID) ([]*domain.ToolConditionEntry, error) {
	args := m.Called(ctx, toolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ToolConditionEntry), args.Error(1)
}

type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) Create(ctx context.Context, member *domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberRepository) Update(ctx context.Context, member *domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberRepository) List(ctx context.Context) ([]*domain.Member, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Member), args.Error(1)
}

func (m *MockMemberRepository) ListExpired(ctx context.Context, asOf time.Time) ([]*domain.Member, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Member), args.Error(1)
}

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListByMember(ctx context.Context, memberID uuid.UUID) ([]*domain.Transaction, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) MarkChargesPaid(ctx context.Context, memberID uuid.UUID, ids []uuid.UUID) (int64, error) {
	args := m.Called(ctx, memberID, ids)
	return args.Get(0).(int64), args.Error(1)
}

// MockStore bundles the mock repositories behind the Store interface.
// WithinTx runs the callback directly; there is no real transaction, so a
// returned error simply propagates without rollback semantics.
type MockStore struct {
	Rentals      *MockRentalRepository
	Tools        *MockToolRepository
	Members      *MockMemberRepository
	Transactions *MockTransactionRepository
}

func NewMockStore() *MockStore {
	return &MockStore{
		Rentals:      &MockRentalRepository{},
		Tools:        &MockToolRepository{},
		Members:      &MockMemberRepository{},
		Transactions: &MockTransactionRepository{},
	}
}

func (s *MockStore) bundle() *repository.Repositories {
	return &repository.Repositories{
		Rentals:      s.Rentals,
		Tools:        s.Tools,
		Members:      s.Members,
		Transactions: s.Transactions,
	}
}

func (s *MockStore) Repos() *repository.Repositories {
	return s.bundle()
}

func (s *MockStore) WithinTx(ctx context.Context, fn func(r *repository.Repositories) error) error {
	return fn(s.bundle())
}

// AssertExpectations asserts expectations on all mock repositories
func (s *MockStore) AssertExpectations(t mock.TestingT) {
	s.Rentals.AssertExpectations(t)
	s.Tools.AssertExpectations(t)
	s.Members.AssertExpectations(t)
	s.Transactions.AssertExpectations(t)
}
