package service_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/toolbay/rental-engine/internal/domain"
	"github.com/toolbay/rental-engine/internal/service"
	customError "github.com/toolbay/rental-engine/pkg/errors"
	"github.com/toolbay/rental-engine/tests/mocks"
)

func testRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func newLedgerService(store *mocks.MockStore) *service.LedgerService {
	return service.NewLedgerService(store, nil, testConfig())
}

func TestCharge_Success(t *testing.T) {
	store := mocks.NewMockStore()
	svc := newLedgerService(store)

	member := testMember()
	member.TotalDebt = decimal.RequireFromString("10.00")

	var created *domain.Transaction
	store.Members.On("GetByID", mock.Anything, member.ID).Return(member, nil)
	store.Transactions.On("Create", mock.Anything, mock.AnythingOfType("*domain.Transaction")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*domain.Transaction)
		}).Return(nil)
	store.Members.On("Update", mock.Anything, member).Return(nil)

	amount := decimal.RequireFromString("25.50")
	tx, err := svc.Charge(context.Background(), member.ID, amount, domain.TransactionTypeMembershipFee, "Membership fee 2025", nil)
	require.NoError(t, err)

	assert.True(t, member.TotalDebt.Equal(decimal.RequireFromString("35.50")), "got %s", member.TotalDebt)
	assert.False(t, member.UpdatedAt.IsZero())
	require.NotNil(t, created)
	assert.Equal(t, created, tx)
	assert.True(t, tx.Amount.Equal(amount))
	assert.Equal(t, domain.TransactionTypeMembershipFee, tx.Type)
	assert.Equal(t, domain.TransactionStatusPending, tx.Status)
	assert.True(t, tx.IsCharge())
	assert.Nil(t, tx.RentalID)
	assert.Equal(t, "Membership fee 2025", tx.Description)

	store.AssertExpectations(t)
}

func TestCharge_NonPositiveAmount(t *testing.T) {
	store := mocks.NewMockStore()
	svc := newLedgerService(store)

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
		tx, err := svc.Charge(context.Background(), uuid.New(), amount, domain.TransactionTypeRental, "", nil)
		require.Error(t, err)
		assert.Nil(t, tx)
		assert.Equal(t, customError.ErrCodeValidation, customError.CodeOf(err))
	}

	store.Transactions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCharge_MemberNotFound(t *testing.T) {
	store := mocks.NewMockStore()
	svc := newLedgerService(store)

	memberID := uuid.New()
	store.Members.On("GetByID", mock.Anything, memberID).Return(nil, sql.ErrNoRows)

	tx, err := svc.Charge(context.Background(), memberID, decimal.NewFromInt(10), domain.TransactionTypeRental, "", nil)
	require.Error(t, err)
	assert.Nil(t, tx)
	assert.ErrorIs(t, err, customError.ErrMemberNotFound)
}

func TestApplyPayment_ReducesDebt(t *testing.T) {
	store := mocks.NewMockStore()
	svc := newLedgerService(store)

	member := testMember()
	member.TotalDebt = decimal.RequireFromString("100.00")

	var payment *domain.Transaction
	store.Members.On("GetByID", mock.Anything, member.ID).Return(member, nil)
	store.Transactions.On("Create", mock.Anything, mock.AnythingOfType("*domain.Transaction")).
		Run(func(args mock.Arguments) {
			payment = args.Get(1).(*domain.Transaction)
		}).Return(nil)
	store.Members.On("Update", mock.Anything, member).Return(nil)

	tx, err := svc.ApplyPayment(context.Background(), member.ID, decimal.RequireFromString("40.00"), "cash", nil)
	require.NoError(t, err)

	assert.True(t, member.TotalDebt.Equal(decimal.RequireFromString("60.00")), "got %s", member.TotalDebt)
	require.NotNil(t, payment)
	assert.Equal(t, payment, tx)
	assert.True(t, tx.Amount.Equal(decimal.RequireFromString("-40.00")), "got %s", tx.Amount)
	assert.Equal(t, domain.TransactionTypePayment, tx.Type)
	assert.Equal(t, domain.TransactionStatusPaid, tx.Status)
	assert.False(t, tx.IsCharge())
	require.NotNil(t, tx.Method)
	assert.Equal(t, "cash", *tx.Method)

	// No charge selection, so nothing is marked paid.
	store.Transactions.AssertNotCalled(t, "MarkChargesPaid", mock.Anything, mock.Anything, mock.Anything)
	store.AssertExpectations(t)
}

func TestApplyPayment_ClampsDebtAtZero(t *testing.T) {
	store := mocks.NewMockStore()
	svc := newLedgerService(store)

	member := testMember()
	member.TotalDebt = decimal.RequireFromString("30.00")

	store.Members.On("GetByID", mock.Anything, member.ID).Return(member, nil)
	store.Transactions.On("Create", mock.Anything, mock.AnythingOfType("*domain.Transaction")).Return(nil)
	store.Members.On("Update", mock.Anything, member).Return(nil)

	tx, err := svc.ApplyPayment(context.Background(), member.ID, decimal.RequireFromString("100.00"), "transfer", nil)
	require.NoError(t, err)

	assert.True(t, member.TotalDebt.IsZero(), "got %s", member.TotalDebt)
	// The overpayment is still recorded at its full amount.
	assert.True(t, tx.Amount.Equal(decimal.RequireFromString("-100.00")))
}

func TestApplyPayment_MarksSelectedCharges(t *testing.T) {
	store := mocks.NewMockStore()
	svc := newLedgerService(store)

	member := testMember()
	member.TotalDebt = decimal.RequireFromString("100.00")
	selected := []uuid.UUID{uuid.New(), uuid.New()}

	store.Members.On("GetByID", mock.Anything, member.ID).Return(member, nil)
	store.Transactions.On("Create", mock.Anything, mock.AnythingOfType("*domain.Transaction")).Return(nil)
	store.Members.On("Update", mock.Anything, member).Return(nil)
	store.Transactions.On("MarkChargesPaid", mock.Anything, member.ID, selected).Return(int64(2), nil)

	// The selection does not drive the decrement; only the paid amount does.
	_, err := svc.ApplyPayment(context.Background(), member.ID, decimal.RequireFromString("10.00"), "cash", selected)
	require.NoError(t, err)

	assert.True(t, member.TotalDebt.Equal(decimal.RequireFromString("90.00")), "got %s", member.TotalDebt)
	store.AssertExpectations(t)
}

func TestApplyPayment_RequiresMethod(t *testing.T) {
	store := mocks.NewMockStore()
	svc := newLedgerService(store)

	tx, err := svc.ApplyPayment(context.Background(), uuid.New(), decimal.NewFromInt(10), "", nil)
	require.Error(t, err)
	assert.Nil(t, tx)
	assert.Equal(t, customError.ErrCodeValidation, customError.CodeOf(err))
}

func TestApplyPayment_NonPositiveAmount(t *testing.T) {
	store := mocks.NewMockStore()
	svc := newLedgerService(store)

	tx, err := svc.ApplyPayment(context.Background(), uuid.New(), decimal.Zero, "cash", nil)
	require.Error(t, err)
	assert.Nil(t, tx)
	assert.Equal(t, customError.ErrCodeValidation, customError.CodeOf(err))
}

func TestChargeRepairCost_Success(t *testing.T) {
	store := mocks.NewMockStore()
	svc := newLedgerService(store)

	member := testMember()
	rental := &domain.Rental{
		ID:       uuid.New(),
		MemberID: member.ID,
		Status:   domain.RentalStatusCompleted,
	}

	var created *domain.Transaction
	store.Rentals.On("GetByID", mock.Anything, rental.ID).Return(rental, nil)
	store.Members.On("GetByID", mock.Anything, member.ID).Return(member, nil)
	store.Transactions.On("Create", mock.Anything, mock.AnythingOfType("*domain.Transaction")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*domain.Transaction)
		}).Return(nil)
	store.Members.On("Update", mock.Anything, member).Return(nil)

	amount := decimal.RequireFromString("15.00")
	tx, err := svc.ChargeRepairCost(context.Background(), member.ID, rental.ID, amount, "Broken handle")
	require.NoError(t, err)

	assert.True(t, member.TotalDebt.Equal(amount))
	require.NotNil(t, created)
	assert.Equal(t, domain.TransactionTypeRepairCost, tx.Type)
	require.NotNil(t, tx.RentalID)
	assert.Equal(t, rental.ID, *tx.RentalID)
	assert.Equal(t, "Broken handle", tx.Description)
}

func TestChargeRepairCost_RentalNotFound(t *testing.T) {
	store := mocks.NewMockStore()
	svc := newLedgerService(store)

	rentalID := uuid.New()
	store.Rentals.On("GetByID", mock.Anything, rentalID).Return(nil, sql.ErrNoRows)

	tx, err := svc.ChargeRepairCost(context.Background(), uuid.New(), rentalID, decimal.NewFromInt(15), "")
	require.Error(t, err)
	assert.Nil(t, tx)
	assert.ErrorIs(t, err, customError.ErrRentalNotFound)

	store.Transactions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGetBalance_ServedFromCache(t *testing.T) {
	mr, client := testRedis(t)
	store := mocks.NewMockStore()
	svc := service.NewLedgerService(store, client, testConfig())

	memberID := uuid.New()
	require.NoError(t, mr.Set("balance:"+memberID.String(), "12.34"))

	balance, err := svc.GetBalance(context.Background(), memberID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.RequireFromString("12.34")), "got %s", balance)

	store.Members.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestGetBalance_PopulatesCache(t *testing.T) {
	mr, client := testRedis(t)
	store := mocks.NewMockStore()
	svc := service.NewLedgerService(store, client, testConfig())

	member := testMember()
	member.TotalDebt = decimal.RequireFromString("42.00")
	store.Members.On("GetByID", mock.Anything, member.ID).Return(member, nil)

	balance, err := svc.GetBalance(context.Background(), member.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(member.TotalDebt))

	cached, err := mr.Get("balance:" + member.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "42", cached)
}

func TestCharge_DropsCachedBalance(t *testing.T) {
	mr, client := testRedis(t)
	store := mocks.NewMockStore()
	svc := service.NewLedgerService(store, client, testConfig())

	member := testMember()
	key := "balance:" + member.ID.String()
	require.NoError(t, mr.Set(key, "0"))

	store.Members.On("GetByID", mock.Anything, member.ID).Return(member, nil)
	store.Transactions.On("Create", mock.Anything, mock.AnythingOfType("*domain.Transaction")).Return(nil)
	store.Members.On("Update", mock.Anything, member).Return(nil)

	_, err := svc.Charge(context.Background(), member.ID, decimal.NewFromInt(25), domain.TransactionTypeRental, "", nil)
	require.NoError(t, err)

	assert.False(t, mr.Exists(key), "stale balance must be dropped after a charge")
}

func TestGetBalance(t *testing.T) {
	store := mocks.NewMockStore()
	svc := newLedgerService(store)

	member := testMember()
	member.TotalDebt = decimal.RequireFromString("42.00")
	store.Members.On("GetByID", mock.Anything, member.ID).Return(member, nil)

	balance, err := svc.GetBalance(context.Background(), member.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(member.TotalDebt))
}

func TestGetBalance_MemberNotFound(t *testing.T) {
	store := mocks.NewMockStore()
	svc := newLedgerService(store)

	memberID := uuid.New()
	store.Members.On("GetByID", mock.Anything, memberID).Return(nil, sql.ErrNoRows)

	_, err := svc.GetBalance(context.Background(), memberID)
	require.Error(t, err)
	assert.ErrorIs(t, err, customError.ErrMemberNotFound)
}

func TestListTransactions(t *testing.T) {
	store := mocks.NewMockStore()
	svc := newLedgerService(store)

	member := testMember()
	txs := []*domain.Transaction{
		{ID: uuid.New(), MemberID: member.ID, Type: domain.TransactionTypeRental},
		{ID: uuid.New(), MemberID: member.ID, Type: domain.TransactionTypePayment},
	}
	store.Members.On("GetByID", mock.Anything, member.ID).Return(member, nil)
	store.Transactions.On("ListByMember", mock.Anything, member.ID).Return(txs, nil)

	got, err := svc.ListTransactions(context.Background(), member.ID)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
