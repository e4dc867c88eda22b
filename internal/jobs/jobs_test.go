package jobs_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/toolbay/rental-engine/internal/config"
	"github.com/toolbay/rental-engine/internal/domain"
	"github.com/toolbay/rental-engine/internal/jobs"
	"github.com/toolbay/rental-engine/internal/service"
	"github.com/toolbay/rental-engine/tests/mocks"
)

func newRunner(store *mocks.MockStore) *jobs.Runner {
	cfg := &config.Config{
		Business: config.BusinessConfig{
			BoundaryWeekday: "Friday",
			MembershipFee:   "50.00",
		},
	}
	ledger := service.NewLedgerService(store, nil, cfg)
	return jobs.NewRunner(store, ledger, cfg)
}

func TestFlagMaintenanceDueTools(t *testing.T) {
	store := mocks.NewMockStore()
	runner := newRunner(store)

	// Never maintained, high importance: always overdue.
	overdue := &domain.Tool{
		ID:                        uuid.New(),
		Status:                    domain.ToolStatusAvailable,
		MaintenanceImportance:     domain.MaintenanceImportanceHigh,
		MaintenanceIntervalMonths: 6,
	}
	fine := &domain.Tool{
		ID:                    uuid.New(),
		Status:                domain.ToolStatusAvailable,
		MaintenanceImportance: domain.MaintenanceImportanceLow,
	}

	store.Tools.On("ListByStatus", mock.Anything, domain.ToolStatusAvailable).
		Return([]*domain.Tool{overdue, fine}, nil)
	store.Tools.On("Update", mock.Anything, overdue).Return(nil)

	err := runner.FlagMaintenanceDueTools(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.ToolStatusMaintenance, overdue.Status)
	assert.Equal(t, domain.ToolStatusAvailable, fine.Status)
	store.AssertExpectations(t)
}

func TestPostMembershipFees(t *testing.T) {
	store := mocks.NewMockStore()
	runner := newRunner(store)

	expiry := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)
	member := &domain.Member{
		ID:               uuid.New(),
		Name:             "Ada Smith",
		TotalDebt:        decimal.Zero,
		MembershipExpiry: expiry,
	}

	var fee *domain.Transaction
	store.Members.On("ListExpired", mock.Anything, mock.AnythingOfType("time.Time")).
		Return([]*domain.Member{member}, nil)
	store.Members.On("GetByID", mock.Anything, member.ID).Return(member, nil)
	store.Transactions.On("Create", mock.Anything, mock.AnythingOfType("*domain.Transaction")).
		Run(func(args mock.Arguments) {
			fee = args.Get(1).(*domain.Transaction)
		}).Return(nil)
	store.Members.On("Update", mock.Anything, member).Return(nil)

	err := runner.PostMembershipFees(context.Background())
	require.NoError(t, err)

	assert.True(t, member.TotalDebt.Equal(decimal.RequireFromString("50.00")), "got %s", member.TotalDebt)
	assert.True(t, member.MembershipExpiry.Equal(expiry.AddDate(1, 0, 0)), "got %s", member.MembershipExpiry)

	require.NotNil(t, fee)
	assert.Equal(t, domain.TransactionTypeMembershipFee, fee.Type)
	assert.True(t, fee.Amount.Equal(decimal.RequireFromString("50.00")))
	assert.Nil(t, fee.RentalID)

	store.AssertExpectations(t)
}

func TestPostMembershipFees_DropsCachedBalance(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := mocks.NewMockStore()
	cfg := &config.Config{
		Business: config.BusinessConfig{
			MembershipFee:   "50.00",
			BalanceCacheTTL: time.Hour,
		},
	}
	ledger := service.NewLedgerService(store, client, cfg)
	runner := jobs.NewRunner(store, ledger, cfg)

	member := &domain.Member{
		ID:               uuid.New(),
		Name:             "Ada Smith",
		TotalDebt:        decimal.Zero,
		MembershipExpiry: time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC),
	}
	key := "balance:" + member.ID.String()
	require.NoError(t, mr.Set(key, "0"))

	store.Members.On("ListExpired", mock.Anything, mock.AnythingOfType("time.Time")).
		Return([]*domain.Member{member}, nil)
	store.Members.On("GetByID", mock.Anything, member.ID).Return(member, nil)
	store.Transactions.On("Create", mock.Anything, mock.AnythingOfType("*domain.Transaction")).Return(nil)
	store.Members.On("Update", mock.Anything, member).Return(nil)

	require.NoError(t, runner.PostMembershipFees(context.Background()))

	// The API server must not keep serving the pre-fee balance.
	assert.False(t, mr.Exists(key), "cached balance must be dropped after the fee posts")
}

func TestReportOverdueRentals(t *testing.T) {
	store := mocks.NewMockStore()
	runner := newRunner(store)

	overdue := []*domain.Rental{
		{
			ID:       uuid.New(),
			MemberID: uuid.New(),
			ToolID:   uuid.New(),
			EndDate:  time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC),
			Status:   domain.RentalStatusActive,
		},
	}
	store.Rentals.On("ListActiveEndedBefore", mock.Anything, mock.AnythingOfType("time.Time")).
		Return(overdue, nil)

	err := runner.ReportOverdueRentals(context.Background())
	require.NoError(t, err)
	store.AssertExpectations(t)
}
