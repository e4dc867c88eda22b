package service_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/toolbay/rental-engine/internal/domain"
	"github.com/toolbay/rental-engine/internal/service"
	customError "github.com/toolbay/rental-engine/pkg/errors"
	"github.com/toolbay/rental-engine/tests/mocks"
)

func TestCreateTool_Success(t *testing.T) {
	store := mocks.NewMockStore()
	svc := service.NewToolService(store, testConfig())

	store.Tools.On("Create", mock.Anything, mock.AnythingOfType("*domain.Tool")).Return(nil)

	tool, err := svc.CreateTool(context.Background(), "Hammer drill", decimal.NewFromInt(35), domain.MaintenanceImportanceMedium, nil, 3)
	require.NoError(t, err)

	assert.Equal(t, "Hammer drill", tool.Name)
	assert.Equal(t, domain.ToolStatusAvailable, tool.Status)
	assert.Equal(t, 3, tool.MaintenanceIntervalMonths)
	store.AssertExpectations(t)
}

func TestCreateTool_DefaultsInterval(t *testing.T) {
	store := mocks.NewMockStore()
	svc := service.NewToolService(store, testConfig())

	store.Tools.On("Create", mock.Anything, mock.AnythingOfType("*domain.Tool")).Return(nil)

	tool, err := svc.CreateTool(context.Background(), "Ladder", decimal.NewFromInt(10), domain.MaintenanceImportanceLow, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, 6, tool.MaintenanceIntervalMonths)
}

func TestCreateTool_NonPositivePrice(t *testing.T) {
	store := mocks.NewMockStore()
	svc := service.NewToolService(store, testConfig())

	tool, err := svc.CreateTool(context.Background(), "Broken pricing", decimal.Zero, domain.MaintenanceImportanceLow, nil, 6)
	require.Error(t, err)
	assert.Nil(t, tool)
	assert.Equal(t, customError.ErrCodeValidation, customError.CodeOf(err))

	store.Tools.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRecordMaintenance_UnparksTool(t *testing.T) {
	store := mocks.NewMockStore()
	svc := service.NewToolService(store, testConfig())

	tool := &domain.Tool{
		ID:                        uuid.New(),
		Status:                    domain.ToolStatusMaintenance,
		MaintenanceImportance:     domain.MaintenanceImportanceHigh,
		MaintenanceIntervalMonths: 6,
	}
	store.Tools.On("GetByID", mock.Anything, tool.ID).Return(tool, nil)
	store.Tools.On("Update", mock.Anything, tool).Return(nil)

	serviceDate := time.Date(2025, time.June, 2, 14, 30, 0, 0, time.UTC)
	updated, err := svc.RecordMaintenance(context.Background(), tool.ID, serviceDate)
	require.NoError(t, err)

	assert.Equal(t, domain.ToolStatusAvailable, updated.Status)
	require.NotNil(t, updated.LastMaintenanceDate)
	assert.True(t, updated.LastMaintenanceDate.Equal(date(2025, time.June, 2)))
	store.AssertExpectations(t)
}

func TestRecordMaintenance_RentedToolKeepsStatus(t *testing.T) {
	store := mocks.NewMockStore()
	svc := service.NewToolService(store, testConfig())

	tool := &domain.Tool{
		ID:                        uuid.New(),
		Status:                    domain.ToolStatusRented,
		MaintenanceImportance:     domain.MaintenanceImportanceMedium,
		MaintenanceIntervalMonths: 6,
	}
	store.Tools.On("GetByID", mock.Anything, tool.ID).Return(tool, nil)
	store.Tools.On("Update", mock.Anything, tool).Return(nil)

	updated, err := svc.RecordMaintenance(context.Background(), tool.ID, date(2025, time.June, 2))
	require.NoError(t, err)
	assert.Equal(t, domain.ToolStatusRented, updated.Status)
}

func TestRecordMaintenance_NotFound(t *testing.T) {
	store := mocks.NewMockStore()
	svc := service.NewToolService(store, testConfig())

	toolID := uuid.New()
	store.Tools.On("GetByID", mock.Anything, toolID).Return(nil, sql.ErrNoRows)

	tool, err := svc.RecordMaintenance(context.Background(), toolID, date(2025, time.June, 2))
	require.Error(t, err)
	assert.Nil(t, tool)
	assert.ErrorIs(t, err, customError.ErrToolNotFound)
}

func TestConditionLog(t *testing.T) {
	store := mocks.NewMockStore()
	svc := service.NewToolService(store, testConfig())

	tool := &domain.Tool{ID: uuid.New(), Status: domain.ToolStatusAvailable}
	entries := []*domain.ToolConditionEntry{
		{ID: uuid.New(), ToolID: tool.ID, Comment: "fine"},
	}
	store.Tools.On("GetByID", mock.Anything, tool.ID).Return(tool, nil)
	store.Tools.On("ListConditionLog", mock.Anything, tool.ID).Return(entries, nil)

	got, err := svc.ConditionLog(context.Background(), tool.ID)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestCreateMember(t *testing.T) {
	store := mocks.NewMockStore()
	svc := service.NewMemberService(store)

	store.Members.On("Create", mock.Anything, mock.AnythingOfType("*domain.Member")).Return(nil)

	member, err := svc.CreateMember(context.Background(), "Ada Smith", "ada@example.com", date(2026, time.January, 1))
	require.NoError(t, err)

	assert.Equal(t, "Ada Smith", member.Name)
	assert.True(t, member.TotalDebt.IsZero())
	assert.True(t, member.MembershipExpiry.Equal(date(2026, time.January, 1)))
	store.AssertExpectations(t)
}

func TestGetMember_NotFound(t *testing.T) {
	store := mocks.NewMockStore()
	svc := service.NewMemberService(store)

	memberID := uuid.New()
	store.Members.On("GetByID", mock.Anything, memberID).Return(nil, sql.ErrNoRows)

	member, err := svc.GetMember(context.Background(), memberID)
	require.Error(t, err)
	assert.Nil(t, member)
	assert.ErrorIs(t, err, customError.ErrMemberNotFound)
}
