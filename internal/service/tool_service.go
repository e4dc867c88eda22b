package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/toolbay/rental-engine/internal/config"
	"github.com/toolbay/rental-engine/internal/domain"
	"github.com/toolbay/rental-engine/internal/repository"
	customError "github.com/toolbay/rental-engine/pkg/errors"
	"github.com/toolbay/rental-engine/pkg/utils"
)

// ToolService manages the tool catalogue. Status transitions to rented and
// available stay with the rental lifecycle; this service only handles
// registration and maintenance bookkeeping.
type ToolService struct {
	store  repository.Store
	config *config.Config
}

func NewToolService(store repository.Store, cfg *config.Config) *ToolService {
	return &ToolService{store: store, config: cfg}
}

func (s *ToolService) CreateTool(ctx context.Context, name string, weeklyPrice decimal.Decimal, importance string, lastMaintenance *time.Time, intervalMonths int) (*domain.Tool, error) {
	if !weeklyPrice.IsPositive() {
		return nil, customError.WrapValidation("weekly price must be positive")
	}
	if intervalMonths <= 0 {
		intervalMonths = s.config.Business.DefaultMaintenanceIntervalMonths
	}

	now := time.Now()
	tool := &domain.Tool{
		ID:                        uuid.New(),
		Name:                      name,
		WeeklyPrice:               weeklyPrice,
		Status:                    domain.ToolStatusAvailable,
		MaintenanceImportance:     importance,
		LastMaintenanceDate:       lastMaintenance,
		MaintenanceIntervalMonths: intervalMonths,
		CreatedAt:                 now,
		UpdatedAt:                 now,
	}

	if err := s.store.Repos().Tools.Create(ctx, tool); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return tool, nil
}

func (s *ToolService) GetTool(ctx context.Context, toolID uuid.UUID) (*domain.Tool, error) {
	tool, err := s.store.Repos().Tools.GetByID(ctx, toolID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapToolNotFound(toolID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return tool, nil
}

func (s *ToolService) ListTools(ctx context.Context) ([]*domain.Tool, error) {
	tools, err := s.store.Repos().Tools.List(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return tools, nil
}

// RecordMaintenance notes that the tool was serviced on the given day. A
// tool parked in maintenance status becomes available again; rented tools
// keep their status.
func (s *ToolService) RecordMaintenance(ctx context.Context, toolID uuid.UUID, serviceDate time.Time) (*domain.Tool, error) {
	var tool *domain.Tool
	err := s.store.WithinTx(ctx, func(r *repository.Repositories) error {
		var err error
		tool, err = r.Tools.GetByID(ctx, toolID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return customError.WrapToolNotFound(toolID.String())
			}
			return customError.WrapDatabaseError(err)
		}

		day := utils.DateOnly(serviceDate)
		tool.LastMaintenanceDate = &day
		if tool.Status == domain.ToolStatusMaintenance {
			tool.Status = domain.ToolStatusAvailable
		}
		tool.UpdatedAt = time.Now()
		if err := r.Tools.Update(ctx, tool); err != nil {
			return customError.WrapDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tool, nil
}

// ConditionLog returns the tool's condition history, newest first.
func (s *ToolService) ConditionLog(ctx context.Context, toolID uuid.UUID) ([]*domain.ToolConditionEntry, error) {
	if _, err := s.GetTool(ctx, toolID); err != nil {
		return nil, err
	}

	entries, err := s.store.Repos().Tools.ListConditionLog(ctx, toolID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return entries, nil
}
