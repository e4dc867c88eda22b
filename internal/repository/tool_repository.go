package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/toolbay/rental-engine/internal/domain"
)

type toolRepository struct {
	ext sqlx.ExtContext
}

// NewToolRepository creates a tool repository bound to the given handle
func NewToolRepository(ext sqlx.ExtContext) ToolRepository {
	return &toolRepository{ext: ext}
}

func (r *toolRepository) Create(ctx context.Context, tool *domain.Tool) error {
	query := `
		INSERT INTO tools (id, name, weekly_price, status, maintenance_importance, last_maintenance_date, maintenance_interval_months, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.ext.ExecContext(ctx, query,
		tool.ID,
		tool.Name,
		tool.WeeklyPrice,
		tool.Status,
		tool.MaintenanceImportance,
		tool.LastMaintenanceDate,
		tool.MaintenanceIntervalMonths,
		tool.CreatedAt,
		tool.UpdatedAt,
	)

	return err
}

func (r *toolRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tool, error) {
	query := `
		SELECT id, name, weekly_price, status, maintenance_importance, last_maintenance_date, maintenance_interval_months, created_at, updated_at
		FROM tools
		WHERE id = $1
	`

	var tool domain.Tool
	err := sqlx.GetContext(ctx, r.ext, &tool, query, id)
	if err != nil {
		return nil, err
	}

	return &tool, nil
}

func (r *toolRepository) Update(ctx context.Context, tool *domain.Tool) error {
	query := `
		UPDATE tools
		SET name = $2, weekly_price = $3, status = $4, maintenance_importance = $5, last_maintenance_date = $6, maintenance_interval_months = $7, updated_at = $8
		WHERE id = $1
	`

	_, err := r.ext.ExecContext(ctx, query,
		tool.ID,
		tool.Name,
		tool.WeeklyPrice,
		tool.Status,
		tool.MaintenanceImportance,
		tool.LastMaintenanceDate,
		tool.MaintenanceIntervalMonths,
		tool.UpdatedAt,
	)

	return err
}

func (r *toolRepository) List(ctx context.Context) ([]*domain.Tool, error) {
	query := `
		SELECT id, name, weekly_price, status, maintenance_importance, last_maintenance_date, maintenance_interval_months, created_at, updated_at
		FROM tools
		ORDER BY name
	`

	var tools []*domain.Tool
	err := sqlx.SelectContext(ctx, r.ext, &tools, query)
	if err != nil {
		return nil, err
	}

	return tools, nil
}

func (r *toolRepository) ListByStatus(ctx context.Context, status string) ([]*domain.Tool, error) {
	query := `
		SELECT id, name, weekly_price, status, maintenance_importance, last_maintenance_date, maintenance_interval_months, created_at, updated_at
		FROM tools
		WHERE status = $1
		ORDER BY name
	`

	var tools []*domain.Tool
	err := sqlx.SelectContext(ctx, r.ext, &tools, query, status)
	if err != nil {
		return nil, err
	}

	return tools, nil
}

func (r *toolRepository) AppendConditionEntry(ctx context.Context, entry *domain.ToolConditionEntry) error {
	query := `
		INSERT INTO tool_condition_log (id, tool_id, rental_id, comment, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.ext.ExecContext(ctx, query,
		entry.ID,
		entry.ToolID,
		entry.RentalID,
		entry.Comment,
		entry.Status,
		entry.CreatedAt,
	)

	return err
}

func (r *toolRepository) ListConditionLog(ctx context.Context, toolID uuid.UUID) ([]*domain.ToolConditionEntry, error) {
	query := `
		SELECT id, tool_id, rental_id, comment, status, created_at
		FROM tool_condition_log
		WHERE tool_id = $1
		ORDER BY created_at DESC
	`

	var entries []*domain.ToolConditionEntry
	err := sqlx.SelectContext(ctx, r.ext, &entries, query, toolID)
	if err != nil {
		return nil, err
	}

	return entries, nil
}
