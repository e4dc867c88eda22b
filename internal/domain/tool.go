package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	ToolStatusAvailable   = "available"
	ToolStatusRented      = "rented"
	ToolStatusMaintenance = "maintenance"
	ToolStatusUnavailable = "unavailable"
)

// Maintenance importance tiers. Low-importance tools are never gated.
const (
	MaintenanceImportanceLow    = "low"
	MaintenanceImportanceMedium = "medium"
	MaintenanceImportanceHigh   = "high"
)

// Tool is a rentable item owned by the association. Status transitions to
// rented/available are owned exclusively by the rental lifecycle.
type Tool struct {
	ID                        uuid.UUID       `json:"id" db:"id"`
	Name                      string          `json:"name" db:"name"`
	WeeklyPrice               decimal.Decimal `json:"weekly_price" db:"weekly_price"`
	Status                    string          `json:"status" db:"status"`
	MaintenanceImportance     string          `json:"maintenance_importance" db:"maintenance_importance"`
	LastMaintenanceDate       *time.Time      `json:"last_maintenance_date,omitempty" db:"last_maintenance_date"`
	MaintenanceIntervalMonths int             `json:"maintenance_interval_months" db:"maintenance_interval_months"`
	CreatedAt                 time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt                 time.Time       `json:"updated_at" db:"updated_at"`
}

// ToolConditionEntry is one append-only row of a tool's condition history,
// written when a rental is returned.
type ToolConditionEntry struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	ToolID    uuid.UUID  `json:"tool_id" db:"tool_id"`
	RentalID  *uuid.UUID `json:"rental_id,omitempty" db:"rental_id"`
	Comment   string     `json:"comment" db:"comment"`
	Status    string     `json:"status" db:"status"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

type CreateToolRequest struct {
	Name                      string          `json:"name" validate:"required"`
	WeeklyPrice               decimal.Decimal `json:"weekly_price" validate:"required"`
	MaintenanceImportance     string          `json:"maintenance_importance" validate:"required,oneof=low medium high"`
	LastMaintenanceDate       *string         `json:"last_maintenance_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	MaintenanceIntervalMonths int             `json:"maintenance_interval_months" validate:"gte=0"`
}

type ToolConditionLogResponse struct {
	ToolID  uuid.UUID             `json:"tool_id"`
	Entries []*ToolConditionEntry `json:"entries"`
}
