package service

import (
	"time"

	"github.com/toolbay/rental-engine/internal/domain"
	"github.com/toolbay/rental-engine/pkg/utils"
)

// MaintenanceExpiry returns the calendar day on which the tool's maintenance
// runs out, or nil when the tool has never been maintained or carries no
// interval.
func MaintenanceExpiry(tool *domain.Tool) *time.Time {
	if tool.LastMaintenanceDate == nil || tool.MaintenanceIntervalMonths <= 0 {
		return nil
	}
	expiry := utils.DateOnly(*tool.LastMaintenanceDate).AddDate(0, tool.MaintenanceIntervalMonths, 0)
	return &expiry
}

// IsMaintenanceBlocked reports whether the tool is barred from new bookings
// because its maintenance is overdue. Low-importance tools are never blocked.
// For medium and high importance the tool is blocked when the expiry is
// strictly before today, or when maintenance data is unset (treated as
// never-maintained). The gate applies at booking time only; an active rental
// is not invalidated when maintenance becomes overdue mid-rental.
func IsMaintenanceBlocked(tool *domain.Tool, today time.Time) bool {
	if tool.MaintenanceImportance == domain.MaintenanceImportanceLow {
		return false
	}
	expiry := MaintenanceExpiry(tool)
	if expiry == nil {
		return true
	}
	return expiry.Before(utils.DateOnly(today))
}
