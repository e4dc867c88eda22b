package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/toolbay/rental-engine/internal/domain"
	"github.com/toolbay/rental-engine/pkg/utils"
)

// IsAvailable reports whether a tool can be booked for the inclusive range
// [startDate, endDate] given its existing rentals. Any pending or active
// rental whose interval intersects the proposed one blocks the booking;
// touching bounds count as a conflict. Rejected and completed rentals never
// block. Inverted or zero-length ranges must be rejected by the caller
// before this check runs.
func IsAvailable(toolID uuid.UUID, startDate, endDate time.Time, existing []*domain.Rental) bool {
	for _, rental := range existing {
		if rental.ToolID != toolID {
			continue
		}
		if domain.IsTerminalRentalStatus(rental.Status) {
			continue
		}
		if utils.RangesOverlap(startDate, endDate, rental.StartDate, rental.EndDate) {
			return false
		}
	}
	return true
}
