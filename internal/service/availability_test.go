package service_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/toolbay/rental-engine/internal/domain"
	"github.com/toolbay/rental-engine/internal/service"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsAvailable(t *testing.T) {
	toolID := uuid.New()
	otherToolID := uuid.New()

	occupying := func(id uuid.UUID, status string, start, end time.Time) *domain.Rental {
		return &domain.Rental{
			ID:        uuid.New(),
			ToolID:    id,
			Status:    status,
			StartDate: start,
			EndDate:   end,
		}
	}

	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		existing []*domain.Rental
		want     bool
	}{
		{
			name:     "no existing rentals",
			start:    date(2025, time.January, 3),
			end:      date(2025, time.January, 10),
			existing: nil,
			want:     true,
		},
		{
			name:  "active rental overlaps",
			start: date(2025, time.January, 3),
			end:   date(2025, time.January, 10),
			existing: []*domain.Rental{
				occupying(toolID, domain.RentalStatusActive, date(2025, time.January, 8), date(2025, time.January, 15)),
			},
			want: false,
		},
		{
			name:  "pending rental overlaps",
			start: date(2025, time.January, 3),
			end:   date(2025, time.January, 10),
			existing: []*domain.Rental{
				occupying(toolID, domain.RentalStatusPending, date(2025, time.January, 10), date(2025, time.January, 17)),
			},
			want: false,
		},
		{
			name:  "touching end and start is a conflict",
			start: date(2025, time.January, 10),
			end:   date(2025, time.January, 17),
			existing: []*domain.Rental{
				occupying(toolID, domain.RentalStatusActive, date(2025, time.January, 3), date(2025, time.January, 10)),
			},
			want: false,
		},
		{
			name:  "completed rental never blocks",
			start: date(2025, time.January, 3),
			end:   date(2025, time.January, 10),
			existing: []*domain.Rental{
				occupying(toolID, domain.RentalStatusCompleted, date(2025, time.January, 3), date(2025, time.January, 10)),
			},
			want: true,
		},
		{
			name:  "rejected rental never blocks",
			start: date(2025, time.January, 3),
			end:   date(2025, time.January, 10),
			existing: []*domain.Rental{
				occupying(toolID, domain.RentalStatusRejected, date(2025, time.January, 3), date(2025, time.January, 10)),
			},
			want: true,
		},
		{
			name:  "rental of another tool never blocks",
			start: date(2025, time.January, 3),
			end:   date(2025, time.January, 10),
			existing: []*domain.Rental{
				occupying(otherToolID, domain.RentalStatusActive, date(2025, time.January, 3), date(2025, time.January, 10)),
			},
			want: true,
		},
		{
			name:  "disjoint ranges do not block",
			start: date(2025, time.January, 17),
			end:   date(2025, time.January, 24),
			existing: []*domain.Rental{
				occupying(toolID, domain.RentalStatusActive, date(2025, time.January, 3), date(2025, time.January, 10)),
			},
			want: true,
		},
		{
			name:  "one conflict among many rentals",
			start: date(2025, time.January, 3),
			end:   date(2025, time.January, 10),
			existing: []*domain.Rental{
				occupying(toolID, domain.RentalStatusCompleted, date(2025, time.January, 3), date(2025, time.January, 10)),
				occupying(otherToolID, domain.RentalStatusActive, date(2025, time.January, 3), date(2025, time.January, 10)),
				occupying(toolID, domain.RentalStatusPending, date(2025, time.January, 10), date(2025, time.January, 17)),
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, service.IsAvailable(toolID, tt.start, tt.end, tt.existing))
		})
	}
}
