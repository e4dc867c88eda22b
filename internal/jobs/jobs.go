package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/toolbay/rental-engine/internal/config"
	"github.com/toolbay/rental-engine/internal/domain"
	"github.com/toolbay/rental-engine/internal/repository"
	"github.com/toolbay/rental-engine/internal/service"
	"github.com/toolbay/rental-engine/pkg/utils"
)

// Runner coordinates all scheduled jobs
type Runner struct {
	store  repository.Store
	ledger *service.LedgerService
	config *config.Config
}

// NewRunner creates a new job runner with all dependencies
func NewRunner(store repository.Store, ledger *service.LedgerService, cfg *config.Config) *Runner {
	return &Runner{
		store:  store,
		ledger: ledger,
		config: cfg,
	}
}

// RunWithRecovery wraps job execution with panic recovery
func (j *Runner) RunWithRecovery(jobName string, jobFunc func(ctx context.Context) error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("job %s panicked: %v", jobName, r)
		}
	}()

	if err := jobFunc(context.Background()); err != nil {
		log.Printf("job %s failed: %v", jobName, err)
	}
}

// FlagMaintenanceDueTools parks available tools whose maintenance is overdue
// in maintenance status so admins see them. Booking admission is gated
// separately at creation time; this job only surfaces the backlog.
func (j *Runner) FlagMaintenanceDueTools(ctx context.Context) error {
	tools, err := j.store.Repos().Tools.ListByStatus(ctx, domain.ToolStatusAvailable)
	if err != nil {
		return err
	}

	today := utils.DateOnly(time.Now())
	count := 0
	for _, tool := range tools {
		if !service.IsMaintenanceBlocked(tool, today) {
			continue
		}
		tool.Status = domain.ToolStatusMaintenance
		tool.UpdatedAt = time.Now()
		if err := j.store.Repos().Tools.Update(ctx, tool); err != nil {
			log.Printf("failed to flag tool %s for maintenance: %v", tool.ID, err)
			continue
		}
		count++
	}

	log.Printf("flagged %d tools for maintenance", count)
	return nil
}

// PostMembershipFees charges the yearly fee to members whose membership
// expired and extends their membership by one year. Charge and extension
// commit together per member.
func (j *Runner) PostMembershipFees(ctx context.Context) error {
	today := utils.DateOnly(time.Now())
	members, err := j.store.Repos().Members.ListExpired(ctx, today)
	if err != nil {
		return err
	}

	fee := j.config.GetMembershipFee()
	count := 0
	for _, member := range members {
		err := j.store.WithinTx(ctx, func(r *repository.Repositories) error {
			description := fmt.Sprintf("Membership fee %d", today.Year())
			if _, err := j.ledger.ChargeInTx(ctx, r, member.ID, fee, domain.TransactionTypeMembershipFee, description, nil); err != nil {
				return err
			}

			current, err := r.Members.GetByID(ctx, member.ID)
			if err != nil {
				return err
			}
			current.MembershipExpiry = utils.DateOnly(current.MembershipExpiry).AddDate(1, 0, 0)
			current.UpdatedAt = time.Now()
			return r.Members.Update(ctx, current)
		})
		if err != nil {
			log.Printf("failed to post membership fee for member %s: %v", member.ID, err)
			continue
		}
		j.ledger.InvalidateBalance(ctx, member.ID)
		count++
	}

	log.Printf("posted membership fees for %d members", count)
	return nil
}

// ReportOverdueRentals logs active rentals whose end date passed. Completion
// stays a manual admin action when the tool comes back.
func (j *Runner) ReportOverdueRentals(ctx context.Context) error {
	today := utils.DateOnly(time.Now())
	rentals, err := j.store.Repos().Rentals.ListActiveEndedBefore(ctx, today)
	if err != nil {
		return err
	}

	for _, rental := range rentals {
		log.Printf("rental %s of tool %s is overdue since %s (member %s)",
			rental.ID, rental.ToolID, rental.EndDate.Format("2006-01-02"), rental.MemberID)
	}

	log.Printf("found %d overdue rentals", len(rentals))
	return nil
}
