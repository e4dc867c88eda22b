package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/toolbay/rental-engine/internal/domain"
	"github.com/toolbay/rental-engine/internal/repository"
	customError "github.com/toolbay/rental-engine/pkg/errors"
	"github.com/toolbay/rental-engine/pkg/utils"
)

// MemberService handles member registration and lookups. Debt is owned by
// the ledger and never touched here.
type MemberService struct {
	store repository.Store
}

func NewMemberService(store repository.Store) *MemberService {
	return &MemberService{store: store}
}

func (s *MemberService) CreateMember(ctx context.Context, name, email string, membershipExpiry time.Time) (*domain.Member, error) {
	now := time.Now()
	member := &domain.Member{
		ID:               uuid.New(),
		Name:             name,
		Email:            email,
		TotalDebt:        decimal.Zero,
		MembershipExpiry: utils.DateOnly(membershipExpiry),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.store.Repos().Members.Create(ctx, member); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return member, nil
}

func (s *MemberService) GetMember(ctx context.Context, memberID uuid.UUID) (*domain.Member, error) {
	member, err := s.store.Repos().Members.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapMemberNotFound(memberID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return member, nil
}

func (s *MemberService) ListMembers(ctx context.Context) ([]*domain.Member, error) {
	members, err := s.store.Repos().Members.List(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return members, nil
}
