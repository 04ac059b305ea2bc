package membership

import (
	"context"
	"fmt"
	"time"

	"github.com/verenigingen/membership-api/internal/model"
	"github.com/verenigingen/membership-api/internal/shared/logger"
	"gorm.io/gorm"
)

type MembershipService struct {
	db         *gorm.DB
	repository *MembershipRepository
}

func NewMembershipService(db *gorm.DB, repository *MembershipRepository) *MembershipService {
	return &MembershipService{
		db:         db,
		repository: repository,
	}
}

// ResolveAmount returns the amount an approved application is billed at: the
// member's fee override when set, otherwise the type's standard amount.
func ResolveAmount(m *model.Member, mt *model.MembershipType) float64 {
	if m.MembershipFeeOverride != nil && *m.MembershipFeeOverride > 0 {
		return *m.MembershipFeeOverride
	}
	return mt.StandardAmount()
}

// CreateApprovalRecords creates the membership, application invoice, and dues
// schedule for an approved application, all at the resolved amount. At most
// one of each exists per member; the unique indexes back that up.
func (s *MembershipService) CreateApprovalRecords(ctx context.Context, tx *gorm.DB, m *model.Member, mt *model.MembershipType) (float64, error) {
	log := logger.FromContext(ctx)
	amount := ResolveAmount(m, mt)

	db := tx
	if db == nil {
		db = s.db
	}

	membership := &model.Membership{
		MemberID:       m.ID,
		MembershipType: mt.Name,
		StartDate:      time.Now(),
		Amount:         amount,
	}
	if err := s.repository.CreateMembership(ctx, db, membership); err != nil {
		return 0, fmt.Errorf("create membership: %w", err)
	}

	invoice := &model.Invoice{
		MemberID:    m.ID,
		InvoiceType: model.InvoiceTypeApplication,
		Description: fmt.Sprintf("Membership Application - %s", mt.Name),
		Total:       amount,
	}
	if err := s.repository.CreateInvoice(ctx, db, invoice); err != nil {
		return 0, fmt.Errorf("create application invoice: %w", err)
	}

	schedule := &model.DuesSchedule{
		MemberID:       m.ID,
		MembershipType: mt.Name,
		Rate:           amount,
	}
	if err := s.repository.CreateDuesSchedule(ctx, db, schedule); err != nil {
		return 0, fmt.Errorf("create dues schedule: %w", err)
	}

	log.Info("approval records created",
		"member_id", m.ID,
		"membership_type", mt.Name,
		"amount", amount,
	)
	return amount, nil
}

// FindApplicationInvoice looks up the application invoice for the approval
// email. Callers treat a not-found as non-fatal.
func (s *MembershipService) FindApplicationInvoice(ctx context.Context, memberID uint32) (*model.Invoice, error) {
	return s.repository.FindApplicationInvoice(ctx, s.db, memberID)
}
