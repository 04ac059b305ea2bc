package membership

import (
	"context"

	"github.com/verenigingen/membership-api/internal/model"
	"gorm.io/gorm"
)

type MembershipRepository struct{}

func NewMembershipRepository() *MembershipRepository {
	return &MembershipRepository{}
}

func (r *MembershipRepository) FindTypeByName(ctx context.Context, db *gorm.DB, name string) (*model.MembershipType, error) {
	var mt model.MembershipType
	err := db.WithContext(ctx).Where("name = ?", name).First(&mt).Error
	if err != nil {
		return nil, err
	}
	return &mt, nil
}

func (r *MembershipRepository) FindActiveTypes(ctx context.Context, db *gorm.DB) ([]model.MembershipType, error) {
	var types []model.MembershipType
	err := db.WithContext(ctx).Where("active = ?", true).Order("name").Find(&types).Error
	if err != nil {
		return nil, err
	}
	return types, nil
}

func (r *MembershipRepository) CountActiveTypes(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&model.MembershipType{}).
		Where("active = ?", true).
		Count(&count).Error
	return count, err
}

func (r *MembershipRepository) CreateMembership(ctx context.Context, db *gorm.DB, m *model.Membership) error {
	return db.WithContext(ctx).Create(m).Error
}

func (r *MembershipRepository) CreateInvoice(ctx context.Context, db *gorm.DB, invoice *model.Invoice) error {
	return db.WithContext(ctx).Create(invoice).Error
}

func (r *MembershipRepository) CreateDuesSchedule(ctx context.Context, db *gorm.DB, schedule *model.DuesSchedule) error {
	return db.WithContext(ctx).Create(schedule).Error
}

// FindApplicationInvoice locates the application-fee invoice of a member by
// invoice type, falling back to a description match.
func (r *MembershipRepository) FindApplicationInvoice(ctx context.Context, db *gorm.DB, memberID uint32) (*model.Invoice, error) {
	var invoice model.Invoice
	err := db.WithContext(ctx).
		Where("member_id = ? AND (invoice_type = ? OR description LIKE ?)",
			memberID, model.InvoiceTypeApplication, "%Membership Application%").
		First(&invoice).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *MembershipRepository) FindDuesScheduleByMember(ctx context.Context, db *gorm.DB, memberID uint32) (*model.DuesSchedule, error) {
	var schedule model.DuesSchedule
	err := db.WithContext(ctx).Where("member_id = ?", memberID).First(&schedule).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}
