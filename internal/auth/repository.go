package auth

import (
	"context"

	"github.com/verenigingen/membership-api/internal/model"
	"gorm.io/gorm"
)

type StaffRepository struct{}

func NewStaffRepository() *StaffRepository {
	return &StaffRepository{}
}

func (r *StaffRepository) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*model.Staff, error) {
	var staff model.Staff
	err := db.WithContext(ctx).Where("email = ?", email).First(&staff).Error
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *StaffRepository) Create(ctx context.Context, db *gorm.DB, staff *model.Staff) error {
	return db.WithContext(ctx).Create(staff).Error
}
