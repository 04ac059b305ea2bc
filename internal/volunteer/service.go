package volunteer

import (
	"context"
	"fmt"

	"github.com/verenigingen/membership-api/internal/model"
	"github.com/verenigingen/membership-api/internal/shared/logger"
	"gorm.io/gorm"
)

type VolunteerService struct {
	db *gorm.DB
}

func NewVolunteerService(db *gorm.DB) *VolunteerService {
	return &VolunteerService{db: db}
}

// CreateFromMember creates the volunteer record for a member that flagged
// interest in volunteering. Returns (nil, nil) when the member did not. The
// created volunteer always starts in status "New" - never "Pending", which
// belongs to the member lifecycle and once leaked in here as a regression.
func (s *VolunteerService) CreateFromMember(ctx context.Context, tx *gorm.DB, m *model.Member, skills []SkillInput) (*model.Volunteer, error) {
	log := logger.FromContext(ctx)

	if m == nil || !m.InterestedInVolunteering {
		return nil, nil
	}

	db := tx
	if db == nil {
		db = s.db
	}

	volunteer := &model.Volunteer{
		MemberID: m.ID,
		Name:     m.FullName,
		Email:    m.Email,
		Status:   model.VolunteerStatusNew,
	}

	for _, input := range skills {
		if input.SkillName == "" {
			continue
		}
		volunteer.Skills = append(volunteer.Skills, model.VolunteerSkill{
			SkillName:        input.SkillName,
			ProficiencyLevel: proficiencyForLevel(input.SkillLevel),
			Category:         categorizeSkill(input.SkillName),
		})
	}

	if err := db.WithContext(ctx).Create(volunteer).Error; err != nil {
		return nil, fmt.Errorf("create volunteer record: %w", err)
	}

	log.Info("volunteer record created",
		"member_id", m.ID,
		"skills", len(volunteer.Skills),
	)
	return volunteer, nil
}

// FindByMemberID loads the volunteer record for a member, if any.
func (s *VolunteerService) FindByMemberID(ctx context.Context, memberID uint32) (*model.Volunteer, error) {
	var volunteer model.Volunteer
	err := s.db.WithContext(ctx).
		Preload("Skills").
		Where("member_id = ?", memberID).
		First(&volunteer).Error
	if err != nil {
		return nil, err
	}
	return &volunteer, nil
}
