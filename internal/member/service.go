package member

import (
	"context"
	"errors"
	"fmt"

	"github.com/verenigingen/membership-api/internal/shared/database"
	"gorm.io/gorm"
)

type MemberService struct {
	db               *gorm.DB
	memberRepository *MemberRepository
}

func NewMemberService(db *gorm.DB, memberRepository *MemberRepository) *MemberService {
	return &MemberService{
		db:               db,
		memberRepository: memberRepository,
	}
}

// GetDetail returns the staff-facing view of a member record.
func (s *MemberService) GetDetail(ctx context.Context, memberID uint32) (*MemberDetailResponse, error) {
	var response *MemberDetailResponse

	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		m, err := s.memberRepository.FindByID(ctx, tx, memberID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("member not found memberID=%d %w", memberID, ErrMemberNotFound)
			}
			return fmt.Errorf("load member: %w", err)
		}

		response = &MemberDetailResponse{
			ID:                    m.ID,
			FullName:              m.FullName,
			Email:                 m.Email,
			Status:                m.Status,
			ApplicationID:         m.ApplicationID,
			ApplicationStatus:     m.ApplicationStatus,
			SelectedChapter:       m.SelectedChapter,
			SelectedType:          m.SelectedMembershipType,
			MembershipFeeOverride: m.MembershipFeeOverride,
			Notes:                 m.Notes,
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return response, nil
}
