package chapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/verenigingen/membership-api/internal/member"
	"github.com/verenigingen/membership-api/internal/model"
	"github.com/verenigingen/membership-api/internal/shared/database"
	"github.com/verenigingen/membership-api/internal/shared/logger"
	"gorm.io/gorm"
)

// ChapterService owns the (member, chapter) relationship state machine:
//
//	[none] --submit--> Pending --approve--> Active
//	   ^                  |
//	   |               reject (row deleted)
//	   +------------------+
//	Active --admin removal--> row retained, enabled=false, leave_reason set
type ChapterService struct {
	db                *gorm.DB
	chapterRepository *ChapterRepository
	memberRepository  *member.MemberRepository
}

func NewChapterService(db *gorm.DB, chapterRepository *ChapterRepository, memberRepository *member.MemberRepository) *ChapterService {
	return &ChapterService{
		db:                db,
		chapterRepository: chapterRepository,
		memberRepository:  memberRepository,
	}
}

// CreateChapter creates a new chapter (staff operation).
func (s *ChapterService) CreateChapter(ctx context.Context, req *CreateChapterRequest) (*model.Chapter, error) {
	chapter := &model.Chapter{
		Name:             req.Name,
		Region:           req.Region,
		PostalCodeRanges: req.PostalCodeRanges,
		Published:        req.Published,
	}

	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		if _, err := s.chapterRepository.FindByName(ctx, tx, req.Name); err == nil {
			return fmt.Errorf("chapter %q %w", req.Name, ErrChapterAlreadyExists)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("check chapter existence: %w", err)
		}
		return s.chapterRepository.Create(ctx, tx, chapter)
	})
	if err != nil {
		return nil, err
	}
	return chapter, nil
}

// SuggestChapter resolves the chapter for an application: the explicitly
// selected chapter wins verbatim, otherwise the first postal-code-range match.
// Returns "" when nothing matches.
func (s *ChapterService) SuggestChapter(ctx context.Context, selectedChapter, postalCode string) (string, error) {
	if selectedChapter != "" {
		return selectedChapter, nil
	}

	chapter, err := s.chapterRepository.SuggestByPostalCode(ctx, s.db, postalCode)
	if err != nil {
		return "", fmt.Errorf("suggest chapter by postal code: %w", err)
	}
	if chapter == nil {
		return "", nil
	}
	return chapter.Name, nil
}

// CreatePendingMembership records a provisional chapter relationship at
// application submission time. It deliberately returns (nil, nil) instead of
// an error when the member or chapter is missing, and returns the existing
// row unchanged when one is already present for the pair.
func (s *ChapterService) CreatePendingMembership(ctx context.Context, memberID uint32, chapterName string) (*model.ChapterMember, error) {
	log := logger.FromContext(ctx)

	if memberID == 0 || chapterName == "" {
		return nil, nil
	}

	chapter, err := s.chapterRepository.FindByName(ctx, s.db, chapterName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("pending chapter membership skipped - chapter does not exist", "chapter", chapterName)
			return nil, nil
		}
		return nil, fmt.Errorf("load chapter: %w", err)
	}

	if existing, err := s.chapterRepository.FindMembership(ctx, s.db, chapter.ID, memberID); err == nil {
		// Idempotent: second call never produces a duplicate row.
		log.Debug("chapter membership already exists", "chapter", chapterName, "member_id", memberID)
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check existing chapter membership: %w", err)
	}

	now := time.Now()
	row := &model.ChapterMember{
		ChapterID:       chapter.ID,
		MemberID:        memberID,
		Status:          model.ChapterMemberStatusPending,
		Enabled:         true,
		ChapterJoinDate: &now,
	}

	if err := s.chapterRepository.UpsertMembership(ctx, s.db, row); err != nil {
		return nil, fmt.Errorf("create pending chapter membership: %w", err)
	}

	log.Info("pending chapter membership created",
		"chapter", chapterName,
		"member_id", memberID,
	)
	return row, nil
}

// ActivatePendingMembership flips the Pending row to Active and refreshes the
// join date to the approval date. When no Pending row exists the approval
// must still succeed, so it falls back to creating an Active row directly.
func (s *ChapterService) ActivatePendingMembership(ctx context.Context, memberID uint32, chapterName string) (*model.ChapterMember, error) {
	log := logger.FromContext(ctx)

	if memberID == 0 || chapterName == "" {
		return nil, nil
	}

	chapter, err := s.chapterRepository.FindByName(ctx, s.db, chapterName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("activate chapter membership skipped - chapter does not exist", "chapter", chapterName)
			return nil, nil
		}
		return nil, fmt.Errorf("load chapter: %w", err)
	}

	row, err := s.chapterRepository.FindMembership(ctx, s.db, chapter.ID, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("no pending chapter membership found at approval, creating active row",
				"chapter", chapterName,
				"member_id", memberID,
			)
			return s.CreateActiveMembership(ctx, memberID, chapterName)
		}
		return nil, fmt.Errorf("find chapter membership: %w", err)
	}

	now := time.Now()
	row.Status = model.ChapterMemberStatusActive
	row.Enabled = true
	row.ChapterJoinDate = &now

	if err := s.chapterRepository.SaveMembership(ctx, s.db, row); err != nil {
		return nil, fmt.Errorf("activate chapter membership: %w", err)
	}

	log.Info("chapter membership activated", "chapter", chapterName, "member_id", memberID)
	return row, nil
}

// CreateActiveMembership is idempotent: an existing row for the pair is
// upgraded to Active in place rather than duplicated.
func (s *ChapterService) CreateActiveMembership(ctx context.Context, memberID uint32, chapterName string) (*model.ChapterMember, error) {
	if memberID == 0 || chapterName == "" {
		return nil, nil
	}

	chapter, err := s.chapterRepository.FindByName(ctx, s.db, chapterName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load chapter: %w", err)
	}

	now := time.Now()
	row := &model.ChapterMember{
		ChapterID:       chapter.ID,
		MemberID:        memberID,
		Status:          model.ChapterMemberStatusActive,
		Enabled:         true,
		ChapterJoinDate: &now,
	}

	if err := s.chapterRepository.UpsertMembership(ctx, s.db, row); err != nil {
		return nil, fmt.Errorf("create active chapter membership: %w", err)
	}

	return s.chapterRepository.FindMembership(ctx, s.db, chapter.ID, memberID)
}

// RemovePendingMembership hard-deletes Pending rows for the pair. When no
// chapter is given it falls back to the member's suggested chapter. Used on
// application rejection.
func (s *ChapterService) RemovePendingMembership(ctx context.Context, memberID uint32, chapterName string) error {
	log := logger.FromContext(ctx)

	if chapterName == "" {
		m, err := s.memberRepository.FindByID(ctx, s.db, memberID)
		if err != nil {
			return fmt.Errorf("load member for chapter fallback: %w", err)
		}
		chapterName = m.SelectedChapter
	}
	if chapterName == "" {
		return nil
	}

	chapter, err := s.chapterRepository.FindByName(ctx, s.db, chapterName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("load chapter: %w", err)
	}

	removed, err := s.chapterRepository.DeletePendingMemberships(ctx, s.db, chapter.ID, memberID)
	if err != nil {
		return fmt.Errorf("remove pending chapter membership: %w", err)
	}

	if removed > 0 {
		log.Info("pending chapter membership removed",
			"chapter", chapterName,
			"member_id", memberID,
			"rows", removed,
		)
	}
	return nil
}

// RemoveActiveMembership is the admin removal path: the row is retained with
// enabled=false and a leave reason, not deleted.
func (s *ChapterService) RemoveActiveMembership(ctx context.Context, memberID uint32, chapterName, reason string) error {
	chapter, err := s.chapterRepository.FindByName(ctx, s.db, chapterName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("chapter %q %w", chapterName, ErrChapterNotFound)
		}
		return fmt.Errorf("load chapter: %w", err)
	}

	row, err := s.chapterRepository.FindMembership(ctx, s.db, chapter.ID, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("chapter membership %w", ErrChapterMemberNotFound)
		}
		return fmt.Errorf("find chapter membership: %w", err)
	}

	row.Status = model.ChapterMemberStatusInactive
	row.Enabled = false
	row.LeaveReason = reason

	if err := s.chapterRepository.SaveMembership(ctx, s.db, row); err != nil {
		return fmt.Errorf("disable chapter membership: %w", err)
	}
	return nil
}

// ListPublished returns the chapters offered on the public application form.
func (s *ChapterService) ListPublished(ctx context.Context) ([]model.Chapter, error) {
	return s.chapterRepository.FindPublished(ctx, s.db)
}

// ListMembers returns the report projection of a chapter's member rows.
func (s *ChapterService) ListMembers(ctx context.Context, chapterName string) ([]ChapterMemberRow, error) {
	chapter, err := s.chapterRepository.FindByName(ctx, s.db, chapterName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("chapter %q %w", chapterName, ErrChapterNotFound)
		}
		return nil, fmt.Errorf("load chapter: %w", err)
	}

	rows, err := s.chapterRepository.ListMembers(ctx, s.db, chapter.ID)
	if err != nil {
		return nil, fmt.Errorf("list chapter members: %w", err)
	}

	result := make([]ChapterMemberRow, 0, len(rows))
	for _, row := range rows {
		m, err := s.memberRepository.FindByID(ctx, s.db, row.MemberID)
		if err != nil {
			return nil, fmt.Errorf("load member %d: %w", row.MemberID, err)
		}
		result = append(result, ChapterMemberRow{
			MemberID:        row.MemberID,
			MemberName:      m.FullName,
			Status:          row.Status,
			Enabled:         row.Enabled,
			ChapterJoinDate: row.ChapterJoinDate,
			LeaveReason:     row.LeaveReason,
		})
	}
	return result, nil
}
