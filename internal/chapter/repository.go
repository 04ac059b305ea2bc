package chapter

import (
	"context"
	"strconv"
	"strings"

	"github.com/verenigingen/membership-api/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChapterRepository struct{}

func NewChapterRepository() *ChapterRepository {
	return &ChapterRepository{}
}

func (r *ChapterRepository) Create(ctx context.Context, db *gorm.DB, chapter *model.Chapter) error {
	return db.WithContext(ctx).Create(chapter).Error
}

func (r *ChapterRepository) FindByName(ctx context.Context, db *gorm.DB, name string) (*model.Chapter, error) {
	var chapter model.Chapter
	err := db.WithContext(ctx).Where("name = ?", name).First(&chapter).Error
	if err != nil {
		return nil, err
	}
	return &chapter, nil
}

func (r *ChapterRepository) FindPublished(ctx context.Context, db *gorm.DB) ([]model.Chapter, error) {
	var chapters []model.Chapter
	err := db.WithContext(ctx).Where("published = ?", true).Order("name").Find(&chapters).Error
	if err != nil {
		return nil, err
	}
	return chapters, nil
}

// SuggestByPostalCode returns the first published chapter whose postal code
// ranges cover the numeric prefix of the given postal code, or nil when no
// chapter matches.
func (r *ChapterRepository) SuggestByPostalCode(ctx context.Context, db *gorm.DB, postalCode string) (*model.Chapter, error) {
	chapters, err := r.FindPublished(ctx, db)
	if err != nil {
		return nil, err
	}

	numeric := numericPrefix(postalCode)
	if numeric < 0 {
		return nil, nil
	}

	for i := range chapters {
		if rangesCover(chapters[i].PostalCodeRanges, numeric) {
			return &chapters[i], nil
		}
	}
	return nil, nil
}

// numericPrefix extracts the leading digits of a postal code ("1234AB" -> 1234).
// Returns -1 when the code has no leading digits.
func numericPrefix(postalCode string) int {
	trimmed := strings.TrimSpace(postalCode)
	end := 0
	for end < len(trimmed) && trimmed[end] >= '0' && trimmed[end] <= '9' {
		end++
	}
	if end == 0 {
		return -1
	}
	n, err := strconv.Atoi(trimmed[:end])
	if err != nil {
		return -1
	}
	return n
}

// rangesCover reports whether a comma-separated span list like
// "1000-1999,2500" covers the given numeric code.
func rangesCover(ranges string, code int) bool {
	for _, span := range strings.Split(ranges, ",") {
		span = strings.TrimSpace(span)
		if span == "" {
			continue
		}

		if from, to, ok := strings.Cut(span, "-"); ok {
			lo, err1 := strconv.Atoi(strings.TrimSpace(from))
			hi, err2 := strconv.Atoi(strings.TrimSpace(to))
			if err1 == nil && err2 == nil && code >= lo && code <= hi {
				return true
			}
			continue
		}

		if single, err := strconv.Atoi(span); err == nil && single == code {
			return true
		}
	}
	return false
}

func (r *ChapterRepository) FindMembership(ctx context.Context, db *gorm.DB, chapterID, memberID uint32) (*model.ChapterMember, error) {
	var row model.ChapterMember
	err := db.WithContext(ctx).
		Where("chapter_id = ? AND member_id = ?", chapterID, memberID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// UpsertMembership inserts the row, or updates status/enabled/join date in
// place when the (chapter, member) pair already exists. The composite unique
// index makes this safe under concurrent submissions.
func (r *ChapterRepository) UpsertMembership(ctx context.Context, db *gorm.DB, row *model.ChapterMember) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "chapter_id"}, {Name: "member_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "enabled", "chapter_join_date", "updated_at"}),
		}).
		Create(row).Error
}

func (r *ChapterRepository) SaveMembership(ctx context.Context, db *gorm.DB, row *model.ChapterMember) error {
	return db.WithContext(ctx).Save(row).Error
}

// DeletePendingMemberships hard-deletes Pending rows for the pair. Used on
// application rejection; admin removal of Active rows soft-disables instead.
func (r *ChapterRepository) DeletePendingMemberships(ctx context.Context, db *gorm.DB, chapterID, memberID uint32) (int64, error) {
	result := db.WithContext(ctx).
		Where("chapter_id = ? AND member_id = ? AND status = ?", chapterID, memberID, model.ChapterMemberStatusPending).
		Delete(&model.ChapterMember{})
	return result.RowsAffected, result.Error
}

func (r *ChapterRepository) ListMembers(ctx context.Context, db *gorm.DB, chapterID uint32) ([]model.ChapterMember, error) {
	var rows []model.ChapterMember
	err := db.WithContext(ctx).
		Where("chapter_id = ?", chapterID).
		Order("chapter_join_date").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
