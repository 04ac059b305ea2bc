package chapter_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verenigingen/membership-api/internal/chapter"
	"github.com/verenigingen/membership-api/internal/member"
	"github.com/verenigingen/membership-api/internal/model"
	"github.com/verenigingen/membership-api/internal/shared/testutil"
	"gorm.io/gorm"
)

func setupChapterService(t *testing.T) (*chapter.ChapterService, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() {
		testutil.CleanupTestDB(t, db)
	})

	service := chapter.NewChapterService(db, chapter.NewChapterRepository(), member.NewMemberRepository())
	return service, db
}

func createMember(t *testing.T, db *gorm.DB, email string) *model.Member {
	t.Helper()

	m := &model.Member{
		FirstName: "Jan",
		LastName:  "Jansen",
		FullName:  "Jan Jansen",
		Email:     email,
		BirthDate: "1990-06-15",
		Status:    model.MemberStatusPending,
	}
	require.NoError(t, db.Create(m).Error)
	return m
}

func createChapter(t *testing.T, db *gorm.DB, name, ranges string) *model.Chapter {
	t.Helper()

	ch := &model.Chapter{Name: name, PostalCodeRanges: ranges, Published: true}
	require.NoError(t, db.Create(ch).Error)
	return ch
}

func TestSuggestChapter(t *testing.T) {
	service, db := setupChapterService(t)
	createChapter(t, db, "Amsterdam", "1000-1999")
	createChapter(t, db, "Utrecht", "3400-3599")

	t.Run("Explicit selection wins verbatim", func(t *testing.T) {
		name, err := service.SuggestChapter(context.Background(), "Utrecht", "1234AB")
		require.NoError(t, err)
		assert.Equal(t, "Utrecht", name)
	})

	t.Run("Postal code range match", func(t *testing.T) {
		name, err := service.SuggestChapter(context.Background(), "", "1234AB")
		require.NoError(t, err)
		assert.Equal(t, "Amsterdam", name)
	})

	t.Run("No match gives empty suggestion", func(t *testing.T) {
		name, err := service.SuggestChapter(context.Background(), "", "9999ZZ")
		require.NoError(t, err)
		assert.Empty(t, name)
	})
}

func TestCreatePendingMembership_Idempotent(t *testing.T) {
	service, db := setupChapterService(t)
	m := createMember(t, db, "jan@example.com")
	createChapter(t, db, "Amsterdam", "1000-1999")

	first, err := service.CreatePendingMembership(context.Background(), m.ID, "Amsterdam")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, model.ChapterMemberStatusPending, first.Status)

	// A second call returns the existing row; no duplicate appears.
	second, err := service.CreatePendingMembership(context.Background(), m.ID, "Amsterdam")
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&model.ChapterMember{}).Where("member_id = ?", m.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreatePendingMembership_MissingChapterIsNoOp(t *testing.T) {
	service, db := setupChapterService(t)
	m := createMember(t, db, "jan@example.com")

	row, err := service.CreatePendingMembership(context.Background(), m.ID, "Nowhere")

	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestActivatePendingMembership(t *testing.T) {
	service, db := setupChapterService(t)
	m := createMember(t, db, "jan@example.com")
	createChapter(t, db, "Amsterdam", "1000-1999")

	pending, err := service.CreatePendingMembership(context.Background(), m.ID, "Amsterdam")
	require.NoError(t, err)
	require.NotNil(t, pending)
	originalJoin := *pending.ChapterJoinDate

	row, err := service.ActivatePendingMembership(context.Background(), m.ID, "Amsterdam")
	require.NoError(t, err)
	require.NotNil(t, row)

	assert.Equal(t, model.ChapterMemberStatusActive, row.Status)
	assert.True(t, row.Enabled)
	// The join date is refreshed to the approval moment.
	assert.False(t, row.ChapterJoinDate.Before(originalJoin))
}

func TestActivatePendingMembership_NoPendingRowFallsBackToActive(t *testing.T) {
	service, db := setupChapterService(t)
	m := createMember(t, db, "jan@example.com")
	createChapter(t, db, "Amsterdam", "1000-1999")

	// No pending row was ever created; activation still results in an
	// active membership.
	row, err := service.ActivatePendingMembership(context.Background(), m.ID, "Amsterdam")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, model.ChapterMemberStatusActive, row.Status)
}

func TestRemovePendingMembership(t *testing.T) {
	service, db := setupChapterService(t)
	m := createMember(t, db, "jan@example.com")
	createChapter(t, db, "Amsterdam", "1000-1999")

	_, err := service.CreatePendingMembership(context.Background(), m.ID, "Amsterdam")
	require.NoError(t, err)

	require.NoError(t, service.RemovePendingMembership(context.Background(), m.ID, "Amsterdam"))

	var count int64
	require.NoError(t, db.Model(&model.ChapterMember{}).Where("member_id = ?", m.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRemovePendingMembership_FallsBackToSelectedChapter(t *testing.T) {
	service, db := setupChapterService(t)
	m := createMember(t, db, "jan@example.com")
	createChapter(t, db, "Amsterdam", "1000-1999")

	m.SelectedChapter = "Amsterdam"
	require.NoError(t, db.Save(m).Error)

	_, err := service.CreatePendingMembership(context.Background(), m.ID, "Amsterdam")
	require.NoError(t, err)

	// No chapter given: the member's suggested chapter is used.
	require.NoError(t, service.RemovePendingMembership(context.Background(), m.ID, ""))

	var count int64
	require.NoError(t, db.Model(&model.ChapterMember{}).Where("member_id = ?", m.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRemovePendingMembership_LeavesActiveRows(t *testing.T) {
	service, db := setupChapterService(t)
	m := createMember(t, db, "jan@example.com")
	createChapter(t, db, "Amsterdam", "1000-1999")

	_, err := service.CreateActiveMembership(context.Background(), m.ID, "Amsterdam")
	require.NoError(t, err)

	// Removing pending rows must not touch an Active membership.
	require.NoError(t, service.RemovePendingMembership(context.Background(), m.ID, "Amsterdam"))

	var count int64
	require.NoError(t, db.Model(&model.ChapterMember{}).Where("member_id = ?", m.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRemoveActiveMembership_SoftDisables(t *testing.T) {
	service, db := setupChapterService(t)
	m := createMember(t, db, "jan@example.com")
	createChapter(t, db, "Amsterdam", "1000-1999")

	_, err := service.CreateActiveMembership(context.Background(), m.ID, "Amsterdam")
	require.NoError(t, err)

	require.NoError(t, service.RemoveActiveMembership(context.Background(), m.ID, "Amsterdam", "Moved abroad"))

	// The row is retained for history, disabled with a reason.
	var row model.ChapterMember
	require.NoError(t, db.Where("member_id = ?", m.ID).First(&row).Error)
	assert.False(t, row.Enabled)
	assert.Equal(t, model.ChapterMemberStatusInactive, row.Status)
	assert.Equal(t, "Moved abroad", row.LeaveReason)
}

func TestCreateChapter_DuplicateName(t *testing.T) {
	service, db := setupChapterService(t)
	createChapter(t, db, "Amsterdam", "1000-1999")

	_, err := service.CreateChapter(context.Background(), &chapter.CreateChapterRequest{
		Name:      "Amsterdam",
		Published: true,
	})

	assert.ErrorIs(t, err, chapter.ErrChapterAlreadyExists)
}

func TestListMembers(t *testing.T) {
	service, db := setupChapterService(t)
	m := createMember(t, db, "jan@example.com")
	createChapter(t, db, "Amsterdam", "1000-1999")

	_, err := service.CreateActiveMembership(context.Background(), m.ID, "Amsterdam")
	require.NoError(t, err)

	rows, err := service.ListMembers(context.Background(), "Amsterdam")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Jan Jansen", rows[0].MemberName)
	assert.Equal(t, model.ChapterMemberStatusActive, rows[0].Status)

	_, err = service.ListMembers(context.Background(), "Nowhere")
	assert.ErrorIs(t, err, chapter.ErrChapterNotFound)
}
