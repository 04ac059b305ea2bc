package enrollment_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verenigingen/membership-api/internal/chapter"
	"github.com/verenigingen/membership-api/internal/enrollment"
	"github.com/verenigingen/membership-api/internal/member"
	"github.com/verenigingen/membership-api/internal/model"
	"github.com/verenigingen/membership-api/internal/shared/testutil"
	"gorm.io/gorm"
)

func setupOutbox(t *testing.T) (*enrollment.OutboxService, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() {
		testutil.CleanupTestDB(t, db)
	})

	chapterService := chapter.NewChapterService(db, chapter.NewChapterRepository(), member.NewMemberRepository())
	outbox := enrollment.NewOutboxService(db, chapterService, testutil.NewTestConfig())
	return outbox, db
}

func seedEnrollmentFixtures(t *testing.T, db *gorm.DB, withChapter bool) *model.Member {
	t.Helper()

	m := &model.Member{
		FirstName: "Jan",
		LastName:  "Jansen",
		FullName:  "Jan Jansen",
		Email:     "jan@example.com",
		BirthDate: "1990-06-15",
		Status:    model.MemberStatusPending,
	}
	require.NoError(t, db.Create(m).Error)

	if withChapter {
		require.NoError(t, db.Create(&model.Chapter{
			Name:             "Amsterdam",
			PostalCodeRanges: "1000-1999",
			Published:        true,
		}).Error)
	}
	return m
}

func TestEnqueueAndDispatch_Success(t *testing.T) {
	outbox, db := setupOutbox(t)
	m := seedEnrollmentFixtures(t, db, true)

	var intent *model.EnrollmentIntent
	err := db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		intent, txErr = outbox.Enqueue(context.Background(), tx, m.ID, "Amsterdam")
		return txErr
	})
	require.NoError(t, err)
	require.NotNil(t, intent)
	assert.Equal(t, model.EnrollmentIntentPending, intent.Status)

	require.NoError(t, outbox.Dispatch(context.Background(), intent))

	// The intent is done and the chapter membership exists.
	var stored model.EnrollmentIntent
	require.NoError(t, db.First(&stored, intent.ID).Error)
	assert.Equal(t, model.EnrollmentIntentDone, stored.Status)
	assert.NotNil(t, stored.ProcessedAt)
	assert.Equal(t, 1, stored.Attempts)

	var row model.ChapterMember
	require.NoError(t, db.Where("member_id = ?", m.ID).First(&row).Error)
	assert.Equal(t, model.ChapterMemberStatusPending, row.Status)
}

func TestEnqueue_EmptyChapterIsNoOp(t *testing.T) {
	outbox, db := setupOutbox(t)
	m := seedEnrollmentFixtures(t, db, false)

	intent, err := outbox.Enqueue(context.Background(), db, m.ID, "")

	require.NoError(t, err)
	assert.Nil(t, intent)
}

func TestDispatch_FailureBacksOffThenDeadLetters(t *testing.T) {
	outbox, db := setupOutbox(t)
	// No chapter exists, so every dispatch attempt fails.
	m := seedEnrollmentFixtures(t, db, false)

	intent, err := outbox.Enqueue(context.Background(), db, m.ID, "Nowhere")
	require.NoError(t, err)

	// First failure: still pending with backoff and a recorded error.
	require.Error(t, outbox.Dispatch(context.Background(), intent))

	var stored model.EnrollmentIntent
	require.NoError(t, db.First(&stored, intent.ID).Error)
	assert.Equal(t, model.EnrollmentIntentPending, stored.Status)
	assert.Equal(t, 1, stored.Attempts)
	assert.NotEmpty(t, stored.LastError)
	require.NotNil(t, stored.NextAttempt)
	assert.True(t, stored.NextAttempt.After(time.Now()))

	// Failures up to the attempt cap dead-letter the intent.
	for i := 0; i < 4; i++ {
		_ = outbox.Dispatch(context.Background(), &stored)
	}

	require.NoError(t, db.First(&stored, intent.ID).Error)
	assert.Equal(t, model.EnrollmentIntentDead, stored.Status)
	assert.Equal(t, 5, stored.Attempts)
}

func TestProcessDue_RespectsBackoffWindow(t *testing.T) {
	outbox, db := setupOutbox(t)
	m := seedEnrollmentFixtures(t, db, true)

	// One intent is due now, one is backing off until tomorrow.
	due, err := outbox.Enqueue(context.Background(), db, m.ID, "Amsterdam")
	require.NoError(t, err)

	tomorrow := time.Now().Add(24 * time.Hour)
	waiting := &model.EnrollmentIntent{
		MemberID:    m.ID,
		ChapterName: "Amsterdam",
		Status:      model.EnrollmentIntentPending,
		Attempts:    1,
		NextAttempt: &tomorrow,
	}
	require.NoError(t, db.Create(waiting).Error)

	require.NoError(t, outbox.ProcessDue(context.Background()))

	var stored model.EnrollmentIntent
	require.NoError(t, db.First(&stored, due.ID).Error)
	assert.Equal(t, model.EnrollmentIntentDone, stored.Status)

	var waitingStored model.EnrollmentIntent
	require.NoError(t, db.First(&waitingStored, waiting.ID).Error)
	assert.Equal(t, model.EnrollmentIntentPending, waitingStored.Status)
}
