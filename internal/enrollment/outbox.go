package enrollment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/verenigingen/membership-api/internal/chapter"
	"github.com/verenigingen/membership-api/internal/config"
	"github.com/verenigingen/membership-api/internal/model"
	"github.com/verenigingen/membership-api/internal/shared/logger"
	"gorm.io/gorm"
)

var errChapterUnavailable = errors.New("enrollment: chapter membership not created")

// OutboxService owns the durable enroll-in-chapter intents. An intent commits
// in the same transaction as the member it belongs to, is dispatched inline
// right after that commit, and failed dispatches are retried by the worker
// until the attempt cap marks them dead.
type OutboxService struct {
	db             *gorm.DB
	chapterService *chapter.ChapterService
	maxAttempts    int
	batchSize      int
}

func NewOutboxService(db *gorm.DB, chapterService *chapter.ChapterService, cfg *config.Config) *OutboxService {
	return &OutboxService{
		db:             db,
		chapterService: chapterService,
		maxAttempts:    cfg.Application.OutboxMaxAttempts,
		batchSize:      cfg.Application.OutboxBatchSize,
	}
}

// Enqueue writes the intent row on the given transaction so it commits
// atomically with the member.
func (s *OutboxService) Enqueue(ctx context.Context, tx *gorm.DB, memberID uint32, chapterName string) (*model.EnrollmentIntent, error) {
	if chapterName == "" {
		return nil, nil
	}

	intent := &model.EnrollmentIntent{
		MemberID:    memberID,
		ChapterName: chapterName,
		Status:      model.EnrollmentIntentPending,
	}
	if err := tx.WithContext(ctx).Create(intent).Error; err != nil {
		return nil, fmt.Errorf("enqueue enrollment intent: %w", err)
	}
	return intent, nil
}

// Dispatch processes one intent: it creates the pending chapter membership
// and marks the intent done. On failure the intent stays pending with a
// bumped attempt count and backoff, or goes dead at the attempt cap.
func (s *OutboxService) Dispatch(ctx context.Context, intent *model.EnrollmentIntent) error {
	log := logger.FromContext(ctx)

	row, err := s.chapterService.CreatePendingMembership(ctx, intent.MemberID, intent.ChapterName)
	if err == nil && row == nil {
		// Tolerated no-op (chapter vanished, member gone). Retrying would
		// never succeed, so record it and move on.
		err = errChapterUnavailable
	}

	if err != nil {
		return s.recordFailure(ctx, intent, err)
	}

	now := time.Now()
	intent.Status = model.EnrollmentIntentDone
	intent.ProcessedAt = &now
	intent.Attempts++
	if err := s.db.WithContext(ctx).Save(intent).Error; err != nil {
		return fmt.Errorf("mark intent done: %w", err)
	}

	log.Debug("enrollment intent processed",
		"intent_id", intent.ID,
		"member_id", intent.MemberID,
		"chapter", intent.ChapterName,
	)
	return nil
}

func (s *OutboxService) recordFailure(ctx context.Context, intent *model.EnrollmentIntent, cause error) error {
	log := logger.FromContext(ctx)

	intent.Attempts++
	intent.LastError = truncate(cause.Error(), 500)

	if intent.Attempts >= s.maxAttempts {
		intent.Status = model.EnrollmentIntentDead
		log.Error("enrollment intent dead-lettered",
			"intent_id", intent.ID,
			"member_id", intent.MemberID,
			"chapter", intent.ChapterName,
			"attempts", intent.Attempts,
			"error", cause,
		)
	} else {
		// Linear backoff is enough at this volume.
		next := time.Now().Add(time.Duration(intent.Attempts) * time.Minute)
		intent.NextAttempt = &next
		log.Warn("enrollment intent failed, will retry",
			"intent_id", intent.ID,
			"member_id", intent.MemberID,
			"chapter", intent.ChapterName,
			"attempts", intent.Attempts,
			"error", cause,
		)
	}

	if err := s.db.WithContext(ctx).Save(intent).Error; err != nil {
		return fmt.Errorf("record intent failure: %w", err)
	}
	return cause
}

// ProcessDue dispatches pending intents whose backoff has elapsed. Called by
// the worker on its schedule.
func (s *OutboxService) ProcessDue(ctx context.Context) error {
	var intents []model.EnrollmentIntent
	err := s.db.WithContext(ctx).
		Where("status = ? AND (next_attempt IS NULL OR next_attempt <= ?)",
			model.EnrollmentIntentPending, time.Now()).
		Order("id").
		Limit(s.batchSize).
		Find(&intents).Error
	if err != nil {
		return fmt.Errorf("load due enrollment intents: %w", err)
	}

	for i := range intents {
		// Dispatch records its own failures; the sweep keeps going.
		_ = s.Dispatch(ctx, &intents[i])
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
