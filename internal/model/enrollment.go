package model

import "time"

// Enrollment intent status
const (
	EnrollmentIntentPending = "pending"
	EnrollmentIntentDone    = "done"
	EnrollmentIntentDead    = "dead"
)

// EnrollmentIntent is the outbox row for provisionally enrolling a freshly
// created member into a chapter. It commits in the same transaction as the
// member, so a member can never exist with a silently lost enrollment: the
// intent is either processed, pending retry, or dead with a recorded error.
type EnrollmentIntent struct {
	ID uint32 `gorm:"column:id;primaryKey;autoIncrement"`

	MemberID    uint32     `gorm:"column:member_id;not null;index:idx_enrollment_intent_member"`
	ChapterName string     `gorm:"column:chapter_name;type:VARCHAR2(100);not null"`
	Status      string     `gorm:"column:status;type:VARCHAR2(10);not null;default:pending;index:idx_enrollment_intent_status"`
	Attempts    int        `gorm:"column:attempts;not null;default:0"`
	LastError   string     `gorm:"column:last_error;type:VARCHAR2(500)"`
	NextAttempt *time.Time `gorm:"column:next_attempt"`
	ProcessedAt *time.Time `gorm:"column:processed_at"`

	BaseEntity
}

func (*EnrollmentIntent) TableName() string {
	return "enrollment_intent"
}
