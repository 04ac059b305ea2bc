package model

import "time"

// Chapter member status
const (
	ChapterMemberStatusPending  = "Pending"
	ChapterMemberStatusActive   = "Active"
	ChapterMemberStatusInactive = "Inactive"
)

// Chapter is a geographic/organizational grouping members can belong to.
// PostalCodeRanges holds comma-separated spans like "1000-1999,2500".
type Chapter struct {
	ID uint32 `gorm:"column:id;primaryKey;autoIncrement"`

	Name             string `gorm:"column:name;type:VARCHAR2(100);not null;uniqueIndex:idx_chapter_name"`
	Region           string `gorm:"column:region;type:VARCHAR2(100)"`
	PostalCodeRanges string `gorm:"column:postal_code_ranges;type:VARCHAR2(500)"`
	Published        bool   `gorm:"column:published;not null;default:false"`

	Members []ChapterMember `gorm:"foreignKey:ChapterID"`

	BaseEntity
}

func (*Chapter) TableName() string {
	return "chapter"
}

// ChapterMember is the join row recording one member's relationship to one
// chapter. The composite unique index is the storage-level backstop for the
// at-most-one-row-per-(member, chapter) invariant; the service layer is still
// tolerant of a row already existing.
type ChapterMember struct {
	ID uint32 `gorm:"column:id;primaryKey;autoIncrement"`

	ChapterID uint32 `gorm:"column:chapter_id;not null;uniqueIndex:idx_chapter_member_pair,priority:1"`
	MemberID  uint32 `gorm:"column:member_id;not null;uniqueIndex:idx_chapter_member_pair,priority:2"`

	Status          string     `gorm:"column:status;type:VARCHAR2(20);not null;default:Pending"`
	Enabled         bool       `gorm:"column:enabled;not null;default:true"`
	ChapterJoinDate *time.Time `gorm:"column:chapter_join_date"`
	LeaveReason     string     `gorm:"column:leave_reason;type:VARCHAR2(255)"`

	BaseEntity
}

func (*ChapterMember) TableName() string {
	return "chapter_member"
}
