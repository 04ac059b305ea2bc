package chapter

import "time"

type CreateChapterRequest struct {
	Name             string `json:"name" binding:"required,min=2,max=100"`
	Region           string `json:"region" binding:"max=100"`
	PostalCodeRanges string `json:"postalCodeRanges" binding:"omitempty,postalranges"`
	Published        bool   `json:"published"`
}

type CreateChapterResponse struct {
	ID        uint32 `json:"id"`
	Name      string `json:"name"`
	Region    string `json:"region,omitempty"`
	Published bool   `json:"published"`
}

// ChapterMemberRow is the report projection of one chapter member.
type ChapterMemberRow struct {
	MemberID        uint32     `json:"memberId"`
	MemberName      string     `json:"memberName"`
	Status          string     `json:"status"`
	Enabled         bool       `json:"enabled"`
	ChapterJoinDate *time.Time `json:"chapterJoinDate,omitempty"`
	LeaveReason     string     `json:"leaveReason,omitempty"`
}

type RemoveMemberRequest struct {
	Reason string `json:"reason" binding:"required,min=2,max=255"`
}
