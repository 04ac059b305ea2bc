package model

import "time"

// Member lifecycle status
const (
	MemberStatusPending    = "Pending"
	MemberStatusActive     = "Active"
	MemberStatusSuspended  = "Suspended"
	MemberStatusTerminated = "Terminated"
	MemberStatusRejected   = "Rejected"
)

// Application status carried on the member record. An application is not a
// separate entity; it is the Pending → Under Review → Approved/Rejected →
// Completed track of the member that submitted it.
const (
	ApplicationStatusPending     = "Pending"
	ApplicationStatusUnderReview = "Under Review"
	ApplicationStatusApproved    = "Approved"
	ApplicationStatusRejected    = "Rejected"
	ApplicationStatusCompleted   = "Completed"
)

// Member represents the applicant/person record at the center of the system.
type Member struct {
	ID uint32 `gorm:"column:id;primaryKey;autoIncrement"`

	// Identity
	FirstName  string `gorm:"column:first_name;type:VARCHAR2(50);not null"`
	MiddleName string `gorm:"column:middle_name;type:VARCHAR2(50)"`
	LastName   string `gorm:"column:last_name;type:VARCHAR2(50);not null"`
	FullName   string `gorm:"column:full_name;type:VARCHAR2(160);not null"`
	Email      string `gorm:"column:email;type:VARCHAR2(255);not null;uniqueIndex:idx_member_email"`
	BirthDate  string `gorm:"column:birth_date;type:VARCHAR2(10);not null"` // ISO date (YYYY-MM-DD)
	Phone      string `gorm:"column:phone;type:VARCHAR2(30)"`

	// Lifecycle
	Status string `gorm:"column:status;type:VARCHAR2(20);not null;default:Pending"`

	// Application tracking
	ApplicationID          string     `gorm:"column:application_id;type:VARCHAR2(20);uniqueIndex:idx_member_application_id"`
	ApplicationStatus      string     `gorm:"column:application_status;type:VARCHAR2(20)"`
	ApplicationDate        *time.Time `gorm:"column:application_date"`
	SelectedMembershipType string     `gorm:"column:selected_membership_type;type:VARCHAR2(100)"`
	SelectedChapter        string     `gorm:"column:selected_chapter;type:VARCHAR2(100)"`
	ReviewedAt             *time.Time `gorm:"column:reviewed_at"`
	ReviewedBy             string     `gorm:"column:reviewed_by;type:VARCHAR2(255)"`
	RejectionReason        string     `gorm:"column:rejection_reason;type:VARCHAR2(500)"`

	// Fee override. Custom amount data is a typed JSON column, not a marker
	// embedded in free text, so it can be read back without regex scraping.
	MembershipFeeOverride *float64   `gorm:"column:membership_fee_override"`
	FeeOverrideReason     string     `gorm:"column:fee_override_reason;type:VARCHAR2(255)"`
	FeeOverrideDate       *time.Time `gorm:"column:fee_override_date"`
	FeeOverrideBy         string     `gorm:"column:fee_override_by;type:VARCHAR2(255)"`
	CustomAmountData      string     `gorm:"column:custom_amount_data;type:VARCHAR2(2000)"`

	InterestedInVolunteering bool   `gorm:"column:interested_in_volunteering;not null;default:false"`
	PrimaryAddressID         *uint32 `gorm:"column:primary_address_id"`

	// Notes is append-only admin visibility text. Nothing parses it back.
	Notes string `gorm:"column:notes;type:VARCHAR2(4000)"`

	BaseEntity
}

func (*Member) TableName() string {
	return "member"
}

// AppendNote adds a human-readable line to the member's notes field.
func (m *Member) AppendNote(line string) {
	if m.Notes == "" {
		m.Notes = line
		return
	}
	m.Notes = m.Notes + "\n" + line
}
