package model

import "time"

// Invoice types
const (
	InvoiceTypeApplication = "Application"
	InvoiceTypeRenewal     = "Renewal"
)

// MembershipType describes a tier members can apply for. The standard amount
// resolves from the dues template amount when set, falling back to
// MinimumAmount.
type MembershipType struct {
	ID uint32 `gorm:"column:id;primaryKey;autoIncrement"`

	Name               string  `gorm:"column:name;type:VARCHAR2(100);not null;uniqueIndex:idx_membership_type_name"`
	Description        string  `gorm:"column:description;type:VARCHAR2(500)"`
	Active             bool    `gorm:"column:active;not null;default:true"`
	DuesTemplateAmount float64 `gorm:"column:dues_template_amount;not null;default:0"`
	MinimumAmount      float64 `gorm:"column:minimum_amount;not null;default:0"`

	BaseEntity
}

func (*MembershipType) TableName() string {
	return "membership_type"
}

// StandardAmount resolves the reference amount used by the custom-amount
// floor and the approval-time billing records.
func (t *MembershipType) StandardAmount() float64 {
	if t.DuesTemplateAmount > 0 {
		return t.DuesTemplateAmount
	}
	return t.MinimumAmount
}

// Membership is created once per approved application.
type Membership struct {
	ID uint32 `gorm:"column:id;primaryKey;autoIncrement"`

	MemberID       uint32    `gorm:"column:member_id;not null;uniqueIndex:idx_membership_member"`
	MembershipType string    `gorm:"column:membership_type;type:VARCHAR2(100);not null"`
	StartDate      time.Time `gorm:"column:start_date;not null"`
	Amount         float64   `gorm:"column:amount;not null"`

	BaseEntity
}

func (*Membership) TableName() string {
	return "membership"
}

// Invoice is the billing record raised for the application fee on approval.
type Invoice struct {
	ID uint32 `gorm:"column:id;primaryKey;autoIncrement"`

	MemberID    uint32  `gorm:"column:member_id;not null;index:idx_invoice_member"`
	InvoiceType string  `gorm:"column:invoice_type;type:VARCHAR2(30);not null"`
	Description string  `gorm:"column:description;type:VARCHAR2(255)"`
	Total       float64 `gorm:"column:total;not null"`
	Status      string  `gorm:"column:status;type:VARCHAR2(20);not null;default:Unpaid"`

	BaseEntity
}

func (*Invoice) TableName() string {
	return "invoice"
}

// DuesSchedule is the recurring-billing record derived from an approved
// membership and its resolved amount.
type DuesSchedule struct {
	ID uint32 `gorm:"column:id;primaryKey;autoIncrement"`

	MemberID       uint32  `gorm:"column:member_id;not null;uniqueIndex:idx_dues_schedule_member"`
	MembershipType string  `gorm:"column:membership_type;type:VARCHAR2(100);not null"`
	Rate           float64 `gorm:"column:rate;not null"`
	BillingPeriod  string  `gorm:"column:billing_period;type:VARCHAR2(20);not null;default:Annual"`

	BaseEntity
}

func (*DuesSchedule) TableName() string {
	return "dues_schedule"
}
