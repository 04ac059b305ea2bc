package model

// Volunteer status. VolunteerStatusNew is the only valid initial state for a
// volunteer created from an application; it must never start out "Pending"
// (that value belongs to the member lifecycle, not the volunteer one).
const (
	VolunteerStatusNew        = "New"
	VolunteerStatusOnboarding = "Onboarding"
	VolunteerStatusActive     = "Active"
	VolunteerStatusInactive   = "Inactive"
	VolunteerStatusRetired    = "Retired"
)

// Skill proficiency scale
const (
	ProficiencyBeginner     = "1 - Beginner"
	ProficiencyBasic        = "2 - Basic"
	ProficiencyIntermediate = "3 - Intermediate"
	ProficiencyAdvanced     = "4 - Advanced"
	ProficiencyExpert       = "5 - Expert"
)

// Skill categories assigned by keyword matching
const (
	SkillCategoryTechnical      = "Technical"
	SkillCategoryEventPlanning  = "Event Planning"
	SkillCategoryCommunication  = "Communication"
	SkillCategoryLeadership     = "Leadership"
	SkillCategoryFinancial      = "Financial"
	SkillCategoryOrganizational = "Organizational"
	SkillCategoryOther          = "Other"
)

// Volunteer is the optional record created when an applicant flags interest
// in volunteering.
type Volunteer struct {
	ID uint32 `gorm:"column:id;primaryKey;autoIncrement"`

	MemberID uint32 `gorm:"column:member_id;not null;uniqueIndex:idx_volunteer_member"`
	Name     string `gorm:"column:name;type:VARCHAR2(160);not null"`
	Email    string `gorm:"column:email;type:VARCHAR2(255);not null"`
	Status   string `gorm:"column:status;type:VARCHAR2(20);not null;default:New"`

	Skills []VolunteerSkill `gorm:"foreignKey:VolunteerID"`

	BaseEntity
}

func (*Volunteer) TableName() string {
	return "volunteer"
}

// VolunteerSkill is a skills/qualifications child row parsed from the
// application's volunteer_skills payload.
type VolunteerSkill struct {
	ID uint32 `gorm:"column:id;primaryKey;autoIncrement"`

	VolunteerID      uint32 `gorm:"column:volunteer_id;not null;index:idx_volunteer_skill_volunteer"`
	SkillName        string `gorm:"column:skill_name;type:VARCHAR2(100);not null"`
	ProficiencyLevel string `gorm:"column:proficiency_level;type:VARCHAR2(20);not null"`
	Category         string `gorm:"column:category;type:VARCHAR2(30);not null"`

	BaseEntity
}

func (*VolunteerSkill) TableName() string {
	return "volunteer_skill"
}
