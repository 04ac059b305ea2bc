package model

// Staff roles allowed to review applications.
const (
	RoleSystemManager = "System Manager"
	RoleAdministrator = "Verenigingen Administrator"
	RoleManager       = "Verenigingen Manager"
)

// ReviewerRoles lists every role that may approve or reject an application.
var ReviewerRoles = []string{RoleSystemManager, RoleAdministrator, RoleManager}

// Staff is an internal user account. Applicants never log in; only staff do.
type Staff struct {
	ID uint32 `gorm:"column:id;primaryKey;autoIncrement"`

	Email    string `gorm:"column:email;type:VARCHAR2(255);not null;uniqueIndex:idx_staff_email"`
	Name     string `gorm:"column:name;type:VARCHAR2(100);not null"`
	Password string `gorm:"column:password;type:VARCHAR2(60);not null"` // bcrypt hash
	Role     string `gorm:"column:role;type:VARCHAR2(50);not null"`

	BaseEntity
}

func (*Staff) TableName() string {
	return "staff"
}
