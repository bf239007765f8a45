package model

// ── 角色常量 ──
// 层级自上而下：super_admin > admin > department_head > operator

const (
	RoleSuperAdmin     = "super_admin"
	RoleAdmin          = "admin"
	RoleDepartmentHead = "department_head"
	RoleOperator       = "operator"
)

// User 用户表 — 对应 users
type User struct {
	UserID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name         string  `gorm:"type:varchar(100);not null"                     json:"name"`
	EmployeeID   string  `gorm:"type:varchar(20);not null"                      json:"employee_id"`
	Email        string  `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash string  `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string  `gorm:"type:varchar(20);not null;default:'operator'"   json:"role"`
	DepartmentID string  `gorm:"type:uuid;not null"                             json:"department_id"`
	TeamID       *string `gorm:"type:uuid"                                      json:"team_id,omitempty"`
	IsActive     bool    `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel

	// 关联
	Department *Department `gorm:"foreignKey:DepartmentID;references:DepartmentID" json:"department,omitempty"`
	Team       *Team       `gorm:"foreignKey:TeamID;references:TeamID"             json:"team,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }
