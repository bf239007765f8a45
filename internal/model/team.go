package model

// Team 班组表 — 对应 teams（隶属于部门）
type Team struct {
	TeamID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"team_id"`
	Name         string  `gorm:"type:varchar(100);not null"                     json:"name"`
	DepartmentID string  `gorm:"type:uuid;not null"                             json:"department_id"`
	LeaderID     *string `gorm:"type:uuid"                                      json:"leader_id,omitempty"`
	IsActive     bool    `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel

	// 关联
	Department *Department `gorm:"foreignKey:DepartmentID;references:DepartmentID" json:"department,omitempty"`
}

// TableName 指定表名
func (Team) TableName() string { return "teams" }
