package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"fieldops/backend/pkg/geo"
)

// ── 任务状态常量 ──
// 状态单调推进：pending → in_progress → completed，不可回退。
// expired 在数据模型中保留，但当前没有任何流转驱动它（见 DESIGN.md）。

const (
	AssignmentStatusPending    = "pending"
	AssignmentStatusInProgress = "in_progress"
	AssignmentStatusCompleted  = "completed"
	AssignmentStatusExpired    = "expired"
)

// ZoneList 任务创建时快照的围栏列表，存为 JSONB。
// 快照而非外键引用：围栏配置后续变更不影响历史任务的范围判定。
type ZoneList []geo.Zone

// Scan 实现 sql.Scanner，将 JSONB 反序列化为围栏列表
func (z *ZoneList) Scan(src interface{}) error {
	if src == nil {
		*z = nil
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("ZoneList.Scan: unsupported type %T", src)
	}
	return json.Unmarshal(b, z)
}

// Value 实现 driver.Valuer，将围栏列表序列化为 JSONB
func (z ZoneList) Value() (driver.Value, error) {
	if z == nil {
		return nil, nil
	}
	return json.Marshal(z)
}

// ChecklistAssignment 检查任务表 — 对应 checklist_assignments
// 目标二选一：AssignedToUserID 与 AssignedToTeamID 恰有一个非空
type ChecklistAssignment struct {
	AssignmentID     string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"assignment_id"`
	TemplateID       string     `gorm:"type:uuid;not null"                             json:"template_id"`
	AssignedToUserID *string    `gorm:"type:uuid"                                      json:"assigned_to_user_id,omitempty"`
	AssignedToTeamID *string    `gorm:"type:uuid"                                      json:"assigned_to_team_id,omitempty"`
	AssignedByID     string     `gorm:"type:uuid;not null"                             json:"assigned_by_id"`
	Status           string     `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	Zones            ZoneList   `gorm:"type:jsonb"                                     json:"zones"`
	DueDate          *time.Time `json:"due_date,omitempty"`
	CompletedDate    *time.Time `json:"completed_date,omitempty"`
	VersionedModel

	// 关联
	Template       *ChecklistTemplate `gorm:"foreignKey:TemplateID;references:TemplateID"       json:"template,omitempty"`
	AssignedToUser *User              `gorm:"foreignKey:AssignedToUserID;references:UserID"     json:"assigned_to_user,omitempty"`
	AssignedToTeam *Team              `gorm:"foreignKey:AssignedToTeamID;references:TeamID"     json:"assigned_to_team,omitempty"`
}

// TableName 指定表名
func (ChecklistAssignment) TableName() string { return "checklist_assignments" }

// IsOpen 任务是否仍可提交（pending / in_progress）
func (a *ChecklistAssignment) IsOpen() bool {
	return a.Status == AssignmentStatusPending || a.Status == AssignmentStatusInProgress
}
