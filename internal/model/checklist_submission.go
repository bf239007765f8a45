package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ── 答案类型常量 ──

const (
	AnswerTypeText    = "text"
	AnswerTypeNumber  = "number"
	AnswerTypeChoice  = "choice"
	AnswerTypeChecked = "checked"
)

// Answer 单个检查项的作答 — 显式标注类型，不使用无结构 JSON
type Answer struct {
	ItemID string `json:"item_id"`
	Type   string `json:"type"` // text | number | choice | checked
	Value  string `json:"value"`
}

// AnswerList 有序作答列表，存为 JSONB
type AnswerList []Answer

// Scan 实现 sql.Scanner
func (a *AnswerList) Scan(src interface{}) error {
	if src == nil {
		*a = nil
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("AnswerList.Scan: unsupported type %T", src)
	}
	return json.Unmarshal(b, a)
}

// Value 实现 driver.Valuer
func (a AnswerList) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}

// ChecklistSubmission 检查单提交记录表 — 对应 checklist_submissions
// 与任务 1:1（assignment_id 唯一索引），创建后不可变，只追加不修改
type ChecklistSubmission struct {
	SubmissionID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"  json:"submission_id"`
	AssignmentID string    `gorm:"type:uuid;not null;uniqueIndex"                  json:"assignment_id"`
	UserID       string    `gorm:"type:uuid;not null;index"                        json:"user_id"`
	// 提交时刻的组织快照，不做活外键遍历
	DepartmentIDAtSubmission string  `gorm:"type:uuid;not null"                    json:"department_id_at_submission"`
	TeamIDAtSubmission       *string `gorm:"type:uuid"                             json:"team_id_at_submission,omitempty"`

	Answers     AnswerList `gorm:"type:jsonb;not null"                             json:"answers"`
	Latitude    float64    `gorm:"type:numeric(10,8);not null"                     json:"latitude"`
	Longitude   float64    `gorm:"type:numeric(11,8);not null"                     json:"longitude"`
	SubmittedAt time.Time  `gorm:"not null"                                        json:"submitted_at"`
	Status      string     `gorm:"type:varchar(20);not null;default:'completed'"   json:"status"`
	BaseModel

	// 关联
	Assignment *ChecklistAssignment `gorm:"foreignKey:AssignmentID;references:AssignmentID" json:"assignment,omitempty"`
	User       *User                `gorm:"foreignKey:UserID;references:UserID"             json:"user,omitempty"`
}

// TableName 指定表名
func (ChecklistSubmission) TableName() string { return "checklist_submissions" }
