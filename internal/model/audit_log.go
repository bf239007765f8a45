package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// JSONMap 审计详情键值对，存为 JSONB
type JSONMap map[string]interface{}

// Scan 实现 sql.Scanner
func (m *JSONMap) Scan(src interface{}) error {
	if src == nil {
		*m = nil
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("JSONMap.Scan: unsupported type %T", src)
	}
	return json.Unmarshal(b, m)
}

// Value 实现 driver.Valuer
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// AuditLog 审计日志表 — 对应 audit_logs（只追加，永不修改或删除）
type AuditLog struct {
	AuditLogID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"audit_log_id"`
	ActorID    string    `gorm:"type:uuid;not null;index"                       json:"actor_id"`
	Action     string    `gorm:"type:varchar(50);not null"                      json:"action"` // create | update | delete | submit | login | logout
	EntityType string    `gorm:"type:varchar(50);not null"                      json:"entity_type"`
	EntityID   string    `gorm:"type:uuid;not null;index"                       json:"entity_id"`
	Details    JSONMap   `gorm:"type:jsonb"                                     json:"details,omitempty"`
	OccurredAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"occurred_at"`
}

// TableName 指定表名
func (AuditLog) TableName() string { return "audit_logs" }
