package repository

import (
	"context"

	"gorm.io/gorm"

	"fieldops/backend/internal/model"
)

// AuditRepository 审计日志数据访问接口（只追加）
type AuditRepository interface {
	Create(ctx context.Context, entry *model.AuditLog) error
	List(ctx context.Context, actorID, entityType, entityID string, offset, limit int) ([]model.AuditLog, int64, error)
}

// auditRepo AuditRepository 的 GORM 实现
type auditRepo struct {
	db *gorm.DB
}

// NewAuditRepo 创建 AuditRepository 实例
func NewAuditRepo(db *gorm.DB) AuditRepository {
	return &auditRepo{db: db}
}

func (r *auditRepo) Create(ctx context.Context, entry *model.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *auditRepo) List(ctx context.Context, actorID, entityType, entityID string, offset, limit int) ([]model.AuditLog, int64, error) {
	var logs []model.AuditLog
	var total int64

	db := r.db.WithContext(ctx).Model(&model.AuditLog{})
	if actorID != "" {
		db = db.Where("actor_id = ?", actorID)
	}
	if entityType != "" {
		db = db.Where("entity_type = ?", entityType)
	}
	if entityID != "" {
		db = db.Where("entity_id = ?", entityID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("occurred_at DESC").
		Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}
