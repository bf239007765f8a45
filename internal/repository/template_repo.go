package repository

import (
	"context"

	"gorm.io/gorm"

	"fieldops/backend/internal/model"
)

// TemplateRepository 检查单模板数据访问接口
type TemplateRepository interface {
	// CreateWithItems 模板与检查项在同一事务内创建
	CreateWithItems(ctx context.Context, tpl *model.ChecklistTemplate, items []model.ChecklistItem) error
	GetByID(ctx context.Context, id string) (*model.ChecklistTemplate, error)
	ItemsFor(ctx context.Context, templateID string) ([]model.ChecklistItem, error)
	Update(ctx context.Context, tpl *model.ChecklistTemplate) error
	Delete(ctx context.Context, id string, deletedBy string) error
	List(ctx context.Context, departmentID string, offset, limit int) ([]model.ChecklistTemplate, int64, error)
	// HasAssignments 是否已有任务引用该模板（模板冻结判定）
	HasAssignments(ctx context.Context, templateID string) (bool, error)
}

// templateRepo TemplateRepository 的 GORM 实现
type templateRepo struct {
	db *gorm.DB
}

// NewTemplateRepo 创建 TemplateRepository 实例
func NewTemplateRepo(db *gorm.DB) TemplateRepository {
	return &templateRepo{db: db}
}

func (r *templateRepo) CreateWithItems(ctx context.Context, tpl *model.ChecklistTemplate, items []model.ChecklistItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(tpl).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].TemplateID = tpl.TemplateID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *templateRepo) GetByID(ctx context.Context, id string) (*model.ChecklistTemplate, error) {
	var tpl model.ChecklistTemplate
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("checklist_items.order_index ASC")
		}).
		Where("template_id = ?", id).
		First(&tpl).Error
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *templateRepo) ItemsFor(ctx context.Context, templateID string) ([]model.ChecklistItem, error) {
	var items []model.ChecklistItem
	err := r.db.WithContext(ctx).
		Where("template_id = ? AND is_active = ?", templateID, true).
		Order("order_index ASC").
		Find(&items).Error
	return items, err
}

func (r *templateRepo) Update(ctx context.Context, tpl *model.ChecklistTemplate) error {
	return r.db.WithContext(ctx).Save(tpl).Error
}

func (r *templateRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	if err := r.db.WithContext(ctx).Model(&model.ChecklistTemplate{}).
		Where("template_id = ?", id).
		Update("deleted_by", deletedBy).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Where("template_id = ?", id).Delete(&model.ChecklistTemplate{}).Error
}

func (r *templateRepo) List(ctx context.Context, departmentID string, offset, limit int) ([]model.ChecklistTemplate, int64, error) {
	var tpls []model.ChecklistTemplate
	var total int64

	db := r.db.WithContext(ctx).Model(&model.ChecklistTemplate{})
	if departmentID != "" {
		db = db.Where("department_id = ?", departmentID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&tpls).Error; err != nil {
		return nil, 0, err
	}

	return tpls, total, nil
}

func (r *templateRepo) HasAssignments(ctx context.Context, templateID string) (bool, error) {
	var count int64
	// Unscoped：软删除的任务仍然冻结模板，审计链不可回溯修改
	err := r.db.WithContext(ctx).Unscoped().
		Model(&model.ChecklistAssignment{}).
		Where("template_id = ?", templateID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
