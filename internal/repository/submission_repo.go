package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"fieldops/backend/internal/model"
)

// SubmissionRepository 提交记录数据访问接口（只读 + 追加，不提供修改删除）
type SubmissionRepository interface {
	GetByID(ctx context.Context, id string) (*model.ChecklistSubmission, error)
	GetByAssignment(ctx context.Context, assignmentID string) (*model.ChecklistSubmission, error)
	List(ctx context.Context, departmentID string, from, to *time.Time, offset, limit int) ([]model.ChecklistSubmission, int64, error)
}

// submissionRepo SubmissionRepository 的 GORM 实现
type submissionRepo struct {
	db *gorm.DB
}

// NewSubmissionRepo 创建 SubmissionRepository 实例
func NewSubmissionRepo(db *gorm.DB) SubmissionRepository {
	return &submissionRepo{db: db}
}

func (r *submissionRepo) GetByID(ctx context.Context, id string) (*model.ChecklistSubmission, error) {
	var sub model.ChecklistSubmission
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("submission_id = ?", id).
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *submissionRepo) GetByAssignment(ctx context.Context, assignmentID string) (*model.ChecklistSubmission, error) {
	var sub model.ChecklistSubmission
	err := r.db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *submissionRepo) List(ctx context.Context, departmentID string, from, to *time.Time, offset, limit int) ([]model.ChecklistSubmission, int64, error) {
	var subs []model.ChecklistSubmission
	var total int64

	db := r.db.WithContext(ctx).Model(&model.ChecklistSubmission{})
	if departmentID != "" {
		db = db.Where("department_id_at_submission = ?", departmentID)
	}
	if from != nil {
		db = db.Where("submitted_at >= ?", *from)
	}
	if to != nil {
		db = db.Where("submitted_at < ?", *to)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("User").
		Offset(offset).Limit(limit).
		Order("submitted_at DESC").
		Find(&subs).Error; err != nil {
		return nil, 0, err
	}

	return subs, total, nil
}
