package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"fieldops/backend/internal/model"
	pkgerrors "fieldops/backend/pkg/errors"
)

// AssignmentRepository 检查任务数据访问接口
type AssignmentRepository interface {
	Create(ctx context.Context, a *model.ChecklistAssignment) error
	GetByID(ctx context.Context, id string) (*model.ChecklistAssignment, error)
	Update(ctx context.Context, a *model.ChecklistAssignment) error
	Delete(ctx context.Context, id string, deletedBy string) error
	// ListOpenForTarget 操作员轮询：目标为本人或本人班组、状态未完成的任务
	ListOpenForTarget(ctx context.Context, userID string, teamID *string) ([]model.ChecklistAssignment, error)
	List(ctx context.Context, status string, offset, limit int) ([]model.ChecklistAssignment, int64, error)
	ListDueBetween(ctx context.Context, userID string, teamID *string, from, to time.Time) ([]model.ChecklistAssignment, error)
	// CompleteWithSubmission 提交记录写入与状态推进在同一事务内完成。
	// 状态推进带 CAS 条件（仅 pending/in_progress 可完成）；
	// 竞争提交命中 0 行时返回 ErrOptimisticLock，事务整体回滚。
	CompleteWithSubmission(ctx context.Context, assignmentID string, sub *model.ChecklistSubmission) error
}

// assignmentRepo AssignmentRepository 的 GORM 实现
type assignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepo 创建 AssignmentRepository 实例
func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) Create(ctx context.Context, a *model.ChecklistAssignment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *assignmentRepo) GetByID(ctx context.Context, id string) (*model.ChecklistAssignment, error) {
	var a model.ChecklistAssignment
	err := r.db.WithContext(ctx).
		Preload("Template").
		Where("assignment_id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assignmentRepo) Update(ctx context.Context, a *model.ChecklistAssignment) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *assignmentRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	// 软删除墓碑：历史提交与审计记录保持可追溯
	if err := r.db.WithContext(ctx).Model(&model.ChecklistAssignment{}).
		Where("assignment_id = ?", id).
		Update("deleted_by", deletedBy).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Where("assignment_id = ?", id).Delete(&model.ChecklistAssignment{}).Error
}

func (r *assignmentRepo) ListOpenForTarget(ctx context.Context, userID string, teamID *string) ([]model.ChecklistAssignment, error) {
	var assignments []model.ChecklistAssignment
	db := r.db.WithContext(ctx).Preload("Template")

	openStatuses := []string{model.AssignmentStatusPending, model.AssignmentStatusInProgress}
	if teamID != nil {
		db = db.Where(
			"(assigned_to_user_id = ? OR assigned_to_team_id = ?) AND status IN ?",
			userID, *teamID, openStatuses,
		)
	} else {
		db = db.Where("assigned_to_user_id = ? AND status IN ?", userID, openStatuses)
	}

	err := db.Order("created_at ASC").Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepo) List(ctx context.Context, status string, offset, limit int) ([]model.ChecklistAssignment, int64, error) {
	var assignments []model.ChecklistAssignment
	var total int64

	db := r.db.WithContext(ctx).Model(&model.ChecklistAssignment{})
	if status != "" {
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Template").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&assignments).Error; err != nil {
		return nil, 0, err
	}

	return assignments, total, nil
}

func (r *assignmentRepo) ListDueBetween(ctx context.Context, userID string, teamID *string, from, to time.Time) ([]model.ChecklistAssignment, error) {
	var assignments []model.ChecklistAssignment
	db := r.db.WithContext(ctx).Preload("Template").
		Where("due_date IS NOT NULL AND due_date >= ? AND due_date < ?", from, to)

	if teamID != nil {
		db = db.Where("(assigned_to_user_id = ? OR assigned_to_team_id = ?)", userID, *teamID)
	} else {
		db = db.Where("assigned_to_user_id = ?", userID)
	}

	err := db.Order("due_date ASC").Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepo) CompleteWithSubmission(ctx context.Context, assignmentID string, sub *model.ChecklistSubmission) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 状态 CAS：仅未完成任务可推进到 completed
		res := tx.Model(&model.ChecklistAssignment{}).
			Where("assignment_id = ? AND status IN ?",
				assignmentID,
				[]string{model.AssignmentStatusPending, model.AssignmentStatusInProgress}).
			Updates(map[string]interface{}{
				"status":         model.AssignmentStatusCompleted,
				"completed_date": sub.SubmittedAt,
				"updated_by":     sub.UserID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return pkgerrors.ErrOptimisticLock
		}

		// 提交记录与状态推进同事务；assignment_id 唯一约束兜底重复提交
		if err := tx.Create(sub).Error; err != nil {
			return err
		}
		return nil
	})
}
