package repository

import (
	"context"

	"gorm.io/gorm"

	"fieldops/backend/internal/model"
)

// QuestionPoolRepository 题库数据访问接口
type QuestionPoolRepository interface {
	CreatePool(ctx context.Context, pool *model.QuestionPool) error
	GetPoolByID(ctx context.Context, id string) (*model.QuestionPool, error)
	UpdatePool(ctx context.Context, pool *model.QuestionPool) error
	DeletePool(ctx context.Context, id string, deletedBy string) error
	ListPools(ctx context.Context, departmentID string) ([]model.QuestionPool, error)
	CreateQuestion(ctx context.Context, q *model.Question) error
	GetQuestionByID(ctx context.Context, id string) (*model.Question, error)
	UpdateQuestion(ctx context.Context, q *model.Question) error
	DeleteQuestion(ctx context.Context, id string, deletedBy string) error
}

// questionPoolRepo QuestionPoolRepository 的 GORM 实现
type questionPoolRepo struct {
	db *gorm.DB
}

// NewQuestionPoolRepo 创建 QuestionPoolRepository 实例
func NewQuestionPoolRepo(db *gorm.DB) QuestionPoolRepository {
	return &questionPoolRepo{db: db}
}

func (r *questionPoolRepo) CreatePool(ctx context.Context, pool *model.QuestionPool) error {
	return r.db.WithContext(ctx).Create(pool).Error
}

func (r *questionPoolRepo) GetPoolByID(ctx context.Context, id string) (*model.QuestionPool, error) {
	var pool model.QuestionPool
	err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.order_index ASC")
		}).
		Where("pool_id = ?", id).
		First(&pool).Error
	if err != nil {
		return nil, err
	}
	return &pool, nil
}

func (r *questionPoolRepo) UpdatePool(ctx context.Context, pool *model.QuestionPool) error {
	return r.db.WithContext(ctx).Save(pool).Error
}

func (r *questionPoolRepo) DeletePool(ctx context.Context, id string, deletedBy string) error {
	if err := r.db.WithContext(ctx).Model(&model.QuestionPool{}).
		Where("pool_id = ?", id).
		Update("deleted_by", deletedBy).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Where("pool_id = ?", id).Delete(&model.QuestionPool{}).Error
}

func (r *questionPoolRepo) ListPools(ctx context.Context, departmentID string) ([]model.QuestionPool, error) {
	var pools []model.QuestionPool
	db := r.db.WithContext(ctx)
	if departmentID != "" {
		db = db.Where("department_id = ?", departmentID)
	}
	err := db.Order("name ASC").Find(&pools).Error
	return pools, err
}

func (r *questionPoolRepo) CreateQuestion(ctx context.Context, q *model.Question) error {
	return r.db.WithContext(ctx).Create(q).Error
}

func (r *questionPoolRepo) GetQuestionByID(ctx context.Context, id string) (*model.Question, error) {
	var q model.Question
	err := r.db.WithContext(ctx).Where("question_id = ?", id).First(&q).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *questionPoolRepo) UpdateQuestion(ctx context.Context, q *model.Question) error {
	return r.db.WithContext(ctx).Save(q).Error
}

func (r *questionPoolRepo) DeleteQuestion(ctx context.Context, id string, deletedBy string) error {
	if err := r.db.WithContext(ctx).Model(&model.Question{}).
		Where("question_id = ?", id).
		Update("deleted_by", deletedBy).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Where("question_id = ?", id).Delete(&model.Question{}).Error
}
