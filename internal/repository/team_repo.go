package repository

import (
	"context"

	"gorm.io/gorm"

	"fieldops/backend/internal/model"
)

// TeamRepository 班组数据访问接口
type TeamRepository interface {
	Create(ctx context.Context, team *model.Team) error
	GetByID(ctx context.Context, id string) (*model.Team, error)
	Update(ctx context.Context, team *model.Team) error
	Delete(ctx context.Context, id string, deletedBy string) error
	ListByDepartment(ctx context.Context, departmentID string) ([]model.Team, error)
}

// teamRepo TeamRepository 的 GORM 实现
type teamRepo struct {
	db *gorm.DB
}

// NewTeamRepo 创建 TeamRepository 实例
func NewTeamRepo(db *gorm.DB) TeamRepository {
	return &teamRepo{db: db}
}

func (r *teamRepo) Create(ctx context.Context, team *model.Team) error {
	return r.db.WithContext(ctx).Create(team).Error
}

func (r *teamRepo) GetByID(ctx context.Context, id string) (*model.Team, error) {
	var team model.Team
	err := r.db.WithContext(ctx).
		Preload("Department").
		Where("team_id = ?", id).
		First(&team).Error
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *teamRepo) Update(ctx context.Context, team *model.Team) error {
	return r.db.WithContext(ctx).Save(team).Error
}

func (r *teamRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	if err := r.db.WithContext(ctx).Model(&model.Team{}).
		Where("team_id = ?", id).
		Update("deleted_by", deletedBy).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Where("team_id = ?", id).Delete(&model.Team{}).Error
}

func (r *teamRepo) ListByDepartment(ctx context.Context, departmentID string) ([]model.Team, error) {
	var teams []model.Team
	err := r.db.WithContext(ctx).
		Where("department_id = ?", departmentID).
		Order("name ASC").
		Find(&teams).Error
	return teams, err
}
