package repository

import (
	"context"

	"gorm.io/gorm"

	"fieldops/backend/internal/model"
)

// ZoneRepository 地理围栏数据访问接口
type ZoneRepository interface {
	Create(ctx context.Context, zone *model.LocationZone) error
	GetByID(ctx context.Context, id string) (*model.LocationZone, error)
	GetByIDs(ctx context.Context, ids []string) ([]model.LocationZone, error)
	Update(ctx context.Context, zone *model.LocationZone) error
	Delete(ctx context.Context, id string, deletedBy string) error
	List(ctx context.Context, departmentID string, includeInactive bool) ([]model.LocationZone, error)
}

// zoneRepo ZoneRepository 的 GORM 实现
type zoneRepo struct {
	db *gorm.DB
}

// NewZoneRepo 创建 ZoneRepository 实例
func NewZoneRepo(db *gorm.DB) ZoneRepository {
	return &zoneRepo{db: db}
}

func (r *zoneRepo) Create(ctx context.Context, zone *model.LocationZone) error {
	return r.db.WithContext(ctx).Create(zone).Error
}

func (r *zoneRepo) GetByID(ctx context.Context, id string) (*model.LocationZone, error) {
	var zone model.LocationZone
	err := r.db.WithContext(ctx).Where("zone_id = ?", id).First(&zone).Error
	if err != nil {
		return nil, err
	}
	return &zone, nil
}

func (r *zoneRepo) GetByIDs(ctx context.Context, ids []string) ([]model.LocationZone, error) {
	var zones []model.LocationZone
	err := r.db.WithContext(ctx).Where("zone_id IN ?", ids).Find(&zones).Error
	return zones, err
}

func (r *zoneRepo) Update(ctx context.Context, zone *model.LocationZone) error {
	return r.db.WithContext(ctx).Save(zone).Error
}

func (r *zoneRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	if err := r.db.WithContext(ctx).Model(&model.LocationZone{}).
		Where("zone_id = ?", id).
		Update("deleted_by", deletedBy).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Where("zone_id = ?", id).Delete(&model.LocationZone{}).Error
}

func (r *zoneRepo) List(ctx context.Context, departmentID string, includeInactive bool) ([]model.LocationZone, error) {
	var zones []model.LocationZone
	db := r.db.WithContext(ctx)
	if departmentID != "" {
		db = db.Where("department_id = ?", departmentID)
	}
	if !includeInactive {
		db = db.Where("is_active = ?", true)
	}
	err := db.Order("name ASC").Find(&zones).Error
	return zones, err
}
