package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"fieldops/backend/internal/dto"
	"fieldops/backend/internal/model"
	"fieldops/backend/internal/repository"
	"fieldops/backend/pkg/geo"
)

// ── 地理围栏模块业务错误 ──

var (
	ErrZoneNotFound   = errors.New("围栏不存在")
	ErrZoneCoordinate = errors.New("围栏坐标或半径不合法")
	ErrZoneDepartment = errors.New("围栏所属部门不存在")
)

// ZoneService 地理围栏配置接口
type ZoneService interface {
	CreateZone(ctx context.Context, req *dto.CreateZoneRequest, callerID string) (*dto.ZoneResponse, error)
	GetZone(ctx context.Context, zoneID string) (*dto.ZoneResponse, error)
	UpdateZone(ctx context.Context, zoneID string, req *dto.UpdateZoneRequest, callerID string) (*dto.ZoneResponse, error)
	DeleteZone(ctx context.Context, zoneID string, callerID string) error
	ListZones(ctx context.Context, req *dto.ZoneListRequest) ([]dto.ZoneResponse, error)
}

type zoneService struct {
	repo   *repository.Repository
	audit  AuditService
	logger *zap.Logger
}

// NewZoneService 创建 ZoneService 实例
func NewZoneService(repo *repository.Repository, audit AuditService, logger *zap.Logger) ZoneService {
	return &zoneService{repo: repo, audit: audit, logger: logger}
}

func (s *zoneService) CreateZone(ctx context.Context, req *dto.CreateZoneRequest, callerID string) (*dto.ZoneResponse, error) {
	// 绑定层已限界，此处兜底
	if !geo.ValidLatitude(*req.CenterLatitude) || !geo.ValidLongitude(*req.CenterLongitude) || *req.RadiusMeters < 0 {
		return nil, ErrZoneCoordinate
	}

	if _, err := s.repo.Department.GetByID(ctx, req.DepartmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrZoneDepartment
		}
		s.logger.Error("查询部门失败", zap.Error(err))
		return nil, err
	}

	zone := &model.LocationZone{
		Name:            req.Name,
		Description:     req.Description,
		CenterLatitude:  *req.CenterLatitude,
		CenterLongitude: *req.CenterLongitude,
		RadiusMeters:    *req.RadiusMeters,
		DepartmentID:    req.DepartmentID,
		IsActive:        true,
	}
	zone.CreatedBy = &callerID
	zone.UpdatedBy = &callerID

	if err := s.repo.Zone.Create(ctx, zone); err != nil {
		s.logger.Error("创建围栏失败", zap.Error(err))
		return nil, err
	}

	s.audit.Record(ctx, callerID, "create", "location_zone", zone.ZoneID, map[string]interface{}{
		"name":          zone.Name,
		"radius_meters": zone.RadiusMeters,
	})

	return toZoneResponse(zone), nil
}

func (s *zoneService) GetZone(ctx context.Context, zoneID string) (*dto.ZoneResponse, error) {
	zone, err := s.repo.Zone.GetByID(ctx, zoneID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrZoneNotFound
		}
		s.logger.Error("查询围栏失败", zap.Error(err))
		return nil, err
	}
	return toZoneResponse(zone), nil
}

func (s *zoneService) UpdateZone(ctx context.Context, zoneID string, req *dto.UpdateZoneRequest, callerID string) (*dto.ZoneResponse, error) {
	zone, err := s.repo.Zone.GetByID(ctx, zoneID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrZoneNotFound
		}
		s.logger.Error("查询围栏失败", zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		zone.Name = *req.Name
	}
	if req.Description != nil {
		zone.Description = *req.Description
	}
	if req.CenterLatitude != nil {
		if !geo.ValidLatitude(*req.CenterLatitude) {
			return nil, ErrZoneCoordinate
		}
		zone.CenterLatitude = *req.CenterLatitude
	}
	if req.CenterLongitude != nil {
		if !geo.ValidLongitude(*req.CenterLongitude) {
			return nil, ErrZoneCoordinate
		}
		zone.CenterLongitude = *req.CenterLongitude
	}
	if req.RadiusMeters != nil {
		if *req.RadiusMeters < 0 {
			return nil, ErrZoneCoordinate
		}
		zone.RadiusMeters = *req.RadiusMeters
	}
	if req.IsActive != nil {
		zone.IsActive = *req.IsActive
	}
	zone.UpdatedBy = &callerID

	// 已下发任务持有创建时刻的快照，不受围栏更新影响
	if err := s.repo.Zone.Update(ctx, zone); err != nil {
		s.logger.Error("更新围栏失败", zap.Error(err))
		return nil, err
	}

	s.audit.Record(ctx, callerID, "update", "location_zone", zone.ZoneID, nil)
	return toZoneResponse(zone), nil
}

func (s *zoneService) DeleteZone(ctx context.Context, zoneID string, callerID string) error {
	if _, err := s.repo.Zone.GetByID(ctx, zoneID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrZoneNotFound
		}
		s.logger.Error("查询围栏失败", zap.Error(err))
		return err
	}

	if err := s.repo.Zone.Delete(ctx, zoneID, callerID); err != nil {
		s.logger.Error("删除围栏失败", zap.Error(err))
		return err
	}

	s.audit.Record(ctx, callerID, "delete", "location_zone", zoneID, nil)
	return nil
}

func (s *zoneService) ListZones(ctx context.Context, req *dto.ZoneListRequest) ([]dto.ZoneResponse, error) {
	zones, err := s.repo.Zone.List(ctx, req.DepartmentID, req.IncludeInactive)
	if err != nil {
		s.logger.Error("查询围栏列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.ZoneResponse, 0, len(zones))
	for i := range zones {
		result = append(result, *toZoneResponse(&zones[i]))
	}
	return result, nil
}

func toZoneResponse(zone *model.LocationZone) *dto.ZoneResponse {
	return &dto.ZoneResponse{
		ID:              zone.ZoneID,
		Name:            zone.Name,
		Description:     zone.Description,
		CenterLatitude:  zone.CenterLatitude,
		CenterLongitude: zone.CenterLongitude,
		RadiusMeters:    zone.RadiusMeters,
		DepartmentID:    zone.DepartmentID,
		IsActive:        zone.IsActive,
	}
}
