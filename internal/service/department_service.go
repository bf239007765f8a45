package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"fieldops/backend/internal/dto"
	"fieldops/backend/internal/model"
	"fieldops/backend/internal/repository"
)

// ── 部门模块业务错误 ──

var (
	ErrDepartmentNotFound = errors.New("部门不存在")
	ErrDepartmentCode     = errors.New("部门编码已被使用")
)

// DepartmentService 部门管理接口
type DepartmentService interface {
	CreateDepartment(ctx context.Context, req *dto.CreateDepartmentRequest, callerID string) (*dto.DepartmentResponse, error)
	GetDepartment(ctx context.Context, departmentID string) (*dto.DepartmentResponse, error)
	UpdateDepartment(ctx context.Context, departmentID string, req *dto.UpdateDepartmentRequest, callerID string) (*dto.DepartmentResponse, error)
	DeleteDepartment(ctx context.Context, departmentID string, callerID string) error
	ListDepartments(ctx context.Context, includeInactive bool) ([]dto.DepartmentResponse, error)
}

type departmentService struct {
	repo   *repository.Repository
	audit  AuditService
	logger *zap.Logger
}

// NewDepartmentService 创建 DepartmentService 实例
func NewDepartmentService(repo *repository.Repository, audit AuditService, logger *zap.Logger) DepartmentService {
	return &departmentService{repo: repo, audit: audit, logger: logger}
}

func (s *departmentService) CreateDepartment(ctx context.Context, req *dto.CreateDepartmentRequest, callerID string) (*dto.DepartmentResponse, error) {
	if _, err := s.repo.Department.GetByCode(ctx, req.Code); err == nil {
		return nil, ErrDepartmentCode
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询部门失败", zap.Error(err))
		return nil, err
	}

	dept := &model.Department{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		IsActive:    true,
	}
	dept.CreatedBy = &callerID
	dept.UpdatedBy = &callerID

	if err := s.repo.Department.Create(ctx, dept); err != nil {
		s.logger.Error("创建部门失败", zap.Error(err))
		return nil, err
	}

	s.audit.Record(ctx, callerID, "create", "department", dept.DepartmentID, map[string]interface{}{
		"code": dept.Code,
	})

	return toDepartmentResponse(dept), nil
}

func (s *departmentService) GetDepartment(ctx context.Context, departmentID string) (*dto.DepartmentResponse, error) {
	dept, err := s.repo.Department.GetByID(ctx, departmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		s.logger.Error("查询部门失败", zap.Error(err))
		return nil, err
	}
	return toDepartmentResponse(dept), nil
}

func (s *departmentService) UpdateDepartment(ctx context.Context, departmentID string, req *dto.UpdateDepartmentRequest, callerID string) (*dto.DepartmentResponse, error) {
	dept, err := s.repo.Department.GetByID(ctx, departmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		s.logger.Error("查询部门失败", zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		dept.Name = *req.Name
	}
	if req.Description != nil {
		dept.Description = *req.Description
	}
	if req.IsActive != nil {
		dept.IsActive = *req.IsActive
	}
	dept.UpdatedBy = &callerID

	if err := s.repo.Department.Update(ctx, dept); err != nil {
		s.logger.Error("更新部门失败", zap.Error(err))
		return nil, err
	}

	s.audit.Record(ctx, callerID, "update", "department", departmentID, nil)
	return toDepartmentResponse(dept), nil
}

func (s *departmentService) DeleteDepartment(ctx context.Context, departmentID string, callerID string) error {
	if _, err := s.repo.Department.GetByID(ctx, departmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDepartmentNotFound
		}
		s.logger.Error("查询部门失败", zap.Error(err))
		return err
	}

	if err := s.repo.Department.Delete(ctx, departmentID, callerID); err != nil {
		s.logger.Error("删除部门失败", zap.Error(err))
		return err
	}

	s.audit.Record(ctx, callerID, "delete", "department", departmentID, nil)
	return nil
}

func (s *departmentService) ListDepartments(ctx context.Context, includeInactive bool) ([]dto.DepartmentResponse, error) {
	depts, err := s.repo.Department.List(ctx, includeInactive)
	if err != nil {
		s.logger.Error("查询部门列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.DepartmentResponse, 0, len(depts))
	for i := range depts {
		result = append(result, *toDepartmentResponse(&depts[i]))
	}
	return result, nil
}

func toDepartmentResponse(dept *model.Department) *dto.DepartmentResponse {
	return &dto.DepartmentResponse{
		ID:          dept.DepartmentID,
		Name:        dept.Name,
		Code:        dept.Code,
		Description: dept.Description,
		IsActive:    dept.IsActive,
		CreatedAt:   dept.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   dept.UpdatedAt.Format(time.RFC3339),
	}
}
