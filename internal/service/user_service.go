package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fieldops/backend/internal/dto"
	"fieldops/backend/internal/model"
	"fieldops/backend/internal/repository"
)

// ── 用户模块业务错误 ──

var (
	ErrEmployeeIDTaken  = errors.New("工号已被使用")
	ErrUserDepartment   = errors.New("用户所属部门不存在")
	ErrUserTeam         = errors.New("用户所属班组不存在")
	ErrRoleNotPermitted = errors.New("无权授予该角色")
)

// UserService 用户管理接口
type UserService interface {
	CreateUser(ctx context.Context, req *dto.CreateUserRequest, callerID, callerRole string) (*dto.UserResponse, error)
	GetUser(ctx context.Context, userID string) (*dto.UserResponse, error)
	UpdateUser(ctx context.Context, userID string, req *dto.UpdateUserRequest, callerID string) (*dto.UserResponse, error)
	// AssignRole 角色调整：仅 super_admin 可授予 super_admin
	AssignRole(ctx context.Context, userID string, req *dto.AssignRoleRequest, callerID, callerRole string) (*dto.UserResponse, error)
	DeleteUser(ctx context.Context, userID string, callerID string) error
	ListUsers(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error)
}

type userService struct {
	repo   *repository.Repository
	audit  AuditService
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, audit AuditService, logger *zap.Logger) UserService {
	return &userService{repo: repo, audit: audit, logger: logger}
}

func (s *userService) CreateUser(ctx context.Context, req *dto.CreateUserRequest, callerID, callerRole string) (*dto.UserResponse, error) {
	if req.Role == model.RoleSuperAdmin && callerRole != model.RoleSuperAdmin {
		return nil, ErrRoleNotPermitted
	}

	// 工号唯一
	if _, err := s.repo.User.GetByEmployeeID(ctx, req.EmployeeID); err == nil {
		return nil, ErrEmployeeIDTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	if _, err := s.repo.Department.GetByID(ctx, req.DepartmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserDepartment
		}
		s.logger.Error("查询部门失败", zap.Error(err))
		return nil, err
	}
	if req.TeamID != nil {
		if _, err := s.repo.Team.GetByID(ctx, *req.TeamID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserTeam
			}
			s.logger.Error("查询班组失败", zap.Error(err))
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Name:         req.Name,
		EmployeeID:   req.EmployeeID,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		DepartmentID: req.DepartmentID,
		TeamID:       req.TeamID,
		IsActive:     true,
	}
	user.CreatedBy = &callerID
	user.UpdatedBy = &callerID

	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	s.audit.Record(ctx, callerID, "create", "user", user.UserID, map[string]interface{}{
		"employee_id": user.EmployeeID,
		"role":        user.Role,
	})

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) GetUser(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) UpdateUser(ctx context.Context, userID string, req *dto.UpdateUserRequest, callerID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.DepartmentID != nil {
		if _, err := s.repo.Department.GetByID(ctx, *req.DepartmentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserDepartment
			}
			s.logger.Error("查询部门失败", zap.Error(err))
			return nil, err
		}
		user.DepartmentID = *req.DepartmentID
		user.Department = nil
	}
	if req.TeamID != nil {
		if _, err := s.repo.Team.GetByID(ctx, *req.TeamID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserTeam
			}
			s.logger.Error("查询班组失败", zap.Error(err))
			return nil, err
		}
		user.TeamID = req.TeamID
		user.Team = nil
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	user.UpdatedBy = &callerID

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新用户失败", zap.Error(err))
		return nil, err
	}

	s.audit.Record(ctx, callerID, "update", "user", userID, nil)
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) AssignRole(ctx context.Context, userID string, req *dto.AssignRoleRequest, callerID, callerRole string) (*dto.UserResponse, error) {
	if req.Role == model.RoleSuperAdmin && callerRole != model.RoleSuperAdmin {
		return nil, ErrRoleNotPermitted
	}

	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	previous := user.Role
	user.Role = req.Role
	user.UpdatedBy = &callerID
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新用户角色失败", zap.Error(err))
		return nil, err
	}

	s.audit.Record(ctx, callerID, "assign_role", "user", userID, map[string]interface{}{
		"from": previous,
		"to":   req.Role,
	})

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) DeleteUser(ctx context.Context, userID string, callerID string) error {
	if _, err := s.repo.User.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return err
	}

	if err := s.repo.User.Delete(ctx, userID, callerID); err != nil {
		s.logger.Error("删除用户失败", zap.Error(err))
		return err
	}

	s.audit.Record(ctx, callerID, "delete", "user", userID, nil)
	return nil
}

func (s *userService) ListUsers(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	users, total, err := s.repo.User.List(ctx, req.DepartmentID, req.Role, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询用户列表失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, toUserResponse(&users[i]))
	}
	return result, total, nil
}
