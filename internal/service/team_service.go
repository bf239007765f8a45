package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"fieldops/backend/internal/dto"
	"fieldops/backend/internal/model"
	"fieldops/backend/internal/repository"
)

// ── 班组模块业务错误 ──

var (
	ErrTeamNotFound   = errors.New("班组不存在")
	ErrTeamDepartment = errors.New("班组所属部门不存在")
	ErrTeamLeader     = errors.New("班组负责人不存在")
)

// TeamService 班组管理接口
type TeamService interface {
	CreateTeam(ctx context.Context, req *dto.CreateTeamRequest, callerID string) (*dto.TeamResponse, error)
	GetTeam(ctx context.Context, teamID string) (*dto.TeamResponse, error)
	UpdateTeam(ctx context.Context, teamID string, req *dto.UpdateTeamRequest, callerID string) (*dto.TeamResponse, error)
	DeleteTeam(ctx context.Context, teamID string, callerID string) error
	ListTeamsByDepartment(ctx context.Context, departmentID string) ([]dto.TeamResponse, error)
}

type teamService struct {
	repo   *repository.Repository
	audit  AuditService
	logger *zap.Logger
}

// NewTeamService 创建 TeamService 实例
func NewTeamService(repo *repository.Repository, audit AuditService, logger *zap.Logger) TeamService {
	return &teamService{repo: repo, audit: audit, logger: logger}
}

func (s *teamService) CreateTeam(ctx context.Context, req *dto.CreateTeamRequest, callerID string) (*dto.TeamResponse, error) {
	if _, err := s.repo.Department.GetByID(ctx, req.DepartmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamDepartment
		}
		s.logger.Error("查询部门失败", zap.Error(err))
		return nil, err
	}
	if req.LeaderID != nil {
		if _, err := s.repo.User.GetByID(ctx, *req.LeaderID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTeamLeader
			}
			s.logger.Error("查询用户失败", zap.Error(err))
			return nil, err
		}
	}

	team := &model.Team{
		Name:         req.Name,
		DepartmentID: req.DepartmentID,
		LeaderID:     req.LeaderID,
		IsActive:     true,
	}
	team.CreatedBy = &callerID
	team.UpdatedBy = &callerID

	if err := s.repo.Team.Create(ctx, team); err != nil {
		s.logger.Error("创建班组失败", zap.Error(err))
		return nil, err
	}

	s.audit.Record(ctx, callerID, "create", "team", team.TeamID, map[string]interface{}{
		"name": team.Name,
	})

	return toTeamResponse(team), nil
}

func (s *teamService) GetTeam(ctx context.Context, teamID string) (*dto.TeamResponse, error) {
	team, err := s.repo.Team.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		s.logger.Error("查询班组失败", zap.Error(err))
		return nil, err
	}
	return toTeamResponse(team), nil
}

func (s *teamService) UpdateTeam(ctx context.Context, teamID string, req *dto.UpdateTeamRequest, callerID string) (*dto.TeamResponse, error) {
	team, err := s.repo.Team.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		s.logger.Error("查询班组失败", zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		team.Name = *req.Name
	}
	if req.LeaderID != nil {
		if _, err := s.repo.User.GetByID(ctx, *req.LeaderID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTeamLeader
			}
			s.logger.Error("查询用户失败", zap.Error(err))
			return nil, err
		}
		team.LeaderID = req.LeaderID
	}
	if req.IsActive != nil {
		team.IsActive = *req.IsActive
	}
	team.UpdatedBy = &callerID

	if err := s.repo.Team.Update(ctx, team); err != nil {
		s.logger.Error("更新班组失败", zap.Error(err))
		return nil, err
	}

	s.audit.Record(ctx, callerID, "update", "team", teamID, nil)
	return toTeamResponse(team), nil
}

func (s *teamService) DeleteTeam(ctx context.Context, teamID string, callerID string) error {
	if _, err := s.repo.Team.GetByID(ctx, teamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeamNotFound
		}
		s.logger.Error("查询班组失败", zap.Error(err))
		return err
	}

	if err := s.repo.Team.Delete(ctx, teamID, callerID); err != nil {
		s.logger.Error("删除班组失败", zap.Error(err))
		return err
	}

	s.audit.Record(ctx, callerID, "delete", "team", teamID, nil)
	return nil
}

func (s *teamService) ListTeamsByDepartment(ctx context.Context, departmentID string) ([]dto.TeamResponse, error) {
	teams, err := s.repo.Team.ListByDepartment(ctx, departmentID)
	if err != nil {
		s.logger.Error("查询班组列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.TeamResponse, 0, len(teams))
	for i := range teams {
		result = append(result, *toTeamResponse(&teams[i]))
	}
	return result, nil
}

func toTeamResponse(team *model.Team) *dto.TeamResponse {
	resp := &dto.TeamResponse{
		ID:       team.TeamID,
		Name:     team.Name,
		LeaderID: team.LeaderID,
		IsActive: team.IsActive,
	}
	if team.Department != nil {
		resp.Department = &dto.DepartmentBrief{
			ID:   team.Department.DepartmentID,
			Name: team.Department.Name,
		}
	}
	return resp
}
