package service

import (
	"go.uber.org/zap"

	"fieldops/backend/config"
	"fieldops/backend/internal/repository"
	"fieldops/backend/pkg/jwt"
	"fieldops/backend/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth       AuthService
	User       UserService
	Department DepartmentService
	Team       TeamService
	Zone       ZoneService
	Question   QuestionService
	Template   TemplateService
	Checklist  ChecklistService
	Audit      AuditService
	Export     ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	audit := NewAuditService(repo, logger)
	return &Service{
		Auth:       NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		User:       NewUserService(repo, audit, logger),
		Department: NewDepartmentService(repo, audit, logger),
		Team:       NewTeamService(repo, audit, logger),
		Zone:       NewZoneService(repo, audit, logger),
		Question:   NewQuestionService(repo, audit, logger),
		Template:   NewTemplateService(repo, audit, logger),
		Checklist:  NewChecklistService(repo, audit, logger),
		Audit:      audit,
		Export:     NewExportService(repo, logger),
	}
}
