package service

import (
	"context"

	"go.uber.org/zap"

	"fieldops/backend/internal/dto"
	"fieldops/backend/internal/model"
	"fieldops/backend/internal/repository"
)

// AuditService 审计日志业务接口
// Record 失败只记日志不阻断主流程：审计属旁路，业务写入已在事务内保证
type AuditService interface {
	Record(ctx context.Context, actorID, action, entityType, entityID string, details map[string]interface{})
	List(ctx context.Context, req *dto.AuditLogListRequest) ([]dto.AuditLogResponse, int64, error)
}

type auditService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAuditService 创建 AuditService 实例
func NewAuditService(repo *repository.Repository, logger *zap.Logger) AuditService {
	return &auditService{repo: repo, logger: logger}
}

func (s *auditService) Record(ctx context.Context, actorID, action, entityType, entityID string, details map[string]interface{}) {
	entry := &model.AuditLog{
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
	}
	if err := s.repo.Audit.Create(ctx, entry); err != nil {
		s.logger.Error("写入审计日志失败",
			zap.String("action", action),
			zap.String("entity_type", entityType),
			zap.String("entity_id", entityID),
			zap.Error(err),
		)
	}
}

func (s *auditService) List(ctx context.Context, req *dto.AuditLogListRequest) ([]dto.AuditLogResponse, int64, error) {
	logs, total, err := s.repo.Audit.List(ctx, req.ActorID, req.EntityType, req.EntityID, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询审计日志失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.AuditLogResponse, 0, len(logs))
	for i := range logs {
		result = append(result, dto.AuditLogResponse{
			ID:         logs[i].AuditLogID,
			ActorID:    logs[i].ActorID,
			Action:     logs[i].Action,
			EntityType: logs[i].EntityType,
			EntityID:   logs[i].EntityID,
			Details:    logs[i].Details,
			OccurredAt: logs[i].OccurredAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	return result, total, nil
}
