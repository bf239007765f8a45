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

// ── 检查单模板模块业务错误 ──

var (
	ErrTemplateNotFound   = errors.New("检查单模板不存在")
	ErrTemplateFrozen     = errors.New("模板已被任务引用，不可修改")
	ErrTemplateDepartment = errors.New("模板所属部门不存在")
)

// TemplateService 检查单模板管理接口
type TemplateService interface {
	CreateTemplate(ctx context.Context, req *dto.CreateTemplateRequest, callerID string) (*dto.TemplateResponse, error)
	GetTemplate(ctx context.Context, templateID string) (*dto.TemplateResponse, error)
	// UpdateTemplate 模板冻结：已被任务引用的模板拒绝修改
	UpdateTemplate(ctx context.Context, templateID string, req *dto.UpdateTemplateRequest, callerID string) (*dto.TemplateResponse, error)
	DeleteTemplate(ctx context.Context, templateID string, callerID string) error
	ListTemplates(ctx context.Context, req *dto.TemplateListRequest) ([]dto.TemplateResponse, int64, error)
}

type templateService struct {
	repo   *repository.Repository
	audit  AuditService
	logger *zap.Logger
}

// NewTemplateService 创建 TemplateService 实例
func NewTemplateService(repo *repository.Repository, audit AuditService, logger *zap.Logger) TemplateService {
	return &templateService{repo: repo, audit: audit, logger: logger}
}

func (s *templateService) CreateTemplate(ctx context.Context, req *dto.CreateTemplateRequest, callerID string) (*dto.TemplateResponse, error) {
	if _, err := s.repo.Department.GetByID(ctx, req.DepartmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateDepartment
		}
		s.logger.Error("查询部门失败", zap.Error(err))
		return nil, err
	}

	requireAll := true
	if req.RequireAllItems != nil {
		requireAll = *req.RequireAllItems
	}

	tpl := &model.ChecklistTemplate{
		Name:            req.Name,
		Description:     req.Description,
		DepartmentID:    req.DepartmentID,
		RequireAllItems: requireAll,
		IsActive:        true,
	}
	tpl.CreatedBy = &callerID
	tpl.UpdatedBy = &callerID

	items := make([]model.ChecklistItem, 0, len(req.Items))
	for i, it := range req.Items {
		required := true
		if it.IsRequired != nil {
			required = *it.IsRequired
		}
		orderIndex := it.OrderIndex
		if orderIndex == 0 {
			orderIndex = i
		}
		item := model.ChecklistItem{
			Title:            it.Title,
			Description:      it.Description,
			OrderIndex:       orderIndex,
			IsRequired:       required,
			RequiresEvidence: it.RequiresEvidence,
			EvidenceType:     it.EvidenceType,
			IsActive:         true,
		}
		item.CreatedBy = &callerID
		item.UpdatedBy = &callerID
		items = append(items, item)
	}

	if err := s.repo.Template.CreateWithItems(ctx, tpl, items); err != nil {
		s.logger.Error("创建模板失败", zap.Error(err))
		return nil, err
	}
	tpl.Items = items

	s.audit.Record(ctx, callerID, "create", "checklist_template", tpl.TemplateID, map[string]interface{}{
		"name":       tpl.Name,
		"item_count": len(items),
	})

	return toTemplateResponse(tpl), nil
}

func (s *templateService) GetTemplate(ctx context.Context, templateID string) (*dto.TemplateResponse, error) {
	tpl, err := s.repo.Template.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		s.logger.Error("查询模板失败", zap.Error(err))
		return nil, err
	}
	return toTemplateResponse(tpl), nil
}

func (s *templateService) UpdateTemplate(ctx context.Context, templateID string, req *dto.UpdateTemplateRequest, callerID string) (*dto.TemplateResponse, error) {
	tpl, err := s.repo.Template.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		s.logger.Error("查询模板失败", zap.Error(err))
		return nil, err
	}

	// 模板冻结：被引用后不可修改，编辑请另建新模板
	frozen, err := s.repo.Template.HasAssignments(ctx, templateID)
	if err != nil {
		s.logger.Error("查询模板引用失败", zap.Error(err))
		return nil, err
	}
	if frozen {
		return nil, ErrTemplateFrozen
	}

	if req.Name != nil {
		tpl.Name = *req.Name
	}
	if req.Description != nil {
		tpl.Description = *req.Description
	}
	if req.IsActive != nil {
		tpl.IsActive = *req.IsActive
	}
	tpl.UpdatedBy = &callerID

	if err := s.repo.Template.Update(ctx, tpl); err != nil {
		s.logger.Error("更新模板失败", zap.Error(err))
		return nil, err
	}

	s.audit.Record(ctx, callerID, "update", "checklist_template", templateID, nil)
	return toTemplateResponse(tpl), nil
}

func (s *templateService) DeleteTemplate(ctx context.Context, templateID string, callerID string) error {
	if _, err := s.repo.Template.GetByID(ctx, templateID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTemplateNotFound
		}
		s.logger.Error("查询模板失败", zap.Error(err))
		return err
	}

	frozen, err := s.repo.Template.HasAssignments(ctx, templateID)
	if err != nil {
		s.logger.Error("查询模板引用失败", zap.Error(err))
		return err
	}
	if frozen {
		return ErrTemplateFrozen
	}

	if err := s.repo.Template.Delete(ctx, templateID, callerID); err != nil {
		s.logger.Error("删除模板失败", zap.Error(err))
		return err
	}

	s.audit.Record(ctx, callerID, "delete", "checklist_template", templateID, nil)
	return nil
}

func (s *templateService) ListTemplates(ctx context.Context, req *dto.TemplateListRequest) ([]dto.TemplateResponse, int64, error) {
	tpls, total, err := s.repo.Template.List(ctx, req.DepartmentID, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询模板列表失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.TemplateResponse, 0, len(tpls))
	for i := range tpls {
		result = append(result, *toTemplateResponse(&tpls[i]))
	}
	return result, total, nil
}

func toTemplateResponse(tpl *model.ChecklistTemplate) *dto.TemplateResponse {
	return &dto.TemplateResponse{
		ID:              tpl.TemplateID,
		Name:            tpl.Name,
		Description:     tpl.Description,
		DepartmentID:    tpl.DepartmentID,
		RequireAllItems: tpl.RequireAllItems,
		IsActive:        tpl.IsActive,
		Items:           toItemResponses(tpl.Items),
	}
}
