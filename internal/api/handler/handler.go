package handler

import "fieldops/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	User       *UserHandler
	Department *DepartmentHandler
	Zone       *ZoneHandler
	Question   *QuestionHandler
	Template   *TemplateHandler
	Checklist  *ChecklistHandler
	Audit      *AuditHandler
	Export     *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		User:       NewUserHandler(svc.User),
		Department: NewDepartmentHandler(svc.Department, svc.Team),
		Zone:       NewZoneHandler(svc.Zone),
		Question:   NewQuestionHandler(svc.Question),
		Template:   NewTemplateHandler(svc.Template),
		Checklist:  NewChecklistHandler(svc.Checklist),
		Audit:      NewAuditHandler(svc.Audit),
		Export:     NewExportHandler(svc.Export),
	}
}
