package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"fieldops/backend/internal/dto"
	"fieldops/backend/internal/service"
	"fieldops/backend/pkg/response"
)

// TemplateHandler 检查单模板模块 HTTP 处理器
type TemplateHandler struct {
	templateSvc service.TemplateService
}

// NewTemplateHandler 创建 TemplateHandler
func NewTemplateHandler(templateSvc service.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateSvc: templateSvc}
}

// CreateTemplate 创建检查单模板（含检查项）
// POST /api/v1/checklist-templates
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	var req dto.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	tpl, err := h.templateSvc.CreateTemplate(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleTemplateError(c, err)
		return
	}

	response.Created(c, tpl)
}

// GetTemplate 获取模板详情
// GET /api/v1/checklist-templates/:id
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "模板ID不能为空")
		return
	}

	tpl, err := h.templateSvc.GetTemplate(c.Request.Context(), id)
	if err != nil {
		h.handleTemplateError(c, err)
		return
	}

	response.OK(c, tpl)
}

// UpdateTemplate 更新模板（被任务引用后冻结）
// PUT /api/v1/checklist-templates/:id
func (h *TemplateHandler) UpdateTemplate(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "模板ID不能为空")
		return
	}

	var req dto.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	tpl, err := h.templateSvc.UpdateTemplate(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleTemplateError(c, err)
		return
	}

	response.OK(c, tpl)
}

// DeleteTemplate 删除模板（软删除，被引用则拒绝）
// DELETE /api/v1/checklist-templates/:id
func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "模板ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.templateSvc.DeleteTemplate(c.Request.Context(), id, callerID); err != nil {
		h.handleTemplateError(c, err)
		return
	}

	response.OK(c, nil)
}

// ListTemplates 模板列表
// GET /api/v1/checklist-templates
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	var req dto.TemplateListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	tpls, total, err := h.templateSvc.ListTemplates(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, tpls, total, req.GetPage(), req.GetPageSize())
}

// handleTemplateError 统一处理模板模块业务错误
func (h *TemplateHandler) handleTemplateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTemplateNotFound):
		response.NotFound(c, 16001, "模板不存在")
	case errors.Is(err, service.ErrTemplateFrozen):
		response.Conflict(c, 16002, "模板已被任务引用，不可修改")
	case errors.Is(err, service.ErrTemplateDepartment):
		response.BadRequest(c, 16003, "部门不存在")
	default:
		response.InternalError(c)
	}
}
