package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"fieldops/backend/internal/dto"
	"fieldops/backend/internal/service"
	"fieldops/backend/pkg/response"
)

// ChecklistHandler 检查任务模块 HTTP 处理器
type ChecklistHandler struct {
	checklistSvc service.ChecklistService
}

// NewChecklistHandler 创建 ChecklistHandler
func NewChecklistHandler(checklistSvc service.ChecklistService) *ChecklistHandler {
	return &ChecklistHandler{checklistSvc: checklistSvc}
}

// ── 管理端 ──

// CreateAssignment 下发检查任务
// POST /api/v1/assignments
func (h *ChecklistHandler) CreateAssignment(c *gin.Context) {
	var req dto.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	assignment, err := h.checklistSvc.CreateAssignment(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleChecklistError(c, err)
		return
	}

	response.Created(c, assignment)
}

// ListAssignments 任务列表（管理端）
// GET /api/v1/assignments
func (h *ChecklistHandler) ListAssignments(c *gin.Context) {
	var req dto.AssignmentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	assignments, total, err := h.checklistSvc.ListAssignments(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, assignments, total, req.GetPage(), req.GetPageSize())
}

// DeleteAssignment 删除任务（软删除）
// DELETE /api/v1/assignments/:id
func (h *ChecklistHandler) DeleteAssignment(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "任务ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.checklistSvc.DeleteAssignment(c.Request.Context(), id, callerID); err != nil {
		h.handleChecklistError(c, err)
		return
	}

	response.OK(c, nil)
}

// GetSubmission 查询提交记录
// GET /api/v1/submissions/:id
func (h *ChecklistHandler) GetSubmission(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "提交记录ID不能为空")
		return
	}

	sub, err := h.checklistSvc.GetSubmission(c.Request.Context(), id)
	if err != nil {
		h.handleChecklistError(c, err)
		return
	}

	response.OK(c, sub)
}

// GetAssignmentSubmission 查询任务的提交记录
// GET /api/v1/assignments/:id/submission
func (h *ChecklistHandler) GetAssignmentSubmission(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "任务ID不能为空")
		return
	}

	sub, err := h.checklistSvc.GetSubmissionByAssignment(c.Request.Context(), id)
	if err != nil {
		h.handleChecklistError(c, err)
		return
	}

	response.OK(c, sub)
}

// ── 操作员端 ──

// ListMyAssignments 轮询本人 / 本人班组的未完成任务
// GET /api/v1/my/assignments
func (h *ChecklistHandler) ListMyAssignments(c *gin.Context) {
	submitter, ok := MustGetSubmitter(c)
	if !ok {
		return
	}

	assignments, err := h.checklistSvc.ListPendingFor(c.Request.Context(), submitter)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": assignments})
}

// GetMyAssignment 获取待提交任务详情（检查项 + 快照围栏）
// GET /api/v1/my/assignments/:id
func (h *ChecklistHandler) GetMyAssignment(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "任务ID不能为空")
		return
	}

	submitter, ok := MustGetSubmitter(c)
	if !ok {
		return
	}

	detail, err := h.checklistSvc.FetchForSubmission(c.Request.Context(), id, submitter)
	if err != nil {
		h.handleChecklistError(c, err)
		return
	}

	response.OK(c, detail)
}

// StartAssignment 标记开始执行
// POST /api/v1/my/assignments/:id/start
func (h *ChecklistHandler) StartAssignment(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "任务ID不能为空")
		return
	}

	submitter, ok := MustGetSubmitter(c)
	if !ok {
		return
	}

	if err := h.checklistSvc.StartAssignment(c.Request.Context(), id, submitter); err != nil {
		h.handleChecklistError(c, err)
		return
	}

	response.OK(c, nil)
}

// SubmitChecklist 提交检查单
// POST /api/v1/my/assignments/:id/submit
//
// 不在围栏范围内返回 200 + in_range=false，客户端据此提示换位置重试
func (h *ChecklistHandler) SubmitChecklist(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "任务ID不能为空")
		return
	}

	var req dto.SubmitChecklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	submitter, ok := MustGetSubmitter(c)
	if !ok {
		return
	}

	result, err := h.checklistSvc.SubmitAnswers(c.Request.Context(), id, &req, submitter)
	if err != nil {
		h.handleChecklistError(c, err)
		return
	}

	response.OK(c, result)
}

// handleChecklistError 统一处理检查任务模块业务错误
func (h *ChecklistHandler) handleChecklistError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAssignmentNotFound):
		response.NotFound(c, 17001, "任务不存在")
	case errors.Is(err, service.ErrAssignmentCompleted):
		response.Conflict(c, 17002, "任务已完成，不可重复提交")
	case errors.Is(err, service.ErrAssignmentTarget):
		response.BadRequest(c, 17003, "任务目标必须且只能指定用户或班组之一")
	case errors.Is(err, service.ErrNotAssignee):
		response.Forbidden(c, 17004, "当前用户不是该任务的执行人")
	case errors.Is(err, service.ErrAnswersInvalid):
		response.BadRequest(c, 17005, "作答内容不完整或不合法")
	case errors.Is(err, service.ErrSubmissionNotFound):
		response.NotFound(c, 17006, "提交记录不存在")
	case errors.Is(err, service.ErrTemplateNotFound):
		response.BadRequest(c, 16001, "模板不存在")
	case errors.Is(err, service.ErrZoneNotFound):
		response.BadRequest(c, 14001, "围栏不存在")
	default:
		response.InternalError(c)
	}
}
