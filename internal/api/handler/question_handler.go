package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"fieldops/backend/internal/dto"
	"fieldops/backend/internal/service"
	"fieldops/backend/pkg/response"
)

// QuestionHandler 题库模块 HTTP 处理器
type QuestionHandler struct {
	questionSvc service.QuestionService
}

// NewQuestionHandler 创建 QuestionHandler
func NewQuestionHandler(questionSvc service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionSvc: questionSvc}
}

// CreatePool 创建题库
// POST /api/v1/question-pools
func (h *QuestionHandler) CreatePool(c *gin.Context) {
	var req dto.CreatePoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	pool, err := h.questionSvc.CreatePool(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleQuestionError(c, err)
		return
	}

	response.Created(c, pool)
}

// GetPool 获取题库详情（含题目）
// GET /api/v1/question-pools/:id
func (h *QuestionHandler) GetPool(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "题库ID不能为空")
		return
	}

	pool, err := h.questionSvc.GetPool(c.Request.Context(), id)
	if err != nil {
		h.handleQuestionError(c, err)
		return
	}

	response.OK(c, pool)
}

// UpdatePool 更新题库
// PUT /api/v1/question-pools/:id
func (h *QuestionHandler) UpdatePool(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "题库ID不能为空")
		return
	}

	var req dto.UpdatePoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	pool, err := h.questionSvc.UpdatePool(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleQuestionError(c, err)
		return
	}

	response.OK(c, pool)
}

// DeletePool 删除题库（软删除）
// DELETE /api/v1/question-pools/:id
func (h *QuestionHandler) DeletePool(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "题库ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.questionSvc.DeletePool(c.Request.Context(), id, callerID); err != nil {
		h.handleQuestionError(c, err)
		return
	}

	response.OK(c, nil)
}

// ListPools 题库列表
// GET /api/v1/question-pools
func (h *QuestionHandler) ListPools(c *gin.Context) {
	pools, err := h.questionSvc.ListPools(c.Request.Context(), c.Query("department_id"))
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": pools})
}

// AddQuestion 题库新增题目
// POST /api/v1/question-pools/:id/questions
func (h *QuestionHandler) AddQuestion(c *gin.Context) {
	poolID := c.Param("id")
	if poolID == "" {
		response.BadRequest(c, 10001, "题库ID不能为空")
		return
	}

	var req dto.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	q, err := h.questionSvc.AddQuestion(c.Request.Context(), poolID, &req, callerID)
	if err != nil {
		h.handleQuestionError(c, err)
		return
	}

	response.Created(c, q)
}

// UpdateQuestion 更新题目
// PUT /api/v1/questions/:id
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "题目ID不能为空")
		return
	}

	var req dto.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	q, err := h.questionSvc.UpdateQuestion(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleQuestionError(c, err)
		return
	}

	response.OK(c, q)
}

// DeleteQuestion 删除题目（软删除）
// DELETE /api/v1/questions/:id
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "题目ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.questionSvc.DeleteQuestion(c.Request.Context(), id, callerID); err != nil {
		h.handleQuestionError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleQuestionError 统一处理题库模块业务错误
func (h *QuestionHandler) handleQuestionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPoolNotFound):
		response.NotFound(c, 15001, "题库不存在")
	case errors.Is(err, service.ErrPoolDepartment):
		response.BadRequest(c, 15002, "部门不存在")
	case errors.Is(err, service.ErrQuestionNotFound):
		response.NotFound(c, 15003, "题目不存在")
	default:
		response.InternalError(c)
	}
}
