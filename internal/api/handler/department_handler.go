package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"fieldops/backend/internal/dto"
	"fieldops/backend/internal/service"
	"fieldops/backend/pkg/response"
)

// DepartmentHandler 部门 / 班组模块 HTTP 处理器
type DepartmentHandler struct {
	deptSvc service.DepartmentService
	teamSvc service.TeamService
}

// NewDepartmentHandler 创建 DepartmentHandler
func NewDepartmentHandler(deptSvc service.DepartmentService, teamSvc service.TeamService) *DepartmentHandler {
	return &DepartmentHandler{deptSvc: deptSvc, teamSvc: teamSvc}
}

// ── 部门 ──

// CreateDepartment 创建部门
// POST /api/v1/departments
func (h *DepartmentHandler) CreateDepartment(c *gin.Context) {
	var req dto.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	dept, err := h.deptSvc.CreateDepartment(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleDeptError(c, err)
		return
	}

	response.Created(c, dept)
}

// GetDepartment 获取部门详情
// GET /api/v1/departments/:id
func (h *DepartmentHandler) GetDepartment(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "部门ID不能为空")
		return
	}

	dept, err := h.deptSvc.GetDepartment(c.Request.Context(), id)
	if err != nil {
		h.handleDeptError(c, err)
		return
	}

	response.OK(c, dept)
}

// UpdateDepartment 更新部门
// PUT /api/v1/departments/:id
func (h *DepartmentHandler) UpdateDepartment(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "部门ID不能为空")
		return
	}

	var req dto.UpdateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	dept, err := h.deptSvc.UpdateDepartment(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleDeptError(c, err)
		return
	}

	response.OK(c, dept)
}

// DeleteDepartment 删除部门（软删除）
// DELETE /api/v1/departments/:id
func (h *DepartmentHandler) DeleteDepartment(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "部门ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.deptSvc.DeleteDepartment(c.Request.Context(), id, callerID); err != nil {
		h.handleDeptError(c, err)
		return
	}

	response.OK(c, nil)
}

// ListDepartments 部门列表
// GET /api/v1/departments
func (h *DepartmentHandler) ListDepartments(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"

	depts, err := h.deptSvc.ListDepartments(c.Request.Context(), includeInactive)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": depts})
}

// ── 班组 ──

// CreateTeam 创建班组
// POST /api/v1/teams
func (h *DepartmentHandler) CreateTeam(c *gin.Context) {
	var req dto.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	team, err := h.teamSvc.CreateTeam(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleTeamError(c, err)
		return
	}

	response.Created(c, team)
}

// GetTeam 获取班组详情
// GET /api/v1/teams/:id
func (h *DepartmentHandler) GetTeam(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "班组ID不能为空")
		return
	}

	team, err := h.teamSvc.GetTeam(c.Request.Context(), id)
	if err != nil {
		h.handleTeamError(c, err)
		return
	}

	response.OK(c, team)
}

// UpdateTeam 更新班组
// PUT /api/v1/teams/:id
func (h *DepartmentHandler) UpdateTeam(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "班组ID不能为空")
		return
	}

	var req dto.UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	team, err := h.teamSvc.UpdateTeam(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleTeamError(c, err)
		return
	}

	response.OK(c, team)
}

// DeleteTeam 删除班组（软删除）
// DELETE /api/v1/teams/:id
func (h *DepartmentHandler) DeleteTeam(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "班组ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.teamSvc.DeleteTeam(c.Request.Context(), id, callerID); err != nil {
		h.handleTeamError(c, err)
		return
	}

	response.OK(c, nil)
}

// ListTeams 部门下的班组列表
// GET /api/v1/departments/:id/teams
func (h *DepartmentHandler) ListTeams(c *gin.Context) {
	deptID := c.Param("id")
	if deptID == "" {
		response.BadRequest(c, 10001, "部门ID不能为空")
		return
	}

	teams, err := h.teamSvc.ListTeamsByDepartment(c.Request.Context(), deptID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": teams})
}

// handleDeptError 统一处理部门模块业务错误
func (h *DepartmentHandler) handleDeptError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDepartmentNotFound):
		response.NotFound(c, 13001, "部门不存在")
	case errors.Is(err, service.ErrDepartmentCode):
		response.Conflict(c, 13002, "部门编码已被使用")
	default:
		response.InternalError(c)
	}
}

// handleTeamError 统一处理班组模块业务错误
func (h *DepartmentHandler) handleTeamError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTeamNotFound):
		response.NotFound(c, 13101, "班组不存在")
	case errors.Is(err, service.ErrTeamDepartment):
		response.BadRequest(c, 13102, "部门不存在")
	case errors.Is(err, service.ErrTeamLeader):
		response.BadRequest(c, 13103, "负责人不存在")
	default:
		response.InternalError(c)
	}
}
