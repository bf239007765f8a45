package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"fieldops/backend/internal/dto"
	"fieldops/backend/internal/service"
	"fieldops/backend/pkg/response"
)

// ZoneHandler 地理围栏模块 HTTP 处理器
type ZoneHandler struct {
	zoneSvc service.ZoneService
}

// NewZoneHandler 创建 ZoneHandler
func NewZoneHandler(zoneSvc service.ZoneService) *ZoneHandler {
	return &ZoneHandler{zoneSvc: zoneSvc}
}

// CreateZone 创建围栏
// POST /api/v1/zones
func (h *ZoneHandler) CreateZone(c *gin.Context) {
	var req dto.CreateZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	zone, err := h.zoneSvc.CreateZone(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleZoneError(c, err)
		return
	}

	response.Created(c, zone)
}

// GetZone 获取围栏详情
// GET /api/v1/zones/:id
func (h *ZoneHandler) GetZone(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "围栏ID不能为空")
		return
	}

	zone, err := h.zoneSvc.GetZone(c.Request.Context(), id)
	if err != nil {
		h.handleZoneError(c, err)
		return
	}

	response.OK(c, zone)
}

// UpdateZone 更新围栏
// PUT /api/v1/zones/:id
func (h *ZoneHandler) UpdateZone(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "围栏ID不能为空")
		return
	}

	var req dto.UpdateZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	zone, err := h.zoneSvc.UpdateZone(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleZoneError(c, err)
		return
	}

	response.OK(c, zone)
}

// DeleteZone 删除围栏（软删除，不影响已下发任务的快照）
// DELETE /api/v1/zones/:id
func (h *ZoneHandler) DeleteZone(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "围栏ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.zoneSvc.DeleteZone(c.Request.Context(), id, callerID); err != nil {
		h.handleZoneError(c, err)
		return
	}

	response.OK(c, nil)
}

// ListZones 围栏列表
// GET /api/v1/zones
func (h *ZoneHandler) ListZones(c *gin.Context) {
	var req dto.ZoneListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	zones, err := h.zoneSvc.ListZones(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": zones})
}

// handleZoneError 统一处理围栏模块业务错误
func (h *ZoneHandler) handleZoneError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrZoneNotFound):
		response.NotFound(c, 14001, "围栏不存在")
	case errors.Is(err, service.ErrZoneCoordinate):
		response.BadRequest(c, 14002, "围栏坐标或半径不合法")
	case errors.Is(err, service.ErrZoneDepartment):
		response.BadRequest(c, 14003, "部门不存在")
	default:
		response.InternalError(c)
	}
}
