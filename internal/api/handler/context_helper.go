package handler

import (
	"github.com/gin-gonic/gin"

	"fieldops/backend/internal/service"
	"fieldops/backend/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (string, bool) {
	v, exists := c.Get("role")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetDepartmentID 从 Gin 上下文中安全提取 department_id。
func MustGetDepartmentID(c *gin.Context) (string, bool) {
	v, exists := c.Get("department_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// GetTeamID 提取可选的 team_id（无班组用户返回 nil）。
func GetTeamID(c *gin.Context) *string {
	v, exists := c.Get("team_id")
	if !exists {
		return nil
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}

// MustGetSubmitter 组装提交人上下文，任一必填声明缺失即写 401。
func MustGetSubmitter(c *gin.Context) (*service.SubmitterContext, bool) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return nil, false
	}
	role, ok := MustGetRole(c)
	if !ok {
		return nil, false
	}
	deptID, ok := MustGetDepartmentID(c)
	if !ok {
		return nil, false
	}
	return &service.SubmitterContext{
		UserID:       userID,
		Role:         role,
		DepartmentID: deptID,
		TeamID:       GetTeamID(c),
	}, true
}
