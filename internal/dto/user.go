package dto

// ── 用户模块 DTO ──

// CreateUserRequest 创建用户请求（管理员）
type CreateUserRequest struct {
	Name         string  `json:"name"          binding:"required,min=2,max=100"`
	EmployeeID   string  `json:"employee_id"   binding:"required,max=20"`
	Email        string  `json:"email"         binding:"required,email,max=255"`
	Password     string  `json:"password"      binding:"required,min=8,max=72"`
	Role         string  `json:"role"          binding:"required,oneof=super_admin admin department_head operator"`
	DepartmentID string  `json:"department_id" binding:"required,uuid"`
	TeamID       *string `json:"team_id"       binding:"omitempty,uuid"`
}

// UpdateUserRequest 更新用户请求
type UpdateUserRequest struct {
	Name         *string `json:"name"          binding:"omitempty,min=2,max=100"`
	Email        *string `json:"email"         binding:"omitempty,email,max=255"`
	DepartmentID *string `json:"department_id" binding:"omitempty,uuid"`
	TeamID       *string `json:"team_id"       binding:"omitempty,uuid"`
	IsActive     *bool   `json:"is_active"`
}

// AssignRoleRequest 调整角色请求
type AssignRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=super_admin admin department_head operator"`
}

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	PaginationRequest
	DepartmentID string `form:"department_id" binding:"omitempty,uuid"`
	Role         string `form:"role"          binding:"omitempty,oneof=super_admin admin department_head operator"`
}

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	EmployeeID string           `json:"employee_id"`
	Email      string           `json:"email"`
	Role       string           `json:"role"`
	Department *DepartmentBrief `json:"department,omitempty"`
	Team       *TeamBrief       `json:"team,omitempty"`
	IsActive   bool             `json:"is_active"`
}
