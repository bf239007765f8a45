package dto

// ── 部门 / 班组模块 DTO ──

// CreateDepartmentRequest 创建部门请求
type CreateDepartmentRequest struct {
	Name        string `json:"name"        binding:"required,min=2,max=50"`
	Code        string `json:"code"        binding:"required,max=50"`
	Description string `json:"description" binding:"omitempty,max=500"`
}

// UpdateDepartmentRequest 更新部门请求
type UpdateDepartmentRequest struct {
	Name        *string `json:"name"        binding:"omitempty,min=2,max=50"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	IsActive    *bool   `json:"is_active"`
}

// DepartmentResponse 部门信息响应
type DepartmentResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"is_active"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// CreateTeamRequest 创建班组请求
type CreateTeamRequest struct {
	Name         string  `json:"name"          binding:"required,min=2,max=100"`
	DepartmentID string  `json:"department_id" binding:"required,uuid"`
	LeaderID     *string `json:"leader_id"     binding:"omitempty,uuid"`
}

// UpdateTeamRequest 更新班组请求
type UpdateTeamRequest struct {
	Name     *string `json:"name"      binding:"omitempty,min=2,max=100"`
	LeaderID *string `json:"leader_id" binding:"omitempty,uuid"`
	IsActive *bool   `json:"is_active"`
}

// TeamResponse 班组信息响应
type TeamResponse struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Department *DepartmentBrief `json:"department,omitempty"`
	LeaderID   *string          `json:"leader_id,omitempty"`
	IsActive   bool             `json:"is_active"`
}
