package dto

// ── 题库模块 DTO ──

// CreatePoolRequest 创建题库请求
type CreatePoolRequest struct {
	Name         string `json:"name"          binding:"required,min=2,max=200"`
	Description  string `json:"description"   binding:"omitempty,max=500"`
	DepartmentID string `json:"department_id" binding:"required,uuid"`
}

// UpdatePoolRequest 更新题库请求
type UpdatePoolRequest struct {
	Name        *string `json:"name"        binding:"omitempty,min=2,max=200"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	IsActive    *bool   `json:"is_active"`
}

// CreateQuestionRequest 新增题目请求
type CreateQuestionRequest struct {
	Title      string `json:"title"       binding:"required,min=2,max=200"`
	Details    string `json:"details"     binding:"omitempty,max=2000"`
	OrderIndex int    `json:"order_index" binding:"omitempty,min=0"`
}

// UpdateQuestionRequest 更新题目请求
type UpdateQuestionRequest struct {
	Title      *string `json:"title"       binding:"omitempty,min=2,max=200"`
	Details    *string `json:"details"     binding:"omitempty,max=2000"`
	OrderIndex *int    `json:"order_index" binding:"omitempty,min=0"`
	IsActive   *bool   `json:"is_active"`
}

// PoolResponse 题库信息响应
type PoolResponse struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Description  string             `json:"description,omitempty"`
	DepartmentID string             `json:"department_id"`
	IsActive     bool               `json:"is_active"`
	Questions    []QuestionResponse `json:"questions,omitempty"`
}

// QuestionResponse 题目信息响应
type QuestionResponse struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Details    string `json:"details,omitempty"`
	OrderIndex int    `json:"order_index"`
	IsActive   bool   `json:"is_active"`
}
