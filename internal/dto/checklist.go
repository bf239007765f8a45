package dto

// ── 检查单模块 DTO ──

// CreateTemplateItemRequest 模板内单个检查项
type CreateTemplateItemRequest struct {
	Title            string  `json:"title"             binding:"required,min=2,max=200"`
	Description      string  `json:"description"       binding:"omitempty,max=2000"`
	OrderIndex       int     `json:"order_index"       binding:"omitempty,min=0"`
	IsRequired       *bool   `json:"is_required"`
	RequiresEvidence bool    `json:"requires_evidence"`
	EvidenceType     *string `json:"evidence_type"     binding:"omitempty,oneof=photo signature note file"`
}

// CreateTemplateRequest 创建检查单模板请求
type CreateTemplateRequest struct {
	Name            string                      `json:"name"              binding:"required,min=2,max=200"`
	Description     string                      `json:"description"       binding:"omitempty,max=2000"`
	DepartmentID    string                      `json:"department_id"     binding:"required,uuid"`
	RequireAllItems *bool                       `json:"require_all_items"`
	Items           []CreateTemplateItemRequest `json:"items"             binding:"required,min=1,dive"`
}

// UpdateTemplateRequest 更新检查单模板请求
// 已被任务引用的模板会被拒绝（模板冻结）
type UpdateTemplateRequest struct {
	Name        *string `json:"name"        binding:"omitempty,min=2,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	IsActive    *bool   `json:"is_active"`
}

// TemplateItemResponse 检查项响应
type TemplateItemResponse struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	Description      string  `json:"description,omitempty"`
	OrderIndex       int     `json:"order_index"`
	IsRequired       bool    `json:"is_required"`
	RequiresEvidence bool    `json:"requires_evidence"`
	EvidenceType     *string `json:"evidence_type,omitempty"`
}

// TemplateResponse 检查单模板响应
type TemplateResponse struct {
	ID              string                 `json:"id"`
	Name            string                 `json:"name"`
	Description     string                 `json:"description,omitempty"`
	DepartmentID    string                 `json:"department_id"`
	RequireAllItems bool                   `json:"require_all_items"`
	IsActive        bool                   `json:"is_active"`
	Items           []TemplateItemResponse `json:"items,omitempty"`
}

// TemplateListRequest 模板列表查询参数
type TemplateListRequest struct {
	PaginationRequest
	DepartmentID string `form:"department_id" binding:"omitempty,uuid"`
}

// CreateAssignmentRequest 下发检查任务请求
// 目标二选一：assigned_to_user_id 与 assigned_to_team_id 恰填一个
type CreateAssignmentRequest struct {
	TemplateID       string   `json:"template_id"         binding:"required,uuid"`
	AssignedToUserID *string  `json:"assigned_to_user_id" binding:"omitempty,uuid"`
	AssignedToTeamID *string  `json:"assigned_to_team_id" binding:"omitempty,uuid"`
	ZoneIDs          []string `json:"zone_ids"            binding:"required,min=1,dive,uuid"`
	DueDate          *string  `json:"due_date"            binding:"omitempty"` // RFC3339
}

// AssignmentResponse 检查任务响应
type AssignmentResponse struct {
	ID               string         `json:"id"`
	TemplateID       string         `json:"template_id"`
	TemplateName     string         `json:"template_name,omitempty"`
	AssignedToUserID *string        `json:"assigned_to_user_id,omitempty"`
	AssignedToTeamID *string        `json:"assigned_to_team_id,omitempty"`
	AssignedByID     string         `json:"assigned_by_id"`
	Status           string         `json:"status"`
	Zones            []ZoneSnapshot `json:"zones"`
	DueDate          *string        `json:"due_date,omitempty"`
	CompletedDate    *string        `json:"completed_date,omitempty"`
	CreatedAt        string         `json:"created_at"`
}

// ZoneSnapshot 任务上快照的围栏
type ZoneSnapshot struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters float64 `json:"radius_meters"`
}

// AssignmentDetailResponse 供提交使用的任务详情（模板项 + 快照围栏）
type AssignmentDetailResponse struct {
	ID           string                 `json:"id"`
	TemplateID   string                 `json:"template_id"`
	TemplateName string                 `json:"template_name"`
	Status       string                 `json:"status"`
	Items        []TemplateItemResponse `json:"items"`
	Zones        []ZoneSnapshot         `json:"zones"`
	DueDate      *string                `json:"due_date,omitempty"`
}

// AnswerRequest 单项作答
type AnswerRequest struct {
	ItemID string `json:"item_id" binding:"required,uuid"`
	Type   string `json:"type"    binding:"required,oneof=text number choice checked"`
	Value  string `json:"value"   binding:"required,max=4000"`
}

// SubmitChecklistRequest 提交检查单请求
// 经纬度用指针区分 0 值与缺失；范围越界在绑定阶段拦截
type SubmitChecklistRequest struct {
	Latitude  *float64        `json:"latitude"  binding:"required,gte=-90,lte=90"`
	Longitude *float64        `json:"longitude" binding:"required,gte=-180,lte=180"`
	Answers   []AnswerRequest `json:"answers"   binding:"required,min=1,dive"`
}

// SubmitChecklistResponse 提交检查单响应
// 不在围栏范围内不是错误：status=success 且 in_range=false，可重试
type SubmitChecklistResponse struct {
	Status       string  `json:"status"` // success | error
	InRange      bool    `json:"in_range"`
	Message      string  `json:"message"`
	SubmissionID *string `json:"submission_id,omitempty"`
}

// AnswerResponse 已存作答
type AnswerResponse struct {
	ItemID string `json:"item_id"`
	Type   string `json:"type"`
	Value  string `json:"value"`
}

// SubmissionResponse 提交记录响应
type SubmissionResponse struct {
	ID                       string           `json:"id"`
	AssignmentID             string           `json:"assignment_id"`
	UserID                   string           `json:"user_id"`
	DepartmentIDAtSubmission string           `json:"department_id_at_submission"`
	TeamIDAtSubmission       *string          `json:"team_id_at_submission,omitempty"`
	Answers                  []AnswerResponse `json:"answers"`
	Latitude                 float64          `json:"latitude"`
	Longitude                float64          `json:"longitude"`
	SubmittedAt              string           `json:"submitted_at"`
	Status                   string           `json:"status"`
}

// AssignmentListRequest 任务列表查询参数（管理端）
type AssignmentListRequest struct {
	PaginationRequest
	Status       string `form:"status"        binding:"omitempty,oneof=pending in_progress completed expired"`
	DepartmentID string `form:"department_id" binding:"omitempty,uuid"`
}
