package dto

// ── 审计日志模块 DTO ──

// AuditLogListRequest 审计日志查询参数
type AuditLogListRequest struct {
	PaginationRequest
	ActorID    string `form:"actor_id"    binding:"omitempty,uuid"`
	EntityType string `form:"entity_type" binding:"omitempty,max=50"`
	EntityID   string `form:"entity_id"   binding:"omitempty,uuid"`
}

// AuditLogResponse 审计日志响应
type AuditLogResponse struct {
	ID         string                 `json:"id"`
	ActorID    string                 `json:"actor_id"`
	Action     string                 `json:"action"`
	EntityType string                 `json:"entity_type"`
	EntityID   string                 `json:"entity_id"`
	Details    map[string]interface{} `json:"details,omitempty"`
	OccurredAt string                 `json:"occurred_at"`
}
