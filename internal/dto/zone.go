package dto

// ── 地理围栏模块 DTO ──
// 半径与坐标范围在绑定阶段校验：负半径、越界经纬度在此拦截，
// 不进入距离判定逻辑

// CreateZoneRequest 创建围栏请求
type CreateZoneRequest struct {
	Name            string   `json:"name"             binding:"required,min=2,max=200"`
	Description     string   `json:"description"      binding:"omitempty,max=500"`
	CenterLatitude  *float64 `json:"center_latitude"  binding:"required,gte=-90,lte=90"`
	CenterLongitude *float64 `json:"center_longitude" binding:"required,gte=-180,lte=180"`
	RadiusMeters    *float64 `json:"radius_meters"    binding:"required,gte=0"`
	DepartmentID    string   `json:"department_id"    binding:"required,uuid"`
}

// UpdateZoneRequest 更新围栏请求
type UpdateZoneRequest struct {
	Name            *string  `json:"name"             binding:"omitempty,min=2,max=200"`
	Description     *string  `json:"description"      binding:"omitempty,max=500"`
	CenterLatitude  *float64 `json:"center_latitude"  binding:"omitempty,gte=-90,lte=90"`
	CenterLongitude *float64 `json:"center_longitude" binding:"omitempty,gte=-180,lte=180"`
	RadiusMeters    *float64 `json:"radius_meters"    binding:"omitempty,gte=0"`
	IsActive        *bool    `json:"is_active"`
}

// ZoneListRequest 围栏列表查询参数
type ZoneListRequest struct {
	DepartmentID    string `form:"department_id" binding:"omitempty,uuid"`
	IncludeInactive bool   `form:"include_inactive"`
}

// ZoneResponse 围栏信息响应
type ZoneResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description,omitempty"`
	CenterLatitude  float64 `json:"center_latitude"`
	CenterLongitude float64 `json:"center_longitude"`
	RadiusMeters    float64 `json:"radius_meters"`
	DepartmentID    string  `json:"department_id"`
	IsActive        bool    `json:"is_active"`
}
