package model

// LocationZone 地理围栏配置表 — 对应 location_zones
// 仅作为管理侧配置；下发到任务时会被快照复制，不做活引用
type LocationZone struct {
	ZoneID          string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"zone_id"`
	Name            string  `gorm:"type:varchar(200);not null"                     json:"name"`
	Description     string  `gorm:"type:text"                                      json:"description,omitempty"`
	CenterLatitude  float64 `gorm:"type:numeric(10,8);not null"                    json:"center_latitude"`
	CenterLongitude float64 `gorm:"type:numeric(11,8);not null"                    json:"center_longitude"`
	RadiusMeters    float64 `gorm:"type:numeric(10,2);not null"                    json:"radius_meters"`
	DepartmentID    string  `gorm:"type:uuid;not null"                             json:"department_id"`
	IsActive        bool    `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel

	// 关联
	Department *Department `gorm:"foreignKey:DepartmentID;references:DepartmentID" json:"department,omitempty"`
}

// TableName 指定表名
func (LocationZone) TableName() string { return "location_zones" }
