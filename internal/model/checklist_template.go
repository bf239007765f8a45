package model

// ── 附件要求类型常量 ──

const (
	EvidencePhoto     = "photo"
	EvidenceSignature = "signature"
	EvidenceNote      = "note"
	EvidenceFile      = "file"
)

// ChecklistTemplate 检查单模板表 — 对应 checklist_templates
// 一旦被任务引用即冻结：编辑只影响之后创建的任务，不回溯已下发任务
type ChecklistTemplate struct {
	TemplateID      string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"template_id"`
	Name            string `gorm:"type:varchar(200);not null"                     json:"name"`
	Description     string `gorm:"type:text"                                      json:"description,omitempty"`
	DepartmentID    string `gorm:"type:uuid;not null"                             json:"department_id"`
	RequireAllItems bool   `gorm:"not null;default:true"                          json:"require_all_items"`
	IsActive        bool   `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel

	// 关联
	Department *Department     `gorm:"foreignKey:DepartmentID;references:DepartmentID" json:"department,omitempty"`
	Items      []ChecklistItem `gorm:"foreignKey:TemplateID;references:TemplateID"     json:"items,omitempty"`
}

// TableName 指定表名
func (ChecklistTemplate) TableName() string { return "checklist_templates" }

// ChecklistItem 检查项表 — 对应 checklist_items
type ChecklistItem struct {
	ItemID           string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"item_id"`
	TemplateID       string  `gorm:"type:uuid;not null;index"                       json:"template_id"`
	Title            string  `gorm:"type:varchar(200);not null"                     json:"title"`
	Description      string  `gorm:"type:text"                                      json:"description,omitempty"`
	OrderIndex       int     `gorm:"not null;default:0"                             json:"order_index"`
	IsRequired       bool    `gorm:"not null;default:true"                          json:"is_required"`
	RequiresEvidence bool    `gorm:"not null;default:false"                         json:"requires_evidence"`
	EvidenceType     *string `gorm:"type:varchar(50)"                               json:"evidence_type,omitempty"`
	IsActive         bool    `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel
}

// TableName 指定表名
func (ChecklistItem) TableName() string { return "checklist_items" }
