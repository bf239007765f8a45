package model

// QuestionPool 题库表 — 对应 question_pools（按部门维护，作为检查单模板的素材来源）
type QuestionPool struct {
	PoolID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"pool_id"`
	Name         string `gorm:"type:varchar(200);not null"                     json:"name"`
	Description  string `gorm:"type:text"                                      json:"description,omitempty"`
	DepartmentID string `gorm:"type:uuid;not null"                             json:"department_id"`
	IsActive     bool   `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel

	// 关联
	Department *Department `gorm:"foreignKey:DepartmentID;references:DepartmentID" json:"department,omitempty"`
	Questions  []Question  `gorm:"foreignKey:PoolID;references:PoolID"             json:"questions,omitempty"`
}

// TableName 指定表名
func (QuestionPool) TableName() string { return "question_pools" }

// Question 题目表 — 对应 questions
type Question struct {
	QuestionID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"question_id"`
	PoolID     string `gorm:"type:uuid;not null;index"                       json:"pool_id"`
	Title      string `gorm:"type:varchar(200);not null"                     json:"title"`
	Details    string `gorm:"type:text"                                      json:"details,omitempty"`
	OrderIndex int    `gorm:"not null;default:0"                             json:"order_index"`
	IsActive   bool   `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel
}

// TableName 指定表名
func (Question) TableName() string { return "questions" }
