package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User         UserRepository
	Department   DepartmentRepository
	Team         TeamRepository
	Zone         ZoneRepository
	QuestionPool QuestionPoolRepository
	Template     TemplateRepository
	Assignment   AssignmentRepository
	Submission   SubmissionRepository
	Audit        AuditRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:         NewUserRepo(db),
		Department:   NewDepartmentRepo(db),
		Team:         NewTeamRepo(db),
		Zone:         NewZoneRepo(db),
		QuestionPool: NewQuestionPoolRepo(db),
		Template:     NewTemplateRepo(db),
		Assignment:   NewAssignmentRepo(db),
		Submission:   NewSubmissionRepo(db),
		Audit:        NewAuditRepo(db),
	}
}
