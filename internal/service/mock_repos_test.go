package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"fieldops/backend/internal/model"
	pkgerrors "fieldops/backend/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.EmployeeID
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmployeeID(_ context.Context, employeeID string) (*model.User, error) {
	for _, u := range m.users {
		if u.EmployeeID == employeeID {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) List(_ context.Context, departmentID, role string, offset, limit int) ([]model.User, int64, error) {
	var filtered []model.User
	for _, u := range m.users {
		if departmentID != "" && u.DepartmentID != departmentID {
			continue
		}
		if role != "" && u.Role != role {
			continue
		}
		filtered = append(filtered, *u)
	}
	return paginate(filtered, offset, limit)
}

// ── Mock DepartmentRepository ──

type mockDeptRepo struct {
	depts map[string]*model.Department
}

func newMockDeptRepo() *mockDeptRepo {
	return &mockDeptRepo{depts: make(map[string]*model.Department)}
}

func (m *mockDeptRepo) Create(_ context.Context, dept *model.Department) error {
	if dept.DepartmentID == "" {
		dept.DepartmentID = "dept-" + dept.Code
	}
	m.depts[dept.DepartmentID] = dept
	return nil
}

func (m *mockDeptRepo) GetByID(_ context.Context, id string) (*model.Department, error) {
	if d, ok := m.depts[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDeptRepo) GetByCode(_ context.Context, code string) (*model.Department, error) {
	for _, d := range m.depts {
		if d.Code == code {
			return d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDeptRepo) Update(_ context.Context, dept *model.Department) error {
	m.depts[dept.DepartmentID] = dept
	return nil
}

func (m *mockDeptRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.depts, id)
	return nil
}

func (m *mockDeptRepo) List(_ context.Context, includeInactive bool) ([]model.Department, error) {
	var result []model.Department
	for _, d := range m.depts {
		if !includeInactive && !d.IsActive {
			continue
		}
		result = append(result, *d)
	}
	return result, nil
}

// ── Mock TeamRepository ──

type mockTeamRepo struct {
	teams map[string]*model.Team
}

func newMockTeamRepo() *mockTeamRepo {
	return &mockTeamRepo{teams: make(map[string]*model.Team)}
}

func (m *mockTeamRepo) Create(_ context.Context, team *model.Team) error {
	if team.TeamID == "" {
		team.TeamID = "team-" + team.Name
	}
	m.teams[team.TeamID] = team
	return nil
}

func (m *mockTeamRepo) GetByID(_ context.Context, id string) (*model.Team, error) {
	if t, ok := m.teams[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTeamRepo) Update(_ context.Context, team *model.Team) error {
	m.teams[team.TeamID] = team
	return nil
}

func (m *mockTeamRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.teams, id)
	return nil
}

func (m *mockTeamRepo) ListByDepartment(_ context.Context, departmentID string) ([]model.Team, error) {
	var result []model.Team
	for _, t := range m.teams {
		if t.DepartmentID == departmentID {
			result = append(result, *t)
		}
	}
	return result, nil
}

// ── Mock ZoneRepository ──

type mockZoneRepo struct {
	zones map[string]*model.LocationZone
}

func newMockZoneRepo() *mockZoneRepo {
	return &mockZoneRepo{zones: make(map[string]*model.LocationZone)}
}

func (m *mockZoneRepo) Create(_ context.Context, zone *model.LocationZone) error {
	if zone.ZoneID == "" {
		zone.ZoneID = "zone-" + zone.Name
	}
	m.zones[zone.ZoneID] = zone
	return nil
}

func (m *mockZoneRepo) GetByID(_ context.Context, id string) (*model.LocationZone, error) {
	if z, ok := m.zones[id]; ok {
		return z, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockZoneRepo) GetByIDs(_ context.Context, ids []string) ([]model.LocationZone, error) {
	var result []model.LocationZone
	for _, id := range ids {
		if z, ok := m.zones[id]; ok {
			result = append(result, *z)
		}
	}
	return result, nil
}

func (m *mockZoneRepo) Update(_ context.Context, zone *model.LocationZone) error {
	m.zones[zone.ZoneID] = zone
	return nil
}

func (m *mockZoneRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.zones, id)
	return nil
}

func (m *mockZoneRepo) List(_ context.Context, departmentID string, includeInactive bool) ([]model.LocationZone, error) {
	var result []model.LocationZone
	for _, z := range m.zones {
		if departmentID != "" && z.DepartmentID != departmentID {
			continue
		}
		if !includeInactive && !z.IsActive {
			continue
		}
		result = append(result, *z)
	}
	return result, nil
}

// ── Mock QuestionPoolRepository ──

type mockQuestionPoolRepo struct {
	pools     map[string]*model.QuestionPool
	questions map[string]*model.Question
}

func newMockQuestionPoolRepo() *mockQuestionPoolRepo {
	return &mockQuestionPoolRepo{
		pools:     make(map[string]*model.QuestionPool),
		questions: make(map[string]*model.Question),
	}
}

func (m *mockQuestionPoolRepo) CreatePool(_ context.Context, pool *model.QuestionPool) error {
	if pool.PoolID == "" {
		pool.PoolID = "pool-" + pool.Name
	}
	m.pools[pool.PoolID] = pool
	return nil
}

func (m *mockQuestionPoolRepo) GetPoolByID(_ context.Context, id string) (*model.QuestionPool, error) {
	if p, ok := m.pools[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockQuestionPoolRepo) UpdatePool(_ context.Context, pool *model.QuestionPool) error {
	m.pools[pool.PoolID] = pool
	return nil
}

func (m *mockQuestionPoolRepo) DeletePool(_ context.Context, id string, _ string) error {
	delete(m.pools, id)
	return nil
}

func (m *mockQuestionPoolRepo) ListPools(_ context.Context, departmentID string) ([]model.QuestionPool, error) {
	var result []model.QuestionPool
	for _, p := range m.pools {
		if departmentID != "" && p.DepartmentID != departmentID {
			continue
		}
		result = append(result, *p)
	}
	return result, nil
}

func (m *mockQuestionPoolRepo) CreateQuestion(_ context.Context, q *model.Question) error {
	if q.QuestionID == "" {
		q.QuestionID = "q-" + q.Title
	}
	m.questions[q.QuestionID] = q
	return nil
}

func (m *mockQuestionPoolRepo) GetQuestionByID(_ context.Context, id string) (*model.Question, error) {
	if q, ok := m.questions[id]; ok {
		return q, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockQuestionPoolRepo) UpdateQuestion(_ context.Context, q *model.Question) error {
	m.questions[q.QuestionID] = q
	return nil
}

func (m *mockQuestionPoolRepo) DeleteQuestion(_ context.Context, id string, _ string) error {
	delete(m.questions, id)
	return nil
}

// ── Mock TemplateRepository ──

type mockTemplateRepo struct {
	templates   map[string]*model.ChecklistTemplate
	items       map[string][]model.ChecklistItem // templateID → items
	assignRefs  map[string]int                   // templateID → 引用计数
	itemCounter int
}

func newMockTemplateRepo() *mockTemplateRepo {
	return &mockTemplateRepo{
		templates:  make(map[string]*model.ChecklistTemplate),
		items:      make(map[string][]model.ChecklistItem),
		assignRefs: make(map[string]int),
	}
}

func (m *mockTemplateRepo) CreateWithItems(_ context.Context, tpl *model.ChecklistTemplate, items []model.ChecklistItem) error {
	if tpl.TemplateID == "" {
		tpl.TemplateID = "tpl-" + tpl.Name
	}
	m.templates[tpl.TemplateID] = tpl
	for i := range items {
		items[i].TemplateID = tpl.TemplateID
		if items[i].ItemID == "" {
			m.itemCounter++
			items[i].ItemID = fmt.Sprintf("item-%d", m.itemCounter)
		}
	}
	m.items[tpl.TemplateID] = items
	return nil
}

func (m *mockTemplateRepo) GetByID(_ context.Context, id string) (*model.ChecklistTemplate, error) {
	if t, ok := m.templates[id]; ok {
		copied := *t
		copied.Items = m.items[id]
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTemplateRepo) ItemsFor(_ context.Context, templateID string) ([]model.ChecklistItem, error) {
	var active []model.ChecklistItem
	for _, item := range m.items[templateID] {
		if item.IsActive {
			active = append(active, item)
		}
	}
	return active, nil
}

func (m *mockTemplateRepo) Update(_ context.Context, tpl *model.ChecklistTemplate) error {
	m.templates[tpl.TemplateID] = tpl
	return nil
}

func (m *mockTemplateRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.templates, id)
	return nil
}

func (m *mockTemplateRepo) List(_ context.Context, departmentID string, offset, limit int) ([]model.ChecklistTemplate, int64, error) {
	var filtered []model.ChecklistTemplate
	for _, t := range m.templates {
		if departmentID != "" && t.DepartmentID != departmentID {
			continue
		}
		filtered = append(filtered, *t)
	}
	return paginate(filtered, offset, limit)
}

func (m *mockTemplateRepo) HasAssignments(_ context.Context, templateID string) (bool, error) {
	return m.assignRefs[templateID] > 0, nil
}

// ── Mock AssignmentRepository ──

type mockAssignmentRepo struct {
	assignments map[string]*model.ChecklistAssignment
	templates   *mockTemplateRepo
	subs        *mockSubmissionRepo
	counter     int
}

func newMockAssignmentRepo(templates *mockTemplateRepo, subs *mockSubmissionRepo) *mockAssignmentRepo {
	return &mockAssignmentRepo{
		assignments: make(map[string]*model.ChecklistAssignment),
		templates:   templates,
		subs:        subs,
	}
}

func (m *mockAssignmentRepo) Create(_ context.Context, a *model.ChecklistAssignment) error {
	if a.AssignmentID == "" {
		m.counter++
		a.AssignmentID = fmt.Sprintf("assign-%d", m.counter)
	}
	m.assignments[a.AssignmentID] = a
	if m.templates != nil {
		m.templates.assignRefs[a.TemplateID]++
	}
	return nil
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id string) (*model.ChecklistAssignment, error) {
	if a, ok := m.assignments[id]; ok {
		copied := *a
		if m.templates != nil {
			if tpl, ok := m.templates.templates[a.TemplateID]; ok {
				copied.Template = tpl
			}
		}
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) Update(_ context.Context, a *model.ChecklistAssignment) error {
	a.Template = nil
	m.assignments[a.AssignmentID] = a
	return nil
}

func (m *mockAssignmentRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.assignments, id)
	return nil
}

func (m *mockAssignmentRepo) ListOpenForTarget(_ context.Context, userID string, teamID *string) ([]model.ChecklistAssignment, error) {
	var result []model.ChecklistAssignment
	for _, a := range m.assignments {
		if !a.IsOpen() {
			continue
		}
		matchUser := a.AssignedToUserID != nil && *a.AssignedToUserID == userID
		matchTeam := teamID != nil && a.AssignedToTeamID != nil && *a.AssignedToTeamID == *teamID
		if matchUser || matchTeam {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockAssignmentRepo) List(_ context.Context, status string, offset, limit int) ([]model.ChecklistAssignment, int64, error) {
	var filtered []model.ChecklistAssignment
	for _, a := range m.assignments {
		if status != "" && a.Status != status {
			continue
		}
		filtered = append(filtered, *a)
	}
	return paginate(filtered, offset, limit)
}

func (m *mockAssignmentRepo) ListDueBetween(_ context.Context, userID string, teamID *string, from, to time.Time) ([]model.ChecklistAssignment, error) {
	var result []model.ChecklistAssignment
	for _, a := range m.assignments {
		if a.DueDate == nil || a.DueDate.Before(from) || !a.DueDate.Before(to) {
			continue
		}
		matchUser := a.AssignedToUserID != nil && *a.AssignedToUserID == userID
		matchTeam := teamID != nil && a.AssignedToTeamID != nil && *a.AssignedToTeamID == *teamID
		if matchUser || matchTeam {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockAssignmentRepo) CompleteWithSubmission(_ context.Context, assignmentID string, sub *model.ChecklistSubmission) error {
	a, ok := m.assignments[assignmentID]
	if !ok || !a.IsOpen() {
		return pkgerrors.ErrOptimisticLock
	}
	a.Status = model.AssignmentStatusCompleted
	completed := sub.SubmittedAt
	a.CompletedDate = &completed

	if sub.SubmissionID == "" {
		sub.SubmissionID = "sub-" + assignmentID
	}
	if m.subs != nil {
		m.subs.store(sub)
	}
	return nil
}

// ── Mock SubmissionRepository ──

type mockSubmissionRepo struct {
	submissions  map[string]*model.ChecklistSubmission
	byAssignment map[string]*model.ChecklistSubmission
}

func newMockSubmissionRepo() *mockSubmissionRepo {
	return &mockSubmissionRepo{
		submissions:  make(map[string]*model.ChecklistSubmission),
		byAssignment: make(map[string]*model.ChecklistSubmission),
	}
}

func (m *mockSubmissionRepo) store(sub *model.ChecklistSubmission) {
	m.submissions[sub.SubmissionID] = sub
	m.byAssignment[sub.AssignmentID] = sub
}

func (m *mockSubmissionRepo) GetByID(_ context.Context, id string) (*model.ChecklistSubmission, error) {
	if s, ok := m.submissions[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubmissionRepo) GetByAssignment(_ context.Context, assignmentID string) (*model.ChecklistSubmission, error) {
	if s, ok := m.byAssignment[assignmentID]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubmissionRepo) List(_ context.Context, departmentID string, from, to *time.Time, offset, limit int) ([]model.ChecklistSubmission, int64, error) {
	var filtered []model.ChecklistSubmission
	for _, s := range m.submissions {
		if departmentID != "" && s.DepartmentIDAtSubmission != departmentID {
			continue
		}
		if from != nil && s.SubmittedAt.Before(*from) {
			continue
		}
		if to != nil && !s.SubmittedAt.Before(*to) {
			continue
		}
		filtered = append(filtered, *s)
	}
	return paginate(filtered, offset, limit)
}

// ── Mock AuditRepository ──

type mockAuditRepo struct {
	logs []model.AuditLog
}

func newMockAuditRepo() *mockAuditRepo {
	return &mockAuditRepo{}
}

func (m *mockAuditRepo) Create(_ context.Context, entry *model.AuditLog) error {
	if entry.AuditLogID == "" {
		entry.AuditLogID = fmt.Sprintf("audit-%d", len(m.logs)+1)
	}
	m.logs = append(m.logs, *entry)
	return nil
}

func (m *mockAuditRepo) List(_ context.Context, actorID, entityType, entityID string, offset, limit int) ([]model.AuditLog, int64, error) {
	var filtered []model.AuditLog
	for _, l := range m.logs {
		if actorID != "" && l.ActorID != actorID {
			continue
		}
		if entityType != "" && l.EntityType != entityType {
			continue
		}
		if entityID != "" && l.EntityID != entityID {
			continue
		}
		filtered = append(filtered, l)
	}
	return paginate(filtered, offset, limit)
}

// ── 通用分页辅助 ──

func paginate[T any](items []T, offset, limit int) ([]T, int64, error) {
	total := int64(len(items))
	if offset >= len(items) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end], total, nil
}
