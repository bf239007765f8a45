package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"fieldops/backend/internal/dto"
	"fieldops/backend/internal/model"
	"fieldops/backend/internal/repository"
	"fieldops/backend/pkg/geo"
)

// ── 测试辅助 ──

type testChecklistRepos struct {
	user       *mockUserRepo
	dept       *mockDeptRepo
	team       *mockTeamRepo
	zone       *mockZoneRepo
	template   *mockTemplateRepo
	assignment *mockAssignmentRepo
	submission *mockSubmissionRepo
	audit      *mockAuditRepo
}

func newTestChecklistRepos() *testChecklistRepos {
	templates := newMockTemplateRepo()
	subs := newMockSubmissionRepo()
	return &testChecklistRepos{
		user:       newMockUserRepo(),
		dept:       newMockDeptRepo(),
		team:       newMockTeamRepo(),
		zone:       newMockZoneRepo(),
		template:   templates,
		assignment: newMockAssignmentRepo(templates, subs),
		submission: subs,
		audit:      newMockAuditRepo(),
	}
}

func (r *testChecklistRepos) toRepository() *repository.Repository {
	return &repository.Repository{
		User:         r.user,
		Department:   r.dept,
		Team:         r.team,
		Zone:         r.zone,
		QuestionPool: newMockQuestionPoolRepo(),
		Template:     r.template,
		Assignment:   r.assignment,
		Submission:   r.submission,
		Audit:        r.audit,
	}
}

func setupTestChecklistService() (ChecklistService, *testChecklistRepos) {
	repos := newTestChecklistRepos()
	repoAgg := repos.toRepository()
	logger := zap.NewNop()
	audit := NewAuditService(repoAgg, logger)
	svc := NewChecklistService(repoAgg, audit, logger)
	return svc, repos
}

// seedAssignment 造一条目标为 user-1 的待办任务：
// 模板含 2 个必填项，围栏圆心 (10, 10) 半径 50 米
func seedAssignment(t *testing.T, repos *testChecklistRepos) *model.ChecklistAssignment {
	t.Helper()
	ctx := context.Background()

	tpl := &model.ChecklistTemplate{Name: "巡检模板", DepartmentID: "dept-ops", RequireAllItems: true, IsActive: true}
	items := []model.ChecklistItem{
		{Title: "设备外观检查", IsRequired: true, IsActive: true},
		{Title: "仪表读数", IsRequired: true, IsActive: true},
		{Title: "补充说明", IsRequired: false, IsActive: true},
	}
	if err := repos.template.CreateWithItems(ctx, tpl, items); err != nil {
		t.Fatalf("造模板失败: %v", err)
	}

	userID := "user-1"
	a := &model.ChecklistAssignment{
		TemplateID:       tpl.TemplateID,
		AssignedToUserID: &userID,
		AssignedByID:     "admin-1",
		Status:           model.AssignmentStatusPending,
		Zones: model.ZoneList{
			{Latitude: 10, Longitude: 10, RadiusMeters: 50},
		},
	}
	if err := repos.assignment.Create(ctx, a); err != nil {
		t.Fatalf("造任务失败: %v", err)
	}
	return a
}

func submitter1() *SubmitterContext {
	return &SubmitterContext{
		UserID:       "user-1",
		Role:         model.RoleOperator,
		DepartmentID: "dept-ops",
	}
}

func validSubmitReq(repos *testChecklistRepos, a *model.ChecklistAssignment, lat, lon float64) *dto.SubmitChecklistRequest {
	items := repos.template.items[a.TemplateID]
	answers := make([]dto.AnswerRequest, 0, len(items))
	for _, item := range items {
		answers = append(answers, dto.AnswerRequest{
			ItemID: item.ItemID,
			Type:   model.AnswerTypeText,
			Value:  "正常",
		})
	}
	return &dto.SubmitChecklistRequest{
		Latitude:  &lat,
		Longitude: &lon,
		Answers:   answers,
	}
}

// ── SubmitAnswers ──

func TestSubmitAnswers_InRange(t *testing.T) {
	svc, repos := setupTestChecklistService()
	a := seedAssignment(t, repos)
	ctx := context.Background()

	// 纬度偏移 0.0003° ≈ 33 米，在 50 米围栏内
	resp, err := svc.SubmitAnswers(ctx, a.AssignmentID, validSubmitReq(repos, a, 10.0003, 10), submitter1())
	if err != nil {
		t.Fatalf("围栏内提交应成功: %v", err)
	}
	if !resp.InRange {
		t.Error("应判定为在围栏范围内")
	}
	if resp.SubmissionID == nil {
		t.Fatal("成功提交应返回 submission_id")
	}

	got, err := repos.assignment.GetByID(ctx, a.AssignmentID)
	if err != nil {
		t.Fatalf("查询任务失败: %v", err)
	}
	if got.Status != model.AssignmentStatusCompleted {
		t.Errorf("任务状态应为 completed, 实际 %s", got.Status)
	}
	if got.CompletedDate == nil {
		t.Error("完成时间应被填充")
	}

	sub, err := repos.submission.GetByAssignment(ctx, a.AssignmentID)
	if err != nil {
		t.Fatalf("提交记录应已落库: %v", err)
	}
	if sub.UserID != "user-1" {
		t.Errorf("提交人应为 user-1, 实际 %s", sub.UserID)
	}
	if sub.DepartmentIDAtSubmission != "dept-ops" {
		t.Errorf("应快照提交时刻部门, 实际 %s", sub.DepartmentIDAtSubmission)
	}
}

func TestSubmitAnswers_OutOfRange(t *testing.T) {
	svc, repos := setupTestChecklistService()
	a := seedAssignment(t, repos)
	ctx := context.Background()

	// 纬度偏移 0.001° ≈ 111 米，超出 50 米围栏
	resp, err := svc.SubmitAnswers(ctx, a.AssignmentID, validSubmitReq(repos, a, 10.001, 10), submitter1())
	if err != nil {
		t.Fatalf("围栏外提交不应报错: %v", err)
	}
	if resp.InRange {
		t.Error("应判定为不在围栏范围内")
	}
	if resp.SubmissionID != nil {
		t.Error("围栏外提交不应产生 submission_id")
	}

	// 状态不变，可换位置重试
	got, _ := repos.assignment.GetByID(ctx, a.AssignmentID)
	if got.Status != model.AssignmentStatusPending {
		t.Errorf("围栏外提交后状态应保持 pending, 实际 %s", got.Status)
	}
	if _, err := repos.submission.GetByAssignment(ctx, a.AssignmentID); err == nil {
		t.Error("围栏外提交不应落提交记录")
	}

	// 移动到围栏内后重试成功
	resp, err = svc.SubmitAnswers(ctx, a.AssignmentID, validSubmitReq(repos, a, 10.0003, 10), submitter1())
	if err != nil || !resp.InRange {
		t.Fatalf("换位置后重试应成功: resp=%+v err=%v", resp, err)
	}
}

func TestSubmitAnswers_AlreadyCompleted(t *testing.T) {
	svc, repos := setupTestChecklistService()
	a := seedAssignment(t, repos)
	ctx := context.Background()

	if _, err := svc.SubmitAnswers(ctx, a.AssignmentID, validSubmitReq(repos, a, 10, 10), submitter1()); err != nil {
		t.Fatalf("首次提交应成功: %v", err)
	}

	_, err := svc.SubmitAnswers(ctx, a.AssignmentID, validSubmitReq(repos, a, 10, 10), submitter1())
	if !errors.Is(err, ErrAssignmentCompleted) {
		t.Errorf("重复提交应返回 ErrAssignmentCompleted, 实际 %v", err)
	}
}

func TestSubmitAnswers_MissingRequiredItem(t *testing.T) {
	svc, repos := setupTestChecklistService()
	a := seedAssignment(t, repos)
	ctx := context.Background()

	req := validSubmitReq(repos, a, 10, 10)
	req.Answers = req.Answers[:1] // 缺第二个必填项

	_, err := svc.SubmitAnswers(ctx, a.AssignmentID, req, submitter1())
	if !errors.Is(err, ErrAnswersInvalid) {
		t.Errorf("必填项未作答应返回 ErrAnswersInvalid, 实际 %v", err)
	}

	// 校验失败不推进状态
	got, _ := repos.assignment.GetByID(ctx, a.AssignmentID)
	if got.Status != model.AssignmentStatusPending {
		t.Errorf("校验失败后状态应保持 pending, 实际 %s", got.Status)
	}
}

func TestSubmitAnswers_UnknownItem(t *testing.T) {
	svc, repos := setupTestChecklistService()
	a := seedAssignment(t, repos)

	req := validSubmitReq(repos, a, 10, 10)
	req.Answers = append(req.Answers, dto.AnswerRequest{ItemID: "item-ghost", Type: model.AnswerTypeText, Value: "x"})

	_, err := svc.SubmitAnswers(context.Background(), a.AssignmentID, req, submitter1())
	if !errors.Is(err, ErrAnswersInvalid) {
		t.Errorf("未知检查项应返回 ErrAnswersInvalid, 实际 %v", err)
	}
}

func TestSubmitAnswers_BadNumberValue(t *testing.T) {
	svc, repos := setupTestChecklistService()
	a := seedAssignment(t, repos)

	req := validSubmitReq(repos, a, 10, 10)
	req.Answers[0].Type = model.AnswerTypeNumber
	req.Answers[0].Value = "不是数字"

	_, err := svc.SubmitAnswers(context.Background(), a.AssignmentID, req, submitter1())
	if !errors.Is(err, ErrAnswersInvalid) {
		t.Errorf("非法数值作答应返回 ErrAnswersInvalid, 实际 %v", err)
	}
}

func TestSubmitAnswers_NotAssignee(t *testing.T) {
	svc, repos := setupTestChecklistService()
	a := seedAssignment(t, repos)

	other := &SubmitterContext{UserID: "user-2", Role: model.RoleOperator, DepartmentID: "dept-ops"}
	_, err := svc.SubmitAnswers(context.Background(), a.AssignmentID, validSubmitReq(repos, a, 10, 10), other)
	if !errors.Is(err, ErrNotAssignee) {
		t.Errorf("非执行人提交应返回 ErrNotAssignee, 实际 %v", err)
	}
}

func TestSubmitAnswers_TeamTarget(t *testing.T) {
	svc, repos := setupTestChecklistService()
	a := seedAssignment(t, repos)
	ctx := context.Background()

	// 改为班组目标
	teamID := "team-a"
	a.AssignedToUserID = nil
	a.AssignedToTeamID = &teamID
	if err := repos.assignment.Update(ctx, a); err != nil {
		t.Fatalf("更新任务失败: %v", err)
	}

	// 无班组用户不是执行人
	outsider := &SubmitterContext{UserID: "user-8", Role: model.RoleOperator, DepartmentID: "dept-ops"}
	if _, err := svc.FetchForSubmission(ctx, a.AssignmentID, outsider); !errors.Is(err, ErrNotAssignee) {
		t.Errorf("非班组成员不应可见任务详情, 实际 %v", err)
	}

	member := &SubmitterContext{UserID: "user-9", Role: model.RoleOperator, DepartmentID: "dept-ops", TeamID: &teamID}
	resp, err := svc.SubmitAnswers(ctx, a.AssignmentID, validSubmitReq(repos, a, 10, 10), member)
	if err != nil || !resp.InRange {
		t.Fatalf("班组成员提交应成功: resp=%+v err=%v", resp, err)
	}

	sub, _ := repos.submission.GetByAssignment(ctx, a.AssignmentID)
	if sub.TeamIDAtSubmission == nil || *sub.TeamIDAtSubmission != teamID {
		t.Error("应快照提交时刻班组")
	}
}

func TestSubmitAnswers_NotFound(t *testing.T) {
	svc, _ := setupTestChecklistService()

	lat, lon := 10.0, 10.0
	req := &dto.SubmitChecklistRequest{
		Latitude:  &lat,
		Longitude: &lon,
		Answers:   []dto.AnswerRequest{{ItemID: "item-1", Type: model.AnswerTypeText, Value: "x"}},
	}
	_, err := svc.SubmitAnswers(context.Background(), "assign-ghost", req, submitter1())
	if !errors.Is(err, ErrAssignmentNotFound) {
		t.Errorf("不存在的任务应返回 ErrAssignmentNotFound, 实际 %v", err)
	}
}

func TestSubmitAnswers_AnswersRoundTrip(t *testing.T) {
	svc, repos := setupTestChecklistService()
	a := seedAssignment(t, repos)
	ctx := context.Background()

	req := validSubmitReq(repos, a, 10, 10)
	req.Answers[1].Type = model.AnswerTypeNumber
	req.Answers[1].Value = "36.5"

	resp, err := svc.SubmitAnswers(ctx, a.AssignmentID, req, submitter1())
	if err != nil {
		t.Fatalf("提交失败: %v", err)
	}

	got, err := svc.GetSubmission(ctx, *resp.SubmissionID)
	if err != nil {
		t.Fatalf("查询提交记录失败: %v", err)
	}
	if len(got.Answers) != len(req.Answers) {
		t.Fatalf("作答数量不符: 期望 %d 实际 %d", len(req.Answers), len(got.Answers))
	}
	if got.Answers[1].Type != model.AnswerTypeNumber || got.Answers[1].Value != "36.5" {
		t.Errorf("作答应按提交原样保存, 实际 %+v", got.Answers[1])
	}
}

// ── StartAssignment ──

func TestStartAssignment(t *testing.T) {
	svc, repos := setupTestChecklistService()
	a := seedAssignment(t, repos)
	ctx := context.Background()

	if err := svc.StartAssignment(ctx, a.AssignmentID, submitter1()); err != nil {
		t.Fatalf("开始任务失败: %v", err)
	}
	got, _ := repos.assignment.GetByID(ctx, a.AssignmentID)
	if got.Status != model.AssignmentStatusInProgress {
		t.Errorf("状态应为 in_progress, 实际 %s", got.Status)
	}

	// 幂等
	if err := svc.StartAssignment(ctx, a.AssignmentID, submitter1()); err != nil {
		t.Errorf("重复开始应幂等: %v", err)
	}

	// in_progress 状态下提交仍走通
	resp, err := svc.SubmitAnswers(ctx, a.AssignmentID, validSubmitReq(repos, a, 10, 10), submitter1())
	if err != nil || !resp.InRange {
		t.Fatalf("in_progress 状态提交应成功: resp=%+v err=%v", resp, err)
	}

	// 已完成任务不可再开始
	if err := svc.StartAssignment(ctx, a.AssignmentID, submitter1()); !errors.Is(err, ErrAssignmentCompleted) {
		t.Errorf("已完成任务开始应返回 ErrAssignmentCompleted, 实际 %v", err)
	}
}

// ── CreateAssignment ──

func TestCreateAssignment_ZoneSnapshot(t *testing.T) {
	svc, repos := setupTestChecklistService()
	ctx := context.Background()

	tpl := &model.ChecklistTemplate{Name: "夜巡模板", DepartmentID: "dept-ops", IsActive: true}
	if err := repos.template.CreateWithItems(ctx, tpl, []model.ChecklistItem{{Title: "检查", IsRequired: true, IsActive: true}}); err != nil {
		t.Fatalf("造模板失败: %v", err)
	}
	zone := &model.LocationZone{Name: "一号库", CenterLatitude: 31.2, CenterLongitude: 121.5, RadiusMeters: 80, DepartmentID: "dept-ops", IsActive: true}
	if err := repos.zone.Create(ctx, zone); err != nil {
		t.Fatalf("造围栏失败: %v", err)
	}

	userID := "user-1"
	resp, err := svc.CreateAssignment(ctx, &dto.CreateAssignmentRequest{
		TemplateID:       tpl.TemplateID,
		AssignedToUserID: &userID,
		ZoneIDs:          []string{zone.ZoneID},
	}, "admin-1")
	if err != nil {
		t.Fatalf("创建任务失败: %v", err)
	}
	if len(resp.Zones) != 1 || resp.Zones[0].RadiusMeters != 80 {
		t.Fatalf("应快照围栏参数, 实际 %+v", resp.Zones)
	}

	// 快照独立于后续围栏变更
	zone.RadiusMeters = 5
	if err := repos.zone.Update(ctx, zone); err != nil {
		t.Fatalf("更新围栏失败: %v", err)
	}
	a, _ := repos.assignment.GetByID(ctx, resp.ID)
	if a.Zones[0].RadiusMeters != 80 {
		t.Errorf("任务快照不应随围栏配置变更, 实际 %v", a.Zones[0].RadiusMeters)
	}

	// 围栏外的提交按快照半径 80 米判定
	if geo.WithinAny(a.Zones, 31.3, 121.5) {
		t.Error("距圆心约 11 公里不应在 80 米围栏内")
	}
}

func TestCreateAssignment_TargetExactlyOne(t *testing.T) {
	svc, repos := setupTestChecklistService()
	ctx := context.Background()

	tpl := &model.ChecklistTemplate{Name: "模板", DepartmentID: "dept-ops", IsActive: true}
	_ = repos.template.CreateWithItems(ctx, tpl, nil)

	userID, teamID := "user-1", "team-a"

	// 两者都填
	_, err := svc.CreateAssignment(ctx, &dto.CreateAssignmentRequest{
		TemplateID:       tpl.TemplateID,
		AssignedToUserID: &userID,
		AssignedToTeamID: &teamID,
		ZoneIDs:          []string{"zone-x"},
	}, "admin-1")
	if !errors.Is(err, ErrAssignmentTarget) {
		t.Errorf("同时指定用户与班组应返回 ErrAssignmentTarget, 实际 %v", err)
	}

	// 两者都不填
	_, err = svc.CreateAssignment(ctx, &dto.CreateAssignmentRequest{
		TemplateID: tpl.TemplateID,
		ZoneIDs:    []string{"zone-x"},
	}, "admin-1")
	if !errors.Is(err, ErrAssignmentTarget) {
		t.Errorf("未指定目标应返回 ErrAssignmentTarget, 实际 %v", err)
	}
}

func TestCreateAssignment_ZoneMissing(t *testing.T) {
	svc, repos := setupTestChecklistService()
	ctx := context.Background()

	tpl := &model.ChecklistTemplate{Name: "模板", DepartmentID: "dept-ops", IsActive: true}
	_ = repos.template.CreateWithItems(ctx, tpl, nil)

	userID := "user-1"
	_, err := svc.CreateAssignment(ctx, &dto.CreateAssignmentRequest{
		TemplateID:       tpl.TemplateID,
		AssignedToUserID: &userID,
		ZoneIDs:          []string{"zone-ghost"},
	}, "admin-1")
	if !errors.Is(err, ErrZoneNotFound) {
		t.Errorf("围栏不存在应返回 ErrZoneNotFound, 实际 %v", err)
	}
}

// ── ListPendingFor / FetchForSubmission ──

func TestListPendingFor(t *testing.T) {
	svc, repos := setupTestChecklistService()
	a := seedAssignment(t, repos)
	ctx := context.Background()

	list, err := svc.ListPendingFor(ctx, submitter1())
	if err != nil {
		t.Fatalf("查询待办失败: %v", err)
	}
	if len(list) != 1 || list[0].ID != a.AssignmentID {
		t.Fatalf("应返回 1 条待办, 实际 %d", len(list))
	}

	// 完成后不再出现在待办
	if _, err := svc.SubmitAnswers(ctx, a.AssignmentID, validSubmitReq(repos, a, 10, 10), submitter1()); err != nil {
		t.Fatalf("提交失败: %v", err)
	}
	list, _ = svc.ListPendingFor(ctx, submitter1())
	if len(list) != 0 {
		t.Errorf("完成后待办应为空, 实际 %d", len(list))
	}
}

func TestFetchForSubmission(t *testing.T) {
	svc, repos := setupTestChecklistService()
	a := seedAssignment(t, repos)
	ctx := context.Background()

	detail, err := svc.FetchForSubmission(ctx, a.AssignmentID, submitter1())
	if err != nil {
		t.Fatalf("获取任务详情失败: %v", err)
	}
	if len(detail.Items) != 3 {
		t.Errorf("应返回 3 个检查项, 实际 %d", len(detail.Items))
	}
	if len(detail.Zones) != 1 || detail.Zones[0].RadiusMeters != 50 {
		t.Errorf("应返回快照围栏, 实际 %+v", detail.Zones)
	}

	// 已完成任务不可再取
	if _, err := svc.SubmitAnswers(ctx, a.AssignmentID, validSubmitReq(repos, a, 10, 10), submitter1()); err != nil {
		t.Fatalf("提交失败: %v", err)
	}
	if _, err := svc.FetchForSubmission(ctx, a.AssignmentID, submitter1()); !errors.Is(err, ErrAssignmentCompleted) {
		t.Errorf("已完成任务应返回 ErrAssignmentCompleted, 实际 %v", err)
	}
}

// ── DeleteAssignment ──

func TestDeleteAssignment(t *testing.T) {
	svc, repos := setupTestChecklistService()
	a := seedAssignment(t, repos)
	ctx := context.Background()

	if err := svc.DeleteAssignment(ctx, a.AssignmentID, "admin-1"); err != nil {
		t.Fatalf("删除任务失败: %v", err)
	}
	if _, err := svc.FetchForSubmission(ctx, a.AssignmentID, submitter1()); !errors.Is(err, ErrAssignmentNotFound) {
		t.Errorf("已删除任务应返回 ErrAssignmentNotFound, 实际 %v", err)
	}
	if err := svc.DeleteAssignment(ctx, "assign-ghost", "admin-1"); !errors.Is(err, ErrAssignmentNotFound) {
		t.Errorf("删除不存在任务应返回 ErrAssignmentNotFound, 实际 %v", err)
	}
}

// ── 提交时刻快照不随用户档案漂移 ──

func TestSubmission_OrgSnapshotImmutable(t *testing.T) {
	svc, repos := setupTestChecklistService()
	a := seedAssignment(t, repos)
	ctx := context.Background()

	if _, err := svc.SubmitAnswers(ctx, a.AssignmentID, validSubmitReq(repos, a, 10, 10), submitter1()); err != nil {
		t.Fatalf("提交失败: %v", err)
	}

	sub, _ := repos.submission.GetByAssignment(ctx, a.AssignmentID)
	if sub.DepartmentIDAtSubmission != "dept-ops" {
		t.Fatalf("快照部门不符: %s", sub.DepartmentIDAtSubmission)
	}

	// 提交时间应为提交时刻
	if time.Since(sub.SubmittedAt) > time.Minute {
		t.Error("提交时间应为当前时刻")
	}
}
