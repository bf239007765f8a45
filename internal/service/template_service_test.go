package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"fieldops/backend/internal/dto"
	"fieldops/backend/internal/model"
)

func setupTestTemplateService() (TemplateService, *testChecklistRepos) {
	repos := newTestChecklistRepos()
	repoAgg := repos.toRepository()
	logger := zap.NewNop()
	svc := NewTemplateService(repoAgg, NewAuditService(repoAgg, logger), logger)
	return svc, repos
}

func seedDept(t *testing.T, repos *testChecklistRepos) *model.Department {
	t.Helper()
	dept := &model.Department{Name: "运维部", Code: "OPS", IsActive: true}
	if err := repos.dept.Create(context.Background(), dept); err != nil {
		t.Fatalf("造部门失败: %v", err)
	}
	return dept
}

func TestCreateTemplate(t *testing.T) {
	svc, repos := setupTestTemplateService()
	dept := seedDept(t, repos)
	ctx := context.Background()

	evidence := model.EvidencePhoto
	resp, err := svc.CreateTemplate(ctx, &dto.CreateTemplateRequest{
		Name:         "日常巡检",
		DepartmentID: dept.DepartmentID,
		Items: []dto.CreateTemplateItemRequest{
			{Title: "外观检查"},
			{Title: "拍照留证", RequiresEvidence: true, EvidenceType: &evidence},
		},
	}, "admin-1")
	if err != nil {
		t.Fatalf("创建模板失败: %v", err)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("应创建 2 个检查项, 实际 %d", len(resp.Items))
	}
	if !resp.Items[0].IsRequired {
		t.Error("is_required 缺省应为必填")
	}
	if !resp.Items[1].RequiresEvidence || resp.Items[1].EvidenceType == nil {
		t.Error("附件要求应按请求保存")
	}
	if !resp.RequireAllItems {
		t.Error("require_all_items 缺省应为 true")
	}
}

func TestCreateTemplate_DepartmentMissing(t *testing.T) {
	svc, _ := setupTestTemplateService()

	_, err := svc.CreateTemplate(context.Background(), &dto.CreateTemplateRequest{
		Name:         "模板",
		DepartmentID: "dept-ghost",
		Items:        []dto.CreateTemplateItemRequest{{Title: "项"}},
	}, "admin-1")
	if !errors.Is(err, ErrTemplateDepartment) {
		t.Errorf("部门不存在应返回 ErrTemplateDepartment, 实际 %v", err)
	}
}

func TestUpdateTemplate_Frozen(t *testing.T) {
	svc, repos := setupTestTemplateService()
	dept := seedDept(t, repos)
	ctx := context.Background()

	resp, err := svc.CreateTemplate(ctx, &dto.CreateTemplateRequest{
		Name:         "巡检模板",
		DepartmentID: dept.DepartmentID,
		Items:        []dto.CreateTemplateItemRequest{{Title: "项"}},
	}, "admin-1")
	if err != nil {
		t.Fatalf("创建模板失败: %v", err)
	}

	// 未被引用时可修改
	name := "巡检模板 v2"
	if _, err := svc.UpdateTemplate(ctx, resp.ID, &dto.UpdateTemplateRequest{Name: &name}, "admin-1"); err != nil {
		t.Fatalf("未引用模板修改应成功: %v", err)
	}

	// 下发任务后冻结
	userID := "user-1"
	a := &model.ChecklistAssignment{TemplateID: resp.ID, AssignedToUserID: &userID, AssignedByID: "admin-1", Status: model.AssignmentStatusPending}
	if err := repos.assignment.Create(ctx, a); err != nil {
		t.Fatalf("造任务失败: %v", err)
	}

	if _, err := svc.UpdateTemplate(ctx, resp.ID, &dto.UpdateTemplateRequest{Name: &name}, "admin-1"); !errors.Is(err, ErrTemplateFrozen) {
		t.Errorf("被引用模板修改应返回 ErrTemplateFrozen, 实际 %v", err)
	}
	if err := svc.DeleteTemplate(ctx, resp.ID, "admin-1"); !errors.Is(err, ErrTemplateFrozen) {
		t.Errorf("被引用模板删除应返回 ErrTemplateFrozen, 实际 %v", err)
	}
}

func TestDeleteTemplate(t *testing.T) {
	svc, repos := setupTestTemplateService()
	dept := seedDept(t, repos)
	ctx := context.Background()

	resp, err := svc.CreateTemplate(ctx, &dto.CreateTemplateRequest{
		Name:         "临时模板",
		DepartmentID: dept.DepartmentID,
		Items:        []dto.CreateTemplateItemRequest{{Title: "项"}},
	}, "admin-1")
	if err != nil {
		t.Fatalf("创建模板失败: %v", err)
	}

	if err := svc.DeleteTemplate(ctx, resp.ID, "admin-1"); err != nil {
		t.Fatalf("删除模板失败: %v", err)
	}
	if _, err := svc.GetTemplate(ctx, resp.ID); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("已删除模板应返回 ErrTemplateNotFound, 实际 %v", err)
	}
}
