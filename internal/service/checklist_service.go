package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"fieldops/backend/internal/dto"
	"fieldops/backend/internal/model"
	"fieldops/backend/internal/repository"
	pkgerrors "fieldops/backend/pkg/errors"
	"fieldops/backend/pkg/geo"
)

// ── 检查任务模块业务错误 ──

var (
	ErrAssignmentNotFound  = errors.New("检查任务不存在")
	ErrAssignmentCompleted = errors.New("检查任务已完成，不可重复提交")
	ErrAssignmentTarget    = errors.New("任务目标必须且只能指定用户或班组之一")
	ErrNotAssignee         = errors.New("当前用户不是该任务的执行人")
	ErrAnswersInvalid      = errors.New("作答内容不完整或不合法")
	ErrSubmissionNotFound  = errors.New("提交记录不存在")
)

// SubmitterContext 提交人上下文 — 由认证层显式传入，工作流内不读任何环境状态
type SubmitterContext struct {
	UserID       string
	Role         string
	DepartmentID string
	TeamID       *string
}

// ChecklistService 检查任务工作流接口
//
// 状态机：pending → in_progress → completed（单调，不可回退）。
// 提交路径允许 pending 直接到 completed；in_progress 仅由 Start 驱动。
type ChecklistService interface {
	// CreateAssignment 下发任务：校验目标二选一，快照围栏后落库
	CreateAssignment(ctx context.Context, req *dto.CreateAssignmentRequest, callerID string) (*dto.AssignmentResponse, error)
	// ListPendingFor 操作员轮询未完成任务（本人或本人班组）
	ListPendingFor(ctx context.Context, submitter *SubmitterContext) ([]dto.AssignmentResponse, error)
	// FetchForSubmission 获取待提交任务的检查项与快照围栏
	FetchForSubmission(ctx context.Context, assignmentID string, submitter *SubmitterContext) (*dto.AssignmentDetailResponse, error)
	// StartAssignment 可选的客户端可见状态：pending → in_progress
	StartAssignment(ctx context.Context, assignmentID string, submitter *SubmitterContext) error
	// SubmitAnswers 围栏校验 + 必答校验 + 原子写入（提交记录与状态推进同事务）
	SubmitAnswers(ctx context.Context, assignmentID string, req *dto.SubmitChecklistRequest, submitter *SubmitterContext) (*dto.SubmitChecklistResponse, error)
	// ListAssignments 管理端任务列表
	ListAssignments(ctx context.Context, req *dto.AssignmentListRequest) ([]dto.AssignmentResponse, int64, error)
	// DeleteAssignment 软删除（墓碑），保留审计链
	DeleteAssignment(ctx context.Context, assignmentID string, callerID string) error
	// GetSubmission 查询提交记录
	GetSubmission(ctx context.Context, submissionID string) (*dto.SubmissionResponse, error)
	// GetSubmissionByAssignment 按任务查询提交记录
	GetSubmissionByAssignment(ctx context.Context, assignmentID string) (*dto.SubmissionResponse, error)
}

type checklistService struct {
	repo   *repository.Repository
	audit  AuditService
	logger *zap.Logger
}

// NewChecklistService 创建 ChecklistService 实例
func NewChecklistService(repo *repository.Repository, audit AuditService, logger *zap.Logger) ChecklistService {
	return &checklistService{repo: repo, audit: audit, logger: logger}
}

// ────────────────────── CreateAssignment ──────────────────────

func (s *checklistService) CreateAssignment(ctx context.Context, req *dto.CreateAssignmentRequest, callerID string) (*dto.AssignmentResponse, error) {
	// 目标二选一
	if (req.AssignedToUserID == nil) == (req.AssignedToTeamID == nil) {
		return nil, ErrAssignmentTarget
	}

	// 模板必须存在且有效
	tpl, err := s.repo.Template.GetByID(ctx, req.TemplateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		s.logger.Error("查询模板失败", zap.Error(err))
		return nil, err
	}

	// 围栏快照：创建时刻复制坐标与半径，后续围栏配置变更不影响本任务
	zones, err := s.repo.Zone.GetByIDs(ctx, req.ZoneIDs)
	if err != nil {
		s.logger.Error("查询围栏失败", zap.Error(err))
		return nil, err
	}
	if len(zones) != len(req.ZoneIDs) {
		return nil, ErrZoneNotFound
	}
	snapshot := make(model.ZoneList, 0, len(zones))
	for _, z := range zones {
		snapshot = append(snapshot, geo.Zone{
			Latitude:     z.CenterLatitude,
			Longitude:    z.CenterLongitude,
			RadiusMeters: z.RadiusMeters,
		})
	}

	var dueDate *time.Time
	if req.DueDate != nil {
		t, err := time.Parse(time.RFC3339, *req.DueDate)
		if err != nil {
			return nil, fmt.Errorf("%w: due_date 格式应为 RFC3339", ErrAnswersInvalid)
		}
		dueDate = &t
	}

	a := &model.ChecklistAssignment{
		TemplateID:       tpl.TemplateID,
		AssignedToUserID: req.AssignedToUserID,
		AssignedToTeamID: req.AssignedToTeamID,
		AssignedByID:     callerID,
		Status:           model.AssignmentStatusPending,
		Zones:            snapshot,
		DueDate:          dueDate,
	}
	a.CreatedBy = &callerID
	a.UpdatedBy = &callerID

	if err := s.repo.Assignment.Create(ctx, a); err != nil {
		s.logger.Error("创建任务失败", zap.Error(err))
		return nil, err
	}

	s.audit.Record(ctx, callerID, "create", "checklist_assignment", a.AssignmentID, map[string]interface{}{
		"template_id": tpl.TemplateID,
		"zone_count":  len(snapshot),
	})

	resp := s.toAssignmentResponse(a)
	resp.TemplateName = tpl.Name
	return resp, nil
}

// ────────────────────── ListPendingFor ──────────────────────

func (s *checklistService) ListPendingFor(ctx context.Context, submitter *SubmitterContext) ([]dto.AssignmentResponse, error) {
	assignments, err := s.repo.Assignment.ListOpenForTarget(ctx, submitter.UserID, submitter.TeamID)
	if err != nil {
		s.logger.Error("查询待办任务失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.AssignmentResponse, 0, len(assignments))
	for i := range assignments {
		resp := s.toAssignmentResponse(&assignments[i])
		if assignments[i].Template != nil {
			resp.TemplateName = assignments[i].Template.Name
		}
		result = append(result, *resp)
	}
	return result, nil
}

// ────────────────────── FetchForSubmission ──────────────────────

func (s *checklistService) FetchForSubmission(ctx context.Context, assignmentID string, submitter *SubmitterContext) (*dto.AssignmentDetailResponse, error) {
	a, err := s.loadOpenAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	if !s.canSubmitChecklist(submitter, a) {
		return nil, ErrNotAssignee
	}

	items, err := s.repo.Template.ItemsFor(ctx, a.TemplateID)
	if err != nil {
		s.logger.Error("查询检查项失败", zap.Error(err))
		return nil, err
	}

	detail := &dto.AssignmentDetailResponse{
		ID:         a.AssignmentID,
		TemplateID: a.TemplateID,
		Status:     a.Status,
		Items:      toItemResponses(items),
		Zones:      toZoneSnapshots(a.Zones),
	}
	if a.Template != nil {
		detail.TemplateName = a.Template.Name
	}
	if a.DueDate != nil {
		due := a.DueDate.Format(time.RFC3339)
		detail.DueDate = &due
	}
	return detail, nil
}

// ────────────────────── StartAssignment ──────────────────────

func (s *checklistService) StartAssignment(ctx context.Context, assignmentID string, submitter *SubmitterContext) error {
	a, err := s.loadOpenAssignment(ctx, assignmentID)
	if err != nil {
		return err
	}
	if !s.canSubmitChecklist(submitter, a) {
		return ErrNotAssignee
	}
	if a.Status != model.AssignmentStatusPending {
		return nil // 已在 in_progress，幂等
	}

	a.Status = model.AssignmentStatusInProgress
	a.UpdatedBy = &submitter.UserID
	if err := s.repo.Assignment.Update(ctx, a); err != nil {
		s.logger.Error("任务状态推进失败", zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── SubmitAnswers ──────────────────────

func (s *checklistService) SubmitAnswers(ctx context.Context, assignmentID string, req *dto.SubmitChecklistRequest, submitter *SubmitterContext) (*dto.SubmitChecklistResponse, error) {
	// 1. 坐标范围校验（绑定层已拦截，此处兜底）
	if req.Latitude == nil || req.Longitude == nil ||
		!geo.ValidLatitude(*req.Latitude) || !geo.ValidLongitude(*req.Longitude) {
		return nil, ErrAnswersInvalid
	}

	// 2. 加载任务：缺失 / 已删除 / 已完成统一 NotFound 或 AlreadyCompleted
	a, err := s.loadOpenAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if !s.canSubmitChecklist(submitter, a) {
		return nil, ErrNotAssignee
	}

	// 3. 围栏判定：任一快照围栏命中即在范围内。
	//    不在范围内不是错误，是可重试的正常结果，状态不变、不落任何数据。
	if !geo.WithinAny(a.Zones, *req.Latitude, *req.Longitude) {
		return &dto.SubmitChecklistResponse{
			Status:  "success",
			InRange: false,
			Message: "不在任务围栏范围内",
		}, nil
	}

	// 4. 必答校验：所有必填检查项必须作答，整单原子，不接受部分提交
	items, err := s.repo.Template.ItemsFor(ctx, a.TemplateID)
	if err != nil {
		s.logger.Error("查询检查项失败", zap.Error(err))
		return nil, err
	}
	if err := validateAnswers(items, req.Answers); err != nil {
		return nil, err
	}

	// 5. 构造不可变提交记录并原子落库（提交 + 状态推进同事务）
	sub := buildSubmissionRecord(a.AssignmentID, submitter, req, time.Now().UTC())
	if err := s.repo.Assignment.CompleteWithSubmission(ctx, a.AssignmentID, sub); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			// 并发竞争：另一提交已先完成该任务
			return nil, ErrAssignmentCompleted
		}
		s.logger.Error("提交检查单失败",
			zap.String("assignment_id", a.AssignmentID),
			zap.Error(err),
		)
		return nil, err
	}

	s.audit.Record(ctx, submitter.UserID, "submit", "checklist_submission", sub.SubmissionID, map[string]interface{}{
		"assignment_id": a.AssignmentID,
	})

	return &dto.SubmitChecklistResponse{
		Status:       "success",
		InRange:      true,
		Message:      "检查单提交成功",
		SubmissionID: &sub.SubmissionID,
	}, nil
}

// ────────────────────── ListAssignments ──────────────────────

func (s *checklistService) ListAssignments(ctx context.Context, req *dto.AssignmentListRequest) ([]dto.AssignmentResponse, int64, error) {
	assignments, total, err := s.repo.Assignment.List(ctx, req.Status, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询任务列表失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.AssignmentResponse, 0, len(assignments))
	for i := range assignments {
		resp := s.toAssignmentResponse(&assignments[i])
		if assignments[i].Template != nil {
			resp.TemplateName = assignments[i].Template.Name
		}
		result = append(result, *resp)
	}
	return result, total, nil
}

// ────────────────────── DeleteAssignment ──────────────────────

func (s *checklistService) DeleteAssignment(ctx context.Context, assignmentID string, callerID string) error {
	_, err := s.repo.Assignment.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		s.logger.Error("查询任务失败", zap.Error(err))
		return err
	}

	if err := s.repo.Assignment.Delete(ctx, assignmentID, callerID); err != nil {
		s.logger.Error("删除任务失败", zap.Error(err))
		return err
	}

	s.audit.Record(ctx, callerID, "delete", "checklist_assignment", assignmentID, nil)
	return nil
}

// ────────────────────── GetSubmission ──────────────────────

func (s *checklistService) GetSubmission(ctx context.Context, submissionID string) (*dto.SubmissionResponse, error) {
	sub, err := s.repo.Submission.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		s.logger.Error("查询提交记录失败", zap.Error(err))
		return nil, err
	}
	return toSubmissionResponse(sub), nil
}

func (s *checklistService) GetSubmissionByAssignment(ctx context.Context, assignmentID string) (*dto.SubmissionResponse, error) {
	sub, err := s.repo.Submission.GetByAssignment(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		s.logger.Error("查询提交记录失败", zap.Error(err))
		return nil, err
	}
	return toSubmissionResponse(sub), nil
}

// ── 内部辅助方法 ──

// loadOpenAssignment 加载仍可提交的任务。
// 软删除由查询层过滤；已完成返回 ErrAssignmentCompleted，其余缺失返回 NotFound。
func (s *checklistService) loadOpenAssignment(ctx context.Context, assignmentID string) (*model.ChecklistAssignment, error) {
	a, err := s.repo.Assignment.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		s.logger.Error("查询任务失败", zap.Error(err))
		return nil, err
	}
	if !a.IsOpen() {
		return nil, ErrAssignmentCompleted
	}
	return a, nil
}

// canSubmitChecklist 能力检查：提交人必须是任务目标（本人或本人班组成员）
func (s *checklistService) canSubmitChecklist(submitter *SubmitterContext, a *model.ChecklistAssignment) bool {
	if a.AssignedToUserID != nil {
		return *a.AssignedToUserID == submitter.UserID
	}
	if a.AssignedToTeamID != nil && submitter.TeamID != nil {
		return *a.AssignedToTeamID == *submitter.TeamID
	}
	return false
}

// validateAnswers 校验作答覆盖所有必填项，且不含未知检查项与非法取值
func validateAnswers(items []model.ChecklistItem, answers []dto.AnswerRequest) error {
	known := make(map[string]bool, len(items))
	required := make(map[string]bool)
	for _, item := range items {
		known[item.ItemID] = true
		if item.IsRequired {
			required[item.ItemID] = true
		}
	}

	answered := make(map[string]bool, len(answers))
	for _, ans := range answers {
		if !known[ans.ItemID] {
			return fmt.Errorf("%w: 未知检查项 %s", ErrAnswersInvalid, ans.ItemID)
		}
		if answered[ans.ItemID] {
			return fmt.Errorf("%w: 检查项 %s 重复作答", ErrAnswersInvalid, ans.ItemID)
		}
		if ans.Type == model.AnswerTypeNumber {
			if _, err := strconv.ParseFloat(ans.Value, 64); err != nil {
				return fmt.Errorf("%w: 检查项 %s 的数值作答不合法", ErrAnswersInvalid, ans.ItemID)
			}
		}
		answered[ans.ItemID] = true
	}

	for itemID := range required {
		if !answered[itemID] {
			return fmt.Errorf("%w: 必填检查项 %s 未作答", ErrAnswersInvalid, itemID)
		}
	}
	return nil
}

// buildSubmissionRecord 纯构造步骤：组装不可变提交记录。
// 入参均已校验，不做任何外部调用。
func buildSubmissionRecord(assignmentID string, submitter *SubmitterContext, req *dto.SubmitChecklistRequest, now time.Time) *model.ChecklistSubmission {
	answers := make(model.AnswerList, 0, len(req.Answers))
	for _, ans := range req.Answers {
		answers = append(answers, model.Answer{
			ItemID: ans.ItemID,
			Type:   ans.Type,
			Value:  ans.Value,
		})
	}

	return &model.ChecklistSubmission{
		AssignmentID:             assignmentID,
		UserID:                   submitter.UserID,
		DepartmentIDAtSubmission: submitter.DepartmentID,
		TeamIDAtSubmission:       submitter.TeamID,
		Answers:                  answers,
		Latitude:                 *req.Latitude,
		Longitude:                *req.Longitude,
		SubmittedAt:              now,
		Status:                   "completed",
	}
}

func (s *checklistService) toAssignmentResponse(a *model.ChecklistAssignment) *dto.AssignmentResponse {
	resp := &dto.AssignmentResponse{
		ID:               a.AssignmentID,
		TemplateID:       a.TemplateID,
		AssignedToUserID: a.AssignedToUserID,
		AssignedToTeamID: a.AssignedToTeamID,
		AssignedByID:     a.AssignedByID,
		Status:           a.Status,
		Zones:            toZoneSnapshots(a.Zones),
		CreatedAt:        a.CreatedAt.Format(time.RFC3339),
	}
	if a.DueDate != nil {
		due := a.DueDate.Format(time.RFC3339)
		resp.DueDate = &due
	}
	if a.CompletedDate != nil {
		done := a.CompletedDate.Format(time.RFC3339)
		resp.CompletedDate = &done
	}
	return resp
}

func toZoneSnapshots(zones model.ZoneList) []dto.ZoneSnapshot {
	result := make([]dto.ZoneSnapshot, 0, len(zones))
	for _, z := range zones {
		result = append(result, dto.ZoneSnapshot{
			Latitude:     z.Latitude,
			Longitude:    z.Longitude,
			RadiusMeters: z.RadiusMeters,
		})
	}
	return result
}

func toItemResponses(items []model.ChecklistItem) []dto.TemplateItemResponse {
	result := make([]dto.TemplateItemResponse, 0, len(items))
	for i := range items {
		result = append(result, dto.TemplateItemResponse{
			ID:               items[i].ItemID,
			Title:            items[i].Title,
			Description:      items[i].Description,
			OrderIndex:       items[i].OrderIndex,
			IsRequired:       items[i].IsRequired,
			RequiresEvidence: items[i].RequiresEvidence,
			EvidenceType:     items[i].EvidenceType,
		})
	}
	return result
}

func toSubmissionResponse(sub *model.ChecklistSubmission) *dto.SubmissionResponse {
	answers := make([]dto.AnswerResponse, 0, len(sub.Answers))
	for _, ans := range sub.Answers {
		answers = append(answers, dto.AnswerResponse{
			ItemID: ans.ItemID,
			Type:   ans.Type,
			Value:  ans.Value,
		})
	}
	return &dto.SubmissionResponse{
		ID:                       sub.SubmissionID,
		AssignmentID:             sub.AssignmentID,
		UserID:                   sub.UserID,
		DepartmentIDAtSubmission: sub.DepartmentIDAtSubmission,
		TeamIDAtSubmission:       sub.TeamIDAtSubmission,
		Answers:                  answers,
		Latitude:                 sub.Latitude,
		Longitude:                sub.Longitude,
		SubmittedAt:              sub.SubmittedAt.Format(time.RFC3339),
		Status:                   sub.Status,
	}
}
