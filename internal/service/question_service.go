package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"fieldops/backend/internal/dto"
	"fieldops/backend/internal/model"
	"fieldops/backend/internal/repository"
)

// ── 题库模块业务错误 ──

var (
	ErrPoolNotFound     = errors.New("题库不存在")
	ErrPoolDepartment   = errors.New("题库所属部门不存在")
	ErrQuestionNotFound = errors.New("题目不存在")
)

// QuestionService 题库管理接口
type QuestionService interface {
	CreatePool(ctx context.Context, req *dto.CreatePoolRequest, callerID string) (*dto.PoolResponse, error)
	GetPool(ctx context.Context, poolID string) (*dto.PoolResponse, error)
	UpdatePool(ctx context.Context, poolID string, req *dto.UpdatePoolRequest, callerID string) (*dto.PoolResponse, error)
	DeletePool(ctx context.Context, poolID string, callerID string) error
	ListPools(ctx context.Context, departmentID string) ([]dto.PoolResponse, error)
	AddQuestion(ctx context.Context, poolID string, req *dto.CreateQuestionRequest, callerID string) (*dto.QuestionResponse, error)
	UpdateQuestion(ctx context.Context, questionID string, req *dto.UpdateQuestionRequest, callerID string) (*dto.QuestionResponse, error)
	DeleteQuestion(ctx context.Context, questionID string, callerID string) error
}

type questionService struct {
	repo   *repository.Repository
	audit  AuditService
	logger *zap.Logger
}

// NewQuestionService 创建 QuestionService 实例
func NewQuestionService(repo *repository.Repository, audit AuditService, logger *zap.Logger) QuestionService {
	return &questionService{repo: repo, audit: audit, logger: logger}
}

func (s *questionService) CreatePool(ctx context.Context, req *dto.CreatePoolRequest, callerID string) (*dto.PoolResponse, error) {
	if _, err := s.repo.Department.GetByID(ctx, req.DepartmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPoolDepartment
		}
		s.logger.Error("查询部门失败", zap.Error(err))
		return nil, err
	}

	pool := &model.QuestionPool{
		Name:         req.Name,
		Description:  req.Description,
		DepartmentID: req.DepartmentID,
		IsActive:     true,
	}
	pool.CreatedBy = &callerID
	pool.UpdatedBy = &callerID

	if err := s.repo.QuestionPool.CreatePool(ctx, pool); err != nil {
		s.logger.Error("创建题库失败", zap.Error(err))
		return nil, err
	}

	s.audit.Record(ctx, callerID, "create", "question_pool", pool.PoolID, nil)
	return toPoolResponse(pool), nil
}

func (s *questionService) GetPool(ctx context.Context, poolID string) (*dto.PoolResponse, error) {
	pool, err := s.repo.QuestionPool.GetPoolByID(ctx, poolID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPoolNotFound
		}
		s.logger.Error("查询题库失败", zap.Error(err))
		return nil, err
	}
	return toPoolResponse(pool), nil
}

func (s *questionService) UpdatePool(ctx context.Context, poolID string, req *dto.UpdatePoolRequest, callerID string) (*dto.PoolResponse, error) {
	pool, err := s.repo.QuestionPool.GetPoolByID(ctx, poolID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPoolNotFound
		}
		s.logger.Error("查询题库失败", zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		pool.Name = *req.Name
	}
	if req.Description != nil {
		pool.Description = *req.Description
	}
	if req.IsActive != nil {
		pool.IsActive = *req.IsActive
	}
	pool.UpdatedBy = &callerID

	if err := s.repo.QuestionPool.UpdatePool(ctx, pool); err != nil {
		s.logger.Error("更新题库失败", zap.Error(err))
		return nil, err
	}

	s.audit.Record(ctx, callerID, "update", "question_pool", poolID, nil)
	return toPoolResponse(pool), nil
}

func (s *questionService) DeletePool(ctx context.Context, poolID string, callerID string) error {
	if _, err := s.repo.QuestionPool.GetPoolByID(ctx, poolID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPoolNotFound
		}
		s.logger.Error("查询题库失败", zap.Error(err))
		return err
	}

	if err := s.repo.QuestionPool.DeletePool(ctx, poolID, callerID); err != nil {
		s.logger.Error("删除题库失败", zap.Error(err))
		return err
	}

	s.audit.Record(ctx, callerID, "delete", "question_pool", poolID, nil)
	return nil
}

func (s *questionService) ListPools(ctx context.Context, departmentID string) ([]dto.PoolResponse, error) {
	pools, err := s.repo.QuestionPool.ListPools(ctx, departmentID)
	if err != nil {
		s.logger.Error("查询题库列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.PoolResponse, 0, len(pools))
	for i := range pools {
		result = append(result, *toPoolResponse(&pools[i]))
	}
	return result, nil
}

func (s *questionService) AddQuestion(ctx context.Context, poolID string, req *dto.CreateQuestionRequest, callerID string) (*dto.QuestionResponse, error) {
	if _, err := s.repo.QuestionPool.GetPoolByID(ctx, poolID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPoolNotFound
		}
		s.logger.Error("查询题库失败", zap.Error(err))
		return nil, err
	}

	q := &model.Question{
		PoolID:     poolID,
		Title:      req.Title,
		Details:    req.Details,
		OrderIndex: req.OrderIndex,
		IsActive:   true,
	}
	q.CreatedBy = &callerID
	q.UpdatedBy = &callerID

	if err := s.repo.QuestionPool.CreateQuestion(ctx, q); err != nil {
		s.logger.Error("新增题目失败", zap.Error(err))
		return nil, err
	}

	s.audit.Record(ctx, callerID, "create", "question", q.QuestionID, map[string]interface{}{
		"pool_id": poolID,
	})
	return toQuestionResponse(q), nil
}

func (s *questionService) UpdateQuestion(ctx context.Context, questionID string, req *dto.UpdateQuestionRequest, callerID string) (*dto.QuestionResponse, error) {
	q, err := s.repo.QuestionPool.GetQuestionByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		s.logger.Error("查询题目失败", zap.Error(err))
		return nil, err
	}

	if req.Title != nil {
		q.Title = *req.Title
	}
	if req.Details != nil {
		q.Details = *req.Details
	}
	if req.OrderIndex != nil {
		q.OrderIndex = *req.OrderIndex
	}
	if req.IsActive != nil {
		q.IsActive = *req.IsActive
	}
	q.UpdatedBy = &callerID

	if err := s.repo.QuestionPool.UpdateQuestion(ctx, q); err != nil {
		s.logger.Error("更新题目失败", zap.Error(err))
		return nil, err
	}

	s.audit.Record(ctx, callerID, "update", "question", questionID, nil)
	return toQuestionResponse(q), nil
}

func (s *questionService) DeleteQuestion(ctx context.Context, questionID string, callerID string) error {
	if _, err := s.repo.QuestionPool.GetQuestionByID(ctx, questionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuestionNotFound
		}
		s.logger.Error("查询题目失败", zap.Error(err))
		return err
	}

	if err := s.repo.QuestionPool.DeleteQuestion(ctx, questionID, callerID); err != nil {
		s.logger.Error("删除题目失败", zap.Error(err))
		return err
	}

	s.audit.Record(ctx, callerID, "delete", "question", questionID, nil)
	return nil
}

func toPoolResponse(pool *model.QuestionPool) *dto.PoolResponse {
	resp := &dto.PoolResponse{
		ID:           pool.PoolID,
		Name:         pool.Name,
		Description:  pool.Description,
		DepartmentID: pool.DepartmentID,
		IsActive:     pool.IsActive,
	}
	for i := range pool.Questions {
		resp.Questions = append(resp.Questions, *toQuestionResponse(&pool.Questions[i]))
	}
	return resp
}

func toQuestionResponse(q *model.Question) *dto.QuestionResponse {
	return &dto.QuestionResponse{
		ID:         q.QuestionID,
		Title:      q.Title,
		Details:    q.Details,
		OrderIndex: q.OrderIndex,
		IsActive:   q.IsActive,
	}
}
