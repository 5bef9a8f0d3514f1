package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/YashBansal1/L-D-Portal/config"
	"github.com/YashBansal1/L-D-Portal/internal/dto"
	"github.com/YashBansal1/L-D-Portal/internal/model"
)

func setupTestQuizService() (QuizService, *memStore) {
	store := newMemStore()
	repo := newMockRepository(store)
	enrollment := NewEnrollmentService(&config.LearningConfig{
		BadgePolicy: config.BadgePolicyCompletion,
		AccrueHours: true,
	}, repo, zap.NewNop())
	return NewQuizService(repo, enrollment, zap.NewNop()), store
}

// 三道题，答对两道及格
func threeQuestionQuiz() *dto.UpsertQuizRequest {
	return &dto.UpsertQuizRequest{
		PassingScore: 2,
		Questions: []dto.QuestionRequest{
			{Text: "Q1", Options: []string{"a", "b"}, CorrectIndex: 0},
			{Text: "Q2", Options: []string{"a", "b", "c"}, CorrectIndex: 2},
			{Text: "Q3", Options: []string{"a", "b"}, CorrectIndex: 1},
		},
	}
}

func TestQuizService_UpsertAndGet(t *testing.T) {
	svc, store := setupTestQuizService()
	seedTraining(store, "t-1", "Node", "Basic", 4)
	ctx := context.Background()

	saved, err := svc.Upsert(ctx, "t-1", threeQuestionQuiz(), "admin-1")
	if err != nil {
		t.Fatalf("Upsert 失败: %v", err)
	}
	if saved.ID == "" || saved.PassingScore != 2 || len(saved.Questions) != 3 {
		t.Errorf("保存结果不符: %+v", saved)
	}

	// 覆盖写入保留原 ID
	req := threeQuestionQuiz()
	req.PassingScore = 3
	again, err := svc.Upsert(ctx, "t-1", req, "admin-1")
	if err != nil {
		t.Fatalf("覆盖 Upsert 失败: %v", err)
	}
	if again.ID != saved.ID || again.PassingScore != 3 {
		t.Errorf("覆盖写入应保留 ID: %s -> %s", saved.ID, again.ID)
	}

	got, err := svc.Get(ctx, "t-1")
	if err != nil {
		t.Fatalf("Get 失败: %v", err)
	}
	if got.Questions[1].Text != "Q2" || len(got.Questions[1].Options) != 3 || got.Questions[1].Index != 1 {
		t.Errorf("题目内容不符: %+v", got.Questions[1])
	}
}

func TestQuizService_UpsertInvalid(t *testing.T) {
	svc, store := setupTestQuizService()
	seedTraining(store, "t-1", "Node", "Basic", 4)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *dto.UpsertQuizRequest
	}{
		{"无题目", &dto.UpsertQuizRequest{PassingScore: 1}},
		{"正确答案越界", &dto.UpsertQuizRequest{PassingScore: 1, Questions: []dto.QuestionRequest{
			{Text: "Q1", Options: []string{"a", "b"}, CorrectIndex: 5},
		}}},
		{"及格分超过题数", &dto.UpsertQuizRequest{PassingScore: 4, Questions: threeQuestionQuiz().Questions}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Upsert(ctx, "t-1", tt.req, "admin-1"); !errors.Is(err, ErrQuizInvalid) {
				t.Errorf("期望 ErrQuizInvalid，实际: %v", err)
			}
		})
	}

	if _, err := svc.Upsert(ctx, "missing", threeQuestionQuiz(), "admin-1"); !errors.Is(err, ErrTrainingNotFound) {
		t.Errorf("期望 ErrTrainingNotFound，实际: %v", err)
	}
	if _, err := svc.Get(ctx, "t-1"); !errors.Is(err, ErrQuizNotFound) {
		t.Errorf("期望 ErrQuizNotFound，实际: %v", err)
	}
}

func TestQuizService_SubmitPassCompletes(t *testing.T) {
	svc, store := setupTestQuizService()
	seedUser(store, "u-1", "a@example.com", model.RoleEmployee, "Eng")
	seedTraining(store, "t-1", "Node", "Basic", 4)
	store.enrollments[enrollmentKey("u-1", "t-1")] = &model.Enrollment{UserID: "u-1", TrainingID: "t-1", Status: model.EnrollmentEnrolled}
	ctx := context.Background()

	if _, err := svc.Upsert(ctx, "t-1", threeQuestionQuiz(), "admin-1"); err != nil {
		t.Fatalf("Upsert 失败: %v", err)
	}

	// 答对 2 道：通过
	result, err := svc.Submit(ctx, "u-1", "t-1", []int{0, 2, 0}, "u-1")
	if err != nil {
		t.Fatalf("Submit 失败: %v", err)
	}
	if !result.Passed || result.Score != 2 || result.Total != 3 {
		t.Errorf("判分不符: %+v", result)
	}
	if result.Completion == nil || result.Completion.Enrollment.Status != string(model.EnrollmentCompleted) {
		t.Fatalf("通过后应完成培训: %+v", result.Completion)
	}
	if !store.profiles["u-1"].Skills.Contains("Basic") {
		t.Error("通过测验后应合并技能")
	}
}

func TestQuizService_SubmitFailDoesNotComplete(t *testing.T) {
	svc, store := setupTestQuizService()
	seedUser(store, "u-1", "a@example.com", model.RoleEmployee, "Eng")
	seedTraining(store, "t-1", "Node", "Basic", 4)
	store.enrollments[enrollmentKey("u-1", "t-1")] = &model.Enrollment{UserID: "u-1", TrainingID: "t-1", Status: model.EnrollmentEnrolled}
	ctx := context.Background()

	_, _ = svc.Upsert(ctx, "t-1", threeQuestionQuiz(), "admin-1")

	// 答对 1 道：未通过
	result, err := svc.Submit(ctx, "u-1", "t-1", []int{0, 0, 0}, "u-1")
	if err != nil {
		t.Fatalf("Submit 失败: %v", err)
	}
	if result.Passed || result.Score != 1 || result.Completion != nil {
		t.Errorf("未通过不应完成培训: %+v", result)
	}
	if store.enrollments[enrollmentKey("u-1", "t-1")].Status != model.EnrollmentEnrolled {
		t.Error("报名状态不应改变")
	}
	if len(store.badges) != 0 {
		t.Error("未通过不应颁发勋章")
	}

	// 答案数量不符
	if _, err := svc.Submit(ctx, "u-1", "t-1", []int{0, 1}, "u-1"); !errors.Is(err, ErrQuizAnswersInvalid) {
		t.Errorf("期望 ErrQuizAnswersInvalid，实际: %v", err)
	}
}

func TestQuizService_SubmitPassWithoutEnrollment(t *testing.T) {
	svc, store := setupTestQuizService()
	seedUser(store, "u-1", "a@example.com", model.RoleEmployee, "Eng")
	seedTraining(store, "t-1", "Node", "Basic", 4)
	ctx := context.Background()
	_, _ = svc.Upsert(ctx, "t-1", threeQuestionQuiz(), "admin-1")

	if _, err := svc.Submit(ctx, "u-1", "t-1", []int{0, 2, 1}, "u-1"); !errors.Is(err, ErrEnrollmentNotFound) {
		t.Errorf("未报名通过测验也无法完成，期望 ErrEnrollmentNotFound，实际: %v", err)
	}
}
