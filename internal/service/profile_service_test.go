package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/YashBansal1/L-D-Portal/internal/dto"
	"github.com/YashBansal1/L-D-Portal/internal/model"
)

func TestProfileService_GetProfile_Missing(t *testing.T) {
	store := newMemStore()
	svc := NewProfileService(newMockRepository(store), zap.NewNop())
	seedUser(store, "u-1", "a@example.com", model.RoleEmployee, "Eng")

	result, err := svc.GetProfile(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("无档案时不应报错: %v", err)
	}
	if result.Skills == nil || len(result.Skills) != 0 {
		t.Errorf("技能应为空数组: %#v", result.Skills)
	}
	if result.Badges == nil || len(result.Badges) != 0 {
		t.Errorf("勋章应为空数组: %#v", result.Badges)
	}
	if result.TotalLearningHours != 0 {
		t.Errorf("学时应为 0，实际 %v", result.TotalLearningHours)
	}
	if _, ok := store.profiles["u-1"]; ok {
		t.Error("读取不应创建档案")
	}

	if _, err := svc.GetProfile(context.Background(), "ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}

func TestProfileService_GetProfile_WithBadges(t *testing.T) {
	store := newMemStore()
	svc := NewProfileService(newMockRepository(store), zap.NewNop())
	seedUser(store, "u-1", "a@example.com", model.RoleEmployee, "Eng")
	store.profiles["u-1"] = &model.Profile{UserID: "u-1", Skills: model.ParseTagSet("Go,SQL"), TotalLearningHours: 12.5}
	store.badges = append(store.badges, model.Badge{BadgeID: "b-1", UserID: "u-1", Kind: model.BadgeKindCompletion, Name: "Training Completed"})

	result, err := svc.GetProfile(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("GetProfile 失败: %v", err)
	}
	if len(result.Skills) != 2 || len(result.Badges) != 1 || result.TotalLearningHours != 12.5 {
		t.Errorf("档案内容不符: %+v", result)
	}
}

func TestProfileService_UpdateProfile(t *testing.T) {
	store := newMemStore()
	svc := NewProfileService(newMockRepository(store), zap.NewNop())
	seedUser(store, "u-1", "a@example.com", model.RoleEmployee, "Eng")
	store.profiles["u-1"] = &model.Profile{UserID: "u-1", Skills: model.ParseTagSet("Go"), TotalLearningHours: 3}

	bio := "后端工程师"
	result, err := svc.UpdateProfile(context.Background(), "u-1", &dto.UpdateProfileRequest{Bio: &bio})
	if err != nil {
		t.Fatalf("UpdateProfile 失败: %v", err)
	}
	if result.Bio != bio {
		t.Errorf("简介未更新: %+v", result)
	}
	stored := store.profiles["u-1"]
	if !stored.Skills.Contains("Go") || stored.TotalLearningHours != 3 {
		t.Errorf("编辑简介不应影响技能与学时: %+v", stored)
	}
}
