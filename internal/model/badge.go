package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 勋章种类
const (
	BadgeKindCompletion = "completion" // 结业勋章，每个培训一枚
	BadgeKindTier       = "tier"       // 学时阶梯勋章，每级一枚
)

// Badge 勋章 — 对应 badges，只追加
type Badge struct {
	BadgeID     string    `gorm:"type:uuid;primaryKey"              json:"badge_id"`
	UserID      string    `gorm:"type:uuid;not null;index"          json:"user_id"`
	TrainingID  *string   `gorm:"type:uuid"                         json:"training_id,omitempty"`
	Kind        string    `gorm:"type:varchar(20);not null"         json:"kind"`
	Name        string    `gorm:"type:varchar(100);not null"        json:"name"`
	Icon        string    `gorm:"type:varchar(100);not null;default:''" json:"icon"`
	Description string    `gorm:"type:text;not null;default:''"     json:"description"`
	AwardedAt   time.Time `gorm:"not null"                          json:"awarded_at"`
}

// TableName 指定表名
func (Badge) TableName() string { return "badges" }

// BeforeCreate 主键为空时生成 UUID
func (b *Badge) BeforeCreate(_ *gorm.DB) error {
	if b.BadgeID == "" {
		b.BadgeID = uuid.New().String()
	}
	return nil
}
