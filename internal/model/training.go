package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 培训类型
const (
	TrainingTypeTechnical  = "technical"
	TrainingTypeSoftSkills = "soft-skills"
	TrainingTypeCompliance = "compliance"
)

// 授课形式
const (
	TrainingFormatOnline  = "online"
	TrainingFormatOffline = "offline"
	TrainingFormatHybrid  = "hybrid"
)

// 培训生命周期
const (
	TrainingStatusUpcoming  = "upcoming"
	TrainingStatusOngoing   = "ongoing"
	TrainingStatusCompleted = "completed"
	TrainingStatusCancelled = "cancelled"
)

// Training 培训表 — 对应 trainings
type Training struct {
	TrainingID    string    `gorm:"type:uuid;primaryKey"                 json:"training_id"`
	Title         string    `gorm:"type:varchar(200);not null"           json:"title"`
	Description   string    `gorm:"type:text;not null;default:''"        json:"description"`
	Instructor    string    `gorm:"type:varchar(100);not null;default:''" json:"instructor"`
	StartDate     time.Time `gorm:"not null"                             json:"start_date"`
	EndDate       time.Time `gorm:"not null"                             json:"end_date"`
	DurationHours float64   `gorm:"not null;default:0"                   json:"duration_hours"`
	Type          string    `gorm:"type:varchar(20);not null"            json:"type"`
	Format        string    `gorm:"type:varchar(20);not null"            json:"format"`
	MaxSeats      int       `gorm:"not null;default:0"                   json:"max_seats"`
	Enrolled      int       `gorm:"not null;default:0"                   json:"enrolled"`
	IsMandatory   bool      `gorm:"not null;default:false"               json:"is_mandatory"`
	Status        string    `gorm:"type:varchar(20);not null;default:'upcoming'" json:"status"`
	Tags          TagSet    `gorm:"type:text;not null;default:''"        json:"tags"`
	VersionedModel
}

// TableName 指定表名
func (Training) TableName() string { return "trainings" }

// BeforeCreate 主键为空时生成 UUID
func (t *Training) BeforeCreate(_ *gorm.DB) error {
	if t.TrainingID == "" {
		t.TrainingID = uuid.New().String()
	}
	return nil
}

// IsValidTrainingType 类型合法性
func IsValidTrainingType(v string) bool {
	switch v {
	case TrainingTypeTechnical, TrainingTypeSoftSkills, TrainingTypeCompliance:
		return true
	}
	return false
}

// IsValidTrainingFormat 形式合法性
func IsValidTrainingFormat(v string) bool {
	switch v {
	case TrainingFormatOnline, TrainingFormatOffline, TrainingFormatHybrid:
		return true
	}
	return false
}

// IsValidTrainingStatus 状态合法性
func IsValidTrainingStatus(v string) bool {
	switch v {
	case TrainingStatusUpcoming, TrainingStatusOngoing, TrainingStatusCompleted, TrainingStatusCancelled:
		return true
	}
	return false
}
