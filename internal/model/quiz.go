package model

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Quiz 培训测验 — 对应 quizzes，每个培训至多一份；Questions 为题目数组 JSON
type Quiz struct {
	QuizID       string         `gorm:"type:uuid;primaryKey"              json:"quiz_id"`
	TrainingID   string         `gorm:"type:uuid;not null;uniqueIndex"    json:"training_id"`
	PassingScore int            `gorm:"not null"                          json:"passing_score"`
	Questions    datatypes.JSON `gorm:"not null"                          json:"questions"`
	BaseModel
}

// TableName 指定表名
func (Quiz) TableName() string { return "quizzes" }

// BeforeCreate 主键为空时生成 UUID
func (q *Quiz) BeforeCreate(_ *gorm.DB) error {
	if q.QuizID == "" {
		q.QuizID = uuid.New().String()
	}
	return nil
}
