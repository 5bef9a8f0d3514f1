package model

import "time"

// EnrollmentStatus 报名状态
type EnrollmentStatus string

const (
	EnrollmentAssigned   EnrollmentStatus = "assigned"
	EnrollmentEnrolled   EnrollmentStatus = "enrolled"
	EnrollmentWaitlisted EnrollmentStatus = "waitlisted"
	EnrollmentCompleted  EnrollmentStatus = "completed"
	EnrollmentDropped    EnrollmentStatus = "dropped"
)

// 状态迁移表；completed 与 dropped 为终态
var enrollmentTransitions = map[EnrollmentStatus][]EnrollmentStatus{
	EnrollmentAssigned:   {EnrollmentEnrolled, EnrollmentWaitlisted, EnrollmentCompleted, EnrollmentDropped},
	EnrollmentEnrolled:   {EnrollmentWaitlisted, EnrollmentCompleted, EnrollmentDropped},
	EnrollmentWaitlisted: {EnrollmentEnrolled, EnrollmentDropped},
}

// Valid 是否为已知状态
func (s EnrollmentStatus) Valid() bool {
	switch s {
	case EnrollmentAssigned, EnrollmentEnrolled, EnrollmentWaitlisted, EnrollmentCompleted, EnrollmentDropped:
		return true
	}
	return false
}

// Terminal 终态不再接受任何迁移
func (s EnrollmentStatus) Terminal() bool {
	return s == EnrollmentCompleted || s == EnrollmentDropped
}

// CountsTowardSeats 非 dropped 的报名均计入 Training.enrolled
func (s EnrollmentStatus) CountsTowardSeats() bool {
	return s != EnrollmentDropped
}

// CanTransition from → to 是否合法（同状态不算迁移）
func CanTransition(from, to EnrollmentStatus) bool {
	for _, next := range enrollmentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Enrollment 报名记录 — 对应 enrollments，(user_id, training_id) 复合主键
type Enrollment struct {
	UserID      string           `gorm:"type:uuid;primaryKey"        json:"user_id"`
	TrainingID  string           `gorm:"type:uuid;primaryKey"        json:"training_id"`
	Status      EnrollmentStatus `gorm:"type:varchar(20);not null"   json:"status"`
	Progress    int              `gorm:"not null;default:0"          json:"progress"`
	Attendance  int              `gorm:"not null;default:0"          json:"attendance"`
	EnrolledAt  time.Time        `gorm:"not null"                    json:"enrolled_at"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
	BaseModel

	// 关联
	Training *Training `gorm:"foreignKey:TrainingID;references:TrainingID;constraint:OnDelete:CASCADE" json:"training,omitempty"`
	User     *User     `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE"         json:"user,omitempty"`
}

// TableName 指定表名
func (Enrollment) TableName() string { return "enrollments" }

// ClampPercent 百分比限制在 [0,100]
func ClampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// MarkCompleted 进入 completed：进度置 100，completedAt 仅在首次进入时写入
func (e *Enrollment) MarkCompleted(now time.Time) {
	e.Status = EnrollmentCompleted
	e.Progress = 100
	if e.CompletedAt == nil {
		if now.Before(e.EnrolledAt) {
			now = e.EnrolledAt
		}
		e.CompletedAt = &now
	}
}
