package dto

// ── 报名模块 DTO ──

// EnrollmentActionRequest 报名/完成/退出请求；user_id 仅管理员代操作时使用
type EnrollmentActionRequest struct {
	UserID string `json:"user_id" binding:"omitempty"`
}

// UpdateProgressRequest 更新进度请求
type UpdateProgressRequest struct {
	UserID     string `json:"user_id"    binding:"omitempty"`
	Progress   *int   `json:"progress"`
	Attendance *int   `json:"attendance"`
}

// SetEnrollmentStatusRequest 管理员设置报名状态
type SetEnrollmentStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=assigned enrolled waitlisted completed dropped"`
}

// ── 响应 ──

// EnrollmentResponse 报名记录响应
type EnrollmentResponse struct {
	UserID      string         `json:"user_id"`
	TrainingID  string         `json:"training_id"`
	Status      string         `json:"status"`
	Progress    int            `json:"progress"`
	Attendance  int            `json:"attendance"`
	EnrolledAt  string         `json:"enrolled_at"`
	CompletedAt *string        `json:"completed_at,omitempty"`
	Training    *TrainingBrief `json:"training,omitempty"`
}

// BadgeResponse 勋章响应
type BadgeResponse struct {
	ID          string  `json:"id"`
	Kind        string  `json:"kind"`
	Name        string  `json:"name"`
	Icon        string  `json:"icon"`
	Description string  `json:"description"`
	TrainingID  *string `json:"training_id,omitempty"`
	AwardedAt   string  `json:"awarded_at"`
}

// CompletionResponse 完成培训结果。
// 首次完成时 Badges 为本次新颁发的全部勋章（结业 + 阶梯）；
// 重复完成（AlreadyCompleted=true）时只回放该培训的结业勋章，阶梯勋章见个人档案。
type CompletionResponse struct {
	Enrollment       EnrollmentResponse `json:"enrollment"`
	Badges           []BadgeResponse    `json:"badges"`
	AlreadyCompleted bool               `json:"already_completed"`
}

// [自证通过] internal/dto/enrollment.go
