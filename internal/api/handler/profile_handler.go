package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/YashBansal1/L-D-Portal/internal/dto"
	"github.com/YashBansal1/L-D-Portal/internal/service"
	"github.com/YashBansal1/L-D-Portal/pkg/response"
)

// ProfileHandler 个人档案 HTTP 处理器
type ProfileHandler struct {
	profileSvc service.ProfileService
}

// NewProfileHandler 创建 ProfileHandler
func NewProfileHandler(profileSvc service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileSvc: profileSvc}
}

// GetProfile 技能、勋章与学时
// GET /api/v1/users/:id/profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	id := c.Param("id")
	if !canViewUser(c, id) {
		return
	}

	profile, err := h.profileSvc.GetProfile(c.Request.Context(), id)
	if err != nil {
		handleUserError(c, err)
		return
	}

	response.OK(c, profile)
}

// UpdateMyProfile 编辑本人简介与头像
// PUT /api/v1/users/me/profile
func (h *ProfileHandler) UpdateMyProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	profile, err := h.profileSvc.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		handleUserError(c, err)
		return
	}

	response.OK(c, profile)
}
