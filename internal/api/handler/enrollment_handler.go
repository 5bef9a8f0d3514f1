package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/YashBansal1/L-D-Portal/internal/dto"
	"github.com/YashBansal1/L-D-Portal/internal/model"
	"github.com/YashBansal1/L-D-Portal/internal/service"
	"github.com/YashBansal1/L-D-Portal/pkg/response"
)

// EnrollmentHandler 报名模块 HTTP 处理器
type EnrollmentHandler struct {
	enrollmentSvc service.EnrollmentService
}

// NewEnrollmentHandler 创建 EnrollmentHandler
func NewEnrollmentHandler(enrollmentSvc service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentSvc: enrollmentSvc}
}

// bindAction 请求体可为空；user_id 仅管理员可指定
func bindAction(c *gin.Context) (dto.EnrollmentActionRequest, bool) {
	var req dto.EnrollmentActionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, 10001, "参数校验失败")
			return req, false
		}
	}
	return req, true
}

// Enroll 报名
// POST /api/v1/trainings/:id/enroll
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	req, ok := bindAction(c)
	if !ok {
		return
	}
	userID, _, ok := resolveTargetUser(c, req.UserID)
	if !ok {
		return
	}

	result, err := h.enrollmentSvc.Enroll(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		handleEnrollmentError(c, err)
		return
	}

	response.Created(c, result)
}

// Complete 完成培训：颁发勋章并合并技能
// POST /api/v1/trainings/:id/complete
func (h *EnrollmentHandler) Complete(c *gin.Context) {
	req, ok := bindAction(c)
	if !ok {
		return
	}
	userID, callerID, ok := resolveTargetUser(c, req.UserID)
	if !ok {
		return
	}

	result, err := h.enrollmentSvc.Complete(c.Request.Context(), userID, c.Param("id"), callerID)
	if err != nil {
		handleEnrollmentError(c, err)
		return
	}

	response.OK(c, result)
}

// UpdateProgress 更新进度与出勤
// PUT /api/v1/trainings/:id/progress
func (h *EnrollmentHandler) UpdateProgress(c *gin.Context) {
	var req dto.UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	userID, callerID, ok := resolveTargetUser(c, req.UserID)
	if !ok {
		return
	}

	result, err := h.enrollmentSvc.UpdateProgress(c.Request.Context(), userID, c.Param("id"), &req, callerID)
	if err != nil {
		handleEnrollmentError(c, err)
		return
	}

	response.OK(c, result)
}

// Drop 退出培训
// POST /api/v1/trainings/:id/drop
func (h *EnrollmentHandler) Drop(c *gin.Context) {
	req, ok := bindAction(c)
	if !ok {
		return
	}
	userID, callerID, ok := resolveTargetUser(c, req.UserID)
	if !ok {
		return
	}

	result, err := h.enrollmentSvc.Drop(c.Request.Context(), userID, c.Param("id"), callerID)
	if err != nil {
		handleEnrollmentError(c, err)
		return
	}

	response.OK(c, result)
}

// SetStatus 管理员设置报名状态
// PUT /api/v1/trainings/:id/enrollments/:userId/status
func (h *EnrollmentHandler) SetStatus(c *gin.Context) {
	var req dto.SetEnrollmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.enrollmentSvc.SetStatus(c.Request.Context(),
		c.Param("userId"), c.Param("id"), model.EnrollmentStatus(req.Status), callerID)
	if err != nil {
		handleEnrollmentError(c, err)
		return
	}

	response.OK(c, result)
}
