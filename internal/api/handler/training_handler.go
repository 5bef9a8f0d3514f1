package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/YashBansal1/L-D-Portal/internal/dto"
	"github.com/YashBansal1/L-D-Portal/internal/service"
	"github.com/YashBansal1/L-D-Portal/pkg/response"
)

// TrainingHandler 培训目录 HTTP 处理器
type TrainingHandler struct {
	trainingSvc   service.TrainingService
	enrollmentSvc service.EnrollmentService
}

// NewTrainingHandler 创建 TrainingHandler
func NewTrainingHandler(trainingSvc service.TrainingService, enrollmentSvc service.EnrollmentService) *TrainingHandler {
	return &TrainingHandler{trainingSvc: trainingSvc, enrollmentSvc: enrollmentSvc}
}

// ListTrainings 培训列表
// GET /api/v1/trainings
func (h *TrainingHandler) ListTrainings(c *gin.Context) {
	var req dto.TrainingListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.trainingSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetTraining 培训详情
// GET /api/v1/trainings/:id
func (h *TrainingHandler) GetTraining(c *gin.Context) {
	training, err := h.trainingSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleTrainingError(c, err)
		return
	}

	response.OK(c, training)
}

// CreateTraining 创建培训（管理员）
// POST /api/v1/trainings
func (h *TrainingHandler) CreateTraining(c *gin.Context) {
	var req dto.CreateTrainingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	training, err := h.trainingSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		handleTrainingError(c, err)
		return
	}

	response.Created(c, training)
}

// UpdateTraining 更新培训（管理员，乐观锁）
// PUT /api/v1/trainings/:id
func (h *TrainingHandler) UpdateTraining(c *gin.Context) {
	var req dto.UpdateTrainingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	training, err := h.trainingSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		handleTrainingError(c, err)
		return
	}

	response.OK(c, training)
}

// DeleteTraining 删除培训及其报名、测验（管理员）
// DELETE /api/v1/trainings/:id
func (h *TrainingHandler) DeleteTraining(c *gin.Context) {
	if err := h.trainingSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleTrainingError(c, err)
		return
	}

	response.OK(c, nil)
}

// AssignTraining 批量指派（管理员）
// POST /api/v1/trainings/:id/assign
func (h *TrainingHandler) AssignTraining(c *gin.Context) {
	var req dto.AssignTrainingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.enrollmentSvc.Assign(c.Request.Context(), c.Param("id"), req.UserIDs, callerID)
	if err != nil {
		handleEnrollmentError(c, err)
		return
	}

	response.OK(c, result)
}

// Reconcile 立即校准全部培训的报名计数（管理员）
// POST /api/v1/trainings/reconcile
func (h *TrainingHandler) Reconcile(c *gin.Context) {
	result, err := h.trainingSvc.ReconcileEnrolledCounts(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}
