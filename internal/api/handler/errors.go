package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/YashBansal1/L-D-Portal/internal/service"
	pkgerrors "github.com/YashBansal1/L-D-Portal/pkg/errors"
	"github.com/YashBansal1/L-D-Portal/pkg/response"
)

// ── 业务错误 → HTTP 响应 ──
//
// 错误码分段：10xxx 通用，11xxx 认证，20xxx 用户，30xxx 培训/测验，40xxx 报名，50000 内部错误

func handleUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 20001, "用户不存在")
	case errors.Is(err, service.ErrUserSelfRoleChange):
		response.BadRequest(c, 20002, "不能修改自己的角色")
	case errors.Is(err, service.ErrUserSelfDisable):
		response.BadRequest(c, 20003, "不能停用自己的账号")
	case errors.Is(err, service.ErrNoDepartment):
		response.BadRequest(c, 20004, "当前账号未设置部门")
	case errors.Is(err, service.ErrEmailExists):
		response.Conflict(c, 11003, "邮箱已被注册")
	default:
		response.InternalError(c)
	}
}

func handleTrainingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTrainingNotFound):
		response.NotFound(c, 30001, "培训不存在")
	case errors.Is(err, service.ErrTrainingDateInvalid):
		response.BadRequest(c, 30002, "结束时间不能早于开始时间")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 30003, "培训已被他人修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}

func handleEnrollmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTrainingNotFound):
		response.NotFound(c, 30001, "培训不存在")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 20001, "用户不存在")
	case errors.Is(err, service.ErrEnrollmentNotFound):
		response.NotFound(c, 40001, "报名记录不存在")
	case errors.Is(err, service.ErrAlreadyEnrolled):
		response.Conflict(c, 40002, "已报名该培训")
	case errors.Is(err, service.ErrInvalidTransition):
		response.Conflict(c, 40003, "当前报名状态不允许该操作")
	default:
		response.InternalError(c)
	}
}

func handleQuizError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrQuizNotFound):
		response.NotFound(c, 30101, "该培训没有测验")
	case errors.Is(err, service.ErrQuizInvalid):
		response.ErrorWithDetails(c, 400, 30102, "测验定义不合法", err.Error())
	case errors.Is(err, service.ErrQuizAnswersInvalid):
		response.ErrorWithDetails(c, 400, 30103, "答案与题目不匹配", err.Error())
	default:
		handleEnrollmentError(c, err)
	}
}
