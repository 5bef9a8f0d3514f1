package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/YashBansal1/L-D-Portal/internal/api/middleware"
	"github.com/YashBansal1/L-D-Portal/internal/model"
	"github.com/YashBansal1/L-D-Portal/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	s := c.GetString(middleware.CtxUserID)
	if s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (string, bool) {
	s := c.GetString(middleware.CtxRole)
	if s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// isAdmin 当前用户是否为 ADMIN / SUPER_ADMIN
func isAdmin(c *gin.Context) bool {
	return model.IsAdminRole(c.GetString(middleware.CtxRole))
}

// isManagerOrAdmin 经理可查看他人的学习记录
func isManagerOrAdmin(c *gin.Context) bool {
	return isAdmin(c) || c.GetString(middleware.CtxRole) == model.RoleManager
}

// resolveTargetUser 确定操作对象：未指定时为本人；代他人操作仅限管理员。
// 返回 (targetID, callerID, ok)，ok=false 时已写入响应。
func resolveTargetUser(c *gin.Context, requested string) (string, string, bool) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return "", "", false
	}
	if requested == "" || requested == callerID {
		return callerID, callerID, true
	}
	if !isAdmin(c) {
		response.Forbidden(c, 10003, "只能操作本人的报名")
		return "", "", false
	}
	return requested, callerID, true
}

// canViewUser 本人、经理、管理员可查看用户学习数据
func canViewUser(c *gin.Context, userID string) bool {
	if c.GetString(middleware.CtxUserID) == userID || isManagerOrAdmin(c) {
		return true
	}
	response.Forbidden(c, 10003, "无权查看该用户")
	return false
}

// tokenMeta 当前 Token 的 jti 与过期时间（登出使用）
func tokenMeta(c *gin.Context) (string, time.Time) {
	jti := c.GetString(middleware.CtxTokenJTI)
	exp := c.GetTime(middleware.CtxTokenExp)
	return jti, exp
}
