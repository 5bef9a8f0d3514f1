package handler

import (
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/YashBansal1/L-D-Portal/internal/service"
	"github.com/YashBansal1/L-D-Portal/pkg/response"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	icsContentType  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportRoster 导出培训花名册（管理员、经理）
// GET /api/v1/trainings/:id/roster.xlsx
func (h *ExportHandler) ExportRoster(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportRoster(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleTrainingError(c, err)
		return
	}

	c.Header("Content-Description", "File Transfer")
	response.Attachment(c, url.PathEscape(filename), xlsxContentType, buf.Bytes())
}

// ExportCalendar 导出用户报名培训日历（本人、经理、管理员）
// GET /api/v1/users/:id/trainings.ics
func (h *ExportHandler) ExportCalendar(c *gin.Context) {
	id := c.Param("id")
	if !canViewUser(c, id) {
		return
	}

	data, filename, err := h.exportSvc.ExportCalendar(c.Request.Context(), id)
	if err != nil {
		handleUserError(c, err)
		return
	}

	response.Attachment(c, url.PathEscape(filename), icsContentType, data)
}
