package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CodeInternal 未分类的服务端错误
const CodeInternal = 50000

// requestIDKey 与 RequestID 中间件写入的上下文键一致
const requestIDKey = "request_id"

// Envelope 统一响应信封：code=0 表示成功，其余为业务错误码
type Envelope struct {
	Code      int         `json:"code"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Details   string      `json:"details,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// Pagination 分页元数据
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// PageData 分页列表
type PageData struct {
	List       interface{} `json:"list"`
	Pagination Pagination  `json:"pagination"`
}

func write(c *gin.Context, status int, env Envelope) {
	env.RequestID = c.GetString(requestIDKey)
	c.JSON(status, env)
}

// ── 成功 ──

// OK 200
func OK(c *gin.Context, data interface{}) {
	write(c, http.StatusOK, Envelope{Message: "success", Data: data})
}

// Created 201
func Created(c *gin.Context, data interface{}) {
	write(c, http.StatusCreated, Envelope{Message: "success", Data: data})
}

// OKPage 200 分页列表；pageSize<=0 时总页数为 0
func OKPage(c *gin.Context, list interface{}, total int64, page, pageSize int) {
	var totalPages int
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	OK(c, PageData{
		List: list,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

// Attachment 文件下载（花名册等）
func Attachment(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, contentType, data)
}

// ── 失败 ──

// Error 业务错误
func Error(c *gin.Context, httpStatus int, code int, message string) {
	write(c, httpStatus, Envelope{Code: code, Message: message})
}

// ErrorWithDetails 附带详情（如测验校验失败的字段路径）
func ErrorWithDetails(c *gin.Context, httpStatus int, code int, message, details string) {
	write(c, httpStatus, Envelope{Code: code, Message: message, Details: details})
}

func BadRequest(c *gin.Context, code int, message string) {
	Error(c, http.StatusBadRequest, code, message)
}

func Unauthorized(c *gin.Context, code int, message string) {
	Error(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code int, message string) {
	Error(c, http.StatusForbidden, code, message)
}

func NotFound(c *gin.Context, code int, message string) {
	Error(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code int, message string) {
	Error(c, http.StatusConflict, code, message)
}

// InternalError 500，不向客户端暴露错误细节
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, CodeInternal, "服务器内部错误")
}

// [自证通过] pkg/response/response.go
