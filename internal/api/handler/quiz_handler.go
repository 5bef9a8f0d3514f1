package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/YashBansal1/L-D-Portal/internal/dto"
	"github.com/YashBansal1/L-D-Portal/internal/service"
	"github.com/YashBansal1/L-D-Portal/pkg/response"
)

// QuizHandler 测验 HTTP 处理器
type QuizHandler struct {
	quizSvc service.QuizService
}

// NewQuizHandler 创建 QuizHandler
func NewQuizHandler(quizSvc service.QuizService) *QuizHandler {
	return &QuizHandler{quizSvc: quizSvc}
}

// GetQuiz 获取测验（不含正确答案）
// GET /api/v1/trainings/:id/quiz
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	q, err := h.quizSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleQuizError(c, err)
		return
	}

	response.OK(c, q)
}

// UpsertQuiz 创建或覆盖测验（管理员）
// PUT /api/v1/trainings/:id/quiz
func (h *QuizHandler) UpsertQuiz(c *gin.Context) {
	var req dto.UpsertQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	q, err := h.quizSvc.Upsert(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		handleQuizError(c, err)
		return
	}

	response.OK(c, q)
}

// SubmitQuiz 提交答案；通过时自动完成培训
// POST /api/v1/trainings/:id/quiz/submit
func (h *QuizHandler) SubmitQuiz(c *gin.Context) {
	var req dto.SubmitQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	userID, callerID, ok := resolveTargetUser(c, req.UserID)
	if !ok {
		return
	}

	result, err := h.quizSvc.Submit(c.Request.Context(), userID, c.Param("id"), req.Answers, callerID)
	if err != nil {
		handleQuizError(c, err)
		return
	}

	response.OK(c, result)
}
