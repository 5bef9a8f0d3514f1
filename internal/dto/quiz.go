package dto

// ── 测验模块 DTO ──

// QuestionRequest 题目定义
type QuestionRequest struct {
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
}

// UpsertQuizRequest 创建或覆盖培训测验；结构由 JSON Schema 校验
type UpsertQuizRequest struct {
	PassingScore int               `json:"passing_score"`
	Questions    []QuestionRequest `json:"questions"`
}

// SubmitQuizRequest 提交答案；answers[i] 为第 i 题所选选项下标
type SubmitQuizRequest struct {
	UserID  string `json:"user_id" binding:"omitempty"`
	Answers []int  `json:"answers" binding:"required"`
}

// ── 响应 ──

// QuizQuestionResponse 题目（不含正确答案）
type QuizQuestionResponse struct {
	Index   int      `json:"index"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// QuizResponse 测验响应
type QuizResponse struct {
	ID           string                 `json:"id"`
	TrainingID   string                 `json:"training_id"`
	PassingScore int                    `json:"passing_score"`
	Questions    []QuizQuestionResponse `json:"questions"`
}

// QuizResultResponse 测验结果；通过时附带完成培训结果
type QuizResultResponse struct {
	Score        int                 `json:"score"`
	Total        int                 `json:"total"`
	PassingScore int                 `json:"passing_score"`
	Passed       bool                `json:"passed"`
	Completion   *CompletionResponse `json:"completion,omitempty"`
}

// [自证通过] internal/dto/quiz.go
