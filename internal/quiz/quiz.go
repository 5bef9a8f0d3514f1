// Package quiz 实现培训测验：按顺序作答、只进不退、按正确题数计分。
package quiz

import "errors"

var (
	ErrEmptyQuiz           = errors.New("测验没有题目")
	ErrNoSelection         = errors.New("请先选择一个选项")
	ErrOptionOutOfRange    = errors.New("选项下标越界")
	ErrFinished            = errors.New("测验已结束")
	ErrAnswerCountMismatch = errors.New("答案数量与题目数量不一致")
)

// Question 单选题
type Question struct {
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
}

// Quiz 题目序列与及格线（答对题数，非百分比）
type Quiz struct {
	PassingScore int        `json:"passing_score"`
	Questions    []Question `json:"questions"`
}

// Result 一次作答的结果
type Result struct {
	Score        int
	Total        int
	PassingScore int
	Passed       bool
}

// Session 一次作答过程；每次尝试都从第 1 题、0 分开始
type Session struct {
	quiz     Quiz
	index    int
	selected int
	score    int
}

// NewSession 开始新的作答
func NewSession(q Quiz) (*Session, error) {
	if len(q.Questions) == 0 {
		return nil, ErrEmptyQuiz
	}
	return &Session{quiz: q, selected: -1}, nil
}

// Current 当前题目；作答结束后 ok=false
func (s *Session) Current() (q Question, ok bool) {
	if s.Finished() {
		return Question{}, false
	}
	return s.quiz.Questions[s.index], true
}

// Index 当前题目下标（从 0 开始）
func (s *Session) Index() int { return s.index }

// Select 选择当前题目的选项，可在 Next 之前反复修改
func (s *Session) Select(option int) error {
	q, ok := s.Current()
	if !ok {
		return ErrFinished
	}
	if option < 0 || option >= len(q.Options) {
		return ErrOptionOutOfRange
	}
	s.selected = option
	return nil
}

// Next 提交当前选择并前进到下一题，不支持回退
func (s *Session) Next() error {
	q, ok := s.Current()
	if !ok {
		return ErrFinished
	}
	if s.selected < 0 {
		return ErrNoSelection
	}
	if s.selected == q.CorrectIndex {
		s.score++
	}
	s.index++
	s.selected = -1
	return nil
}

// Finished 所有题目均已提交
func (s *Session) Finished() bool { return s.index >= len(s.quiz.Questions) }

// Score 当前答对题数
func (s *Session) Score() int { return s.score }

// Passed 作答结束且答对题数达到及格线
func (s *Session) Passed() bool {
	return s.Finished() && s.score >= s.quiz.PassingScore
}

// Result 汇总结果
func (s *Session) Result() Result {
	return Result{
		Score:        s.score,
		Total:        len(s.quiz.Questions),
		PassingScore: s.quiz.PassingScore,
		Passed:       s.Passed(),
	}
}

// Evaluate 以一组答案驱动一次完整作答
func Evaluate(q Quiz, answers []int) (Result, error) {
	s, err := NewSession(q)
	if err != nil {
		return Result{}, err
	}
	if len(answers) != len(q.Questions) {
		return Result{}, ErrAnswerCountMismatch
	}
	for _, a := range answers {
		if err := s.Select(a); err != nil {
			return Result{}, err
		}
		if err := s.Next(); err != nil {
			return Result{}, err
		}
	}
	return s.Result(), nil
}
