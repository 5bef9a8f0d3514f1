package quiz

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/qri-io/jsonschema"
)

// definitionSchema 测验定义的结构约束；跨字段约束由 Parse 补充校验
const definitionSchema = `{
	"type": "object",
	"required": ["passing_score", "questions"],
	"properties": {
		"passing_score": {"type": "integer", "minimum": 1},
		"questions": {
			"type": "array",
			"minItems": 1,
			"maxItems": 100,
			"items": {
				"type": "object",
				"required": ["text", "options", "correct_index"],
				"properties": {
					"text": {"type": "string", "minLength": 1},
					"options": {
						"type": "array",
						"minItems": 2,
						"maxItems": 10,
						"items": {"type": "string", "minLength": 1}
					},
					"correct_index": {"type": "integer", "minimum": 0}
				}
			}
		}
	}
}`

var compiled *jsonschema.Schema

func init() {
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(definitionSchema), rs); err != nil {
		panic(fmt.Sprintf("quiz: compile schema: %v", err))
	}
	compiled = rs
}

// ValidationError 测验定义不合法，Details 为逐项原因
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return "测验定义不合法: " + strings.Join(e.Details, "; ")
}

// Parse 校验并解析测验定义 JSON
func Parse(ctx context.Context, data []byte) (Quiz, error) {
	keyErrs, err := compiled.ValidateBytes(ctx, data)
	if err != nil {
		return Quiz{}, &ValidationError{Details: []string{err.Error()}}
	}
	if len(keyErrs) > 0 {
		details := make([]string, 0, len(keyErrs))
		for _, ke := range keyErrs {
			details = append(details, fmt.Sprintf("%s: %s", ke.PropertyPath, ke.Message))
		}
		return Quiz{}, &ValidationError{Details: details}
	}

	var q Quiz
	if err := json.Unmarshal(data, &q); err != nil {
		return Quiz{}, &ValidationError{Details: []string{err.Error()}}
	}

	var details []string
	for i, question := range q.Questions {
		if question.CorrectIndex >= len(question.Options) {
			details = append(details, fmt.Sprintf("/questions/%d/correct_index: 超出选项范围", i))
		}
	}
	if q.PassingScore > len(q.Questions) {
		details = append(details, "/passing_score: 不能超过题目数量")
	}
	if len(details) > 0 {
		return Quiz{}, &ValidationError{Details: details}
	}
	return q, nil
}
