package errors

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"
)

func TestIsDuplicateKey(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm 翻译错误", fmt.Errorf("wrap: %w", gorm.ErrDuplicatedKey), true},
		{"postgres 原始错误", errors.New(`ERROR: duplicate key value violates unique constraint "enrollments_pkey" (SQLSTATE 23505)`), true},
		{"sqlite 原始错误", errors.New("UNIQUE constraint failed: enrollments.user_id, enrollments.training_id"), true},
		{"其他错误", gorm.ErrRecordNotFound, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsDuplicateKey(tc.err); got != tc.want {
				t.Errorf("期望 %v，实际 %v", tc.want, got)
			}
		})
	}
}
