package database

import (
	"testing"

	gormlogger "gorm.io/gorm/logger"
)

func TestGormLogLevel(t *testing.T) {
	cases := map[string]gormlogger.LogLevel{
		"debug": gormlogger.Info,
		"info":  gormlogger.Warn,
		"warn":  gormlogger.Warn,
		"error": gormlogger.Error,
		"fatal": gormlogger.Silent,
	}
	for in, want := range cases {
		if got := GormLogLevel(in); got != want {
			t.Errorf("GormLogLevel(%q) 期望 %v，实际 %v", in, want, got)
		}
	}
}
