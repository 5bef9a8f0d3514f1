package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/YashBansal1/L-D-Portal/internal/model"
)

func TestExportService_ExportRoster(t *testing.T) {
	store := newMemStore()
	svc := NewExportService(newMockRepository(store), zap.NewNop())
	seedTraining(store, "t-1", "Node", "Basic", 4)
	seedUser(store, "u-1", "a@example.com", model.RoleEmployee, "Eng")
	seedUser(store, "u-2", "b@example.com", model.RoleEmployee, "Sales")

	done := time.Date(2026, 6, 2, 10, 0, 0, 0, time.UTC)
	store.enrollments[enrollmentKey("u-1", "t-1")] = &model.Enrollment{
		UserID: "u-1", TrainingID: "t-1", Status: model.EnrollmentCompleted, Progress: 100, CompletedAt: &done,
	}
	store.enrollments[enrollmentKey("u-2", "t-1")] = &model.Enrollment{
		UserID: "u-2", TrainingID: "t-1", Status: model.EnrollmentAssigned,
	}

	buf, filename, err := svc.ExportRoster(context.Background(), "t-1")
	if err != nil {
		t.Fatalf("ExportRoster 失败: %v", err)
	}
	if filename != "roster_t-1.xlsx" {
		t.Errorf("文件名不符: %s", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("导出文件无法解析: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("花名册")
	if err != nil {
		t.Fatalf("读取工作表失败: %v", err)
	}
	// 标题 + 表头 + 2 条数据
	if len(rows) != 4 {
		t.Fatalf("期望 4 行，实际 %d", len(rows))
	}
	if rows[1][0] != "姓名" || rows[2][1] != "a@example.com" || rows[2][3] != "completed" {
		t.Errorf("内容不符: %v", rows)
	}
	if rows[2][7] != "2026-06-02T10:00:00Z" {
		t.Errorf("完成时间格式不符: %v", rows[2][7])
	}
}

func TestExportService_TrainingNotFound(t *testing.T) {
	svc := NewExportService(newMockRepository(newMemStore()), zap.NewNop())
	if _, _, err := svc.ExportRoster(context.Background(), "missing"); !errors.Is(err, ErrTrainingNotFound) {
		t.Errorf("期望 ErrTrainingNotFound，实际: %v", err)
	}
}

func TestExportService_ExportCalendar(t *testing.T) {
	store := newMemStore()
	svc := NewExportService(newMockRepository(store), zap.NewNop())
	seedUser(store, "u-1", "a@example.com", model.RoleEmployee, "Eng")

	node := seedTraining(store, "t-1", "Node", "Basic", 4)
	node.StartDate = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	node.EndDate = time.Date(2026, 6, 1, 13, 0, 0, 0, time.UTC)
	node.Instructor = "Rahul"
	react := seedTraining(store, "t-2", "React", "Frontend", 6)
	react.Status = model.TrainingStatusCancelled
	seedTraining(store, "t-3", "Dropped Course", "", 2)

	done := time.Date(2026, 6, 1, 14, 0, 0, 0, time.UTC)
	store.enrollments[enrollmentKey("u-1", "t-1")] = &model.Enrollment{
		UserID: "u-1", TrainingID: "t-1", Status: model.EnrollmentCompleted, Progress: 100, CompletedAt: &done,
	}
	store.enrollments[enrollmentKey("u-1", "t-2")] = &model.Enrollment{
		UserID: "u-1", TrainingID: "t-2", Status: model.EnrollmentAssigned,
	}
	store.enrollments[enrollmentKey("u-1", "t-3")] = &model.Enrollment{
		UserID: "u-1", TrainingID: "t-3", Status: model.EnrollmentDropped,
	}

	data, filename, err := svc.ExportCalendar(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("ExportCalendar 失败: %v", err)
	}
	if filename != "trainings_u-1.ics" {
		t.Errorf("文件名不符: %s", filename)
	}

	cal, err := ics.ParseCalendar(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("日历无法解析: %v", err)
	}
	events := cal.Events()
	if len(events) != 2 {
		t.Fatalf("期望 2 个事件（已退出的报名不导出），实际 %d", len(events))
	}

	byUID := map[string]*ics.VEvent{}
	for _, ev := range events {
		byUID[ev.Id()] = ev
	}
	nodeEv, ok := byUID["t-1@lnd-portal"]
	if !ok {
		t.Fatal("缺少 Node 培训事件")
	}
	if got := nodeEv.GetProperty(ics.ComponentPropertySummary).Value; got != "Node" {
		t.Errorf("SUMMARY 期望 Node，实际 %s", got)
	}
	start, err := nodeEv.GetStartAt()
	if err != nil || !start.Equal(node.StartDate) {
		t.Errorf("DTSTART 不符: %v (err=%v)", start, err)
	}
	if got := byUID["t-2@lnd-portal"].GetProperty(ics.ComponentPropertyStatus).Value; got != string(ics.ObjectStatusCancelled) {
		t.Errorf("已取消培训的 STATUS 期望 CANCELLED，实际 %s", got)
	}
}

func TestExportService_ExportCalendar_UserNotFound(t *testing.T) {
	svc := NewExportService(newMockRepository(newMemStore()), zap.NewNop())
	if _, _, err := svc.ExportCalendar(context.Background(), "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际 %v", err)
	}
}
