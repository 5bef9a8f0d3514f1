package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/YashBansal1/L-D-Portal/config"
	"github.com/YashBansal1/L-D-Portal/internal/dto"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeReconciler struct {
	calls atomic.Int32
	ran   chan struct{}
	block bool
}

func (f *fakeReconciler) ReconcileEnrolledCounts(ctx context.Context) (*dto.ReconcileResponse, error) {
	f.calls.Add(1)
	select {
	case f.ran <- struct{}{}:
	default:
	}
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return &dto.ReconcileResponse{Checked: 3, Corrected: 1}, nil
}

func TestScheduler_ReconcileOnStart(t *testing.T) {
	rec := &fakeReconciler{ran: make(chan struct{}, 1)}
	s, err := New(&config.LearningConfig{ReconcileCron: "@every 1h", ReconcileOnStart: true}, rec, zap.NewNop())
	if err != nil {
		t.Fatalf("创建调度器失败: %v", err)
	}
	s.Start()

	select {
	case <-rec.ran:
	case <-time.After(2 * time.Second):
		t.Fatal("启动时应立即执行一次校准")
	}

	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop 失败: %v", err)
	}
	if rec.calls.Load() != 1 {
		t.Errorf("期望执行 1 次，实际 %d", rec.calls.Load())
	}
}

func TestScheduler_NoRunWithoutOnStart(t *testing.T) {
	rec := &fakeReconciler{ran: make(chan struct{}, 1)}
	s, err := New(&config.LearningConfig{ReconcileCron: "@every 1h"}, rec, zap.NewNop())
	if err != nil {
		t.Fatalf("创建调度器失败: %v", err)
	}
	s.Start()
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop 失败: %v", err)
	}
	if rec.calls.Load() != 0 {
		t.Errorf("未开启 reconcile_on_start 时不应立即执行，实际 %d", rec.calls.Load())
	}
}

func TestScheduler_StopCancelsRunningJob(t *testing.T) {
	rec := &fakeReconciler{ran: make(chan struct{}, 1), block: true}
	s, err := New(&config.LearningConfig{ReconcileOnStart: true}, rec, zap.NewNop())
	if err != nil {
		t.Fatalf("创建调度器失败: %v", err)
	}
	s.Start()
	<-rec.ran

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("Stop 应中止执行中的任务: %v", err)
	}
}

func TestScheduler_InvalidCron(t *testing.T) {
	if _, err := New(&config.LearningConfig{ReconcileCron: "not a cron"}, &fakeReconciler{}, zap.NewNop()); err == nil {
		t.Error("无效的 cron 表达式应返回错误")
	}
}

type panicReconciler struct {
	ran chan struct{}
}

func (p *panicReconciler) ReconcileEnrolledCounts(context.Context) (*dto.ReconcileResponse, error) {
	defer close(p.ran)
	panic("reconcile exploded")
}

func TestScheduler_PanicIsLogged(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	rec := &panicReconciler{ran: make(chan struct{})}
	s, err := New(&config.LearningConfig{ReconcileOnStart: true}, rec, zap.New(core))
	if err != nil {
		t.Fatalf("创建调度器失败: %v", err)
	}
	s.Start()

	select {
	case <-rec.ran:
	case <-time.After(2 * time.Second):
		t.Fatal("启动时应执行一次校准")
	}
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop 失败: %v", err)
	}

	entries := logs.FilterMessage("计数校准任务 panic").All()
	if len(entries) != 1 {
		t.Fatalf("panic 应被记录为一条错误日志，实际 %d 条", len(entries))
	}
	if got := entries[0].ContextMap()["panic"]; got != "reconcile exploded" {
		t.Errorf("日志应包含 panic 内容，实际 %v", got)
	}
}
