// Package scheduler 后台定时任务：按 cron 表达式周期性校准培训报名计数。
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/YashBansal1/L-D-Portal/config"
	"github.com/YashBansal1/L-D-Portal/internal/dto"
)

// Reconciler 报名计数校准（由 TrainingService 实现）
type Reconciler interface {
	ReconcileEnrolledCounts(ctx context.Context) (*dto.ReconcileResponse, error)
}

// Scheduler 计数校准调度器
type Scheduler struct {
	cron       *cron.Cron
	reconciler Reconciler
	logger     *zap.Logger
	onStart    bool
	timeout    time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New 创建调度器；cfg.ReconcileCron 为空时仅在 reconcile_on_start 开启时执行一次
func New(cfg *config.LearningConfig, reconciler Reconciler, logger *zap.Logger) (*Scheduler, error) {
	ctx, cancel := context.WithCancel(context.Background())
	logger = logger.Named("scheduler")
	// cron 内部仅输出错误级日志（含 Recover 捕获的 panic）
	cronLogger := cron.PrintfLogger(zap.NewStdLog(logger))
	s := &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cronLogger),
			cron.SkipIfStillRunning(cronLogger),
		)),
		reconciler: reconciler,
		logger:     logger,
		onStart:    cfg.ReconcileOnStart,
		timeout:    5 * time.Minute,
		ctx:        ctx,
		cancel:     cancel,
	}

	if cfg.ReconcileCron != "" {
		if _, err := s.cron.AddFunc(cfg.ReconcileCron, s.runReconcile); err != nil {
			cancel()
			return nil, err
		}
	}
	return s, nil
}

// Start 启动调度（非阻塞）
func (s *Scheduler) Start() {
	if s.onStart {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.runReconcile()
		}()
	}
	s.cron.Start()
	s.logger.Info("后台调度已启动", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop 停止调度并等待执行中的任务结束，或在 ctx 到期时返回
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	cronDone := s.cron.Stop()

	done := make(chan struct{})
	go func() {
		<-cronDone.Done()
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("后台调度已停止")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runReconcile 启动时的那次执行不经过 cron 的 Recover 链，panic 在此就地记录
func (s *Scheduler) runReconcile() {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("计数校准任务 panic", zap.Any("panic", r), zap.Stack("stack"))
		}
	}()

	start := time.Now()
	resp, err := s.reconciler.ReconcileEnrolledCounts(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			s.logger.Info("计数校准已中止")
			return
		}
		s.logger.Error("计数校准失败", zap.Error(err))
	}
	if resp != nil {
		s.logger.Info("计数校准完成",
			zap.Int("checked", resp.Checked),
			zap.Int("corrected", resp.Corrected),
			zap.Duration("elapsed", time.Since(start)))
	}
}
