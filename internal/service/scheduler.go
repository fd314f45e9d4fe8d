package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// sweepTimeout 单次定时规范化的超时
const sweepTimeout = time.Minute

// Scheduler 按 Cron 表达式定时执行 MatchService.Sweep
type Scheduler struct {
	runner  *cron.Cron
	matches *MatchService
	logger  *logrus.Logger
}

func NewScheduler(spec string, matches *MatchService, logger *logrus.Logger) (*Scheduler, error) {
	s := &Scheduler{
		runner:  cron.New(),
		matches: matches,
		logger:  logger,
	}
	if _, err := s.runner.AddFunc(spec, s.sweep); err != nil {
		return nil, fmt.Errorf("解析Cron表达式%q失败: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.runner.Start()
}

// Stop 停止调度并等待正在执行的任务结束
func (s *Scheduler) Stop() {
	<-s.runner.Stop().Done()
}

func (s *Scheduler) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()
	if err := s.matches.Sweep(ctx); err != nil {
		s.logger.WithError(err).Error("定时规范化失败")
		return
	}
	s.logger.Debug("定时规范化完成")
}
