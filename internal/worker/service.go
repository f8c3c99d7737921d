package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/metalworks/storefront/internal/config"
	"github.com/metalworks/storefront/internal/logger"
	"github.com/metalworks/storefront/internal/queue"

	"github.com/hibiken/asynq"
)

// processor asynq.Server 的生命周期子集
type processor interface {
	Start(handler asynq.Handler) error
	Shutdown()
}

// Service 下单通知消费端，生命周期由 app.Runner 管理
type Service struct {
	server  processor
	handler asynq.Handler
}

// NewService 创建消费端，队列未启用时返回错误
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	serverCfg := queue.ServerConfig(cfg)
	serverCfg.Logger = logger.S()
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		server:  asynq.NewServer(queue.RedisOpt(cfg), serverCfg),
		handler: mux,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	return "worker"
}

// Start 启动消费并阻塞到 ctx 结束；信号处理交给上层
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.handler == nil {
		return errors.New("worker not initialized")
	}
	if err := s.server.Start(s.handler); err != nil {
		return fmt.Errorf("start worker: %w", err)
	}
	logger.Infow("worker_started")
	<-ctx.Done()
	return nil
}

// Stop 等待进行中的任务结束后停止
func (s *Service) Stop(_ context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	s.server.Shutdown()
	return nil
}
