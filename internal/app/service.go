package app

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// 服务角色，与启动模式同名
const (
	RoleAPI    = ModeAPI
	RoleWorker = ModeWorker
)

// ErrNoServices 当前模式下没有可运行的服务
var ErrNoServices = errors.New("no services to run (check mode and config)")

// Service 服务接口
type Service interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Runner 按启动模式挑选并运行服务：all 运行全部，api/worker 只运行同名角色
type Runner struct {
	mode     string
	services []Service
}

// NewRunner 创建服务运行器，未知模式直接报错
func NewRunner(mode string) (*Runner, error) {
	switch mode {
	case ModeAll, ModeAPI, ModeWorker:
		return &Runner{mode: mode}, nil
	default:
		return nil, fmt.Errorf("unknown mode %q (want %s, %s or %s)", mode, ModeAll, ModeAPI, ModeWorker)
	}
}

// Mode 当前启动模式
func (r *Runner) Mode() string {
	return r.mode
}

// Wants 当前模式是否运行该角色
func (r *Runner) Wants(role string) bool {
	return r.mode == ModeAll || r.mode == role
}

// Dedicated 是否以该角色单独启动；单独启动时依赖缺失应直接失败而不是跳过
func (r *Runner) Dedicated(role string) bool {
	return r.mode == role
}

// Add 注册服务，当前模式不需要的角色被忽略；返回是否已注册
func (r *Runner) Add(role string, svc Service) bool {
	if svc == nil || !r.Wants(role) {
		return false
	}
	r.services = append(r.services, svc)
	return true
}

// Len 已注册的服务数
func (r *Runner) Len() int {
	return len(r.services)
}

// Run 并发启动全部服务；任一服务退出或 ctx 结束时，在 stopTimeout 内依次停止所有服务
func (r *Runner) Run(ctx context.Context, stopTimeout time.Duration, log *zap.SugaredLogger) error {
	if r == nil || len(r.services) == 0 {
		return ErrNoServices
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if stopTimeout <= 0 {
		stopTimeout = defaultShutdownTimeout
	}

	group, runCtx := errgroup.WithContext(ctx)
	for _, svc := range r.services {
		group.Go(func() error {
			log.Infow("service_start", "service", svc.Name(), "mode", r.mode)
			err := svc.Start(runCtx)
			log.Infow("service_exit", "service", svc.Name(), "error", err)
			if err == nil && runCtx.Err() == nil {
				// 服务在无人要求时自行退出，同样触发整体停机
				return fmt.Errorf("service %s exited unexpectedly", svc.Name())
			}
			return err
		})
	}
	group.Go(func() error {
		<-runCtx.Done()
		r.stopAll(stopTimeout, log)
		return nil
	})

	err := group.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (r *Runner) stopAll(timeout time.Duration, log *zap.SugaredLogger) {
	stopCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	for i := len(r.services) - 1; i >= 0; i-- {
		svc := r.services[i]
		if err := svc.Stop(stopCtx); err != nil {
			log.Errorw("service_stop_failed", "service", svc.Name(), "error", err)
		}
	}
}

// RunWithOptions 运行服务并在收到系统信号时优雅停机
func RunWithOptions(runner *Runner, opts Options) error {
	if runner == nil {
		return errors.New("runner is nil")
	}
	opts = normalizeOptions(opts)
	ctx := opts.Context
	if len(opts.Signals) > 0 {
		var cancel context.CancelFunc
		ctx, cancel = signal.NotifyContext(ctx, opts.Signals...)
		defer cancel()
	}
	return runner.Run(ctx, opts.ShutdownTimeout, opts.Logger)
}
