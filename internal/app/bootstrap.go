package app

import (
	"errors"

	"github.com/metalworks/storefront/internal/config"
	"github.com/metalworks/storefront/internal/logger"
	"github.com/metalworks/storefront/internal/provider"
	"github.com/metalworks/storefront/internal/router"
	"github.com/metalworks/storefront/internal/worker"

	"gorm.io/gorm"
)

// BuildRunner 按启动模式装配服务
func BuildRunner(cfg *config.Config, db *gorm.DB, mode string) (*Runner, *provider.Container, error) {
	if cfg == nil {
		return nil, nil, errors.New("config is nil")
	}
	if db == nil {
		return nil, nil, errors.New("db is nil")
	}
	runner, err := NewRunner(mode)
	if err != nil {
		return nil, nil, err
	}

	container := provider.NewContainer(cfg, db)

	if runner.Wants(RoleAPI) {
		runner.Add(RoleAPI, NewHTTPService(cfg.Server, router.SetupRouter(cfg, container)))
	}

	if runner.Wants(RoleWorker) {
		switch {
		case cfg.Queue.Enabled:
			workerService, err := worker.NewService(&cfg.Queue, worker.NewConsumer(container))
			if err != nil {
				container.Close()
				return nil, nil, err
			}
			runner.Add(RoleWorker, workerService)
		case runner.Dedicated(RoleWorker):
			container.Close()
			return nil, nil, errors.New("worker mode requires queue.enabled=true")
		default:
			logger.Infow("app_worker_skipped", "reason", "queue disabled")
		}
	}

	if runner.Len() == 0 {
		container.Close()
		return nil, nil, ErrNoServices
	}
	return runner, container, nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, container, err := BuildRunner(opts.Config, opts.DB, opts.Mode)
	if err != nil {
		return err
	}
	defer container.Close()

	opts.Logger.Infow("app_start", "mode", runner.Mode(), "services", runner.Len())
	return RunWithOptions(runner, opts)
}
