package app

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/metalworks/storefront/internal/config"
	"github.com/metalworks/storefront/internal/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// -mode 取值
const (
	ModeAll    = "all"
	ModeAPI    = "api"
	ModeWorker = "worker"
)

const defaultShutdownTimeout = 10 * time.Second

// Options 进程启动参数，DB 由 cmd 打开并完成迁移
type Options struct {
	Config *config.Config
	DB     *gorm.DB
	Mode   string
	// Context 为空时使用 Background；收到 Signals 中任一信号即开始停机
	Context         context.Context
	Signals         []os.Signal
	ShutdownTimeout time.Duration
	Logger          *zap.SugaredLogger
}

func normalizeOptions(opts Options) Options {
	opts.Mode = strings.ToLower(strings.TrimSpace(opts.Mode))
	if opts.Mode == "" {
		opts.Mode = ModeAll
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}
	if opts.Logger == nil {
		opts.Logger = logger.S()
	}
	return opts
}
