package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options 日志输出配置，零值字段使用默认
type Options struct {
	Dir        string
	Filename   string
	Level      string // debug / info / warn / error，为空时按运行模式推断
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

func (o Options) withDefaults() Options {
	if strings.TrimSpace(o.Dir) == "" {
		o.Dir = "logs"
	}
	if strings.TrimSpace(o.Filename) == "" {
		o.Filename = "storefront.log"
	}
	if o.MaxSizeMB <= 0 {
		o.MaxSizeMB = 100
	}
	if o.MaxBackups <= 0 {
		o.MaxBackups = 7
	}
	if o.MaxAgeDays <= 0 {
		o.MaxAgeDays = 30
	}
	return o
}

var current atomic.Pointer[zap.Logger]

var console = wrap(newCore(zapcore.NewConsoleEncoder(encoderConfig()), zapcore.Lock(os.Stdout), zapcore.InfoLevel))

// Init 按运行模式创建日志并设为全局实例
func Init(mode string, options Options) *zap.Logger {
	l := New(mode, options)
	current.Store(l)
	zap.ReplaceGlobals(l)
	return l
}

// New 创建日志实例
// debug 模式输出到控制台；其余模式写滚动 JSON 文件，error 以上同时输出到 stderr
func New(mode string, options Options) *zap.Logger {
	debug := strings.EqualFold(strings.TrimSpace(mode), "debug")
	level := parseLevel(options.Level, debug)
	if debug {
		return wrap(newCore(zapcore.NewConsoleEncoder(encoderConfig()), zapcore.Lock(os.Stdout), level))
	}

	jsonEncoder := zapcore.NewJSONEncoder(encoderConfig())
	file, err := openRollingFile(options.withDefaults())
	if err != nil {
		fmt.Fprintf(os.Stderr, "log file unavailable, writing to stdout: %v\n", err)
		return wrap(newCore(jsonEncoder, zapcore.Lock(os.Stdout), level))
	}
	return wrap(zapcore.NewTee(
		newCore(jsonEncoder, file, level),
		newCore(jsonEncoder.Clone(), zapcore.Lock(os.Stderr), zapcore.ErrorLevel),
	))
}

func newCore(enc zapcore.Encoder, sink zapcore.WriteSyncer, level zapcore.LevelEnabler) zapcore.Core {
	return zapcore.NewCore(enc, sink, level)
}

func wrap(core zapcore.Core) *zap.Logger {
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.MessageKey = "event"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeDuration = zapcore.MillisDurationEncoder
	cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	return cfg
}

// parseLevel 非法或为空时 debug 模式取 debug，其余取 info
func parseLevel(raw string, debug bool) zapcore.Level {
	if raw = strings.TrimSpace(raw); raw != "" {
		if lvl, err := zapcore.ParseLevel(raw); err == nil {
			return lvl
		}
	}
	if debug {
		return zapcore.DebugLevel
	}
	return zapcore.InfoLevel
}

// openRollingFile 确认日志目录可写后返回 lumberjack 滚动文件
func openRollingFile(options Options) (zapcore.WriteSyncer, error) {
	dir, err := filepath.Abs(options.Dir)
	if err != nil {
		return nil, fmt.Errorf("resolve log dir: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	path := filepath.Join(dir, options.Filename)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	_ = f.Close()

	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    options.MaxSizeMB,
		MaxBackups: options.MaxBackups,
		MaxAge:     options.MaxAgeDays,
		Compress:   options.Compress,
	}), nil
}

// Z 当前结构化日志，未初始化时输出到控制台
func Z() *zap.Logger {
	if l := current.Load(); l != nil {
		return l
	}
	return console
}

// S 当前 SugaredLogger
func S() *zap.SugaredLogger {
	return Z().Sugar()
}

// StdLogger 供 net/http 等标准库组件使用
func StdLogger() *log.Logger {
	return zap.NewStdLog(Z())
}

// Debugw 输出 debug 级别事件
func Debugw(event string, kv ...any) { S().Debugw(event, kv...) }

// Infow 输出 info 级别事件
func Infow(event string, kv ...any) { S().Infow(event, kv...) }

// Warnw 输出 warn 级别事件
func Warnw(event string, kv ...any) { S().Warnw(event, kv...) }

// Errorw 输出 error 级别事件
func Errorw(event string, kv ...any) { S().Errorw(event, kv...) }
