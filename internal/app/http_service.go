package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/metalworks/storefront/internal/config"
	"github.com/metalworks/storefront/internal/logger"
)

// HTTPService 对外 API 服务；先监听再 Serve，端口占用在启动时即报错
type HTTPService struct {
	server *http.Server

	mu       sync.Mutex
	boundTo  string
	listener net.Listener
}

// NewHTTPService 按 server 配置创建 API 服务
func NewHTTPService(cfg config.ServerConfig, handler http.Handler) *HTTPService {
	return &HTTPService{
		server: &http.Server{
			Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       90 * time.Second,
		},
	}
}

// Name 服务名称
func (s *HTTPService) Name() string {
	return RoleAPI
}

// Addr 实际监听地址，未启动时为空
func (s *HTTPService) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.boundTo
}

// Start 监听并阻塞处理请求，Stop 之后返回 nil
func (s *HTTPService) Start(_ context.Context) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.server.Addr, err)
	}
	s.mu.Lock()
	s.listener = ln
	s.boundTo = ln.Addr().String()
	s.mu.Unlock()
	logger.Infow("http_listening", "addr", ln.Addr().String())

	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop 停止接收新连接，等待进行中的请求（含下单事务）结束
func (s *HTTPService) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
