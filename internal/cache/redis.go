package cache

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/metalworks/storefront/internal/config"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "mw"

// store 当前生效的 Redis 客户端与键前缀
type store struct {
	client *redis.Client
	prefix string
}

var active atomic.Pointer[store]

// Connect 按配置建立 Redis 客户端；未启用时关闭缓存
func Connect(cfg *config.RedisConfig) error {
	if cfg == nil || !cfg.Enabled {
		UseClient(nil)
		return nil
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	client := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(host, strconv.Itoa(port)),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	install(client, cfg.Prefix)
	return nil
}

// UseClient 直接注入客户端，传 nil 时关闭缓存
func UseClient(client *redis.Client) {
	install(client, "")
}

func install(client *redis.Client, prefix string) {
	if client == nil {
		active.Store(nil)
		return
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	active.Store(&store{client: client, prefix: prefix})
}

// Enabled 判断缓存是否启用
func Enabled() bool {
	return active.Load() != nil
}

// Client 获取 Redis 客户端，未启用时为 nil
func Client() *redis.Client {
	if s := active.Load(); s != nil {
		return s.client
	}
	return nil
}

// Ping 检查 Redis 连通性，未启用时视为正常
func Ping(ctx context.Context) error {
	s := active.Load()
	if s == nil {
		return nil
	}
	return s.client.Ping(ctx).Err()
}

// Close 关闭并卸载客户端
func Close() error {
	s := active.Swap(nil)
	if s == nil {
		return nil
	}
	return s.client.Close()
}

// GetJSON 读取并反序列化缓存值，未命中返回 false
func GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	s := active.Load()
	if s == nil {
		return false, nil
	}
	raw, err := s.client.Get(ctx, s.key(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return false, nil
	case err != nil:
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON 序列化后写入缓存
func SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	s := active.Load()
	if s == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(key), raw, ttl).Err()
}

// Del 删除缓存键
func Del(ctx context.Context, keys ...string) error {
	s := active.Load()
	if s == nil || len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, key := range keys {
		full[i] = s.key(key)
	}
	return s.client.Del(ctx, full...).Err()
}

func (s *store) key(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return s.prefix
	}
	return s.prefix + ":" + key
}
