package queue

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/metalworks/storefront/internal/config"
	"github.com/metalworks/storefront/internal/constants"

	"github.com/hibiken/asynq"
)

// DefaultQueue 默认队列名称
const DefaultQueue = constants.QueueDefault

const (
	orderPlacedMaxRetry = 5
	defaultConcurrency  = 10
	defaultRedisHost    = "127.0.0.1"
	defaultRedisPort    = 6379
)

// enqueuer asynq.Client 的投递子集
type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

// Client 队列投递端，未启用时所有投递为空操作
type Client struct {
	tasks enqueuer
}

// NewClient 创建队列客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{}, nil
	}
	return &Client{tasks: asynq.NewClient(RedisOpt(cfg))}, nil
}

// Enabled 判断是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.tasks != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.tasks.Close()
}

// EnqueueOrderPlaced 投递下单成功任务，同一订单只会入队一次
func (c *Client) EnqueueOrderPlaced(ctx context.Context, payload OrderPlacedPayload) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewOrderPlacedTask(payload)
	if err != nil {
		return err
	}
	_, err = c.tasks.EnqueueContext(ctx, task,
		asynq.Queue(DefaultQueue),
		asynq.MaxRetry(orderPlacedMaxRetry),
		asynq.TaskID(orderPlacedTaskID(payload.OrderID)),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

func orderPlacedTaskID(orderID uint) string {
	return fmt.Sprintf("%s:%d", TaskOrderPlaced, orderID)
}

// RedisOpt 队列使用的 Redis 连接参数
func RedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	if cfg == nil {
		cfg = &config.QueueConfig{}
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = defaultRedisHost
	}
	port := cfg.Port
	if port <= 0 {
		port = defaultRedisPort
	}
	return asynq.RedisClientOpt{
		Addr:     net.JoinHostPort(host, strconv.Itoa(port)),
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// ServerConfig 消费端并发与队列权重
func ServerConfig(cfg *config.QueueConfig) asynq.Config {
	out := asynq.Config{
		Concurrency: defaultConcurrency,
		Queues:      map[string]int{DefaultQueue: 1},
	}
	if cfg == nil {
		return out
	}
	if cfg.Concurrency > 0 {
		out.Concurrency = cfg.Concurrency
	}
	if len(cfg.Queues) > 0 {
		out.Queues = cfg.Queues
	}
	return out
}
