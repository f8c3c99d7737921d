package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/metalworks/storefront/internal/logger"
	"github.com/metalworks/storefront/internal/models"
	"github.com/metalworks/storefront/internal/provider"
	"github.com/metalworks/storefront/internal/queue"
	"github.com/metalworks/storefront/internal/service"

	"github.com/hibiken/asynq"
)

// orderReader 消费者读取订单所需的最小接口
type orderReader interface {
	GetOrder(ctx context.Context, orderID uint) (*models.Order, error)
}

// Consumer 异步任务消费者
type Consumer struct {
	orders orderReader
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	if c == nil {
		return &Consumer{}
	}
	return &Consumer{orders: c.OrderService}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderPlaced, c.handleOrderPlaced)
}

// handleOrderPlaced 下单成功通知：回读订单并核对载荷，订单已不存在时不再重试
func (c *Consumer) handleOrderPlaced(ctx context.Context, task *asynq.Task) error {
	payload, err := queue.ParseOrderPlacedPayload(task)
	if err != nil {
		logger.Warnw("worker_order_placed_invalid_payload", "error", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if c == nil || c.orders == nil {
		return errors.New("order reader not configured")
	}

	order, err := c.orders.GetOrder(ctx, payload.OrderID)
	if errors.Is(err, service.ErrNotFound) {
		logger.Warnw("worker_order_placed_order_missing", "order_id", payload.OrderID)
		return nil
	}
	if err != nil {
		logger.Warnw("worker_order_placed_fetch_failed", "order_id", payload.OrderID, "error", err)
		return err
	}

	if order.CustomerID != payload.CustomerID || order.TotalCost.String() != payload.TotalAmount {
		logger.Warnw("worker_order_placed_payload_mismatch",
			"order_id", order.ID,
			"payload_customer_id", payload.CustomerID,
			"order_customer_id", order.CustomerID,
			"payload_total", payload.TotalAmount,
			"order_total", order.TotalCost.String(),
		)
	}

	logger.Infow("worker_order_placed_notified",
		"order_id", order.ID,
		"customer_id", order.CustomerID,
		"total_cost", order.TotalCost.String(),
		"item_count", len(order.Items),
		"rush_order", order.RushOrder,
		"approval_status", order.ApprovalStatus,
	)
	return nil
}
