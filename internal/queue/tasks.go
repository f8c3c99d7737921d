package queue

import (
	"encoding/json"
	"fmt"

	"github.com/metalworks/storefront/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderPlaced 下单成功通知任务
	TaskOrderPlaced = constants.TaskOrderPlaced
)

// OrderPlacedPayload 下单成功任务载荷
type OrderPlacedPayload struct {
	OrderID     uint   `json:"order_id"`
	CustomerID  uint   `json:"customer_id"`
	TotalAmount string `json:"total_amount"`
	ItemCount   int    `json:"item_count"`
	RushOrder   bool   `json:"rush_order"`
}

// NewOrderPlacedTask 创建下单成功任务
func NewOrderPlacedTask(payload OrderPlacedPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderPlaced, body), nil
}

// ParseOrderPlacedPayload 解析下单成功任务载荷
func ParseOrderPlacedPayload(task *asynq.Task) (OrderPlacedPayload, error) {
	var payload OrderPlacedPayload
	if task == nil {
		return payload, fmt.Errorf("nil task")
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, fmt.Errorf("decode %s payload: %w", task.Type(), err)
	}
	if payload.OrderID == 0 {
		return payload, fmt.Errorf("decode %s payload: missing order_id", task.Type())
	}
	return payload, nil
}
