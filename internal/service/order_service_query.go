package service

import (
	"context"

	"github.com/metalworks/storefront/internal/constants"
	"github.com/metalworks/storefront/internal/logger"
	"github.com/metalworks/storefront/internal/models"
)

// OrderHistoryItem 历史订单中的商品
type OrderHistoryItem struct {
	ProductID uint         `json:"id"`
	Name      string       `json:"name"`
	Price     models.Money `json:"price"`
	Quantity  int          `json:"quantity"`
	ImagePath string       `json:"imagePath"`
}

// OrderHistoryEntry 历史订单
type OrderHistoryEntry struct {
	ID     uint               `json:"id"`
	Date   string             `json:"date"`
	Total  models.Money       `json:"total"`
	Status string             `json:"status"`
	Items  []OrderHistoryItem `json:"items"`
}

// ListOrders 顾客订单历史，按下单日期倒序；pageSize 不大于 0 时返回全部订单
func (s *OrderService) ListOrders(ctx context.Context, customerID uint, page, pageSize int) ([]OrderHistoryEntry, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 0 {
		pageSize = 0
	}
	if pageSize > constants.OrderHistoryMaxPageSize {
		pageSize = constants.OrderHistoryMaxPageSize
	}
	orders, total, err := s.orderRepo.ListByCustomer(ctx, customerID, page, pageSize)
	if err != nil {
		logger.Errorw("order_history_fetch_failed", "customer_id", customerID, "error", err)
		return nil, 0, ErrOrderFetchFailed
	}
	entries := make([]OrderHistoryEntry, 0, len(orders))
	for _, order := range orders {
		entries = append(entries, toOrderHistoryEntry(order))
	}
	return entries, total, nil
}

// GetOrder 获取订单（含订单项），不存在时返回 ErrNotFound
func (s *OrderService) GetOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrNotFound
	}
	return order, nil
}

func toOrderHistoryEntry(order models.Order) OrderHistoryEntry {
	items := make([]OrderHistoryItem, 0, len(order.Items))
	for _, item := range order.Items {
		entry := OrderHistoryItem{
			ProductID: item.ProductID,
			Price:     item.UnitPrice,
			Quantity:  item.Quantity,
		}
		if item.Product != nil {
			entry.Name = item.Product.Name
			entry.ImagePath = item.Product.ImagePath
		}
		items = append(items, entry)
	}
	return OrderHistoryEntry{
		ID:     order.ID,
		Date:   order.OrderDate.Format(constants.DateLayout),
		Total:  order.TotalCost,
		Status: order.ApprovalStatus,
		Items:  items,
	}
}
