package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/metalworks/storefront/internal/cache"
	"github.com/metalworks/storefront/internal/constants"
	"github.com/metalworks/storefront/internal/logger"
	"github.com/metalworks/storefront/internal/metrics"
	"github.com/metalworks/storefront/internal/models"
	"github.com/metalworks/storefront/internal/queue"
	"github.com/metalworks/storefront/internal/repository"

	"gorm.io/gorm"
)

// OrderService 订单服务
type OrderService struct {
	db          *gorm.DB
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	paymentRepo repository.PaymentRepository
	cartRepo    repository.CartRepository
	queueClient *queue.Client
	metrics     *metrics.StoreMetrics
	now         func() time.Time
}

// NewOrderService 创建订单服务
func NewOrderService(db *gorm.DB, orderRepo repository.OrderRepository, productRepo repository.ProductRepository, paymentRepo repository.PaymentRepository, cartRepo repository.CartRepository, queueClient *queue.Client, storeMetrics *metrics.StoreMetrics) *OrderService {
	return &OrderService{
		db:          db,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		paymentRepo: paymentRepo,
		cartRepo:    cartRepo,
		queueClient: queueClient,
		metrics:     storeMetrics,
		now:         time.Now,
	}
}

// OrderItemInput 下单商品项
type OrderItemInput struct {
	ProductID int64
	Quantity  int
	UnitPrice models.Money
}

// DeliveryAddressInput 收货地址
type DeliveryAddressInput struct {
	RecipientName string
	Line1         string
	Line2         string
	City          string
	PostalCode    string
	Country       string
	ContactPhone  string
}

// PlaceOrderInput 下单输入
type PlaceOrderInput struct {
	CustomerID       uint
	Items            []OrderItemInput
	PaymentMethod    string
	FinalTotal       *models.Money
	IsRushOrder      bool
	MessageForSeller string
	DeliveryAddress  DeliveryAddressInput
}

// PlaceOrderResult 下单结果
type PlaceOrderResult struct {
	OrderID       uint         `json:"orderId"`
	CustomerID    uint         `json:"customerId"`
	OrderDate     string       `json:"orderDate"`
	TotalAmount   models.Money `json:"totalAmount"`
	PaymentMethod string       `json:"paymentMethod"`
	ItemCount     int          `json:"itemCount"`
}

// PlaceOrder 校验后在单个事务内写订单、订单项、扣库存、写支付记录并清理购物车
func (s *OrderService) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*PlaceOrderResult, error) {
	if err := validatePlaceOrderInput(input); err != nil {
		s.metrics.RecordOrderFailed(metrics.OrderFailureValidation)
		return nil, err
	}

	startedAt := time.Now()
	orderDate := s.now().UTC()
	orderDate = time.Date(orderDate.Year(), orderDate.Month(), orderDate.Day(), 0, 0, 0, 0, time.UTC)
	address := input.DeliveryAddress
	order := &models.Order{
		CustomerID:            input.CustomerID,
		OrderDate:             orderDate,
		RushOrder:             input.IsRushOrder,
		ApprovalStatus:        constants.OrderApprovalPending,
		TotalCost:             *input.FinalTotal,
		OrderNotes:            optionalString(input.MessageForSeller),
		ShippingRecipientName: strings.TrimSpace(address.RecipientName),
		ShippingAddressLine1:  strings.TrimSpace(address.Line1),
		ShippingAddressLine2:  optionalString(address.Line2),
		ShippingCity:          strings.TrimSpace(address.City),
		ShippingPostalCode:    strings.TrimSpace(address.PostalCode),
		ShippingCountry:       strings.TrimSpace(address.Country),
		ShippingContactPhone:  strings.TrimSpace(address.ContactPhone),
	}
	productIDs := make([]uint, 0, len(input.Items))

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)
		paymentRepo := s.paymentRepo.WithTx(tx)
		cartRepo := s.cartRepo.WithTx(tx)

		if err := orderRepo.Create(ctx, order); err != nil {
			return err
		}

		for _, item := range input.Items {
			lineTotal := item.UnitPrice.MulQuantity(item.Quantity)
			if item.ProductID <= 0 || item.Quantity <= 0 {
				return invalidOrderItemError{productID: item.ProductID, quantity: item.Quantity}
			}
			productID := uint(item.ProductID)

			orderItem := &models.OrderItem{
				OrderID:   order.ID,
				ProductID: productID,
				UnitPrice: item.UnitPrice,
				TotalCost: lineTotal,
				Quantity:  item.Quantity,
			}
			if err := orderRepo.CreateItem(ctx, orderItem); err != nil {
				return err
			}
			order.Items = append(order.Items, *orderItem)

			affected, err := productRepo.DecrementStock(ctx, productID, item.Quantity)
			if err != nil {
				return err
			}
			if affected == 0 {
				available, exists, err := productRepo.GetStock(ctx, productID)
				if err != nil {
					return err
				}
				if exists && available < item.Quantity {
					return &InsufficientStockError{ProductID: productID, Available: available, Requested: item.Quantity}
				}
				return ErrStockUpdateFailed
			}
			productIDs = append(productIDs, productID)
		}

		payment := &models.PaymentRecord{
			CustomerID: input.CustomerID,
			OrderID:    order.ID,
			Details:    strings.TrimSpace(input.PaymentMethod),
		}
		if err := paymentRepo.Create(ctx, payment); err != nil {
			return err
		}

		if _, err := cartRepo.DeleteByCustomerAndProducts(ctx, input.CustomerID, productIDs); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		s.metrics.RecordOrderFailed(classifyOrderFailure(err))
		var stockErr *InsufficientStockError
		switch {
		case errors.As(err, &stockErr):
			logger.Infow("order_insufficient_stock",
				"customer_id", input.CustomerID,
				"product_id", stockErr.ProductID,
				"available", stockErr.Available,
				"requested", stockErr.Requested,
			)
			return nil, err
		case errors.Is(err, ErrInvalidOrderItem), errors.Is(err, ErrStockUpdateFailed):
			return nil, err
		}
		logger.Errorw("order_place_failed", "customer_id", input.CustomerID, "error", err)
		return nil, ErrOrderCreateFailed
	}

	s.afterOrderCommitted(ctx, order, productIDs, time.Since(startedAt))

	return &PlaceOrderResult{
		OrderID:       order.ID,
		CustomerID:    order.CustomerID,
		OrderDate:     order.OrderDate.Format(constants.DateLayout),
		TotalAmount:   order.TotalCost,
		PaymentMethod: strings.TrimSpace(input.PaymentMethod),
		ItemCount:     len(input.Items),
	}, nil
}

// afterOrderCommitted 提交后的旁路动作，失败只记录日志
func (s *OrderService) afterOrderCommitted(ctx context.Context, order *models.Order, productIDs []uint, elapsed time.Duration) {
	s.metrics.RecordOrderPlaced(len(order.Items), elapsed)

	if err := cache.InvalidateProducts(ctx, productIDs...); err != nil {
		logger.Warnw("order_product_cache_invalidate_failed", "order_id", order.ID, "error", err)
	}

	if s.queueClient == nil || !s.queueClient.Enabled() {
		return
	}
	payload := queue.OrderPlacedPayload{
		OrderID:     order.ID,
		CustomerID:  order.CustomerID,
		TotalAmount: order.TotalCost.String(),
		ItemCount:   len(order.Items),
		RushOrder:   order.RushOrder,
	}
	if err := s.queueClient.EnqueueOrderPlaced(ctx, payload); err != nil {
		logger.Warnw("order_enqueue_placed_failed", "order_id", order.ID, "error", err)
	}
}

func validatePlaceOrderInput(input PlaceOrderInput) error {
	if len(input.Items) == 0 {
		return ErrOrderItemsRequired
	}
	if strings.TrimSpace(input.PaymentMethod) == "" || input.FinalTotal == nil {
		return ErrOrderPaymentRequired
	}
	if input.FinalTotal.IsNegative() {
		return ErrNegativeAmount
	}
	for _, item := range input.Items {
		if item.UnitPrice.IsNegative() {
			return ErrNegativeAmount
		}
	}
	address := input.DeliveryAddress
	required := []string{
		address.RecipientName,
		address.Line1,
		address.City,
		address.PostalCode,
		address.Country,
		address.ContactPhone,
	}
	for _, field := range required {
		if strings.TrimSpace(field) == "" {
			return ErrDeliveryAddressIncomplete
		}
	}
	return nil
}

func classifyOrderFailure(err error) string {
	switch {
	case errors.Is(err, ErrInsufficientStock):
		return metrics.OrderFailureInsufficientStock
	case errors.Is(err, ErrStockUpdateFailed):
		return metrics.OrderFailureStockUpdate
	case errors.Is(err, ErrInvalidOrderItem):
		return metrics.OrderFailureValidation
	default:
		return metrics.OrderFailureInternal
	}
}

func optionalString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
