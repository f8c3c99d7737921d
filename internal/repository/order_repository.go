package repository

import (
	"context"
	"errors"

	"github.com/metalworks/storefront/internal/models"

	"gorm.io/gorm"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	CreateItem(ctx context.Context, item *models.OrderItem) error
	GetByIDAndCustomer(ctx context.Context, id, customerID uint) (*models.Order, error)
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	ListByCustomer(ctx context.Context, customerID uint, page, pageSize int) ([]models.Order, int64, error)
	WithTx(tx *gorm.DB) *GormOrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) *GormOrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Create 创建订单头，不级联写入订单项
func (r *GormOrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Omit("Items").Create(order).Error
}

// CreateItem 创建订单项
func (r *GormOrderRepository) CreateItem(ctx context.Context, item *models.OrderItem) error {
	return r.db.WithContext(ctx).Omit("Product").Create(item).Error
}

// GetByIDAndCustomer 获取顾客自己的订单详情
func (r *GormOrderRepository) GetByIDAndCustomer(ctx context.Context, id, customerID uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Preload("Items").Preload("Items.Product").
		Where("id = ? AND customer_id = ?", id, customerID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByID 获取订单（含订单项）
func (r *GormOrderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// ListByCustomer 顾客订单列表，最新的在前；pageSize 为 0 时返回全部
func (r *GormOrderRepository) ListByCustomer(ctx context.Context, customerID uint, page, pageSize int) ([]models.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{}).Where("customer_id = ?", customerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	query = query.Order("order_date desc").Order("id desc")
	if pageSize > 0 {
		query = query.Limit(pageSize).Offset(pageOffset(page, pageSize))
	}
	if err := query.Preload("Items").Preload("Items.Product").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}
