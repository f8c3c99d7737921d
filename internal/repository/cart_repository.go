package repository

import (
	"context"
	"errors"

	"github.com/metalworks/storefront/internal/models"

	"gorm.io/gorm"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	ListByCustomer(ctx context.Context, customerID uint) ([]models.CartItem, error)
	GetByKey(ctx context.Context, customerID, productID uint, rush bool) (*models.CartItem, error)
	GetByIDAndCustomer(ctx context.Context, id, customerID uint) (*models.CartItem, error)
	Create(ctx context.Context, item *models.CartItem) error
	IncrementQuantity(ctx context.Context, id, customerID uint, delta int) (int64, error)
	UpdateQuantity(ctx context.Context, id, customerID uint, quantity int) (int64, error)
	DeleteByIDAndCustomer(ctx context.Context, id, customerID uint) (int64, error)
	DeleteByCustomerAndProducts(ctx context.Context, customerID uint, productIDs []uint) (int64, error)
	ClearByCustomer(ctx context.Context, customerID uint) (int64, error)
	WithTx(tx *gorm.DB) *GormCartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) *GormCartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// ListByCustomer 获取顾客购物车项（附带商品信息）
func (r *GormCartRepository) ListByCustomer(ctx context.Context, customerID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.WithContext(ctx).Preload("Product").Where("customer_id = ?", customerID).Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetByKey 按合并键 (顾客, 商品, 加急) 查找购物车项
func (r *GormCartRepository) GetByKey(ctx context.Context, customerID, productID uint, rush bool) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND product_id = ? AND rush_order = ?", customerID, productID, rush).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetByIDAndCustomer 获取属于该顾客的购物车项（附带商品信息）
func (r *GormCartRepository) GetByIDAndCustomer(ctx context.Context, id, customerID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).Preload("Product").
		Where("id = ? AND customer_id = ?", id, customerID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Create 新增购物车项
func (r *GormCartRepository) Create(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// IncrementQuantity 原子累加数量
func (r *GormCartRepository) IncrementQuantity(ctx context.Context, id, customerID uint, delta int) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.CartItem{}).
		Where("id = ? AND customer_id = ?", id, customerID).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", delta),
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		})
	return result.RowsAffected, result.Error
}

// UpdateQuantity 设置数量，仅作用于该顾客自己的行
func (r *GormCartRepository) UpdateQuantity(ctx context.Context, id, customerID uint, quantity int) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.CartItem{}).
		Where("id = ? AND customer_id = ?", id, customerID).
		Updates(map[string]interface{}{
			"quantity":   quantity,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		})
	return result.RowsAffected, result.Error
}

// DeleteByIDAndCustomer 删除单个购物车项
func (r *GormCartRepository) DeleteByIDAndCustomer(ctx context.Context, id, customerID uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ? AND customer_id = ?", id, customerID).Delete(&models.CartItem{})
	return result.RowsAffected, result.Error
}

// DeleteByCustomerAndProducts 删除已下单商品对应的购物车项
func (r *GormCartRepository) DeleteByCustomerAndProducts(ctx context.Context, customerID uint, productIDs []uint) (int64, error) {
	if len(productIDs) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Where("customer_id = ? AND product_id IN ?", customerID, productIDs).Delete(&models.CartItem{})
	return result.RowsAffected, result.Error
}

// ClearByCustomer 清空购物车
func (r *GormCartRepository) ClearByCustomer(ctx context.Context, customerID uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("customer_id = ?", customerID).Delete(&models.CartItem{})
	return result.RowsAffected, result.Error
}
