package repository

import (
	"context"
	"errors"

	"github.com/metalworks/storefront/internal/models"

	"gorm.io/gorm"
)

// PaymentRepository 支付方式记录数据访问接口
type PaymentRepository interface {
	Create(ctx context.Context, record *models.PaymentRecord) error
	GetByOrderID(ctx context.Context, orderID uint) (*models.PaymentRecord, error)
	WithTx(tx *gorm.DB) *GormPaymentRepository
}

// GormPaymentRepository GORM 实现
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository 创建支付记录仓库
func NewPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPaymentRepository) WithTx(tx *gorm.DB) *GormPaymentRepository {
	if tx == nil {
		return r
	}
	return &GormPaymentRepository{db: tx}
}

// Create 写入支付方式记录
func (r *GormPaymentRepository) Create(ctx context.Context, record *models.PaymentRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// GetByOrderID 获取订单对应的支付方式记录
func (r *GormPaymentRepository) GetByOrderID(ctx context.Context, orderID uint) (*models.PaymentRecord, error) {
	var record models.PaymentRecord
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id asc").First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}
