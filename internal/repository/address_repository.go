package repository

import (
	"context"
	"errors"

	"github.com/metalworks/storefront/internal/models"

	"gorm.io/gorm"
)

// AddressRepository 收货地址数据访问接口
type AddressRepository interface {
	ListByCustomer(ctx context.Context, customerID uint) ([]models.Address, error)
	GetByIDAndCustomer(ctx context.Context, id, customerID uint) (*models.Address, error)
	Create(ctx context.Context, address *models.Address) error
	Update(ctx context.Context, address *models.Address) (int64, error)
	Delete(ctx context.Context, id, customerID uint) (int64, error)
	ClearDefault(ctx context.Context, customerID, exceptID uint) error
	SetDefault(ctx context.Context, id, customerID uint) (int64, error)
	WithTx(tx *gorm.DB) *GormAddressRepository
}

// GormAddressRepository GORM 实现
type GormAddressRepository struct {
	db *gorm.DB
}

// NewAddressRepository 创建地址仓库
func NewAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

// WithTx 绑定事务
func (r *GormAddressRepository) WithTx(tx *gorm.DB) *GormAddressRepository {
	if tx == nil {
		return r
	}
	return &GormAddressRepository{db: tx}
}

// ListByCustomer 默认地址优先，其余按创建顺序
func (r *GormAddressRepository) ListByCustomer(ctx context.Context, customerID uint) ([]models.Address, error) {
	var addresses []models.Address
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("is_default desc").Order("id asc").
		Find(&addresses).Error
	if err != nil {
		return nil, err
	}
	return addresses, nil
}

// GetByIDAndCustomer 获取属于该顾客的地址
func (r *GormAddressRepository) GetByIDAndCustomer(ctx context.Context, id, customerID uint) (*models.Address, error) {
	var address models.Address
	err := r.db.WithContext(ctx).Where("id = ? AND customer_id = ?", id, customerID).First(&address).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &address, nil
}

// Create 新增地址
func (r *GormAddressRepository) Create(ctx context.Context, address *models.Address) error {
	return r.db.WithContext(ctx).Create(address).Error
}

// Update 按 ID 与顾客更新地址字段
func (r *GormAddressRepository) Update(ctx context.Context, address *models.Address) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Address{}).
		Where("id = ? AND customer_id = ?", address.ID, address.CustomerID).
		Updates(map[string]interface{}{
			"nickname":       address.Nickname,
			"recipient_name": address.RecipientName,
			"contact_phone":  address.ContactPhone,
			"line1":          address.Line1,
			"line2":          address.Line2,
			"city":           address.City,
			"region":         address.Region,
			"postal_code":    address.PostalCode,
			"country":        address.Country,
			"is_default":     address.IsDefault,
		})
	return result.RowsAffected, result.Error
}

// Delete 删除地址
func (r *GormAddressRepository) Delete(ctx context.Context, id, customerID uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ? AND customer_id = ?", id, customerID).Delete(&models.Address{})
	return result.RowsAffected, result.Error
}

// ClearDefault 取消顾客的默认地址，exceptID 非零时跳过该地址
func (r *GormAddressRepository) ClearDefault(ctx context.Context, customerID, exceptID uint) error {
	query := r.db.WithContext(ctx).Model(&models.Address{}).Where("customer_id = ? AND is_default = ?", customerID, true)
	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}
	return query.Update("is_default", false).Error
}

// SetDefault 将指定地址设为默认
func (r *GormAddressRepository) SetDefault(ctx context.Context, id, customerID uint) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Address{}).
		Where("id = ? AND customer_id = ?", id, customerID).
		Update("is_default", true)
	return result.RowsAffected, result.Error
}
