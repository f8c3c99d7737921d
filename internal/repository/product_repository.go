package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/metalworks/storefront/internal/models"

	"gorm.io/gorm"
)

// ProductRepository 商品数据访问接口
type ProductRepository interface {
	List(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	Search(ctx context.Context, filter ProductSearchFilter) ([]models.Product, int64, error)
	Create(ctx context.Context, product *models.Product) error
	DecrementStock(ctx context.Context, id uint, quantity int) (int64, error)
	GetStock(ctx context.Context, id uint) (int, bool, error)
	WithTx(tx *gorm.DB) *GormProductRepository
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductRepository) WithTx(tx *gorm.DB) *GormProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// List 获取全部商品
func (r *GormProductRepository) List(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Order("id asc").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// GetByID 根据 ID 获取商品
func (r *GormProductRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// Search 在名称、描述、品类、材质中做不区分大小写的子串匹配，按名称排序分页
func (r *GormProductRepository) Search(ctx context.Context, filter ProductSearchFilter) ([]models.Product, int64, error) {
	term := strings.TrimSpace(filter.Term)
	query := r.db.WithContext(ctx).Model(&models.Product{})
	if term != "" {
		condition, args := containsAnyColumn(r.db, productSearchColumns, term)
		query = query.Where(condition, args...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	query = query.Order("name asc").Order("id asc")
	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize).Offset(filter.offset())
	}
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// Create 创建商品
func (r *GormProductRepository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// DecrementStock 条件扣减库存，库存不足时影响行数为 0
func (r *GormProductRepository) DecrementStock(ctx context.Context, id uint, quantity int) (int64, error) {
	if id == 0 || quantity <= 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// GetStock 读取当前库存，第二个返回值表示商品是否存在
func (r *GormProductRepository) GetStock(ctx context.Context, id uint) (int, bool, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Select("id", "stock").First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return product.Stock, true, nil
}
