package service

import (
	"context"
	"errors"

	"github.com/metalworks/storefront/internal/logger"
	"github.com/metalworks/storefront/internal/models"
	"github.com/metalworks/storefront/internal/repository"

	"gorm.io/gorm"
)

// CartService 购物车服务
type CartService struct {
	db          *gorm.DB
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService 创建购物车服务
func NewCartService(db *gorm.DB, cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{
		db:          db,
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// CartLine 购物车行（附带商品信息）
type CartLine struct {
	CartItemID  uint         `json:"CartItemID"`
	ProductID   uint         `json:"ProductID"`
	Quantity    int          `json:"Quantity"`
	UnitPrice   models.Money `json:"UnitPrice"`
	RushOrder   bool         `json:"RushOrder"`
	Name        string       `json:"Name"`
	ImagePath   string       `json:"ImagePath"`
	Description string       `json:"Description"`
	ItemType    string       `json:"ItemType"`
	Material    string       `json:"Material"`
	Stock       int          `json:"Stock"`
}

// AddCartItemInput 加入购物车输入，指针字段用于区分缺失
type AddCartItemInput struct {
	CustomerID uint
	ProductID  *uint
	Quantity   *int
	UnitPrice  *models.Money
	RushOrder  *bool
}

// AddCartItemResult 加入购物车结果
type AddCartItemResult struct {
	Line    CartLine
	Created bool // true 表示新增行，false 表示合并数量
}

// ListCart 获取购物车
func (s *CartService) ListCart(ctx context.Context, customerID uint) ([]CartLine, error) {
	items, err := s.cartRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	lines := make([]CartLine, 0, len(items))
	for i := range items {
		if items[i].Product == nil {
			continue
		}
		lines = append(lines, toCartLine(&items[i]))
	}
	return lines, nil
}

// AddItem 按 (顾客, 商品, 加急) 合并加入购物车
func (s *CartService) AddItem(ctx context.Context, input AddCartItemInput) (*AddCartItemResult, error) {
	if input.ProductID == nil || input.Quantity == nil || input.UnitPrice == nil || input.RushOrder == nil {
		return nil, ErrCartItemInvalid
	}
	if *input.Quantity <= 0 {
		return nil, ErrCartQuantityInvalid
	}
	if input.UnitPrice.IsNegative() {
		return nil, ErrNegativeAmount
	}
	productID := *input.ProductID
	quantity := *input.Quantity
	rush := *input.RushOrder

	var itemID uint
	created := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		product, err := s.productRepo.WithTx(tx).GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return ErrProductNotFound
		}

		existing, err := cartRepo.GetByKey(ctx, input.CustomerID, productID, rush)
		if err != nil {
			return err
		}
		if existing != nil {
			itemID = existing.ID
			_, err := cartRepo.IncrementQuantity(ctx, existing.ID, input.CustomerID, quantity)
			return err
		}

		item := &models.CartItem{
			CustomerID: input.CustomerID,
			ProductID:  productID,
			RushOrder:  rush,
			Quantity:   quantity,
			Price:      *input.UnitPrice,
		}
		if err := cartRepo.Create(ctx, item); err != nil {
			return err
		}
		itemID = item.ID
		created = true
		return nil
	})
	if err != nil && repository.IsDuplicateKeyErr(err) {
		// 并发插入同一合并键时，另一请求已建行，改为累加
		itemID, err = s.mergeIntoExisting(ctx, input.CustomerID, productID, rush, quantity)
		created = false
	}
	if err != nil {
		if !errors.Is(err, ErrProductNotFound) {
			logger.Errorw("cart_add_item_failed", "customer_id", input.CustomerID, "product_id", productID, "error", err)
		}
		return nil, err
	}

	line, err := s.getLine(ctx, itemID, input.CustomerID)
	if err != nil {
		return nil, err
	}
	return &AddCartItemResult{Line: *line, Created: created}, nil
}

func (s *CartService) mergeIntoExisting(ctx context.Context, customerID, productID uint, rush bool, quantity int) (uint, error) {
	existing, err := s.cartRepo.GetByKey(ctx, customerID, productID, rush)
	if err != nil {
		return 0, err
	}
	if existing == nil {
		return 0, ErrCartItemNotFound
	}
	if _, err := s.cartRepo.IncrementQuantity(ctx, existing.ID, customerID, quantity); err != nil {
		return 0, err
	}
	return existing.ID, nil
}

// UpdateQuantity 修改数量，仅作用于顾客自己的行
func (s *CartService) UpdateQuantity(ctx context.Context, customerID, cartItemID uint, quantity int) (*CartLine, error) {
	if quantity <= 0 {
		return nil, ErrCartQuantityInvalid
	}
	existing, err := s.cartRepo.GetByIDAndCustomer(ctx, cartItemID, customerID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrCartItemNotFound
	}
	affected, err := s.cartRepo.UpdateQuantity(ctx, cartItemID, customerID, quantity)
	if err != nil {
		return nil, err
	}
	if affected == 0 && existing.Quantity != quantity {
		return nil, ErrCartItemNotFound
	}
	return s.getLine(ctx, cartItemID, customerID)
}

// RemoveItem 删除购物车行
func (s *CartService) RemoveItem(ctx context.Context, customerID, cartItemID uint) error {
	affected, err := s.cartRepo.DeleteByIDAndCustomer(ctx, cartItemID, customerID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

// ClearCart 清空购物车，空购物车同样成功
func (s *CartService) ClearCart(ctx context.Context, customerID uint) error {
	_, err := s.cartRepo.ClearByCustomer(ctx, customerID)
	return err
}

func (s *CartService) getLine(ctx context.Context, cartItemID, customerID uint) (*CartLine, error) {
	item, err := s.cartRepo.GetByIDAndCustomer(ctx, cartItemID, customerID)
	if err != nil {
		return nil, err
	}
	if item == nil || item.Product == nil {
		return nil, ErrCartItemNotFound
	}
	line := toCartLine(item)
	return &line, nil
}

func toCartLine(item *models.CartItem) CartLine {
	line := CartLine{
		CartItemID: item.ID,
		ProductID:  item.ProductID,
		Quantity:   item.Quantity,
		UnitPrice:  item.Price,
		RushOrder:  item.RushOrder,
	}
	if item.Product != nil {
		line.Name = item.Product.Name
		line.ImagePath = item.Product.ImagePath
		line.Description = item.Product.Description
		line.ItemType = item.Product.ItemType
		line.Material = item.Product.Material
		line.Stock = item.Product.Stock
	}
	return line
}
