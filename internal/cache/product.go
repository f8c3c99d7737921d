package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/metalworks/storefront/internal/constants"
	"github.com/metalworks/storefront/internal/models"
)

func productKey(productID uint) string {
	return fmt.Sprintf("%s:%d", constants.CacheKeyProduct, productID)
}

// GetProduct 读取商品缓存
func GetProduct(ctx context.Context, productID uint) (*models.Product, bool, error) {
	var product models.Product
	hit, err := GetJSON(ctx, productKey(productID), &product)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &product, true, nil
}

// SetProduct 写入商品缓存，库存不入缓存
func SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error {
	if product == nil || product.ID == 0 {
		return nil
	}
	return SetJSON(ctx, productKey(product.ID), withoutStock(product), ttl)
}

// withoutStock 复制一份去掉库存的商品，下单扣减后缓存无需同步
func withoutStock(product *models.Product) *models.Product {
	entry := *product
	entry.Stock = 0
	return &entry
}

// InvalidateProducts 批量删除商品缓存
func InvalidateProducts(ctx context.Context, productIDs ...uint) error {
	if len(productIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(productIDs))
	for _, id := range productIDs {
		keys = append(keys, productKey(id))
	}
	return Del(ctx, keys...)
}
