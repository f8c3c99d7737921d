package models

import (
	"time"
)

// CartItem 购物车项，(customer_id, product_id, rush_order) 唯一
type CartItem struct {
	ID         uint      `gorm:"primarykey" json:"id"`                                                        // 主键
	CustomerID uint      `gorm:"not null;uniqueIndex:idx_cart_customer_product_rush" json:"customer_id"`      // 顾客ID
	ProductID  uint      `gorm:"not null;uniqueIndex:idx_cart_customer_product_rush" json:"product_id"`       // 商品ID
	RushOrder  bool      `gorm:"not null;default:false;uniqueIndex:idx_cart_customer_product_rush" json:"rush_order"` // 加急标记
	Quantity   int       `gorm:"not null" json:"quantity"`                                                    // 数量
	Price      Money     `gorm:"type:decimal(10,2);not null;default:0" json:"price"`                          // 加入时的单价快照
	CreatedAt  time.Time `gorm:"index" json:"created_at"`                                                     // 创建时间
	UpdatedAt  time.Time `json:"updated_at"`                                                                  // 更新时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}
