package models

// OrderItem 订单项表
type OrderItem struct {
	ID            uint  `gorm:"primarykey" json:"id"`                                     // 主键
	OrderID       uint  `gorm:"index;not null" json:"order_id"`                           // 订单ID
	ProductID     uint  `gorm:"index;not null" json:"product_id"`                         // 商品ID
	PricingTierID *uint `json:"pricing_tier_id,omitempty"`                                // 价格档位（暂未使用）
	UnitPrice     Money `gorm:"type:decimal(10,2);not null;default:0" json:"unit_price"`  // 单价
	TotalCost     Money `gorm:"type:decimal(10,2);not null;default:0" json:"total_cost"`  // 小计
	Quantity      int   `gorm:"not null" json:"quantity"`                                 // 数量

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "item"
}
