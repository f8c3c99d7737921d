package models

import (
	"time"
)

// Order 订单表，收货地址为下单时的快照
type Order struct {
	ID                    uint      `gorm:"primarykey" json:"id"`                                          // 主键
	CustomerID            uint      `gorm:"index;not null" json:"customer_id"`                             // 顾客ID
	OrderDate             time.Time `gorm:"type:date;index;not null" json:"order_date"`                    // 下单日期
	RushOrder             bool      `gorm:"not null;default:false" json:"rush_order"`                      // 是否加急
	ApprovalStatus        string    `gorm:"type:varchar(32);index;not null" json:"approval_status"`        // 审核状态
	TotalCost             Money     `gorm:"type:decimal(10,2);not null;default:0" json:"total_cost"`       // 订单总额
	OrderNotes            *string   `gorm:"type:text" json:"order_notes,omitempty"`                        // 买家留言
	ShippingRecipientName string    `gorm:"type:varchar(200);not null" json:"shipping_recipient_name"`     // 收件人
	ShippingAddressLine1  string    `gorm:"type:varchar(255);not null" json:"shipping_address_line1"`      // 地址行 1
	ShippingAddressLine2  *string   `gorm:"type:varchar(255)" json:"shipping_address_line2,omitempty"`     // 地址行 2
	ShippingCity          string    `gorm:"type:varchar(100);not null" json:"shipping_city"`               // 城市
	ShippingPostalCode    string    `gorm:"type:varchar(20);not null" json:"shipping_postal_code"`         // 邮编
	ShippingCountry       string    `gorm:"type:varchar(100);not null" json:"shipping_country"`            // 国家
	ShippingContactPhone  string    `gorm:"type:varchar(50);not null" json:"shipping_contact_phone"`       // 联系电话
	CreatedAt             time.Time `gorm:"index" json:"created_at"`                                       // 创建时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "order"
}
