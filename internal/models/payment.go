package models

import "time"

// PaymentRecord 订单支付方式记录（非真实支付网关）
type PaymentRecord struct {
	ID         uint      `gorm:"primarykey" json:"id"`                        // 主键
	CustomerID uint      `gorm:"index;not null" json:"customer_id"`           // 顾客ID
	OrderID    uint      `gorm:"index;not null" json:"order_id"`              // 订单ID
	PaymentID  *uint     `json:"payment_id,omitempty"`                        // 外部支付单号（暂未使用）
	Details    string    `gorm:"type:varchar(255);not null" json:"details"`   // 支付方式说明
	Address    *string   `gorm:"type:varchar(255)" json:"address,omitempty"`  // 账单地址（暂未使用）
	CreatedAt  time.Time `json:"created_at"`                                  // 创建时间
}

// TableName 指定表名
func (PaymentRecord) TableName() string {
	return "paymentmethod"
}
