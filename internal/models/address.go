package models

import "time"

// Address 顾客收货地址
type Address struct {
	ID            uint      `gorm:"primarykey" json:"AddressID"`                    // 主键
	CustomerID    uint      `gorm:"index;not null" json:"CustomerID"`               // 所属顾客
	Nickname      *string   `gorm:"type:varchar(100)" json:"Nickname"`              // 地址别名
	RecipientName string    `gorm:"type:varchar(200);not null" json:"RecipientName"` // 收件人
	ContactPhone  string    `gorm:"type:varchar(50);not null" json:"ContactPhone"`  // 联系电话
	Line1         string    `gorm:"type:varchar(255);not null" json:"Line1"`        // 地址行 1
	Line2         *string   `gorm:"type:varchar(255)" json:"Line2"`                 // 地址行 2
	City          string    `gorm:"type:varchar(100);not null" json:"City"`         // 城市
	Region        *string   `gorm:"type:varchar(100)" json:"Region"`                // 省/州
	PostalCode    string    `gorm:"type:varchar(20);not null" json:"PostalCode"`    // 邮编
	Country       string    `gorm:"type:varchar(100);not null" json:"Country"`      // 国家
	IsDefault     bool      `gorm:"not null;default:false;index" json:"IsDefault"`  // 是否默认地址
	CreatedAt     time.Time `json:"-"`                                              // 创建时间
	UpdatedAt     time.Time `json:"-"`                                              // 更新时间
}

// TableName 指定表名
func (Address) TableName() string {
	return "customer_addresses"
}
