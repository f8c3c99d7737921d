package models

import "time"

// Product 商品表
type Product struct {
	ID          uint      `gorm:"primarykey" json:"ProductID"`                           // 主键
	Name        string    `gorm:"type:varchar(255);not null;index" json:"Name"`          // 名称
	Description string    `gorm:"type:text" json:"Description"`                          // 描述
	ItemType    string    `gorm:"type:varchar(100);index" json:"ItemType"`               // 品类
	Material    string    `gorm:"type:varchar(100)" json:"Material"`                     // 材质
	Price       Money     `gorm:"type:decimal(10,2);not null;default:0" json:"Price"`    // 单价
	Stock       int       `gorm:"not null;default:0;check:stock >= 0" json:"Stock"`      // 库存（不允许为负）
	ImagePath   string    `gorm:"type:varchar(500)" json:"ImagePath"`                    // 图片路径
	Rating      float64   `gorm:"not null;default:0" json:"Rating"`                      // 评分
	CraftedBy   string    `gorm:"type:varchar(200)" json:"CraftedBy"`                    // 工匠
	CreatedAt   time.Time `json:"-"`                                                     // 创建时间
	UpdatedAt   time.Time `json:"-"`                                                     // 更新时间
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
