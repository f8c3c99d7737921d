package models

import (
	"time"
)

// Customer 顾客表
type Customer struct {
	ID                 uint       `gorm:"primarykey" json:"id"`                                   // 主键
	FirstName          string     `gorm:"type:varchar(100);not null" json:"first_name"`           // 名
	LastName           string     `gorm:"type:varchar(100);not null" json:"last_name"`            // 姓
	Email              string     `gorm:"type:varchar(191);uniqueIndex;not null" json:"email"`    // 邮箱（唯一约束）
	PasswordHash       string     `gorm:"type:varchar(255);not null" json:"-"`                    // 密码哈希（不返回给前端）
	Phone              *string    `gorm:"type:varchar(50)" json:"phone"`                          // 联系电话
	AvatarURL          *string    `gorm:"type:varchar(500)" json:"avatar_url"`                    // 头像地址
	TokenVersion       uint64     `gorm:"not null;default:0" json:"-"`                            // Token 版本（用于全量失效）
	TokenInvalidBefore *time.Time `gorm:"index" json:"-"`                                         // 该时间点前签发的 Token 失效
	LastLoginAt        *time.Time `json:"last_login_at"`                                          // 最后登录时间
	CreatedAt          time.Time  `gorm:"index" json:"created_at"`                                // 创建时间
	UpdatedAt          time.Time  `json:"updated_at"`                                             // 更新时间
}

// TableName 指定表名
func (Customer) TableName() string {
	return "customer"
}
