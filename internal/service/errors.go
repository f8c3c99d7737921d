package service

import (
	"errors"
	"fmt"
)

// 参数校验错误
var (
	ErrOrderItemsRequired        = errors.New("order must contain at least one item")
	ErrOrderPaymentRequired      = errors.New("payment method and total amount are required")
	ErrDeliveryAddressIncomplete = errors.New("complete delivery address required")
	ErrInvalidOrderItem          = errors.New("invalid product ID or quantity")
	ErrCartItemInvalid           = errors.New("product ID, quantity, unit price, and rush order status are required")
	ErrCartQuantityInvalid       = errors.New("quantity must be a positive number")
	ErrNegativeAmount            = errors.New("unit price and total must not be negative")
	ErrProfileNameRequired       = errors.New("first name and last name are required")
	ErrAddressFieldsRequired     = errors.New("recipient name, phone, address line 1, city, postal code, and country are required")
	ErrSignupFieldsRequired      = errors.New("all fields are required")
	ErrLoginFieldsRequired       = errors.New("email and password are required")
	ErrPasswordFieldsRequired    = errors.New("current and new password are required")
	ErrWeakPassword              = errors.New("password does not meet the policy")
	ErrInvalidEmail              = errors.New("invalid email address")
	ErrSearchTermRequired        = errors.New("search term is required")
)

// 鉴权错误
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidPassword    = errors.New("incorrect current password")
)

// 资源不存在
var (
	ErrNotFound         = errors.New("not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrCartItemNotFound = errors.New("cart item not found or user mismatch")
	ErrAddressNotFound  = errors.New("address not found or user mismatch")
)

// 冲突
var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrEmailExists       = errors.New("email already in use")
)

// 内部错误
var (
	ErrStockUpdateFailed = errors.New("stock update failed")
	ErrOrderCreateFailed = errors.New("order create failed")
	ErrOrderFetchFailed  = errors.New("order fetch failed")
)

// InsufficientStockError 库存不足，携带可用量与请求量
type InsufficientStockError struct {
	ProductID uint
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for ProductID %d. Available: %d, Requested: %d", e.ProductID, e.Available, e.Requested)
}

// Is 匹配 ErrInsufficientStock
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// invalidOrderItemError 订单项商品或数量非法
type invalidOrderItemError struct {
	productID int64
	quantity  int
}

func (e invalidOrderItemError) Error() string {
	return fmt.Sprintf("Invalid product ID or quantity for stock update: ProductID %d, Quantity %d", e.productID, e.quantity)
}

func (e invalidOrderItemError) Is(target error) bool {
	return target == ErrInvalidOrderItem
}
