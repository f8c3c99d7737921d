package public

import (
	"net/http"

	handlershared "github.com/metalworks/storefront/internal/http/handlers/shared"
	"github.com/metalworks/storefront/internal/http/response"
	"github.com/metalworks/storefront/internal/models"
	"github.com/metalworks/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest 加入购物车请求，字段缺失需与零值区分
type AddCartItemRequest struct {
	ProductID *uint         `json:"productId"`
	Quantity  *int          `json:"quantity"`
	UnitPrice *models.Money `json:"unitPrice"`
	RushOrder *bool         `json:"rushOrder"`
}

// UpdateCartItemRequest 修改数量请求
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity"`
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	lines, err := h.CartService.ListCart(c.Request.Context(), uid)
	if err != nil {
		respondError(c, response.CodeInternal, "Failed to retrieve cart.", err)
		return
	}
	response.OK(c, lines)
}

// AddCartItem 加入购物车，同键合并数量
func (h *Handler) AddCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "Product ID, quantity, unit price, and rush order status are required.", nil)
		return
	}

	result, err := h.CartService.AddItem(c.Request.Context(), service.AddCartItemInput{
		CustomerID: uid,
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
		UnitPrice:  req.UnitPrice,
		RushOrder:  req.RushOrder,
	})
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "Failed to process cart item.")
		return
	}

	status := http.StatusOK
	msg := "Cart item quantity updated."
	if result.Created {
		status = http.StatusCreated
		msg = "Item added to cart."
	}
	c.JSON(status, gin.H{"message": msg, "item": result.Line})
}

// UpdateCartItem 修改购物车数量
func (h *Handler) UpdateCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	itemID, ok := handlershared.ParseUintParam(c, "cartItemId")
	if !ok {
		respondError(c, response.CodeNotFound, "Cart item not found or user mismatch.", nil)
		return
	}
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil || *req.Quantity <= 0 {
		respondError(c, response.CodeBadRequest, "Valid quantity is required.", nil)
		return
	}

	line, err := h.CartService.UpdateQuantity(c.Request.Context(), uid, itemID, *req.Quantity)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "Failed to update cart item.")
		return
	}
	response.OK(c, gin.H{"message": "Cart item quantity updated.", "item": line})
}

// DeleteCartItem 删除购物车项
func (h *Handler) DeleteCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	itemID, ok := handlershared.ParseUintParam(c, "cartItemId")
	if !ok {
		respondError(c, response.CodeNotFound, "Cart item not found or user mismatch.", nil)
		return
	}
	if err := h.CartService.RemoveItem(c.Request.Context(), uid, itemID); err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "Failed to remove item from cart.")
		return
	}
	response.Message(c, "Item removed from cart.")
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.CartService.ClearCart(c.Request.Context(), uid); err != nil {
		respondError(c, response.CodeInternal, "Failed to clear cart.", err)
		return
	}
	response.Message(c, "Cart cleared successfully.")
}
