package public

import (
	handlershared "github.com/metalworks/storefront/internal/http/handlers/shared"
	"github.com/metalworks/storefront/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListProducts 商品列表
func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.ProductService.List(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "Failed to retrieve products.", err)
		return
	}
	response.OK(c, products)
}

// GetProduct 商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "Invalid product ID.", nil)
		return
	}
	product, err := h.ProductService.Get(c.Request.Context(), id)
	if err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "Failed to retrieve product details.")
		return
	}
	response.OK(c, product)
}

// SearchProducts 商品搜索
func (h *Handler) SearchProducts(c *gin.Context) {
	page := handlershared.QueryInt(c, "page", 1)
	limit := handlershared.QueryInt(c, "limit", 0)
	result, err := h.ProductService.Search(c.Request.Context(), c.Query("q"), page, limit)
	if err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "Failed to search for products.")
		return
	}
	response.OK(c, result)
}
