package public

import (
	handlershared "github.com/metalworks/storefront/internal/http/handlers/shared"
	"github.com/metalworks/storefront/internal/http/response"
	"github.com/metalworks/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// AddressRequest 地址请求，字段名沿用前端约定
type AddressRequest struct {
	Nickname      string `json:"Nickname"`
	RecipientName string `json:"RecipientName"`
	ContactPhone  string `json:"ContactPhone"`
	Line1         string `json:"Line1"`
	Line2         string `json:"Line2"`
	City          string `json:"City"`
	Region        string `json:"Region"`
	PostalCode    string `json:"PostalCode"`
	Country       string `json:"Country"`
	IsDefault     bool   `json:"IsDefault"`
}

func (r AddressRequest) toInput() service.AddressInput {
	return service.AddressInput{
		Nickname:      r.Nickname,
		RecipientName: r.RecipientName,
		ContactPhone:  r.ContactPhone,
		Line1:         r.Line1,
		Line2:         r.Line2,
		City:          r.City,
		Region:        r.Region,
		PostalCode:    r.PostalCode,
		Country:       r.Country,
		IsDefault:     r.IsDefault,
	}
}

func parseAddressID(c *gin.Context) (uint, bool) {
	id, ok := handlershared.ParseUintParam(c, "addressId")
	if !ok {
		respondError(c, response.CodeNotFound, "Address not found or user mismatch.", nil)
	}
	return id, ok
}

// ListAddresses 地址列表
func (h *Handler) ListAddresses(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	addresses, err := h.AddressService.List(c.Request.Context(), uid)
	if err != nil {
		respondError(c, response.CodeInternal, "Failed to retrieve addresses.", err)
		return
	}
	response.OK(c, addresses)
}

// CreateAddress 新增地址
func (h *Handler) CreateAddress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, msgInvalidRequestBody, nil)
		return
	}
	address, err := h.AddressService.Create(c.Request.Context(), uid, req.toInput())
	if err != nil {
		respondWithMappedError(c, err, addressErrorRules, response.CodeInternal, "Failed to add address.")
		return
	}
	response.Created(c, gin.H{"message": "Address added successfully.", "address": address})
}

// UpdateAddress 修改地址
func (h *Handler) UpdateAddress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	addressID, ok := parseAddressID(c)
	if !ok {
		return
	}
	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, msgInvalidRequestBody, nil)
		return
	}
	address, err := h.AddressService.Update(c.Request.Context(), uid, addressID, req.toInput())
	if err != nil {
		respondWithMappedError(c, err, addressErrorRules, response.CodeInternal, "Failed to update address.")
		return
	}
	response.OK(c, gin.H{"message": "Address updated successfully", "address": address})
}

// DeleteAddress 删除地址
func (h *Handler) DeleteAddress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	addressID, ok := parseAddressID(c)
	if !ok {
		return
	}
	if err := h.AddressService.Delete(c.Request.Context(), uid, addressID); err != nil {
		respondWithMappedError(c, err, addressErrorRules, response.CodeInternal, "Failed to delete address.")
		return
	}
	response.Message(c, "Address deleted successfully")
}

// SetDefaultAddress 设为默认地址
func (h *Handler) SetDefaultAddress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	addressID, ok := parseAddressID(c)
	if !ok {
		return
	}
	if err := h.AddressService.SetDefault(c.Request.Context(), uid, addressID); err != nil {
		respondWithMappedError(c, err, addressErrorRules, response.CodeInternal, "Failed to set default address.")
		return
	}
	response.Message(c, "Address set as default successfully")
}
