package public

import (
	"strconv"

	handlershared "github.com/metalworks/storefront/internal/http/handlers/shared"
	"github.com/metalworks/storefront/internal/http/response"
	"github.com/metalworks/storefront/internal/models"
	"github.com/metalworks/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// OrderItemRequest 下单商品项
type OrderItemRequest struct {
	ProductID int64        `json:"productId"`
	Quantity  int          `json:"quantity"`
	UnitPrice models.Money `json:"unitPrice"`
}

// DeliveryAddressRequest 收货地址
type DeliveryAddressRequest struct {
	RecipientName string `json:"recipientName"`
	Line1         string `json:"line1"`
	Line2         string `json:"line2"`
	City          string `json:"city"`
	PostalCode    string `json:"postalCode"`
	Country       string `json:"country"`
	ContactPhone  string `json:"contactPhone"`
}

// PlaceOrderRequest 下单请求
type PlaceOrderRequest struct {
	Items            []OrderItemRequest      `json:"items"`
	PaymentMethod    string                  `json:"paymentMethod"`
	FinalTotal       *models.Money           `json:"finalTotal"`
	IsRushOrder      bool                    `json:"isRushOrder"`
	MessageForSeller string                  `json:"messageForSeller"`
	DeliveryAddress  *DeliveryAddressRequest `json:"deliveryAddress"`
}

// PlaceOrder 下单
func (h *Handler) PlaceOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, msgInvalidRequestBody, nil)
		return
	}

	input := service.PlaceOrderInput{
		CustomerID:       uid,
		Items:            make([]service.OrderItemInput, 0, len(req.Items)),
		PaymentMethod:    req.PaymentMethod,
		FinalTotal:       req.FinalTotal,
		IsRushOrder:      req.IsRushOrder,
		MessageForSeller: req.MessageForSeller,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, service.OrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	if req.DeliveryAddress != nil {
		input.DeliveryAddress = service.DeliveryAddressInput{
			RecipientName: req.DeliveryAddress.RecipientName,
			Line1:         req.DeliveryAddress.Line1,
			Line2:         req.DeliveryAddress.Line2,
			City:          req.DeliveryAddress.City,
			PostalCode:    req.DeliveryAddress.PostalCode,
			Country:       req.DeliveryAddress.Country,
			ContactPhone:  req.DeliveryAddress.ContactPhone,
		}
	}

	result, err := h.OrderService.PlaceOrder(c.Request.Context(), input)
	if err != nil {
		respondOrderPlaceError(c, err)
		return
	}
	response.Created(c, gin.H{
		"message":      "Order placed successfully!",
		"orderDetails": result,
	})
}

// ListOrders 订单历史
func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page := handlershared.QueryInt(c, "page", 1)
	pageSize := handlershared.QueryInt(c, "pageSize", 0)
	entries, total, err := h.OrderService.ListOrders(c.Request.Context(), uid, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "Failed to retrieve order history.", err)
		return
	}
	c.Header("X-Total-Count", strconv.FormatInt(total, 10))
	response.OK(c, entries)
}
