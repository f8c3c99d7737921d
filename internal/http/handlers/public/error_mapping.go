package public

import (
	"errors"

	"github.com/metalworks/storefront/internal/http/response"
	"github.com/metalworks/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
// message 为空时直接使用错误自身的文本（携带参数的错误）。
type mappedHandlerError struct {
	target  error
	code    int
	message string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMessage string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			msg := rule.message
			if msg == "" {
				msg = err.Error()
			}
			respondError(c, rule.code, msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMessage, err)
}

var orderPlaceErrorRules = []mappedHandlerError{
	{target: service.ErrOrderItemsRequired, code: response.CodeBadRequest},
	{target: service.ErrOrderPaymentRequired, code: response.CodeBadRequest},
	{target: service.ErrDeliveryAddressIncomplete, code: response.CodeBadRequest},
	{target: service.ErrNegativeAmount, code: response.CodeBadRequest, message: "Unit price and total must not be negative."},
	{target: service.ErrInvalidOrderItem, code: response.CodeBadRequest},
	{target: service.ErrInsufficientStock, code: response.CodeConflict},
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrCartItemInvalid, code: response.CodeBadRequest, message: "Product ID, quantity, unit price, and rush order status are required."},
	{target: service.ErrCartQuantityInvalid, code: response.CodeBadRequest, message: "Quantity must be a positive number."},
	{target: service.ErrNegativeAmount, code: response.CodeBadRequest, message: "Unit price must not be negative."},
	{target: service.ErrProductNotFound, code: response.CodeNotFound, message: "Product not found."},
	{target: service.ErrCartItemNotFound, code: response.CodeNotFound, message: "Cart item not found or user mismatch."},
}

var signupErrorRules = []mappedHandlerError{
	{target: service.ErrSignupFieldsRequired, code: response.CodeBadRequest, message: "All fields are required."},
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, message: "Please provide a valid email address."},
	{target: service.ErrWeakPassword, code: response.CodeBadRequest},
	{target: service.ErrEmailExists, code: response.CodeConflict, message: "Email already in use."},
}

var loginErrorRules = []mappedHandlerError{
	{target: service.ErrLoginFieldsRequired, code: response.CodeBadRequest, message: "Email and password are required."},
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, message: "Invalid email or password."},
}

var profileErrorRules = []mappedHandlerError{
	{target: service.ErrProfileNameRequired, code: response.CodeBadRequest, message: "First name and last name are required."},
	{target: service.ErrCustomerNotFound, code: response.CodeNotFound, message: "User profile not found."},
}

var passwordErrorRules = []mappedHandlerError{
	{target: service.ErrPasswordFieldsRequired, code: response.CodeBadRequest, message: "Current and new password are required."},
	{target: service.ErrWeakPassword, code: response.CodeBadRequest},
	{target: service.ErrInvalidPassword, code: response.CodeUnauthorized, message: "Incorrect current password."},
	{target: service.ErrCustomerNotFound, code: response.CodeNotFound, message: "User not found."},
}

var addressErrorRules = []mappedHandlerError{
	{target: service.ErrAddressFieldsRequired, code: response.CodeBadRequest, message: "Recipient name, phone, address line 1, city, postal code, and country are required."},
	{target: service.ErrAddressNotFound, code: response.CodeNotFound, message: "Address not found or user mismatch."},
}

var productErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, message: "Product not found."},
	{target: service.ErrSearchTermRequired, code: response.CodeBadRequest, message: "Search term is required."},
}

func respondOrderPlaceError(c *gin.Context, err error) {
	respondWithMappedError(c, err, orderPlaceErrorRules, response.CodeInternal, "failed to place order, check server logs")
}
