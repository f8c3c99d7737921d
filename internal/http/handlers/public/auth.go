package public

import (
	"time"

	"github.com/metalworks/storefront/internal/http/response"
	"github.com/metalworks/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// SignupRequest 注册请求
type SignupRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	UserEmail string `json:"userEmail"`
	Password  string `json:"password"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	UserEmail string `json:"userEmail"`
	Password  string `json:"password"`
}

// LoginUser 登录返回的顾客信息
type LoginUser struct {
	CustomerID uint   `json:"customerId"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
}

// Signup 顾客注册
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, msgInvalidRequestBody, nil)
		return
	}

	customer, err := h.UserAuthService.Signup(c.Request.Context(), service.SignupInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.UserEmail,
		Password:  req.Password,
	})
	if err != nil {
		respondWithMappedError(c, err, signupErrorRules, response.CodeInternal, "An error occurred during registration.")
		return
	}

	response.Created(c, gin.H{
		"message": "User registered successfully!",
		"userId":  customer.ID,
	})
}

// Login 顾客登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, msgInvalidRequestBody, nil)
		return
	}

	customer, token, expiresAt, err := h.UserAuthService.Login(c.Request.Context(), req.UserEmail, req.Password)
	if err != nil {
		respondWithMappedError(c, err, loginErrorRules, response.CodeInternal, "An error occurred during login. Please try again.")
		return
	}

	phone := ""
	if customer.Phone != nil {
		phone = *customer.Phone
	}
	response.OK(c, gin.H{
		"message": "Login successful!",
		"user": LoginUser{
			CustomerID: customer.ID,
			FirstName:  customer.FirstName,
			LastName:   customer.LastName,
			Email:      customer.Email,
			Phone:      phone,
		},
		"token":     token,
		"expiresAt": expiresAt.UTC().Format(time.RFC3339),
	})
}
