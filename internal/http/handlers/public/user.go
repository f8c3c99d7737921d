package public

import (
	"encoding/json"

	"github.com/metalworks/storefront/internal/http/response"
	"github.com/metalworks/storefront/internal/models"
	"github.com/metalworks/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// ProfileView 资料视图，空值输出为空字符串
type ProfileView struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	AvatarURL string `json:"avatarUrl"`
}

// UpdateProfileRequest 修改资料请求
type UpdateProfileRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

// UpdateAvatarRequest 头像请求，保留原始 JSON 以校验类型
type UpdateAvatarRequest struct {
	AvatarURL json.RawMessage `json:"avatarUrl"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func toProfileView(customer *models.Customer) ProfileView {
	view := ProfileView{
		FirstName: customer.FirstName,
		LastName:  customer.LastName,
		Email:     customer.Email,
	}
	if customer.Phone != nil {
		view.Phone = *customer.Phone
	}
	if customer.AvatarURL != nil {
		view.AvatarURL = *customer.AvatarURL
	}
	return view
}

// GetProfile 获取个人资料
func (h *Handler) GetProfile(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	customer, err := h.UserProfileService.GetProfile(c.Request.Context(), uid)
	if err != nil {
		respondWithMappedError(c, err, profileErrorRules, response.CodeInternal, "Failed to retrieve user profile.")
		return
	}
	response.OK(c, toProfileView(customer))
}

// UpdateProfile 修改个人资料
func (h *Handler) UpdateProfile(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, msgInvalidRequestBody, nil)
		return
	}
	customer, err := h.UserProfileService.UpdateProfile(c.Request.Context(), uid, service.UpdateProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		respondWithMappedError(c, err, profileErrorRules, response.CodeInternal, "Failed to update profile.")
		return
	}
	response.OK(c, gin.H{
		"message": "Profile updated successfully.",
		"user":    toProfileView(customer),
	})
}

// UpdateAvatar 修改头像
func (h *Handler) UpdateAvatar(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req UpdateAvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, msgInvalidRequestBody, nil)
		return
	}
	var avatarURL string
	if len(req.AvatarURL) == 0 || json.Unmarshal(req.AvatarURL, &avatarURL) != nil {
		respondError(c, response.CodeBadRequest, "Avatar URL must be a string.", nil)
		return
	}

	stored, err := h.UserProfileService.UpdateAvatar(c.Request.Context(), uid, avatarURL)
	if err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{target: service.ErrCustomerNotFound, code: response.CodeNotFound, message: "User not found."},
		}, response.CodeInternal, "Failed to update avatar.")
		return
	}
	response.OK(c, gin.H{
		"message":   "Avatar updated successfully.",
		"avatarUrl": stored,
	})
}

// ChangePassword 修改密码
func (h *Handler) ChangePassword(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, msgInvalidRequestBody, nil)
		return
	}
	if err := h.UserAuthService.ChangePassword(c.Request.Context(), uid, req.CurrentPassword, req.NewPassword); err != nil {
		respondWithMappedError(c, err, passwordErrorRules, response.CodeInternal, "Failed to change password.")
		return
	}
	response.Message(c, "Password updated successfully.")
}
