package service

import (
	"context"
	"strings"

	"github.com/metalworks/storefront/internal/models"
	"github.com/metalworks/storefront/internal/repository"
)

// UserProfileService 顾客资料服务
type UserProfileService struct {
	customerRepo repository.CustomerRepository
}

// NewUserProfileService 创建顾客资料服务
func NewUserProfileService(customerRepo repository.CustomerRepository) *UserProfileService {
	return &UserProfileService{customerRepo: customerRepo}
}

// UpdateProfileInput 资料修改输入
type UpdateProfileInput struct {
	FirstName string
	LastName  string
	Phone     string
}

// GetProfile 获取资料
func (s *UserProfileService) GetProfile(ctx context.Context, customerID uint) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}
	return customer, nil
}

// UpdateProfile 修改姓名与电话，空电话存为 NULL
func (s *UserProfileService) UpdateProfile(ctx context.Context, customerID uint, input UpdateProfileInput) (*models.Customer, error) {
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	if firstName == "" || lastName == "" {
		return nil, ErrProfileNameRequired
	}
	customer, err := s.GetProfile(ctx, customerID)
	if err != nil {
		return nil, err
	}
	customer.FirstName = firstName
	customer.LastName = lastName
	customer.Phone = optionalString(input.Phone)
	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// UpdateAvatar 修改头像地址，空字符串存为 NULL
func (s *UserProfileService) UpdateAvatar(ctx context.Context, customerID uint, avatarURL string) (*string, error) {
	customer, err := s.GetProfile(ctx, customerID)
	if err != nil {
		return nil, err
	}
	customer.AvatarURL = optionalString(avatarURL)
	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer.AvatarURL, nil
}
