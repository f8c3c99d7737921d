package service

import (
	"context"
	"strings"

	"github.com/metalworks/storefront/internal/models"
	"github.com/metalworks/storefront/internal/repository"

	"gorm.io/gorm"
)

// AddressService 收货地址服务
type AddressService struct {
	db          *gorm.DB
	addressRepo repository.AddressRepository
}

// NewAddressService 创建地址服务
func NewAddressService(db *gorm.DB, addressRepo repository.AddressRepository) *AddressService {
	return &AddressService{db: db, addressRepo: addressRepo}
}

// AddressInput 地址输入
type AddressInput struct {
	Nickname      string
	RecipientName string
	ContactPhone  string
	Line1         string
	Line2         string
	City          string
	Region        string
	PostalCode    string
	Country       string
	IsDefault     bool
}

// List 获取地址列表，默认地址在前
func (s *AddressService) List(ctx context.Context, customerID uint) ([]models.Address, error) {
	addresses, err := s.addressRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if addresses == nil {
		addresses = []models.Address{}
	}
	return addresses, nil
}

// Create 新增地址；设为默认时同一事务内取消其他默认
func (s *AddressService) Create(ctx context.Context, customerID uint, input AddressInput) (*models.Address, error) {
	if err := validateAddressInput(input); err != nil {
		return nil, err
	}
	address := buildAddress(customerID, input)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.addressRepo.WithTx(tx)
		if address.IsDefault {
			if err := repo.ClearDefault(ctx, customerID, 0); err != nil {
				return err
			}
		}
		return repo.Create(ctx, address)
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}

// Update 修改地址；设为默认时同一事务内取消其他默认
func (s *AddressService) Update(ctx context.Context, customerID, addressID uint, input AddressInput) (*models.Address, error) {
	if err := validateAddressInput(input); err != nil {
		return nil, err
	}
	address := buildAddress(customerID, input)
	address.ID = addressID
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.addressRepo.WithTx(tx)
		existing, err := repo.GetByIDAndCustomer(ctx, addressID, customerID)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrAddressNotFound
		}
		if address.IsDefault {
			if err := repo.ClearDefault(ctx, customerID, addressID); err != nil {
				return err
			}
		}
		if _, err := repo.Update(ctx, address); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.addressRepo.GetByIDAndCustomer(ctx, addressID, customerID)
}

// Delete 删除地址
func (s *AddressService) Delete(ctx context.Context, customerID, addressID uint) error {
	affected, err := s.addressRepo.Delete(ctx, addressID, customerID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAddressNotFound
	}
	return nil
}

// SetDefault 事务内先取消全部默认再设置目标地址，目标不存在时回滚
func (s *AddressService) SetDefault(ctx context.Context, customerID, addressID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.addressRepo.WithTx(tx)
		if err := repo.ClearDefault(ctx, customerID, 0); err != nil {
			return err
		}
		affected, err := repo.SetDefault(ctx, addressID, customerID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrAddressNotFound
		}
		return nil
	})
}

func validateAddressInput(input AddressInput) error {
	required := []string{
		input.RecipientName,
		input.ContactPhone,
		input.Line1,
		input.City,
		input.PostalCode,
		input.Country,
	}
	for _, field := range required {
		if strings.TrimSpace(field) == "" {
			return ErrAddressFieldsRequired
		}
	}
	return nil
}

func buildAddress(customerID uint, input AddressInput) *models.Address {
	return &models.Address{
		CustomerID:    customerID,
		Nickname:      optionalString(input.Nickname),
		RecipientName: strings.TrimSpace(input.RecipientName),
		ContactPhone:  strings.TrimSpace(input.ContactPhone),
		Line1:         strings.TrimSpace(input.Line1),
		Line2:         optionalString(input.Line2),
		City:          strings.TrimSpace(input.City),
		Region:        optionalString(input.Region),
		PostalCode:    strings.TrimSpace(input.PostalCode),
		Country:       strings.TrimSpace(input.Country),
		IsDefault:     input.IsDefault,
	}
}
