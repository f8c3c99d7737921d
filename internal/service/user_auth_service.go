package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/metalworks/storefront/internal/cache"
	"github.com/metalworks/storefront/internal/config"
	"github.com/metalworks/storefront/internal/logger"
	"github.com/metalworks/storefront/internal/models"
	"github.com/metalworks/storefront/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// UserAuthService 顾客认证服务
type UserAuthService struct {
	cfg          *config.Config
	customerRepo repository.CustomerRepository
}

// NewUserAuthService 创建顾客认证服务
func NewUserAuthService(cfg *config.Config, customerRepo repository.CustomerRepository) *UserAuthService {
	return &UserAuthService{
		cfg:          cfg,
		customerRepo: customerRepo,
	}
}

// UserJWTClaims 顾客 JWT 声明
type UserJWTClaims struct {
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// SignupInput 注册输入
type SignupInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// GenerateUserJWT 生成顾客 JWT Token
func (s *UserAuthService) GenerateUserJWT(customer *models.Customer) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(time.Duration(resolveUserJWTExpireHours(s.cfg.UserJWT)) * time.Hour)
	claims := UserJWTClaims{
		UserID:       customer.ID,
		Email:        customer.Email,
		TokenVersion: customer.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.UserJWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseUserJWT 解析顾客 JWT Token
func (s *UserAuthService) ParseUserJWT(tokenString string) (*UserJWTClaims, error) {
	return ParseUserJWT(s.cfg.UserJWT.SecretKey, tokenString)
}

// ParseUserJWT 使用指定密钥解析顾客 JWT Token
func ParseUserJWT(secret, tokenString string) (*UserJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &UserJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Signup 注册顾客，邮箱唯一性以数据库约束为准
func (s *UserAuthService) Signup(ctx context.Context, input SignupInput) (*models.Customer, error) {
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	if firstName == "" || lastName == "" || strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return nil, ErrSignupFieldsRequired
	}
	normalized, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, input.Password); err != nil {
		return nil, err
	}

	exist, err := s.customerRepo.GetByEmail(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	customer := &models.Customer{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        normalized,
		PasswordHash: string(hashedPassword),
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		if repository.IsDuplicateKeyErr(err) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	logger.Infow("customer_signup", "customer_id", customer.ID)
	return customer, nil
}

// Login 顾客登录，用户不存在与密码错误返回同一错误
func (s *UserAuthService) Login(ctx context.Context, email, password string) (*models.Customer, string, time.Time, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, "", time.Time{}, ErrLoginFieldsRequired
	}
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	customer, err := s.customerRepo.GetByEmail(ctx, normalized)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if customer == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(password)); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.GenerateUserJWT(customer)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	customer.LastLoginAt = &now
	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetCustomerAuthState(ctx, cache.BuildCustomerAuthState(customer))

	return customer, token, expiresAt, nil
}

// ChangePassword 校验旧密码后修改密码，并使旧 Token 失效
func (s *UserAuthService) ChangePassword(ctx context.Context, customerID uint, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return ErrPasswordFieldsRequired
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, newPassword); err != nil {
		return err
	}

	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return err
	}
	if customer == nil {
		return ErrCustomerNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrInvalidPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	now := time.Now()
	customer.PasswordHash = string(hashedPassword)
	customer.TokenVersion++
	customer.TokenInvalidBefore = &now
	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return err
	}
	_ = cache.SetCustomerAuthState(ctx, cache.BuildCustomerAuthState(customer))
	logger.Infow("customer_password_changed", "customer_id", customer.ID, "token_version", customer.TokenVersion)
	return nil
}

// GetCustomerByID 获取顾客
func (s *UserAuthService) GetCustomerByID(ctx context.Context, id uint) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}
	return customer, nil
}

func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", ErrInvalidEmail
	}
	parsed, err := mail.ParseAddress(normalized)
	if err != nil || parsed.Address != normalized {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}

func resolveUserJWTExpireHours(cfg config.JWTConfig) int {
	if cfg.ExpireHours > 0 {
		return cfg.ExpireHours
	}
	return 24
}
