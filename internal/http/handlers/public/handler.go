package public

import (
	"github.com/metalworks/storefront/internal/provider"
	"github.com/metalworks/storefront/internal/service"
)

// Handler 店面接口处理器，只持有路由用到的服务
type Handler struct {
	UserAuthService    *service.UserAuthService
	UserProfileService *service.UserProfileService
	AddressService     *service.AddressService
	ProductService     *service.ProductService
	CartService        *service.CartService
	OrderService       *service.OrderService
}

// New 从容器取出服务创建处理器
func New(c *provider.Container) *Handler {
	return &Handler{
		UserAuthService:    c.UserAuthService,
		UserProfileService: c.UserProfileService,
		AddressService:     c.AddressService,
		ProductService:     c.ProductService,
		CartService:        c.CartService,
		OrderService:       c.OrderService,
	}
}
