package provider

import (
	"github.com/metalworks/storefront/internal/cache"
	"github.com/metalworks/storefront/internal/config"
	"github.com/metalworks/storefront/internal/logger"
	"github.com/metalworks/storefront/internal/metrics"
	"github.com/metalworks/storefront/internal/queue"
	"github.com/metalworks/storefront/internal/repository"
	"github.com/metalworks/storefront/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	DB          *gorm.DB
	QueueClient *queue.Client
	Metrics     *metrics.StoreMetrics

	// Repositories
	CustomerRepo repository.CustomerRepository
	AddressRepo  repository.AddressRepository
	ProductRepo  repository.ProductRepository
	CartRepo     repository.CartRepository
	OrderRepo    repository.OrderRepository
	PaymentRepo  repository.PaymentRepository

	// Services
	UserAuthService    *service.UserAuthService
	UserProfileService *service.UserProfileService
	AddressService     *service.AddressService
	ProductService     *service.ProductService
	CartService        *service.CartService
	OrderService       *service.OrderService
}

// NewContainer 初始化容器，数据库句柄由调用方打开后注入
func NewContainer(cfg *config.Config, db *gorm.DB) *Container {
	// 初始化缓存
	if err := cache.Connect(&cfg.Redis); err != nil {
		logger.Warnw("provider_connect_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	var storeMetrics *metrics.StoreMetrics
	if cfg.Metrics.Enabled {
		storeMetrics = metrics.Store()
	}

	c := &Container{
		Config:      cfg,
		DB:          db,
		QueueClient: queueClient,
		Metrics:     storeMetrics,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := c.DB
	c.CustomerRepo = repository.NewCustomerRepository(db)
	c.AddressRepo = repository.NewAddressRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.PaymentRepo = repository.NewPaymentRepository(db)
}

func (c *Container) initServices() {
	c.UserAuthService = service.NewUserAuthService(c.Config, c.CustomerRepo)
	c.UserProfileService = service.NewUserProfileService(c.CustomerRepo)
	c.AddressService = service.NewAddressService(c.DB, c.AddressRepo)
	c.ProductService = service.NewProductService(c.ProductRepo, c.Config.Catalog)
	c.CartService = service.NewCartService(c.DB, c.CartRepo, c.ProductRepo)
	c.OrderService = service.NewOrderService(c.DB, c.OrderRepo, c.ProductRepo, c.PaymentRepo, c.CartRepo, c.QueueClient, c.Metrics)
}

// Close 释放外部连接
func (c *Container) Close() {
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Warnw("provider_close_queue_client_failed", "error", err)
		}
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}
