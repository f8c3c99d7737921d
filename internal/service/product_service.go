package service

import (
	"context"
	"strings"
	"time"

	"github.com/metalworks/storefront/internal/cache"
	"github.com/metalworks/storefront/internal/config"
	"github.com/metalworks/storefront/internal/logger"
	"github.com/metalworks/storefront/internal/models"
	"github.com/metalworks/storefront/internal/repository"
)

// productDetailCache 商品详情缓存，缓存值不含库存
type productDetailCache interface {
	GetProduct(ctx context.Context, productID uint) (*models.Product, bool, error)
	SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error
}

type redisProductCache struct{}

func (redisProductCache) GetProduct(ctx context.Context, productID uint) (*models.Product, bool, error) {
	return cache.GetProduct(ctx, productID)
}

func (redisProductCache) SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error {
	return cache.SetProduct(ctx, product, ttl)
}

// ProductService 商品目录服务
type ProductService struct {
	repo   repository.ProductRepository
	cfg    config.CatalogConfig
	detail productDetailCache
}

// NewProductService 创建商品服务
func NewProductService(repo repository.ProductRepository, cfg config.CatalogConfig) *ProductService {
	return &ProductService{repo: repo, cfg: cfg, detail: redisProductCache{}}
}

// SearchPagination 搜索分页信息
type SearchPagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// SearchResult 搜索结果
type SearchResult struct {
	Results    []models.Product `json:"results"`
	Pagination SearchPagination `json:"pagination"`
}

// List 获取全部商品
func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	return s.repo.List(ctx)
}

// Get 获取单个商品，详情优先读缓存，库存始终读数据库
func (s *ProductService) Get(ctx context.Context, id uint) (*models.Product, error) {
	if id == 0 {
		return nil, ErrProductNotFound
	}
	if cached, hit, err := s.detail.GetProduct(ctx, id); err != nil {
		logger.Warnw("product_cache_get_failed", "product_id", id, "error", err)
	} else if hit {
		stock, found, err := s.repo.GetStock(ctx, id)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, ErrProductNotFound
		}
		cached.Stock = stock
		return cached, nil
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if err := s.detail.SetProduct(ctx, product, s.cacheTTL()); err != nil {
		logger.Warnw("product_cache_set_failed", "product_id", id, "error", err)
	}
	return product, nil
}

// Search 名称、描述、品类、材质的模糊搜索
func (s *ProductService) Search(ctx context.Context, term string, page, limit int) (*SearchResult, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, ErrSearchTermRequired
	}
	page, limit = s.normalizePaging(page, limit)

	products, total, err := s.repo.Search(ctx, repository.ProductSearchFilter{
		Term:     term,
		Page:     page,
		PageSize: limit,
	})
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &SearchResult{
		Results: products,
		Pagination: SearchPagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

func (s *ProductService) normalizePaging(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	defaultLimit := s.cfg.SearchPageSize
	if defaultLimit <= 0 {
		defaultLimit = 100
	}
	maxLimit := s.cfg.SearchMaxPageSize
	if maxLimit <= 0 {
		maxLimit = 100
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

func (s *ProductService) cacheTTL() time.Duration {
	if s.cfg.ProductCacheTTLSec > 0 {
		return time.Duration(s.cfg.ProductCacheTTLSec) * time.Second
	}
	return time.Minute
}
