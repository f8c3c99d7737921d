package router

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/metalworks/storefront/internal/cache"
	"github.com/metalworks/storefront/internal/config"
	publichandlers "github.com/metalworks/storefront/internal/http/handlers/public"
	"github.com/metalworks/storefront/internal/http/response"
	"github.com/metalworks/storefront/internal/logger"
	"github.com/metalworks/storefront/internal/metrics"
	"github.com/metalworks/storefront/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options 路由可选依赖，测试中用于替换限流计数器
type Options struct {
	LoginLimiter RateLimitCounter
}

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	return SetupRouterWithOptions(cfg, c, Options{
		LoginLimiter: NewRedisRateLimitCounter(cache.Client()),
	})
}

// SetupRouterWithOptions 初始化路由（可注入依赖）
func SetupRouterWithOptions(cfg *config.Config, c *provider.Container, opts Options) *gin.Engine {
	log := logger.Z()
	r := gin.New()

	publicHandler := publichandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "mw"
	}
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		Message:       "Too many login attempts, please retry in %d seconds.",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))
	if c.Metrics != nil {
		r.Use(metrics.GinMiddleware(c.Metrics))
	}

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/signup", publicHandler.Signup)
			auth.POST("/login", RateLimitMiddleware(opts.LoginLimiter, loginRule, KeyByIPAndJSONField("userEmail")), publicHandler.Login)
		}

		products := api.Group("/products")
		{
			products.GET("", publicHandler.ListProducts)
			products.GET("/search", publicHandler.SearchProducts)
			products.GET("/:id", publicHandler.GetProduct)
		}

		// 顾客接口（需鉴权）
		authed := api.Group("")
		authed.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.CustomerRepo))
		{
			authed.GET("/cart", publicHandler.GetCart)
			authed.DELETE("/cart", publicHandler.ClearCart)
			authed.POST("/cart/items", publicHandler.AddCartItem)
			authed.PUT("/cart/items/:cartItemId", publicHandler.UpdateCartItem)
			authed.DELETE("/cart/items/:cartItemId", publicHandler.DeleteCartItem)

			authed.POST("/orders", publicHandler.PlaceOrder)
			authed.GET("/orders", publicHandler.ListOrders)

			authed.GET("/user/profile", publicHandler.GetProfile)
			authed.PUT("/user/profile", publicHandler.UpdateProfile)
			authed.PUT("/user/avatar", publicHandler.UpdateAvatar)
			authed.PUT("/user/password", publicHandler.ChangePassword)
			authed.GET("/user/addresses", publicHandler.ListAddresses)
			authed.POST("/user/addresses", publicHandler.CreateAddress)
			authed.PUT("/user/addresses/:addressId", publicHandler.UpdateAddress)
			authed.DELETE("/user/addresses/:addressId", publicHandler.DeleteAddress)
			authed.PUT("/user/addresses/:addressId/default", publicHandler.SetDefaultAddress)
		}
	}

	// 健康检查
	r.GET("/health", func(ctx *gin.Context) {
		reqCtx := ctx.Request.Context()
		if err := pingDB(reqCtx, c); err != nil {
			response.Fail(ctx, response.NewAppError(response.CodeUnavailable, "database unavailable", err))
			return
		}
		if err := cache.Ping(reqCtx); err != nil {
			response.Fail(ctx, response.NewAppError(response.CodeUnavailable, "cache unavailable", err))
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.Metrics.Enabled {
		path := strings.TrimSpace(cfg.Metrics.Path)
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(promhttp.Handler()))
	}

	return r
}

func pingDB(ctx context.Context, c *provider.Container) error {
	if c == nil || c.DB == nil {
		return fmt.Errorf("db not initialized")
	}
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(pingCtx)
}
