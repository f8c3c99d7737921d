package router

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/metalworks/storefront/internal/cache"
	"github.com/metalworks/storefront/internal/config"
	"github.com/metalworks/storefront/internal/http/response"
	"github.com/metalworks/storefront/internal/repository"
	"github.com/metalworks/storefront/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDKey = "request_id"
const requestIDHeader = "X-Request-ID"

const (
	msgAuthHeaderMissing = "Authentication token is required."
	msgAuthHeaderInvalid = "Authorization header must be Bearer <token>."
	msgTokenInvalid      = "Invalid or expired token."
	msgTokenRevoked      = "Token has been revoked, please log in again."
	msgJWTSecretMissing  = "Authentication is not configured."
)

// corsPolicy 启动时预先计算好的跨域响应头
type corsPolicy struct {
	origins       []string
	wildcard      bool
	credentials   bool
	methods       string
	headers       string
	maxAgeSeconds string
}

func newCORSPolicy(cfg config.CORSConfig) corsPolicy {
	p := corsPolicy{
		credentials: cfg.AllowCredentials,
		methods:     strings.Join(orDefault(cfg.AllowedMethods, defaultCORSMethods), ", "),
		headers:     strings.Join(orDefault(cfg.AllowedHeaders, defaultCORSHeaders), ", "),
	}
	for _, origin := range orDefault(cfg.AllowedOrigins, []string{"*"}) {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		switch origin {
		case "":
		case "*":
			p.wildcard = true
		default:
			p.origins = append(p.origins, origin)
		}
	}
	if cfg.MaxAge > 0 {
		p.maxAgeSeconds = strconv.Itoa(cfg.MaxAge)
	}
	return p
}

var (
	defaultCORSMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	defaultCORSHeaders = []string{"Content-Type", "Authorization", "Accept", requestIDHeader}
)

func orDefault(values, fallback []string) []string {
	if len(values) == 0 {
		return fallback
	}
	return values
}

// allowOrigin 返回 Access-Control-Allow-Origin 的取值，空串表示不放行。
// 携带凭证时浏览器不接受 "*"，只能回显具体来源。
func (p corsPolicy) allowOrigin(origin string) string {
	if p.wildcard {
		if p.credentials && origin != "" {
			return origin
		}
		return "*"
	}
	for _, allowed := range p.origins {
		if origin != "" && strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// CORSMiddleware 跨域中间件，预检请求直接返回 204
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	policy := newCORSPolicy(cfg)
	return func(c *gin.Context) {
		h := c.Writer.Header()
		if allowed := policy.allowOrigin(c.GetHeader("Origin")); allowed != "" {
			h.Set("Access-Control-Allow-Origin", allowed)
			if allowed != "*" {
				h.Add("Vary", "Origin")
			}
			if policy.credentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
		}
		h.Set("Access-Control-Expose-Headers", requestIDHeader+", Retry-After, X-Total-Count")

		if c.Request.Method != http.MethodOptions {
			c.Next()
			return
		}
		h.Set("Access-Control-Allow-Methods", policy.methods)
		h.Set("Access-Control-Allow-Headers", policy.headers)
		if policy.maxAgeSeconds != "" {
			h.Set("Access-Control-Max-Age", policy.maxAgeSeconds)
		}
		c.AbortWithStatus(http.StatusNoContent)
	}
}

const maxRequestIDLength = 64

// acceptRequestID 只接受长度受限的可见 ASCII，避免把任意内容写进日志和响应头
func acceptRequestID(raw string) (string, bool) {
	id := strings.TrimSpace(raw)
	if id == "" || len(id) > maxRequestIDLength {
		return "", false
	}
	for i := 0; i < len(id); i++ {
		if id[i] <= ' ' || id[i] > '~' {
			return "", false
		}
	}
	return id, true
}

// RequestIDMiddleware 沿用上游传入的合法请求 ID，否则生成 UUID
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID, ok := acceptRequestID(c.GetHeader(requestIDHeader))
		if !ok {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware 访问日志：5xx 记 error，4xx 记 warn，其余 info；
// 处理过程中挂到上下文的内部错误一并输出
func LoggerMiddleware(log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.L()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		fields := []zap.Field{
			zap.String("request_id", response.RequestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if customerID, ok := c.Get("user_id"); ok {
			fields = append(fields, zap.Any("customer_id", customerID))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.Strings("errors", c.Errors.Errors()))
		}

		switch {
		case status >= http.StatusInternalServerError:
			log.Error("request_failed", fields...)
		case status >= http.StatusBadRequest || len(c.Errors) > 0:
			log.Warn("request_rejected", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}

// UserJWTAuthMiddleware 顾客 JWT 鉴权中间件，校验 token_version 以支持改密后失效
func UserJWTAuthMiddleware(secretKey string, customerRepo repository.CustomerRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secretKey == "" {
			response.AbortWithError(c, response.CodeUnauthorized, msgJWTSecretMissing)
			return
		}
		if customerRepo == nil {
			response.AbortWithError(c, response.CodeUnauthorized, msgTokenInvalid)
			return
		}
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.AbortWithError(c, response.CodeUnauthorized, msgAuthHeaderMissing)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") || strings.TrimSpace(parts[1]) == "" {
			response.AbortWithError(c, response.CodeUnauthorized, msgAuthHeaderInvalid)
			return
		}

		claims, err := service.ParseUserJWT(secretKey, strings.TrimSpace(parts[1]))
		if err != nil {
			response.AbortWithError(c, response.CodeUnauthorized, msgTokenInvalid)
			return
		}

		if cached, hit, cacheErr := cache.GetCustomerAuthState(c.Request.Context(), claims.UserID); cacheErr == nil && hit && cached != nil {
			if claims.TokenVersion != cached.TokenVersion || !isIssuedAfterInvalidBeforeUnix(claims.IssuedAt, cached.TokenInvalidBefore) {
				response.AbortWithError(c, response.CodeUnauthorized, msgTokenRevoked)
				return
			}
			c.Set("user_id", claims.UserID)
			c.Set("user_email", claims.Email)
			c.Next()
			return
		}

		customer, err := customerRepo.GetByID(c.Request.Context(), claims.UserID)
		if err != nil || customer == nil {
			response.AbortWithError(c, response.CodeUnauthorized, msgTokenInvalid)
			return
		}
		if claims.TokenVersion != customer.TokenVersion || !isIssuedAfterInvalidBefore(claims.IssuedAt, customer.TokenInvalidBefore) {
			response.AbortWithError(c, response.CodeUnauthorized, msgTokenRevoked)
			return
		}
		_ = cache.SetCustomerAuthState(c.Request.Context(), cache.BuildCustomerAuthState(customer))

		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)
		c.Next()
	}
}

func isIssuedAfterInvalidBefore(issuedAt *jwt.NumericDate, invalidBefore *time.Time) bool {
	if invalidBefore == nil {
		return true
	}
	if issuedAt == nil {
		return false
	}
	return issuedAt.Time.Unix() >= invalidBefore.Unix()
}

func isIssuedAfterInvalidBeforeUnix(issuedAt *jwt.NumericDate, invalidBeforeUnix int64) bool {
	if invalidBeforeUnix <= 0 {
		return true
	}
	if issuedAt == nil {
		return false
	}
	return issuedAt.Time.Unix() >= invalidBeforeUnix
}
