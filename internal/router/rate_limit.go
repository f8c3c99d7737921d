package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/metalworks/storefront/internal/http/response"
	"github.com/metalworks/storefront/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// 读取限流字段时最多缓冲的请求体字节数
const rateLimitBodyPeek = 64 << 10

// RateLimitKeyFunc 生成限流 key 的函数
type RateLimitKeyFunc func(*gin.Context) string

// RateLimitRule 限流规则
type RateLimitRule struct {
	Prefix        string
	WindowSeconds int
	MaxRequests   int
	BlockSeconds  int // 超限后的封禁时长，0 表示只按窗口计数
	Message       string
}

func (r RateLimitRule) active() bool {
	return r.WindowSeconds > 0 && r.MaxRequests > 0
}

func (r RateLimitRule) key(raw string) string {
	if r.Prefix == "" {
		return raw
	}
	return r.Prefix + ":" + raw
}

// retryAfter 返回客户端应等待的秒数，至少 1 秒
func (r RateLimitRule) retryAfter(hit RateLimitHit) int {
	switch {
	case hit.TTLSeconds > 0:
		return int(hit.TTLSeconds)
	case r.WindowSeconds > 0:
		return r.WindowSeconds
	default:
		return 1
	}
}

func (r RateLimitRule) rejection(wait int) string {
	if msg := strings.TrimSpace(r.Message); msg != "" {
		return fmt.Sprintf(msg, wait)
	}
	return fmt.Sprintf("Too many requests, please retry in %d seconds.", wait)
}

// RateLimitHit 一次计数的结果
type RateLimitHit struct {
	Count      int64
	TTLSeconds int64
	Blocked    bool
}

func (h RateLimitHit) exceeds(rule RateLimitRule) bool {
	return h.Blocked || h.Count > int64(rule.MaxRequests)
}

// RateLimitCounter 限流计数器
type RateLimitCounter interface {
	Hit(ctx context.Context, key string, rule RateLimitRule) (RateLimitHit, error)
}

// KEYS[1] 计数 key，KEYS[2] 封禁 key；ARGV: 窗口秒数、封禁秒数、最大次数
// 返回 {次数, 剩余秒数}，处于封禁期时次数为 -1
var rateLimitScript = redis.NewScript(`
local blocked = redis.call("TTL", KEYS[2])
if blocked > 0 then
	return {-1, blocked}
end
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("TTL", KEYS[1])
if tonumber(ARGV[2]) > 0 and current > tonumber(ARGV[3]) then
	redis.call("SET", KEYS[2], "1", "EX", ARGV[2])
	ttl = tonumber(ARGV[2])
end
return {current, ttl}
`)

type redisRateLimitCounter struct {
	client redis.Scripter
}

// NewRedisRateLimitCounter 基于 Redis 的计数器，client 为空时返回 nil（不限流）
func NewRedisRateLimitCounter(client *redis.Client) RateLimitCounter {
	if client == nil {
		return nil
	}
	return &redisRateLimitCounter{client: client}
}

func (r *redisRateLimitCounter) Hit(ctx context.Context, key string, rule RateLimitRule) (RateLimitHit, error) {
	keys := []string{key, key + ":block"}
	values, err := rateLimitScript.Run(ctx, r.client, keys, rule.WindowSeconds, rule.BlockSeconds, rule.MaxRequests).Int64Slice()
	if err != nil {
		return RateLimitHit{}, err
	}
	if len(values) != 2 {
		return RateLimitHit{}, fmt.Errorf("rate limit script returned %d values", len(values))
	}
	return RateLimitHit{Count: values[0], TTLSeconds: values[1], Blocked: values[0] < 0}, nil
}

// RateLimitMiddleware 频率限制中间件，计数器不可用时拒绝请求
func RateLimitMiddleware(counter RateLimitCounter, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	if keyFunc == nil {
		keyFunc = KeyByIP
	}
	return func(c *gin.Context) {
		if counter == nil || !rule.active() {
			c.Next()
			return
		}

		raw := strings.TrimSpace(keyFunc(c))
		if raw == "" {
			raw = c.ClientIP()
		}
		key := rule.key(raw)

		hit, err := counter.Hit(c.Request.Context(), key, rule)
		if err != nil {
			logger.Warnw("rate_limit_unavailable", "key", key, "error", err)
			response.AbortWithError(c, response.CodeUnavailable, "Service temporarily unavailable, please retry later.")
			return
		}
		if hit.exceeds(rule) {
			wait := rule.retryAfter(hit)
			logger.Infow("rate_limit_rejected", "key", key, "count", hit.Count, "retry_after", wait)
			c.Header("Retry-After", strconv.Itoa(wait))
			response.AbortWithError(c, response.CodeTooManyRequests, rule.rejection(wait))
			return
		}
		c.Next()
	}
}

// KeyByIP 使用 IP 作为限流 key
func KeyByIP(c *gin.Context) string {
	return c.ClientIP()
}

// KeyByIPAndJSONField 使用 JSON 字段（小写）+ IP 作为限流 key，字段缺失时退化为 IP
func KeyByIPAndJSONField(field string) RateLimitKeyFunc {
	return func(c *gin.Context) string {
		value := strings.ToLower(peekJSONString(c, field))
		if value == "" {
			return c.ClientIP()
		}
		return value + "|" + c.ClientIP()
	}
}

// peekJSONString 读取请求体中的字符串字段，读取后恢复请求体供后续绑定
func peekJSONString(c *gin.Context, field string) string {
	if c.Request == nil || c.Request.Body == nil {
		return ""
	}
	original := c.Request.Body
	head, err := io.ReadAll(io.LimitReader(original, rateLimitBodyPeek))
	c.Request.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(head), original), original}
	if err != nil || len(head) == 0 {
		return ""
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(head, &payload); err != nil {
		return ""
	}
	var value string
	if err := json.Unmarshal(payload[field], &value); err != nil {
		return ""
	}
	return strings.TrimSpace(value)
}
