package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// 下单失败原因
const (
	OrderFailureValidation        = "validation"
	OrderFailureInsufficientStock = "insufficient_stock"
	OrderFailureStockUpdate       = "stock_update"
	OrderFailureInternal          = "internal"
)

// StoreMetrics 店铺业务与 HTTP 指标
type StoreMetrics struct {
	ordersPlaced  prometheus.Counter
	orderItems    prometheus.Counter
	ordersFailed  *prometheus.CounterVec
	orderDuration prometheus.Histogram
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

var (
	storeMetricsOnce sync.Once
	storeMetrics     *StoreMetrics
)

// Store 返回注册到默认 registry 的单例
func Store() *StoreMetrics {
	storeMetricsOnce.Do(func() {
		storeMetrics = newStoreMetrics(prometheus.DefaultRegisterer)
	})
	return storeMetrics
}

func newStoreMetrics(registerer prometheus.Registerer) *StoreMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	m := &StoreMetrics{
		ordersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "metalworks_orders_placed_total",
			Help: "Orders committed successfully.",
		}),
		orderItems: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "metalworks_order_items_total",
			Help: "Line items committed across all orders.",
		}),
		ordersFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "metalworks_orders_failed_total",
			Help: "Order placements rejected or rolled back, by reason.",
		}, []string{"reason"}),
		orderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "metalworks_order_placement_seconds",
			Help:    "Latency of the order placement transaction.",
			Buckets: prometheus.DefBuckets,
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "metalworks_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "metalworks_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	registerer.MustRegister(
		m.ordersPlaced,
		m.orderItems,
		m.ordersFailed,
		m.orderDuration,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

// RecordOrderPlaced 记录一次成功下单
func (m *StoreMetrics) RecordOrderPlaced(itemCount int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ordersPlaced.Inc()
	if itemCount > 0 {
		m.orderItems.Add(float64(itemCount))
	}
	m.orderDuration.Observe(elapsed.Seconds())
}

// RecordOrderFailed 记录一次失败下单
func (m *StoreMetrics) RecordOrderFailed(reason string) {
	if m == nil {
		return
	}
	if reason == "" {
		reason = OrderFailureInternal
	}
	m.ordersFailed.WithLabelValues(reason).Inc()
}

// ObserveHTTP 记录一次 HTTP 请求
func (m *StoreMetrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// GinMiddleware 按路由模板记录请求数与耗时
func GinMiddleware(m *StoreMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveHTTP(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
