package constants

// 订单审核状态常量
const (
	OrderApprovalPending = "Pending"
)

// 队列名称常量
const (
	QueueDefault = "default"
)

// 异步任务类型常量
const (
	TaskOrderPlaced = "order:placed"
)

// 缓存键前缀常量
const (
	CacheKeyProduct = "product"
)

// 订单历史单页上限，未传 pageSize 时返回全部
const (
	OrderHistoryMaxPageSize = 100
)

// 日期格式
const (
	DateLayout = "2006-01-02"
)
