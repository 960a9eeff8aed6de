package service

import (
	"context"
	"time"

	"DelayWatch/internal/model"
	"DelayWatch/internal/repository"
)

// 服务层对协作方的依赖收口成小接口，便于在测试里替换。
// 生产路径的实现分别在 internal/repository 与 internal/cache。

// WarehouseReader 数仓只读访问
type WarehouseReader interface {
	QueryDelayedOrders(ctx context.Context, f repository.DelayedOrderFilters) ([]model.DelayedOrder, error)
	QueryDistinctCarrierPayloads(ctx context.Context) ([]string, error)
}

// TreatmentStore 工单事务库访问
type TreatmentStore interface {
	QueryActiveOverlaysFor(ctx context.Context, orderIDs, orderNumbers []string) ([]model.TreatmentOverlay, error)
	CreateTreatment(ctx context.Context, t *model.Treatment, first *model.TreatmentHistory) error
	AppendHistory(ctx context.Context, h *model.TreatmentHistory) error
	GetTreatment(ctx context.Context, id int64) (*model.Treatment, *model.TreatmentHistory, error)
	FindByOrder(ctx context.Context, orderID, orderNumber string) (*model.Treatment, error)
}

// CacheStore 结果缓存。读写都不返回错误，实现内部自行降级。
type CacheStore interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
	Invalidate(ctx context.Context, prefix string)
}

// EventPublisher 领域事件出口
type EventPublisher interface {
	PublishTreatmentAutoOpen(orderID, orderNumber string, daysDelayed int) error
}
