package service

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"DelayWatch/config"
	"DelayWatch/internal/cache"
	"DelayWatch/internal/carrier"
	"DelayWatch/internal/repository"
	"DelayWatch/pkg/logger"
	"DelayWatch/pkg/metrics"
	"DelayWatch/storage/database"
)

// 承运商目录服务。目录给前端过滤下拉用，变化极慢，
// 固定键整目录缓存，半小时过期后顺延重建。

type CarrierService struct {
	warehouse WarehouseReader
	cache     CacheStore
	ttl       time.Duration
}

var (
	carrierService *CarrierService
	carrierOnce    sync.Once
)

// Carrier 返回承运商目录服务单例
func Carrier() *CarrierService {
	carrierOnce.Do(func() {
		carrierService = NewCarrierService(
			repository.NewWarehouseRepo(database.Warehouse()),
			cache.NewRedisStore(),
			time.Duration(config.Cfg.CarrierCacheTTLSeconds)*time.Second,
		)
	})
	return carrierService
}

func NewCarrierService(warehouse WarehouseReader, cacheStore CacheStore, ttl time.Duration) *CarrierService {
	return &CarrierService{
		warehouse: warehouse,
		cache:     cacheStore,
		ttl:       ttl,
	}
}

// ListCarriers 返回去重排序后的承运商名称目录。
// 数仓故障降级为空目录，不返回基础设施错误。
func (s *CarrierService) ListCarriers(ctx context.Context) ([]string, error) {
	if raw, ok := s.cache.Get(ctx, cache.CarrierDirectoryKey); ok {
		var names []string
		if err := json.Unmarshal([]byte(raw), &names); err == nil {
			metrics.RecordCacheHit(ctx, "carriers")
			return names, nil
		}
	}
	metrics.RecordCacheMiss(ctx, "carriers")

	payloads, err := s.warehouse.QueryDistinctCarrierPayloads(ctx)
	if err != nil {
		logger.Logger.Error("Carrier payload query failed, degrading to empty directory",
			zap.Error(err),
		)
		metrics.RecordDegradedFetch(ctx, "warehouse")
		return []string{}, nil
	}

	seen := make(map[string]bool, len(payloads))
	names := make([]string, 0, len(payloads))
	for i := range payloads {
		info := carrier.Extract(&payloads[i])
		// 解析不出名称的 payload 不进目录，缺省名对过滤没有意义
		if info.Name == carrier.DefaultName || seen[info.Name] {
			continue
		}
		seen[info.Name] = true
		names = append(names, info.Name)
	}
	sort.Strings(names)

	if data, err := json.Marshal(names); err == nil {
		s.cache.Set(ctx, cache.CarrierDirectoryKey, string(data), s.ttl)
	}

	return names, nil
}
