package cache

import (
	"context"
	"time"

	ri "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"DelayWatch/pkg/logger"
	"DelayWatch/pkg/metrics"
	"DelayWatch/storage/redis"
)

// 告警列表缓存的 Redis 适配。缓存不可用一律按未命中降级，
// 写入尽力而为，失败只记日志，绝不把错误抛给读路径。

const (
	// AlertNamespace 告警列表缓存键前缀
	AlertNamespace = "alerts"
	// CarrierDirectoryKey 承运商目录固定键（无参数）
	CarrierDirectoryKey = "carriers:directory"
)

// AlertKey 拼出告警列表的逻辑缓存键
func AlertKey(params map[string]string) string {
	return AlertNamespace + ":" + DeriveKey(params)
}

// RedisStore 进程启动时构造一次、注入 reconciler 的缓存实例
type RedisStore struct{}

func NewRedisStore() *RedisStore {
	return &RedisStore{}
}

// Get 读缓存，任何错误降级为未命中
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool) {
	data, err := redis.Client().Get(ctx, redis.Key(key)).Result()
	if err != nil {
		if err != ri.Nil {
			logger.Logger.Warn("Cache get degraded to miss",
				zap.String("key", key),
				zap.Error(err),
			)
		}
		return "", false
	}

	return data, true
}

// Set 写缓存，整条完整写入或者干脆不写，失败只记日志
func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	if err := redis.Client().Set(ctx, redis.Key(key), value, ttl).Err(); err != nil {
		logger.Logger.Warn("Cache set failed, entry dropped",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

// Invalidate 按前缀清空缓存命名空间。工单有写入时调用，
// 让操作员不用等 TTL 到期就能看到变更。尽力而为。
func (s *RedisStore) Invalidate(ctx context.Context, prefix string) {
	pattern := redis.Key(prefix) + ":*"
	client := redis.Client()

	var cursor uint64
	var removed int
	for {
		keys, next, err := client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			logger.Logger.Warn("Cache invalidation scan failed",
				zap.String("pattern", pattern),
				zap.Error(err),
			)
			return
		}

		if len(keys) > 0 {
			if err := client.Del(ctx, keys...).Err(); err != nil {
				logger.Logger.Warn("Cache invalidation delete failed",
					zap.String("pattern", pattern),
					zap.Error(err),
				)
				return
			}
			removed += len(keys)
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	if removed > 0 {
		logger.Logger.Info("Cache namespace invalidated",
			zap.String("prefix", prefix),
			zap.Int("keys_removed", removed),
		)
		metrics.RecordCacheInvalidation(ctx, prefix, removed)
	}
}
