package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// 合并流水线指标：缓存命中率、合并耗时、降级次数。
// 未调用 InitMetrics 时各 Record 函数是空操作，纯算法测试不受影响。

var (
	alertCacheHits        metric.Int64Counter
	alertCacheMisses      metric.Int64Counter
	alertCacheInvalidated metric.Int64Counter
	reconcileDuration     metric.Float64Histogram
	degradedFetchTotal    metric.Int64Counter

	meter = otel.Meter("delaywatch")
)

// InitMetrics 初始化合并流水线指标
func InitMetrics() error {
	var err error

	alertCacheHits, err = meter.Int64Counter(
		"alert.cache.hits.total",
		metric.WithDescription("Total number of alert cache hits"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return err
	}

	alertCacheMisses, err = meter.Int64Counter(
		"alert.cache.misses.total",
		metric.WithDescription("Total number of alert cache misses"),
		metric.WithUnit("{miss}"),
	)
	if err != nil {
		return err
	}

	alertCacheInvalidated, err = meter.Int64Counter(
		"alert.cache.invalidated.total",
		metric.WithDescription("Total number of cache keys removed by invalidation"),
		metric.WithUnit("{key}"),
	)
	if err != nil {
		return err
	}

	reconcileDuration, err = meter.Float64Histogram(
		"alert.reconcile.duration",
		metric.WithDescription("Time spent reconciling the alert list on cache miss"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0),
	)
	if err != nil {
		return err
	}

	degradedFetchTotal, err = meter.Int64Counter(
		"alert.degraded_fetch.total",
		metric.WithDescription("Total number of collaborator fetches degraded to empty/overlay-less"),
		metric.WithUnit("{fetch}"),
	)
	if err != nil {
		return err
	}

	return nil
}

// RecordCacheHit 记录缓存命中
func RecordCacheHit(ctx context.Context, namespace string) {
	if alertCacheHits == nil {
		return
	}
	alertCacheHits.Add(ctx, 1, metric.WithAttributes(
		attribute.String("namespace", namespace),
	))
}

// RecordCacheMiss 记录缓存未命中（含降级未命中）
func RecordCacheMiss(ctx context.Context, namespace string) {
	if alertCacheMisses == nil {
		return
	}
	alertCacheMisses.Add(ctx, 1, metric.WithAttributes(
		attribute.String("namespace", namespace),
	))
}

// RecordCacheInvalidation 记录失效清理掉的键数
func RecordCacheInvalidation(ctx context.Context, namespace string, removed int) {
	if alertCacheInvalidated == nil {
		return
	}
	alertCacheInvalidated.Add(ctx, int64(removed), metric.WithAttributes(
		attribute.String("namespace", namespace),
	))
}

// RecordReconcileDuration 记录一次缓存未命中后的完整合并耗时
func RecordReconcileDuration(ctx context.Context, seconds float64, orders int) {
	if reconcileDuration == nil {
		return
	}
	reconcileDuration.Record(ctx, seconds, metric.WithAttributes(
		attribute.Int("orders", orders),
	))
}

// RecordDegradedFetch 记录一次协作方降级
func RecordDegradedFetch(ctx context.Context, source string) {
	if degradedFetchTotal == nil {
		return
	}
	degradedFetchTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("source", source),
	))
}
