package middleware

import (
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"DelayWatch/pkg/logger"
	"DelayWatch/pkg/metrics"
)

// Init 初始化所有中间件依赖的指标
func Init() error {
	meter := otel.Meter("delaywatch-http")

	if err := InitHTTPMetrics(meter); err != nil {
		logger.Logger.Error("Failed to initialize HTTP metrics", zap.Error(err))
		return err
	}

	if err := metrics.InitMetrics(); err != nil {
		logger.Logger.Error("Failed to initialize reconcile metrics", zap.Error(err))
		return err
	}

	logger.Logger.Info("All middlewares initialized successfully")
	return nil
}
