package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"DelayWatch/config"
	"DelayWatch/internal/queue"
	"DelayWatch/internal/service"
	"DelayWatch/pkg/logger"
	"DelayWatch/pkg/snowflake"
	"DelayWatch/storage"
)

func main() {

	logger.Init()
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Logger.Info("Received shutdown signal",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	if err := storage.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer storage.Close()

	if err := snowflake.Init(config.Cfg.SnowflakeMachineID, config.Cfg.SnowflakeDataCenter); err != nil {
		logger.Logger.Fatal("Failed to initialize snowflake", zap.Error(err))
	}

	logger.Logger.Info("Worker service starting",
		zap.String("service", config.Cfg.ServiceName+"-worker"),
		zap.String("environment", config.Cfg.Environment),
	)

	// 消费阻塞在通道上，连接断开后退避重连
	go func() {
		for {
			err := queue.StartAutoOpenConsumer(func(msg queue.TreatmentAutoOpenMessage) error {
				handleCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
				defer cancel()
				return service.Treatment().AutoOpen(handleCtx, msg.OrderID, msg.OrderNumber, msg.DaysDelayed)
			})

			select {
			case <-ctx.Done():
				return
			default:
			}

			logger.Logger.Error("Auto-open consumer stopped, restarting", zap.Error(err))
			time.Sleep(5 * time.Second)
		}
	}()

	<-ctx.Done()

	logger.Logger.Info("Worker service shutting down gracefully")
}
