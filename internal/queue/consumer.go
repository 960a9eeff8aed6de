package queue

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"DelayWatch/pkg/logger"
	"DelayWatch/storage/mq"
)

// AutoOpenHandler 处理一条自动开单事件。返回错误会触发重新入队。
type AutoOpenHandler func(msg TreatmentAutoOpenMessage) error

// StartAutoOpenConsumer 启动自动开单队列消费，阻塞直到通道关闭
func StartAutoOpenConsumer(handler AutoOpenHandler) error {
	return mq.Consume(mq.ConsumeOptions{
		Queue:         mq.AutoOpenQueue,
		ConsumerTag:   "delaywatch-autoopen",
		PrefetchCount: 10,
		Handler: func(body []byte) error {
			var msg TreatmentAutoOpenMessage
			if err := json.Unmarshal(body, &msg); err != nil {
				// 解析不动的消息重投也没用，记日志后丢弃
				logger.Logger.Error("Auto-open message is malformed, dropping",
					zap.ByteString("body", body),
					zap.Error(err),
				)
				return nil
			}

			if msg.OrderID == "" && msg.OrderNumber == "" {
				logger.Logger.Warn("Auto-open message has no order identifier, dropping",
					zap.String("message_id", msg.MessageID),
				)
				return nil
			}

			if err := handler(msg); err != nil {
				return fmt.Errorf("failed to handle auto-open message %s: %w", msg.MessageID, err)
			}

			return nil
		},
	})
}
