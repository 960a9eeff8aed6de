package queue

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"DelayWatch/pkg/logger"
	"DelayWatch/storage/mq"
)

// AutoOpenProducer 自动开单事件生产者
type AutoOpenProducer struct{}

func NewAutoOpenProducer() *AutoOpenProducer {
	return &AutoOpenProducer{}
}

// PublishTreatmentAutoOpen 发布首次曝光事件
func (p *AutoOpenProducer) PublishTreatmentAutoOpen(orderID, orderNumber string, daysDelayed int) error {
	msg := TreatmentAutoOpenMessage{
		MessageID:   uuid.New().String(),
		OrderID:     orderID,
		OrderNumber: orderNumber,
		DaysDelayed: daysDelayed,
		OccurredAt:  time.Now(),
	}

	if err := mq.PublishMessage(mq.EventsExchange, mq.AutoOpenRoutingKey, msg); err != nil {
		return err
	}

	logger.Logger.Info("Treatment auto-open event published",
		zap.String("message_id", msg.MessageID),
		zap.String("order_id", orderID),
		zap.String("order_number", orderNumber),
		zap.Int("days_delayed", daysDelayed),
	)

	return nil
}
