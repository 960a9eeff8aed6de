package queue

import "time"

// TreatmentAutoOpenMessage 首次曝光自动开单事件。
// message_id 供消费端去重，order 标识符沿用告警行里的原值。
type TreatmentAutoOpenMessage struct {
	MessageID   string    `json:"message_id"`
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	DaysDelayed int       `json:"days_delayed"`
	OccurredAt  time.Time `json:"occurred_at"`
}
