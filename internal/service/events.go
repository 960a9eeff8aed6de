package service

import "DelayWatch/internal/queue"

func defaultEventPublisher() EventPublisher {
	return queue.NewAutoOpenProducer()
}
