package app

import (
	"context"
	"time"

	"service-rider-web/internal/domain"
	"service-rider-web/internal/transport/kafka"
)

type orderEventHandler interface {
	Handle(ctx context.Context, e domain.OrderEvent) error
}

// makeOrdersKafka bounds the handling of each consumed order event.
func makeOrdersKafka(p orderEventHandler, timeout time.Duration) kafka.HandleFunc {
	return func(ctx context.Context, event domain.OrderEvent) error {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return p.Handle(ctx, event)
	}
}
