package orders

import (
	"context"

	"service-rider-web/internal/domain"
)

type actionFunc func(context.Context, domain.OrderEvent) error

type actionFactory struct {
	byStatus map[domain.OrderStatus]actionFunc
}

func newActionFactory(onChanged actionFunc) *actionFactory {
	return &actionFactory{
		byStatus: map[domain.OrderStatus]actionFunc{
			domain.OrderPending:     onChanged,
			domain.OrderPaid:        onChanged,
			domain.OrderProcessing:  onChanged,
			domain.OrderShipped:     onChanged,
			domain.OrderDelivered:   onChanged,
			domain.OrderUndelivered: onChanged,
			domain.OrderCancelled:   onChanged,
			domain.OrderRefunded:    onChanged,
		},
	}
}

func (f *actionFactory) get(status domain.OrderStatus) (actionFunc, bool) {
	fn, ok := f.byStatus[status]
	return fn, ok
}
