//go:generate mockgen -source=contracts.go -destination=delivery_mocks_test.go -package=delivery_test

package delivery

import (
	"context"

	"service-rider-web/internal/domain"
)

type statusAPI interface {
	UpdateStatus(ctx context.Context, id string, upd domain.StatusUpdate) (*domain.Order, error)
}

// OrderReader reads (and re-reads) a rider's order through the read cache.
type OrderReader interface {
	Order(ctx context.Context, scope, id string) (*domain.Order, error)
	RefreshOrder(ctx context.Context, scope, id string) (*domain.Order, error)
}

// Publisher announces accepted status changes.
type Publisher interface {
	PublishStatusChange(ctx context.Context, ev domain.StatusChange) error
}

type transitionCounter interface {
	Observe(status domain.OrderStatus, result string)
}
