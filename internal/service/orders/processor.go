package orders

import (
	"context"

	"service-rider-web/internal/domain"
	"service-rider-web/internal/logx"
	"service-rider-web/internal/query"
)

// Processor turns order lifecycle events into cache invalidations so the next screen load
// reads fresh data.
type Processor struct {
	cache   Invalidator
	logger  logx.Logger
	factory *actionFactory
}

// NewProcessor creates a new Processor.
func NewProcessor(cache Invalidator, logger logx.Logger) *Processor {
	if logger == nil {
		logger = logx.Nop()
	}
	p := &Processor{cache: cache, logger: logger}
	p.factory = newActionFactory(p.onChanged)
	return p
}

// Handle processes a single order event. Unknown statuses are ignored.
func (p *Processor) Handle(ctx context.Context, e domain.OrderEvent) error {
	fn, ok := p.factory.get(e.Status)
	if !ok {
		p.logger.Debug("order event ignored", logx.String("order_id", e.OrderID), logx.String("status", string(e.Status)))
		return nil
	}
	return fn(ctx, e)
}

// onChanged drops the order and the lists and aggregates that may show it.
func (p *Processor) onChanged(_ context.Context, e domain.OrderEvent) error {
	n := p.cache.Invalidate(query.ForOrder(e.OrderID))
	p.logger.Debug("order cache invalidated",
		logx.String("order_id", e.OrderID),
		logx.String("status", string(e.Status)),
		logx.Int("entries", n),
	)
	return nil
}
