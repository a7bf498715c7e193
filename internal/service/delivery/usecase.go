package delivery

import (
	"context"
	"time"

	"service-rider-web/internal/apperr"
	"service-rider-web/internal/domain"
	"service-rider-web/internal/gateway/riderapi"
	"service-rider-web/internal/logx"
	"service-rider-web/internal/query"
	"service-rider-web/internal/session"
)

// User-visible messages.
const (
	MsgUpdated      = "Order status updated"
	MsgSelectReason = "Please select a reason"
	MsgUpdateFailed = "Failed to update order status"
	MsgNotUpdatable = "Only orders in transit can be updated"
)

type invalidator interface {
	Invalidate(query.Predicate) int
}

// Service runs the rider's order status workflow.
type Service struct {
	api              statusAPI
	orders           OrderReader
	cache            invalidator
	publisher        Publisher
	transitions      transitionCounter
	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
}

// NewDeliveryService creates a new Service. publisher and transitions may be nil.
func NewDeliveryService(api statusAPI, orders OrderReader, cache invalidator, publisher Publisher,
	transitions transitionCounter, timeout time.Duration, logger logx.Logger,
) *Service {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{
		api:              api,
		orders:           orders,
		cache:            cache,
		publisher:        publisher,
		transitions:      transitions,
		operationTimeout: timeout,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// MarkDelivered moves a shipped order to delivered.
func (s *Service) MarkDelivered(ctx context.Context, h *session.Handle, orderID string) (*domain.Order, error) {
	return s.transition(ctx, h, orderID, domain.StatusUpdate{Status: domain.OrderDelivered})
}

// MarkUndelivered moves a shipped order to undelivered with a reason. A missing reason is
// rejected before any network call.
func (s *Service) MarkUndelivered(ctx context.Context, h *session.Handle, orderID, selected, other string) (*domain.Order, error) {
	reason, err := ResolveReason(selected, other)
	if err != nil {
		h.Notify(session.NoticeError, MsgSelectReason)
		return nil, err
	}
	return s.transition(ctx, h, orderID, domain.StatusUpdate{
		Status:            domain.OrderUndelivered,
		UndeliveredReason: reason,
	})
}

func (s *Service) transition(ctx context.Context, h *session.Handle, orderID string, upd domain.StatusUpdate) (*domain.Order, error) {
	cur := h.Session()
	rider, scope := cur.RiderID(), cur.CacheScope()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	current, err := s.orders.Order(ctx, scope, orderID)
	if err != nil {
		s.fail(h, upd.Status, err)
		return nil, err
	}
	if !canTransition(current.Status, upd.Status) {
		h.Notify(session.NoticeError, MsgNotUpdatable)
		s.observe(upd.Status, "rejected")
		return nil, apperr.ErrConflict
	}

	updated, err := s.api.UpdateStatus(ctx, orderID, upd)
	if err != nil {
		s.fail(h, upd.Status, err)
		s.logger.Warn("order status update failed",
			logx.String("order_id", orderID),
			logx.String("status", string(upd.Status)),
			logx.Err(err),
		)
		return nil, err
	}

	h.Notify(session.NoticeSuccess, MsgUpdated)
	s.observe(upd.Status, "ok")

	s.cache.Invalidate(query.And(query.ForRider(rider), query.ForOrder(orderID)))
	if refreshed, err := s.orders.RefreshOrder(ctx, scope, orderID); err == nil {
		updated = refreshed
	} else {
		s.logger.Debug("order refetch failed", logx.String("order_id", orderID), logx.Err(err))
	}

	ev := domain.StatusChange{
		OrderID:           orderID,
		RiderID:           rider,
		Status:            upd.Status,
		UndeliveredReason: upd.UndeliveredReason,
		ChangedAt:         s.now(),
	}
	if s.publisher != nil {
		if err := s.publisher.PublishStatusChange(ctx, ev); err != nil {
			s.logger.Warn("status change publish failed", logx.String("order_id", orderID), logx.Err(err))
		}
	}

	s.logger.Info("order status updated",
		logx.String("event", "order_status_updated"),
		logx.String("order_id", orderID),
		logx.String("rider_id", rider),
		logx.String("status", string(upd.Status)),
	)
	return updated, nil
}

// fail notifies the rider unless the failure already forced a logout.
func (s *Service) fail(h *session.Handle, status domain.OrderStatus, err error) {
	s.observe(status, "error")
	if h.Expired() {
		return
	}
	h.Notify(session.NoticeError, riderapi.Message(err, MsgUpdateFailed))
}

func (s *Service) observe(status domain.OrderStatus, result string) {
	if s.transitions != nil {
		s.transitions.Observe(status, result)
	}
}
