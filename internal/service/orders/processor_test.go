package orders_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"service-rider-web/internal/domain"
	"service-rider-web/internal/query"
	"service-rider-web/internal/service/orders"
	testlog "service-rider-web/internal/testutil"
)

func warm(t *testing.T, c *query.Cache, keys ...query.Key) {
	t.Helper()
	for _, k := range keys {
		_, err := query.Fetch(context.Background(), c, k, func(context.Context) (int, error) { return 1, nil })
		require.NoError(t, err)
	}
}

func TestProcessor_Handle_InvalidatesOrderListsAndAggregates(t *testing.T) {
	t.Parallel()

	c := query.NewCache(time.Minute, nil)
	warm(t, c,
		query.OrderKey("r1", "o1"),
		query.OrderKey("r1", "o2"),
		query.OrdersKey("r1", "shipped"),
		query.OrdersKey("r2", "delivered"),
		query.DashboardKey("r1"),
		query.TodayRouteKey("r2"),
		query.MeKey("r1"),
	)

	p := orders.NewProcessor(c, nil)
	err := p.Handle(context.Background(), domain.OrderEvent{OrderID: "o1", Status: domain.OrderCancelled, CreatedAt: time.Now()})
	require.NoError(t, err)

	// o2 and the auth entry survive.
	require.Equal(t, 2, c.Len())
}

func TestProcessor_Handle_UnknownStatusIgnored(t *testing.T) {
	t.Parallel()

	c := query.NewCache(time.Minute, nil)
	warm(t, c, query.OrderKey("r1", "o1"))

	rec := testlog.New()
	p := orders.NewProcessor(c, rec.Logger())
	require.NoError(t, p.Handle(context.Background(), domain.OrderEvent{OrderID: "o1", Status: "teleported"}))
	require.Equal(t, 1, c.Len())
	require.True(t, rec.Has("debug", "order event ignored"))
}

func TestProcessor_Handle_EveryKnownStatusInvalidates(t *testing.T) {
	t.Parallel()

	for _, st := range []domain.OrderStatus{
		domain.OrderPending, domain.OrderPaid, domain.OrderProcessing, domain.OrderShipped,
		domain.OrderDelivered, domain.OrderUndelivered, domain.OrderCancelled, domain.OrderRefunded,
	} {
		c := query.NewCache(time.Minute, nil)
		warm(t, c, query.OrderKey("r1", "o1"))
		p := orders.NewProcessor(c, nil)
		require.NoError(t, p.Handle(context.Background(), domain.OrderEvent{OrderID: "o1", Status: st}))
		require.Zero(t, c.Len(), st)
	}
}
