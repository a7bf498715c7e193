package query

import (
	"strings"

	"service-rider-web/internal/domain"
)

// Kind names a family of cached reads.
type Kind string

const (
	KindDashboard  Kind = "rider-dashboard"
	KindOrders     Kind = "rider-orders"
	KindOrder      Kind = "rider-order"
	KindTodayRoute Kind = "today-route"
	KindMe         Kind = "auth-me"
)

// Key identifies a cached read inside one namespace. Rider holds a session's
// domain.Session.CacheScope.
type Key struct {
	Rider string
	Kind  Kind
	Param string
}

func (k Key) String() string {
	parts := []string{k.Rider, string(k.Kind)}
	if k.Param != "" {
		parts = append(parts, k.Param)
	}
	return strings.Join(parts, "/")
}

func DashboardKey(rider string) Key { return Key{Rider: rider, Kind: KindDashboard} }

func OrdersKey(rider, filter string) Key { return Key{Rider: rider, Kind: KindOrders, Param: filter} }

func OrderKey(rider, id string) Key { return Key{Rider: rider, Kind: KindOrder, Param: id} }

func TodayRouteKey(rider string) Key { return Key{Rider: rider, Kind: KindTodayRoute} }

func MeKey(rider string) Key { return Key{Rider: rider, Kind: KindMe} }

// Predicate selects keys for invalidation.
type Predicate func(Key) bool

// ForRider matches keys in the given scope. A bare rider id matches every scope of that
// rider, whatever token it was fetched with.
func ForRider(rider string) Predicate {
	prefix := rider + domain.ScopeSeparator
	return func(k Key) bool { return k.Rider == rider || strings.HasPrefix(k.Rider, prefix) }
}

// ForOrder matches the order's detail entry and every list or aggregate that may contain it,
// across all riders.
func ForOrder(id string) Predicate {
	return func(k Key) bool {
		switch k.Kind {
		case KindOrder:
			return k.Param == id
		case KindMe:
			return false
		default:
			return true
		}
	}
}

// And combines predicates.
func And(ps ...Predicate) Predicate {
	return func(k Key) bool {
		for _, p := range ps {
			if !p(k) {
				return false
			}
		}
		return true
	}
}
