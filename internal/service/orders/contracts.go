package orders

import "service-rider-web/internal/query"

// Invalidator drops cached reads.
type Invalidator interface {
	Invalidate(query.Predicate) int
}
