package delivery

import (
	"strings"

	"service-rider-web/internal/apperr"
	"service-rider-web/internal/domain"
)

// ActionKind is a status transition the rider may trigger.
type ActionKind string

const (
	ActionDeliver     ActionKind = "deliver"
	ActionUndelivered ActionKind = "undelivered"
)

// Action is a button offered on the order detail screen.
type Action struct {
	Kind  ActionKind
	Label string
}

// Actions returns the transitions available for o. Only in-transit orders have any.
func Actions(o domain.Order) []Action {
	if o.Status != domain.OrderShipped {
		return nil
	}
	return []Action{
		{Kind: ActionDeliver, Label: "Mark as Delivered"},
		{Kind: ActionUndelivered, Label: "Mark as Undelivered"},
	}
}

// ResolveReason returns the reason to submit: a fixed reason as is, or the trimmed free text
// for "Other". A reason outside the fixed set or an empty result is apperr.ErrInvalid.
func ResolveReason(selected, other string) (string, error) {
	r := domain.UndeliveredReason(strings.TrimSpace(selected))
	if !r.Known() {
		return "", apperr.ErrInvalid
	}
	reason := string(r)
	if r == domain.ReasonOther {
		reason = strings.TrimSpace(other)
	}
	if reason == "" {
		return "", apperr.ErrInvalid
	}
	return reason, nil
}

// transitions lists the statuses reachable from each status through this client.
var transitions = map[domain.OrderStatus][]domain.OrderStatus{
	domain.OrderShipped: {domain.OrderDelivered, domain.OrderUndelivered},
}

func canTransition(from, to domain.OrderStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
