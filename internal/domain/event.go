package domain

import "time"

// StatusChange is published after the rider API accepted a status update.
type StatusChange struct {
	OrderID           string      `json:"order_id"`
	RiderID           string      `json:"rider_id"`
	Status            OrderStatus `json:"status"`
	UndeliveredReason string      `json:"undelivered_reason,omitempty"`
	ChangedAt         time.Time   `json:"changed_at"`
}

// OrderEvent is an order lifecycle event consumed from the orders topic.
type OrderEvent struct {
	OrderID   string      `json:"order_id"`
	Status    OrderStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}
