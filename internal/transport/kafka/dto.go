package kafka

import (
	"strings"
	"time"

	"service-rider-web/internal/domain"
)

// EventDTO is the wire form of an order event.
type EventDTO struct {
	OrderID   string    `json:"order_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// ToDomain converts EventDTO to domain.OrderEvent.
func ToDomain(dto EventDTO) domain.OrderEvent {
	return domain.OrderEvent{
		OrderID:   strings.TrimSpace(dto.OrderID),
		Status:    domain.OrderStatus(strings.ToLower(strings.TrimSpace(dto.Status))),
		CreatedAt: dto.CreatedAt,
	}
}
