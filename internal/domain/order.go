package domain

import (
	"encoding/json"
	"time"
)

// CustomerInfo is the delivery contact.
type CustomerInfo struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Address is the shipping address of an order.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
}

// Variant describes the ordered product variant.
type Variant struct {
	Color string `json:"color"`
	Size  string `json:"size"`
}

// Item is a single order line.
type Item struct {
	ProductName string  `json:"productName"`
	Variant     Variant `json:"variant"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// Subtotal returns price times quantity.
func (i Item) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

// Order is a delivery task assigned to the rider. The client only holds transient copies.
type Order struct {
	ID                string       `json:"id"`
	OrderNumber       string       `json:"orderNumber"`
	Status            OrderStatus  `json:"status"`
	CustomerInfo      CustomerInfo `json:"customerInfo"`
	ShippingAddress   Address      `json:"shippingAddress"`
	Items             []Item       `json:"items"`
	TotalAmount       float64      `json:"totalAmount"`
	AssignedAt        *time.Time   `json:"assignedAt,omitempty"`
	CreatedAt         *time.Time   `json:"createdAt,omitempty"`
	DeliveredAt       *time.Time   `json:"deliveredAt,omitempty"`
	UndeliveredReason string       `json:"undeliveredReason,omitempty"`
}

// UnmarshalJSON accepts both "id" and the document-store "_id".
func (o *Order) UnmarshalJSON(b []byte) error {
	type plain Order
	var aux struct {
		plain
		MongoID string `json:"_id"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*o = Order(aux.plain)
	if o.ID == "" {
		o.ID = aux.MongoID
	}
	return nil
}

// ItemCount sums item quantities.
func (o Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// Timestamp returns the assignment time, falling back to creation time.
func (o Order) Timestamp() time.Time {
	if o.AssignedAt != nil {
		return *o.AssignedAt
	}
	if o.CreatedAt != nil {
		return *o.CreatedAt
	}
	return time.Time{}
}
