package domain

// OrderStatus is the order lifecycle state owned by the remote system.
type OrderStatus string

// List of order statuses
const (
	OrderPending     OrderStatus = "pending"
	OrderPaid        OrderStatus = "paid"
	OrderProcessing  OrderStatus = "processing"
	OrderShipped     OrderStatus = "shipped"
	OrderDelivered   OrderStatus = "delivered"
	OrderUndelivered OrderStatus = "undelivered"
	OrderCancelled   OrderStatus = "cancelled"
	OrderRefunded    OrderStatus = "refunded"
)

var allowedOrderStatuses = [...]OrderStatus{
	OrderPending, OrderPaid, OrderProcessing, OrderShipped,
	OrderDelivered, OrderUndelivered, OrderCancelled, OrderRefunded,
}

// Valid checks if the OrderStatus is one of the known statuses.
func (s OrderStatus) Valid() bool {
	for _, v := range allowedOrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Terminal reports whether the rider can no longer act on the order.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderDelivered, OrderUndelivered, OrderCancelled, OrderRefunded:
		return true
	default:
		return false
	}
}

// UndeliveredReason is one of the fixed non-delivery reasons offered to the rider.
type UndeliveredReason string

// Fixed non-delivery reasons. ReasonOther requires free text.
const (
	ReasonCustomerNotAvailable UndeliveredReason = "Customer not available"
	ReasonWrongAddress         UndeliveredReason = "Wrong address"
	ReasonCustomerRefused      UndeliveredReason = "Customer refused delivery"
	ReasonCannotAccessBuilding UndeliveredReason = "Cannot access building"
	ReasonPaymentIssue         UndeliveredReason = "Payment issue"
	ReasonOther                UndeliveredReason = "Other"
)

// UndeliveredReasons returns the reasons in display order.
func UndeliveredReasons() []UndeliveredReason {
	return []UndeliveredReason{
		ReasonCustomerNotAvailable,
		ReasonWrongAddress,
		ReasonCustomerRefused,
		ReasonCannotAccessBuilding,
		ReasonPaymentIssue,
		ReasonOther,
	}
}

// Known reports whether r is one of the fixed reasons.
func (r UndeliveredReason) Known() bool {
	for _, v := range UndeliveredReasons() {
		if r == v {
			return true
		}
	}
	return false
}

// StatusUpdate is the body of PUT /rider/orders/:id/status.
type StatusUpdate struct {
	Status            OrderStatus `json:"status"`
	UndeliveredReason string      `json:"undeliveredReason,omitempty"`
}
