package payloads

import (
	"time"

	"github.com/google/uuid"
)

// OrderCreatedEvent is emitted when checkout converts a cart into an order.
type OrderCreatedEvent struct {
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	CustomerID  uuid.UUID `json:"customer_id"`
	TotalCents  int       `json:"total_cents"`
	Currency    string    `json:"currency"`
	Country     string    `json:"country"`
	PlacedAt    time.Time `json:"placed_at"`
}

// OrderStatusChangedEvent is emitted on every order status transition.
type OrderStatusChangedEvent struct {
	OrderID    uuid.UUID `json:"order_id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	ChangedAt  time.Time `json:"changed_at"`
}

// DeliveryFailedEvent is emitted when a delivery ends up failed, carrying the
// insured flag so downstream refund handling can react.
type DeliveryFailedEvent struct {
	DeliveryID    uuid.UUID `json:"delivery_id"`
	OrderID       uuid.UUID `json:"order_id"`
	Insured       bool      `json:"insured"`
	FailureReason string    `json:"failure_reason,omitempty"`
	FailedAt      time.Time `json:"failed_at"`
}

// LeadStatusChangedEvent is emitted on sales pipeline transitions.
type LeadStatusChangedEvent struct {
	LeadID     uuid.UUID `json:"lead_id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	ChangedAt  time.Time `json:"changed_at"`
}

// SubscriptionRenewedEvent is emitted when the renewal job creates the next
// order for a recurring delivery.
type SubscriptionRenewedEvent struct {
	SubscriptionID uuid.UUID `json:"subscription_id"`
	OrderID        uuid.UUID `json:"order_id"`
	NextDeliveryAt time.Time `json:"next_delivery_at"`
}
