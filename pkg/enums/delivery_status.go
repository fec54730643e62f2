package enums

import "fmt"

// DeliveryStatus tracks a scheduled delivery from planning to hand-off.
type DeliveryStatus string

const (
	DeliveryStatusScheduled      DeliveryStatus = "scheduled"
	DeliveryStatusOutForDelivery DeliveryStatus = "out_for_delivery"
	DeliveryStatusDelivered      DeliveryStatus = "delivered"
	DeliveryStatusFailed         DeliveryStatus = "failed"
)

var validDeliveryStatuses = []DeliveryStatus{
	DeliveryStatusScheduled,
	DeliveryStatusOutForDelivery,
	DeliveryStatusDelivered,
	DeliveryStatusFailed,
}

// A failed delivery may be rescheduled, which is why failed is not terminal.
var deliveryTransitions = map[DeliveryStatus][]DeliveryStatus{
	DeliveryStatusScheduled:      {DeliveryStatusOutForDelivery},
	DeliveryStatusOutForDelivery: {DeliveryStatusDelivered, DeliveryStatusFailed},
	DeliveryStatusFailed:         {DeliveryStatusScheduled},
	DeliveryStatusDelivered:      {},
}

// String implements fmt.Stringer.
func (d DeliveryStatus) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DeliveryStatus.
func (d DeliveryStatus) IsValid() bool {
	for _, candidate := range validDeliveryStatuses {
		if candidate == d {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the transition is listed in the allowed table.
func (d DeliveryStatus) CanTransitionTo(target DeliveryStatus) bool {
	for _, candidate := range deliveryTransitions[d] {
		if candidate == target {
			return true
		}
	}
	return false
}

// ParseDeliveryStatus converts raw input into a DeliveryStatus.
func ParseDeliveryStatus(value string) (DeliveryStatus, error) {
	for _, candidate := range validDeliveryStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery status %q", value)
}
