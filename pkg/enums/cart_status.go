package enums

import "fmt"

// CartStatus tracks whether a cart is still being edited or was already
// turned into an order.
type CartStatus string

const (
	CartStatusActive    CartStatus = "active"
	CartStatusConverted CartStatus = "converted"
)

var validCartStatuses = []CartStatus{
	CartStatusActive,
	CartStatusConverted,
}

var cartTransitions = map[CartStatus][]CartStatus{
	CartStatusActive:    {CartStatusConverted},
	CartStatusConverted: {},
}

// String implements fmt.Stringer.
func (c CartStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CartStatus.
func (c CartStatus) IsValid() bool {
	for _, candidate := range validCartStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the transition is listed in the allowed table.
func (c CartStatus) CanTransitionTo(target CartStatus) bool {
	for _, candidate := range cartTransitions[c] {
		if candidate == target {
			return true
		}
	}
	return false
}

// ParseCartStatus converts raw input into a CartStatus.
func ParseCartStatus(value string) (CartStatus, error) {
	for _, candidate := range validCartStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cart status %q", value)
}
