package enums

import "fmt"

// ActivityAction labels entries in the back-office activity log.
type ActivityAction string

const (
	ActivityActionCreated       ActivityAction = "created"
	ActivityActionStatusChanged ActivityAction = "status_changed"
	ActivityActionUpdated       ActivityAction = "updated"
	ActivityActionDeleted       ActivityAction = "deleted"
	ActivityActionExported      ActivityAction = "exported"
)

var validActivityActions = []ActivityAction{
	ActivityActionCreated,
	ActivityActionStatusChanged,
	ActivityActionUpdated,
	ActivityActionDeleted,
	ActivityActionExported,
}

// String implements fmt.Stringer.
func (a ActivityAction) String() string {
	return string(a)
}

// IsValid reports whether the value is a known ActivityAction.
func (a ActivityAction) IsValid() bool {
	for _, candidate := range validActivityActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseActivityAction converts raw input into an ActivityAction.
func ParseActivityAction(value string) (ActivityAction, error) {
	for _, candidate := range validActivityActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid activity action %q", value)
}
