package enums

import "fmt"

// TaskStatus tracks back-office task progress.
type TaskStatus string

const (
	TaskStatusOpen       TaskStatus = "open"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
	TaskStatusCanceled   TaskStatus = "canceled"
)

var validTaskStatuses = []TaskStatus{
	TaskStatusOpen,
	TaskStatusInProgress,
	TaskStatusDone,
	TaskStatusCanceled,
}

var taskTransitions = map[TaskStatus][]TaskStatus{
	TaskStatusOpen:       {TaskStatusInProgress, TaskStatusDone, TaskStatusCanceled},
	TaskStatusInProgress: {TaskStatusDone, TaskStatusCanceled},
	TaskStatusDone:       {},
	TaskStatusCanceled:   {},
}

// String implements fmt.Stringer.
func (t TaskStatus) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TaskStatus.
func (t TaskStatus) IsValid() bool {
	for _, candidate := range validTaskStatuses {
		if candidate == t {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the transition is listed in the allowed table.
func (t TaskStatus) CanTransitionTo(target TaskStatus) bool {
	for _, candidate := range taskTransitions[t] {
		if candidate == target {
			return true
		}
	}
	return false
}

// ParseTaskStatus converts raw input into a TaskStatus.
func ParseTaskStatus(value string) (TaskStatus, error) {
	for _, candidate := range validTaskStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid task status %q", value)
}
