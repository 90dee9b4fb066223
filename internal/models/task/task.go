package task

import (
	"fmt"
	"strings"
	"time"
)

type Task struct {
	ID               int64     `json:"id" db:"id"`
	Description      string    `json:"description" db:"description"`
	IsReminderSet    bool      `json:"isReminderSet" db:"is_reminder_set"`
	IsTaskOpen       bool      `json:"isTaskOpen" db:"is_task_open"`
	Priority         Priority  `json:"priority" db:"priority"`
	CreatedDate      time.Time `json:"createdDate" db:"created_date"`
	LastModifiedDate time.Time `json:"lastModifiedDate" db:"last_modified_date"`
}

// New returns an unsaved task with entity defaults: open, no reminder, LOW priority.
// ID and timestamps are assigned by the repository on save.
func New(description string, priority Priority) *Task {
	return &Task{
		Description: description,
		IsTaskOpen:  true,
		Priority:    priority,
	}
}

// Clone returns a copy that shares no state with t.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

type Priority string

const PriorityLow Priority = "LOW"
const PriorityMedium Priority = "MEDIUM"
const PriorityHigh Priority = "HIGH"

const PriorityTypeName = "Priority"

var priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// PriorityNames lists the member names in declaration order.
func PriorityNames() []string {
	names := make([]string, len(priorities))
	for i, p := range priorities {
		names[i] = string(p)
	}
	return names
}

// ParsePriority matches s against the member names ignoring case.
func ParsePriority(s string) (Priority, error) {
	upper := strings.ToUpper(s)
	for _, p := range priorities {
		if string(p) == upper {
			return p, nil
		}
	}
	return "", fmt.Errorf("%s must be one of the following: %s", PriorityTypeName, strings.Join(PriorityNames(), ", "))
}

func (p Priority) String() string {
	return string(p)
}
