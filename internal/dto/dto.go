package dto

import (
	"tasksApp/internal/models/task"
	"tasksApp/internal/validation"
)

// Validation messages shared by request validation and the service layer.
const (
	MsgDescriptionBlank = "Task description cannot be null or empty"
	MsgPriorityBlank    = "Priority cannot be null or empty"
	MsgIDRequired       = "Task ID is required"
)

type CreateTaskDto struct {
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
}

// UpdateTaskDto is a patch: nil fields are left unchanged, set fields overwrite.
type UpdateTaskDto struct {
	ID            *int64  `json:"id"`
	Description   *string `json:"description,omitempty"`
	IsReminderSet *bool   `json:"isReminderSet,omitempty"`
	IsTaskOpen    *bool   `json:"isTaskOpen,omitempty"`
	Priority      *string `json:"priority,omitempty"`
}

type TaskDto struct {
	ID            int64         `json:"id"`
	Description   string        `json:"description"`
	IsReminderSet bool          `json:"isReminderSet"`
	IsTaskOpen    bool          `json:"isTaskOpen"`
	Priority      task.Priority `json:"priority"`
}

func (d CreateTaskDto) Validate() error {
	var c validation.Collector
	c.Add(validation.NotBlank("description", d.Description, MsgDescriptionBlank))
	c.Add(validation.NotBlank("priority", d.Priority, MsgPriorityBlank))
	c.Add(validation.ValueOfEnum("priority", task.PriorityTypeName, d.Priority, task.PriorityNames()))
	return c.Err()
}

func (d UpdateTaskDto) Validate() error {
	var c validation.Collector
	c.Add(validation.Required("id", d.ID, MsgIDRequired))
	c.Add(validation.ValueOfEnum("priority", task.PriorityTypeName, d.Priority, task.PriorityNames()))
	return c.Err()
}
