package dto

import (
	"errors"

	"tasksApp/internal/models/task"
)

var ErrMissingField = errors.New("required field is missing")

func ToDto(t *task.Task) TaskDto {
	return TaskDto{
		ID:            t.ID,
		Description:   t.Description,
		IsReminderSet: t.IsReminderSet,
		IsTaskOpen:    t.IsTaskOpen,
		Priority:      t.Priority,
	}
}

func ToDtoList(tasks []*task.Task) []TaskDto {
	result := make([]TaskDto, len(tasks))
	for i, t := range tasks {
		result[i] = ToDto(t)
	}
	return result
}

// ToEntity builds an unsaved task; id and timestamps stay zero for the repository to fill.
func ToEntity(d CreateTaskDto) (*task.Task, error) {
	if d.Description == nil || d.Priority == nil {
		return nil, ErrMissingField
	}
	priority, err := task.ParsePriority(*d.Priority)
	if err != nil {
		return nil, err
	}
	return task.New(*d.Description, priority), nil
}

// ApplyUpdate overwrites the fields of existing that are set in d and returns existing.
// The id is never touched: d.ID only selects which task is patched.
// On a priority parse error existing is left unmodified.
func ApplyUpdate(d UpdateTaskDto, existing *task.Task) (*task.Task, error) {
	var priority task.Priority
	if d.Priority != nil {
		p, err := task.ParsePriority(*d.Priority)
		if err != nil {
			return existing, err
		}
		priority = p
	}

	if d.Description != nil {
		existing.Description = *d.Description
	}
	if d.IsReminderSet != nil {
		existing.IsReminderSet = *d.IsReminderSet
	}
	if d.IsTaskOpen != nil {
		existing.IsTaskOpen = *d.IsTaskOpen
	}
	if d.Priority != nil {
		existing.Priority = priority
	}
	return existing, nil
}
