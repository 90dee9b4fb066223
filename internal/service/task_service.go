package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tasksApp/internal/dto"
	"tasksApp/internal/events"
	"tasksApp/internal/logger"
	"tasksApp/internal/models/task"
	repo "tasksApp/internal/repository"

	"go.uber.org/zap"
)

type TaskService struct {
	repo      TaskRepository
	publisher EventPublisher
}

func NewTaskService(repo TaskRepository, publisher EventPublisher) *TaskService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &TaskService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *TaskService) FindAllTasks(ctx context.Context) ([]*task.Task, error) {
	tasks, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("find all tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) FindTasksByStatus(ctx context.Context, open bool) ([]*task.Task, error) {
	tasks, err := s.repo.FindByOpenStatus(ctx, open)
	if err != nil {
		return nil, fmt.Errorf("find tasks by status: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) FindTaskByID(ctx context.Context, id int64) (*task.Task, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: task not found", zap.Int64("task_id", id))
			return nil, NewNotFound(id, err)
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return t, nil
}

// CreateTask relies on the storage uniqueness constraint to detect duplicate descriptions.
func (s *TaskService) CreateTask(ctx context.Context, d dto.CreateTaskDto) (*task.Task, error) {
	entity, err := dto.ToEntity(d)
	if err != nil {
		switch {
		case d.Description == nil:
			return nil, NewValidationError("description", dto.MsgDescriptionBlank)
		case errors.Is(err, dto.ErrMissingField):
			return nil, NewValidationError("priority", dto.MsgPriorityBlank)
		}
		return nil, NewValidationError("priority", err.Error())
	}

	saved, err := s.repo.Save(ctx, entity)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			logger.Info("Service: duplicate task description", zap.String("description", entity.Description))
			return nil, NewAlreadyExists(entity.Description, err)
		}
		return nil, fmt.Errorf("create task: %w", err)
	}

	logger.Info("Service: task created", zap.Int64("task_id", saved.ID))
	s.publisher.Publish(ctx, events.New(events.TaskCreated, saved))
	return saved, nil
}

// UpdateTask patches only the fields set in d. The task id is never changed.
func (s *TaskService) UpdateTask(ctx context.Context, d dto.UpdateTaskDto) (*task.Task, error) {
	if d.ID == nil {
		return nil, NewValidationError("id", dto.MsgIDRequired)
	}
	if d.Description != nil && strings.TrimSpace(*d.Description) == "" {
		return nil, NewValidationError("description", dto.MsgDescriptionBlank)
	}

	existing, err := s.FindTaskByID(ctx, *d.ID)
	if err != nil {
		return nil, err
	}

	patched, err := dto.ApplyUpdate(d, existing)
	if err != nil {
		return nil, NewValidationError("priority", err.Error())
	}

	saved, err := s.repo.Save(ctx, patched)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicate):
			return nil, NewAlreadyExists(patched.Description, err)
		case errors.Is(err, repo.ErrNotFound):
			return nil, NewNotFound(patched.ID, err)
		}
		return nil, fmt.Errorf("update task: %w", err)
	}

	logger.Info("Service: task updated", zap.Int64("task_id", saved.ID))
	s.publisher.Publish(ctx, events.New(events.TaskUpdated, saved))
	return saved, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id int64) error {
	existing, err := s.FindTaskByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFound(id, err)
		}
		return fmt.Errorf("delete task: %w", err)
	}

	logger.Info("Service: task deleted", zap.Int64("task_id", id))
	s.publisher.Publish(ctx, events.New(events.TaskDeleted, existing))
	return nil
}
