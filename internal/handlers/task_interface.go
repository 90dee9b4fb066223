package handlers

import (
	"context"

	"tasksApp/internal/dto"
	"tasksApp/internal/models/task"
)

type TaskService interface {
	FindAllTasks(ctx context.Context) ([]*task.Task, error)
	FindTasksByStatus(ctx context.Context, open bool) ([]*task.Task, error)
	FindTaskByID(ctx context.Context, id int64) (*task.Task, error)
	CreateTask(ctx context.Context, d dto.CreateTaskDto) (*task.Task, error)
	UpdateTask(ctx context.Context, d dto.UpdateTaskDto) (*task.Task, error)
	DeleteTask(ctx context.Context, id int64) error
	HealthCheck(ctx context.Context) error
}
