package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ai-assistant-be/internal/constant"
	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

var ErrTaskNotFound = errors.New("task not found")

// ITaskService manages the user's reminders.
type ITaskService interface {
	CreateTask(ctx context.Context, userId uuid.UUID, request *dto.CreateTaskRequest) (*dto.TaskResponse, error)
	UpdateTask(ctx context.Context, userId uuid.UUID, taskId uuid.UUID, request *dto.UpdateTaskRequest) error
	MarkTaskDone(ctx context.Context, userId uuid.UUID, taskId uuid.UUID) error
	GetPendingTasks(ctx context.Context, userId uuid.UUID) ([]*dto.TaskResponse, error)
	GetTaskHistory(ctx context.Context, userId uuid.UUID) ([]*dto.TaskResponse, error)
}

type taskService struct {
	taskRepo contract.TaskRepository
}

func NewTaskService(taskRepo contract.TaskRepository) ITaskService {
	return &taskService{taskRepo: taskRepo}
}

func (ts *taskService) CreateTask(ctx context.Context, userId uuid.UUID, request *dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	task := &entity.Task{
		Id:         uuid.New(),
		UserId:     userId,
		Content:    request.Content,
		DueDateStr: request.DueDate,
		Status:     entity.TaskStatusPending,
		CreatedAt:  time.Now(),
	}
	if err := ts.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return taskToResponse(task), nil
}

func (ts *taskService) UpdateTask(ctx context.Context, userId uuid.UUID, taskId uuid.UUID, request *dto.UpdateTaskRequest) error {
	task, err := ts.findOwnedTask(ctx, userId, taskId)
	if err != nil {
		return err
	}

	if request.Content != nil {
		task.Content = *request.Content
	}
	if request.DueDate != nil {
		task.DueDateStr = *request.DueDate
	}

	if err := ts.taskRepo.Update(ctx, task); err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return nil
}

func (ts *taskService) MarkTaskDone(ctx context.Context, userId uuid.UUID, taskId uuid.UUID) error {
	if _, err := ts.findOwnedTask(ctx, userId, taskId); err != nil {
		return err
	}
	if err := ts.taskRepo.SetStatus(ctx, taskId, entity.TaskStatusDone); err != nil {
		return fmt.Errorf("failed to mark task done: %w", err)
	}
	return nil
}

func (ts *taskService) GetPendingTasks(ctx context.Context, userId uuid.UUID) ([]*dto.TaskResponse, error) {
	tasks, err := ts.taskRepo.FindAll(ctx,
		specification.ByUserId{UserId: userId},
		specification.ByStatus{Status: entity.TaskStatusPending},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasksToResponses(tasks), nil
}

// GetTaskHistory returns the most recently completed reminders.
func (ts *taskService) GetTaskHistory(ctx context.Context, userId uuid.UUID) ([]*dto.TaskResponse, error) {
	tasks, err := ts.taskRepo.FindAll(ctx,
		specification.ByUserId{UserId: userId},
		specification.ByStatus{Status: entity.TaskStatusDone},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: constant.TaskHistoryLimit},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list task history: %w", err)
	}
	return tasksToResponses(tasks), nil
}

func (ts *taskService) findOwnedTask(ctx context.Context, userId uuid.UUID, taskId uuid.UUID) (*entity.Task, error) {
	task, err := ts.taskRepo.FindOne(ctx,
		specification.ByID{ID: taskId},
		specification.ByUserId{UserId: userId},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch task: %w", err)
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

func tasksToResponses(tasks []*entity.Task) []*dto.TaskResponse {
	responses := make([]*dto.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, taskToResponse(task))
	}
	return responses
}

func taskToResponse(task *entity.Task) *dto.TaskResponse {
	return &dto.TaskResponse{
		Id:        task.Id,
		Content:   task.Content,
		DueDate:   task.DueDateStr,
		Status:    task.Status,
		CreatedAt: task.CreatedAt,
	}
}
