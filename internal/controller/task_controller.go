package controller

import (
	"errors"

	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/pkg/serverutils"
	"ai-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ITaskController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	MarkDone(ctx *fiber.Ctx) error
	GetPending(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
}

type taskController struct {
	taskService service.ITaskService
}

func NewTaskController(taskService service.ITaskService) ITaskController {
	return &taskController{
		taskService: taskService,
	}
}

func (c *taskController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/tasks")
	h.Use(serverutils.IdentityMiddleware)
	h.Post("", c.Create)
	h.Get("", c.GetPending)
	h.Get("history", c.GetHistory)
	h.Put(":id", c.Update)
	h.Put(":id/done", c.MarkDone)
}

func (c *taskController) Create(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.CreateTaskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.taskService.CreateTask(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create task", res))
}

func (c *taskController) Update(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	taskId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid task ID format")
	}

	var req dto.UpdateTaskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if req.Content == nil && req.DueDate == nil {
		return fiber.NewError(fiber.StatusBadRequest, "No data provided to update")
	}

	if err := c.taskService.UpdateTask(ctx.Context(), userId, taskId, &req); err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Task not found")
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success update task", nil))
}

func (c *taskController) MarkDone(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	taskId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid task ID format")
	}

	if err := c.taskService.MarkTaskDone(ctx.Context(), userId, taskId); err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Task not found")
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success mark task done", nil))
}

func (c *taskController) GetPending(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.taskService.GetPendingTasks(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list pending tasks", res))
}

func (c *taskController) GetHistory(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.taskService.GetTaskHistory(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list task history", res))
}
