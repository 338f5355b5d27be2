package controller

import (
	"errors"
	"net/http"
	"strconv"

	dto "todoapi/app/dto/http"
	"todoapi/app/middleware"
	"todoapi/app/service"
	"todoapi/app/validation"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type TodoController struct {
	todoService *service.TodoService
}

func NewTodoController(todoService *service.TodoService) *TodoController {
	return &TodoController{todoService: todoService}
}

func (c *TodoController) Create(ctx echo.Context) error {
	userID, ok := ctx.Get(middleware.ContextUserID).(uint64)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse("unauthorized"))
	}

	var req dto.CreateTodoRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid request body"))
	}
	if err := ctx.Validate(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(validation.Messages(err)))
	}

	todo, err := c.todoService.Create(ctx.Request().Context(), userID, req.Title, req.Description, req.IsDone)
	if err != nil {
		logrus.WithError(err).Error("todo creation failed")
		return ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse("internal server error"))
	}

	return ctx.JSON(http.StatusCreated, dto.TodoResponse{
		Status:  dto.StatusOK,
		Message: "todo created successfully",
		Todo:    dto.NewTodoPayload(todo),
	})
}

func (c *TodoController) List(ctx echo.Context) error {
	userID, ok := ctx.Get(middleware.ContextUserID).(uint64)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse("unauthorized"))
	}

	todos, err := c.todoService.List(ctx.Request().Context(), userID)
	if err != nil {
		logrus.WithError(err).Error("todo listing failed")
		return ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse("internal server error"))
	}

	return ctx.JSON(http.StatusOK, dto.TodoListResponse{
		Todos: dto.NewTodoPayloads(todos),
	})
}

func (c *TodoController) Get(ctx echo.Context) error {
	userID, ok := ctx.Get(middleware.ContextUserID).(uint64)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse("unauthorized"))
	}

	id, err := parseID(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid todo id"))
	}

	todo, err := c.todoService.Get(ctx.Request().Context(), id, userID)
	if err != nil {
		if errors.Is(err, service.ErrTodoNotFound) {
			return ctx.JSON(http.StatusNotFound, dto.NewErrorResponse("todo not found"))
		}
		logrus.WithError(err).Error("todo lookup failed")
		return ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse("internal server error"))
	}

	return ctx.JSON(http.StatusOK, dto.TodoResponse{
		Status: dto.StatusOK,
		Todo:   dto.NewTodoPayload(todo),
	})
}

func (c *TodoController) Update(ctx echo.Context) error {
	userID, ok := ctx.Get(middleware.ContextUserID).(uint64)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse("unauthorized"))
	}

	id, err := parseID(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid todo id"))
	}

	var req dto.UpdateTodoRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid request body"))
	}
	if err := ctx.Validate(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(validation.Messages(err)))
	}

	todo, err := c.todoService.Update(ctx.Request().Context(), id, userID, req.Title, req.Description, req.IsDone)
	if err != nil {
		if errors.Is(err, service.ErrTodoNotFound) {
			return ctx.JSON(http.StatusNotFound, dto.NewErrorResponse("todo not found"))
		}
		logrus.WithError(err).Error("todo update failed")
		return ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse("internal server error"))
	}

	return ctx.JSON(http.StatusOK, dto.TodoResponse{
		Status:  dto.StatusOK,
		Message: "todo updated successfully",
		Todo:    dto.NewTodoPayload(todo),
	})
}

func (c *TodoController) UpdateStatus(ctx echo.Context) error {
	userID, ok := ctx.Get(middleware.ContextUserID).(uint64)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse("unauthorized"))
	}

	id, err := parseID(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid todo id"))
	}

	var req dto.UpdateTodoStatusRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid request body"))
	}
	if req.IsDone == nil {
		return ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("isDone is required"))
	}

	todo, err := c.todoService.SetDone(ctx.Request().Context(), id, userID, *req.IsDone)
	if err != nil {
		if errors.Is(err, service.ErrTodoNotFound) {
			return ctx.JSON(http.StatusNotFound, dto.NewErrorResponse("todo not found"))
		}
		logrus.WithError(err).Error("todo status update failed")
		return ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse("internal server error"))
	}

	return ctx.JSON(http.StatusOK, dto.TodoResponse{
		Status:  dto.StatusOK,
		Message: "todo updated successfully",
		Todo:    dto.NewTodoPayload(todo),
	})
}

func (c *TodoController) Delete(ctx echo.Context) error {
	userID, ok := ctx.Get(middleware.ContextUserID).(uint64)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse("unauthorized"))
	}

	id, err := parseID(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid todo id"))
	}

	if err := c.todoService.Delete(ctx.Request().Context(), id, userID); err != nil {
		if errors.Is(err, service.ErrTodoNotFound) {
			return ctx.JSON(http.StatusNotFound, dto.NewErrorResponse("todo not found"))
		}
		logrus.WithError(err).Error("todo deletion failed")
		return ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse("internal server error"))
	}

	return ctx.JSON(http.StatusOK, dto.MessageResponse{
		Status:  dto.StatusOK,
		Message: "todo deleted successfully",
	})
}

func parseID(ctx echo.Context) (uint64, error) {
	return strconv.ParseUint(ctx.Param("id"), 10, 64)
}
