package controller

import (
	"errors"
	"net/http"

	dto "todoapi/app/dto/http"
	"todoapi/app/middleware"
	"todoapi/app/service"
	"todoapi/app/validation"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type UserController struct {
	userService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{userService: userService}
}

func (c *UserController) Me(ctx echo.Context) error {
	userID, ok := ctx.Get(middleware.ContextUserID).(uint64)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse("unauthorized"))
	}

	result, err := c.userService.GetWithTodos(ctx.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return ctx.JSON(http.StatusNotFound, dto.NewErrorResponse("user not found"))
		}
		logrus.WithError(err).Error("user lookup failed")
		return ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse("internal server error"))
	}

	return ctx.JSON(http.StatusOK, dto.UserWithTodosResponse{
		Status: dto.StatusOK,
		User:   dto.NewUserPayload(result.User),
		Todos:  dto.NewTodoPayloads(result.Todos),
	})
}

func (c *UserController) Update(ctx echo.Context) error {
	userID, err := c.authorizedSubject(ctx)
	if err != nil {
		return err
	}
	if userID == 0 {
		return nil
	}

	var req dto.UpdateUserRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid request body"))
	}
	if err := ctx.Validate(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(validation.Messages(err)))
	}

	user, err := c.userService.Update(ctx.Request().Context(), userID, req.FullName, req.Username, req.Email, req.Gender)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			return ctx.JSON(http.StatusNotFound, dto.NewErrorResponse("user not found"))
		case errors.Is(err, service.ErrUserExists):
			return ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("username or email already exists"))
		}
		logrus.WithError(err).Error("user update failed")
		return ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse("internal server error"))
	}

	return ctx.JSON(http.StatusOK, dto.UserResponse{
		Status:  dto.StatusOK,
		Message: "user updated successfully",
		User:    dto.NewUserPayload(user),
	})
}

func (c *UserController) Delete(ctx echo.Context) error {
	userID, err := c.authorizedSubject(ctx)
	if err != nil {
		return err
	}
	if userID == 0 {
		return nil
	}

	if err := c.userService.Delete(ctx.Request().Context(), userID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return ctx.JSON(http.StatusNotFound, dto.NewErrorResponse("user not found"))
		}
		logrus.WithError(err).Error("user deletion failed")
		return ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse("internal server error"))
	}

	return ctx.JSON(http.StatusOK, dto.MessageResponse{
		Status:  dto.StatusOK,
		Message: "user deleted successfully",
	})
}

// authorizedSubject resolves the :id path parameter and enforces that
// it names the authenticated subject. On failure the response has
// already been written and the returned id is 0.
func (c *UserController) authorizedSubject(ctx echo.Context) (uint64, error) {
	subject, ok := ctx.Get(middleware.ContextUserID).(uint64)
	if !ok {
		return 0, ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse("unauthorized"))
	}

	id, err := parseID(ctx)
	if err != nil {
		return 0, ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid user id"))
	}

	if id != subject {
		return 0, ctx.JSON(http.StatusForbidden, dto.NewErrorResponse("forbidden"))
	}

	return id, nil
}
