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

type AuthController struct {
	authService  *service.AuthService
	resetService *service.PasswordResetService
}

func NewAuthController(authService *service.AuthService, resetService *service.PasswordResetService) *AuthController {
	return &AuthController{
		authService:  authService,
		resetService: resetService,
	}
}

func (c *AuthController) Register(ctx echo.Context) error {
	var req dto.RegisterRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid request body"))
	}
	if err := ctx.Validate(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(validation.Messages(err)))
	}

	result, err := c.authService.Register(ctx.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			return ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("username or email already exists"))
		}
		logrus.WithError(err).Error("registration failed")
		return ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse("internal server error"))
	}

	return ctx.JSON(http.StatusCreated, dto.RegisterResponse{
		Status:  dto.StatusOK,
		Message: "registration successful",
		User:    dto.NewUserPayload(result.User),
		Token:   result.Token,
	})
}

func (c *AuthController) Login(ctx echo.Context) error {
	var req dto.LoginRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid request body"))
	}
	if err := ctx.Validate(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(validation.Messages(err)))
	}

	result, err := c.authService.Login(ctx.Request().Context(), req.Identifier, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse("invalid credentials"))
		}
		logrus.WithError(err).Error("login failed")
		return ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse("internal server error"))
	}

	return ctx.JSON(http.StatusOK, dto.LoginResponse{
		Status:      dto.StatusOK,
		Message:     "login successful",
		User:        dto.NewUserPayload(result.User),
		AccessToken: result.AccessToken,
		ExpiresIn:   result.ExpiresIn,
	})
}

func (c *AuthController) Logout(ctx echo.Context) error {
	userID, ok := ctx.Get(middleware.ContextUserID).(uint64)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse("unauthorized"))
	}
	accessToken, _ := ctx.Get(middleware.ContextAccessToken).(string)

	if err := c.authService.Logout(ctx.Request().Context(), userID, accessToken); err != nil {
		switch {
		case errors.Is(err, service.ErrMissingCredential):
			return ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("missing credential"))
		case errors.Is(err, service.ErrUserNotFound):
			return ctx.JSON(http.StatusNotFound, dto.NewErrorResponse("user not found"))
		}
		logrus.WithError(err).Error("logout failed")
		return ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse("internal server error"))
	}

	return ctx.JSON(http.StatusOK, dto.MessageResponse{
		Status:  dto.StatusOK,
		Message: "successfully logged out",
	})
}

func (c *AuthController) RefreshToken(ctx echo.Context) error {
	var req dto.RefreshTokenRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid request body"))
	}
	if req.UserID == 0 {
		return ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("userId is required"))
	}

	result, err := c.authService.Refresh(ctx.Request().Context(), req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			return ctx.JSON(http.StatusNotFound, dto.NewErrorResponse("user not found"))
		case errors.Is(err, service.ErrNoSession):
			return ctx.JSON(http.StatusForbidden, dto.NewErrorResponse("no active session"))
		case errors.Is(err, service.ErrSessionRevoked):
			return ctx.JSON(http.StatusForbidden, dto.NewErrorResponse("session has been revoked"))
		case errors.Is(err, service.ErrInvalidSession):
			return ctx.JSON(http.StatusForbidden, dto.NewErrorResponse("invalid or expired session"))
		}
		logrus.WithError(err).Error("token refresh failed")
		return ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse("internal server error"))
	}

	return ctx.JSON(http.StatusOK, dto.RefreshTokenResponse{
		Status:      dto.StatusOK,
		AccessToken: result.AccessToken,
		ExpiresIn:   result.ExpiresIn,
	})
}

func (c *AuthController) ForgotPassword(ctx echo.Context) error {
	var req dto.ForgotPasswordRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid request body"))
	}
	if err := ctx.Validate(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(validation.Messages(err)))
	}

	if err := c.resetService.RequestReset(ctx.Request().Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			return ctx.JSON(http.StatusNotFound, dto.NewErrorResponse("user not found"))
		case errors.Is(err, service.ErrNotificationFailed):
			logrus.WithError(err).Error("reset notification dispatch failed")
			return ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to send reset email"))
		}
		logrus.WithError(err).Error("password reset request failed")
		return ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse("internal server error"))
	}

	return ctx.JSON(http.StatusOK, dto.MessageResponse{
		Status:  dto.StatusOK,
		Message: "password reset email has been sent",
	})
}

func (c *AuthController) VerifyResetToken(ctx echo.Context) error {
	token := ctx.Param("token")
	if token == "" {
		return ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("token is required"))
	}

	status, err := c.resetService.VerifyResetToken(ctx.Request().Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrResetTokenNotFound):
			return ctx.JSON(http.StatusNotFound, dto.NewErrorResponse("reset token not found"))
		case errors.Is(err, service.ErrResetTokenUsed):
			return ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse("reset token has already been used"))
		case errors.Is(err, service.ErrResetTokenExpired):
			return ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse("reset token has expired"))
		}
		logrus.WithError(err).Error("reset token verification failed")
		return ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse("internal server error"))
	}

	return ctx.JSON(http.StatusOK, dto.VerifyResetTokenResponse{
		Status:    dto.StatusOK,
		Message:   "reset token is valid",
		CreatedAt: status.CreatedAt,
	})
}

func (c *AuthController) ResetPassword(ctx echo.Context) error {
	token := ctx.Param("token")
	if token == "" {
		return ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("token is required"))
	}

	var req dto.ResetPasswordRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid request body"))
	}
	if err := ctx.Validate(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(validation.Messages(err)))
	}

	if err := c.resetService.ResetPassword(ctx.Request().Context(), token, req.Password); err != nil {
		switch {
		case errors.Is(err, service.ErrResetTokenNotFound), errors.Is(err, service.ErrUserNotFound):
			return ctx.JSON(http.StatusNotFound, dto.NewErrorResponse("reset token not found"))
		case errors.Is(err, service.ErrResetTokenUsed):
			return ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse("reset token has already been used"))
		case errors.Is(err, service.ErrResetTokenExpired):
			return ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse("reset token has expired"))
		case errors.Is(err, service.ErrPasswordReused):
			return ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("new password must differ from the current password"))
		}
		logrus.WithError(err).Error("password reset failed")
		return ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse("internal server error"))
	}

	return ctx.JSON(http.StatusOK, dto.MessageResponse{
		Status:  dto.StatusOK,
		Message: "password reset successfully",
	})
}
