package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"recipebox/internal/auth"
	apperrors "recipebox/internal/errors"
	"recipebox/internal/service"
)

// UserHandler handles account management endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UpdateUserRequest represents a profile update.
type UpdateUserRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// UpdatePushTokenRequest carries the opaque push token of the caller's device.
type UpdatePushTokenRequest struct {
	PushToken string `json:"pushToken" validate:"required"`
}

// GetAllUsers godoc
// @Summary List all users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response
// @Failure 401 {object} ErrorResponse
// @Router /users/getAllUsers [get]
func (h *UserHandler) GetAllUsers(c echo.Context) error {
	users, err := h.userService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, users, "User data retrieved successfully")
}

// Update godoc
// @Summary Update a user's name and email
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body UpdateUserRequest true "Profile fields"
// @Success 200 {object} Response
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /users/update/{id} [patch]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.ErrUserNotFound
	}

	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrValidation
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.ErrValidation
	}

	user, err := h.userService.Update(c.Request().Context(), id, req.Name, req.Email)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, user, "User updated successfully")
}

// Delete godoc
// @Summary Delete a user account
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} Response
// @Failure 404 {object} ErrorResponse
// @Router /users/delete/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.ErrUserNotFound
	}

	user, err := h.userService.Delete(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, user, "User deleted successfully")
}

// UpdatePushToken godoc
// @Summary Store the caller's push notification token
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdatePushTokenRequest true "Push token"
// @Success 200 {object} Response
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /users/updatePushToken [patch]
func (h *UserHandler) UpdatePushToken(c echo.Context) error {
	identity := auth.CurrentUser(c)

	var req UpdatePushTokenRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrValidation
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.ErrValidation
	}

	user, err := h.userService.UpdatePushToken(c.Request().Context(), identity.ID, req.PushToken)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, user, "Push token updated successfully")
}
