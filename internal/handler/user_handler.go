package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"acquisition/internal/auth"
	"acquisition/internal/errors"
	"acquisition/internal/model"
	"acquisition/internal/service"
)

// UserHandler handles user management endpoints.
type UserHandler struct {
	users service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(users service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// UpdateUserRequest represents a partial user update. Absent fields are left
// untouched.
type UpdateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=255"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Password *string `json:"password" validate:"omitempty,min=6,max=128"`
	Role     *string `json:"role" validate:"omitempty,oneof=user admin"`
}

// UserResponse wraps a single user.
type UserResponse struct {
	Message string      `json:"message"`
	User    *model.User `json:"user"`
}

// UsersResponse wraps a user listing.
type UsersResponse struct {
	Message string       `json:"message"`
	Users   []model.User `json:"users"`
	Count   int          `json:"count"`
}

// currentClaims returns the verified claims the auth middleware stored on
// the context, or nil for an anonymous request.
func currentClaims(c echo.Context) *auth.Claims {
	claims, _ := c.Get("user").(*auth.Claims)
	return claims
}

// targetID parses and validates the :id route parameter.
func targetID(c echo.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

// respondError maps a domain error to the structured error response.
func respondError(c echo.Context, err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	if httpErr.StatusCode == http.StatusInternalServerError {
		slog.Error("request failed", "error", err, "path", c.Path())
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func badID() error {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: "invalid user id",
		Code:  "VALIDATION_FAILED",
	})
}

// ListUsers godoc
// @Summary List all users
// @Tags users
// @Produce json
// @Success 200 {object} UsersResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	if err := auth.Authorize(currentClaims(c), 0, auth.ActionAdminOnly, false); err != nil {
		return respondError(c, err)
	}

	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, UsersResponse{
		Message: "Users fetched successfully",
		Users:   users,
		Count:   len(users),
	})
}

// GetUser godoc
// @Summary Get user by id
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, ok := targetID(c)
	if !ok {
		return badID()
	}
	if err := auth.Authorize(currentClaims(c), id, auth.ActionReadSelfOrAdmin, false); err != nil {
		return respondError(c, err)
	}

	user, err := h.users.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, UserResponse{Message: "User fetched successfully", User: user})
}

// UpdateUser godoc
// @Summary Update user
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body UpdateUserRequest true "Fields to update"
// @Success 200 {object} UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, ok := targetID(c)
	if !ok {
		return badID()
	}

	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "VALIDATION_FAILED",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_FAILED",
		})
	}

	claims := currentClaims(c)
	if err := auth.Authorize(claims, id, auth.ActionWriteSelfOrAdmin, req.Role != nil); err != nil {
		return respondError(c, err)
	}

	user, err := h.users.Update(c.Request().Context(), id, service.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return respondError(c, err)
	}

	slog.Info("user updated", "user_id", id, "updated_by", claims.UserID)
	return c.JSON(http.StatusOK, UserResponse{Message: "User updated successfully", User: user})
}

// DeleteUser godoc
// @Summary Delete user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, ok := targetID(c)
	if !ok {
		return badID()
	}
	claims := currentClaims(c)
	if err := auth.Authorize(claims, id, auth.ActionAdminOnly, false); err != nil {
		return respondError(c, err)
	}

	user, err := h.users.Delete(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	slog.Info("user deleted", "user_id", id, "deleted_by", claims.UserID)
	return c.JSON(http.StatusOK, UserResponse{Message: "User deleted successfully", User: user})
}
