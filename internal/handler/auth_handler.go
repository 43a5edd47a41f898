package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"acquisition/internal/auth"
	"acquisition/internal/config"
	"acquisition/internal/errors"
	"acquisition/internal/model"
	"acquisition/internal/service"
)

// AuthHandler handles sign-up, sign-in and sign-out endpoints.
type AuthHandler struct {
	users service.UserService
	jwt   *auth.JWTService
	cfg   *config.Config
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(users service.UserService, jwt *auth.JWTService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{users: users, jwt: jwt, cfg: cfg}
}

// SignUpRequest represents a user registration request.
type SignUpRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=128"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

// SignInRequest represents a user login request.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents a successful authentication response.
type AuthResponse struct {
	Message string      `json:"message"`
	User    *model.User `json:"user"`
}

// MessageResponse represents a plain message response.
type MessageResponse struct {
	Message string `json:"message"`
}

// SignUp godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignUpRequest true "Registration data"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/sign-up [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req SignUpRequest
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

	user, err := h.users.Create(c.Request().Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		if err == errors.ErrEmailAlreadyExists {
			return echo.NewHTTPError(http.StatusConflict, errors.ErrorResponse{
				Error: "email already in use",
				Code:  "EMAIL_ALREADY_EXISTS",
			})
		}
		slog.Error("sign-up failed", "error", err, "email", req.Email)
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "unable to create user",
			Code:  "INTERNAL_ERROR",
		})
	}

	token, err := h.jwt.Sign(user.ID, user.Name, user.Email, user.Role)
	if err != nil {
		slog.Error("token signing failed", "error", err, "user_id", user.ID)
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "unable to create user",
			Code:  "INTERNAL_ERROR",
		})
	}
	auth.SetTokenCookie(c, token, h.cfg.IsProduction())

	slog.Info("user registered", "user_id", user.ID, "email", user.Email)
	return c.JSON(http.StatusCreated, AuthResponse{Message: "User registered", User: user})
}

// SignIn godoc
// @Summary Authenticate a user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignInRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/sign-in [post]
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req SignInRequest
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

	user, err := h.users.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if err == errors.ErrInvalidCredentials {
			slog.Warn("sign-in failed", "email", req.Email, "remote_addr", c.RealIP())
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
				Error: "invalid email or password",
				Code:  "INVALID_CREDENTIALS",
			})
		}
		slog.Error("sign-in failed", "error", err, "email", req.Email)
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "unable to authenticate user",
			Code:  "INTERNAL_ERROR",
		})
	}

	token, err := h.jwt.Sign(user.ID, user.Name, user.Email, user.Role)
	if err != nil {
		slog.Error("token signing failed", "error", err, "user_id", user.ID)
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "unable to authenticate user",
			Code:  "INTERNAL_ERROR",
		})
	}
	auth.SetTokenCookie(c, token, h.cfg.IsProduction())

	slog.Info("user signed in", "user_id", user.ID, "email", user.Email)
	return c.JSON(http.StatusOK, AuthResponse{Message: "User signed in", User: user})
}

// SignOut godoc
// @Summary Sign out the current user
// @Tags auth
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /auth/sign-out [post]
func (h *AuthHandler) SignOut(c echo.Context) error {
	// Best-effort decode of any existing token, purely for the audit log.
	// Sign-out never fails on a missing or invalid token.
	email := "unknown"
	if token, ok := auth.ReadTokenCookie(c); ok {
		if claims, err := h.jwt.Verify(token); err == nil {
			email = claims.Email
		} else {
			slog.Warn("invalid token during sign-out", "error", err, "remote_addr", c.RealIP())
		}
	}

	auth.ClearTokenCookie(c, h.cfg.IsProduction())

	slog.Info("user signed out", "email", email)
	return c.JSON(http.StatusOK, MessageResponse{Message: "User signed out successfully"})
}
