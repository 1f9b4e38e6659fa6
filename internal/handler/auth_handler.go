package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"userhub/internal/auth"
	apperrors "userhub/internal/errors"
	"userhub/internal/service"
)

// AuthHandler handles the session-issuing endpoints. Sign-up and
// sign-in set the token cookie the users module consumes.
type AuthHandler struct {
	authService  service.AuthService
	cookieSecure bool
	log          *zap.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, cookieSecure bool, log *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, cookieSecure: cookieSecure, log: log}
}

// SignUpRequest represents a user registration request.
type SignUpRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

// SignInRequest represents a user sign-in request.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignUp godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignUpRequest true "Registration data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/sign-up [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req SignUpRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Error: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Error: err.Error()})
	}

	user, token, err := h.authService.Register(c.Request().Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserAlreadyExists) {
			return c.JSON(http.StatusConflict, apperrors.ErrorResponse{Error: "User already exists"})
		}
		return err
	}

	auth.WriteSessionCookie(c, token, h.cookieSecure)
	h.log.Info("user registered", zap.Uint("id", user.ID), zap.String("email", user.Email))
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "User registered successfully",
		"user":    user,
	})
}

// SignIn godoc
// @Summary Sign in a user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignInRequest true "Credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/sign-in [post]
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req SignInRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Error: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Error: err.Error()})
	}

	user, token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, apperrors.ErrorResponse{Error: "Invalid email or password"})
		}
		return err
	}

	auth.WriteSessionCookie(c, token, h.cookieSecure)
	h.log.Info("user signed in", zap.Uint("id", user.ID))
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Signed in successfully",
		"user":    user,
	})
}

// SignOut godoc
// @Summary Sign out the current user
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /auth/sign-out [post]
func (h *AuthHandler) SignOut(c echo.Context) error {
	auth.ClearSessionCookie(c)
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Signed out successfully",
	})
}
