package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"userhub/internal/auth"
	apperrors "userhub/internal/errors"
	"userhub/internal/service"
	"userhub/internal/validation"
)

// UserHandler bundles the users HTTP handlers. Reads are public by
// policy; mutations require a verified session cookie and pass the
// self-or-admin authorization check before reaching the service.
type UserHandler struct {
	svc service.UserService
	jwt *auth.JWTService
	log *zap.Logger
}

// NewUserHandler creates the handler layer.
func NewUserHandler(svc service.UserService, jwt *auth.JWTService, log *zap.Logger) *UserHandler {
	return &UserHandler{svc: svc, jwt: jwt, log: log}
}

// sessionClaims extracts and verifies the session token from the
// request cookies. It returns nil when the cookie is absent or the
// token does not verify.
func (h *UserHandler) sessionClaims(c echo.Context) *auth.Claims {
	token, ok := auth.ReadSessionCookie(c)
	if !ok {
		return nil
	}
	claims, err := h.jwt.VerifyToken(token)
	if err != nil {
		return nil
	}
	return claims
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	h.log.Info("getting users")

	users, err := h.svc.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Successfully retrieved users",
		"users":   users,
		"count":   len(users),
	})
}

// GetUser godoc
// @Summary Get user by id
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, verr := validation.ParseUserID(c.Param("id"))
	if verr != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Error: "Validation failed", Details: verr.Details})
	}
	h.log.Info("getting user by id", zap.Uint("id", id))

	user, err := h.svc.GetUser(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, apperrors.ErrorResponse{Error: "User not found"})
		}
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Successfully retrieved user",
		"user":    user,
	})
}

// UpdateUser godoc
// @Summary Update user by id
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param body body map[string]interface{} true "Partial update"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [patch]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, verr := validation.ParseUserID(c.Param("id"))
	if verr != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Error: "Validation failed", Details: verr.Details})
	}

	// Decode the body directly: the payload validator must see the raw
	// key set to reject unrecognized fields.
	var payload map[string]interface{}
	if err := json.NewDecoder(c.Request().Body).Decode(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{
			Error:   "Validation failed",
			Details: []apperrors.FieldError{{Field: "body", Message: "request body must be a JSON object"}},
		})
	}
	upd, verr := validation.ParseUserUpdate(payload)
	if verr != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Error: "Validation failed", Details: verr.Details})
	}

	claims := h.sessionClaims(c)
	if d := auth.Decide(claims, id, upd.TouchesRole()); !d.Allowed {
		return denyResponse(c, d)
	}

	h.log.Info("updating user",
		zap.Uint("id", id),
		zap.Uint("caller_id", claims.UserID),
		zap.String("caller_role", claims.Role))

	user, err := h.svc.UpdateUser(c.Request().Context(), id, upd)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, apperrors.ErrorResponse{Error: "User not found"})
		}
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "User updated successfully",
		"user":    user,
	})
}

// DeleteUser godoc
// @Summary Delete user by id
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, verr := validation.ParseUserID(c.Param("id"))
	if verr != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Error: "Validation failed", Details: verr.Details})
	}

	claims := h.sessionClaims(c)
	if d := auth.Decide(claims, id, false); !d.Allowed {
		return denyResponse(c, d)
	}

	h.log.Info("deleting user",
		zap.Uint("id", id),
		zap.Uint("caller_id", claims.UserID),
		zap.String("caller_role", claims.Role))

	if _, err := h.svc.DeleteUser(c.Request().Context(), id); err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, apperrors.ErrorResponse{Error: "User not found"})
		}
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "User deleted successfully",
	})
}

// denyResponse translates a policy denial into its terminal response.
func denyResponse(c echo.Context, d auth.Decision) error {
	if d.Reason == auth.Unauthenticated {
		return c.JSON(http.StatusUnauthorized, apperrors.ErrorResponse{Error: "Unauthorized"})
	}
	return c.JSON(http.StatusForbidden, apperrors.ErrorResponse{Error: "Forbidden: " + d.Message})
}
