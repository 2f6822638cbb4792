package adminapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/stationeryhq/stationery-server/internal/auth"
)

type registerPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginPayload struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) registerAdmin(c echo.Context) error {
	var payload registerPayload
	if err := c.Bind(&payload); err != nil {
		return err
	}
	if err := c.Validate(&payload); err != nil {
		return err
	}

	admin, err := h.creds.Register(c.Request().Context(), payload.Email, payload.Password)
	switch {
	case errors.Is(err, auth.ErrDuplicateEmail):
		return fail(c, http.StatusBadRequest, "Admin with this email already exists")
	case errors.Is(err, auth.ErrBadEmail), errors.Is(err, auth.ErrShortPassword):
		return fail(c, http.StatusBadRequest, err.Error())
	case err != nil:
		zap.L().Error("admin registration failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Server error during admin registration")
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Admin user registered successfully",
		"adminId": strconv.FormatInt(admin.ID, 10),
	})
}

func (h *Handler) login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return err
	}
	if err := c.Validate(&payload); err != nil {
		return err
	}

	token, admin, err := h.tokens.Login(c.Request().Context(), payload.Email, payload.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return fail(c, http.StatusUnauthorized, "Invalid credentials")
	case err != nil:
		zap.L().Error("admin login failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Server error during admin login")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Login successful",
		"token":   token,
		"admin": echo.Map{
			"id":    strconv.FormatInt(admin.ID, 10),
			"email": admin.Email,
			"role":  admin.Role,
		},
	})
}
