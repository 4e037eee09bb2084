package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/debttracker/debt-api/internal/api/metrics"
	"github.com/debttracker/debt-api/internal/core/domain"
	"github.com/debttracker/debt-api/internal/core/ports"
)

// statusInvalidInput is the non-standard code the API has always used for
// credential and password confirmation failures.
const statusInvalidInput = 442

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Failure      422   {object}  messageResponse
// @Failure      442   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, msg("invalid payload"))
	}
	if err := c.Validate(&req); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "rejected").Inc()
		return c.JSON(http.StatusUnprocessableEntity, msg(domain.ErrValidation.Error()))
	}

	_, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username:        req.Username,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Role:            req.Role,
	})
	if err != nil {
		status := 0
		text := err.Error()
		switch {
		case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidRole):
			status = http.StatusUnprocessableEntity
		case errors.Is(err, domain.ErrPasswordMismatch):
			status = statusInvalidInput
		case errors.Is(err, domain.ErrUserExists):
			status, text = statusInvalidInput, "username already taken, please choose another"
		case errors.Is(err, domain.ErrForbidden):
			status, text = http.StatusForbidden, "self-registration as admin is disabled"
		}
		if status == 0 {
			metrics.AuthAttemptsTotal.WithLabelValues("register", "error").Inc()
			return err
		}
		metrics.AuthAttemptsTotal.WithLabelValues("register", "rejected").Inc()
		return c.JSON(status, msg(text))
	}

	metrics.AuthAttemptsTotal.WithLabelValues("register", "success").Inc()
	return c.JSON(http.StatusCreated, msg("user created"))
}

// Login authenticates a user and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      442   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, msg("invalid payload"))
	}
	if err := c.Validate(&req); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "rejected").Inc()
		return c.JSON(statusInvalidInput, msg(err.Error()))
	}

	res, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.AuthAttemptsTotal.WithLabelValues("login", "rejected").Inc()
			return c.JSON(statusInvalidInput, msg(domain.ErrInvalidCredentials.Error()))
		}
		metrics.AuthAttemptsTotal.WithLabelValues("login", "error").Inc()
		return err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()
	return c.JSON(http.StatusOK, loginResponse{
		Msg:      "authenticated",
		Token:    res.Token,
		Role:     res.User.Role,
		UserID:   res.User.ID,
		Username: res.User.Username,
	})
}
