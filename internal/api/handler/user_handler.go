package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/debttracker/debt-api/internal/core/domain"
	"github.com/debttracker/debt-api/internal/core/ports"
)

// UserHandler serves the user management routes.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Get handles GET /user/:id.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  userResponse
// @Failure      401  {object}  messageResponse
// @Failure      403  {object}  messageResponse
// @Failure      442  {object}  messageResponse
// @Failure      500  {object}  messageResponse
// @Router       /user/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.service.Get(c.Request().Context(), caller, c.Param("id"))
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return c.JSON(statusInvalidInput, msg("user not found"))
	case errors.Is(err, domain.ErrForbidden):
		return forbidden(c, "access denied")
	case err != nil:
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: user})
}

// List handles GET /users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  usersResponse
// @Failure      401  {object}  messageResponse
// @Failure      403  {object}  messageResponse
// @Failure      500  {object}  messageResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}

	users, err := h.service.List(c.Request().Context(), caller)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return forbidden(c, "access denied")
		}
		return err
	}
	if users == nil {
		users = []*domain.User{}
	}
	return c.JSON(http.StatusOK, usersResponse{Users: users})
}

// Update handles PUT /user/:id. Every body field is optional.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  userMessageResponse
// @Failure      401   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Failure      422   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /user/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, msg("invalid payload"))
	}

	user, err := h.service.Update(c.Request().Context(), caller, c.Param("id"), ports.UpdateUserInput{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, msg("user not found"))
		case errors.Is(err, domain.ErrForbidden):
			if req.Role != "" && caller.ID == c.Param("id") {
				return forbidden(c, "only administrators can change a user's role")
			}
			return forbidden(c, "access denied")
		case errors.Is(err, domain.ErrUserExists):
			return c.JSON(http.StatusUnprocessableEntity, msg("username already taken"))
		case errors.Is(err, domain.ErrInvalidRole):
			return c.JSON(http.StatusUnprocessableEntity, msg(err.Error()))
		}
		return err
	}
	return c.JSON(http.StatusOK, userMessageResponse{Msg: "user updated", User: user})
}

// Delete handles DELETE /user/:id and removes the user's debts with it.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  messageResponse
// @Failure      403  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Failure      500  {object}  messageResponse
// @Router       /user/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}

	err = h.service.Delete(c.Request().Context(), caller, c.Param("id"))
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, msg("user not found"))
	case errors.Is(err, domain.ErrForbidden):
		return forbidden(c, "access denied")
	case err != nil:
		return err
	}
	return c.JSON(http.StatusOK, msg("user and their debts were deleted"))
}
