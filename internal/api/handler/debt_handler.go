package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/debttracker/debt-api/internal/api/metrics"
	"github.com/debttracker/debt-api/internal/core/domain"
	"github.com/debttracker/debt-api/internal/core/ports"
)

// HeaderIdempotencyKey lets clients retry POST /debts/add safely.
const HeaderIdempotencyKey = "Idempotency-Key"

// DebtHandler serves the debt routes.
type DebtHandler struct {
	service ports.DebtService
}

func NewDebtHandler(service ports.DebtService) *DebtHandler {
	return &DebtHandler{service: service}
}

// Create handles POST /debts/add.
//
// @Summary      Create a debt for a user
// @Tags         debts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string             false  "Client supplied key for safe retries"
// @Param        body             body      createDebtRequest  true   "Debt"
// @Success      201              {object}  debtMessageResponse
// @Failure      401              {object}  messageResponse
// @Failure      403              {object}  messageResponse
// @Failure      422              {object}  messageResponse
// @Failure      500              {object}  messageResponse
// @Router       /debts/add [post]
func (h *DebtHandler) Create(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var req createDebtRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, msg("invalid payload"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, msg(domain.ErrValidation.Error()))
	}
	due, err := domain.ParseDueDate(req.DueDate)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, msg(err.Error()))
	}

	res, err := h.service.Create(c.Request().Context(), caller, ports.CreateDebtInput{
		OwnerID:        req.UserID,
		Name:           req.Name,
		Value:          req.Value,
		DueDate:        due,
		IdempotencyKey: c.Request().Header.Get(HeaderIdempotencyKey),
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			return forbidden(c, "access denied: administrators only")
		case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrOwnerNotFound):
			return c.JSON(http.StatusUnprocessableEntity, msg(err.Error()))
		}
		return err
	}

	metrics.DebtsCreatedTotal.WithLabelValues(strconv.FormatBool(res.AlreadyExisted)).Inc()
	return c.JSON(http.StatusCreated, debtMessageResponse{Msg: "debt created", Debt: res.Debt})
}

// List handles GET /debts/:userId. Admins receive every debt.
//
// @Summary      List debts
// @Tags         debts
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "Owner id"
// @Success      200     {object}  debtsResponse
// @Failure      401     {object}  messageResponse
// @Failure      403     {object}  messageResponse
// @Failure      500     {object}  messageResponse
// @Router       /debts/{userId} [get]
func (h *DebtHandler) List(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}

	debts, err := h.service.List(c.Request().Context(), caller, c.Param("userId"))
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return forbidden(c, "access denied")
		}
		return err
	}
	if debts == nil {
		debts = []*domain.Debt{}
	}
	return c.JSON(http.StatusOK, debtsResponse{Debts: debts})
}

// UpdateStatus handles PUT /debts/:debtId.
//
// @Summary      Change a debt's status
// @Tags         debts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        debtId  path      string               true  "Debt id"
// @Param        body    body      updateStatusRequest  true  "pending, scheduled or paid"
// @Success      200     {object}  debtMessageResponse
// @Failure      401     {object}  messageResponse
// @Failure      403     {object}  messageResponse
// @Failure      404     {object}  messageResponse
// @Failure      422     {object}  messageResponse
// @Failure      500     {object}  messageResponse
// @Router       /debts/{debtId} [put]
func (h *DebtHandler) UpdateStatus(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, msg("invalid payload"))
	}

	debt, err := h.service.UpdateStatus(c.Request().Context(), caller, c.Param("debtId"), domain.DebtStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidStatus):
			return c.JSON(http.StatusUnprocessableEntity, msg(err.Error()))
		case errors.Is(err, domain.ErrDebtNotFound):
			return c.JSON(http.StatusNotFound, msg("debt not found"))
		case errors.Is(err, domain.ErrForbidden):
			return forbidden(c, "access denied")
		}
		return err
	}

	metrics.DebtStatusUpdatesTotal.WithLabelValues(string(debt.Status)).Inc()
	return c.JSON(http.StatusOK, debtMessageResponse{Msg: "status updated", Debt: debt})
}

// Edit handles PUT /debts/:debtId/edit, replacing every field.
//
// @Summary      Edit a debt
// @Tags         debts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        debtId  path      string           true  "Debt id"
// @Param        body    body      editDebtRequest  true  "Complete debt"
// @Success      200     {object}  debtMessageResponse
// @Failure      401     {object}  messageResponse
// @Failure      403     {object}  messageResponse
// @Failure      404     {object}  messageResponse
// @Failure      422     {object}  messageResponse
// @Failure      500     {object}  messageResponse
// @Router       /debts/{debtId}/edit [put]
func (h *DebtHandler) Edit(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var req editDebtRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, msg("invalid payload"))
	}

	// A bad date is reported only after the caller has been authorized.
	due, dueErr := domain.ParseDueDate(req.DueDate)

	debt, err := h.service.Edit(c.Request().Context(), caller, c.Param("debtId"), ports.EditDebtInput{
		OwnerID: req.UserID,
		Name:    req.Name,
		Value:   req.Value,
		DueDate: due,
		Status:  domain.DebtStatus(req.Status),
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			return forbidden(c, "only administrators can edit debts")
		case errors.Is(err, domain.ErrValidation):
			if dueErr != nil && req.DueDate != "" {
				return c.JSON(http.StatusUnprocessableEntity, msg(dueErr.Error()))
			}
			return c.JSON(http.StatusUnprocessableEntity, msg(err.Error()))
		case errors.Is(err, domain.ErrInvalidStatus), errors.Is(err, domain.ErrOwnerNotFound):
			return c.JSON(http.StatusUnprocessableEntity, msg(err.Error()))
		case errors.Is(err, domain.ErrDebtNotFound):
			return c.JSON(http.StatusNotFound, msg("debt not found"))
		}
		return err
	}
	return c.JSON(http.StatusOK, debtMessageResponse{Msg: "debt updated", Debt: debt})
}

// Delete handles DELETE /debts/:debtId. Deleting an unknown debt succeeds.
//
// @Summary      Delete a debt
// @Tags         debts
// @Produce      json
// @Security     BearerAuth
// @Param        debtId  path      string  true  "Debt id"
// @Success      200     {object}  messageResponse
// @Failure      401     {object}  messageResponse
// @Failure      403     {object}  messageResponse
// @Failure      500     {object}  messageResponse
// @Router       /debts/{debtId} [delete]
func (h *DebtHandler) Delete(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), caller, c.Param("debtId")); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return forbidden(c, "access denied: administrators only")
		}
		return err
	}
	return c.JSON(http.StatusOK, msg("debt deleted"))
}
