package wallet

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/tienvum1/Rentzy--sub001/app/echoServer/jwtx"
	ws "github.com/tienvum1/Rentzy--sub001/service/wallet"
)

type Controller struct {
	Svc ws.Service
	V   *validator.Validate
	Log *slog.Logger
}

func walletErr(c echo.Context, log *slog.Logger, op string, err error) error {
	switch ws.Code(err) {
	case ws.ErrValidation:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request"})
	case ws.ErrInsufficientFunds:
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": "insufficient balance"})
	case ws.ErrInvalidState:
		return c.JSON(http.StatusConflict, echo.Map{"message": "operation not allowed in current state"})
	case ws.ErrForbidden:
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	case ws.ErrNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": "not found"})
	case ws.ErrGatewayUnavailable:
		return c.JSON(http.StatusBadGateway, echo.Map{"message": "payment gateway unavailable, retry later"})
	default:
		log.Error(op, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
}

// GET /v1/wallet
func (h *Controller) Balance(c echo.Context) error {
	actor, err := jwtx.ActorFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	w, err := h.Svc.Balance(c.Request().Context(), actor.ID)
	if err != nil {
		return walletErr(c, h.Log, "wallet balance", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": w})
}

// GET /v1/wallet/ledger
func (h *Controller) Ledger(c echo.Context) error {
	actor, err := jwtx.ActorFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	rows, err := h.Svc.Ledger(c.Request().Context(), actor.ID)
	if err != nil {
		return walletErr(c, h.Log, "wallet ledger", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// POST /v1/wallet/topups
// @Summary Create a gateway top-up, returns the payment link
func (h *Controller) Topup(c echo.Context) error {
	var req AmountReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error"})
	}
	actor, err := jwtx.ActorFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	res, err := h.Svc.Topup(c.Request().Context(), actor.ID, req.Amount)
	if err != nil {
		return walletErr(c, h.Log, "wallet topup", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"data": res})
}

// POST /v1/wallet/withdrawals
func (h *Controller) RequestWithdrawal(c echo.Context) error {
	var req AmountReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error"})
	}
	actor, err := jwtx.ActorFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	entry, err := h.Svc.RequestWithdrawal(c.Request().Context(), actor.ID, req.Amount)
	if err != nil {
		return walletErr(c, h.Log, "withdrawal request", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"data": entry})
}

// POST /v1/wallet/withdrawals/:id/review  (admin)
func (h *Controller) ReviewWithdrawal(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req ReviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	actor, err := jwtx.ActorFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	if err := h.Svc.ReviewWithdrawal(c.Request().Context(), actor, id, req.Approve); err != nil {
		return walletErr(c, h.Log, "withdrawal review", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "reviewed"})
}
