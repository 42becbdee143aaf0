package payment

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	momorepo "github.com/tienvum1/Rentzy--sub001/repository/momo"
	paymentsvc "github.com/tienvum1/Rentzy--sub001/service/payment"
)

type Controller struct {
	Svc paymentsvc.Service
	Log *slog.Logger
}

// POST /v1/payments/momo/ipn
// The gateway posts the result here asynchronously. The response body is
// ignored by the provider; a 204 acknowledges delivery.
func (h *Controller) HandleIPN(c echo.Context) error {
	var p momorepo.IPNPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid payload"})
	}
	return h.reconcile(c, p, http.StatusNoContent)
}

// GET /v1/payments/momo/return
// The synchronous redirect carries the same signed field set as the IPN and
// goes through the same reconciliation; whichever arrives second no-ops.
func (h *Controller) HandleReturn(c echo.Context) error {
	var p momorepo.IPNPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid payload"})
	}
	return h.reconcile(c, p, http.StatusOK)
}

func (h *Controller) reconcile(c echo.Context, p momorepo.IPNPayload, okStatus int) error {
	if err := h.Svc.Reconcile(c.Request().Context(), p); err != nil {
		switch paymentsvc.Code(err) {
		case paymentsvc.ErrSignatureInvalid:
			h.Log.Warn("payment callback signature rejected", "order_id", p.OrderID, "ip", c.RealIP())
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid signature"})
		case paymentsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "unknown order"})
		case paymentsvc.ErrValidation:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "payload rejected"})
		default:
			h.Log.Error("payment reconcile", "err", err, "order_id", p.OrderID)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	if okStatus == http.StatusNoContent {
		return c.NoContent(okStatus)
	}
	return c.JSON(okStatus, echo.Map{"message": "ok"})
}
