package booking

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/tienvum1/Rentzy--sub001/app/echoServer/jwtx"
	"github.com/tienvum1/Rentzy--sub001/model"
	bs "github.com/tienvum1/Rentzy--sub001/service/booking"
	ps "github.com/tienvum1/Rentzy--sub001/service/payment"
)

type Controller struct {
	Svc    bs.Service
	PaySvc ps.Service
	V      *validator.Validate
	Log    *slog.Logger
}

func bookingErr(c echo.Context, log *slog.Logger, op string, err error) error {
	switch bs.Code(err) {
	case bs.ErrValidation:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid booking request"})
	case bs.ErrConflict:
		return c.JSON(http.StatusConflict, echo.Map{"message": "vehicle already booked for this interval"})
	case bs.ErrInvalidState:
		return c.JSON(http.StatusConflict, echo.Map{"message": "operation not allowed in current state"})
	case bs.ErrForbidden:
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	case bs.ErrNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": "booking not found"})
	case bs.ErrVehicleNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": "vehicle not found"})
	default:
		log.Error(op, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
}

func pathID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

// POST /v1/bookings
// @Summary Reserve a vehicle for an interval
// @Success 201 {object} model.Booking
// @Failure 400,401,404,409,500
func (h *Controller) Reserve(c echo.Context) error {
	var req ReserveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	actor, err := jwtx.ActorFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	b, err := h.Svc.Reserve(c.Request().Context(), actor.ID, bs.ReserveReq{
		VehicleID:      req.VehicleID,
		StartAt:        req.StartAt,
		EndAt:          req.EndAt,
		DiscountAmount: req.DiscountAmount,
	})
	if err != nil {
		return bookingErr(c, h.Log, "booking reserve", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"data": b})
}

// GET /v1/bookings/:id
func (h *Controller) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	actor, err := jwtx.ActorFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	b, err := h.Svc.Get(c.Request().Context(), actor, id)
	if err != nil {
		return bookingErr(c, h.Log, "booking get", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": b})
}

// GET /v1/bookings/:id/refund-preview
func (h *Controller) RefundPreview(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	actor, err := jwtx.ActorFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	sum, err := h.Svc.ExpectedRefund(c.Request().Context(), actor, id)
	if err != nil {
		return bookingErr(c, h.Log, "refund preview", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": sum})
}

// POST /v1/bookings/:id/cancel
func (h *Controller) Cancel(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req CancelReq
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

	sum, err := h.Svc.Cancel(c.Request().Context(), actor, id, req.Reason)
	if err != nil {
		return bookingErr(c, h.Log, "booking cancel", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "canceled", "refund": sum})
}

// POST /v1/bookings/:id/payments
func (h *Controller) InitiatePayment(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req InitiatePaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	actor, err := jwtx.ActorFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	handle, err := h.PaySvc.Initiate(c.Request().Context(), actor, id, ps.InitiateReq{
		Amount: req.Amount,
		Method: model.PayMethod(req.Method),
		Kind:   model.TxKind(req.Kind),
	})
	if err != nil {
		switch ps.Code(err) {
		case ps.ErrValidation:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid payment request"})
		case ps.ErrBookingExpired:
			return c.JSON(http.StatusGone, echo.Map{"message": "booking payment window elapsed"})
		case ps.ErrInvalidState:
			return c.JSON(http.StatusConflict, echo.Map{"message": "payment not allowed in current state"})
		case ps.ErrInsufficientFunds:
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": "insufficient wallet balance"})
		case ps.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		case ps.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "booking not found"})
		case ps.ErrGatewayUnavailable:
			return c.JSON(http.StatusBadGateway, echo.Map{"message": "payment gateway unavailable, retry later"})
		default:
			h.Log.Error("initiate payment", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"data": handle})
}

// POST /v1/bookings/:id/accept|start|complete
func (h *Controller) Accept(c echo.Context) error { return h.lifecycle(c, h.Svc.Accept, "accepted") }
func (h *Controller) Start(c echo.Context) error  { return h.lifecycle(c, h.Svc.Start, "started") }
func (h *Controller) Complete(c echo.Context) error {
	return h.lifecycle(c, h.Svc.Complete, "completed")
}

func (h *Controller) lifecycle(c echo.Context, op func(context.Context, model.Actor, int64) error, msg string) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	actor, err := jwtx.ActorFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	if err := op(c.Request().Context(), actor, id); err != nil {
		return bookingErr(c, h.Log, "booking "+msg, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": msg})
}

// GET /v1/bookings/:id/transactions
func (h *Controller) Payments(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	actor, err := jwtx.ActorFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	rows, err := h.Svc.Payments(c.Request().Context(), actor, id)
	if err != nil {
		return bookingErr(c, h.Log, "booking transactions", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/bookings/my
func (h *Controller) My(c echo.Context) error {
	actor, err := jwtx.ActorFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	rows, err := h.Svc.MyBookings(c.Request().Context(), actor.ID)
	if err != nil {
		h.Log.Error("booking history", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}
