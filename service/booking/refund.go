package booking

import (
	"time"

	"github.com/tienvum1/Rentzy--sub001/model"
)

// RefundSummary is the outcome of a cancellation, split the way the money
// went in: the tiered reservation-fee portion and the rest of what was paid.
type RefundSummary struct {
	ReservationRefund int64 `json:"reservation_refund"`
	RemainingRefund   int64 `json:"remaining_refund"`
	Total             int64 `json:"total_refund"`
	DaysUntilStart    int64 `json:"days_until_start"`
}

// ComputeRefund is pure: the same (status, reservationFee, totalPaid,
// start, now) always yields the same summary.
//
// The reservation fee refunds on a tier over days until the trip starts:
// more than 10 days out refunds all of it, more than 5 days 30%, closer
// than that nothing. Once the rental balance is in (CONFIRMED or
// RENTAL_PAID), everything paid beyond the reservation fee comes back in
// full. A pending booking has collected nothing, so nothing refunds.
func ComputeRefund(status model.BookingStatus, reservationFee, totalPaid int64, start, now time.Time) RefundSummary {
	d := daysUntil(start, now)
	sum := RefundSummary{DaysUntilStart: d}

	if status == model.BookingPending {
		return sum
	}

	switch {
	case d > 10:
		sum.ReservationRefund = reservationFee
	case d > 5:
		sum.ReservationRefund = reservationFee * 30 / 100
	}

	switch status {
	case model.BookingConfirmed, model.BookingRentalPaid:
		remaining := totalPaid - reservationFee
		if remaining < 0 {
			remaining = 0
		}
		sum.RemainingRefund = remaining
	}

	sum.Total = sum.ReservationRefund + sum.RemainingRefund
	return sum
}

// previewRefund runs the cancellation gating ahead of ComputeRefund, so a
// preview and an actual cancel always agree: accepted bookings cancel with
// no refund, statuses outside the cancelable set and trips that already
// started do not cancel at all.
func previewRefund(b *model.Booking, totalPaid int64, now time.Time) (RefundSummary, error) {
	if b.Status == model.BookingAccepted {
		return RefundSummary{}, nil
	}
	if !model.StatusIn(b.Status, model.CancelableStatuses) {
		return RefundSummary{}, makeErr(ErrInvalidState)
	}
	if !b.StartAt.After(now) {
		return RefundSummary{}, makeErr(ErrInvalidState)
	}
	return ComputeRefund(b.Status, b.Pricing.ReservationFee, totalPaid, b.StartAt, now), nil
}

// daysUntil is ceil((start − now) / 1 day).
func daysUntil(start, now time.Time) int64 {
	d := start.Sub(now)
	if d <= 0 {
		return 0
	}
	days := int64(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	return days
}
