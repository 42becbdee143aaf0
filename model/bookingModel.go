// model/booking.go
package model

import "time"

type BookingStatus string

const (
	BookingPending     BookingStatus = "pending"
	BookingDepositPaid BookingStatus = "DEPOSIT_PAID"
	BookingRentalPaid  BookingStatus = "RENTAL_PAID"
	BookingConfirmed   BookingStatus = "CONFIRMED"
	BookingAccepted    BookingStatus = "accepted"
	BookingInProgress  BookingStatus = "in_progress"
	BookingCompleted   BookingStatus = "completed"
	BookingCanceled    BookingStatus = "canceled"
)

// CancelActor records who triggered a cancellation.
type CancelActor string

const (
	CancelByRenter CancelActor = "renter"
	CancelByOwner  CancelActor = "owner"
	CancelBySystem CancelActor = "system"
)

// Pricing is the snapshot captured at reservation time. It is never
// recomputed from live vehicle prices afterwards. Amounts are in the
// smallest currency unit.
type Pricing struct {
	TotalDays      int64 `json:"total_days"`
	TotalAmount    int64 `json:"total_amount"`
	Deposit        int64 `json:"deposit"`
	ReservationFee int64 `json:"reservation_fee"`
	DiscountAmount int64 `json:"discount_amount"`
	DeliveryFee    int64 `json:"delivery_fee"`
}

type Booking struct {
	ID           int64         `json:"id"`
	RenterID     int64         `json:"renter_id"`
	VehicleID    int64         `json:"vehicle_id"`
	StartAt      time.Time     `json:"start_at"`
	EndAt        time.Time     `json:"end_at"`
	Pricing      Pricing       `json:"pricing"`
	Status       BookingStatus `json:"status"`
	CancelReason *string       `json:"cancel_reason,omitempty"`
	CanceledAt   *time.Time    `json:"canceled_at,omitempty"`
	CanceledBy   *CancelActor  `json:"canceled_by,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

// ActiveBookingStatuses is the set that blocks a new reservation on the
// same vehicle. Canceled and completed bookings never block.
var ActiveBookingStatuses = []BookingStatus{
	BookingPending, BookingDepositPaid, BookingAccepted, BookingInProgress,
}

// CancelableStatuses may be canceled before the trip starts.
var CancelableStatuses = []BookingStatus{
	BookingPending, BookingDepositPaid, BookingConfirmed, BookingRentalPaid,
}

// StatusIn reports whether s is a member of set.
func StatusIn(s BookingStatus, set []BookingStatus) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

// Overlaps reports whether two date intervals conflict. Boundaries count:
// a booking ending exactly when another starts is still a conflict.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !aEnd.Before(bStart)
}
