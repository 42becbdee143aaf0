package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tienvum1/Rentzy--sub001/model"
)

func TestComputeRefund_ReservationTiers(t *testing.T) {
	start := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	fee := int64(200000)

	cases := []struct {
		name     string
		now      time.Time
		wantFee  int64
		wantDays int64
	}{
		{"12 days out refunds all", start.AddDate(0, 0, -12), 200000, 12},
		{"7 days out refunds 30%", start.AddDate(0, 0, -7), 60000, 7},
		{"2 days out refunds nothing", start.AddDate(0, 0, -2), 0, 2},
		{"exactly 10 days is the 30% tier", start.AddDate(0, 0, -10), 60000, 10},
		{"exactly 5 days is the zero tier", start.AddDate(0, 0, -5), 0, 5},
		{"partial day rounds up", start.Add(-11*24*time.Hour - time.Hour), 200000, 12},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sum := ComputeRefund(model.BookingDepositPaid, fee, 500000, start, tc.now)
			require.Equal(t, tc.wantFee, sum.ReservationRefund)
			require.Equal(t, int64(0), sum.RemainingRefund)
			require.Equal(t, tc.wantFee, sum.Total)
			require.Equal(t, tc.wantDays, sum.DaysUntilStart)
		})
	}
}

func TestComputeRefund_ByStatus(t *testing.T) {
	start := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	now := start.AddDate(0, 0, -12) // 100% tier

	// Nothing collected on a pending booking, nothing refunds.
	sum := ComputeRefund(model.BookingPending, 200000, 0, start, now)
	require.Zero(t, sum.Total)
	require.Zero(t, sum.ReservationRefund)

	// Rental balance in: everything beyond the reservation fee returns.
	sum = ComputeRefund(model.BookingConfirmed, 200000, 2000000, start, now)
	require.Equal(t, int64(200000), sum.ReservationRefund)
	require.Equal(t, int64(1800000), sum.RemainingRefund)
	require.Equal(t, int64(2000000), sum.Total)

	sum = ComputeRefund(model.BookingRentalPaid, 200000, 2000000, start, now)
	require.Equal(t, int64(2000000), sum.Total)

	// Paid less than the reservation fee never goes negative.
	sum = ComputeRefund(model.BookingConfirmed, 200000, 150000, start, now)
	require.Equal(t, int64(0), sum.RemainingRefund)
}

func TestPreviewRefund_MatchesCancelGating(t *testing.T) {
	start := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	book := func(status model.BookingStatus) *model.Booking {
		return &model.Booking{
			StartAt: start,
			Status:  status,
			Pricing: model.Pricing{ReservationFee: 200000},
		}
	}

	// A trip that already started cannot cancel, so the preview promises
	// nothing either.
	_, err := previewRefund(book(model.BookingConfirmed), 2000000, start.Add(48*time.Hour))
	require.Equal(t, ErrInvalidState, Code(err))

	// Accepted bookings cancel without a refund, whatever the tier says.
	sum, err := previewRefund(book(model.BookingAccepted), 2000000, start.AddDate(0, 0, -12))
	require.NoError(t, err)
	require.Zero(t, sum.Total)

	// Finished or dead bookings do not cancel at all.
	for _, st := range []model.BookingStatus{model.BookingInProgress, model.BookingCompleted, model.BookingCanceled} {
		_, err := previewRefund(book(st), 2000000, start.AddDate(0, 0, -12))
		require.Equal(t, ErrInvalidState, Code(err), "status %s", st)
	}

	// Inside the window the preview is exactly the calculator's answer.
	now := start.AddDate(0, 0, -12)
	sum, err = previewRefund(book(model.BookingConfirmed), 2000000, now)
	require.NoError(t, err)
	require.Equal(t, ComputeRefund(model.BookingConfirmed, 200000, 2000000, start, now), sum)
}

func TestComputeRefund_Deterministic(t *testing.T) {
	start := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	now := start.AddDate(0, 0, -8)

	a := ComputeRefund(model.BookingDepositPaid, 200000, 500000, start, now)
	b := ComputeRefund(model.BookingDepositPaid, 200000, 500000, start, now)
	require.Equal(t, a, b)

	// Deposit paid, canceled 8 days out: 30% of the reservation fee.
	require.Equal(t, int64(60000), a.Total)
}
