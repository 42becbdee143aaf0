package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusIn(t *testing.T) {
	for _, s := range ActiveBookingStatuses {
		require.True(t, StatusIn(s, ActiveBookingStatuses), "status %s", s)
	}
	require.False(t, StatusIn(BookingCanceled, ActiveBookingStatuses))
	require.False(t, StatusIn(BookingCompleted, ActiveBookingStatuses))
	require.False(t, StatusIn(BookingConfirmed, ActiveBookingStatuses))

	require.True(t, StatusIn(BookingConfirmed, CancelableStatuses))
	require.True(t, StatusIn(BookingPending, CancelableStatuses))
	require.False(t, StatusIn(BookingAccepted, CancelableStatuses))
	require.False(t, StatusIn(BookingInProgress, CancelableStatuses))
}
