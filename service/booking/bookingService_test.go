package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tienvum1/Rentzy--sub001/model"
)

func TestValidateInterval(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	ok := func(start, end time.Time) error { return validateInterval(start, end, now) }

	require.NoError(t, ok(now.Add(time.Hour), now.Add(48*time.Hour)))

	// start in the past or right now is rejected
	require.Equal(t, ErrValidation, Code(ok(now.Add(-time.Hour), now.Add(48*time.Hour))))
	require.Equal(t, ErrValidation, Code(ok(now, now.Add(48*time.Hour))))

	// start must precede end
	require.Equal(t, ErrValidation, Code(ok(now.Add(48*time.Hour), now.Add(time.Hour))))
	require.Equal(t, ErrValidation, Code(ok(now.Add(time.Hour), now.Add(time.Hour))))

	require.Equal(t, ErrValidation, Code(ok(time.Time{}, now.Add(time.Hour))))
}

func TestDaysBetween(t *testing.T) {
	base := time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC)

	require.Equal(t, int64(3), daysBetween(base, base.Add(3*24*time.Hour)))
	// partial days count as a full rental day
	require.Equal(t, int64(4), daysBetween(base, base.Add(3*24*time.Hour+time.Minute)))
	require.Equal(t, int64(1), daysBetween(base, base.Add(2*time.Hour)))
}

func TestSnapshotPricing(t *testing.T) {
	v := &model.Vehicle{
		ID:             5,
		PricePerDay:    400000,
		Deposit:        500000,
		ReservationFee: 200000,
		DeliveryFee:    50000,
	}
	start := time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC)
	end := start.Add(5 * 24 * time.Hour)

	p := snapshotPricing(v, start, end, 100000)
	require.Equal(t, int64(5), p.TotalDays)
	require.Equal(t, int64(5*400000-100000+50000), p.TotalAmount)
	require.Equal(t, int64(500000), p.Deposit)
	require.Equal(t, int64(200000), p.ReservationFee)
	require.Equal(t, int64(100000), p.DiscountAmount)
	require.Equal(t, int64(50000), p.DeliveryFee)
}

func TestOverlaps(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, 9, d, 0, 0, 0, 0, time.UTC) }

	// disjoint
	require.False(t, model.Overlaps(day(1), day(3), day(4), day(6)))
	require.False(t, model.Overlaps(day(4), day(6), day(1), day(3)))

	// contained and crossing
	require.True(t, model.Overlaps(day(1), day(10), day(4), day(6)))
	require.True(t, model.Overlaps(day(4), day(6), day(1), day(10)))
	require.True(t, model.Overlaps(day(1), day(5), day(4), day(8)))

	// shared boundary still conflicts
	require.True(t, model.Overlaps(day(1), day(4), day(4), day(6)))
	require.True(t, model.Overlaps(day(4), day(6), day(1), day(4)))
}
