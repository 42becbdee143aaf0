package booking

import (
	"context"
	"time"

	bookingrepo "github.com/tienvum1/Rentzy--sub001/repository/booking"
)

// Cleaner sweeps pending bookings whose payment window elapsed. The sweep
// is an optimization only: the lazy check in getExpired keeps the engine
// correct without it.
type Cleaner interface {
	ReleaseExpired(ctx context.Context) (int64, error)
}

type cleaner struct {
	r bookingrepo.Repo
}

func NewCleaner(r bookingrepo.Repo) Cleaner { return &cleaner{r: r} }

func (c *cleaner) ReleaseExpired(ctx context.Context) (int64, error) {
	return c.r.ReleaseExpired(ctx, time.Now().UTC().Add(-PaymentWindow))
}
