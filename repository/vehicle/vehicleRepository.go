package vehicle

import (
	"context"
	"database/sql"

	"github.com/tienvum1/Rentzy--sub001/model"
)

// Repo is the read-only slice of the listing store the booking engine
// needs: pricing terms at reservation time, plus a row lock to serialize
// concurrent reservations of the same vehicle.
type Repo interface {
	GetByID(ctx context.Context, id int64) (*model.Vehicle, error)
	LockForBooking(ctx context.Context, tx *sql.Tx, id int64) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) GetByID(ctx context.Context, id int64) (*model.Vehicle, error) {
	v := &model.Vehicle{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, price_per_day, deposit, reservation_fee, delivery_fee
		FROM vehicles
		WHERE id = $1`,
		id,
	).Scan(&v.ID, &v.OwnerID, &v.Name, &v.PricePerDay, &v.Deposit, &v.ReservationFee, &v.DeliveryFee)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// LockForBooking takes the vehicle row lock. The overlap check and the
// booking insert happen under this lock, so two concurrent reservations
// for the same vehicle serialize instead of both passing the check.
func (r *repo) LockForBooking(ctx context.Context, tx *sql.Tx, id int64) error {
	const q = `
		SELECT id
		FROM vehicles
		WHERE id = $1
		FOR UPDATE`
	var got int64
	return tx.QueryRowContext(ctx, q, id).Scan(&got)
}
