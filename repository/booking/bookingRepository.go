// repository/booking/repo.go
package booking

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/tienvum1/Rentzy--sub001/model"
)

type Repo interface {
	Insert(ctx context.Context, tx *sql.Tx, b *model.Booking) error
	HasOverlap(ctx context.Context, tx *sql.Tx, vehicleID int64, start, end time.Time) (bool, error)

	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Booking, error)

	// UpdateStatusFrom flips the status only when the current value still
	// matches; returns false if someone else got there first.
	UpdateStatusFrom(ctx context.Context, tx *sql.Tx, id int64, from, to model.BookingStatus) (bool, error)
	Cancel(ctx context.Context, tx *sql.Tx, id int64, reason string, actor model.CancelActor) error

	// ExpireIfDue cancels a pending booking whose payment window elapsed
	// with no completed payment. Returns true when it canceled.
	ExpireIfDue(ctx context.Context, tx *sql.Tx, id int64, cutoff time.Time) (bool, error)
	// ReleaseExpired is the sweep form of ExpireIfDue over all bookings.
	ReleaseExpired(ctx context.Context, cutoff time.Time) (int64, error)

	ListByRenter(ctx context.Context, renterID int64) ([]model.Booking, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

const bookingCols = `
	id, renter_id, vehicle_id, start_at, end_at,
	total_days, total_amount, deposit, reservation_fee, discount_amount, delivery_fee,
	status, cancel_reason, canceled_at, canceled_by, created_at`

func scanBooking(row interface{ Scan(...any) error }) (*model.Booking, error) {
	b := &model.Booking{}
	err := row.Scan(
		&b.ID, &b.RenterID, &b.VehicleID, &b.StartAt, &b.EndAt,
		&b.Pricing.TotalDays, &b.Pricing.TotalAmount, &b.Pricing.Deposit,
		&b.Pricing.ReservationFee, &b.Pricing.DiscountAmount, &b.Pricing.DeliveryFee,
		&b.Status, &b.CancelReason, &b.CanceledAt, &b.CanceledBy, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *repo) Insert(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `
		INSERT INTO bookings
			(renter_id, vehicle_id, start_at, end_at,
			 total_days, total_amount, deposit, reservation_fee, discount_amount, delivery_fee,
			 status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id, created_at`
	return tx.QueryRowContext(ctx, q,
		b.RenterID, b.VehicleID, b.StartAt, b.EndAt,
		b.Pricing.TotalDays, b.Pricing.TotalAmount, b.Pricing.Deposit,
		b.Pricing.ReservationFee, b.Pricing.DiscountAmount, b.Pricing.DeliveryFee,
		b.Status,
	).Scan(&b.ID, &b.CreatedAt)
}

// activeStatusSQL renders model.ActiveBookingStatuses for the overlap
// predicate; the query and the exported set never drift apart.
var activeStatusSQL = func() string {
	quoted := make([]string, len(model.ActiveBookingStatuses))
	for i, s := range model.ActiveBookingStatuses {
		quoted[i] = "'" + string(s) + "'"
	}
	return strings.Join(quoted, ",")
}()

func (r *repo) HasOverlap(ctx context.Context, tx *sql.Tx, vehicleID int64, start, end time.Time) (bool, error) {
	// Boundary-inclusive: existing.start <= new.end AND existing.end >= new.start.
	q := `
		SELECT EXISTS (
			SELECT 1
			FROM bookings
			WHERE vehicle_id = $1
			  AND status IN (` + activeStatusSQL + `)
			  AND start_at <= $3
			  AND end_at   >= $2
		)`
	var exists bool
	err := tx.QueryRowContext(ctx, q, vehicleID, start, end).Scan(&exists)
	return exists, err
}

func (r *repo) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	return scanBooking(r.db.QueryRowContext(ctx, `SELECT `+bookingCols+` FROM bookings WHERE id = $1`, id))
}

func (r *repo) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Booking, error) {
	return scanBooking(tx.QueryRowContext(ctx, `SELECT `+bookingCols+` FROM bookings WHERE id = $1 FOR UPDATE`, id))
}

func (r *repo) UpdateStatusFrom(ctx context.Context, tx *sql.Tx, id int64, from, to model.BookingStatus) (bool, error) {
	const q = `
		UPDATE bookings
		SET status = $3
		WHERE id = $1
		  AND status = $2`
	res, err := tx.ExecContext(ctx, q, id, from, to)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *repo) Cancel(ctx context.Context, tx *sql.Tx, id int64, reason string, actor model.CancelActor) error {
	const q = `
		UPDATE bookings
		SET status = 'canceled',
			cancel_reason = $2,
			canceled_at = NOW(),
			canceled_by = $3
		WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, id, reason, actor)
	return err
}

func (r *repo) ExpireIfDue(ctx context.Context, tx *sql.Tx, id int64, cutoff time.Time) (bool, error) {
	const q = `
		UPDATE bookings b
		SET status = 'canceled',
			cancel_reason = 'payment window elapsed',
			canceled_at = NOW(),
			canceled_by = 'system'
		WHERE b.id = $1
		  AND b.status = 'pending'
		  AND b.created_at < $2
		  AND NOT EXISTS (
			SELECT 1 FROM transactions t
			WHERE t.booking_id = b.id AND t.status = 'COMPLETED'
		  )`
	res, err := tx.ExecContext(ctx, q, id, cutoff)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *repo) ReleaseExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	const q = `
		UPDATE bookings b
		SET status = 'canceled',
			cancel_reason = 'payment window elapsed',
			canceled_at = NOW(),
			canceled_by = 'system'
		WHERE b.status = 'pending'
		  AND b.created_at < $1
		  AND NOT EXISTS (
			SELECT 1 FROM transactions t
			WHERE t.booking_id = b.id AND t.status = 'COMPLETED'
		  )`
	res, err := r.db.ExecContext(ctx, q, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repo) ListByRenter(ctx context.Context, renterID int64) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+bookingCols+`
		FROM bookings
		WHERE renter_id = $1
		ORDER BY created_at DESC, id DESC`, renterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}
