package booking

import (
	"context"
	"database/sql"
	"errors"
	"time"

	bookingrepo "github.com/tienvum1/Rentzy--sub001/repository/booking"
	txrepo "github.com/tienvum1/Rentzy--sub001/repository/transaction"
	vehiclerepo "github.com/tienvum1/Rentzy--sub001/repository/vehicle"
	walletrepo "github.com/tienvum1/Rentzy--sub001/repository/wallet"

	"github.com/tienvum1/Rentzy--sub001/model"
)

// errors used by controllers

type ErrCode string

const (
	ErrValidation      ErrCode = "VALIDATION"
	ErrConflict        ErrCode = "CONFLICT"
	ErrInvalidState    ErrCode = "INVALID_STATE"
	ErrForbidden       ErrCode = "FORBIDDEN"
	ErrNotFound        ErrCode = "NOT_FOUND"
	ErrVehicleNotFound ErrCode = "VEHICLE_NOT_FOUND"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// PaymentWindow is how long a pending booking may wait for its first
// completed payment before it is auto-canceled.
const PaymentWindow = 10 * time.Minute

type ReserveReq struct {
	VehicleID      int64
	StartAt        time.Time
	EndAt          time.Time
	DiscountAmount int64
}

type Service interface {
	// Reserve validates the interval, snapshots pricing from the vehicle,
	// and creates a pending booking. The overlap check and the insert run
	// under the vehicle row lock.
	Reserve(ctx context.Context, renterID int64, req ReserveReq) (*model.Booking, error)

	// Get returns a booking after applying the lazy expiry check.
	Get(ctx context.Context, actor model.Actor, id int64) (*model.Booking, error)

	// Cancel flips the booking to canceled and settles the refund:
	// status flip, refund ledger entries, and the wallet credit commit as
	// one transaction or not at all.
	Cancel(ctx context.Context, actor model.Actor, id int64, reason string) (*RefundSummary, error)

	// ExpectedRefund previews Cancel without writing anything.
	ExpectedRefund(ctx context.Context, actor model.Actor, id int64) (*RefundSummary, error)

	// Owner/renter trip transitions.
	Accept(ctx context.Context, actor model.Actor, id int64) error
	Start(ctx context.Context, actor model.Actor, id int64) error
	Complete(ctx context.Context, actor model.Actor, id int64) error

	// Payments lists the booking's ledger entries in creation order.
	Payments(ctx context.Context, actor model.Actor, id int64) ([]model.Transaction, error)

	MyBookings(ctx context.Context, renterID int64) ([]model.Booking, error)
}

type service struct {
	db *sql.DB
	br bookingrepo.Repo
	vr vehiclerepo.Repo
	tr txrepo.Repo
	wr walletrepo.Repo

	now func() time.Time
}

func New(db *sql.DB, br bookingrepo.Repo, vr vehiclerepo.Repo, tr txrepo.Repo, wr walletrepo.Repo) Service {
	return &service{db: db, br: br, vr: vr, tr: tr, wr: wr, now: time.Now}
}

func (s *service) Reserve(ctx context.Context, renterID int64, req ReserveReq) (b *model.Booking, err error) {
	now := s.now()
	if err := validateInterval(req.StartAt, req.EndAt, now); err != nil {
		return nil, err
	}
	if req.DiscountAmount < 0 {
		return nil, makeErr(ErrValidation)
	}

	v, err := s.vr.GetByID(ctx, req.VehicleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrVehicleNotFound)
		}
		return nil, err
	}

	pricing := snapshotPricing(v, req.StartAt, req.EndAt, req.DiscountAmount)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Serialize against concurrent reservations for the same vehicle.
	if err = s.vr.LockForBooking(ctx, tx, req.VehicleID); err != nil {
		return nil, err
	}
	conflict, err := s.br.HasOverlap(ctx, tx, req.VehicleID, req.StartAt, req.EndAt)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, makeErr(ErrConflict)
	}

	b = &model.Booking{
		RenterID:  renterID,
		VehicleID: req.VehicleID,
		StartAt:   req.StartAt,
		EndAt:     req.EndAt,
		Pricing:   pricing,
		Status:    model.BookingPending,
	}
	if err = s.br.Insert(ctx, tx, b); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Get(ctx context.Context, actor model.Actor, id int64) (b *model.Booking, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	b, err = s.getExpired(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if b.RenterID != actor.ID && !actor.Has(model.CapAdmin) {
		return nil, makeErr(ErrForbidden)
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return b, nil
}

// getExpired loads the booking under the row lock and applies the lazy
// expiry check. Callers must not trust a pending booking without it.
func (s *service) getExpired(ctx context.Context, tx *sql.Tx, id int64) (*model.Booking, error) {
	b, err := s.br.GetForUpdate(ctx, tx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	if b.Status == model.BookingPending {
		expired, err := s.br.ExpireIfDue(ctx, tx, id, s.now().Add(-PaymentWindow))
		if err != nil {
			return nil, err
		}
		if expired {
			b, err = s.br.GetForUpdate(ctx, tx, id)
			if err != nil {
				return nil, err
			}
		}
	}
	return b, nil
}

func (s *service) Cancel(ctx context.Context, actor model.Actor, id int64, reason string) (sum *RefundSummary, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	b, err := s.getExpired(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if b.RenterID != actor.ID && !actor.Has(model.CapAdmin) {
		return nil, makeErr(ErrForbidden)
	}

	actorKind := model.CancelByRenter
	if actor.ID != b.RenterID {
		actorKind = model.CancelByOwner
	}

	totalPaid, err := s.tr.SumPaid(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	refund, err := previewRefund(b, totalPaid, s.now())
	if err != nil {
		return nil, err
	}

	if refund.Total > 0 {
		if err = s.creditRefund(ctx, tx, b, refund); err != nil {
			return nil, err
		}
	}
	if err = s.br.Cancel(ctx, tx, id, reason, actorKind); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return &refund, nil
}

// creditRefund writes one REFUND ledger entry per positive component and
// credits the renter's wallet, all inside the caller's transaction.
func (s *service) creditRefund(ctx context.Context, tx *sql.Tx, b *model.Booking, refund RefundSummary) error {
	w, err := s.wr.GetOrCreateForUpdate(ctx, tx, b.RenterID)
	if err != nil {
		return err
	}
	balance := w.Balance
	for _, part := range []struct {
		amount int64
		note   string
	}{
		{refund.ReservationRefund, "reservation fee refund"},
		{refund.RemainingRefund, "rental balance refund"},
	} {
		if part.amount <= 0 {
			continue
		}
		entry := &model.Transaction{
			BookingID: &b.ID,
			Amount:    part.amount,
			Kind:      model.TxRefund,
			Status:    model.TxCompleted,
			Method:    model.MethodWallet,
			Wallet:    &model.WalletMetadata{Note: part.note},
		}
		if err := s.tr.Insert(ctx, tx, entry); err != nil {
			return err
		}
		balance += part.amount
	}
	return s.wr.UpdateBalance(ctx, tx, w.ID, balance)
}

func (s *service) ExpectedRefund(ctx context.Context, actor model.Actor, id int64) (sum *RefundSummary, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	b, err := s.getExpired(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if b.RenterID != actor.ID && !actor.Has(model.CapAdmin) {
		return nil, makeErr(ErrForbidden)
	}
	totalPaid, err := s.tr.SumPaid(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	refund, err := previewRefund(b, totalPaid, s.now())
	if err != nil {
		return nil, err
	}
	return &refund, nil
}

func (s *service) Accept(ctx context.Context, actor model.Actor, id int64) error {
	return s.transition(ctx, id, func(b *model.Booking) (model.BookingStatus, error) {
		if !actor.Has(model.CapOwn) && !actor.Has(model.CapAdmin) {
			return "", makeErr(ErrForbidden)
		}
		if b.Status != model.BookingConfirmed && b.Status != model.BookingRentalPaid {
			return "", makeErr(ErrInvalidState)
		}
		return model.BookingAccepted, nil
	})
}

func (s *service) Start(ctx context.Context, actor model.Actor, id int64) error {
	return s.transition(ctx, id, func(b *model.Booking) (model.BookingStatus, error) {
		if b.RenterID != actor.ID {
			return "", makeErr(ErrForbidden)
		}
		if b.Status != model.BookingAccepted || s.now().Before(b.StartAt) {
			return "", makeErr(ErrInvalidState)
		}
		return model.BookingInProgress, nil
	})
}

func (s *service) Complete(ctx context.Context, actor model.Actor, id int64) error {
	return s.transition(ctx, id, func(b *model.Booking) (model.BookingStatus, error) {
		if b.RenterID != actor.ID && !actor.Has(model.CapOwn) && !actor.Has(model.CapAdmin) {
			return "", makeErr(ErrForbidden)
		}
		if b.Status != model.BookingInProgress {
			return "", makeErr(ErrInvalidState)
		}
		return model.BookingCompleted, nil
	})
}

// transition runs a guarded status flip under the booking row lock.
func (s *service) transition(ctx context.Context, id int64, decide func(*model.Booking) (model.BookingStatus, error)) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	b, err := s.getExpired(ctx, tx, id)
	if err != nil {
		return err
	}
	to, err := decide(b)
	if err != nil {
		return err
	}
	ok, err := s.br.UpdateStatusFrom(ctx, tx, id, b.Status, to)
	if err != nil {
		return err
	}
	if !ok {
		return makeErr(ErrInvalidState)
	}
	return tx.Commit()
}

func (s *service) Payments(ctx context.Context, actor model.Actor, id int64) ([]model.Transaction, error) {
	b, err := s.br.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	if b.RenterID != actor.ID && !actor.Has(model.CapAdmin) {
		return nil, makeErr(ErrForbidden)
	}
	return s.tr.ListByBooking(ctx, id)
}

func (s *service) MyBookings(ctx context.Context, renterID int64) ([]model.Booking, error) {
	return s.br.ListByRenter(ctx, renterID)
}

func validateInterval(start, end, now time.Time) error {
	if start.IsZero() || end.IsZero() || !start.Before(end) || !start.After(now) {
		return makeErr(ErrValidation)
	}
	return nil
}

func snapshotPricing(v *model.Vehicle, start, end time.Time, discount int64) model.Pricing {
	days := daysBetween(start, end)
	total := days*v.PricePerDay - discount + v.DeliveryFee
	if total < 0 {
		total = 0
	}
	return model.Pricing{
		TotalDays:      days,
		TotalAmount:    total,
		Deposit:        v.Deposit,
		ReservationFee: v.ReservationFee,
		DiscountAmount: discount,
		DeliveryFee:    v.DeliveryFee,
	}
}

// daysBetween rounds the interval up to whole rental days, minimum one.
func daysBetween(start, end time.Time) int64 {
	d := end.Sub(start)
	days := int64(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	if days < 1 {
		days = 1
	}
	return days
}
