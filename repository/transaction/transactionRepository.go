// repository/transaction/repo.go
package transaction

import (
	"context"
	"database/sql"

	"github.com/tienvum1/Rentzy--sub001/model"
)

type Repo interface {
	Insert(ctx context.Context, tx *sql.Tx, t *model.Transaction) error

	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Transaction, error)
	FindByOrderID(ctx context.Context, orderID string) (*model.Transaction, error)
	// FindPendingGateway returns the newest PENDING gateway entry for the
	// booking and kind, for idempotent reuse on client retries.
	FindPendingGateway(ctx context.Context, tx *sql.Tx, bookingID int64, kind model.TxKind) (*model.Transaction, error)

	// MarkTerminal settles a PENDING entry. Returns false when the entry
	// already reached a terminal status (replay, or a lost race).
	MarkTerminal(ctx context.Context, tx *sql.Tx, id int64, to model.TxStatus, providerTransID *string) (bool, error)
	// RefreshGatewayIDs replaces the correlation ids on a PENDING entry.
	RefreshGatewayIDs(ctx context.Context, tx *sql.Tx, id int64, requestID, orderID string) error

	// SumPaid totals COMPLETED DEPOSIT and RENTAL entries for a booking.
	SumPaid(ctx context.Context, tx *sql.Tx, bookingID int64) (int64, error)
	CountPendingDeposits(ctx context.Context, tx *sql.Tx, bookingID int64) (int64, error)

	ListByBooking(ctx context.Context, bookingID int64) ([]model.Transaction, error)
	ListByWallet(ctx context.Context, walletID int64) ([]model.Transaction, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

const txCols = `
	id, booking_id, wallet_id, amount, kind, status, method,
	request_id, order_id, provider_trans_id, note, created_at, settled_at`

func scanTx(row interface{ Scan(...any) error }) (*model.Transaction, error) {
	t := &model.Transaction{}
	var requestID, orderID, providerTransID, note *string
	err := row.Scan(
		&t.ID, &t.BookingID, &t.WalletID, &t.Amount, &t.Kind, &t.Status, &t.Method,
		&requestID, &orderID, &providerTransID, &note, &t.CreatedAt, &t.SettledAt,
	)
	if err != nil {
		return nil, err
	}
	if requestID != nil && orderID != nil {
		t.Gateway = &model.GatewayMetadata{
			RequestID:       *requestID,
			OrderID:         *orderID,
			ProviderTransID: providerTransID,
		}
	}
	if note != nil {
		t.Wallet = &model.WalletMetadata{Note: *note}
	}
	return t, nil
}

func (r *repo) Insert(ctx context.Context, tx *sql.Tx, t *model.Transaction) error {
	var requestID, orderID, note *string
	if t.Gateway != nil {
		requestID, orderID = &t.Gateway.RequestID, &t.Gateway.OrderID
	}
	if t.Wallet != nil && t.Wallet.Note != "" {
		note = &t.Wallet.Note
	}
	const q = `
		INSERT INTO transactions
			(booking_id, wallet_id, amount, kind, status, method, request_id, order_id, note, settled_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,
			CASE WHEN $5 IN ('COMPLETED','FAILED','REFUNDED') THEN NOW() END)
		RETURNING id, created_at`
	return tx.QueryRowContext(ctx, q,
		t.BookingID, t.WalletID, t.Amount, t.Kind, t.Status, t.Method, requestID, orderID, note,
	).Scan(&t.ID, &t.CreatedAt)
}

func (r *repo) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Transaction, error) {
	return scanTx(tx.QueryRowContext(ctx, `SELECT `+txCols+` FROM transactions WHERE id = $1 FOR UPDATE`, id))
}

func (r *repo) FindByOrderID(ctx context.Context, orderID string) (*model.Transaction, error) {
	return scanTx(r.db.QueryRowContext(ctx, `SELECT `+txCols+` FROM transactions WHERE order_id = $1`, orderID))
}

func (r *repo) FindPendingGateway(ctx context.Context, tx *sql.Tx, bookingID int64, kind model.TxKind) (*model.Transaction, error) {
	const q = `
		SELECT ` + txCols + `
		FROM transactions
		WHERE booking_id = $1
		  AND kind = $2
		  AND method = 'GATEWAY'
		  AND status = 'PENDING'
		ORDER BY id DESC
		LIMIT 1
		FOR UPDATE`
	return scanTx(tx.QueryRowContext(ctx, q, bookingID, kind))
}

func (r *repo) MarkTerminal(ctx context.Context, tx *sql.Tx, id int64, to model.TxStatus, providerTransID *string) (bool, error) {
	// Guarded by current status: whichever of webhook and redirect arrives
	// second becomes a no-op.
	const q = `
		UPDATE transactions
		SET status = $2,
			provider_trans_id = COALESCE($3, provider_trans_id),
			settled_at = NOW()
		WHERE id = $1
		  AND status = 'PENDING'`
	res, err := tx.ExecContext(ctx, q, id, to, providerTransID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *repo) RefreshGatewayIDs(ctx context.Context, tx *sql.Tx, id int64, requestID, orderID string) error {
	const q = `
		UPDATE transactions
		SET request_id = $2,
			order_id = $3
		WHERE id = $1
		  AND status = 'PENDING'`
	_, err := tx.ExecContext(ctx, q, id, requestID, orderID)
	return err
}

func (r *repo) SumPaid(ctx context.Context, tx *sql.Tx, bookingID int64) (int64, error) {
	const q = `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE booking_id = $1
		  AND kind IN ('DEPOSIT','RENTAL')
		  AND status = 'COMPLETED'`
	var sum int64
	err := tx.QueryRowContext(ctx, q, bookingID).Scan(&sum)
	return sum, err
}

func (r *repo) CountPendingDeposits(ctx context.Context, tx *sql.Tx, bookingID int64) (int64, error) {
	const q = `
		SELECT COUNT(*)
		FROM transactions
		WHERE booking_id = $1
		  AND kind = 'DEPOSIT'
		  AND status = 'PENDING'`
	var n int64
	err := tx.QueryRowContext(ctx, q, bookingID).Scan(&n)
	return n, err
}

func (r *repo) list(ctx context.Context, q string, arg int64) ([]model.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Transaction
	for rows.Next() {
		t, err := scanTx(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (r *repo) ListByBooking(ctx context.Context, bookingID int64) ([]model.Transaction, error) {
	return r.list(ctx, `SELECT `+txCols+` FROM transactions WHERE booking_id = $1 ORDER BY id`, bookingID)
}

func (r *repo) ListByWallet(ctx context.Context, walletID int64) ([]model.Transaction, error) {
	return r.list(ctx, `SELECT `+txCols+` FROM transactions WHERE wallet_id = $1 ORDER BY id DESC`, walletID)
}
