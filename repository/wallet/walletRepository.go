package walletrepo

import (
	"context"
	"database/sql"

	"github.com/tienvum1/Rentzy--sub001/model"
)

type Repo interface {
	GetByUser(ctx context.Context, userID int64) (*model.Wallet, error)
	// GetOrCreateForUpdate lazily creates the user's wallet on first use and
	// returns it locked. Concurrent debits against the same wallet serialize
	// on this row lock.
	GetOrCreateForUpdate(ctx context.Context, tx *sql.Tx, userID int64) (*model.Wallet, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, walletID int64) (*model.Wallet, error)
	UpdateBalance(ctx context.Context, tx *sql.Tx, walletID int64, newBalance int64) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const walletCols = `id, user_id, balance, status, created_at`

func scanWallet(row *sql.Row) (*model.Wallet, error) {
	w := &model.Wallet{}
	if err := row.Scan(&w.ID, &w.UserID, &w.Balance, &w.Status, &w.CreatedAt); err != nil {
		return nil, err
	}
	return w, nil
}

func (r *repo) GetByUser(ctx context.Context, userID int64) (*model.Wallet, error) {
	return scanWallet(r.db.QueryRowContext(ctx,
		`SELECT `+walletCols+` FROM wallets WHERE user_id = $1`, userID))
}

func (r *repo) GetOrCreateForUpdate(ctx context.Context, tx *sql.Tx, userID int64) (*model.Wallet, error) {
	const ins = `
		INSERT INTO wallets (user_id, balance, status)
		VALUES ($1, 0, 'active')
		ON CONFLICT (user_id) DO NOTHING`
	if _, err := tx.ExecContext(ctx, ins, userID); err != nil {
		return nil, err
	}
	return scanWallet(tx.QueryRowContext(ctx,
		`SELECT `+walletCols+` FROM wallets WHERE user_id = $1 FOR UPDATE`, userID))
}

func (r *repo) GetForUpdate(ctx context.Context, tx *sql.Tx, walletID int64) (*model.Wallet, error) {
	return scanWallet(tx.QueryRowContext(ctx,
		`SELECT `+walletCols+` FROM wallets WHERE id = $1 FOR UPDATE`, walletID))
}

func (r *repo) UpdateBalance(ctx context.Context, tx *sql.Tx, walletID int64, newBalance int64) error {
	// balance >= 0 is also enforced by a CHECK constraint; callers guard
	// before calling.
	const q = `UPDATE wallets SET balance = $2 WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, walletID, newBalance)
	return err
}
