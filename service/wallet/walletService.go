package wallet

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	momorepo "github.com/tienvum1/Rentzy--sub001/repository/momo"
	txrepo "github.com/tienvum1/Rentzy--sub001/repository/transaction"
	wrepo "github.com/tienvum1/Rentzy--sub001/repository/wallet"

	"github.com/tienvum1/Rentzy--sub001/model"
)

type ErrCode string

const (
	ErrValidation         ErrCode = "VALIDATION"
	ErrInvalidState       ErrCode = "INVALID_STATE"
	ErrInsufficientFunds  ErrCode = "INSUFFICIENT_FUNDS"
	ErrNotFound           ErrCode = "NOT_FOUND"
	ErrForbidden          ErrCode = "FORBIDDEN"
	ErrGatewayUnavailable ErrCode = "GATEWAY_UNAVAILABLE"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type TopupCreated struct {
	TransactionID int64  `json:"transaction_id"`
	OrderID       string `json:"order_id"`
	PayURL        string `json:"pay_url"`
}

type Service interface {
	Balance(ctx context.Context, userID int64) (*model.Wallet, error)
	Ledger(ctx context.Context, userID int64) ([]model.Transaction, error)

	// Topup opens a gateway payment toward the wallet. The entry stays
	// PENDING; the balance is credited only when the gateway confirms.
	Topup(ctx context.Context, userID, amount int64) (*TopupCreated, error)

	// RequestWithdrawal holds the funds immediately: the balance drops now,
	// the entry stays PENDING until an admin reviews it.
	RequestWithdrawal(ctx context.Context, userID, amount int64) (*model.Transaction, error)
	// ReviewWithdrawal approves (no balance change, funds already held) or
	// rejects (credits the hold back) a pending withdrawal.
	ReviewWithdrawal(ctx context.Context, actor model.Actor, txID int64, approve bool) error
}

type service struct {
	db *sql.DB
	wr wrepo.Repo
	tr txrepo.Repo
	mr momorepo.Repo
}

func New(db *sql.DB, wr wrepo.Repo, tr txrepo.Repo, mr momorepo.Repo) Service {
	return &service{db: db, wr: wr, tr: tr, mr: mr}
}

func (s *service) Balance(ctx context.Context, userID int64) (*model.Wallet, error) {
	w, err := s.wr.GetByUser(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		// Wallets are lazy; an untouched user simply has zero.
		return &model.Wallet{UserID: userID, Balance: 0, Status: model.WalletActive}, nil
	}
	return w, err
}

func (s *service) Ledger(ctx context.Context, userID int64) ([]model.Transaction, error) {
	w, err := s.wr.GetByUser(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s.tr.ListByWallet(ctx, w.ID)
}

func (s *service) Topup(ctx context.Context, userID, amount int64) (t *TopupCreated, err error) {
	if amount <= 0 {
		return nil, makeErr(ErrValidation)
	}

	requestID := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	w, err := s.wr.GetOrCreateForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if w.Status != model.WalletActive {
		return nil, makeErr(ErrInvalidState)
	}

	orderID := momorepo.BuildOrderID(w.ID, requestID, "topup")
	entry := &model.Transaction{
		WalletID: &w.ID,
		Amount:   amount,
		Kind:     model.TxWalletDeposit,
		Status:   model.TxPending,
		Method:   model.MethodGateway,
		Gateway:  &model.GatewayMetadata{RequestID: requestID, OrderID: orderID},
	}
	if err = s.tr.Insert(ctx, tx, entry); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	resp, err := s.mr.CreatePayment(callCtx, momorepo.CreateRequest{
		RequestID:   requestID,
		OrderID:     orderID,
		OrderInfo:   "wallet top-up",
		RequestType: "captureWallet",
		Amount:      amount,
	})
	if err != nil {
		// Entry stays PENDING; the IPN or a retry resolves it.
		return nil, makeErr(ErrGatewayUnavailable)
	}

	return &TopupCreated{TransactionID: entry.ID, OrderID: orderID, PayURL: resp.PayURL}, nil
}

func (s *service) RequestWithdrawal(ctx context.Context, userID, amount int64) (t *model.Transaction, err error) {
	if amount <= 0 {
		return nil, makeErr(ErrValidation)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	w, err := s.wr.GetOrCreateForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if w.Status != model.WalletActive {
		return nil, makeErr(ErrInvalidState)
	}
	if w.Balance < amount {
		return nil, makeErr(ErrInsufficientFunds)
	}

	entry := &model.Transaction{
		WalletID: &w.ID,
		Amount:   amount,
		Kind:     model.TxWalletWithdraw,
		Status:   model.TxPending,
		Method:   model.MethodBankTransfer,
		Wallet:   &model.WalletMetadata{Note: "withdrawal requested"},
	}
	if err = s.tr.Insert(ctx, tx, entry); err != nil {
		return nil, err
	}
	if err = s.wr.UpdateBalance(ctx, tx, w.ID, w.Balance-amount); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *service) ReviewWithdrawal(ctx context.Context, actor model.Actor, txID int64, approve bool) (err error) {
	if !actor.Has(model.CapAdmin) {
		return makeErr(ErrForbidden)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	entry, err := s.tr.GetForUpdate(ctx, tx, txID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		return err
	}
	if entry.Kind != model.TxWalletWithdraw || entry.Status != model.TxPending || entry.WalletID == nil {
		return makeErr(ErrInvalidState)
	}

	if approve {
		// Funds were already removed at request time.
		if _, err = s.tr.MarkTerminal(ctx, tx, txID, model.TxCompleted, nil); err != nil {
			return err
		}
		return tx.Commit()
	}

	w, err := s.wr.GetForUpdate(ctx, tx, *entry.WalletID)
	if err != nil {
		return err
	}
	if _, err = s.tr.MarkTerminal(ctx, tx, txID, model.TxFailed, nil); err != nil {
		return err
	}
	if err = s.wr.UpdateBalance(ctx, tx, w.ID, w.Balance+entry.Amount); err != nil {
		return err
	}
	return tx.Commit()
}
