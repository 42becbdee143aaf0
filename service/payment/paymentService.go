package paymentsvc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	bookingrepo "github.com/tienvum1/Rentzy--sub001/repository/booking"
	momorepo "github.com/tienvum1/Rentzy--sub001/repository/momo"
	txrepo "github.com/tienvum1/Rentzy--sub001/repository/transaction"
	walletrepo "github.com/tienvum1/Rentzy--sub001/repository/wallet"

	"github.com/tienvum1/Rentzy--sub001/model"
	bookingsvc "github.com/tienvum1/Rentzy--sub001/service/booking"
)

type ErrCode string

const (
	ErrValidation         ErrCode = "VALIDATION"
	ErrInvalidState       ErrCode = "INVALID_STATE"
	ErrBookingExpired     ErrCode = "BOOKING_EXPIRED"
	ErrInsufficientFunds  ErrCode = "INSUFFICIENT_FUNDS"
	ErrSignatureInvalid   ErrCode = "SIGNATURE_INVALID"
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

// gatewayCallTimeout bounds the outbound create call. A timeout is an
// unknown outcome: the ledger entry stays PENDING until the IPN resolves it.
const gatewayCallTimeout = 10 * time.Second

type InitiateReq struct {
	Amount int64
	Method model.PayMethod
	Kind   model.TxKind // DEPOSIT or RENTAL
}

type PaymentHandle struct {
	TransactionID int64          `json:"transaction_id"`
	Status        model.TxStatus `json:"status"`
	OrderID       string         `json:"order_id,omitempty"`
	PayURL        string         `json:"pay_url,omitempty"`
}

type Service interface {
	// Initiate starts a deposit or rental-balance payment. WALLET settles
	// immediately; GATEWAY leaves a PENDING entry resolved by Reconcile.
	Initiate(ctx context.Context, actor model.Actor, bookingID int64, req InitiateReq) (*PaymentHandle, error)

	// Reconcile folds a gateway result into the ledger and the booking.
	// The IPN and the synchronous redirect both land here; running it twice
	// for the same delivery is a no-op the second time.
	Reconcile(ctx context.Context, p momorepo.IPNPayload) error
}

type service struct {
	db *sql.DB
	br bookingrepo.Repo
	tr txrepo.Repo
	wr walletrepo.Repo
	mr momorepo.Repo

	now func() time.Time
}

func New(db *sql.DB, br bookingrepo.Repo, tr txrepo.Repo, wr walletrepo.Repo, mr momorepo.Repo) Service {
	return &service{db: db, br: br, tr: tr, wr: wr, mr: mr, now: time.Now}
}

func orderSuffix(kind model.TxKind) string {
	switch kind {
	case model.TxDeposit:
		return "deposit"
	case model.TxRental:
		return "rental"
	case model.TxWalletDeposit:
		return "topup"
	default:
		return ""
	}
}

// nextStatusAfterPayment maps a completed payment onto the booking state
// machine. A rental-balance payment lands on CONFIRMED first and on
// RENTAL_PAID when the booking was already confirmed.
func nextStatusAfterPayment(kind model.TxKind, current model.BookingStatus) (model.BookingStatus, bool) {
	switch kind {
	case model.TxDeposit:
		if current == model.BookingPending {
			return model.BookingDepositPaid, true
		}
	case model.TxRental:
		switch current {
		case model.BookingDepositPaid:
			return model.BookingConfirmed, true
		case model.BookingConfirmed:
			return model.BookingRentalPaid, true
		}
	}
	return "", false
}

func expectedAmount(b *model.Booking, kind model.TxKind) int64 {
	switch kind {
	case model.TxDeposit:
		return b.Pricing.Deposit
	case model.TxRental:
		return b.Pricing.TotalAmount - b.Pricing.Deposit
	}
	return 0
}

func (s *service) Initiate(ctx context.Context, actor model.Actor, bookingID int64, req InitiateReq) (*PaymentHandle, error) {
	if req.Kind != model.TxDeposit && req.Kind != model.TxRental {
		return nil, makeErr(ErrValidation)
	}
	if req.Amount <= 0 {
		return nil, makeErr(ErrValidation)
	}

	switch req.Method {
	case model.MethodWallet:
		return s.initiateWallet(ctx, actor, bookingID, req)
	case model.MethodGateway:
		return s.initiateGateway(ctx, actor, bookingID, req)
	default:
		return nil, makeErr(ErrValidation)
	}
}

// checkPayable loads the booking under its row lock, applies lazy expiry,
// and verifies the attempt is legal for the current state.
func (s *service) checkPayable(ctx context.Context, tx *sql.Tx, actor model.Actor, bookingID int64, req InitiateReq) (*model.Booking, error) {
	b, err := s.br.GetForUpdate(ctx, tx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	if b.RenterID != actor.ID {
		return nil, makeErr(ErrForbidden)
	}
	if b.Status == model.BookingPending {
		expired, err := s.br.ExpireIfDue(ctx, tx, bookingID, s.now().Add(-bookingsvc.PaymentWindow))
		if err != nil {
			return nil, err
		}
		if expired {
			return nil, makeErr(ErrBookingExpired)
		}
	}
	if _, ok := nextStatusAfterPayment(req.Kind, b.Status); !ok {
		return nil, makeErr(ErrInvalidState)
	}
	if req.Amount != expectedAmount(b, req.Kind) {
		return nil, makeErr(ErrValidation)
	}
	return b, nil
}

func (s *service) initiateWallet(ctx context.Context, actor model.Actor, bookingID int64, req InitiateReq) (h *PaymentHandle, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	b, err := s.checkPayable(ctx, tx, actor, bookingID, req)
	if err != nil {
		return nil, err
	}

	w, err := s.wr.GetOrCreateForUpdate(ctx, tx, actor.ID)
	if err != nil {
		return nil, err
	}
	if w.Status != model.WalletActive {
		return nil, makeErr(ErrInvalidState)
	}
	if w.Balance < req.Amount {
		return nil, makeErr(ErrInsufficientFunds)
	}

	// Balance delta and ledger entry commit together or not at all.
	entry := &model.Transaction{
		BookingID: &b.ID,
		Amount:    req.Amount,
		Kind:      req.Kind,
		Status:    model.TxCompleted,
		Method:    model.MethodWallet,
		Wallet:    &model.WalletMetadata{Note: "wallet payment"},
	}
	if err = s.tr.Insert(ctx, tx, entry); err != nil {
		return nil, err
	}
	if err = s.wr.UpdateBalance(ctx, tx, w.ID, w.Balance-req.Amount); err != nil {
		return nil, err
	}

	to, _ := nextStatusAfterPayment(req.Kind, b.Status)
	ok, err := s.br.UpdateStatusFrom(ctx, tx, b.ID, b.Status, to)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, makeErr(ErrInvalidState)
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return &PaymentHandle{TransactionID: entry.ID, Status: model.TxCompleted}, nil
}

func (s *service) initiateGateway(ctx context.Context, actor model.Actor, bookingID int64, req InitiateReq) (h *PaymentHandle, err error) {
	requestID := uuid.NewString()
	orderID := momorepo.BuildOrderID(bookingID, requestID, orderSuffix(req.Kind))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	b, err := s.checkPayable(ctx, tx, actor, bookingID, req)
	if err != nil {
		return nil, err
	}

	// Reuse an outstanding PENDING attempt instead of piling up orphans on
	// client retries; only the correlation ids are refreshed.
	entry, err := s.tr.FindPendingGateway(ctx, tx, b.ID, req.Kind)
	switch {
	case err == nil:
		if err = s.tr.RefreshGatewayIDs(ctx, tx, entry.ID, requestID, orderID); err != nil {
			return nil, err
		}
		entry.Gateway = &model.GatewayMetadata{RequestID: requestID, OrderID: orderID}
	case errors.Is(err, sql.ErrNoRows):
		entry = &model.Transaction{
			BookingID: &b.ID,
			Amount:    req.Amount,
			Kind:      req.Kind,
			Status:    model.TxPending,
			Method:    model.MethodGateway,
			Gateway:   &model.GatewayMetadata{RequestID: requestID, OrderID: orderID},
		}
		if err = s.tr.Insert(ctx, tx, entry); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}
	// Persist the PENDING entry before talking to the gateway, and do not
	// hold row locks across the network call.
	if err = tx.Commit(); err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, gatewayCallTimeout)
	defer cancel()
	resp, err := s.mr.CreatePayment(callCtx, momorepo.CreateRequest{
		RequestID:   requestID,
		OrderID:     orderID,
		OrderInfo:   fmt.Sprintf("booking %d %s payment", b.ID, strings.ToLower(string(req.Kind))),
		RequestType: "captureWallet",
		Amount:      req.Amount,
	})
	if err != nil {
		// Unknown outcome: entry stays PENDING for the IPN or a retry.
		return nil, makeErr(ErrGatewayUnavailable)
	}

	return &PaymentHandle{
		TransactionID: entry.ID,
		Status:        model.TxPending,
		OrderID:       orderID,
		PayURL:        resp.PayURL,
	}, nil
}

func (s *service) Reconcile(ctx context.Context, p momorepo.IPNPayload) (err error) {
	if err := s.mr.VerifyCallback(p); err != nil {
		return makeErr(ErrSignatureInvalid)
	}
	if _, err := momorepo.ParseOrderID(p.OrderID); err != nil {
		return makeErr(ErrValidation)
	}

	entry, err := s.tr.FindByOrderID(ctx, p.OrderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		return err
	}
	// At-least-once delivery: a settled entry is left untouched.
	if entry.Status.Terminal() {
		return nil
	}
	if p.Amount != entry.Amount {
		return makeErr(ErrValidation)
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

	entry, err = s.tr.GetForUpdate(ctx, tx, entry.ID)
	if err != nil {
		return err
	}
	if entry.Status.Terminal() {
		return tx.Commit()
	}

	if p.ResultCode == momorepo.ResultCodeSuccess {
		err = s.settleSuccess(ctx, tx, entry, p)
	} else {
		err = s.settleFailure(ctx, tx, entry)
	}
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (s *service) settleSuccess(ctx context.Context, tx *sql.Tx, entry *model.Transaction, p momorepo.IPNPayload) error {
	transID := strconv.FormatInt(p.TransID, 10)
	ok, err := s.tr.MarkTerminal(ctx, tx, entry.ID, model.TxCompleted, &transID)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if entry.WalletID != nil {
		// Gateway top-up: credit only now that the gateway confirmed.
		w, err := s.wr.GetForUpdate(ctx, tx, *entry.WalletID)
		if err != nil {
			return err
		}
		return s.wr.UpdateBalance(ctx, tx, w.ID, w.Balance+entry.Amount)
	}

	b, err := s.br.GetForUpdate(ctx, tx, *entry.BookingID)
	if err != nil {
		return err
	}
	if to, ok := nextStatusAfterPayment(entry.Kind, b.Status); ok {
		if _, err := s.br.UpdateStatusFrom(ctx, tx, b.ID, b.Status, to); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) settleFailure(ctx context.Context, tx *sql.Tx, entry *model.Transaction) error {
	ok, err := s.tr.MarkTerminal(ctx, tx, entry.ID, model.TxFailed, nil)
	if err != nil {
		return err
	}
	if !ok || entry.BookingID == nil {
		return nil
	}

	// A pending booking whose only outstanding deposit attempt failed has
	// no path to DEPOSIT_PAID; release the hold.
	if entry.Kind != model.TxDeposit {
		return nil
	}
	b, err := s.br.GetForUpdate(ctx, tx, *entry.BookingID)
	if err != nil {
		return err
	}
	if b.Status != model.BookingPending {
		return nil
	}
	n, err := s.tr.CountPendingDeposits(ctx, tx, b.ID)
	if err != nil {
		return err
	}
	if n == 0 {
		return s.br.Cancel(ctx, tx, b.ID, "deposit payment failed", model.CancelBySystem)
	}
	return nil
}
