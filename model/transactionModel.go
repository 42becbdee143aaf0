// model/transaction.go
package model

import "time"

type TxKind string

const (
	TxDeposit        TxKind = "DEPOSIT"
	TxRental         TxKind = "RENTAL"
	TxRefund         TxKind = "REFUND"
	TxWalletDeposit  TxKind = "WALLET_DEPOSIT"
	TxWalletWithdraw TxKind = "WALLET_WITHDRAW"
)

type TxStatus string

const (
	TxPending   TxStatus = "PENDING"
	TxCompleted TxStatus = "COMPLETED"
	TxFailed    TxStatus = "FAILED"
	TxRefunded  TxStatus = "REFUNDED"
)

type PayMethod string

const (
	MethodWallet       PayMethod = "WALLET"
	MethodGateway      PayMethod = "GATEWAY"
	MethodBankTransfer PayMethod = "BANK_TRANSFER"
	MethodCash         PayMethod = "CASH"
)

// GatewayMetadata correlates a transaction with the payment provider.
// RequestID and OrderID are written at creation; ProviderTransID is
// appended when the provider confirms.
type GatewayMetadata struct {
	RequestID       string  `json:"request_id"`
	OrderID         string  `json:"order_id"`
	ProviderTransID *string `json:"provider_trans_id,omitempty"`
}

type WalletMetadata struct {
	Note string `json:"note,omitempty"`
}

// Transaction is a ledger entry. Exactly one of BookingID and WalletID is
// set: an entry belongs either to a booking-payment context or to a pure
// wallet top-up/withdrawal context, never both. Amount is positive, in the
// smallest currency unit; the kind decides the sign when summing balances.
type Transaction struct {
	ID        int64     `json:"id"`
	BookingID *int64    `json:"booking_id,omitempty"`
	WalletID  *int64    `json:"wallet_id,omitempty"`
	Amount    int64     `json:"amount"`
	Kind      TxKind    `json:"kind"`
	Status    TxStatus  `json:"status"`
	Method    PayMethod `json:"method"`

	Gateway *GatewayMetadata `json:"gateway,omitempty"`
	Wallet  *WalletMetadata  `json:"wallet,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	SettledAt *time.Time `json:"settled_at,omitempty"`
}

// Terminal reports whether the entry has settled. Settled entries are never
// mutated again; refunds are new entries.
func (t TxStatus) Terminal() bool {
	return t == TxCompleted || t == TxFailed || t == TxRefunded
}

// Signed returns the amount as seen by the paying wallet: withdrawals and
// wallet-funded booking payments are negative, top-ups and refunds positive.
func (t *Transaction) Signed() int64 {
	switch t.Kind {
	case TxWalletWithdraw:
		return -t.Amount
	case TxDeposit, TxRental:
		if t.Method == MethodWallet {
			return -t.Amount
		}
		return t.Amount
	default:
		return t.Amount
	}
}
