// model/wallet.go
package model

import "time"

type WalletStatus string

const (
	WalletActive    WalletStatus = "active"
	WalletSuspended WalletStatus = "suspended"
	WalletClosed    WalletStatus = "closed"
)

// Wallet is a per-user stored-value balance, created lazily on the first
// deposit or payment attempt. Balance is in the smallest currency unit and
// never goes below zero in a committed state.
type Wallet struct {
	ID        int64        `json:"id"`
	UserID    int64        `json:"user_id"`
	Balance   int64        `json:"balance"`
	Status    WalletStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}
