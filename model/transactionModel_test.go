package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTxStatusTerminal(t *testing.T) {
	require.False(t, TxPending.Terminal())
	require.True(t, TxCompleted.Terminal())
	require.True(t, TxFailed.Terminal())
	require.True(t, TxRefunded.Terminal())
}

func TestSignedAmounts(t *testing.T) {
	wid := int64(1)
	bid := int64(7)

	topup := Transaction{WalletID: &wid, Amount: 300, Kind: TxWalletDeposit, Method: MethodGateway}
	withdraw := Transaction{WalletID: &wid, Amount: 100, Kind: TxWalletWithdraw, Method: MethodBankTransfer}
	walletPay := Transaction{BookingID: &bid, Amount: 150, Kind: TxDeposit, Method: MethodWallet}
	gatewayPay := Transaction{BookingID: &bid, Amount: 500, Kind: TxRental, Method: MethodGateway}
	refund := Transaction{BookingID: &bid, Amount: 45, Kind: TxRefund, Method: MethodWallet}

	require.Equal(t, int64(300), topup.Signed())
	require.Equal(t, int64(-100), withdraw.Signed())
	require.Equal(t, int64(-150), walletPay.Signed())
	require.Equal(t, int64(500), gatewayPay.Signed())
	require.Equal(t, int64(45), refund.Signed())
}

// The balance a wallet ends up with equals the sum of signed completed
// entries that touched it.
func TestSignedSum_MatchesBalance(t *testing.T) {
	wid := int64(1)
	bid := int64(7)

	balance := int64(0)
	entries := []Transaction{
		{WalletID: &wid, Amount: 1000, Kind: TxWalletDeposit, Method: MethodGateway, Status: TxCompleted},
		{BookingID: &bid, Amount: 400, Kind: TxDeposit, Method: MethodWallet, Status: TxCompleted},
		{WalletID: &wid, Amount: 200, Kind: TxWalletWithdraw, Method: MethodBankTransfer, Status: TxFailed},
		{BookingID: &bid, Amount: 120, Kind: TxRefund, Method: MethodWallet, Status: TxCompleted},
	}
	var sum int64
	for i := range entries {
		if entries[i].Status == TxCompleted {
			sum += entries[i].Signed()
		}
	}
	balance = 1000 - 400 + 120
	require.Equal(t, balance, sum)
}
