package wallet

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tienvum1/Rentzy--sub001/model"
	momorepo "github.com/tienvum1/Rentzy--sub001/repository/momo"
)

type walletRepoMock struct {
	getByUserFn func(ctx context.Context, userID int64) (*model.Wallet, error)
}

func (m *walletRepoMock) GetByUser(ctx context.Context, userID int64) (*model.Wallet, error) {
	return m.getByUserFn(ctx, userID)
}
func (m *walletRepoMock) GetOrCreateForUpdate(ctx context.Context, tx *sql.Tx, userID int64) (*model.Wallet, error) {
	return nil, sql.ErrNoRows
}
func (m *walletRepoMock) GetForUpdate(ctx context.Context, tx *sql.Tx, walletID int64) (*model.Wallet, error) {
	return nil, sql.ErrNoRows
}
func (m *walletRepoMock) UpdateBalance(ctx context.Context, tx *sql.Tx, walletID int64, newBalance int64) error {
	return nil
}

type txRepoMock struct {
	listByWalletFn func(ctx context.Context, walletID int64) ([]model.Transaction, error)
}

func (m *txRepoMock) Insert(ctx context.Context, tx *sql.Tx, t *model.Transaction) error { return nil }
func (m *txRepoMock) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Transaction, error) {
	return nil, sql.ErrNoRows
}
func (m *txRepoMock) FindByOrderID(ctx context.Context, orderID string) (*model.Transaction, error) {
	return nil, sql.ErrNoRows
}
func (m *txRepoMock) FindPendingGateway(ctx context.Context, tx *sql.Tx, bookingID int64, kind model.TxKind) (*model.Transaction, error) {
	return nil, sql.ErrNoRows
}
func (m *txRepoMock) MarkTerminal(ctx context.Context, tx *sql.Tx, id int64, to model.TxStatus, providerTransID *string) (bool, error) {
	return false, nil
}
func (m *txRepoMock) RefreshGatewayIDs(ctx context.Context, tx *sql.Tx, id int64, requestID, orderID string) error {
	return nil
}
func (m *txRepoMock) SumPaid(ctx context.Context, tx *sql.Tx, bookingID int64) (int64, error) {
	return 0, nil
}
func (m *txRepoMock) CountPendingDeposits(ctx context.Context, tx *sql.Tx, bookingID int64) (int64, error) {
	return 0, nil
}
func (m *txRepoMock) ListByBooking(ctx context.Context, bookingID int64) ([]model.Transaction, error) {
	return nil, nil
}
func (m *txRepoMock) ListByWallet(ctx context.Context, walletID int64) ([]model.Transaction, error) {
	return m.listByWalletFn(ctx, walletID)
}

type momoMock struct{}

func (momoMock) CreatePayment(ctx context.Context, req momorepo.CreateRequest) (*momorepo.CreateResponse, error) {
	return &momorepo.CreateResponse{PayURL: "https://pay.example/x"}, nil
}
func (momoMock) VerifyCallback(p momorepo.IPNPayload) error { return nil }

func TestBalance_LazyWallet(t *testing.T) {
	wr := &walletRepoMock{
		getByUserFn: func(ctx context.Context, userID int64) (*model.Wallet, error) {
			return nil, sql.ErrNoRows
		},
	}
	s := New(nil, wr, &txRepoMock{}, momoMock{})

	w, err := s.Balance(context.Background(), 9)
	require.NoError(t, err)
	require.Equal(t, int64(9), w.UserID)
	require.Zero(t, w.Balance)
	require.Equal(t, model.WalletActive, w.Status)
}

func TestLedger_PassThrough(t *testing.T) {
	wr := &walletRepoMock{
		getByUserFn: func(ctx context.Context, userID int64) (*model.Wallet, error) {
			return &model.Wallet{ID: 3, UserID: userID, Balance: 100}, nil
		},
	}
	tr := &txRepoMock{
		listByWalletFn: func(ctx context.Context, walletID int64) ([]model.Transaction, error) {
			require.Equal(t, int64(3), walletID)
			return []model.Transaction{{ID: 1, Amount: 100}}, nil
		},
	}
	s := New(nil, wr, tr, momoMock{})

	rows, err := s.Ledger(context.Background(), 9)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestAmountValidation(t *testing.T) {
	s := New(nil, &walletRepoMock{}, &txRepoMock{}, momoMock{})

	_, err := s.Topup(context.Background(), 1, 0)
	require.Equal(t, ErrValidation, Code(err))

	_, err = s.RequestWithdrawal(context.Background(), 1, -5)
	require.Equal(t, ErrValidation, Code(err))
}

func TestReviewWithdrawal_AdminOnly(t *testing.T) {
	s := New(nil, &walletRepoMock{}, &txRepoMock{}, momoMock{})

	err := s.ReviewWithdrawal(context.Background(), model.Actor{ID: 1, Capabilities: []string{model.CapRent}}, 5, true)
	require.Equal(t, ErrForbidden, Code(err))
}
