package paymentsvc

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tienvum1/Rentzy--sub001/model"
	momorepo "github.com/tienvum1/Rentzy--sub001/repository/momo"
	txrepo "github.com/tienvum1/Rentzy--sub001/repository/transaction"
)

type txRepoMock struct {
	findByOrderIDFn func(ctx context.Context, orderID string) (*model.Transaction, error)
}

var _ txrepo.Repo = (*txRepoMock)(nil)

func (m *txRepoMock) Insert(ctx context.Context, tx *sql.Tx, t *model.Transaction) error { return nil }
func (m *txRepoMock) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Transaction, error) {
	return nil, sql.ErrNoRows
}
func (m *txRepoMock) FindByOrderID(ctx context.Context, orderID string) (*model.Transaction, error) {
	return m.findByOrderIDFn(ctx, orderID)
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
	return nil, nil
}

type momoMock struct {
	verifyErr error
}

var _ momorepo.Repo = momoMock{}

func (m momoMock) CreatePayment(ctx context.Context, req momorepo.CreateRequest) (*momorepo.CreateResponse, error) {
	return &momorepo.CreateResponse{PayURL: "https://pay.example/x"}, nil
}
func (m momoMock) VerifyCallback(p momorepo.IPNPayload) error { return m.verifyErr }

func TestNextStatusAfterPayment(t *testing.T) {
	cases := []struct {
		kind    model.TxKind
		current model.BookingStatus
		want    model.BookingStatus
		ok      bool
	}{
		{model.TxDeposit, model.BookingPending, model.BookingDepositPaid, true},
		{model.TxRental, model.BookingDepositPaid, model.BookingConfirmed, true},
		{model.TxRental, model.BookingConfirmed, model.BookingRentalPaid, true},

		// no skipping: a rental payment cannot land on a pending booking
		{model.TxRental, model.BookingPending, "", false},
		// no double application
		{model.TxDeposit, model.BookingDepositPaid, "", false},
		{model.TxRental, model.BookingRentalPaid, "", false},
		// settled or dead bookings never move
		{model.TxDeposit, model.BookingCanceled, "", false},
		{model.TxRental, model.BookingCompleted, "", false},
		// refunds never drive the state machine
		{model.TxRefund, model.BookingDepositPaid, "", false},
	}
	for _, tc := range cases {
		got, ok := nextStatusAfterPayment(tc.kind, tc.current)
		require.Equal(t, tc.ok, ok, "kind=%s current=%s", tc.kind, tc.current)
		require.Equal(t, tc.want, got, "kind=%s current=%s", tc.kind, tc.current)
	}
}

func TestExpectedAmount(t *testing.T) {
	b := &model.Booking{
		Pricing: model.Pricing{TotalAmount: 2000000, Deposit: 500000},
	}
	require.Equal(t, int64(500000), expectedAmount(b, model.TxDeposit))
	require.Equal(t, int64(1500000), expectedAmount(b, model.TxRental))
	require.Equal(t, int64(0), expectedAmount(b, model.TxRefund))
}

// At-least-once delivery: running the same callback a second time must not
// touch a settled entry. The service has no database here, so reaching
// BeginTx would panic; a nil return proves the terminal short-circuit.
func TestReconcile_ReplayIsNoOp(t *testing.T) {
	bid := int64(7)
	tr := &txRepoMock{
		findByOrderIDFn: func(ctx context.Context, orderID string) (*model.Transaction, error) {
			require.Equal(t, "7-req-1-deposit", orderID)
			return &model.Transaction{
				ID:        3,
				BookingID: &bid,
				Amount:    500000,
				Kind:      model.TxDeposit,
				Status:    model.TxCompleted,
				Method:    model.MethodGateway,
			}, nil
		},
	}
	s := New(nil, nil, tr, nil, momoMock{})

	p := momorepo.IPNPayload{OrderID: "7-req-1-deposit", Amount: 500000, ResultCode: 0}
	require.NoError(t, s.Reconcile(context.Background(), p))
}

func TestReconcile_SignatureRejected(t *testing.T) {
	s := New(nil, nil, &txRepoMock{}, nil, momoMock{verifyErr: momorepo.ErrSignatureMismatch})

	err := s.Reconcile(context.Background(), momorepo.IPNPayload{OrderID: "7-req-1-deposit", Amount: 1})
	require.Equal(t, ErrSignatureInvalid, Code(err))
}

func TestReconcile_UnknownOrder(t *testing.T) {
	tr := &txRepoMock{
		findByOrderIDFn: func(ctx context.Context, orderID string) (*model.Transaction, error) {
			return nil, sql.ErrNoRows
		},
	}
	s := New(nil, nil, tr, nil, momoMock{})

	err := s.Reconcile(context.Background(), momorepo.IPNPayload{OrderID: "7-req-1-deposit", Amount: 1})
	require.Equal(t, ErrNotFound, Code(err))
}

func TestReconcile_MalformedOrderID(t *testing.T) {
	s := New(nil, nil, &txRepoMock{}, nil, momoMock{})

	err := s.Reconcile(context.Background(), momorepo.IPNPayload{OrderID: "garbage", Amount: 1})
	require.Equal(t, ErrValidation, Code(err))
}

func TestReconcile_AmountMismatch(t *testing.T) {
	bid := int64(7)
	tr := &txRepoMock{
		findByOrderIDFn: func(ctx context.Context, orderID string) (*model.Transaction, error) {
			return &model.Transaction{
				ID:        3,
				BookingID: &bid,
				Amount:    500000,
				Kind:      model.TxDeposit,
				Status:    model.TxPending,
				Method:    model.MethodGateway,
			}, nil
		},
	}
	s := New(nil, nil, tr, nil, momoMock{})

	err := s.Reconcile(context.Background(), momorepo.IPNPayload{OrderID: "7-req-1-deposit", Amount: 499999, ResultCode: 0})
	require.Equal(t, ErrValidation, Code(err))
}

func TestOrderSuffix(t *testing.T) {
	// Deposit and rental attempts for one booking must get distinct
	// gateway order ids.
	require.NotEqual(t, orderSuffix(model.TxDeposit), orderSuffix(model.TxRental))
	require.Equal(t, "deposit", orderSuffix(model.TxDeposit))
	require.Equal(t, "rental", orderSuffix(model.TxRental))
	require.Equal(t, "topup", orderSuffix(model.TxWalletDeposit))
}
