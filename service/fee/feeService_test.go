package feesvc

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/miteshanshu/Library-Management-System-Database/model"
	feerepo "github.com/miteshanshu/Library-Management-System-Database/repository/fee"
	"github.com/miteshanshu/Library-Management-System-Database/util/apperr"
)

type mockRepo struct {
	feerepo.Repo

	listFn  func(ctx context.Context, memberID int64) ([]model.LoanFee, error)
	payFn   func(ctx context.Context, feeID int64, amount float64, method string) (*model.LoanFee, error)
	waiveFn func(ctx context.Context, feeID int64) (*model.LoanFee, error)
}

func (m *mockRepo) ListByMember(ctx context.Context, memberID int64) ([]model.LoanFee, error) {
	return m.listFn(ctx, memberID)
}

func (m *mockRepo) RecordPayment(ctx context.Context, feeID int64, amount float64, method string) (*model.LoanFee, error) {
	return m.payFn(ctx, feeID, amount, method)
}

func (m *mockRepo) Waive(ctx context.Context, feeID int64) (*model.LoanFee, error) {
	return m.waiveFn(ctx, feeID)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSummary_Totals(t *testing.T) {
	m := &mockRepo{listFn: func(ctx context.Context, memberID int64) ([]model.LoanFee, error) {
		return []model.LoanFee{
			{ID: 1, Amount: 10, Status: model.FeeUnpaid},
			{ID: 2, Amount: 5, Status: model.FeePaid},
			{ID: 3, Amount: 2.5, Status: model.FeeUnpaid},
		}, nil
	}}
	svc := New(m, testLogger())

	sum, err := svc.Summary(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, 17.5, sum.TotalFees)
	require.Equal(t, 12.5, sum.UnpaidFees)
	require.Len(t, sum.Fees, 3)
}

func TestPay_RejectsNonPositiveAmount(t *testing.T) {
	svc := New(&mockRepo{}, testLogger())

	_, err := svc.Pay(context.Background(), 1, 0, "CASH")
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.Pay(context.Background(), 1, -5, "CASH")
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestPay_DefaultsMethodToCash(t *testing.T) {
	m := &mockRepo{payFn: func(ctx context.Context, feeID int64, amount float64, method string) (*model.LoanFee, error) {
		require.Equal(t, "CASH", method)
		return &model.LoanFee{ID: feeID, Amount: amount, Status: model.FeePaid}, nil
	}}
	svc := New(m, testLogger())

	f, err := svc.Pay(context.Background(), 1, 10, "")
	require.NoError(t, err)
	require.Equal(t, model.FeePaid, f.Status)
}

func TestPay_FeeNotFound(t *testing.T) {
	m := &mockRepo{payFn: func(ctx context.Context, feeID int64, amount float64, method string) (*model.LoanFee, error) {
		return nil, sql.ErrNoRows
	}}
	svc := New(m, testLogger())

	_, err := svc.Pay(context.Background(), 99, 10, "CARD")
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestWaive_NotFound(t *testing.T) {
	m := &mockRepo{waiveFn: func(ctx context.Context, feeID int64) (*model.LoanFee, error) {
		return nil, sql.ErrNoRows
	}}
	svc := New(m, testLogger())

	_, err := svc.Waive(context.Background(), 99)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestWaive_Success(t *testing.T) {
	m := &mockRepo{waiveFn: func(ctx context.Context, feeID int64) (*model.LoanFee, error) {
		return &model.LoanFee{ID: feeID, Amount: 12.5, Status: model.FeePaid}, nil
	}}
	svc := New(m, testLogger())

	f, err := svc.Waive(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, model.FeePaid, f.Status)
}
