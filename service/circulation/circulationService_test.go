package circulation

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	circrepo "github.com/miteshanshu/Library-Management-System-Database/repository/circulation"

	"github.com/stretchr/testify/require"

	"github.com/miteshanshu/Library-Management-System-Database/model"
	"github.com/miteshanshu/Library-Management-System-Database/util/apperr"
)

// --- mocks ---

type mockTx struct {
	calls      []string
	committed  bool
	rolledBack bool

	memberFn    func(ctx context.Context, memberID int64) (*circrepo.MemberRow, error)
	copyFn      func(ctx context.Context, barcode string) (*circrepo.CopyRow, error)
	countFn     func(ctx context.Context, memberID int64) (int, error)
	unpaidFn    func(ctx context.Context, memberID int64) (float64, error)
	insertFn    func(ctx context.Context, memberID, copyID int64, checkout, due time.Time) (int64, error)
	setStatusFn func(ctx context.Context, copyID int64, status model.CopyStatus) error
	loanFn      func(ctx context.Context, loanID int64) (*circrepo.LoanRow, error)
	returnedFn  func(ctx context.Context, loanID int64, at time.Time) error
	lateFeeFn   func(ctx context.Context, memberID, loanID int64, amount float64) error
	overdueFn   func(ctx context.Context, now time.Time) (int64, error)
	alertsFn    func(ctx context.Context, now time.Time) (int64, error)

	commitErr error
}

var _ circrepo.Tx = (*mockTx)(nil)

func (m *mockTx) Commit() error {
	m.calls = append(m.calls, "Commit")
	m.committed = true
	return m.commitErr
}

func (m *mockTx) Rollback() error {
	m.calls = append(m.calls, "Rollback")
	m.rolledBack = true
	return nil
}

func (m *mockTx) MemberForUpdate(ctx context.Context, memberID int64) (*circrepo.MemberRow, error) {
	m.calls = append(m.calls, "MemberForUpdate")
	return m.memberFn(ctx, memberID)
}

func (m *mockTx) CopyByBarcodeForUpdate(ctx context.Context, barcode string) (*circrepo.CopyRow, error) {
	m.calls = append(m.calls, "CopyByBarcodeForUpdate")
	return m.copyFn(ctx, barcode)
}

func (m *mockTx) CountOpenLoans(ctx context.Context, memberID int64) (int, error) {
	m.calls = append(m.calls, "CountOpenLoans")
	return m.countFn(ctx, memberID)
}

func (m *mockTx) UnpaidFeeTotal(ctx context.Context, memberID int64) (float64, error) {
	m.calls = append(m.calls, "UnpaidFeeTotal")
	return m.unpaidFn(ctx, memberID)
}

func (m *mockTx) InsertLoan(ctx context.Context, memberID, copyID int64, checkout, due time.Time) (int64, error) {
	m.calls = append(m.calls, "InsertLoan")
	return m.insertFn(ctx, memberID, copyID, checkout, due)
}

func (m *mockTx) SetCopyStatus(ctx context.Context, copyID int64, status model.CopyStatus) error {
	m.calls = append(m.calls, "SetCopyStatus")
	return m.setStatusFn(ctx, copyID, status)
}

func (m *mockTx) LoanForUpdate(ctx context.Context, loanID int64) (*circrepo.LoanRow, error) {
	m.calls = append(m.calls, "LoanForUpdate")
	return m.loanFn(ctx, loanID)
}

func (m *mockTx) MarkLoanReturned(ctx context.Context, loanID int64, at time.Time) error {
	m.calls = append(m.calls, "MarkLoanReturned")
	return m.returnedFn(ctx, loanID, at)
}

func (m *mockTx) InsertLateFee(ctx context.Context, memberID, loanID int64, amount float64) error {
	m.calls = append(m.calls, "InsertLateFee")
	return m.lateFeeFn(ctx, memberID, loanID, amount)
}

func (m *mockTx) MarkLoansOverdue(ctx context.Context, now time.Time) (int64, error) {
	m.calls = append(m.calls, "MarkLoansOverdue")
	return m.overdueFn(ctx, now)
}

func (m *mockTx) InsertMissingOverdueAlerts(ctx context.Context, now time.Time) (int64, error) {
	m.calls = append(m.calls, "InsertMissingOverdueAlerts")
	return m.alertsFn(ctx, now)
}

type mockStore struct {
	tx           *mockTx
	beginErr     error
	forceCloseFn func(ctx context.Context, loanID int64, at time.Time) (*model.Loan, error)
	detailFn     func(ctx context.Context, loanID int64) (*model.LoanDetail, error)
}

var _ circrepo.Store = (*mockStore)(nil)

func (m *mockStore) Begin(ctx context.Context) (circrepo.Tx, error) {
	if m.beginErr != nil {
		return nil, m.beginErr
	}
	return m.tx, nil
}

func (m *mockStore) ForceCloseLoan(ctx context.Context, loanID int64, at time.Time) (*model.Loan, error) {
	return m.forceCloseFn(ctx, loanID, at)
}

func (m *mockStore) LoanDetail(ctx context.Context, loanID int64) (*model.LoanDetail, error) {
	return m.detailFn(ctx, loanID)
}

func (m *mockStore) LoansByMember(ctx context.Context, memberID int64, status model.LoanStatus) ([]model.LoanDetail, error) {
	return nil, nil
}

func (m *mockStore) OpenLoansByMember(ctx context.Context, memberID int64) ([]model.LoanDetail, error) {
	return nil, nil
}

func (m *mockStore) LoansByCopy(ctx context.Context, copyID int64) ([]model.LoanDetail, error) {
	return nil, nil
}

// --- fixtures ---

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func activeMember() *circrepo.MemberRow {
	return &circrepo.MemberRow{
		ID: 7, FirstName: "Asha", LastName: "Verma", Email: "asha@example.com",
		Status: model.MemberActive, LoanLimit: 2, LoanPeriodDays: 14, DailyLateFee: 1.5,
	}
}

func availableCopy() *circrepo.CopyRow {
	return &circrepo.CopyRow{
		ID: 31, BookID: 5, Barcode: "BC-0031", Status: model.CopyAvailable,
		Title: "The Go Programming Language", ISBN: "978-0134190440", Location: "Main Hall",
	}
}

func issueTx() *mockTx {
	return &mockTx{
		memberFn: func(ctx context.Context, id int64) (*circrepo.MemberRow, error) {
			return activeMember(), nil
		},
		copyFn: func(ctx context.Context, barcode string) (*circrepo.CopyRow, error) {
			return availableCopy(), nil
		},
		countFn:  func(ctx context.Context, id int64) (int, error) { return 0, nil },
		unpaidFn: func(ctx context.Context, id int64) (float64, error) { return 0, nil },
		insertFn: func(ctx context.Context, memberID, copyID int64, checkout, due time.Time) (int64, error) {
			return 100, nil
		},
		setStatusFn: func(ctx context.Context, copyID int64, status model.CopyStatus) error { return nil },
	}
}

func newService(st *mockStore) *service {
	s := New(st, slog.New(slog.NewTextHandler(io.Discard, nil))).(*service)
	s.now = func() time.Time { return testNow }
	return s
}

// --- issue ---

func TestIssue_Success(t *testing.T) {
	tx := issueTx()
	var gotDue, gotCheckout time.Time
	var gotStatus model.CopyStatus
	tx.insertFn = func(ctx context.Context, memberID, copyID int64, checkout, due time.Time) (int64, error) {
		require.Equal(t, int64(7), memberID)
		require.Equal(t, int64(31), copyID)
		gotCheckout, gotDue = checkout, due
		return 100, nil
	}
	tx.setStatusFn = func(ctx context.Context, copyID int64, status model.CopyStatus) error {
		require.Equal(t, int64(31), copyID)
		gotStatus = status
		return nil
	}

	s := newService(&mockStore{tx: tx})
	res, err := s.Issue(context.Background(), 7, "BC-0031")
	require.NoError(t, err)
	require.True(t, tx.committed)
	require.False(t, tx.rolledBack)

	require.Equal(t, testNow, gotCheckout)
	require.Equal(t, testNow.AddDate(0, 0, 14), gotDue)
	require.Equal(t, model.CopyLoaned, gotStatus)

	require.Equal(t, int64(100), res.LoanID)
	require.Equal(t, "Asha Verma", res.Member.Name)
	require.Equal(t, "asha@example.com", res.Member.Email)
	require.Equal(t, "The Go Programming Language", res.Book.Title)
	require.Equal(t, "BC-0031", res.Book.Barcode)
	require.Equal(t, "Main Hall", res.Book.Location)
	require.Equal(t, 14, res.LoanPeriodDays)
	require.Equal(t, model.LoanActive, res.Status)
}

func TestIssue_MemberNotFound(t *testing.T) {
	tx := issueTx()
	tx.memberFn = func(ctx context.Context, id int64) (*circrepo.MemberRow, error) {
		return nil, sql.ErrNoRows
	}

	s := newService(&mockStore{tx: tx})
	_, err := s.Issue(context.Background(), 99, "BC-0031")
	require.Error(t, err)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	require.True(t, tx.rolledBack)
	require.False(t, tx.committed)
	require.NotContains(t, tx.calls, "InsertLoan")
}

func TestIssue_MemberInactive(t *testing.T) {
	tx := issueTx()
	tx.memberFn = func(ctx context.Context, id int64) (*circrepo.MemberRow, error) {
		m := activeMember()
		m.Status = model.MemberSuspended
		return m, nil
	}

	s := newService(&mockStore{tx: tx})
	_, err := s.Issue(context.Background(), 7, "BC-0031")
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	require.True(t, tx.rolledBack)
	// Suspended members fail before the copy is even looked at.
	require.NotContains(t, tx.calls, "CopyByBarcodeForUpdate")
}

func TestIssue_CopyNotFound(t *testing.T) {
	tx := issueTx()
	tx.copyFn = func(ctx context.Context, barcode string) (*circrepo.CopyRow, error) {
		return nil, sql.ErrNoRows
	}

	s := newService(&mockStore{tx: tx})
	_, err := s.Issue(context.Background(), 7, "NOPE")
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	require.True(t, tx.rolledBack)
}

func TestIssue_CopyUnavailable(t *testing.T) {
	tx := issueTx()
	tx.copyFn = func(ctx context.Context, barcode string) (*circrepo.CopyRow, error) {
		c := availableCopy()
		c.Status = model.CopyLoaned
		return c, nil
	}

	s := newService(&mockStore{tx: tx})
	_, err := s.Issue(context.Background(), 7, "BC-0031")
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	require.True(t, tx.rolledBack)

	// The availability check fails before any limit or fee lookups run.
	require.NotContains(t, tx.calls, "CountOpenLoans")
	require.NotContains(t, tx.calls, "UnpaidFeeTotal")
	require.NotContains(t, tx.calls, "InsertLoan")

	e, ok := apperr.As(err)
	require.True(t, ok)
	details, ok := e.Details.(map[string]any)
	require.True(t, ok)
	require.Equal(t, model.CopyLoaned, details["current_status"])
}

func TestIssue_LoanLimitReached(t *testing.T) {
	tx := issueTx()
	tx.countFn = func(ctx context.Context, id int64) (int, error) { return 2, nil }

	s := newService(&mockStore{tx: tx})
	_, err := s.Issue(context.Background(), 7, "BC-0031")
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	require.True(t, tx.rolledBack)
	require.NotContains(t, tx.calls, "InsertLoan")

	e, _ := apperr.As(err)
	details := e.Details.(map[string]any)
	require.Equal(t, 2, details["active_loans"])
	require.Equal(t, 2, details["loan_limit"])
}

func TestIssue_UnpaidFees(t *testing.T) {
	tx := issueTx()
	tx.unpaidFn = func(ctx context.Context, id int64) (float64, error) { return 12.50, nil }

	s := newService(&mockStore{tx: tx})
	_, err := s.Issue(context.Background(), 7, "BC-0031")
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	require.True(t, tx.rolledBack)
	require.NotContains(t, tx.calls, "InsertLoan")
}

func TestIssue_CheckOrder(t *testing.T) {
	tx := issueTx()
	s := newService(&mockStore{tx: tx})
	_, err := s.Issue(context.Background(), 7, "BC-0031")
	require.NoError(t, err)

	require.Equal(t, []string{
		"MemberForUpdate",
		"CopyByBarcodeForUpdate",
		"CountOpenLoans",
		"UnpaidFeeTotal",
		"InsertLoan",
		"SetCopyStatus",
		"Commit",
	}, tx.calls)
}

func TestIssue_CommitError(t *testing.T) {
	tx := issueTx()
	tx.commitErr = errors.New("serialization failure")

	s := newService(&mockStore{tx: tx})
	_, err := s.Issue(context.Background(), 7, "BC-0031")
	require.Equal(t, apperr.KindInternal, apperr.KindOf(err))
}

// --- return ---

func returnTx(status model.LoanStatus, due time.Time) *mockTx {
	return &mockTx{
		loanFn: func(ctx context.Context, loanID int64) (*circrepo.LoanRow, error) {
			return &circrepo.LoanRow{
				ID: loanID, MemberID: 7, CopyID: 31,
				CheckoutDate: due.AddDate(0, 0, -14), DueDate: due,
				Status: status, DailyLateFee: 1.5,
			}, nil
		},
		returnedFn:  func(ctx context.Context, loanID int64, at time.Time) error { return nil },
		setStatusFn: func(ctx context.Context, copyID int64, status model.CopyStatus) error { return nil },
		lateFeeFn:   func(ctx context.Context, memberID, loanID int64, amount float64) error { return nil },
	}
}

func TestReturn_OnTime(t *testing.T) {
	tx := returnTx(model.LoanActive, testNow.AddDate(0, 0, 3))
	var freed model.CopyStatus
	tx.setStatusFn = func(ctx context.Context, copyID int64, status model.CopyStatus) error {
		require.Equal(t, int64(31), copyID)
		freed = status
		return nil
	}

	s := newService(&mockStore{tx: tx})
	require.NoError(t, s.Return(context.Background(), 100))
	require.True(t, tx.committed)
	require.Equal(t, model.CopyAvailable, freed)
	require.NotContains(t, tx.calls, "InsertLateFee")
}

func TestReturn_LateAssessesFee(t *testing.T) {
	// Due 2.5 days ago at a daily rate of 1.5 rounds up to 3 days late.
	due := testNow.Add(-60 * time.Hour)
	tx := returnTx(model.LoanOverdue, due)
	var gotAmount float64
	tx.lateFeeFn = func(ctx context.Context, memberID, loanID int64, amount float64) error {
		require.Equal(t, int64(7), memberID)
		require.Equal(t, int64(100), loanID)
		gotAmount = amount
		return nil
	}

	s := newService(&mockStore{tx: tx})
	require.NoError(t, s.Return(context.Background(), 100))
	require.True(t, tx.committed)
	require.Equal(t, 4.5, gotAmount)
}

func TestReturn_AlreadyReturned(t *testing.T) {
	tx := returnTx(model.LoanReturned, testNow)

	s := newService(&mockStore{tx: tx})
	err := s.Return(context.Background(), 100)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	require.True(t, tx.rolledBack)
	require.NotContains(t, tx.calls, "MarkLoanReturned")
	require.NotContains(t, tx.calls, "SetCopyStatus")
}

func TestReturn_Missing(t *testing.T) {
	tx := returnTx(model.LoanActive, testNow)
	tx.loanFn = func(ctx context.Context, loanID int64) (*circrepo.LoanRow, error) {
		return nil, sql.ErrNoRows
	}

	s := newService(&mockStore{tx: tx})
	err := s.Return(context.Background(), 404)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	require.True(t, tx.rolledBack)
}

// --- overdue batch ---

func TestGenerateOverdueAlerts(t *testing.T) {
	tx := &mockTx{
		overdueFn: func(ctx context.Context, now time.Time) (int64, error) { return 3, nil },
		alertsFn:  func(ctx context.Context, now time.Time) (int64, error) { return 2, nil },
	}

	s := newService(&mockStore{tx: tx})
	stats, err := s.GenerateOverdueAlerts(context.Background())
	require.NoError(t, err)
	require.True(t, tx.committed)
	require.Equal(t, int64(3), stats.LoansMarkedOverdue)
	require.Equal(t, int64(2), stats.AlertsCreated)
}

func TestGenerateOverdueAlerts_SecondRunNoop(t *testing.T) {
	tx := &mockTx{
		overdueFn: func(ctx context.Context, now time.Time) (int64, error) { return 0, nil },
		alertsFn:  func(ctx context.Context, now time.Time) (int64, error) { return 0, nil },
	}

	s := newService(&mockStore{tx: tx})
	stats, err := s.GenerateOverdueAlerts(context.Background())
	require.NoError(t, err)
	require.True(t, tx.committed)
	require.Zero(t, stats.LoansMarkedOverdue)
	require.Zero(t, stats.AlertsCreated)
}

// --- force close ---

func TestForceClose_NotFound(t *testing.T) {
	st := &mockStore{
		forceCloseFn: func(ctx context.Context, loanID int64, at time.Time) (*model.Loan, error) {
			return nil, sql.ErrNoRows
		},
	}

	s := newService(st)
	_, err := s.ForceClose(context.Background(), 404)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestForceClose_Success(t *testing.T) {
	st := &mockStore{
		forceCloseFn: func(ctx context.Context, loanID int64, at time.Time) (*model.Loan, error) {
			require.Equal(t, testNow, at)
			ret := at
			return &model.Loan{ID: loanID, Status: model.LoanReturned, ReturnedDate: &ret}, nil
		},
	}

	s := newService(st)
	ln, err := s.ForceClose(context.Background(), 100)
	require.NoError(t, err)
	require.Equal(t, model.LoanReturned, ln.Status)
}
