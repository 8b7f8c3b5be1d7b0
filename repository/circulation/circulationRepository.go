// Package circulation is the transactional store behind the circulation
// engine. Every read-then-write path the engine performs happens on a Tx,
// with FOR UPDATE locks taken on the member and copy rows before any check,
// so two concurrent issuances of one barcode serialize at the database.
package circulation

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/miteshanshu/Library-Management-System-Database/model"
)

// MemberRow is the member joined with its membership terms, captured at
// issuance time.
type MemberRow struct {
	ID             int64
	FirstName      string
	LastName       string
	Email          string
	Status         model.MemberStatus
	LoanLimit      int
	LoanPeriodDays int
	DailyLateFee   float64
}

// CopyRow is the copy joined with book and location for the issue snapshot.
type CopyRow struct {
	ID       int64
	BookID   int64
	Barcode  string
	Status   model.CopyStatus
	Title    string
	ISBN     string
	Location string
}

// LoanRow is a locked loan joined with the owning member's late-fee rate.
type LoanRow struct {
	ID           int64
	MemberID     int64
	CopyID       int64
	CheckoutDate time.Time
	DueDate      time.Time
	Status       model.LoanStatus
	DailyLateFee float64
}

// Tx is one circulation transaction. Implementations must leave all writes
// invisible until Commit and discard them on Rollback.
type Tx interface {
	Commit() error
	Rollback() error

	MemberForUpdate(ctx context.Context, memberID int64) (*MemberRow, error)
	CopyByBarcodeForUpdate(ctx context.Context, barcode string) (*CopyRow, error)
	CountOpenLoans(ctx context.Context, memberID int64) (int, error)
	UnpaidFeeTotal(ctx context.Context, memberID int64) (float64, error)
	InsertLoan(ctx context.Context, memberID, copyID int64, checkout, due time.Time) (int64, error)
	SetCopyStatus(ctx context.Context, copyID int64, status model.CopyStatus) error

	LoanForUpdate(ctx context.Context, loanID int64) (*LoanRow, error)
	MarkLoanReturned(ctx context.Context, loanID int64, at time.Time) error
	InsertLateFee(ctx context.Context, memberID, loanID int64, amount float64) error

	MarkLoansOverdue(ctx context.Context, now time.Time) (int64, error)
	InsertMissingOverdueAlerts(ctx context.Context, now time.Time) (int64, error)
}

type Store interface {
	Begin(ctx context.Context) (Tx, error)

	ForceCloseLoan(ctx context.Context, loanID int64, at time.Time) (*model.Loan, error)
	LoanDetail(ctx context.Context, loanID int64) (*model.LoanDetail, error)
	LoansByMember(ctx context.Context, memberID int64, status model.LoanStatus) ([]model.LoanDetail, error)
	OpenLoansByMember(ctx context.Context, memberID int64) ([]model.LoanDetail, error)
	LoansByCopy(ctx context.Context, copyID int64) ([]model.LoanDetail, error)
}

type store struct{ db *sql.DB }

func New(db *sql.DB) Store { return &store{db} }

func (s *store) Begin(ctx context.Context) (Tx, error) {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &tx{sqlTx}, nil
}

type tx struct{ tx *sql.Tx }

func (t *tx) Commit() error   { return t.tx.Commit() }
func (t *tx) Rollback() error { return t.tx.Rollback() }

// MemberForUpdate locks the member row. The membership terms come along so
// the loan period and limit are frozen for the rest of the transaction.
func (t *tx) MemberForUpdate(ctx context.Context, memberID int64) (*MemberRow, error) {
	const q = `
		SELECT m.member_id, m.first_name, m.last_name, m.email, m.status,
		       mt.loan_limit, mt.loan_period_days, mt.daily_late_fee
		FROM members m
		JOIN membership_types mt ON m.membership_type_id = mt.membership_type_id
		WHERE m.member_id = $1
		FOR UPDATE OF m`
	m := &MemberRow{}
	err := t.tx.QueryRowContext(ctx, q, memberID).Scan(
		&m.ID, &m.FirstName, &m.LastName, &m.Email, &m.Status,
		&m.LoanLimit, &m.LoanPeriodDays, &m.DailyLateFee)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// CopyByBarcodeForUpdate locks the copy row before its status is inspected,
// so at most one concurrent transaction can see AVAILABLE.
func (t *tx) CopyByBarcodeForUpdate(ctx context.Context, barcode string) (*CopyRow, error) {
	const q = `
		SELECT bc.copy_id, bc.book_id, bc.barcode, bc.status,
		       b.title, b.isbn, COALESCE(l.location_name, 'Not specified')
		FROM book_copies bc
		JOIN books b ON bc.book_id = b.book_id
		LEFT JOIN library_locations l ON bc.location_id = l.location_id
		WHERE bc.barcode = $1
		FOR UPDATE OF bc`
	c := &CopyRow{}
	err := t.tx.QueryRowContext(ctx, q, barcode).Scan(
		&c.ID, &c.BookID, &c.Barcode, &c.Status, &c.Title, &c.ISBN, &c.Location)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (t *tx) CountOpenLoans(ctx context.Context, memberID int64) (int, error) {
	const q = `
		SELECT COUNT(*) FROM loans
		WHERE member_id = $1 AND status IN ('ACTIVE', 'OVERDUE')`
	var n int
	err := t.tx.QueryRowContext(ctx, q, memberID).Scan(&n)
	return n, err
}

func (t *tx) UnpaidFeeTotal(ctx context.Context, memberID int64) (float64, error) {
	const q = `
		SELECT COALESCE(SUM(amount), 0) FROM loan_fees
		WHERE member_id = $1 AND status = 'UNPAID'`
	var total float64
	err := t.tx.QueryRowContext(ctx, q, memberID).Scan(&total)
	return total, err
}

func (t *tx) InsertLoan(ctx context.Context, memberID, copyID int64, checkout, due time.Time) (int64, error) {
	const q = `
		INSERT INTO loans (member_id, copy_id, checkout_date, due_date, status)
		VALUES ($1, $2, $3, $4, 'ACTIVE')
		RETURNING loan_id`
	var id int64
	err := t.tx.QueryRowContext(ctx, q, memberID, copyID, checkout, due).Scan(&id)
	return id, err
}

func (t *tx) SetCopyStatus(ctx context.Context, copyID int64, status model.CopyStatus) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE book_copies SET status = $1 WHERE copy_id = $2`, status, copyID)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return fmt.Errorf("copy %d vanished during transaction", copyID)
	}
	return nil
}

func (t *tx) LoanForUpdate(ctx context.Context, loanID int64) (*LoanRow, error) {
	const q = `
		SELECT l.loan_id, l.member_id, l.copy_id, l.checkout_date, l.due_date, l.status,
		       mt.daily_late_fee
		FROM loans l
		JOIN members m ON l.member_id = m.member_id
		JOIN membership_types mt ON m.membership_type_id = mt.membership_type_id
		WHERE l.loan_id = $1
		FOR UPDATE OF l`
	ln := &LoanRow{}
	err := t.tx.QueryRowContext(ctx, q, loanID).Scan(
		&ln.ID, &ln.MemberID, &ln.CopyID, &ln.CheckoutDate, &ln.DueDate, &ln.Status, &ln.DailyLateFee)
	if err != nil {
		return nil, err
	}
	return ln, nil
}

func (t *tx) MarkLoanReturned(ctx context.Context, loanID int64, at time.Time) error {
	_, err := t.tx.ExecContext(ctx, `
		UPDATE loans SET status = 'RETURNED', returned_date = $1
		WHERE loan_id = $2`, at, loanID)
	return err
}

func (t *tx) InsertLateFee(ctx context.Context, memberID, loanID int64, amount float64) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO loan_fees (loan_id, member_id, fee_type, amount, status)
		VALUES ($1, $2, 'LATE_RETURN', $3, 'UNPAID')`,
		loanID, memberID, amount)
	return err
}

// MarkLoansOverdue flips every ACTIVE loan past due to OVERDUE. Already
// overdue loans are untouched, so a second run is a no-op.
func (t *tx) MarkLoansOverdue(ctx context.Context, now time.Time) (int64, error) {
	res, err := t.tx.ExecContext(ctx, `
		UPDATE loans SET status = 'OVERDUE'
		WHERE status = 'ACTIVE' AND due_date < $1`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// InsertMissingOverdueAlerts emits one OVERDUE alert per member with overdue
// loans, skipping members that already have an unresolved one.
func (t *tx) InsertMissingOverdueAlerts(ctx context.Context, now time.Time) (int64, error) {
	res, err := t.tx.ExecContext(ctx, `
		INSERT INTO member_alerts (member_id, alert_type, message, alert_date)
		SELECT DISTINCT l.member_id, 'OVERDUE', 'You have overdue loans. Please return them as soon as possible.', $1
		FROM loans l
		WHERE l.status = 'OVERDUE'
		  AND NOT EXISTS (
			SELECT 1 FROM member_alerts a
			WHERE a.member_id = l.member_id
			  AND a.alert_type = 'OVERDUE'
			  AND a.resolved_at IS NULL
		  )`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ForceCloseLoan is the administrative repair path: it closes the loan row
// without touching the copy status.
func (s *store) ForceCloseLoan(ctx context.Context, loanID int64, at time.Time) (*model.Loan, error) {
	const q = `
		UPDATE loans SET status = 'RETURNED', returned_date = $1
		WHERE loan_id = $2
		RETURNING loan_id, member_id, copy_id, checkout_date, due_date, returned_date, status`
	ln := &model.Loan{}
	err := s.db.QueryRowContext(ctx, q, at, loanID).Scan(
		&ln.ID, &ln.MemberID, &ln.CopyID, &ln.CheckoutDate, &ln.DueDate, &ln.ReturnedDate, &ln.Status)
	if err != nil {
		return nil, err
	}
	return ln, nil
}

const detailCols = `l.loan_id, l.member_id, l.copy_id, l.checkout_date, l.due_date, l.returned_date, l.status,
	b.title, b.isbn, bc.barcode, bc.status AS copy_status, m.card_number, m.first_name, m.last_name`

const detailJoin = `
	FROM loans l
	JOIN book_copies bc ON l.copy_id = bc.copy_id
	JOIN books b ON bc.book_id = b.book_id
	JOIN members m ON l.member_id = m.member_id`

func scanDetail(s interface{ Scan(...any) error }) (*model.LoanDetail, error) {
	d := &model.LoanDetail{}
	err := s.Scan(&d.ID, &d.MemberID, &d.CopyID, &d.CheckoutDate, &d.DueDate, &d.ReturnedDate, &d.Status,
		&d.Title, &d.ISBN, &d.Barcode, &d.CopyStatus, &d.CardNumber, &d.FirstName, &d.LastName)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *store) LoanDetail(ctx context.Context, loanID int64) (*model.LoanDetail, error) {
	return scanDetail(s.db.QueryRowContext(ctx,
		`SELECT `+detailCols+detailJoin+` WHERE l.loan_id = $1`, loanID))
}

func (s *store) queryDetails(ctx context.Context, q string, args ...any) ([]model.LoanDetail, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.LoanDetail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

func (s *store) LoansByMember(ctx context.Context, memberID int64, status model.LoanStatus) ([]model.LoanDetail, error) {
	q := `SELECT ` + detailCols + detailJoin + ` WHERE l.member_id = $1`
	args := []any{memberID}
	if status != "" {
		q += ` AND l.status = $2`
		args = append(args, status)
	}
	q += ` ORDER BY l.checkout_date DESC`
	return s.queryDetails(ctx, q, args...)
}

func (s *store) OpenLoansByMember(ctx context.Context, memberID int64) ([]model.LoanDetail, error) {
	q := `SELECT ` + detailCols + detailJoin + `
		WHERE l.member_id = $1 AND l.status IN ('ACTIVE', 'OVERDUE')
		ORDER BY l.due_date`
	return s.queryDetails(ctx, q, memberID)
}

func (s *store) LoansByCopy(ctx context.Context, copyID int64) ([]model.LoanDetail, error) {
	q := `SELECT ` + detailCols + detailJoin + `
		WHERE l.copy_id = $1
		ORDER BY l.checkout_date DESC`
	return s.queryDetails(ctx, q, copyID)
}
