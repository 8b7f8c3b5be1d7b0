// Package report holds the read-only reporting projections. These are
// stateless aggregations with no invariant to preserve, scanned with sqlx.
package report

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/miteshanshu/Library-Management-System-Database/model"
)

type OverdueRow struct {
	model.LoanDetail
	Email string `json:"email" db:"email"`
}

type CirculationRow struct {
	Title          string `json:"title" db:"title"`
	TotalCheckouts int64  `json:"total_checkouts" db:"total_checkouts"`
	Returned       int64  `json:"returned" db:"returned"`
	Outstanding    int64  `json:"outstanding" db:"outstanding"`
}

type InventoryRow struct {
	Title       string `json:"title" db:"title"`
	TotalCopies int64  `json:"total_copies" db:"total_copies"`
	Available   int64  `json:"available" db:"available"`
	Loaned      int64  `json:"loaned" db:"loaned"`
	Maintenance int64  `json:"maintenance" db:"maintenance"`
	Lost        int64  `json:"lost" db:"lost"`
}

type MemberActivityRow struct {
	MemberID         int64  `json:"member_id" db:"member_id"`
	CardNumber       string `json:"card_number" db:"card_number"`
	FirstName        string `json:"first_name" db:"first_name"`
	LastName         string `json:"last_name" db:"last_name"`
	Email            string `json:"email" db:"email"`
	TotalLoans       int64  `json:"total_loans" db:"total_loans"`
	ReturnedLoans    int64  `json:"returned_loans" db:"returned_loans"`
	OutstandingLoans int64  `json:"outstanding_loans" db:"outstanding_loans"`
}

type DebtAgingRow struct {
	MemberID    int64   `json:"member_id" db:"member_id"`
	CardNumber  string  `json:"card_number" db:"card_number"`
	FirstName   string  `json:"first_name" db:"first_name"`
	LastName    string  `json:"last_name" db:"last_name"`
	Email       string  `json:"email" db:"email"`
	UnpaidFees  float64 `json:"unpaid_fees" db:"unpaid_fees"`
	PartialFees float64 `json:"partial_fees" db:"partial_fees"`
}

type TurnaroundRow struct {
	Year        int     `json:"year" db:"year"`
	Month       int     `json:"month" db:"month"`
	AvgLoanDays float64 `json:"avg_loan_days" db:"avg_loan_days"`
	TotalLoans  int64   `json:"total_loans" db:"total_loans"`
}

type Dashboard struct {
	TotalMembers    int64   `json:"total_members"`
	TotalBooks      int64   `json:"total_books"`
	AvailableCopies int64   `json:"available_copies"`
	ActiveLoans     int64   `json:"active_loans"`
	OutstandingFees float64 `json:"outstanding_fees"`
}

type Repo interface {
	Overdue(ctx context.Context, limit, offset int) ([]OverdueRow, error)
	Circulation(ctx context.Context, start, end *time.Time) ([]CirculationRow, error)
	Inventory(ctx context.Context) ([]InventoryRow, error)
	MemberActivity(ctx context.Context, limit, offset int) ([]MemberActivityRow, error)
	DebtAging(ctx context.Context) ([]DebtAgingRow, error)
	Turnaround(ctx context.Context) ([]TurnaroundRow, error)
	Dashboard(ctx context.Context) (*Dashboard, error)
}

type repo struct{ db *sqlx.DB }

func New(db *sql.DB) Repo {
	return &repo{db: sqlx.NewDb(db, "pgx")}
}

func (r *repo) Overdue(ctx context.Context, limit, offset int) ([]OverdueRow, error) {
	const q = `
		SELECT l.loan_id, l.member_id, l.copy_id, l.checkout_date, l.due_date, l.returned_date, l.status,
		       b.title, b.isbn, bc.barcode, bc.status AS copy_status,
		       m.card_number, m.first_name, m.last_name, m.email
		FROM loans l
		JOIN book_copies bc ON l.copy_id = bc.copy_id
		JOIN books b ON bc.book_id = b.book_id
		JOIN members m ON l.member_id = m.member_id
		WHERE l.status = 'OVERDUE'
		ORDER BY l.due_date ASC
		LIMIT $1 OFFSET $2`
	var out []OverdueRow
	err := r.db.SelectContext(ctx, &out, q, limit, offset)
	return out, err
}

func (r *repo) Circulation(ctx context.Context, start, end *time.Time) ([]CirculationRow, error) {
	q := `
		SELECT b.title,
		       COUNT(l.loan_id) AS total_checkouts,
		       COUNT(*) FILTER (WHERE l.status = 'RETURNED') AS returned,
		       COUNT(*) FILTER (WHERE l.status IN ('ACTIVE', 'OVERDUE')) AS outstanding
		FROM loans l
		JOIN book_copies bc ON l.copy_id = bc.copy_id
		JOIN books b ON bc.book_id = b.book_id
		WHERE ($1::TIMESTAMPTZ IS NULL OR l.checkout_date >= $1)
		  AND ($2::TIMESTAMPTZ IS NULL OR l.checkout_date <= $2)
		GROUP BY b.title
		ORDER BY total_checkouts DESC`
	var out []CirculationRow
	err := r.db.SelectContext(ctx, &out, q, start, end)
	return out, err
}

func (r *repo) Inventory(ctx context.Context) ([]InventoryRow, error) {
	const q = `
		SELECT b.title,
		       COUNT(bc.copy_id) AS total_copies,
		       COUNT(*) FILTER (WHERE bc.status = 'AVAILABLE') AS available,
		       COUNT(*) FILTER (WHERE bc.status = 'LOANED') AS loaned,
		       COUNT(*) FILTER (WHERE bc.status = 'MAINTENANCE') AS maintenance,
		       COUNT(*) FILTER (WHERE bc.status = 'LOST') AS lost
		FROM book_copies bc
		JOIN books b ON bc.book_id = b.book_id
		GROUP BY b.title
		ORDER BY total_copies DESC`
	var out []InventoryRow
	err := r.db.SelectContext(ctx, &out, q)
	return out, err
}

func (r *repo) MemberActivity(ctx context.Context, limit, offset int) ([]MemberActivityRow, error) {
	const q = `
		SELECT m.member_id, m.card_number, m.first_name, m.last_name, m.email,
		       COUNT(l.loan_id) AS total_loans,
		       COUNT(*) FILTER (WHERE l.status = 'RETURNED') AS returned_loans,
		       COUNT(*) FILTER (WHERE l.status IN ('ACTIVE', 'OVERDUE')) AS outstanding_loans
		FROM members m
		LEFT JOIN loans l ON m.member_id = l.member_id
		GROUP BY m.member_id
		ORDER BY total_loans DESC
		LIMIT $1 OFFSET $2`
	var out []MemberActivityRow
	err := r.db.SelectContext(ctx, &out, q, limit, offset)
	return out, err
}

func (r *repo) DebtAging(ctx context.Context) ([]DebtAgingRow, error) {
	const q = `
		SELECT m.member_id, m.card_number, m.first_name, m.last_name, m.email,
		       COALESCE(SUM(lf.amount) FILTER (WHERE lf.status = 'UNPAID'), 0) AS unpaid_fees,
		       COALESCE(SUM(lf.amount) FILTER (WHERE lf.status = 'PARTIAL'), 0) AS partial_fees
		FROM members m
		LEFT JOIN loan_fees lf ON m.member_id = lf.member_id
		GROUP BY m.member_id
		HAVING COALESCE(SUM(lf.amount) FILTER (WHERE lf.status = 'UNPAID'), 0) > 0
		    OR COALESCE(SUM(lf.amount) FILTER (WHERE lf.status = 'PARTIAL'), 0) > 0
		ORDER BY unpaid_fees DESC`
	var out []DebtAgingRow
	err := r.db.SelectContext(ctx, &out, q)
	return out, err
}

func (r *repo) Turnaround(ctx context.Context) ([]TurnaroundRow, error) {
	const q = `
		SELECT EXTRACT(YEAR FROM l.checkout_date)::INT AS year,
		       EXTRACT(MONTH FROM l.checkout_date)::INT AS month,
		       AVG(EXTRACT(EPOCH FROM (l.returned_date - l.checkout_date)) / 86400)::FLOAT AS avg_loan_days,
		       COUNT(l.loan_id) AS total_loans
		FROM loans l
		WHERE l.returned_date IS NOT NULL
		GROUP BY year, month
		ORDER BY year DESC, month DESC`
	var out []TurnaroundRow
	err := r.db.SelectContext(ctx, &out, q)
	return out, err
}

func (r *repo) Dashboard(ctx context.Context) (*Dashboard, error) {
	const q = `
		SELECT (SELECT COUNT(*) FROM members)                                             AS total_members,
		       (SELECT COUNT(*) FROM books)                                               AS total_books,
		       (SELECT COUNT(*) FROM book_copies WHERE status = 'AVAILABLE')              AS available_copies,
		       (SELECT COUNT(*) FROM loans WHERE status IN ('ACTIVE', 'OVERDUE'))         AS active_loans,
		       (SELECT COALESCE(SUM(amount), 0) FROM loan_fees WHERE status = 'UNPAID')   AS outstanding_fees`
	d := &Dashboard{}
	err := r.db.QueryRowxContext(ctx, q).Scan(
		&d.TotalMembers, &d.TotalBooks, &d.AvailableCopies, &d.ActiveLoans, &d.OutstandingFees)
	if err != nil {
		return nil, err
	}
	return d, nil
}
