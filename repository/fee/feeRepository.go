package fee

import (
	"context"
	"database/sql"
	"time"

	"github.com/miteshanshu/Library-Management-System-Database/model"
)

// PaymentRecord is a payment joined with its fee for history listings.
type PaymentRecord struct {
	model.FeePayment
	FeeType   string  `json:"fee_type" db:"fee_type"`
	FeeAmount float64 `json:"fee_amount" db:"fee_amount"`
}

type Repo interface {
	ListByMember(ctx context.Context, memberID int64) ([]model.LoanFee, error)
	UnpaidTotal(ctx context.Context, memberID int64) (float64, error)
	Waive(ctx context.Context, feeID int64) (*model.LoanFee, error)

	// RecordPayment inserts a payment and advances the fee to PARTIAL or
	// PAID by comparing cumulative payments against the fee amount, all in
	// one transaction.
	RecordPayment(ctx context.Context, feeID int64, amount float64, method string) (*model.LoanFee, error)
	PaymentsByMember(ctx context.Context, memberID int64) ([]PaymentRecord, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const feeCols = `fee_id, loan_id, member_id, fee_type, amount, status, assessed_date`

func scanFee(s interface{ Scan(...any) error }) (*model.LoanFee, error) {
	f := &model.LoanFee{}
	err := s.Scan(&f.ID, &f.LoanID, &f.MemberID, &f.FeeType, &f.Amount, &f.Status, &f.AssessedDate)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *repo) ListByMember(ctx context.Context, memberID int64) ([]model.LoanFee, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+feeCols+` FROM loan_fees
		WHERE member_id = $1
		ORDER BY assessed_date DESC`, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.LoanFee
	for rows.Next() {
		f, err := scanFee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}

func (r *repo) UnpaidTotal(ctx context.Context, memberID int64) (float64, error) {
	var total float64
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM loan_fees
		WHERE member_id = $1 AND status = 'UNPAID'`, memberID).Scan(&total)
	return total, err
}

func (r *repo) Waive(ctx context.Context, feeID int64) (*model.LoanFee, error) {
	return scanFee(r.db.QueryRowContext(ctx, `
		UPDATE loan_fees SET status = 'PAID'
		WHERE fee_id = $1
		RETURNING `+feeCols, feeID))
}

func (r *repo) RecordPayment(ctx context.Context, feeID int64, amount float64, method string) (f *model.LoanFee, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	f, err = scanFee(tx.QueryRowContext(ctx,
		`SELECT `+feeCols+` FROM loan_fees WHERE fee_id = $1 FOR UPDATE`, feeID))
	if err != nil {
		return nil, err
	}

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO fee_payments (fee_id, amount, method, payment_date)
		VALUES ($1, $2, $3, $4)`,
		feeID, amount, method, time.Now().UTC()); err != nil {
		return nil, err
	}

	var paid float64
	if err = tx.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM fee_payments WHERE fee_id = $1`,
		feeID).Scan(&paid); err != nil {
		return nil, err
	}

	status := model.FeePartial
	if paid >= f.Amount {
		status = model.FeePaid
	}
	f, err = scanFee(tx.QueryRowContext(ctx, `
		UPDATE loan_fees SET status = $1
		WHERE fee_id = $2
		RETURNING `+feeCols, status, feeID))
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return f, nil
}

func (r *repo) PaymentsByMember(ctx context.Context, memberID int64) ([]PaymentRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT fp.payment_id, fp.fee_id, fp.amount, fp.method, fp.payment_date,
		       lf.fee_type, lf.amount AS fee_amount
		FROM fee_payments fp
		JOIN loan_fees lf ON fp.fee_id = lf.fee_id
		WHERE lf.member_id = $1
		ORDER BY fp.payment_date DESC`, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PaymentRecord
	for rows.Next() {
		var p PaymentRecord
		if err := rows.Scan(&p.ID, &p.FeeID, &p.Amount, &p.Method, &p.PaymentDate,
			&p.FeeType, &p.FeeAmount); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
