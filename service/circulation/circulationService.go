// Package circulation implements the loan lifecycle: eligibility checks,
// atomic issuance, return processing and overdue detection. Every operation
// that reads then writes runs inside one store transaction; a failed
// precondition rolls the whole transaction back, so no partial writes are
// ever visible.
package circulation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	circrepo "github.com/miteshanshu/Library-Management-System-Database/repository/circulation"

	"github.com/miteshanshu/Library-Management-System-Database/model"
	"github.com/miteshanshu/Library-Management-System-Database/util/apperr"
)

type Service interface {
	// Issue lends the copy with the given barcode to the member, atomically.
	Issue(ctx context.Context, memberID int64, barcode string) (*model.IssueResult, error)

	// Return closes an ACTIVE or OVERDUE loan, frees the copy and assesses
	// the late fee when past due.
	Return(ctx context.Context, loanID int64) error

	// ForceClose marks a loan RETURNED without touching the copy status.
	ForceClose(ctx context.Context, loanID int64) (*model.Loan, error)

	// GenerateOverdueAlerts flips overdue loans and emits member alerts.
	// Safe to run repeatedly.
	GenerateOverdueAlerts(ctx context.Context) (OverdueStats, error)

	LoanDetail(ctx context.Context, loanID int64) (*model.LoanDetail, error)
	LoansByMember(ctx context.Context, memberID int64, status model.LoanStatus) ([]model.LoanDetail, error)
	OpenLoansByMember(ctx context.Context, memberID int64) ([]model.LoanDetail, error)
	LoansByCopy(ctx context.Context, copyID int64) ([]model.LoanDetail, error)
}

type OverdueStats struct {
	LoansMarkedOverdue int64 `json:"loans_marked_overdue"`
	AlertsCreated      int64 `json:"alerts_created"`
}

type service struct {
	store circrepo.Store
	log   *slog.Logger
	now   func() time.Time
}

func New(store circrepo.Store, log *slog.Logger) Service {
	return &service{store: store, log: log, now: time.Now}
}

func (s *service) Issue(ctx context.Context, memberID int64, barcode string) (res *model.IssueResult, err error) {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Member first, copy second. Fixed lock order across all engine
	// operations keeps concurrent issuances deadlock-free.
	m, err := tx.MemberForUpdate(ctx, memberID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFoundf("member with ID %d not found", memberID)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if m.Status != model.MemberActive {
		return nil, apperr.Validationf("member account is %s, cannot issue book", m.Status)
	}

	c, err := tx.CopyByBarcodeForUpdate(ctx, barcode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFoundf("book copy with barcode %s not found", barcode)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if c.Status != model.CopyAvailable {
		return nil, apperr.Validationf("book copy is not available, current status: %s", c.Status).
			WithDetails(map[string]any{"current_status": c.Status, "expected": model.CopyAvailable})
	}

	open, err := tx.CountOpenLoans(ctx, memberID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if open >= m.LoanLimit {
		return nil, apperr.Validationf("member has reached loan limit: %d/%d", open, m.LoanLimit).
			WithDetails(map[string]any{"active_loans": open, "loan_limit": m.LoanLimit})
	}

	unpaid, err := tx.UnpaidFeeTotal(ctx, memberID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if unpaid > 0 {
		return nil, apperr.Validationf("member has unpaid fees: %.2f, please pay before issuing a new book", unpaid).
			WithDetails(map[string]any{"unpaid_total": unpaid})
	}

	// Loan period is frozen from the membership terms read above; it is
	// never recomputed after issuance.
	checkout := s.now().UTC()
	due := checkout.AddDate(0, 0, m.LoanPeriodDays)

	loanID, err := tx.InsertLoan(ctx, memberID, c.ID, checkout, due)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if err = tx.SetCopyStatus(ctx, c.ID, model.CopyLoaned); err != nil {
		return nil, apperr.Internal(err)
	}
	if err = tx.Commit(); err != nil {
		return nil, apperr.Internal(err)
	}

	res = &model.IssueResult{
		LoanID:         loanID,
		CheckoutDate:   checkout,
		DueDate:        due,
		LoanPeriodDays: m.LoanPeriodDays,
		Status:         model.LoanActive,
	}
	res.Member.MemberID = m.ID
	res.Member.Name = fmt.Sprintf("%s %s", m.FirstName, m.LastName)
	res.Member.Email = m.Email
	res.Book.Title = c.Title
	res.Book.ISBN = c.ISBN
	res.Book.Barcode = c.Barcode
	res.Book.Location = c.Location
	return res, nil
}

func (s *service) Return(ctx context.Context, loanID int64) (err error) {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return apperr.Internal(err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	ln, err := tx.LoanForUpdate(ctx, loanID)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.Validationf("loan %d not found or already closed", loanID)
	}
	if err != nil {
		return apperr.Internal(err)
	}
	if ln.Status != model.LoanActive && ln.Status != model.LoanOverdue {
		return apperr.Validationf("loan %d is already closed", loanID)
	}

	now := s.now().UTC()
	if err = tx.MarkLoanReturned(ctx, loanID, now); err != nil {
		return apperr.Internal(err)
	}
	if err = tx.SetCopyStatus(ctx, ln.CopyID, model.CopyAvailable); err != nil {
		return apperr.Internal(err)
	}

	// Late fee is assessed in the same transaction as the status flip, so
	// the ledger and the loan never disagree.
	if now.After(ln.DueDate) && ln.DailyLateFee > 0 {
		daysLate := int(math.Ceil(now.Sub(ln.DueDate).Hours() / 24))
		amount := float64(daysLate) * ln.DailyLateFee
		if err = tx.InsertLateFee(ctx, ln.MemberID, loanID, amount); err != nil {
			return apperr.Internal(err)
		}
		s.log.Info("late fee assessed", "loan_id", loanID, "member_id", ln.MemberID,
			"days_late", daysLate, "amount", amount)
	}

	if err = tx.Commit(); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (s *service) ForceClose(ctx context.Context, loanID int64) (*model.Loan, error) {
	ln, err := s.store.ForceCloseLoan(ctx, loanID, s.now().UTC())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("loan not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	s.log.Warn("loan force closed", "loan_id", loanID)
	return ln, nil
}

func (s *service) GenerateOverdueAlerts(ctx context.Context) (stats OverdueStats, err error) {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return stats, apperr.Internal(err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := s.now().UTC()
	if stats.LoansMarkedOverdue, err = tx.MarkLoansOverdue(ctx, now); err != nil {
		return stats, apperr.Internal(err)
	}
	if stats.AlertsCreated, err = tx.InsertMissingOverdueAlerts(ctx, now); err != nil {
		return stats, apperr.Internal(err)
	}
	if err = tx.Commit(); err != nil {
		return stats, apperr.Internal(err)
	}
	return stats, nil
}

func (s *service) LoanDetail(ctx context.Context, loanID int64) (*model.LoanDetail, error) {
	d, err := s.store.LoanDetail(ctx, loanID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("loan not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return d, nil
}

func (s *service) LoansByMember(ctx context.Context, memberID int64, status model.LoanStatus) ([]model.LoanDetail, error) {
	out, err := s.store.LoansByMember(ctx, memberID, status)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

func (s *service) OpenLoansByMember(ctx context.Context, memberID int64) ([]model.LoanDetail, error) {
	out, err := s.store.OpenLoansByMember(ctx, memberID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

func (s *service) LoansByCopy(ctx context.Context, copyID int64) ([]model.LoanDetail, error) {
	out, err := s.store.LoansByCopy(ctx, copyID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}
