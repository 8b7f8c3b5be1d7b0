// Package feesvc manages the fee ledger: listings, payments and waivers.
// Fee assessment itself happens in the circulation engine at return time.
package feesvc

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/miteshanshu/Library-Management-System-Database/model"
	feerepo "github.com/miteshanshu/Library-Management-System-Database/repository/fee"
	"github.com/miteshanshu/Library-Management-System-Database/util/apperr"
)

type Service interface {
	Summary(ctx context.Context, memberID int64) (*model.FeeSummary, error)
	Pay(ctx context.Context, feeID int64, amount float64, method string) (*model.LoanFee, error)
	Waive(ctx context.Context, feeID int64) (*model.LoanFee, error)
	PaymentHistory(ctx context.Context, memberID int64) ([]feerepo.PaymentRecord, error)
}

type service struct {
	r   feerepo.Repo
	log *slog.Logger
}

func New(r feerepo.Repo, log *slog.Logger) Service {
	return &service{r: r, log: log}
}

func (s *service) Summary(ctx context.Context, memberID int64) (*model.FeeSummary, error) {
	fees, err := s.r.ListByMember(ctx, memberID)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	sum := &model.FeeSummary{Fees: fees}
	for _, f := range fees {
		sum.TotalFees += f.Amount
		if f.Status == model.FeeUnpaid {
			sum.UnpaidFees += f.Amount
		}
	}
	return sum, nil
}

func (s *service) Pay(ctx context.Context, feeID int64, amount float64, method string) (*model.LoanFee, error) {
	if amount <= 0 {
		return nil, apperr.Validation("payment amount must be positive")
	}
	if method == "" {
		method = "CASH"
	}

	f, err := s.r.RecordPayment(ctx, feeID, amount, method)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFoundf("fee with ID %d not found", feeID)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}

	s.log.Info("fee payment recorded", "fee_id", feeID, "amount", amount,
		"method", method, "status", f.Status)
	return f, nil
}

func (s *service) Waive(ctx context.Context, feeID int64) (*model.LoanFee, error) {
	f, err := s.r.Waive(ctx, feeID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFoundf("fee with ID %d not found", feeID)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	s.log.Warn("fee waived", "fee_id", feeID, "amount", f.Amount)
	return f, nil
}

func (s *service) PaymentHistory(ctx context.Context, memberID int64) ([]feerepo.PaymentRecord, error) {
	out, err := s.r.PaymentsByMember(ctx, memberID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}
