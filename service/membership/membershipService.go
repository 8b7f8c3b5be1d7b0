package membershipsvc

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/miteshanshu/Library-Management-System-Database/model"
	mtrepo "github.com/miteshanshu/Library-Management-System-Database/repository/membership"
	"github.com/miteshanshu/Library-Management-System-Database/util/apperr"
)

type Service interface {
	Member(ctx context.Context, id int64) (*model.Member, error)
	MemberByCard(ctx context.Context, cardNumber string) (*model.Member, error)
	MemberByEmail(ctx context.Context, email string) (*model.Member, error)

	// OverrideStatus is the admin escape hatch for suspending or
	// reinstating a member outside normal flows.
	OverrideStatus(ctx context.Context, memberID int64, status model.MemberStatus) (*model.Member, error)

	MembershipType(ctx context.Context, id int64) (*model.MembershipType, error)
	CreateType(ctx context.Context, t *model.MembershipType) error
	UpdateType(ctx context.Context, t *model.MembershipType) (*model.MembershipType, error)
	DeleteType(ctx context.Context, id int64) error
}

type service struct {
	r   mtrepo.Repo
	log *slog.Logger
}

func New(r mtrepo.Repo, log *slog.Logger) Service {
	return &service{r: r, log: log}
}

func (s *service) Member(ctx context.Context, id int64) (*model.Member, error) {
	m, err := s.r.MemberByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFoundf("member with ID %d not found", id)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return m, nil
}

func (s *service) MemberByCard(ctx context.Context, cardNumber string) (*model.Member, error) {
	m, err := s.r.MemberByCard(ctx, cardNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFoundf("member with card %s not found", cardNumber)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return m, nil
}

func (s *service) MemberByEmail(ctx context.Context, email string) (*model.Member, error) {
	m, err := s.r.MemberByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFoundf("member with email %s not found", email)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return m, nil
}

func (s *service) OverrideStatus(ctx context.Context, memberID int64, status model.MemberStatus) (*model.Member, error) {
	if !model.ValidMemberStatus(status) {
		return nil, apperr.Validationf("invalid member status: %s", status)
	}
	m, err := s.r.OverrideStatus(ctx, memberID, status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFoundf("member with ID %d not found", memberID)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	s.log.Warn("member status overridden", "member_id", memberID, "status", status)
	return m, nil
}

func (s *service) MembershipType(ctx context.Context, id int64) (*model.MembershipType, error) {
	t, err := s.r.MembershipType(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFoundf("membership type with ID %d not found", id)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return t, nil
}

func (s *service) CreateType(ctx context.Context, t *model.MembershipType) error {
	t.TypeName = strings.TrimSpace(t.TypeName)
	if t.TypeName == "" {
		return apperr.Validation("type_name is required")
	}
	if t.LoanLimit < 0 {
		return apperr.Validation("loan_limit cannot be negative")
	}
	if t.LoanPeriodDays <= 0 {
		return apperr.Validation("loan_period_days must be positive")
	}
	if t.DailyLateFee < 0 {
		return apperr.Validation("daily_late_fee cannot be negative")
	}
	if err := s.r.CreateType(ctx, t); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (s *service) UpdateType(ctx context.Context, t *model.MembershipType) (*model.MembershipType, error) {
	out, err := s.r.UpdateType(ctx, t)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFoundf("membership type with ID %d not found", t.ID)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

func (s *service) DeleteType(ctx context.Context, id int64) error {
	ok, err := s.r.DeleteType(ctx, id)
	if err != nil {
		// Members referencing the type block deletion via FK.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return apperr.Validation("membership type is in use and cannot be deleted")
		}
		return apperr.Internal(err)
	}
	if !ok {
		return apperr.NotFoundf("membership type with ID %d not found", id)
	}
	return nil
}
