package membershipsvc

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/miteshanshu/Library-Management-System-Database/model"
	mtrepo "github.com/miteshanshu/Library-Management-System-Database/repository/membership"
	"github.com/miteshanshu/Library-Management-System-Database/util/apperr"
)

type mockRepo struct {
	mtrepo.Repo

	memberByIDFn func(ctx context.Context, id int64) (*model.Member, error)
	overrideFn   func(ctx context.Context, memberID int64, status model.MemberStatus) (*model.Member, error)
	createTypeFn func(ctx context.Context, t *model.MembershipType) error
	deleteTypeFn func(ctx context.Context, id int64) (bool, error)
}

func (m *mockRepo) MemberByID(ctx context.Context, id int64) (*model.Member, error) {
	return m.memberByIDFn(ctx, id)
}

func (m *mockRepo) OverrideStatus(ctx context.Context, memberID int64, status model.MemberStatus) (*model.Member, error) {
	return m.overrideFn(ctx, memberID, status)
}

func (m *mockRepo) CreateType(ctx context.Context, t *model.MembershipType) error {
	return m.createTypeFn(ctx, t)
}

func (m *mockRepo) DeleteType(ctx context.Context, id int64) (bool, error) {
	return m.deleteTypeFn(ctx, id)
}

func newSvc(m *mockRepo) Service {
	return New(m, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestMember_NotFound(t *testing.T) {
	m := &mockRepo{memberByIDFn: func(ctx context.Context, id int64) (*model.Member, error) {
		return nil, sql.ErrNoRows
	}}

	_, err := newSvc(m).Member(context.Background(), 99)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestOverrideStatus_RejectsUnknownStatus(t *testing.T) {
	_, err := newSvc(&mockRepo{}).OverrideStatus(context.Background(), 7, model.MemberStatus("BANNED"))
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestOverrideStatus_Success(t *testing.T) {
	m := &mockRepo{overrideFn: func(ctx context.Context, memberID int64, status model.MemberStatus) (*model.Member, error) {
		return &model.Member{ID: memberID, Status: status}, nil
	}}

	out, err := newSvc(m).OverrideStatus(context.Background(), 7, model.MemberSuspended)
	require.NoError(t, err)
	require.Equal(t, model.MemberSuspended, out.Status)
}

func TestCreateType_Validation(t *testing.T) {
	svc := newSvc(&mockRepo{})

	err := svc.CreateType(context.Background(), &model.MembershipType{TypeName: " ", LoanLimit: 3, LoanPeriodDays: 14})
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	err = svc.CreateType(context.Background(), &model.MembershipType{TypeName: "Standard", LoanLimit: -1, LoanPeriodDays: 14})
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	err = svc.CreateType(context.Background(), &model.MembershipType{TypeName: "Standard", LoanLimit: 3, LoanPeriodDays: 0})
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	err = svc.CreateType(context.Background(), &model.MembershipType{TypeName: "Standard", LoanLimit: 3, LoanPeriodDays: 14, DailyLateFee: -1})
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCreateType_Success(t *testing.T) {
	m := &mockRepo{createTypeFn: func(ctx context.Context, mt *model.MembershipType) error {
		mt.ID = 2
		return nil
	}}

	mt := &model.MembershipType{TypeName: "Premium", LoanLimit: 10, LoanPeriodDays: 30, DailyLateFee: 0.5}
	require.NoError(t, newSvc(m).CreateType(context.Background(), mt))
	require.Equal(t, int64(2), mt.ID)
}

// A zero loan limit is a legitimate type (e.g. reference-only membership).
func TestCreateType_AllowsZeroLoanLimit(t *testing.T) {
	m := &mockRepo{createTypeFn: func(ctx context.Context, mt *model.MembershipType) error {
		mt.ID = 3
		return nil
	}}

	mt := &model.MembershipType{TypeName: "Reference Only", LoanLimit: 0, LoanPeriodDays: 1}
	require.NoError(t, newSvc(m).CreateType(context.Background(), mt))
	require.Equal(t, int64(3), mt.ID)
}

func TestDeleteType_NotFound(t *testing.T) {
	m := &mockRepo{deleteTypeFn: func(ctx context.Context, id int64) (bool, error) {
		return false, nil
	}}

	err := newSvc(m).DeleteType(context.Background(), 99)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestDeleteType_InUse(t *testing.T) {
	m := &mockRepo{deleteTypeFn: func(ctx context.Context, id int64) (bool, error) {
		return false, &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "members_membership_type_id_fkey"}
	}}

	err := newSvc(m).DeleteType(context.Background(), 1)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

// Anything other than an FK violation is a datastore failure, not a
// business-rule rejection.
func TestDeleteType_RepoErrorIsInternal(t *testing.T) {
	m := &mockRepo{deleteTypeFn: func(ctx context.Context, id int64) (bool, error) {
		return false, errors.New("connection refused")
	}}

	err := newSvc(m).DeleteType(context.Background(), 1)
	require.Equal(t, apperr.KindInternal, apperr.KindOf(err))
}
