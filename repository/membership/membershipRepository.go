package membership

import (
	"context"
	"database/sql"

	"github.com/miteshanshu/Library-Management-System-Database/model"
)

type Repo interface {
	MemberByID(ctx context.Context, id int64) (*model.Member, error)
	MemberByCard(ctx context.Context, cardNumber string) (*model.Member, error)
	MemberByEmail(ctx context.Context, email string) (*model.Member, error)
	OverrideStatus(ctx context.Context, memberID int64, status model.MemberStatus) (*model.Member, error)

	MembershipType(ctx context.Context, id int64) (*model.MembershipType, error)
	DefaultMembershipType(ctx context.Context) (*model.MembershipType, error)
	CreateType(ctx context.Context, t *model.MembershipType) error
	UpdateType(ctx context.Context, t *model.MembershipType) (*model.MembershipType, error)
	DeleteType(ctx context.Context, id int64) (bool, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const memberCols = `member_id, card_number, first_name, last_name, email, status, membership_type_id, created_at`

func (r *repo) scanMember(row *sql.Row) (*model.Member, error) {
	m := &model.Member{}
	err := row.Scan(&m.ID, &m.CardNumber, &m.FirstName, &m.LastName, &m.Email, &m.Status, &m.MembershipTypeID, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *repo) MemberByID(ctx context.Context, id int64) (*model.Member, error) {
	return r.scanMember(r.db.QueryRowContext(ctx,
		`SELECT `+memberCols+` FROM members WHERE member_id = $1`, id))
}

func (r *repo) MemberByCard(ctx context.Context, cardNumber string) (*model.Member, error) {
	return r.scanMember(r.db.QueryRowContext(ctx,
		`SELECT `+memberCols+` FROM members WHERE card_number = $1`, cardNumber))
}

func (r *repo) MemberByEmail(ctx context.Context, email string) (*model.Member, error) {
	return r.scanMember(r.db.QueryRowContext(ctx,
		`SELECT `+memberCols+` FROM members WHERE lower(email) = lower($1)`, email))
}

func (r *repo) OverrideStatus(ctx context.Context, memberID int64, status model.MemberStatus) (*model.Member, error) {
	return r.scanMember(r.db.QueryRowContext(ctx, `
		UPDATE members SET status = $1
		WHERE member_id = $2
		RETURNING `+memberCols, status, memberID))
}

const typeCols = `membership_type_id, type_name, loan_limit, loan_period_days, daily_late_fee`

func (r *repo) scanType(row *sql.Row) (*model.MembershipType, error) {
	t := &model.MembershipType{}
	err := row.Scan(&t.ID, &t.TypeName, &t.LoanLimit, &t.LoanPeriodDays, &t.DailyLateFee)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *repo) MembershipType(ctx context.Context, id int64) (*model.MembershipType, error) {
	return r.scanType(r.db.QueryRowContext(ctx,
		`SELECT `+typeCols+` FROM membership_types WHERE membership_type_id = $1`, id))
}

// DefaultMembershipType returns the type new student registrations get.
func (r *repo) DefaultMembershipType(ctx context.Context) (*model.MembershipType, error) {
	return r.scanType(r.db.QueryRowContext(ctx,
		`SELECT `+typeCols+` FROM membership_types ORDER BY membership_type_id LIMIT 1`))
}

func (r *repo) CreateType(ctx context.Context, t *model.MembershipType) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO membership_types (type_name, loan_limit, loan_period_days, daily_late_fee)
		VALUES ($1, $2, $3, $4)
		RETURNING membership_type_id`,
		t.TypeName, t.LoanLimit, t.LoanPeriodDays, t.DailyLateFee,
	).Scan(&t.ID)
}

func (r *repo) UpdateType(ctx context.Context, t *model.MembershipType) (*model.MembershipType, error) {
	return r.scanType(r.db.QueryRowContext(ctx, `
		UPDATE membership_types
		SET type_name        = COALESCE(NULLIF($1, ''), type_name),
		    loan_limit       = COALESCE(NULLIF($2, -1), loan_limit),
		    loan_period_days = COALESCE(NULLIF($3, -1), loan_period_days),
		    daily_late_fee   = COALESCE(NULLIF($4, -1::NUMERIC), daily_late_fee)
		WHERE membership_type_id = $5
		RETURNING `+typeCols,
		t.TypeName, t.LoanLimit, t.LoanPeriodDays, t.DailyLateFee, t.ID))
}

func (r *repo) DeleteType(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM membership_types WHERE membership_type_id = $1`, id)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}
