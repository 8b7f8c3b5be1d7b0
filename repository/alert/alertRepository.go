package alert

import (
	"context"
	"database/sql"
	"time"

	"github.com/miteshanshu/Library-Management-System-Database/model"
)

type Repo interface {
	ListByMember(ctx context.Context, memberID int64, unresolvedOnly bool) ([]model.MemberAlert, error)
	Resolve(ctx context.Context, alertID int64, at time.Time) (*model.MemberAlert, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const alertCols = `alert_id, member_id, alert_type, message, alert_date, resolved_at`

func scanAlert(s interface{ Scan(...any) error }) (*model.MemberAlert, error) {
	a := &model.MemberAlert{}
	err := s.Scan(&a.ID, &a.MemberID, &a.AlertType, &a.Message, &a.AlertDate, &a.ResolvedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *repo) ListByMember(ctx context.Context, memberID int64, unresolvedOnly bool) ([]model.MemberAlert, error) {
	q := `SELECT ` + alertCols + ` FROM member_alerts WHERE member_id = $1`
	if unresolvedOnly {
		q += ` AND resolved_at IS NULL`
	}
	q += ` ORDER BY alert_date DESC`

	rows, err := r.db.QueryContext(ctx, q, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MemberAlert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *repo) Resolve(ctx context.Context, alertID int64, at time.Time) (*model.MemberAlert, error) {
	return scanAlert(r.db.QueryRowContext(ctx, `
		UPDATE member_alerts SET resolved_at = $1
		WHERE alert_id = $2
		RETURNING `+alertCols, at, alertID))
}
