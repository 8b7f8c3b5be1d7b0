package user

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/miteshanshu/Library-Management-System-Database/model"
)

type Repo interface {
	Create(ctx context.Context, u *model.User) error
	ByEmail(ctx context.Context, email string) (*model.User, error)
	ByID(ctx context.Context, id int64) (*model.User, error)
	List(ctx context.Context, role string, limit, offset int) ([]model.User, error)
	SetActive(ctx context.Context, id int64, role model.Role, active bool) (*model.User, error)

	// RegisterStudent creates the user row and its member row in one
	// transaction. cardNumber must be unique.
	RegisterStudent(ctx context.Context, u *model.User, cardNumber string, membershipTypeID int64) (memberID int64, err error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Create(ctx context.Context, u *model.User) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO users (full_name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING user_id, is_active, created_at`,
		u.FullName, u.Email, u.PasswordHash, u.Role,
	).Scan(&u.ID, &u.IsActive, &u.CreatedAt)
}

func (r *repo) ByEmail(ctx context.Context, email string) (*model.User, error) {
	u := &model.User{}
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, full_name, email, password_hash, role, is_active, created_at
		FROM users
		WHERE lower(email) = lower($1)`,
		email,
	).Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.User, error) {
	u := &model.User{}
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, full_name, email, password_hash, role, is_active, created_at
		FROM users
		WHERE user_id = $1`,
		id,
	).Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *repo) List(ctx context.Context, role string, limit, offset int) ([]model.User, error) {
	q := `
		SELECT user_id, full_name, email, password_hash, role, is_active, created_at
		FROM users`
	args := []any{}
	if role != "" {
		q += ` WHERE role = $1`
		args = append(args, role)
	}
	q += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *repo) SetActive(ctx context.Context, id int64, role model.Role, active bool) (*model.User, error) {
	u := &model.User{}
	err := r.db.QueryRowContext(ctx, `
		UPDATE users
		SET is_active = $1
		WHERE user_id = $2 AND role = $3
		RETURNING user_id, full_name, email, password_hash, role, is_active, created_at`,
		active, id, role,
	).Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *repo) RegisterStudent(ctx context.Context, u *model.User, cardNumber string, membershipTypeID int64) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO users (full_name, email, password_hash, role)
		VALUES ($1, $2, $3, 'student')
		RETURNING user_id, is_active, created_at`,
		u.FullName, u.Email, u.PasswordHash,
	).Scan(&u.ID, &u.IsActive, &u.CreatedAt)
	if err != nil {
		return 0, err
	}

	first, last := splitName(u.FullName)
	var memberID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO members (card_number, first_name, last_name, email, status, membership_type_id)
		VALUES ($1, $2, $3, $4, 'ACTIVE', $5)
		RETURNING member_id`,
		cardNumber, first, last, u.Email, membershipTypeID,
	).Scan(&memberID)
	if err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return memberID, nil
}

func splitName(full string) (first, last string) {
	if i := strings.LastIndexByte(full, ' '); i >= 0 {
		return full[:i], full[i+1:]
	}
	return full, ""
}
