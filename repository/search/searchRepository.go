// Package search runs the role-scoped global search. Each entity query is
// composed with goqu so the per-role fan-out stays declarative.
package search

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jmoiron/sqlx"
)

type BookHit struct {
	BookID          int64  `json:"book_id" db:"book_id"`
	Title           string `json:"title" db:"title"`
	ISBN            string `json:"isbn" db:"isbn"`
	PublicationYear *int   `json:"publication_year,omitempty" db:"publication_year"`
}

type AuthorHit struct {
	AuthorID int64  `json:"author_id" db:"author_id"`
	FullName string `json:"full_name" db:"full_name"`
}

type CopyHit struct {
	CopyID       int64   `json:"copy_id" db:"copy_id"`
	BookID       int64   `json:"book_id" db:"book_id"`
	Barcode      string  `json:"barcode" db:"barcode"`
	Status       string  `json:"status" db:"status"`
	LocationName *string `json:"location_name,omitempty" db:"location_name"`
}

type MemberHit struct {
	MemberID   int64  `json:"member_id" db:"member_id"`
	CardNumber string `json:"card_number" db:"card_number"`
	FirstName  string `json:"first_name" db:"first_name"`
	LastName   string `json:"last_name" db:"last_name"`
	Email      string `json:"email" db:"email"`
}

type LoanHit struct {
	LoanID       int64  `json:"loan_id" db:"loan_id"`
	CopyID       int64  `json:"copy_id" db:"copy_id"`
	MemberID     int64  `json:"member_id" db:"member_id"`
	Status       string `json:"status" db:"status"`
	CheckoutDate string `json:"checkout_date" db:"checkout_date"`
	DueDate      string `json:"due_date" db:"due_date"`
}

type UserHit struct {
	UserID   int64  `json:"user_id" db:"user_id"`
	Email    string `json:"email" db:"email"`
	FullName string `json:"full_name" db:"full_name"`
	Role     string `json:"role" db:"role"`
}

type Repo interface {
	Books(ctx context.Context, term string, limit, offset int) ([]BookHit, error)
	Authors(ctx context.Context, term string, limit, offset int) ([]AuthorHit, error)
	Copies(ctx context.Context, term string, limit, offset int) ([]CopyHit, error)
	Members(ctx context.Context, term string, limit, offset int) ([]MemberHit, error)
	Loans(ctx context.Context, term string, limit, offset int) ([]LoanHit, error)
	Users(ctx context.Context, term string, limit, offset int) ([]UserHit, error)
}

type repo struct {
	db      *sqlx.DB
	dialect goqu.DialectWrapper
}

func New(db *sql.DB) Repo {
	return &repo{
		db:      sqlx.NewDb(db, "pgx"),
		dialect: goqu.Dialect("postgres"),
	}
}

func pattern(term string) string { return "%" + term + "%" }

func (r *repo) selectInto(ctx context.Context, dest any, ds *goqu.SelectDataset) error {
	q, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return err
	}
	return r.db.SelectContext(ctx, dest, q, args...)
}

func (r *repo) Books(ctx context.Context, term string, limit, offset int) ([]BookHit, error) {
	p := pattern(term)
	ds := r.dialect.From("books").
		Select("book_id", "title", "isbn", "publication_year").
		Where(goqu.Or(
			goqu.C("title").ILike(p),
			goqu.C("isbn").ILike(p),
			goqu.C("description").ILike(p),
		)).
		Order(goqu.C("title").Asc()).
		Limit(uint(limit)).Offset(uint(offset))

	var out []BookHit
	err := r.selectInto(ctx, &out, ds)
	return out, err
}

func (r *repo) Authors(ctx context.Context, term string, limit, offset int) ([]AuthorHit, error) {
	p := pattern(term)
	ds := r.dialect.From(goqu.T("authors").As("a")).
		Select(
			goqu.C("author_id"),
			goqu.L("CONCAT(a.first_name, ' ', a.last_name)").As("full_name"),
		).
		Where(goqu.Or(
			goqu.C("first_name").ILike(p),
			goqu.C("last_name").ILike(p),
		)).
		Order(goqu.I("full_name").Asc()).
		Limit(uint(limit)).Offset(uint(offset))

	var out []AuthorHit
	err := r.selectInto(ctx, &out, ds)
	return out, err
}

func (r *repo) Copies(ctx context.Context, term string, limit, offset int) ([]CopyHit, error) {
	ds := r.dialect.From(goqu.T("book_copies").As("bc")).
		LeftJoin(goqu.T("library_locations").As("l"),
			goqu.On(goqu.Ex{"bc.location_id": goqu.I("l.location_id")})).
		Select(
			goqu.I("bc.copy_id"), goqu.I("bc.book_id"), goqu.I("bc.barcode"),
			goqu.I("bc.status"), goqu.I("l.location_name"),
		).
		Where(goqu.I("bc.barcode").ILike(pattern(term))).
		Order(goqu.I("bc.barcode").Asc()).
		Limit(uint(limit)).Offset(uint(offset))

	var out []CopyHit
	err := r.selectInto(ctx, &out, ds)
	return out, err
}

func (r *repo) Members(ctx context.Context, term string, limit, offset int) ([]MemberHit, error) {
	p := pattern(term)
	ds := r.dialect.From("members").
		Select("member_id", "card_number", "first_name", "last_name", "email").
		Where(goqu.Or(
			goqu.C("card_number").ILike(p),
			goqu.C("first_name").ILike(p),
			goqu.C("last_name").ILike(p),
			goqu.C("email").ILike(p),
		)).
		Order(goqu.C("last_name").Asc()).
		Limit(uint(limit)).Offset(uint(offset))

	var out []MemberHit
	err := r.selectInto(ctx, &out, ds)
	return out, err
}

func (r *repo) Loans(ctx context.Context, term string, limit, offset int) ([]LoanHit, error) {
	ds := r.dialect.From("loans").
		Select("loan_id", "copy_id", "member_id", "status",
			goqu.L("checkout_date::TEXT").As("checkout_date"),
			goqu.L("due_date::TEXT").As("due_date")).
		Where(goqu.L("CAST(loan_id AS TEXT)").ILike(pattern(term))).
		Order(goqu.C("checkout_date").Desc()).
		Limit(uint(limit)).Offset(uint(offset))

	var out []LoanHit
	err := r.selectInto(ctx, &out, ds)
	return out, err
}

func (r *repo) Users(ctx context.Context, term string, limit, offset int) ([]UserHit, error) {
	p := pattern(term)
	ds := r.dialect.From("users").
		Select("user_id", "email", "full_name", "role").
		Where(goqu.Or(
			goqu.C("email").ILike(p),
			goqu.C("full_name").ILike(p),
		)).
		Order(goqu.C("full_name").Asc()).
		Limit(uint(limit)).Offset(uint(offset))

	var out []UserHit
	err := r.selectInto(ctx, &out, ds)
	return out, err
}
