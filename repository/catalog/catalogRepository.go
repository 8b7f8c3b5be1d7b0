package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/miteshanshu/Library-Management-System-Database/model"
)

// BookPatch carries optional fields for a partial book update. Nil means keep.
type BookPatch struct {
	Title           *string
	Subtitle        *string
	PublisherID     *int64
	PublicationYear *int
	Language        *string
	Edition         *string
	Description     *string
}

type Repo interface {
	CreateBook(ctx context.Context, b *model.Book) error
	UpdateBook(ctx context.Context, id int64, p BookPatch) (*model.Book, error)
	DeleteBook(ctx context.Context, id int64) error
	BookByID(ctx context.Context, id int64) (*model.Book, error)
	ListBooks(ctx context.Context, search string, limit, offset int) ([]model.Book, error)

	CreateCopy(ctx context.Context, c *model.BookCopy) error
	CopyByID(ctx context.Context, id int64) (*model.BookCopy, error)
	CopyByBarcode(ctx context.Context, barcode string) (*model.BookCopy, error)
	CopiesForBook(ctx context.Context, bookID int64, onlyAvailable bool) ([]model.BookCopy, error)
	UpdateCopyStatus(ctx context.Context, copyID int64, status model.CopyStatus, conditionNotes *string) (*model.BookCopy, error)
	SetCopyLocation(ctx context.Context, copyID, locationID int64) (*model.BookCopy, error)
	DeleteCopy(ctx context.Context, copyID int64) error

	StockStatus(ctx context.Context, search string, outOfStockOnly bool, limit, offset int) ([]model.BookStock, error)
}

// Guard errors raised by the store layer so callers never parse SQL messages.
var (
	ErrCopyOnLoan = errors.New("copy is on loan")
	ErrBookOnLoan = errors.New("book has copies on loan")
)

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const bookCols = `b.book_id, b.isbn, b.title, b.subtitle, b.publisher_id, p.publisher_name,
	b.publication_year, b.language, b.edition, b.description, b.created_at`

func scanBook(s interface{ Scan(...any) error }) (*model.Book, error) {
	b := &model.Book{}
	err := s.Scan(&b.ID, &b.ISBN, &b.Title, &b.Subtitle, &b.PublisherID, &b.PublisherName,
		&b.PublicationYear, &b.Language, &b.Edition, &b.Description, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *repo) CreateBook(ctx context.Context, b *model.Book) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO books (isbn, title, subtitle, publisher_id, publication_year, language, edition, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING book_id, created_at`,
		b.ISBN, b.Title, b.Subtitle, b.PublisherID, b.PublicationYear, b.Language, b.Edition, b.Description,
	).Scan(&b.ID, &b.CreatedAt)
}

func (r *repo) UpdateBook(ctx context.Context, id int64, p BookPatch) (*model.Book, error) {
	var bookID int64
	err := r.db.QueryRowContext(ctx, `
		UPDATE books
		SET title            = COALESCE($1, title),
		    subtitle         = COALESCE($2, subtitle),
		    publisher_id     = COALESCE($3, publisher_id),
		    publication_year = COALESCE($4, publication_year),
		    language         = COALESCE($5, language),
		    edition          = COALESCE($6, edition),
		    description      = COALESCE($7, description)
		WHERE book_id = $8
		RETURNING book_id`,
		p.Title, p.Subtitle, p.PublisherID, p.PublicationYear, p.Language, p.Edition, p.Description, id,
	).Scan(&bookID)
	if err != nil {
		return nil, err
	}
	return r.BookByID(ctx, bookID)
}

// DeleteBook removes a book and its copies; refused while any copy is LOANED.
func (r *repo) DeleteBook(ctx context.Context, id int64) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var exists bool
	if err = tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM books WHERE book_id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return sql.ErrNoRows
	}

	var loaned bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM book_copies
			WHERE book_id = $1 AND status = 'LOANED'
		)`, id).Scan(&loaned)
	if err != nil {
		return err
	}
	if loaned {
		return ErrBookOnLoan
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM book_authors WHERE book_id = $1`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM book_copies WHERE book_id = $1`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM books WHERE book_id = $1`, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *repo) BookByID(ctx context.Context, id int64) (*model.Book, error) {
	return scanBook(r.db.QueryRowContext(ctx, `
		SELECT `+bookCols+`
		FROM books b
		LEFT JOIN publishers p ON b.publisher_id = p.publisher_id
		WHERE b.book_id = $1`, id))
}

func (r *repo) ListBooks(ctx context.Context, search string, limit, offset int) ([]model.Book, error) {
	q := `
		SELECT ` + bookCols + `
		FROM books b
		LEFT JOIN publishers p ON b.publisher_id = p.publisher_id`
	args := []any{}
	if search != "" {
		q += ` WHERE b.title ILIKE $1 OR b.isbn ILIKE $1`
		args = append(args, "%"+search+"%")
	}
	q += fmt.Sprintf(` ORDER BY b.created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

const copyCols = `bc.copy_id, bc.book_id, bc.barcode, bc.status, bc.location_id, l.location_name,
	bc.condition_notes, bc.acquisition_date, bc.created_at`

func scanCopy(s interface{ Scan(...any) error }) (*model.BookCopy, error) {
	c := &model.BookCopy{}
	err := s.Scan(&c.ID, &c.BookID, &c.Barcode, &c.Status, &c.LocationID, &c.LocationName,
		&c.ConditionNotes, &c.AcquisitionDate, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *repo) CreateCopy(ctx context.Context, c *model.BookCopy) error {
	var acq any
	if c.AcquisitionDate != nil {
		acq = *c.AcquisitionDate
	}
	return r.db.QueryRowContext(ctx, `
		INSERT INTO book_copies (book_id, barcode, status, location_id, acquisition_date)
		VALUES ($1, $2, 'AVAILABLE', $3, $4)
		RETURNING copy_id, status, created_at`,
		c.BookID, c.Barcode, c.LocationID, acq,
	).Scan(&c.ID, &c.Status, &c.CreatedAt)
}

func (r *repo) CopyByID(ctx context.Context, id int64) (*model.BookCopy, error) {
	return scanCopy(r.db.QueryRowContext(ctx, `
		SELECT `+copyCols+`
		FROM book_copies bc
		LEFT JOIN library_locations l ON bc.location_id = l.location_id
		WHERE bc.copy_id = $1`, id))
}

func (r *repo) CopyByBarcode(ctx context.Context, barcode string) (*model.BookCopy, error) {
	return scanCopy(r.db.QueryRowContext(ctx, `
		SELECT `+copyCols+`
		FROM book_copies bc
		LEFT JOIN library_locations l ON bc.location_id = l.location_id
		WHERE bc.barcode = $1`, barcode))
}

func (r *repo) CopiesForBook(ctx context.Context, bookID int64, onlyAvailable bool) ([]model.BookCopy, error) {
	q := `
		SELECT ` + copyCols + `
		FROM book_copies bc
		LEFT JOIN library_locations l ON bc.location_id = l.location_id
		WHERE bc.book_id = $1`
	if onlyAvailable {
		q += ` AND bc.status = 'AVAILABLE'`
	}
	q += ` ORDER BY bc.barcode`

	rows, err := r.db.QueryContext(ctx, q, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.BookCopy
	for rows.Next() {
		c, err := scanCopy(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *repo) UpdateCopyStatus(ctx context.Context, copyID int64, status model.CopyStatus, conditionNotes *string) (*model.BookCopy, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		UPDATE book_copies
		SET status = $1, condition_notes = COALESCE($2, condition_notes)
		WHERE copy_id = $3
		RETURNING copy_id`,
		status, conditionNotes, copyID,
	).Scan(&id)
	if err != nil {
		return nil, err
	}
	return r.CopyByID(ctx, id)
}

func (r *repo) SetCopyLocation(ctx context.Context, copyID, locationID int64) (*model.BookCopy, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		UPDATE book_copies SET location_id = $1
		WHERE copy_id = $2
		RETURNING copy_id`,
		locationID, copyID,
	).Scan(&id)
	if err != nil {
		return nil, err
	}
	return r.CopyByID(ctx, id)
}

// DeleteCopy refuses to remove a copy that is currently LOANED.
func (r *repo) DeleteCopy(ctx context.Context, copyID int64) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var status model.CopyStatus
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM book_copies WHERE copy_id = $1 FOR UPDATE`, copyID).Scan(&status)
	if err != nil {
		return err
	}
	if status == model.CopyLoaned {
		return ErrCopyOnLoan
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM book_copies WHERE copy_id = $1`, copyID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *repo) StockStatus(ctx context.Context, search string, outOfStockOnly bool, limit, offset int) ([]model.BookStock, error) {
	q := `
		SELECT b.book_id, b.title, b.isbn,
		       COUNT(bc.copy_id)::BIGINT AS total_copies,
		       COALESCE(COUNT(bc.copy_id) FILTER (WHERE bc.status = 'AVAILABLE'), 0)::BIGINT AS available_copies
		FROM books b
		LEFT JOIN book_copies bc ON bc.book_id = b.book_id`
	args := []any{}
	if search != "" {
		q += ` WHERE b.title ILIKE $1 OR b.isbn ILIKE $1`
		args = append(args, "%"+search+"%")
	}
	q += ` GROUP BY b.book_id`
	if outOfStockOnly {
		q += ` HAVING COALESCE(COUNT(bc.copy_id) FILTER (WHERE bc.status = 'AVAILABLE'), 0) = 0`
	}
	q += fmt.Sprintf(` ORDER BY b.title ASC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.BookStock
	for rows.Next() {
		var s model.BookStock
		if err := rows.Scan(&s.BookID, &s.Title, &s.ISBN, &s.TotalCopies, &s.AvailableCopies); err != nil {
			return nil, err
		}
		s.IsOutOfStock = s.AvailableCopies == 0
		out = append(out, s)
	}
	return out, rows.Err()
}
