// Package catalogsvc exposes book and copy inventory operations to the HTTP
// layer. Status transitions that do not involve an open loan live here; any
// transition into or out of LOANED belongs to the circulation engine.
package catalogsvc

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/miteshanshu/Library-Management-System-Database/model"
	catrepo "github.com/miteshanshu/Library-Management-System-Database/repository/catalog"
	"github.com/miteshanshu/Library-Management-System-Database/util/apperr"
)

type Service interface {
	CreateBook(ctx context.Context, b *model.Book) error
	UpdateBook(ctx context.Context, id int64, p catrepo.BookPatch) (*model.Book, error)
	DeleteBook(ctx context.Context, id int64) error
	Book(ctx context.Context, id int64) (*model.Book, error)
	ListBooks(ctx context.Context, search string, limit, offset int) ([]model.Book, error)

	CreateCopy(ctx context.Context, c *model.BookCopy) error
	Copy(ctx context.Context, id int64) (*model.BookCopy, error)
	CopyByBarcode(ctx context.Context, barcode string) (*model.BookCopy, error)
	CopiesForBook(ctx context.Context, bookID int64, onlyAvailable bool) ([]model.BookCopy, error)

	// SetCopyStatus applies a manual status change (maintenance, lost,
	// back to available). LOANED is reserved for the loan path.
	SetCopyStatus(ctx context.Context, copyID int64, status model.CopyStatus, conditionNotes *string) (*model.BookCopy, error)
	SetCopyLocation(ctx context.Context, copyID, locationID int64) (*model.BookCopy, error)
	DeleteCopy(ctx context.Context, copyID int64) error

	StockStatus(ctx context.Context, search string, outOfStockOnly bool, limit, offset int) ([]model.BookStock, error)
}

type service struct{ r catrepo.Repo }

func New(r catrepo.Repo) Service { return &service{r: r} }

func (s *service) CreateBook(ctx context.Context, b *model.Book) error {
	b.Title = strings.TrimSpace(b.Title)
	b.ISBN = strings.TrimSpace(b.ISBN)
	if b.Title == "" || b.ISBN == "" {
		return apperr.Validation("title and isbn are required")
	}
	if err := s.r.CreateBook(ctx, b); err != nil {
		if isUniqueViolation(err) {
			return apperr.Validationf("book with ISBN %s already exists", b.ISBN)
		}
		return apperr.Internal(err)
	}
	return nil
}

func (s *service) UpdateBook(ctx context.Context, id int64, p catrepo.BookPatch) (*model.Book, error) {
	b, err := s.r.UpdateBook(ctx, id, p)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFoundf("book with ID %d not found", id)
	}
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Validation("another book already uses that ISBN")
		}
		return nil, apperr.Internal(err)
	}
	return b, nil
}

func (s *service) DeleteBook(ctx context.Context, id int64) error {
	err := s.r.DeleteBook(ctx, id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return apperr.NotFoundf("book with ID %d not found", id)
	case errors.Is(err, catrepo.ErrBookOnLoan):
		return apperr.Validation("cannot delete book while copies are on loan")
	case err != nil:
		return apperr.Internal(err)
	}
	return nil
}

func (s *service) Book(ctx context.Context, id int64) (*model.Book, error) {
	b, err := s.r.BookByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFoundf("book with ID %d not found", id)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return b, nil
}

func (s *service) ListBooks(ctx context.Context, search string, limit, offset int) ([]model.Book, error) {
	out, err := s.r.ListBooks(ctx, search, limit, offset)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

func (s *service) CreateCopy(ctx context.Context, c *model.BookCopy) error {
	c.Barcode = strings.TrimSpace(c.Barcode)
	if c.Barcode == "" {
		return apperr.Validation("barcode is required")
	}
	if _, err := s.r.BookByID(ctx, c.BookID); errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFoundf("book with ID %d not found", c.BookID)
	} else if err != nil {
		return apperr.Internal(err)
	}
	if err := s.r.CreateCopy(ctx, c); err != nil {
		if isUniqueViolation(err) {
			return apperr.Validationf("barcode %s already in use", c.Barcode)
		}
		return apperr.Internal(err)
	}
	return nil
}

func (s *service) Copy(ctx context.Context, id int64) (*model.BookCopy, error) {
	c, err := s.r.CopyByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFoundf("copy with ID %d not found", id)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return c, nil
}

func (s *service) CopyByBarcode(ctx context.Context, barcode string) (*model.BookCopy, error) {
	c, err := s.r.CopyByBarcode(ctx, barcode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFoundf("copy with barcode %s not found", barcode)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return c, nil
}

func (s *service) CopiesForBook(ctx context.Context, bookID int64, onlyAvailable bool) ([]model.BookCopy, error) {
	out, err := s.r.CopiesForBook(ctx, bookID, onlyAvailable)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

func (s *service) SetCopyStatus(ctx context.Context, copyID int64, status model.CopyStatus, conditionNotes *string) (*model.BookCopy, error) {
	if !model.ValidCopyStatus(status) {
		return nil, apperr.Validationf("invalid copy status: %s", status)
	}
	if status == model.CopyLoaned {
		return nil, apperr.Validation("LOANED status can only be set by issuing a loan")
	}

	cur, err := s.r.CopyByID(ctx, copyID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFoundf("copy with ID %d not found", copyID)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if cur.Status == model.CopyLoaned {
		return nil, apperr.Validation("copy is on loan; return it before changing its status")
	}

	c, err := s.r.UpdateCopyStatus(ctx, copyID, status, conditionNotes)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return c, nil
}

func (s *service) SetCopyLocation(ctx context.Context, copyID, locationID int64) (*model.BookCopy, error) {
	c, err := s.r.SetCopyLocation(ctx, copyID, locationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFoundf("copy with ID %d not found", copyID)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return c, nil
}

func (s *service) DeleteCopy(ctx context.Context, copyID int64) error {
	err := s.r.DeleteCopy(ctx, copyID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return apperr.NotFoundf("copy with ID %d not found", copyID)
	case errors.Is(err, catrepo.ErrCopyOnLoan):
		return apperr.Validation("cannot delete copy while it is on loan")
	case err != nil:
		return apperr.Internal(err)
	}
	return nil
}

func (s *service) StockStatus(ctx context.Context, search string, outOfStockOnly bool, limit, offset int) ([]model.BookStock, error) {
	out, err := s.r.StockStatus(ctx, search, outOfStockOnly, limit, offset)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
