package catalogsvc

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/miteshanshu/Library-Management-System-Database/model"
	catrepo "github.com/miteshanshu/Library-Management-System-Database/repository/catalog"
	"github.com/miteshanshu/Library-Management-System-Database/util/apperr"
)

type mockRepo struct {
	catrepo.Repo

	createBookFn       func(ctx context.Context, b *model.Book) error
	deleteBookFn       func(ctx context.Context, id int64) error
	bookByIDFn         func(ctx context.Context, id int64) (*model.Book, error)
	createCopyFn       func(ctx context.Context, c *model.BookCopy) error
	copyByIDFn         func(ctx context.Context, id int64) (*model.BookCopy, error)
	updateCopyStatusFn func(ctx context.Context, copyID int64, status model.CopyStatus, notes *string) (*model.BookCopy, error)
	setCopyLocationFn  func(ctx context.Context, copyID, locationID int64) (*model.BookCopy, error)
	deleteCopyFn       func(ctx context.Context, copyID int64) error
}

func (m *mockRepo) CreateBook(ctx context.Context, b *model.Book) error {
	return m.createBookFn(ctx, b)
}

func (m *mockRepo) DeleteBook(ctx context.Context, id int64) error {
	return m.deleteBookFn(ctx, id)
}

func (m *mockRepo) BookByID(ctx context.Context, id int64) (*model.Book, error) {
	return m.bookByIDFn(ctx, id)
}

func (m *mockRepo) CreateCopy(ctx context.Context, c *model.BookCopy) error {
	return m.createCopyFn(ctx, c)
}

func (m *mockRepo) CopyByID(ctx context.Context, id int64) (*model.BookCopy, error) {
	return m.copyByIDFn(ctx, id)
}

func (m *mockRepo) UpdateCopyStatus(ctx context.Context, copyID int64, status model.CopyStatus, notes *string) (*model.BookCopy, error) {
	return m.updateCopyStatusFn(ctx, copyID, status, notes)
}

func (m *mockRepo) SetCopyLocation(ctx context.Context, copyID, locationID int64) (*model.BookCopy, error) {
	return m.setCopyLocationFn(ctx, copyID, locationID)
}

func (m *mockRepo) DeleteCopy(ctx context.Context, copyID int64) error {
	return m.deleteCopyFn(ctx, copyID)
}

func TestCreateBook_RequiresTitleAndISBN(t *testing.T) {
	svc := New(&mockRepo{})
	err := svc.CreateBook(context.Background(), &model.Book{Title: "  ", ISBN: ""})
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCreateBook_TrimsFields(t *testing.T) {
	m := &mockRepo{createBookFn: func(ctx context.Context, b *model.Book) error {
		require.Equal(t, "Dune", b.Title)
		require.Equal(t, "978-0441172719", b.ISBN)
		b.ID = 5
		return nil
	}}
	svc := New(m)

	b := &model.Book{Title: " Dune ", ISBN: " 978-0441172719 "}
	require.NoError(t, svc.CreateBook(context.Background(), b))
	require.Equal(t, int64(5), b.ID)
}

func TestDeleteBook_RefusedWhileOnLoan(t *testing.T) {
	m := &mockRepo{deleteBookFn: func(ctx context.Context, id int64) error {
		return catrepo.ErrBookOnLoan
	}}
	svc := New(m)

	err := svc.DeleteBook(context.Background(), 5)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestDeleteBook_NotFound(t *testing.T) {
	m := &mockRepo{deleteBookFn: func(ctx context.Context, id int64) error {
		return sql.ErrNoRows
	}}
	svc := New(m)

	err := svc.DeleteBook(context.Background(), 99)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCreateCopy_UnknownBook(t *testing.T) {
	m := &mockRepo{bookByIDFn: func(ctx context.Context, id int64) (*model.Book, error) {
		return nil, sql.ErrNoRows
	}}
	svc := New(m)

	err := svc.CreateCopy(context.Background(), &model.BookCopy{BookID: 99, Barcode: "BC-1"})
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestSetCopyStatus_RejectsLoaned(t *testing.T) {
	svc := New(&mockRepo{})
	_, err := svc.SetCopyStatus(context.Background(), 31, model.CopyLoaned, nil)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestSetCopyStatus_RejectsUnknownStatus(t *testing.T) {
	svc := New(&mockRepo{})
	_, err := svc.SetCopyStatus(context.Background(), 31, model.CopyStatus("BORROWED"), nil)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestSetCopyStatus_RefusedWhileOnLoan(t *testing.T) {
	m := &mockRepo{copyByIDFn: func(ctx context.Context, id int64) (*model.BookCopy, error) {
		return &model.BookCopy{ID: id, Status: model.CopyLoaned}, nil
	}}
	svc := New(m)

	_, err := svc.SetCopyStatus(context.Background(), 31, model.CopyMaintenance, nil)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestSetCopyStatus_Success(t *testing.T) {
	m := &mockRepo{
		copyByIDFn: func(ctx context.Context, id int64) (*model.BookCopy, error) {
			return &model.BookCopy{ID: id, Status: model.CopyAvailable}, nil
		},
		updateCopyStatusFn: func(ctx context.Context, copyID int64, status model.CopyStatus, notes *string) (*model.BookCopy, error) {
			require.Equal(t, model.CopyMaintenance, status)
			return &model.BookCopy{ID: copyID, Status: status}, nil
		},
	}
	svc := New(m)

	c, err := svc.SetCopyStatus(context.Background(), 31, model.CopyMaintenance, nil)
	require.NoError(t, err)
	require.Equal(t, model.CopyMaintenance, c.Status)
}

func TestSetCopyLocation_Success(t *testing.T) {
	loc := int64(4)
	m := &mockRepo{setCopyLocationFn: func(ctx context.Context, copyID, locationID int64) (*model.BookCopy, error) {
		require.Equal(t, int64(31), copyID)
		require.Equal(t, loc, locationID)
		return &model.BookCopy{ID: copyID, LocationID: &locationID}, nil
	}}
	svc := New(m)

	c, err := svc.SetCopyLocation(context.Background(), 31, loc)
	require.NoError(t, err)
	require.Equal(t, loc, *c.LocationID)
}

func TestSetCopyLocation_NotFound(t *testing.T) {
	m := &mockRepo{setCopyLocationFn: func(ctx context.Context, copyID, locationID int64) (*model.BookCopy, error) {
		return nil, sql.ErrNoRows
	}}
	svc := New(m)

	_, err := svc.SetCopyLocation(context.Background(), 99, 4)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestDeleteCopy_RefusedWhileOnLoan(t *testing.T) {
	m := &mockRepo{deleteCopyFn: func(ctx context.Context, copyID int64) error {
		return catrepo.ErrCopyOnLoan
	}}
	svc := New(m)

	err := svc.DeleteCopy(context.Background(), 31)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}
