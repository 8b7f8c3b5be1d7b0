package searchsvc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/miteshanshu/Library-Management-System-Database/model"
	searchrepo "github.com/miteshanshu/Library-Management-System-Database/repository/search"
	"github.com/miteshanshu/Library-Management-System-Database/util/apperr"
)

type mockRepo struct {
	called []string
}

var _ searchrepo.Repo = (*mockRepo)(nil)

func (m *mockRepo) Books(ctx context.Context, term string, limit, offset int) ([]searchrepo.BookHit, error) {
	m.called = append(m.called, "books")
	return []searchrepo.BookHit{{BookID: 1, Title: "Dune"}}, nil
}

func (m *mockRepo) Authors(ctx context.Context, term string, limit, offset int) ([]searchrepo.AuthorHit, error) {
	m.called = append(m.called, "authors")
	return nil, nil
}

func (m *mockRepo) Copies(ctx context.Context, term string, limit, offset int) ([]searchrepo.CopyHit, error) {
	m.called = append(m.called, "copies")
	return nil, nil
}

func (m *mockRepo) Members(ctx context.Context, term string, limit, offset int) ([]searchrepo.MemberHit, error) {
	m.called = append(m.called, "members")
	return nil, nil
}

func (m *mockRepo) Loans(ctx context.Context, term string, limit, offset int) ([]searchrepo.LoanHit, error) {
	m.called = append(m.called, "loans")
	return nil, nil
}

func (m *mockRepo) Users(ctx context.Context, term string, limit, offset int) ([]searchrepo.UserHit, error) {
	m.called = append(m.called, "users")
	return nil, nil
}

func TestSearch_TermTooShort(t *testing.T) {
	svc := New(&mockRepo{})
	_, err := svc.Search(context.Background(), model.RoleStudent, " a ", 20, 0)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestSearch_StudentScope(t *testing.T) {
	m := &mockRepo{}
	svc := New(m)

	res, err := svc.Search(context.Background(), model.RoleStudent, "dune", 20, 0)
	require.NoError(t, err)
	require.Equal(t, []string{"books", "authors"}, m.called)
	require.Len(t, res.Books, 1)
	require.Nil(t, res.Users)
}

func TestSearch_LibrarianScope(t *testing.T) {
	m := &mockRepo{}
	svc := New(m)

	_, err := svc.Search(context.Background(), model.RoleLibrarian, "dune", 20, 0)
	require.NoError(t, err)
	require.Equal(t, []string{"books", "authors", "copies", "members", "loans"}, m.called)
}

func TestSearch_AdminScope(t *testing.T) {
	m := &mockRepo{}
	svc := New(m)

	_, err := svc.Search(context.Background(), model.RoleAdmin, "dune", 20, 0)
	require.NoError(t, err)
	require.Equal(t, []string{"books", "authors", "copies", "members", "loans", "users"}, m.called)
}
