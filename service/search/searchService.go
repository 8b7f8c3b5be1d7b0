// Package searchsvc fans a search term out across the entity tables a caller
// is allowed to see. Students search the catalog; librarians additionally see
// copies, members and loans; admins also see user accounts.
package searchsvc

import (
	"context"
	"strings"

	"github.com/miteshanshu/Library-Management-System-Database/model"
	searchrepo "github.com/miteshanshu/Library-Management-System-Database/repository/search"
	"github.com/miteshanshu/Library-Management-System-Database/util/apperr"
)

// Result holds per-entity hits. Sections the role cannot see stay nil and
// are omitted from the response.
type Result struct {
	Books   []searchrepo.BookHit   `json:"books,omitempty"`
	Authors []searchrepo.AuthorHit `json:"authors,omitempty"`
	Copies  []searchrepo.CopyHit   `json:"copies,omitempty"`
	Members []searchrepo.MemberHit `json:"members,omitempty"`
	Loans   []searchrepo.LoanHit   `json:"loans,omitempty"`
	Users   []searchrepo.UserHit   `json:"users,omitempty"`
}

type Service interface {
	Search(ctx context.Context, role model.Role, term string, limit, offset int) (*Result, error)
}

type service struct{ r searchrepo.Repo }

func New(r searchrepo.Repo) Service { return &service{r: r} }

func (s *service) Search(ctx context.Context, role model.Role, term string, limit, offset int) (*Result, error) {
	term = strings.TrimSpace(term)
	if len(term) < 2 {
		return nil, apperr.Validation("search term must be at least 2 characters")
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	res := &Result{}
	var err error

	if res.Books, err = s.r.Books(ctx, term, limit, offset); err != nil {
		return nil, apperr.Internal(err)
	}
	if res.Authors, err = s.r.Authors(ctx, term, limit, offset); err != nil {
		return nil, apperr.Internal(err)
	}
	if role == model.RoleStudent {
		return res, nil
	}

	if res.Copies, err = s.r.Copies(ctx, term, limit, offset); err != nil {
		return nil, apperr.Internal(err)
	}
	if res.Members, err = s.r.Members(ctx, term, limit, offset); err != nil {
		return nil, apperr.Internal(err)
	}
	if res.Loans, err = s.r.Loans(ctx, term, limit, offset); err != nil {
		return nil, apperr.Internal(err)
	}
	if role != model.RoleAdmin {
		return res, nil
	}

	if res.Users, err = s.r.Users(ctx, term, limit, offset); err != nil {
		return nil, apperr.Internal(err)
	}
	return res, nil
}
