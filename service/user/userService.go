package usersvc

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/miteshanshu/Library-Management-System-Database/model"
	userrepo "github.com/miteshanshu/Library-Management-System-Database/repository/user"
	"github.com/miteshanshu/Library-Management-System-Database/util/apperr"
)

// Service covers the admin-facing account operations: listing accounts and
// toggling whether one can sign in.
type Service interface {
	List(ctx context.Context, role string, limit, offset int) ([]model.User, error)
	SetActive(ctx context.Context, id int64, role model.Role, active bool) (*model.User, error)
}

type service struct {
	r   userrepo.Repo
	log *slog.Logger
}

func New(r userrepo.Repo, log *slog.Logger) Service {
	return &service{r: r, log: log}
}

func (s *service) List(ctx context.Context, role string, limit, offset int) ([]model.User, error) {
	if role != "" && role != string(model.RoleAdmin) && role != string(model.RoleLibrarian) && role != string(model.RoleStudent) {
		return nil, apperr.Validationf("unknown role: %s", role)
	}
	out, err := s.r.List(ctx, role, limit, offset)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

func (s *service) SetActive(ctx context.Context, id int64, role model.Role, active bool) (*model.User, error) {
	u, err := s.r.SetActive(ctx, id, role, active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFoundf("%s with ID %d not found", role, id)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	s.log.Info("account active flag changed", "user_id", id, "role", role, "active", active)
	return u, nil
}
