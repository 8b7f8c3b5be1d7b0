package alertsvc

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/miteshanshu/Library-Management-System-Database/model"
	alertrepo "github.com/miteshanshu/Library-Management-System-Database/repository/alert"
	"github.com/miteshanshu/Library-Management-System-Database/util/apperr"
)

type Service interface {
	ForMember(ctx context.Context, memberID int64, unresolvedOnly bool) ([]model.MemberAlert, error)
	Resolve(ctx context.Context, alertID int64) (*model.MemberAlert, error)
}

type service struct {
	r   alertrepo.Repo
	now func() time.Time
}

func New(r alertrepo.Repo) Service {
	return &service{r: r, now: time.Now}
}

func (s *service) ForMember(ctx context.Context, memberID int64, unresolvedOnly bool) ([]model.MemberAlert, error) {
	out, err := s.r.ListByMember(ctx, memberID, unresolvedOnly)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

func (s *service) Resolve(ctx context.Context, alertID int64) (*model.MemberAlert, error) {
	a, err := s.r.Resolve(ctx, alertID, s.now().UTC())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFoundf("alert with ID %d not found", alertID)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return a, nil
}
