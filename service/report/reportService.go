package reportsvc

import (
	"context"
	"time"

	reportrepo "github.com/miteshanshu/Library-Management-System-Database/repository/report"
	"github.com/miteshanshu/Library-Management-System-Database/util/apperr"
)

type Service interface {
	Overdue(ctx context.Context, limit, offset int) ([]reportrepo.OverdueRow, error)
	Circulation(ctx context.Context, start, end *time.Time) ([]reportrepo.CirculationRow, error)
	Inventory(ctx context.Context) ([]reportrepo.InventoryRow, error)
	MemberActivity(ctx context.Context, limit, offset int) ([]reportrepo.MemberActivityRow, error)
	DebtAging(ctx context.Context) ([]reportrepo.DebtAgingRow, error)
	Turnaround(ctx context.Context) ([]reportrepo.TurnaroundRow, error)
	Dashboard(ctx context.Context) (*reportrepo.Dashboard, error)
}

type service struct{ r reportrepo.Repo }

func New(r reportrepo.Repo) Service { return &service{r: r} }

func (s *service) Overdue(ctx context.Context, limit, offset int) ([]reportrepo.OverdueRow, error) {
	out, err := s.r.Overdue(ctx, limit, offset)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

func (s *service) Circulation(ctx context.Context, start, end *time.Time) ([]reportrepo.CirculationRow, error) {
	if start != nil && end != nil && end.Before(*start) {
		return nil, apperr.Validation("end date must not precede start date")
	}
	out, err := s.r.Circulation(ctx, start, end)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

func (s *service) Inventory(ctx context.Context) ([]reportrepo.InventoryRow, error) {
	out, err := s.r.Inventory(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

func (s *service) MemberActivity(ctx context.Context, limit, offset int) ([]reportrepo.MemberActivityRow, error) {
	out, err := s.r.MemberActivity(ctx, limit, offset)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

func (s *service) DebtAging(ctx context.Context) ([]reportrepo.DebtAgingRow, error) {
	out, err := s.r.DebtAging(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

func (s *service) Turnaround(ctx context.Context) ([]reportrepo.TurnaroundRow, error) {
	out, err := s.r.Turnaround(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

func (s *service) Dashboard(ctx context.Context) (*reportrepo.Dashboard, error) {
	out, err := s.r.Dashboard(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}
