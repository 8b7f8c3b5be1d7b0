package report

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/miteshanshu/Library-Management-System-Database/app/echoServer/respond"
	reportsvc "github.com/miteshanshu/Library-Management-System-Database/service/report"
)

type Controller struct {
	Svc reportsvc.Service
	Log *slog.Logger
}

func paging(c echo.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	offset, _ = strconv.Atoi(c.QueryParam("offset"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func dateParam(c echo.Context, name string) (*time.Time, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	d, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (ct *Controller) Overdue(c echo.Context) error {
	limit, offset := paging(c)
	rows, err := ct.Svc.Overdue(c.Request().Context(), limit, offset)
	if err != nil {
		return err
	}
	return respond.OK(c, "overdue report", rows)
}

func (ct *Controller) Circulation(c echo.Context) error {
	start, err := dateParam(c, "start")
	if err != nil {
		return respond.Fail(c, http.StatusBadRequest, "start must be YYYY-MM-DD", nil)
	}
	end, err := dateParam(c, "end")
	if err != nil {
		return respond.Fail(c, http.StatusBadRequest, "end must be YYYY-MM-DD", nil)
	}
	rows, err := ct.Svc.Circulation(c.Request().Context(), start, end)
	if err != nil {
		return err
	}
	return respond.OK(c, "circulation report", rows)
}

func (ct *Controller) Inventory(c echo.Context) error {
	rows, err := ct.Svc.Inventory(c.Request().Context())
	if err != nil {
		return err
	}
	return respond.OK(c, "inventory report", rows)
}

func (ct *Controller) MemberActivity(c echo.Context) error {
	limit, offset := paging(c)
	rows, err := ct.Svc.MemberActivity(c.Request().Context(), limit, offset)
	if err != nil {
		return err
	}
	return respond.OK(c, "member activity report", rows)
}

func (ct *Controller) DebtAging(c echo.Context) error {
	rows, err := ct.Svc.DebtAging(c.Request().Context())
	if err != nil {
		return err
	}
	return respond.OK(c, "debt aging report", rows)
}

func (ct *Controller) Turnaround(c echo.Context) error {
	rows, err := ct.Svc.Turnaround(c.Request().Context())
	if err != nil {
		return err
	}
	return respond.OK(c, "turnaround report", rows)
}

func (ct *Controller) Dashboard(c echo.Context) error {
	d, err := ct.Svc.Dashboard(c.Request().Context())
	if err != nil {
		return err
	}
	return respond.OK(c, "dashboard", d)
}
