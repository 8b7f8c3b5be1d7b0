// Package student holds the self-service endpoints. Every handler resolves
// the caller's member record from the verified token email, so a student can
// only ever see their own data.
package student

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/miteshanshu/Library-Management-System-Database/app/echoServer/jwtx"
	"github.com/miteshanshu/Library-Management-System-Database/app/echoServer/respond"
	"github.com/miteshanshu/Library-Management-System-Database/model"
	alertsvc "github.com/miteshanshu/Library-Management-System-Database/service/alert"
	catalogsvc "github.com/miteshanshu/Library-Management-System-Database/service/catalog"
	circsvc "github.com/miteshanshu/Library-Management-System-Database/service/circulation"
	feesvc "github.com/miteshanshu/Library-Management-System-Database/service/fee"
	membershipsvc "github.com/miteshanshu/Library-Management-System-Database/service/membership"
)

type Controller struct {
	Members membershipsvc.Service
	Circ    circsvc.Service
	Fees    feesvc.Service
	Alerts  alertsvc.Service
	Catalog catalogsvc.Service
	Log     *slog.Logger
}

func (ct *Controller) self(c echo.Context) (*model.Member, error) {
	email, err := jwtx.EmailFromContext(c)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}
	return ct.Members.MemberByEmail(c.Request().Context(), email)
}

func (ct *Controller) MyProfile(c echo.Context) error {
	m, err := ct.self(c)
	if err != nil {
		return err
	}
	return respond.OK(c, "member profile", m)
}

func (ct *Controller) MyLoans(c echo.Context) error {
	m, err := ct.self(c)
	if err != nil {
		return err
	}
	status := model.LoanStatus(c.QueryParam("status"))
	loans, err := ct.Circ.LoansByMember(c.Request().Context(), m.ID, status)
	if err != nil {
		return err
	}
	return respond.OK(c, "my loans", loans)
}

func (ct *Controller) MyOverdueLoans(c echo.Context) error {
	m, err := ct.self(c)
	if err != nil {
		return err
	}
	loans, err := ct.Circ.LoansByMember(c.Request().Context(), m.ID, model.LoanOverdue)
	if err != nil {
		return err
	}
	return respond.OK(c, "my overdue loans", loans)
}

func (ct *Controller) MyFees(c echo.Context) error {
	m, err := ct.self(c)
	if err != nil {
		return err
	}
	sum, err := ct.Fees.Summary(c.Request().Context(), m.ID)
	if err != nil {
		return err
	}
	return respond.OK(c, "my fees", sum)
}

func (ct *Controller) MyPayments(c echo.Context) error {
	m, err := ct.self(c)
	if err != nil {
		return err
	}
	payments, err := ct.Fees.PaymentHistory(c.Request().Context(), m.ID)
	if err != nil {
		return err
	}
	return respond.OK(c, "my payment history", payments)
}

func (ct *Controller) MyAlerts(c echo.Context) error {
	m, err := ct.self(c)
	if err != nil {
		return err
	}
	alerts, err := ct.Alerts.ForMember(c.Request().Context(), m.ID, c.QueryParam("unresolved") == "true")
	if err != nil {
		return err
	}
	return respond.OK(c, "my alerts", alerts)
}

// --- catalog browsing ---

func (ct *Controller) BrowseBooks(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	books, err := ct.Catalog.ListBooks(c.Request().Context(), c.QueryParam("search"), limit, offset)
	if err != nil {
		return err
	}
	return respond.OK(c, "books", books)
}

func (ct *Controller) BookDetail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return respond.Fail(c, http.StatusBadRequest, "invalid book id", nil)
	}
	b, err := ct.Catalog.Book(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond.OK(c, "book detail", b)
}

func (ct *Controller) AvailableCopies(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return respond.Fail(c, http.StatusBadRequest, "invalid book id", nil)
	}
	copies, err := ct.Catalog.CopiesForBook(c.Request().Context(), id, true)
	if err != nil {
		return err
	}
	return respond.OK(c, "available copies", copies)
}
