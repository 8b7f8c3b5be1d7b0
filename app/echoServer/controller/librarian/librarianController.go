// Package librarian holds the circulation-desk endpoints: member lookups,
// copy handling and the overdue sweep.
package librarian

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/miteshanshu/Library-Management-System-Database/app/echoServer/respond"
	"github.com/miteshanshu/Library-Management-System-Database/app/echoServer/validation"
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
	V       *validator.Validate
	Log     *slog.Logger
}

type SetCopyStatusReq struct {
	Status         string  `json:"status" validate:"required"`
	ConditionNotes *string `json:"condition_notes"`
}

func pathID(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

// FindMember looks a member up by ?card= or ?email=.
func (ct *Controller) FindMember(c echo.Context) error {
	ctx := c.Request().Context()
	if card := c.QueryParam("card"); card != "" {
		m, err := ct.Members.MemberByCard(ctx, card)
		if err != nil {
			return err
		}
		return respond.OK(c, "member found", m)
	}
	if email := c.QueryParam("email"); email != "" {
		m, err := ct.Members.MemberByEmail(ctx, email)
		if err != nil {
			return err
		}
		return respond.OK(c, "member found", m)
	}
	return respond.Fail(c, http.StatusBadRequest, "card or email query parameter required", nil)
}

func (ct *Controller) MemberLoans(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return respond.Fail(c, http.StatusBadRequest, "invalid member id", nil)
	}
	loans, err := ct.Circ.OpenLoansByMember(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond.OK(c, "open loans", loans)
}

func (ct *Controller) MemberFees(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return respond.Fail(c, http.StatusBadRequest, "invalid member id", nil)
	}
	sum, err := ct.Fees.Summary(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond.OK(c, "fee summary", sum)
}

func (ct *Controller) MemberAlerts(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return respond.Fail(c, http.StatusBadRequest, "invalid member id", nil)
	}
	unresolvedOnly := c.QueryParam("unresolved") == "true"
	alerts, err := ct.Alerts.ForMember(c.Request().Context(), id, unresolvedOnly)
	if err != nil {
		return err
	}
	return respond.OK(c, "member alerts", alerts)
}

func (ct *Controller) ResolveAlert(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return respond.Fail(c, http.StatusBadRequest, "invalid alert id", nil)
	}
	a, err := ct.Alerts.Resolve(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond.OK(c, "alert resolved", a)
}

func (ct *Controller) RecordFeePayment(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return respond.Fail(c, http.StatusBadRequest, "invalid fee id", nil)
	}
	var req struct {
		Amount float64 `json:"amount" validate:"required,gt=0"`
		Method string  `json:"method"`
	}
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, "invalid body", nil)
	}
	if err := ct.V.Struct(req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, "validation error", validation.FieldErrors(err))
	}

	f, err := ct.Fees.Pay(c.Request().Context(), id, req.Amount, req.Method)
	if err != nil {
		return err
	}
	return respond.OK(c, "payment recorded", f)
}

// ScanBarcode resolves a physical barcode to its copy, for the desk scanner.
func (ct *Controller) ScanBarcode(c echo.Context) error {
	barcode := c.Param("barcode")
	if barcode == "" {
		return respond.Fail(c, http.StatusBadRequest, "barcode required", nil)
	}
	cp, err := ct.Catalog.CopyByBarcode(c.Request().Context(), barcode)
	if err != nil {
		return err
	}
	return respond.OK(c, "copy found", cp)
}

func (ct *Controller) SetCopyStatus(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return respond.Fail(c, http.StatusBadRequest, "invalid copy id", nil)
	}
	var req SetCopyStatusReq
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, "invalid body", nil)
	}
	if err := ct.V.Struct(req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, "validation error", validation.FieldErrors(err))
	}

	cp, err := ct.Catalog.SetCopyStatus(c.Request().Context(), id,
		model.CopyStatus(req.Status), req.ConditionNotes)
	if err != nil {
		return err
	}
	return respond.OK(c, "copy status updated", cp)
}

// BookCopies lists every copy of a book regardless of status.
func (ct *Controller) BookCopies(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return respond.Fail(c, http.StatusBadRequest, "invalid book id", nil)
	}
	copies, err := ct.Catalog.CopiesForBook(c.Request().Context(), id, false)
	if err != nil {
		return err
	}
	return respond.OK(c, "book copies", copies)
}

// CopyLoanHistory lists every loan a physical copy has been through.
func (ct *Controller) CopyLoanHistory(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return respond.Fail(c, http.StatusBadRequest, "invalid copy id", nil)
	}
	loans, err := ct.Circ.LoansByCopy(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond.OK(c, "copy loan history", loans)
}

func (ct *Controller) StockStatus(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	out, err := ct.Catalog.StockStatus(c.Request().Context(), c.QueryParam("search"),
		c.QueryParam("out_of_stock") == "true", limit, offset)
	if err != nil {
		return err
	}
	return respond.OK(c, "stock status", out)
}

// RunOverdueSweep flips overdue loans and creates alerts. Idempotent.
func (ct *Controller) RunOverdueSweep(c echo.Context) error {
	stats, err := ct.Circ.GenerateOverdueAlerts(c.Request().Context())
	if err != nil {
		return err
	}
	ct.Log.Info("overdue sweep completed",
		"loans_marked_overdue", stats.LoansMarkedOverdue, "alerts_created", stats.AlertsCreated)
	return respond.OK(c, "overdue sweep completed", stats)
}
