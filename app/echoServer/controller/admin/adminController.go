// Package admin holds the endpoints reserved for administrators: catalog
// management, membership terms, fee waivers and account administration.
package admin

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/miteshanshu/Library-Management-System-Database/app/echoServer/respond"
	"github.com/miteshanshu/Library-Management-System-Database/app/echoServer/validation"
	"github.com/miteshanshu/Library-Management-System-Database/model"
	catrepo "github.com/miteshanshu/Library-Management-System-Database/repository/catalog"
	authsvc "github.com/miteshanshu/Library-Management-System-Database/service/auth"
	catalogsvc "github.com/miteshanshu/Library-Management-System-Database/service/catalog"
	circsvc "github.com/miteshanshu/Library-Management-System-Database/service/circulation"
	feesvc "github.com/miteshanshu/Library-Management-System-Database/service/fee"
	membershipsvc "github.com/miteshanshu/Library-Management-System-Database/service/membership"
	usersvc "github.com/miteshanshu/Library-Management-System-Database/service/user"
)

type Controller struct {
	Catalog catalogsvc.Service
	Members membershipsvc.Service
	Fees    feesvc.Service
	Circ    circsvc.Service
	Auth    authsvc.Service
	Users   usersvc.Service
	V       *validator.Validate
	Log     *slog.Logger
}

func pathID(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

// --- books ---

func (ct *Controller) CreateBook(c echo.Context) error {
	var req CreateBookReq
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, "invalid body", nil)
	}
	if err := ct.V.Struct(req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, "validation error", validation.FieldErrors(err))
	}

	b := &model.Book{
		ISBN: req.ISBN, Title: req.Title, Subtitle: req.Subtitle,
		PublisherID: req.PublisherID, PublicationYear: req.PublicationYear,
		Language: req.Language, Edition: req.Edition, Description: req.Description,
	}
	if err := ct.Catalog.CreateBook(c.Request().Context(), b); err != nil {
		return err
	}
	return respond.Created(c, "book created", b)
}

func (ct *Controller) UpdateBook(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return respond.Fail(c, http.StatusBadRequest, "invalid book id", nil)
	}
	var req UpdateBookReq
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, "invalid body", nil)
	}

	b, err := ct.Catalog.UpdateBook(c.Request().Context(), id, catrepo.BookPatch{
		Title: req.Title, Subtitle: req.Subtitle, PublisherID: req.PublisherID,
		PublicationYear: req.PublicationYear, Language: req.Language,
		Edition: req.Edition, Description: req.Description,
	})
	if err != nil {
		return err
	}
	return respond.OK(c, "book updated", b)
}

func (ct *Controller) DeleteBook(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return respond.Fail(c, http.StatusBadRequest, "invalid book id", nil)
	}
	if err := ct.Catalog.DeleteBook(c.Request().Context(), id); err != nil {
		return err
	}
	ct.Log.Warn("book deleted", "book_id", id)
	return respond.OK(c, "book deleted", nil)
}

// --- copies ---

func (ct *Controller) CreateCopy(c echo.Context) error {
	var req CreateCopyReq
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, "invalid body", nil)
	}
	if err := ct.V.Struct(req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, "validation error", validation.FieldErrors(err))
	}

	cp := &model.BookCopy{BookID: req.BookID, Barcode: req.Barcode, LocationID: req.LocationID}
	if req.AcquisitionDate != nil {
		d, err := time.Parse("2006-01-02", *req.AcquisitionDate)
		if err != nil {
			return respond.Fail(c, http.StatusBadRequest, "acquisition_date must be YYYY-MM-DD", nil)
		}
		cp.AcquisitionDate = &d
	}
	if err := ct.Catalog.CreateCopy(c.Request().Context(), cp); err != nil {
		return err
	}
	return respond.Created(c, "copy created", cp)
}

func (ct *Controller) SetCopyLocation(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return respond.Fail(c, http.StatusBadRequest, "invalid copy id", nil)
	}
	var req SetCopyLocationReq
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, "invalid body", nil)
	}
	if err := ct.V.Struct(req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, "validation error", validation.FieldErrors(err))
	}

	cp, err := ct.Catalog.SetCopyLocation(c.Request().Context(), id, req.LocationID)
	if err != nil {
		return err
	}
	return respond.OK(c, "copy location updated", cp)
}

func (ct *Controller) DeleteCopy(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return respond.Fail(c, http.StatusBadRequest, "invalid copy id", nil)
	}
	if err := ct.Catalog.DeleteCopy(c.Request().Context(), id); err != nil {
		return err
	}
	return respond.OK(c, "copy deleted", nil)
}

// --- membership types ---

func (ct *Controller) CreateMembershipType(c echo.Context) error {
	var req MembershipTypeReq
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, "invalid body", nil)
	}
	if err := ct.V.Struct(req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, "validation error", validation.FieldErrors(err))
	}

	t := &model.MembershipType{
		TypeName: req.TypeName, LoanLimit: req.LoanLimit,
		LoanPeriodDays: req.LoanPeriodDays, DailyLateFee: req.DailyLateFee,
	}
	if err := ct.Members.CreateType(c.Request().Context(), t); err != nil {
		return err
	}
	return respond.Created(c, "membership type created", t)
}

func (ct *Controller) UpdateMembershipType(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return respond.Fail(c, http.StatusBadRequest, "invalid membership type id", nil)
	}
	var req UpdateMembershipTypeReq
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, "invalid body", nil)
	}

	// Zero values mean "keep"; the store patches with COALESCE sentinels.
	patch := &model.MembershipType{
		ID: id, TypeName: req.TypeName,
		LoanLimit: orKeep(req.LoanLimit), LoanPeriodDays: orKeep(req.LoanPeriodDays),
		DailyLateFee: orKeepF(req.DailyLateFee),
	}
	t, err := ct.Members.UpdateType(c.Request().Context(), patch)
	if err != nil {
		return err
	}
	return respond.OK(c, "membership type updated", t)
}

func orKeep(v int) int {
	if v == 0 {
		return -1
	}
	return v
}

func orKeepF(v float64) float64 {
	if v == 0 {
		return -1
	}
	return v
}

func (ct *Controller) DeleteMembershipType(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return respond.Fail(c, http.StatusBadRequest, "invalid membership type id", nil)
	}
	if err := ct.Members.DeleteType(c.Request().Context(), id); err != nil {
		return err
	}
	return respond.OK(c, "membership type deleted", nil)
}

// --- members ---

func (ct *Controller) OverrideMemberStatus(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return respond.Fail(c, http.StatusBadRequest, "invalid member id", nil)
	}
	var req OverrideMemberStatusReq
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, "invalid body", nil)
	}
	if err := ct.V.Struct(req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, "validation error", validation.FieldErrors(err))
	}

	m, err := ct.Members.OverrideStatus(c.Request().Context(), id, model.MemberStatus(req.Status))
	if err != nil {
		return err
	}
	return respond.OK(c, "member status updated", m)
}

// --- fees and loans ---

func (ct *Controller) WaiveFee(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return respond.Fail(c, http.StatusBadRequest, "invalid fee id", nil)
	}
	f, err := ct.Fees.Waive(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond.OK(c, "fee waived", f)
}

func (ct *Controller) ForceCloseLoan(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return respond.Fail(c, http.StatusBadRequest, "invalid loan id", nil)
	}
	ln, err := ct.Circ.ForceClose(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond.OK(c, "loan force closed", ln)
}

// --- accounts ---

func (ct *Controller) CreateLibrarian(c echo.Context) error {
	var req CreateLibrarianReq
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, "invalid body", nil)
	}
	if err := ct.V.Struct(req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, "validation error", validation.FieldErrors(err))
	}

	u, err := ct.Auth.CreateLibrarian(c.Request().Context(), model.RegisterStudentReq{
		FullName: req.FullName, Email: req.Email, Password: req.Password,
	})
	if err != nil {
		return err
	}
	ct.Log.Info("librarian account created", "user_id", u.ID)
	return respond.Created(c, "librarian created", u)
}

func (ct *Controller) ListUsers(c echo.Context) error {
	limit, offset := paging(c)
	users, err := ct.Users.List(c.Request().Context(), c.QueryParam("role"), limit, offset)
	if err != nil {
		return err
	}
	return respond.OK(c, "users", users)
}

func (ct *Controller) SetLibrarianActive(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return respond.Fail(c, http.StatusBadRequest, "invalid user id", nil)
	}
	var req SetActiveReq
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, "invalid body", nil)
	}
	u, err := ct.Users.SetActive(c.Request().Context(), id, model.RoleLibrarian, req.Active)
	if err != nil {
		return err
	}
	return respond.OK(c, "librarian account updated", u)
}

func paging(c echo.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	offset, _ = strconv.Atoi(c.QueryParam("offset"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
