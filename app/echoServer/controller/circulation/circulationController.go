package circulation

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/miteshanshu/Library-Management-System-Database/app/echoServer/respond"
	"github.com/miteshanshu/Library-Management-System-Database/app/echoServer/validation"
	circsvc "github.com/miteshanshu/Library-Management-System-Database/service/circulation"
	membershipsvc "github.com/miteshanshu/Library-Management-System-Database/service/membership"
)

type Controller struct {
	Svc     circsvc.Service
	Members membershipsvc.Service
	V       *validator.Validate
	Log     *slog.Logger
}

func (ct *Controller) resolveMemberID(c echo.Context, req IssueReq) (int64, error) {
	if req.MemberID > 0 {
		return req.MemberID, nil
	}
	m, err := ct.Members.MemberByCard(c.Request().Context(), req.CardNumber)
	if err != nil {
		return 0, err
	}
	return m.ID, nil
}

// Issue lends a copy to a member.
// @Summary      Issue book
// @Description  Atomically checks eligibility and creates the loan
// @Tags         circulation
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body  IssueReq  true  "Issue payload"
// @Success      201  {object}  respond.Envelope
// @Failure      400  {object}  respond.Envelope
// @Failure      404  {object}  respond.Envelope
// @Router       /v1/circulation/issue [post]
func (ct *Controller) Issue(c echo.Context) error {
	var req IssueReq
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, "invalid body", nil)
	}
	if err := ct.V.Struct(req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, "validation error", validation.FieldErrors(err))
	}

	memberID, err := ct.resolveMemberID(c, req)
	if err != nil {
		return err
	}

	res, err := ct.Svc.Issue(c.Request().Context(), memberID, req.Barcode)
	if err != nil {
		return err
	}

	ct.Log.Info("book issued", "loan_id", res.LoanID, "member_id", memberID, "barcode", req.Barcode)
	return respond.Created(c, "Book issued successfully", res)
}

// Checkout is the barcode-scanner path. Same engine as Issue, lean response.
// @Summary      Checkout book
// @Tags         circulation
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body  IssueReq  true  "Checkout payload"
// @Success      201  {object}  respond.Envelope
// @Router       /v1/circulation/checkout [post]
func (ct *Controller) Checkout(c echo.Context) error {
	var req IssueReq
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, "invalid body", nil)
	}
	if err := ct.V.Struct(req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, "validation error", validation.FieldErrors(err))
	}

	memberID, err := ct.resolveMemberID(c, req)
	if err != nil {
		return err
	}

	res, err := ct.Svc.Issue(c.Request().Context(), memberID, req.Barcode)
	if err != nil {
		return err
	}
	return respond.Created(c, "Book checked out successfully", echo.Map{
		"loan_id":  res.LoanID,
		"due_date": res.DueDate,
	})
}

// Return closes a loan and frees the copy.
// @Summary      Return book
// @Tags         circulation
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body  ReturnReq  true  "Return payload"
// @Success      200  {object}  respond.Envelope
// @Failure      400  {object}  respond.Envelope
// @Router       /v1/circulation/return [post]
func (ct *Controller) Return(c echo.Context) error {
	var req ReturnReq
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, "invalid body", nil)
	}
	if err := ct.V.Struct(req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, "validation error", validation.FieldErrors(err))
	}

	if err := ct.Svc.Return(c.Request().Context(), req.LoanID); err != nil {
		return err
	}
	return respond.OK(c, "Book returned successfully", nil)
}

// LoanDetail shows one loan with its book, copy and member.
// @Summary      Loan detail
// @Tags         circulation
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Loan ID"
// @Success      200  {object}  respond.Envelope
// @Failure      404  {object}  respond.Envelope
// @Router       /v1/circulation/loans/{id} [get]
func (ct *Controller) LoanDetail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return respond.Fail(c, http.StatusBadRequest, "invalid loan id", nil)
	}
	d, err := ct.Svc.LoanDetail(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond.OK(c, "loan detail", d)
}

// MemberLoans lists a member's loans, optionally filtered by status.
// @Summary      Member loans
// @Tags         circulation
// @Produce      json
// @Security     BearerAuth
// @Param        id      path   int     true   "Member ID"
// @Param        status  query  string  false  "Loan status filter"
// @Success      200  {object}  respond.Envelope
// @Router       /v1/circulation/members/{id}/loans [get]
func (ct *Controller) MemberLoans(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return respond.Fail(c, http.StatusBadRequest, "invalid member id", nil)
	}
	loans, err := ct.Svc.LoansByMember(c.Request().Context(), id, loanStatus(c.QueryParam("status")))
	if err != nil {
		return err
	}
	return respond.OK(c, "member loans", loans)
}
