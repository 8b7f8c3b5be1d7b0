package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/miteshanshu/Library-Management-System-Database/app/echoServer/jwtx"
	"github.com/miteshanshu/Library-Management-System-Database/app/echoServer/respond"
	"github.com/miteshanshu/Library-Management-System-Database/app/echoServer/validation"
	"github.com/miteshanshu/Library-Management-System-Database/model"
	authsvc "github.com/miteshanshu/Library-Management-System-Database/service/auth"
)

type Controller struct {
	Svc authsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// Login
// @Summary      Login
// @Description  Login with email + password, returns JWT
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body  model.LoginReq  true  "Login payload"
// @Success      200  {object}  respond.Envelope
// @Failure      400  {object}  respond.Envelope
// @Failure      401  {object}  respond.Envelope
// @Router       /v1/auth/login [post]
func (ct *Controller) Login(c echo.Context) error {
	var req model.LoginReq
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, "invalid body", nil)
	}
	if err := ct.V.Struct(req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, "validation error", validation.FieldErrors(err))
	}

	u, token, err := ct.Svc.Login(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return respond.OK(c, "login successful", echo.Map{"token": token, "user": u})
}

// Register a student account
// @Summary      Register student
// @Description  Self-registration; creates the account and its library member record
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body  model.RegisterStudentReq  true  "Register payload"
// @Success      201  {object}  respond.Envelope
// @Failure      400  {object}  respond.Envelope
// @Router       /v1/auth/register [post]
func (ct *Controller) Register(c echo.Context) error {
	var req model.RegisterStudentReq
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, "invalid body", nil)
	}
	if err := ct.V.Struct(req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, "validation error", validation.FieldErrors(err))
	}

	u, token, err := ct.Svc.RegisterStudent(c.Request().Context(), req)
	if err != nil {
		return err
	}

	ct.Log.Info("student registered", "user_id", u.ID, "email", u.Email)
	return respond.Created(c, "registration successful", echo.Map{"token": token, "user": u})
}

// Me returns the authenticated account.
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  respond.Envelope
// @Failure      401  {object}  respond.Envelope
// @Router       /v1/auth/me [get]
func (ct *Controller) Me(c echo.Context) error {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return respond.Fail(c, http.StatusUnauthorized, "unauthenticated", nil)
	}
	u, err := ct.Svc.Me(c.Request().Context(), uid)
	if err != nil {
		return err
	}
	return respond.OK(c, "user profile", u)
}
