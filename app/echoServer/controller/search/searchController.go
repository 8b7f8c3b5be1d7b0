package search

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/miteshanshu/Library-Management-System-Database/app/echoServer/jwtx"
	"github.com/miteshanshu/Library-Management-System-Database/app/echoServer/respond"
	"github.com/miteshanshu/Library-Management-System-Database/model"
	searchsvc "github.com/miteshanshu/Library-Management-System-Database/service/search"
)

type Controller struct {
	Svc searchsvc.Service
	Log *slog.Logger
}

// Search fans the term out across the entities the caller's role can see.
// @Summary      Global search
// @Tags         search
// @Produce      json
// @Security     BearerAuth
// @Param        q       query  string  true   "Search term"
// @Param        limit   query  int     false  "Page size"
// @Param        offset  query  int     false  "Page offset"
// @Success      200  {object}  respond.Envelope
// @Failure      400  {object}  respond.Envelope
// @Router       /v1/search [get]
func (ct *Controller) Search(c echo.Context) error {
	claims, err := jwtx.ClaimsFromContext(c)
	if err != nil {
		return respond.Fail(c, http.StatusUnauthorized, "unauthenticated", nil)
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	res, err := ct.Svc.Search(c.Request().Context(), model.Role(claims.Role),
		c.QueryParam("q"), limit, offset)
	if err != nil {
		return err
	}
	return respond.OK(c, "search results", res)
}
