// Package respond renders the uniform response envelope. Every endpoint,
// success or failure, returns {success, message, data, errors}.
package respond

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
	Errors  any    `json:"errors"`
}

func OK(c echo.Context, message string, data any) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

func Created(c echo.Context, message string, data any) error {
	return c.JSON(http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

func Fail(c echo.Context, status int, message string, errs any) error {
	return c.JSON(status, Envelope{Success: false, Message: message, Errors: errs})
}
