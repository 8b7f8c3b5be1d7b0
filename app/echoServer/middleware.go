package echoServer

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/miteshanshu/Library-Management-System-Database/app/echoServer/jwtx"
	"github.com/miteshanshu/Library-Management-System-Database/app/echoServer/respond"
	"github.com/miteshanshu/Library-Management-System-Database/util/apperr"
)

func RegisterMiddlewares(e *echo.Echo, log *slog.Logger) {
	e.Use(middleware.Recover())

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))

	e.Use(accessLog(log))

	e.HTTPErrorHandler = errorHandler(log)
}

func accessLog(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			lat := time.Since(start).Milliseconds()

			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			log.Info("http",
				"method", c.Request().Method,
				"path", c.Path(),
				"status", c.Response().Status,
				"latency_ms", lat,
				"req_id", rid,
				"ip", c.RealIP(),
			)
			return err
		}
	}
}

// errorHandler maps service errors onto the response envelope. Internal
// causes are logged with the request id and never shown to the caller.
func errorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if e, ok := apperr.As(err); ok {
			status := apperr.HTTPStatus(e.Kind)
			if e.Kind == apperr.KindInternal {
				rid := c.Response().Header().Get(echo.HeaderXRequestID)
				log.Error("request failed", "err", e.Err, "req_id", rid,
					"method", c.Request().Method, "path", c.Path())
				_ = respond.Fail(c, status, "internal server error", nil)
				return
			}
			_ = respond.Fail(c, status, e.Message, e.Details)
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			msg := "request failed"
			if s, ok := he.Message.(string); ok {
				msg = s
			}
			_ = respond.Fail(c, he.Code, msg, nil)
			return
		}

		rid := c.Response().Header().Get(echo.HeaderXRequestID)
		log.Error("unhandled error", "err", err, "req_id", rid, "path", c.Path())
		_ = respond.Fail(c, http.StatusInternalServerError, "internal server error", nil)
	}
}

// RequireRole gates a route group to the given roles. It runs after the JWT
// middleware has verified the token.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := map[string]struct{}{}
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := jwtx.ClaimsFromContext(c)
			if err != nil {
				return apperr.Authentication("unauthenticated")
			}
			if _, ok := allowed[claims.Role]; !ok {
				return apperr.Authorization("insufficient role for this resource")
			}
			return next(c)
		}
	}
}
