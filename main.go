// Package main library management API.
//
// @title           Library Management API
// @version         1.0
// @description     Library backend: catalog, membership, circulation, fees and reporting.
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/miteshanshu/Library-Management-System-Database/app/echoServer"
	adminctrl "github.com/miteshanshu/Library-Management-System-Database/app/echoServer/controller/admin"
	authctrl "github.com/miteshanshu/Library-Management-System-Database/app/echoServer/controller/auth"
	circctrl "github.com/miteshanshu/Library-Management-System-Database/app/echoServer/controller/circulation"
	libctrl "github.com/miteshanshu/Library-Management-System-Database/app/echoServer/controller/librarian"
	reportctrl "github.com/miteshanshu/Library-Management-System-Database/app/echoServer/controller/report"
	searchctrl "github.com/miteshanshu/Library-Management-System-Database/app/echoServer/controller/search"
	studentctrl "github.com/miteshanshu/Library-Management-System-Database/app/echoServer/controller/student"
	"github.com/miteshanshu/Library-Management-System-Database/app/echoServer/validation"
	"github.com/miteshanshu/Library-Management-System-Database/config"
	alertrepo "github.com/miteshanshu/Library-Management-System-Database/repository/alert"
	catrepo "github.com/miteshanshu/Library-Management-System-Database/repository/catalog"
	circrepo "github.com/miteshanshu/Library-Management-System-Database/repository/circulation"
	feerepo "github.com/miteshanshu/Library-Management-System-Database/repository/fee"
	mtrepo "github.com/miteshanshu/Library-Management-System-Database/repository/membership"
	reportrepo "github.com/miteshanshu/Library-Management-System-Database/repository/report"
	searchrepo "github.com/miteshanshu/Library-Management-System-Database/repository/search"
	userrepo "github.com/miteshanshu/Library-Management-System-Database/repository/user"
	alertsvc "github.com/miteshanshu/Library-Management-System-Database/service/alert"
	authsvc "github.com/miteshanshu/Library-Management-System-Database/service/auth"
	catalogsvc "github.com/miteshanshu/Library-Management-System-Database/service/catalog"
	circsvc "github.com/miteshanshu/Library-Management-System-Database/service/circulation"
	feesvc "github.com/miteshanshu/Library-Management-System-Database/service/fee"
	membershipsvc "github.com/miteshanshu/Library-Management-System-Database/service/membership"
	reportsvc "github.com/miteshanshu/Library-Management-System-Database/service/report"
	searchsvc "github.com/miteshanshu/Library-Management-System-Database/service/search"
	usersvc "github.com/miteshanshu/Library-Management-System-Database/service/user"
	"github.com/miteshanshu/Library-Management-System-Database/util/database"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// repos
	ur := userrepo.New(db)
	mr := mtrepo.New(db)
	cr := catrepo.New(db)
	cir := circrepo.New(db)
	fr := feerepo.New(db)
	alr := alertrepo.New(db)
	rr := reportrepo.New(db)
	sr := searchrepo.New(db)

	// services
	as := authsvc.New(ur, mr, cfg.JWTSecret, cfg.JWTTTLHours)
	ms := membershipsvc.New(mr, log)
	cs := catalogsvc.New(cr)
	cis := circsvc.New(cir, log)
	fs := feesvc.New(fr, log)
	als := alertsvc.New(alr)
	rs := reportsvc.New(rr)
	ss := searchsvc.New(sr)
	us := usersvc.New(ur, log)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	circC := &circctrl.Controller{Svc: cis, Members: ms, V: v, Log: log}
	adminC := &adminctrl.Controller{
		Catalog: cs, Members: ms, Fees: fs, Circ: cis, Auth: as, Users: us, V: v, Log: log,
	}
	libC := &libctrl.Controller{
		Members: ms, Circ: cis, Fees: fs, Alerts: als, Catalog: cs, V: v, Log: log,
	}
	stuC := &studentctrl.Controller{
		Members: ms, Circ: cis, Fees: fs, Alerts: als, Catalog: cs, Log: log,
	}
	repC := &reportctrl.Controller{Svc: rs, Log: log}
	srchC := &searchctrl.Controller{Svc: ss, Log: log}

	// echo
	e := echo.New()
	e.HideBanner = true
	echoServer.RegisterMiddlewares(e, log)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:        authC,
		Circulation: circC,
		Admin:       adminC,
		Librarian:   libC,
		Student:     stuC,
		Report:      repC,
		Search:      srchC,
		JWTSecret:   cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	log.Info("starting server", "port", port, "env", cfg.Env)
	e.Logger.Fatal(e.Start(":" + port))
}
