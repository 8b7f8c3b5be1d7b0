package echoServer

import (
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	adminctrl "github.com/miteshanshu/Library-Management-System-Database/app/echoServer/controller/admin"
	authctrl "github.com/miteshanshu/Library-Management-System-Database/app/echoServer/controller/auth"
	circctrl "github.com/miteshanshu/Library-Management-System-Database/app/echoServer/controller/circulation"
	libctrl "github.com/miteshanshu/Library-Management-System-Database/app/echoServer/controller/librarian"
	reportctrl "github.com/miteshanshu/Library-Management-System-Database/app/echoServer/controller/report"
	searchctrl "github.com/miteshanshu/Library-Management-System-Database/app/echoServer/controller/search"
	studentctrl "github.com/miteshanshu/Library-Management-System-Database/app/echoServer/controller/student"
	"github.com/miteshanshu/Library-Management-System-Database/model"
)

type C struct {
	Auth        *authctrl.Controller
	Circulation *circctrl.Controller
	Admin       *adminctrl.Controller
	Librarian   *libctrl.Controller
	Student     *studentctrl.Controller
	Report      *reportctrl.Controller
	Search      *searchctrl.Controller
	JWTSecret   string
}

const (
	roleAdmin     = string(model.RoleAdmin)
	roleLibrarian = string(model.RoleLibrarian)
	roleStudent   = string(model.RoleStudent)
)

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1/auth")
	pub.POST("/register", c.Auth.Register)
	pub.POST("/login", c.Auth.Login)

	authed := e.Group("/v1")
	authed.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(c.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
		TokenLookup:   "header:Authorization",
	}))

	authed.GET("/auth/me", c.Auth.Me)
	authed.GET("/search", c.Search.Search)

	// Circulation desk
	circ := authed.Group("/circulation", RequireRole(roleAdmin, roleLibrarian))
	circ.POST("/issue", c.Circulation.Issue)
	circ.POST("/checkout", c.Circulation.Checkout)
	circ.POST("/return", c.Circulation.Return)
	circ.GET("/loans/:id", c.Circulation.LoanDetail)
	circ.GET("/members/:id/loans", c.Circulation.MemberLoans)

	// Admin
	adm := authed.Group("/admin", RequireRole(roleAdmin))
	adm.POST("/books", c.Admin.CreateBook)
	adm.PATCH("/books/:id", c.Admin.UpdateBook)
	adm.DELETE("/books/:id", c.Admin.DeleteBook)
	adm.POST("/copies", c.Admin.CreateCopy)
	adm.PATCH("/copies/:id/location", c.Admin.SetCopyLocation)
	adm.DELETE("/copies/:id", c.Admin.DeleteCopy)
	adm.POST("/membership-types", c.Admin.CreateMembershipType)
	adm.PATCH("/membership-types/:id", c.Admin.UpdateMembershipType)
	adm.DELETE("/membership-types/:id", c.Admin.DeleteMembershipType)
	adm.PATCH("/members/:id/status", c.Admin.OverrideMemberStatus)
	adm.POST("/fees/:id/waive", c.Admin.WaiveFee)
	adm.POST("/loans/:id/force-close", c.Admin.ForceCloseLoan)
	adm.POST("/librarians", c.Admin.CreateLibrarian)
	adm.PATCH("/librarians/:id/active", c.Admin.SetLibrarianActive)
	adm.GET("/users", c.Admin.ListUsers)

	// Librarian desk (admins may act as librarians)
	lib := authed.Group("/librarian", RequireRole(roleAdmin, roleLibrarian))
	lib.GET("/members", c.Librarian.FindMember)
	lib.GET("/members/:id/loans", c.Librarian.MemberLoans)
	lib.GET("/members/:id/fees", c.Librarian.MemberFees)
	lib.GET("/members/:id/alerts", c.Librarian.MemberAlerts)
	lib.POST("/alerts/:id/resolve", c.Librarian.ResolveAlert)
	lib.POST("/fees/:id/payments", c.Librarian.RecordFeePayment)
	lib.GET("/copies/scan/:barcode", c.Librarian.ScanBarcode)
	lib.PATCH("/copies/:id/status", c.Librarian.SetCopyStatus)
	lib.GET("/copies/:id/loans", c.Librarian.CopyLoanHistory)
	lib.GET("/books/:id/copies", c.Librarian.BookCopies)
	lib.GET("/stock", c.Librarian.StockStatus)
	lib.POST("/overdue/run", c.Librarian.RunOverdueSweep)

	// Student self-service
	stu := authed.Group("/student", RequireRole(roleStudent))
	stu.GET("/me", c.Student.MyProfile)
	stu.GET("/loans", c.Student.MyLoans)
	stu.GET("/loans/overdue", c.Student.MyOverdueLoans)
	stu.GET("/fees", c.Student.MyFees)
	stu.GET("/payments", c.Student.MyPayments)
	stu.GET("/alerts", c.Student.MyAlerts)
	stu.GET("/books", c.Student.BrowseBooks)
	stu.GET("/books/:id", c.Student.BookDetail)
	stu.GET("/books/:id/copies", c.Student.AvailableCopies)

	// Reports
	rep := authed.Group("/reports", RequireRole(roleAdmin, roleLibrarian))
	rep.GET("/overdue", c.Report.Overdue)
	rep.GET("/circulation", c.Report.Circulation)
	rep.GET("/inventory", c.Report.Inventory)
	rep.GET("/member-activity", c.Report.MemberActivity)
	rep.GET("/debt-aging", c.Report.DebtAging)
	rep.GET("/turnaround", c.Report.Turnaround)
	rep.GET("/dashboard", c.Report.Dashboard)
}
