package model

import "time"

type LoanStatus string

const (
	LoanActive   LoanStatus = "ACTIVE"
	LoanOverdue  LoanStatus = "OVERDUE"
	LoanReturned LoanStatus = "RETURNED"
)

type Loan struct {
	ID           int64      `json:"loan_id" db:"loan_id"`
	MemberID     int64      `json:"member_id" db:"member_id"`
	CopyID       int64      `json:"copy_id" db:"copy_id"`
	CheckoutDate time.Time  `json:"checkout_date" db:"checkout_date"`
	DueDate      time.Time  `json:"due_date" db:"due_date"`
	ReturnedDate *time.Time `json:"returned_date,omitempty" db:"returned_date"`
	Status       LoanStatus `json:"status" db:"status"`
}

// LoanDetail is a loan joined with its book, copy and member for display.
type LoanDetail struct {
	Loan
	Title      string  `json:"title" db:"title"`
	ISBN       string  `json:"isbn" db:"isbn"`
	Barcode    string  `json:"barcode" db:"barcode"`
	CopyStatus *string `json:"copy_status,omitempty" db:"copy_status"`
	CardNumber *string `json:"card_number,omitempty" db:"card_number"`
	FirstName  *string `json:"first_name,omitempty" db:"first_name"`
	LastName   *string `json:"last_name,omitempty" db:"last_name"`
}

// IssueResult is the denormalized snapshot returned by a successful issuance.
// It is a display convenience, not a stored form.
type IssueResult struct {
	LoanID int64 `json:"loan_id"`
	Member struct {
		MemberID int64  `json:"member_id"`
		Name     string `json:"name"`
		Email    string `json:"email"`
	} `json:"member"`
	Book struct {
		Title    string `json:"title"`
		ISBN     string `json:"isbn"`
		Barcode  string `json:"barcode"`
		Location string `json:"location"`
	} `json:"book"`
	CheckoutDate   time.Time  `json:"checkout_date"`
	DueDate        time.Time  `json:"due_date"`
	LoanPeriodDays int        `json:"loan_period_days"`
	Status         LoanStatus `json:"status"`
}
