package model

import "time"

type FeeStatus string

const (
	FeeUnpaid  FeeStatus = "UNPAID"
	FeePartial FeeStatus = "PARTIAL"
	FeePaid    FeeStatus = "PAID"
)

type LoanFee struct {
	ID           int64     `json:"fee_id" db:"fee_id"`
	LoanID       *int64    `json:"loan_id,omitempty" db:"loan_id"`
	MemberID     int64     `json:"member_id" db:"member_id"`
	FeeType      string    `json:"fee_type" db:"fee_type"`
	Amount       float64   `json:"amount" db:"amount"`
	Status       FeeStatus `json:"status" db:"status"`
	AssessedDate time.Time `json:"assessed_date" db:"assessed_date"`
}

type FeePayment struct {
	ID          int64     `json:"payment_id" db:"payment_id"`
	FeeID       int64     `json:"fee_id" db:"fee_id"`
	Amount      float64   `json:"amount" db:"amount"`
	Method      string    `json:"method" db:"method"`
	PaymentDate time.Time `json:"payment_date" db:"payment_date"`
}

// FeeSummary is the member-facing fee listing with totals.
type FeeSummary struct {
	TotalFees  float64   `json:"total_fees"`
	UnpaidFees float64   `json:"unpaid_fees"`
	Fees       []LoanFee `json:"fees"`
}
