package model

import "time"

type MemberStatus string

const (
	MemberActive    MemberStatus = "ACTIVE"
	MemberSuspended MemberStatus = "SUSPENDED"
	MemberInactive  MemberStatus = "INACTIVE"
)

// ValidMemberStatus reports whether s is one of the three member statuses.
func ValidMemberStatus(s MemberStatus) bool {
	switch s {
	case MemberActive, MemberSuspended, MemberInactive:
		return true
	}
	return false
}

type Member struct {
	ID               int64        `json:"member_id" db:"member_id"`
	CardNumber       string       `json:"card_number" db:"card_number"`
	FirstName        string       `json:"first_name" db:"first_name"`
	LastName         string       `json:"last_name" db:"last_name"`
	Email            string       `json:"email" db:"email"`
	Status           MemberStatus `json:"status" db:"status"`
	MembershipTypeID int64        `json:"membership_type_id" db:"membership_type_id"`
	CreatedAt        time.Time    `json:"created_at" db:"created_at"`
}

type MembershipType struct {
	ID             int64   `json:"membership_type_id" db:"membership_type_id"`
	TypeName       string  `json:"type_name" db:"type_name"`
	LoanLimit      int     `json:"loan_limit" db:"loan_limit"`
	LoanPeriodDays int     `json:"loan_period_days" db:"loan_period_days"`
	DailyLateFee   float64 `json:"daily_late_fee" db:"daily_late_fee"`
}
