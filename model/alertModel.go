package model

import "time"

const AlertOverdue = "OVERDUE"

type MemberAlert struct {
	ID         int64      `json:"alert_id" db:"alert_id"`
	MemberID   int64      `json:"member_id" db:"member_id"`
	AlertType  string     `json:"alert_type" db:"alert_type"`
	Message    string     `json:"message" db:"message"`
	AlertDate  time.Time  `json:"alert_date" db:"alert_date"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty" db:"resolved_at"`
}
