package circulation

import (
	"strings"

	"github.com/miteshanshu/Library-Management-System-Database/model"
)

// loanStatus normalizes the optional ?status= query; empty means all.
func loanStatus(s string) model.LoanStatus {
	return model.LoanStatus(strings.ToUpper(strings.TrimSpace(s)))
}

// IssueReq identifies the member by id or card number, and the copy by its
// physical barcode.
type IssueReq struct {
	MemberID   int64  `json:"member_id" validate:"required_without=CardNumber,omitempty,gt=0"`
	CardNumber string `json:"card_number" validate:"required_without=MemberID,omitempty"`
	Barcode    string `json:"barcode" validate:"required"`
}

type ReturnReq struct {
	LoanID int64 `json:"loan_id" validate:"required,gt=0"`
}
