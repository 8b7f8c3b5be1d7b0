package admin

type CreateBookReq struct {
	ISBN            string  `json:"isbn" validate:"required"`
	Title           string  `json:"title" validate:"required"`
	Subtitle        *string `json:"subtitle"`
	PublisherID     *int64  `json:"publisher_id"`
	PublicationYear *int    `json:"publication_year"`
	Language        *string `json:"language"`
	Edition         *string `json:"edition"`
	Description     *string `json:"description"`
}

type UpdateBookReq struct {
	Title           *string `json:"title"`
	Subtitle        *string `json:"subtitle"`
	PublisherID     *int64  `json:"publisher_id"`
	PublicationYear *int    `json:"publication_year"`
	Language        *string `json:"language"`
	Edition         *string `json:"edition"`
	Description     *string `json:"description"`
}

type CreateCopyReq struct {
	BookID          int64   `json:"book_id" validate:"required,gt=0"`
	Barcode         string  `json:"barcode" validate:"required"`
	LocationID      *int64  `json:"location_id"`
	AcquisitionDate *string `json:"acquisition_date"`
}

type SetCopyLocationReq struct {
	LocationID int64 `json:"location_id" validate:"required,gt=0"`
}

type MembershipTypeReq struct {
	TypeName       string  `json:"type_name" validate:"required"`
	LoanLimit      int     `json:"loan_limit" validate:"gte=0"`
	LoanPeriodDays int     `json:"loan_period_days" validate:"required,gt=0"`
	DailyLateFee   float64 `json:"daily_late_fee" validate:"gte=0"`
}

type UpdateMembershipTypeReq struct {
	TypeName       string  `json:"type_name"`
	LoanLimit      int     `json:"loan_limit"`
	LoanPeriodDays int     `json:"loan_period_days"`
	DailyLateFee   float64 `json:"daily_late_fee"`
}

type OverrideMemberStatusReq struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE SUSPENDED INACTIVE"`
}

type CreateLibrarianReq struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type SetActiveReq struct {
	Active bool `json:"active"`
}
