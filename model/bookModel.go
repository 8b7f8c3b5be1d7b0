package model

import "time"

type CopyStatus string

const (
	CopyAvailable   CopyStatus = "AVAILABLE"
	CopyReserved    CopyStatus = "RESERVED"
	CopyLoaned      CopyStatus = "LOANED"
	CopyMaintenance CopyStatus = "MAINTENANCE"
	CopyLost        CopyStatus = "LOST"
)

// ValidCopyStatus reports whether s is one of the five copy statuses.
func ValidCopyStatus(s CopyStatus) bool {
	switch s {
	case CopyAvailable, CopyReserved, CopyLoaned, CopyMaintenance, CopyLost:
		return true
	}
	return false
}

type Book struct {
	ID              int64     `json:"book_id" db:"book_id"`
	ISBN            string    `json:"isbn" db:"isbn"`
	Title           string    `json:"title" db:"title"`
	Subtitle        *string   `json:"subtitle,omitempty" db:"subtitle"`
	PublisherID     *int64    `json:"publisher_id,omitempty" db:"publisher_id"`
	PublisherName   *string   `json:"publisher_name,omitempty" db:"publisher_name"`
	PublicationYear *int      `json:"publication_year,omitempty" db:"publication_year"`
	Language        *string   `json:"language,omitempty" db:"language"`
	Edition         *string   `json:"edition,omitempty" db:"edition"`
	Description     *string   `json:"description,omitempty" db:"description"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

type BookCopy struct {
	ID              int64      `json:"copy_id" db:"copy_id"`
	BookID          int64      `json:"book_id" db:"book_id"`
	Barcode         string     `json:"barcode" db:"barcode"`
	Status          CopyStatus `json:"status" db:"status"`
	LocationID      *int64     `json:"location_id,omitempty" db:"location_id"`
	LocationName    *string    `json:"location_name,omitempty" db:"location_name"`
	ConditionNotes  *string    `json:"condition_notes,omitempty" db:"condition_notes"`
	AcquisitionDate *time.Time `json:"acquisition_date,omitempty" db:"acquisition_date"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}

// BookStock is one row of the per-title stock listing.
type BookStock struct {
	BookID          int64  `json:"book_id" db:"book_id"`
	Title           string `json:"title" db:"title"`
	ISBN            string `json:"isbn" db:"isbn"`
	TotalCopies     int64  `json:"total_copies" db:"total_copies"`
	AvailableCopies int64  `json:"available_copies" db:"available_copies"`
	IsOutOfStock    bool   `json:"is_out_of_stock" db:"is_out_of_stock"`
}
