package entity

import (
	"context"
	"time"

	"confina/internal/core/apperror"
)

// Document is the base type for business transactions.
// Examples: CostEntry, IndirectAllocation, SaleRecord.
type Document struct {
	BaseDocument

	// Number is the document number (auto-generated, unique within type+year)
	Number string `db:"number" json:"number"`

	// Date is the business date of the document
	Date time.Time `db:"date" json:"date"`

	// Comment is an optional user comment
	Comment string `db:"comment" json:"comment,omitempty"`
}

// NewDocument creates a new Document with generated ID.
func NewDocument(date time.Time) Document {
	if date.IsZero() {
		date = time.Now().UTC()
	}
	return Document{
		BaseDocument: NewBaseDocument(),
		Date:         date,
	}
}

// Validate implements Validatable.
func (d *Document) Validate(ctx context.Context) error {
	if d.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}
	return nil
}
