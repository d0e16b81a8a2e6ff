package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MerchantMaxLen bounds the extracted merchant name.
const MerchantMaxLen = 255

// RawDocument is one uploaded receipt/invoice, owned transiently by a
// single pipeline run.
type RawDocument struct {
	ID       uuid.UUID `json:"id"`
	OwnerID  uuid.UUID `json:"owner_id"`
	Filename string    `json:"filename"`
	MIMEType string    `json:"mime_type"`
	Content  []byte    `json:"-"`
}

// Document represents a stored document for data transfer between layers.
type Document struct {
	ID            uuid.UUID  `json:"id"`
	OwnerID       uuid.UUID  `json:"owner_id"`
	Filename      string     `json:"filename"`
	MIMEType      string     `json:"mime_type"`
	Status        string     `json:"status"`
	RawText       *string    `json:"raw_text,omitempty"`
	ExtractedJSON []byte     `json:"extracted_json,omitempty"`
	ErrorMessage  *string    `json:"error_message,omitempty"`
	Attempts      int        `json:"attempts"`
	UploadedAt    time.Time  `json:"uploaded_at"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
}

// LineItem is one purchased item as it appears in the source text.
type LineItem struct {
	Description string           `json:"description"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	Total       *decimal.Decimal `json:"total,omitempty"`
}

// DocumentData is the normalizer output: always produced, with defaults
// substituted for missing fields and the fallback recorded in Defaulted.
type DocumentData struct {
	Date      time.Time        `json:"date"`
	Amount    *decimal.Decimal `json:"amount,omitempty"`
	Currency  string           `json:"currency"`
	Merchant  string           `json:"merchant,omitempty"`
	Tax       *decimal.Decimal `json:"tax,omitempty"`
	LineItems []LineItem       `json:"line_items,omitempty"`
	Defaulted []string         `json:"defaulted,omitempty"`
}

// UsedDefault reports whether the named field fell back to a default value.
func (d DocumentData) UsedDefault(field string) bool {
	for _, f := range d.Defaulted {
		if f == field {
			return true
		}
	}
	return false
}

// Transaction is the persistence-ready draft emitted for a processed document.
type Transaction struct {
	ID         uuid.UUID        `json:"id"`
	OwnerID    uuid.UUID        `json:"owner_id"`
	DocumentID uuid.UUID        `json:"document_id"`
	Date       time.Time        `json:"date"`
	Amount     decimal.Decimal  `json:"amount"`
	Currency   string           `json:"currency"`
	Merchant   string           `json:"merchant,omitempty"`
	Tax        *decimal.Decimal `json:"tax,omitempty"`
	Category   string           `json:"category,omitempty"`
	LineItems  []LineItem       `json:"line_items,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}
