// Package ledger defines the domain types shared by the API client, the
// orchestration pipeline, and the rendering layers: transactions, their
// attachments, paginated result sets, and the account balance.
package ledger

import "time"

// TransactionType discriminates the two kinds of ledger entries.
type TransactionType string

// Valid transaction types.
const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Attachment holds the stored filename and the user-facing original name
// of a file attached to a transaction. The filename is the key used to
// download the binary content later.
type Attachment struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
}

// Transaction is a single ledger record. ID is assigned by the backend
// and is zero before creation. Amount is the signed value as reported by
// the backend; Date carries the calendar timestamp of the movement.
type Transaction struct {
	ID          int64           `json:"id,omitempty"`
	Type        TransactionType `json:"type"`
	Amount      float64         `json:"amount"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Attachment  *Attachment     `json:"attachment,omitempty"`
}

// IsIncome reports whether the transaction credits the account.
func (t Transaction) IsIncome() bool {
	return t.Type == TypeIncome
}

// Signed returns the amount with the sign implied by the transaction
// type: positive for income, negative for expense. The backend is not
// consistent about the sign it stores, so display code normalizes here.
func (t Transaction) Signed() float64 {
	v := t.Amount
	if v < 0 {
		v = -v
	}
	if t.Type == TypeExpense {
		return -v
	}
	return v
}

// HasAttachment reports whether the transaction carries a downloadable
// attachment reference.
func (t Transaction) HasAttachment() bool {
	return t.Attachment != nil && t.Attachment.Filename != ""
}

// Pagination describes the window a PagedResult covers and the total
// number of items on the server side.
type Pagination struct {
	TotalItems int `json:"totalItems"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
}

// PagedResult is one page of transactions together with its pagination
// metadata. It is immutable once received; a later load replaces it
// wholesale rather than patching it.
type PagedResult struct {
	Items      []Transaction `json:"items"`
	Pagination Pagination    `json:"pagination"`
}

// TotalPages returns the number of pages implied by the pagination
// metadata, or zero when the limit is unset.
func (p PagedResult) TotalPages() int {
	if p.Pagination.Limit <= 0 {
		return 0
	}
	pages := p.Pagination.TotalItems / p.Pagination.Limit
	if p.Pagination.TotalItems%p.Pagination.Limit > 0 {
		pages++
	}
	return pages
}

// TransactionPatch is a partial update: only non-nil fields are sent to
// the backend. The ID travels in the URL, not the body.
type TransactionPatch struct {
	Type        *TransactionType `json:"type,omitempty"`
	Amount      *float64         `json:"amount,omitempty"`
	Date        *time.Time       `json:"date,omitempty"`
	Description *string          `json:"description,omitempty"`
}

// File is an attachment payload staged for upload alongside a create or
// update. Name is the original filename presented to the backend.
type File struct {
	Name    string
	Content []byte
}
