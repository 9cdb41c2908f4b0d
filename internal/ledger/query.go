package ledger

// Sort orders accepted by the statement listing.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// ListParams selects one page of the statement listing.
type ListParams struct {
	Page  int
	Limit int
	Sort  string
	Order string

	// OwnerID scopes the listing to another owner; empty means the
	// authenticated session's own statement.
	OwnerID string
}
