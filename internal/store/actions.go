// Package store implements the action-driven data pipeline: tagged
// intent and outcome actions, the pure reducers that fold outcomes into
// feature state, the effects that turn intents into repository calls,
// and the single-consumer dispatcher tying them together.
package store

import (
	"github.com/bytebank/ledgerkit/internal/ledger"
)

// Action is a tagged event flowing through the pipeline. Intents express
// "something should happen"; outcomes record the settled result of an
// intent. Every dispatched intent yields exactly one terminal outcome.
type Action interface {
	// ActionName identifies the variant in logs and subscriptions.
	ActionName() string
}

// --- intent actions ---

// LoadTransactions requests one page of the statement.
type LoadTransactions struct {
	Params ledger.ListParams
}

// LoadBalance requests a full refresh of the account balance.
type LoadBalance struct{}

// CreateTransaction requests creation of a transaction, optionally with
// an attachment uploaded once the backend assigns an ID.
type CreateTransaction struct {
	Transaction ledger.Transaction
	File        *ledger.File
}

// UpdateTransaction requests a partial update, optionally followed by an
// attachment upload for the same ID.
type UpdateTransaction struct {
	ID    int64
	Patch ledger.TransactionPatch
	File  *ledger.File
}

// DeleteTransaction requests removal of a transaction.
type DeleteTransaction struct {
	ID int64
}

// --- outcome actions ---

// LoadTransactionsSuccess carries a freshly loaded statement page.
type LoadTransactionsSuccess struct {
	Result ledger.PagedResult
}

// LoadTransactionsFailure carries the error that ended a load.
type LoadTransactionsFailure struct {
	Err error
}

// LoadBalanceSuccess carries the reloaded balance.
type LoadBalanceSuccess struct {
	Amount float64
}

// LoadBalanceFailure carries the error that ended a balance reload.
type LoadBalanceFailure struct {
	Err error
}

// CreateTransactionSuccess records a committed create, attachment
// included when one was supplied.
type CreateTransactionSuccess struct{}

// CreateTransactionFailure records a failed create. When the create
// itself committed but the chained attachment upload failed, the record
// exists server-side without its attachment and the upload error is
// reported here; nothing is rolled back.
type CreateTransactionFailure struct {
	Err error
}

// UpdateTransactionSuccess records a committed update.
type UpdateTransactionSuccess struct{}

// UpdateTransactionFailure records a failed update, with the same
// partial-failure semantics as CreateTransactionFailure.
type UpdateTransactionFailure struct {
	Err error
}

// DeleteTransactionSuccess records a committed delete.
type DeleteTransactionSuccess struct{}

// DeleteTransactionFailure records a failed delete.
type DeleteTransactionFailure struct {
	Err error
}

// ActionName implementations. Names follow the intent/outcome naming the
// subscriptions filter on.

func (LoadTransactions) ActionName() string         { return "loadTransactions" }
func (LoadBalance) ActionName() string              { return "loadBalance" }
func (CreateTransaction) ActionName() string        { return "createTransaction" }
func (UpdateTransaction) ActionName() string        { return "updateTransaction" }
func (DeleteTransaction) ActionName() string        { return "deleteTransaction" }
func (LoadTransactionsSuccess) ActionName() string  { return "loadTransactionsSuccess" }
func (LoadTransactionsFailure) ActionName() string  { return "loadTransactionsFailure" }
func (LoadBalanceSuccess) ActionName() string       { return "loadBalanceSuccess" }
func (LoadBalanceFailure) ActionName() string       { return "loadBalanceFailure" }
func (CreateTransactionSuccess) ActionName() string { return "createTransactionSuccess" }
func (CreateTransactionFailure) ActionName() string { return "createTransactionFailure" }
func (UpdateTransactionSuccess) ActionName() string { return "updateTransactionSuccess" }
func (UpdateTransactionFailure) ActionName() string { return "updateTransactionFailure" }
func (DeleteTransactionSuccess) ActionName() string { return "deleteTransactionSuccess" }
func (DeleteTransactionFailure) ActionName() string { return "deleteTransactionFailure" }
