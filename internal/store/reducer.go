package store

import (
	"github.com/bytebank/ledgerkit/internal/config"
	"github.com/bytebank/ledgerkit/internal/ledger"
)

// Status is the lifecycle of a feature state. It only moves forward
// through loading -> success/error; a new loading may re-enter from any
// terminal status (supersession, not queuing).
type Status string

// Status values.
const (
	StatusPending Status = "pending"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// TransactionsState is the statement feature state. It is a value type;
// reducers return a new value and never mutate the input.
type TransactionsState struct {
	Status       Status
	Transactions []ledger.Transaction
	TotalItems   int
	CurrentPage  int
	PageSize     int
	Err          error
}

// NewTransactionsState returns the initial statement state.
func NewTransactionsState() TransactionsState {
	return TransactionsState{
		Status:      StatusPending,
		CurrentPage: 1,
		PageSize:    config.DefaultPageSize,
	}
}

// ReduceTransactions folds one action into the statement state. Only
// load actions touch it: mutations reach the list exclusively through
// the cascading reload, so client state can never diverge from
// server-computed fields.
func ReduceTransactions(state TransactionsState, action Action) TransactionsState {
	switch a := action.(type) {
	case LoadTransactions:
		state.Status = StatusLoading
		state.CurrentPage = a.Params.Page
		state.PageSize = a.Params.Limit
	case LoadTransactionsSuccess:
		state.Status = StatusSuccess
		state.Transactions = a.Result.Items
		state.TotalItems = a.Result.Pagination.TotalItems
		state.Err = nil
	case LoadTransactionsFailure:
		state.Status = StatusError
		state.Err = a.Err
	}
	return state
}

// BalanceState is the balance feature state, owned by its own reducer.
// Cross-feature consistency with the statement comes only from the
// cascading reload, never from shared fields.
type BalanceState struct {
	Status Status
	Amount float64
	Err    error
}

// NewBalanceState returns the initial balance state.
func NewBalanceState() BalanceState {
	return BalanceState{Status: StatusPending}
}

// ReduceBalance folds one action into the balance state. The amount is
// always replaced wholesale.
func ReduceBalance(state BalanceState, action Action) BalanceState {
	switch a := action.(type) {
	case LoadBalance:
		state.Status = StatusLoading
	case LoadBalanceSuccess:
		state.Status = StatusSuccess
		state.Amount = a.Amount
		state.Err = nil
	case LoadBalanceFailure:
		state.Status = StatusError
		state.Err = a.Err
	}
	return state
}
