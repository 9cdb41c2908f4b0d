package store

import (
	"context"

	"github.com/bytebank/ledgerkit/internal/config"
	"github.com/bytebank/ledgerkit/internal/ledger"
	"github.com/bytebank/ledgerkit/internal/logging"
)

// Repository is the capability the pipeline needs from the backend
// adapter. api.Client satisfies it; tests substitute fakes.
type Repository interface {
	ListTransactions(ctx context.Context, params ledger.ListParams) (*ledger.PagedResult, error)
	CreateTransaction(ctx context.Context, tx ledger.Transaction) (*ledger.Transaction, error)
	UpdateTransaction(ctx context.Context, id int64, patch ledger.TransactionPatch) error
	DeleteTransaction(ctx context.Context, id int64) error
	UploadAttachment(ctx context.Context, id int64, file ledger.File) error
	DownloadAttachment(ctx context.Context, filename string) ([]byte, error)
	GetBalance(ctx context.Context) (float64, error)
	GetCategorySuggestions(ctx context.Context, description string, txType ledger.TransactionType) ([]string, error)
}

// Effects maps actions to repository work and follow-up actions. It is
// a pure function of (action, repository): all state lives in the
// reducers, all I/O in the repository.
type Effects struct {
	repo Repository
}

// NewEffects wires the repository capability into the effect handlers.
func NewEffects(repo Repository) *Effects {
	return &Effects{repo: repo}
}

// Handle reacts to one action. Intent actions perform repository calls
// and return their terminal outcome; mutation success outcomes return
// the cascading reload intents. Actions with no effect return nil.
//
// Repository failures are converted 1:1 into failure actions here:
// nothing is swallowed, nothing is retried.
func (e *Effects) Handle(ctx context.Context, action Action) []Action {
	switch a := action.(type) {
	case LoadTransactions:
		return e.loadTransactions(ctx, a)
	case LoadBalance:
		return e.loadBalance(ctx)
	case CreateTransaction:
		return e.createTransaction(ctx, a)
	case UpdateTransaction:
		return e.updateTransaction(ctx, a)
	case DeleteTransaction:
		return e.deleteTransaction(ctx, a)
	case CreateTransactionSuccess, UpdateTransactionSuccess, DeleteTransactionSuccess:
		return reloadCascade()
	default:
		return nil
	}
}

func (e *Effects) loadTransactions(ctx context.Context, a LoadTransactions) []Action {
	result, err := e.repo.ListTransactions(ctx, a.Params)
	if err != nil {
		return []Action{LoadTransactionsFailure{Err: err}}
	}
	return []Action{LoadTransactionsSuccess{Result: *result}}
}

func (e *Effects) loadBalance(ctx context.Context) []Action {
	amount, err := e.repo.GetBalance(ctx)
	if err != nil {
		return []Action{LoadBalanceFailure{Err: err}}
	}
	return []Action{LoadBalanceSuccess{Amount: amount}}
}

// createTransaction performs the create and, when a file is staged and
// the backend assigned an ID, chains the attachment upload. The upload
// never begins before the create acknowledgement is observed. An upload
// failure is reported as the create's failure even though the record
// already committed.
func (e *Effects) createTransaction(ctx context.Context, a CreateTransaction) []Action {
	created, err := e.repo.CreateTransaction(ctx, a.Transaction)
	if err != nil {
		return []Action{CreateTransactionFailure{Err: err}}
	}

	if a.File != nil && created.ID != 0 {
		if err := e.repo.UploadAttachment(ctx, created.ID, *a.File); err != nil {
			logging.FromContext(ctx).Warn().
				Str("component", "pipeline").
				Int64("transaction_id", created.ID).
				Err(err).
				Msg("attachment upload failed after create committed")
			return []Action{CreateTransactionFailure{Err: err}}
		}
	}

	return []Action{CreateTransactionSuccess{}}
}

// updateTransaction mirrors createTransaction with the caller-supplied ID.
func (e *Effects) updateTransaction(ctx context.Context, a UpdateTransaction) []Action {
	if err := e.repo.UpdateTransaction(ctx, a.ID, a.Patch); err != nil {
		return []Action{UpdateTransactionFailure{Err: err}}
	}

	if a.File != nil && a.ID != 0 {
		if err := e.repo.UploadAttachment(ctx, a.ID, *a.File); err != nil {
			logging.FromContext(ctx).Warn().
				Str("component", "pipeline").
				Int64("transaction_id", a.ID).
				Err(err).
				Msg("attachment upload failed after update committed")
			return []Action{UpdateTransactionFailure{Err: err}}
		}
	}

	return []Action{UpdateTransactionSuccess{}}
}

func (e *Effects) deleteTransaction(ctx context.Context, a DeleteTransaction) []Action {
	if err := e.repo.DeleteTransaction(ctx, a.ID); err != nil {
		return []Action{DeleteTransactionFailure{Err: err}}
	}
	return []Action{DeleteTransactionSuccess{}}
}

// reloadCascade is emitted after every successful mutation: refresh the
// balance and snap the statement back to the first page sorted by most
// recent date, whatever the user had been viewing. Trading view
// continuity for guaranteed consistency with the latest server state.
func reloadCascade() []Action {
	return []Action{
		LoadBalance{},
		LoadTransactions{Params: ledger.ListParams{
			Page:  1,
			Limit: config.DefaultPageSize,
			Sort:  config.DefaultSortField,
			Order: config.DefaultSortOrder,
		}},
	}
}
