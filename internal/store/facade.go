package store

import (
	"context"

	"github.com/bytebank/ledgerkit/internal/ledger"
)

// Facade wraps the pipeline with synchronous entry points for the CLI
// and TUI: each method dispatches an intent and blocks until its
// terminal outcome arrives. Operations that bypass the pipeline in the
// source design (attachment download, category suggestions) call the
// repository directly.
type Facade struct {
	store *Store
	repo  Repository
}

// NewFacade wires the pipeline and the repository into a Facade.
func NewFacade(s *Store, repo Repository) *Facade {
	return &Facade{store: s, repo: repo}
}

// Store exposes the underlying pipeline, mainly for the TUI which
// subscribes to actions itself.
func (f *Facade) Store() *Store {
	return f.store
}

// Transactions returns the current statement state snapshot.
func (f *Facade) Transactions() TransactionsState {
	return f.store.Transactions()
}

// Balance returns the current balance state snapshot.
func (f *Facade) Balance() BalanceState {
	return f.store.Balance()
}

// LoadTransactions dispatches a statement load and waits for it to
// settle. The returned state is the snapshot after the outcome was
// reduced; the error is the failure outcome's error, if any.
func (f *Facade) LoadTransactions(ctx context.Context, params ledger.ListParams) (TransactionsState, error) {
	sub, cancel := f.store.Subscribe(0)
	defer cancel()

	f.store.Dispatch(LoadTransactions{Params: params})

	for {
		select {
		case <-ctx.Done():
			return f.store.Transactions(), ctx.Err()
		case action := <-sub:
			switch a := action.(type) {
			case LoadTransactionsSuccess:
				return f.store.Transactions(), nil
			case LoadTransactionsFailure:
				return f.store.Transactions(), a.Err
			}
		}
	}
}

// LoadBalance dispatches a balance reload and waits for it to settle.
func (f *Facade) LoadBalance(ctx context.Context) (BalanceState, error) {
	sub, cancel := f.store.Subscribe(0)
	defer cancel()

	f.store.Dispatch(LoadBalance{})

	for {
		select {
		case <-ctx.Done():
			return f.store.Balance(), ctx.Err()
		case action := <-sub:
			switch a := action.(type) {
			case LoadBalanceSuccess:
				return f.store.Balance(), nil
			case LoadBalanceFailure:
				return f.store.Balance(), a.Err
			}
		}
	}
}

// CreateTransaction dispatches a create (with optional attachment) and
// waits for the mutation and its cascading reloads to settle.
func (f *Facade) CreateTransaction(ctx context.Context, tx ledger.Transaction, file *ledger.File) error {
	return f.mutate(ctx, CreateTransaction{Transaction: tx, File: file}, func(a Action) (bool, error) {
		switch out := a.(type) {
		case CreateTransactionSuccess:
			return true, nil
		case CreateTransactionFailure:
			return true, out.Err
		}
		return false, nil
	})
}

// UpdateTransaction dispatches an update (with optional attachment) and
// waits for the mutation and its cascading reloads to settle.
func (f *Facade) UpdateTransaction(ctx context.Context, id int64, patch ledger.TransactionPatch, file *ledger.File) error {
	return f.mutate(ctx, UpdateTransaction{ID: id, Patch: patch, File: file}, func(a Action) (bool, error) {
		switch out := a.(type) {
		case UpdateTransactionSuccess:
			return true, nil
		case UpdateTransactionFailure:
			return true, out.Err
		}
		return false, nil
	})
}

// DeleteTransaction dispatches a delete and waits for the mutation and
// its cascading reloads to settle.
func (f *Facade) DeleteTransaction(ctx context.Context, id int64) error {
	return f.mutate(ctx, DeleteTransaction{ID: id}, func(a Action) (bool, error) {
		switch out := a.(type) {
		case DeleteTransactionSuccess:
			return true, nil
		case DeleteTransactionFailure:
			return true, out.Err
		}
		return false, nil
	})
}

// DownloadAttachment fetches an attachment's bytes straight from the
// repository; downloads never flow through the pipeline.
func (f *Facade) DownloadAttachment(ctx context.Context, filename string) ([]byte, error) {
	return f.repo.DownloadAttachment(ctx, filename)
}

// CategorySuggestions fetches category suggestions straight from the
// repository.
func (f *Facade) CategorySuggestions(
	ctx context.Context,
	description string,
	txType ledger.TransactionType,
) ([]string, error) {
	return f.repo.GetCategorySuggestions(ctx, description, txType)
}

// mutate dispatches intent, waits for its terminal outcome via done,
// and on success additionally waits for the two cascading reloads to
// settle so callers observe the refreshed state.
func (f *Facade) mutate(ctx context.Context, intent Action, done func(Action) (bool, error)) error {
	sub, cancel := f.store.Subscribe(0)
	defer cancel()

	f.store.Dispatch(intent)

	var mutationErr error
	settled := false
	for !settled {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case action := <-sub:
			var ok bool
			ok, mutationErr = done(action)
			settled = ok
		}
	}
	if mutationErr != nil {
		return mutationErr
	}

	// The cascade always emits one balance reload and one statement
	// reload; wait for each to reach a terminal outcome.
	balanceSettled, listSettled := false, false
	for !balanceSettled || !listSettled {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case action := <-sub:
			switch action.(type) {
			case LoadBalanceSuccess, LoadBalanceFailure:
				balanceSettled = true
			case LoadTransactionsSuccess, LoadTransactionsFailure:
				listSettled = true
			}
		}
	}
	return nil
}
