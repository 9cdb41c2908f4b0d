package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytebank/ledgerkit/internal/ledger"
)

// backend simulates a server holding a sorted statement, so cascade
// reloads observe mutations the way a real API would.
type backend struct {
	mu      sync.Mutex
	items   []ledger.Transaction
	nextID  int64
	balance float64
}

func newBackend(items ...ledger.Transaction) *backend {
	b := &backend{items: items, nextID: 100}
	for _, tx := range items {
		b.balance += tx.Signed()
	}
	return b
}

func (b *backend) ListTransactions(_ context.Context, params ledger.ListParams) (*ledger.PagedResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	start := (params.Page - 1) * params.Limit
	end := start + params.Limit
	if start > len(b.items) {
		start = len(b.items)
	}
	if end > len(b.items) {
		end = len(b.items)
	}
	page := append([]ledger.Transaction(nil), b.items[start:end]...)
	return &ledger.PagedResult{
		Items:      page,
		Pagination: ledger.Pagination{TotalItems: len(b.items), Page: params.Page, Limit: params.Limit},
	}, nil
}

func (b *backend) CreateTransaction(_ context.Context, tx ledger.Transaction) (*ledger.Transaction, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	tx.ID = b.nextID
	b.nextID++
	b.items = append([]ledger.Transaction{tx}, b.items...)
	b.balance += tx.Signed()
	return &tx, nil
}

func (b *backend) UpdateTransaction(_ context.Context, id int64, patch ledger.TransactionPatch) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.items {
		if b.items[i].ID == id {
			if patch.Description != nil {
				b.items[i].Description = *patch.Description
			}
			if patch.Amount != nil {
				b.balance -= b.items[i].Signed()
				b.items[i].Amount = *patch.Amount
				b.balance += b.items[i].Signed()
			}
			return nil
		}
	}
	return errors.New("transaction not found")
}

func (b *backend) DeleteTransaction(_ context.Context, id int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.items {
		if b.items[i].ID == id {
			b.balance -= b.items[i].Signed()
			b.items = append(b.items[:i], b.items[i+1:]...)
			return nil
		}
	}
	return errors.New("transaction not found")
}

func (b *backend) UploadAttachment(_ context.Context, _ int64, _ ledger.File) error {
	return nil
}

func (b *backend) DownloadAttachment(_ context.Context, _ string) ([]byte, error) {
	return []byte("bytes"), nil
}

func (b *backend) GetBalance(_ context.Context) (float64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balance, nil
}

func (b *backend) GetCategorySuggestions(_ context.Context, _ string, _ ledger.TransactionType) ([]string, error) {
	return []string{"transport"}, nil
}

func seven() []ledger.Transaction {
	items := make([]ledger.Transaction, 7)
	for i := range items {
		items[i] = ledger.Transaction{
			ID:          int64(i + 1),
			Type:        ledger.TypeExpense,
			Amount:      float64(10 * (i + 1)),
			Date:        time.Date(2024, 2, 20-i, 0, 0, 0, 0, time.UTC),
			Description: "item",
		}
	}
	return items
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestFacadeLoadSecondPage(t *testing.T) {
	ctx := testContext(t)
	s := New(ctx, newBackend(seven()...))
	defer s.Close()
	f := NewFacade(s, nil)

	state, err := f.LoadTransactions(ctx, ledger.ListParams{
		Page: 2, Limit: 5, Sort: "amount", Order: "asc",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, state.Status)
	assert.Equal(t, 2, state.CurrentPage)
	assert.Equal(t, 5, state.PageSize)
	assert.Equal(t, 7, state.TotalItems)
	require.Len(t, state.Transactions, 2, "page 2 of 7 items at limit 5 holds the remainder")
	assert.Equal(t, int64(6), state.Transactions[0].ID)
}

func TestFacadeLoadFailureSurfacesError(t *testing.T) {
	ctx := testContext(t)
	listErr := errors.New("statement unavailable")
	repo := &fakeRepo{listFn: func(ledger.ListParams) (*ledger.PagedResult, error) {
		return nil, listErr
	}}
	s := New(ctx, repo)
	defer s.Close()
	f := NewFacade(s, repo)

	state, err := f.LoadTransactions(ctx, ledger.ListParams{Page: 1, Limit: 10})
	assert.ErrorIs(t, err, listErr)
	assert.Equal(t, StatusError, state.Status)
	assert.ErrorIs(t, state.Err, listErr)
}

func TestFacadeLoadBalance(t *testing.T) {
	ctx := testContext(t)
	b := newBackend(ledger.Transaction{ID: 1, Type: ledger.TypeIncome, Amount: 300})
	s := New(ctx, b)
	defer s.Close()
	f := NewFacade(s, b)

	state, err := f.LoadBalance(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, state.Status)
	assert.InDelta(t, 300, state.Amount, 0.0001)
}

func TestFacadeCreateCascades(t *testing.T) {
	ctx := testContext(t)
	b := newBackend(seven()...)
	s := New(ctx, b)
	defer s.Close()
	f := NewFacade(s, b)

	err := f.CreateTransaction(ctx, ledger.Transaction{
		Type:        ledger.TypeIncome,
		Amount:      500,
		Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Description: "salary",
	}, nil)
	require.NoError(t, err)

	// The cascade reset the visible statement to the first default page
	// and refreshed the balance, both reflecting the new transaction.
	txState := f.Transactions()
	assert.Equal(t, StatusSuccess, txState.Status)
	assert.Equal(t, 1, txState.CurrentPage)
	assert.Equal(t, 10, txState.PageSize)
	assert.Equal(t, 8, txState.TotalItems)
	require.NotEmpty(t, txState.Transactions)
	assert.Equal(t, "salary", txState.Transactions[0].Description)

	balState := f.Balance()
	assert.Equal(t, StatusSuccess, balState.Status)
	assert.InDelta(t, 500-280, balState.Amount, 0.0001)
}

func TestFacadeDeleteCascades(t *testing.T) {
	ctx := testContext(t)
	b := newBackend(seven()...)
	s := New(ctx, b)
	defer s.Close()
	f := NewFacade(s, b)

	require.NoError(t, f.DeleteTransaction(ctx, 7))

	txState := f.Transactions()
	assert.Equal(t, 6, txState.TotalItems)
	assert.InDelta(t, -210, f.Balance().Amount, 0.0001)
}

func TestFacadeMutationFailureSkipsCascade(t *testing.T) {
	ctx := testContext(t)
	b := newBackend(seven()...)
	s := New(ctx, b)
	defer s.Close()
	f := NewFacade(s, b)

	err := f.DeleteTransaction(ctx, 999)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	// No reload was triggered, so the statement state is untouched.
	assert.Equal(t, StatusPending, f.Transactions().Status)
	assert.Equal(t, StatusPending, f.Balance().Status)
}

func TestFacadeUpdateCascades(t *testing.T) {
	ctx := testContext(t)
	b := newBackend(seven()...)
	s := New(ctx, b)
	defer s.Close()
	f := NewFacade(s, b)

	amount := 1000.0
	require.NoError(t, f.UpdateTransaction(ctx, 1, ledger.TransactionPatch{Amount: &amount}, nil))

	// Item 1 went from -10 to -1000.
	assert.InDelta(t, -1270, f.Balance().Amount, 0.0001)
}

func TestFacadeDirectRepositoryCalls(t *testing.T) {
	ctx := testContext(t)
	b := newBackend()
	s := New(ctx, b)
	defer s.Close()
	f := NewFacade(s, b)

	content, err := f.DownloadAttachment(ctx, "a.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("bytes"), content)

	suggestions, err := f.CategorySuggestions(ctx, "uber", ledger.TypeExpense)
	require.NoError(t, err)
	assert.Equal(t, []string{"transport"}, suggestions)
}

func TestStoreSubscribePublishesAfterReduce(t *testing.T) {
	ctx := testContext(t)
	repo := &fakeRepo{listFn: func(ledger.ListParams) (*ledger.PagedResult, error) {
		return &ledger.PagedResult{Pagination: ledger.Pagination{TotalItems: 3}}, nil
	}}
	s := New(ctx, repo)
	defer s.Close()

	sub, cancel := s.Subscribe(8)
	defer cancel()

	s.Dispatch(LoadTransactions{Params: ledger.ListParams{Page: 1, Limit: 10}})

	deadline := time.After(5 * time.Second)
	for {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for success action")
		case action := <-sub:
			if _, ok := action.(LoadTransactionsSuccess); !ok {
				continue
			}
			// The snapshot taken on receipt already reflects the action.
			assert.Equal(t, 3, s.Transactions().TotalItems)
			return
		}
	}
}

func TestStoreCloseIsIdempotentForDispatch(t *testing.T) {
	ctx := testContext(t)
	s := New(ctx, newBackend())
	s.Close()

	// Dispatch after Close must not block or panic.
	done := make(chan struct{})
	go func() {
		s.Dispatch(LoadBalance{})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Dispatch blocked after Close")
	}
}
