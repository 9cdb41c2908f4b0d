package store

import (
	"context"
	"sync"

	"github.com/bytebank/ledgerkit/internal/logging"
)

// queueDepth bounds the dispatch queue. Dispatch blocks when the loop
// falls this far behind, which in practice never happens outside tests
// that forget to start the loop.
const queueDepth = 64

// Store owns the two feature states and runs the dispatch loop: a
// single consumer applies every action to the reducers in arrival
// order, then hands it to the effects. Effect tasks run concurrently
// and feed their outcome actions back into the same queue.
//
// There is no deduplication and no cancellation of in-flight tasks: a
// slower, earlier load can complete after a faster, later one and
// overwrite its state. That matches the event-loop host this design
// comes from; callers that care must serialize their own dispatches.
type Store struct {
	effects *Effects
	ctx     context.Context

	queue chan Action
	quit  chan struct{}
	done  chan struct{}

	mu           sync.RWMutex
	transactions TransactionsState
	balance      BalanceState

	subMu   sync.Mutex
	subs    map[int]chan Action
	nextSub int

	tasks sync.WaitGroup
}

// New creates a Store wired to repo and starts its dispatch loop. ctx is
// the base context for all effect work; it carries the logger and is
// deliberately never used for per-request cancellation.
func New(ctx context.Context, repo Repository) *Store {
	s := &Store{
		effects:      NewEffects(repo),
		ctx:          ctx,
		queue:        make(chan Action, queueDepth),
		quit:         make(chan struct{}),
		done:         make(chan struct{}),
		transactions: NewTransactionsState(),
		balance:      NewBalanceState(),
		subs:         make(map[int]chan Action),
	}
	go s.loop()
	return s
}

// Dispatch enqueues an action. Safe to call from any goroutine; calls
// after Close are dropped.
func (s *Store) Dispatch(action Action) {
	select {
	case <-s.quit:
	case s.queue <- action:
	}
}

// Transactions returns a snapshot of the statement state.
func (s *Store) Transactions() TransactionsState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.transactions
}

// Balance returns a snapshot of the balance state.
func (s *Store) Balance() BalanceState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balance
}

// Subscribe registers an observer of every action the loop processes,
// delivered after the reducers ran, so state snapshots taken on receipt
// already include the action. The returned cancel func must be called
// to release the subscription. Slow subscribers lose actions once their
// buffer fills; waiters consume promptly and size the buffer generously.
func (s *Store) Subscribe(buffer int) (<-chan Action, func()) {
	if buffer <= 0 {
		buffer = queueDepth
	}
	ch := make(chan Action, buffer)

	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subMu.Unlock()

	cancel := func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
	return ch, cancel
}

// Close stops the dispatch loop and waits for in-flight effect tasks to
// finish. Outcomes those tasks dispatch after Close are dropped.
func (s *Store) Close() {
	close(s.quit)
	<-s.done
	s.tasks.Wait()
}

// loop is the single consumer: reduce, publish, then run effects.
func (s *Store) loop() {
	defer close(s.done)
	for {
		select {
		case <-s.quit:
			return
		case action := <-s.queue:
			s.process(action)
		}
	}
}

func (s *Store) process(action Action) {
	log := logging.FromContext(s.ctx)
	log.Debug().
		Str("component", "pipeline").
		Str("action", action.ActionName()).
		Msg("processing action")

	s.mu.Lock()
	s.transactions = ReduceTransactions(s.transactions, action)
	s.balance = ReduceBalance(s.balance, action)
	s.mu.Unlock()

	s.publish(action)

	s.tasks.Add(1)
	go func() {
		defer s.tasks.Done()
		for _, out := range s.effects.Handle(s.ctx, action) {
			s.Dispatch(out)
		}
	}()
}

func (s *Store) publish(action Action) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- action:
		default:
			// Subscriber fell behind; it only loses observation, the
			// pipeline itself is unaffected.
		}
	}
}
