// Package memory is an in-process storage backend. Units of work are
// optimistic: writes are buffered per Tx and validated on Commit, where a
// goal whose version moved on since it was read, or a transaction row that
// changed after this Tx locked it, fails with apperr.ErrConcurrentUpdateConflict.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/apperr"
	"github.com/carson-networks/ledger-server/internal/storage/budget"
	"github.com/carson-networks/ledger-server/internal/storage/goal"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
	"github.com/carson-networks/ledger-server/internal/storage/user"
)

var errTxClosed = errors.New("memory: transaction already closed")

type tables struct {
	users        map[uuid.UUID]*user.User
	transactions map[uuid.UUID]*transaction.Transaction
	goals        map[uuid.UUID]*goal.Goal
	budgets      map[uuid.UUID]*budget.Budget
}

func newTables() tables {
	return tables{
		users:        make(map[uuid.UUID]*user.User),
		transactions: make(map[uuid.UUID]*transaction.Transaction),
		goals:        make(map[uuid.UUID]*goal.Goal),
		budgets:      make(map[uuid.UUID]*budget.Budget),
	}
}

type Store struct {
	mu        sync.RWMutex
	committed tables
}

func NewStore() *Store {
	return &Store{committed: newTables()}
}

// Begin starts a unit of work. A Tx is not safe for concurrent use.
func (s *Store) Begin() *Tx {
	return &Tx{
		store:        s,
		overlay:      newTables(),
		goalVersions: make(map[uuid.UUID]int64),
		txLocks:      make(map[uuid.UUID]*transaction.Transaction),
	}
}

// Tx buffers writes on top of the committed state. A nil overlay entry marks a deletion.
type Tx struct {
	store        *Store
	overlay      tables
	goalVersions map[uuid.UUID]int64
	// txLocks holds the committed row each locked transaction was read from,
	// nil when it did not exist. Committed rows are replaced, never mutated.
	txLocks map[uuid.UUID]*transaction.Transaction
	closed  bool
}

func (tx *Tx) Transactions() transaction.IWriter { return &transactionTable{tx: tx} }
func (tx *Tx) Goals() goal.IWriter               { return &goalTable{tx: tx} }
func (tx *Tx) Budgets() budget.IWriter           { return &budgetTable{tx: tx} }
func (tx *Tx) Users() user.IWriter               { return &userTable{tx: tx} }

func (tx *Tx) Rollback(_ context.Context) error {
	if tx.closed {
		return errTxClosed
	}
	tx.closed = true
	return nil
}

func (tx *Tx) Commit(_ context.Context) error {
	if tx.closed {
		return errTxClosed
	}
	tx.closed = true

	s := tx.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, expected := range tx.goalVersions {
		current, ok := s.committed.goals[id]
		if !ok || current.Version != expected {
			return apperr.ErrConcurrentUpdateConflict
		}
	}
	for id, seen := range tx.txLocks {
		if s.committed.transactions[id] != seen {
			return apperr.ErrConcurrentUpdateConflict
		}
	}

	for id, pending := range tx.overlay.budgets {
		if pending == nil {
			continue
		}
		for otherID, other := range s.committed.budgets {
			if otherID == id {
				continue
			}
			if _, touched := tx.overlay.budgets[otherID]; touched {
				continue
			}
			if budget.SamePeriod(pending, other) {
				return apperr.ErrDuplicateBudget
			}
		}
	}

	apply(s.committed.users, tx.overlay.users)
	apply(s.committed.goals, tx.overlay.goals)
	apply(s.committed.budgets, tx.overlay.budgets)
	apply(s.committed.transactions, tx.overlay.transactions)

	// Links to goals that no longer exist are cleared, like ON DELETE SET NULL.
	for id := range tx.overlay.transactions {
		t, ok := s.committed.transactions[id]
		if !ok || !t.GoalID.Valid {
			continue
		}
		if _, exists := s.committed.goals[t.GoalID.UUID]; !exists {
			unlinked := *t
			unlinked.GoalID = uuid.NullUUID{}
			s.committed.transactions[id] = &unlinked
		}
	}
	return nil
}

func apply[T any](committed, overlay map[uuid.UUID]*T) {
	for id, v := range overlay {
		if v == nil {
			delete(committed, id)
			continue
		}
		committed[id] = v
	}
}

// lookup returns a copy of the visible record with the given id.
func lookup[T any](tx *Tx, overlay, committed map[uuid.UUID]*T, id uuid.UUID) (*T, bool) {
	if v, ok := overlay[id]; ok {
		if v == nil {
			return nil, false
		}
		c := *v
		return &c, true
	}

	tx.store.mu.RLock()
	defer tx.store.mu.RUnlock()
	v, ok := committed[id]
	if !ok {
		return nil, false
	}
	c := *v
	return &c, true
}

// visible returns copies of every record the Tx can see.
func visible[T any](tx *Tx, overlay, committed map[uuid.UUID]*T) []*T {
	tx.store.mu.RLock()
	defer tx.store.mu.RUnlock()

	result := make([]*T, 0, len(committed)+len(overlay))
	for id, v := range committed {
		if _, touched := overlay[id]; touched {
			continue
		}
		c := *v
		result = append(result, &c)
	}
	for _, v := range overlay {
		if v == nil {
			continue
		}
		c := *v
		result = append(result, &c)
	}
	return result
}

// lockTransaction remembers the committed row behind id the first time this
// Tx reads it for writing. Rows the Tx created itself need no lock.
func (tx *Tx) lockTransaction(id uuid.UUID) {
	if _, locked := tx.txLocks[id]; locked {
		return
	}
	if _, own := tx.overlay.transactions[id]; own {
		return
	}
	tx.store.mu.RLock()
	defer tx.store.mu.RUnlock()
	tx.txLocks[id] = tx.store.committed.transactions[id]
}

func (tx *Tx) writable() error {
	if tx.closed {
		return errTxClosed
	}
	return nil
}

func now() time.Time {
	return time.Now().UTC()
}
