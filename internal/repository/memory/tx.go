package memory

import (
	"context"

	"catalog/internal/domain/models"
	"catalog/internal/domain/repositories"
)

type undoKey struct{}

// undoLog records the value each key had before a transaction first wrote it.
// A nil entry means the key did not exist.
type undoLog struct {
	categories  map[int64]*models.Category
	instruments map[int64]*models.Instrument
	users       map[string]*models.User
}

func newUndoLog() *undoLog {
	return &undoLog{
		categories:  make(map[int64]*models.Category),
		instruments: make(map[int64]*models.Instrument),
		users:       make(map[string]*models.User),
	}
}

func undoFromContext(ctx context.Context) *undoLog {
	log, _ := ctx.Value(undoKey{}).(*undoLog)
	return log
}

// touch* methods must be called with store.mu held, before the write.
// They are no-ops outside a transaction.

func (u *undoLog) touchCategory(s *Store, id int64) {
	if u == nil {
		return
	}
	if _, seen := u.categories[id]; seen {
		return
	}
	if c, ok := s.categories[id]; ok {
		u.categories[id] = &c
		return
	}
	u.categories[id] = nil
}

func (u *undoLog) touchInstrument(s *Store, id int64) {
	if u == nil {
		return
	}
	if _, seen := u.instruments[id]; seen {
		return
	}
	if inst, ok := s.instruments[id]; ok {
		u.instruments[id] = &inst
		return
	}
	u.instruments[id] = nil
}

func (u *undoLog) touchUser(s *Store, id string) {
	if u == nil {
		return
	}
	if _, seen := u.users[id]; seen {
		return
	}
	if user, ok := s.users[id]; ok {
		u.users[id] = &user
		return
	}
	u.users[id] = nil
}

// rollback puts back the keys the transaction wrote. Rows it never touched,
// including ones written concurrently outside it, are left alone. Id
// sequences are not rewound, like Postgres sequences.
func (u *undoLog) rollback(s *Store) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, prev := range u.categories {
		if prev == nil {
			delete(s.categories, id)
		} else {
			s.categories[id] = *prev
		}
	}
	for id, prev := range u.instruments {
		if prev == nil {
			delete(s.instruments, id)
		} else {
			s.instruments[id] = *prev
		}
	}
	for id, prev := range u.users {
		if prev == nil {
			delete(s.users, id)
		} else {
			s.users[id] = *prev
		}
	}
}

// TransactionManager gives all-or-nothing semantics by undoing the writes
// made through the transaction's context when the unit of work fails
type TransactionManager struct {
	store *Store
}

func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	// Nested calls join the enclosing transaction
	if undoFromContext(ctx) != nil {
		return fn(ctx)
	}

	tm.store.txMu.Lock()
	defer tm.store.txMu.Unlock()

	log := newUndoLog()
	if err := fn(context.WithValue(ctx, undoKey{}, log)); err != nil {
		log.rollback(tm.store)
		return err
	}
	return nil
}
