// Package memory is an in-process implementation of the repository interfaces.
// It backs local development without Postgres and the service/handler tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"catalog/internal/domain/models"
	"catalog/internal/domain/repositories"
)

// Store holds all tables behind one RWMutex
type Store struct {
	mu               sync.RWMutex
	categories       map[int64]models.Category
	instruments      map[int64]models.Instrument
	users            map[string]models.User
	nextCategoryID   int64
	nextInstrumentID int64

	// txMu serializes ExecTx calls
	txMu sync.Mutex
}

// NewStore creates an empty store
func NewStore() *Store {
	s := &Store{}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.categories = make(map[int64]models.Category)
	s.instruments = make(map[int64]models.Instrument)
	s.users = make(map[string]models.User)
	s.nextCategoryID = 1
	s.nextInstrumentID = 1
}

// Repositories returns every repository backed by this store
func (s *Store) Repositories() repositories.Set {
	return repositories.Set{
		Categories:  &CategoryRepository{store: s},
		Instruments: &InstrumentRepository{store: s},
		Users:       &UserRepository{store: s},
		Maintenance: &MaintenanceRepository{store: s},
		TxManager:   &TransactionManager{store: s},
	}
}

// MaintenanceRepository implements repositories.MaintenanceRepository
type MaintenanceRepository struct {
	store *Store
}

// TruncateAll empties the store and restarts id sequences at 1
func (r *MaintenanceRepository) TruncateAll(ctx context.Context) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if log := undoFromContext(ctx); log != nil {
		for id := range r.store.categories {
			log.touchCategory(r.store, id)
		}
		for id := range r.store.instruments {
			log.touchInstrument(r.store, id)
		}
		for id := range r.store.users {
			log.touchUser(r.store, id)
		}
	}
	r.store.reset()
	return nil
}

// UserRepository implements repositories.UserRepository
type UserRepository struct {
	store *Store
}

func (r *UserRepository) EnsureExists(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.users[id]; !ok {
		undoFromContext(ctx).touchUser(r.store, id)
		r.store.users[id] = models.User{ID: id}
	}
	return nil
}

func sortedInstruments(m map[int64]models.Instrument, keep func(models.Instrument) bool) []models.Instrument {
	out := []models.Instrument{}
	for _, inst := range m {
		if keep == nil || keep(inst) {
			out = append(out, inst)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}
