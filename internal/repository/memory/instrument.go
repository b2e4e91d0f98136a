package memory

import (
	"context"
	"fmt"

	"catalog/internal/domain"
	"catalog/internal/domain/models"
)

// InstrumentRepository implements repositories.InstrumentRepository.
// Like the Postgres schema it requires the owning user row to exist; the
// category reference is deliberately not enforced.
type InstrumentRepository struct {
	store *Store
}

func (r *InstrumentRepository) List(ctx context.Context) ([]models.Instrument, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return sortedInstruments(r.store.instruments, nil), nil
}

func (r *InstrumentRepository) ListByCategory(ctx context.Context, categoryID int64) ([]models.Instrument, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return sortedInstruments(r.store.instruments, func(i models.Instrument) bool {
		return i.CategoryID == categoryID
	}), nil
}

func (r *InstrumentRepository) GetByID(ctx context.Context, id int64) (*models.Instrument, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	inst, ok := r.store.instruments[id]
	if !ok {
		return nil, domain.NotFoundf("no instrument found with id: %d", id)
	}
	return &inst, nil
}

func (r *InstrumentRepository) FindByOwnerAndName(ctx context.Context, userID, name string) (*models.Instrument, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, inst := range sortedInstruments(r.store.instruments, nil) {
		if inst.UserID == userID && inst.Name == name {
			return &inst, nil
		}
	}
	return nil, domain.NotFoundf("no instrument %q owned by %s", name, userID)
}

func (r *InstrumentRepository) Create(ctx context.Context, instrument *models.Instrument) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[instrument.UserID]; !ok {
		return fmt.Errorf("create instrument: user %s does not exist", instrument.UserID)
	}

	instrument.ID = r.store.nextInstrumentID
	r.store.nextInstrumentID++
	undoFromContext(ctx).touchInstrument(r.store, instrument.ID)
	r.store.instruments[instrument.ID] = *instrument
	return nil
}

func (r *InstrumentRepository) Update(ctx context.Context, instrument *models.Instrument) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.instruments[instrument.ID]
	if !ok {
		return domain.NotFoundf("no instrument found with id: %d", instrument.ID)
	}

	undoFromContext(ctx).touchInstrument(r.store, instrument.ID)
	existing.CategoryID = instrument.CategoryID
	existing.Name = instrument.Name
	existing.Summary = instrument.Summary
	existing.Description = instrument.Description
	existing.ImageURL = instrument.ImageURL
	r.store.instruments[instrument.ID] = existing

	*instrument = existing
	return nil
}

func (r *InstrumentRepository) Delete(ctx context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	undoFromContext(ctx).touchInstrument(r.store, id)
	delete(r.store.instruments, id)
	return nil
}
