package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"catalog/internal/domain"
	"catalog/internal/domain/models"
	"catalog/internal/domain/repositories"
	"catalog/internal/domain/services"
)

// instrumentService implements the InstrumentService interface
type instrumentService struct {
	instrumentRepo repositories.InstrumentRepository
	categoryRepo   repositories.CategoryRepository
	userRepo       repositories.UserRepository
	txManager      repositories.TransactionManager
	authorizer     services.ResourceAuthorizer
	logger         *slog.Logger
}

// NewInstrumentService creates a new instrument service
func NewInstrumentService(
	instrumentRepo repositories.InstrumentRepository,
	categoryRepo repositories.CategoryRepository,
	userRepo repositories.UserRepository,
	txManager repositories.TransactionManager,
	authorizer services.ResourceAuthorizer,
	logger *slog.Logger,
) services.InstrumentService {
	return &instrumentService{
		instrumentRepo: instrumentRepo,
		categoryRepo:   categoryRepo,
		userRepo:       userRepo,
		txManager:      txManager,
		authorizer:     authorizer,
		logger:         logger,
	}
}

func (s *instrumentService) ListInstruments(ctx context.Context) ([]models.Instrument, error) {
	return s.instrumentRepo.List(ctx)
}

// ListInstrumentsByCategory distinguishes a missing category (ErrNotFound)
// from an empty one (empty slice)
func (s *instrumentService) ListInstrumentsByCategory(ctx context.Context, categoryID int64) ([]models.Instrument, error) {
	exists, err := s.categoryRepo.Exists(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.NotFoundf("no category found with id: %d", categoryID)
	}
	return s.instrumentRepo.ListByCategory(ctx, categoryID)
}

func (s *instrumentService) GetInstrument(ctx context.Context, id int64) (*models.Instrument, error) {
	return s.instrumentRepo.GetByID(ctx, id)
}

// CreateInstrument inserts an instrument owned by identity. The owner's user
// row and the instrument are written in one transaction so a failure cannot
// leave an instrument pointing at a missing user.
func (s *instrumentService) CreateInstrument(ctx context.Context, identity models.Identity, input *services.InstrumentInput) (*models.Instrument, error) {
	if err := validateInput(input, identity.ID, nil); err != nil {
		return nil, err
	}
	if err := s.requireCategory(ctx, *input.CategoryID); err != nil {
		return nil, err
	}

	instrument := &models.Instrument{UserID: identity.ID}
	applyInput(instrument, input)

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.userRepo.EnsureExists(txCtx, identity.ID); err != nil {
			return err
		}
		return s.instrumentRepo.Create(txCtx, instrument)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("instrument created",
		"id", instrument.ID,
		"name", instrument.Name,
		"user_id", instrument.UserID,
	)

	return instrument, nil
}

func (s *instrumentService) GetModifiableInstrument(ctx context.Context, identity models.Identity, id int64) (*models.Instrument, error) {
	instrument, err := s.instrumentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizer.CanModify(identity, instrument); err != nil {
		return nil, err
	}
	return instrument, nil
}

// UpdateInstrument keeps the original id and owner, so an admin editing
// someone else's instrument does not take it over
func (s *instrumentService) UpdateInstrument(ctx context.Context, existing *models.Instrument, input *services.InstrumentInput) (*models.Instrument, error) {
	if err := validateInput(input, existing.UserID, &existing.ID); err != nil {
		return nil, err
	}
	if err := s.requireCategory(ctx, *input.CategoryID); err != nil {
		return nil, err
	}

	updated := &models.Instrument{ID: existing.ID, UserID: existing.UserID}
	applyInput(updated, input)

	if err := s.instrumentRepo.Update(ctx, updated); err != nil {
		return nil, err
	}

	s.logger.Info("instrument updated",
		"id", updated.ID,
		"user_id", updated.UserID,
	)

	return updated, nil
}

// DeleteInstrument treats a missing instrument as already deleted
func (s *instrumentService) DeleteInstrument(ctx context.Context, identity models.Identity, id int64) error {
	instrument, err := s.instrumentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}

	if err := s.authorizer.CanModify(identity, instrument); err != nil {
		return err
	}

	if err := s.instrumentRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("instrument deleted",
		"id", id,
		"deleted_by", identity.ID,
		"admin", identity.IsAdmin,
	)

	return nil
}

// requireCategory is a separate existence check because the category
// reference is not enforced by every storage backend
func (s *instrumentService) requireCategory(ctx context.Context, categoryID int64) error {
	exists, err := s.categoryRepo.Exists(ctx, categoryID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: unknown categoryId: %d", domain.ErrValidation, categoryID)
	}
	return nil
}

// applyInput copies the editable fields; input must already be validated
func applyInput(instrument *models.Instrument, input *services.InstrumentInput) {
	instrument.CategoryID = *input.CategoryID
	instrument.Name = *input.Name
	instrument.Summary = *input.Summary
	instrument.Description = *input.Description
	instrument.ImageURL = *input.ImageURL
}
