package catalog

import (
	"errors"
	"fmt"

	"catalog/internal/config"
	"catalog/internal/domain"
	"catalog/internal/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// validateInput checks the user-editable fields of an instrument body.
// id and userId may be echoed back but must not override the stored values:
// ownerID is the owner the instrument has (or will have), existingID is nil on create.
func validateInput(input *services.InstrumentInput, ownerID string, existingID *int64) error {
	if input == nil {
		return fmt.Errorf("%w: request body is required", domain.ErrValidation)
	}

	var idRule validation.Rule = validation.Nil.Error("must not be set when creating an instrument")
	if existingID != nil {
		idRule = validation.By(matchesIfPresent(*existingID, "must match the instrument id"))
	}

	err := validation.ValidateStruct(input,
		validation.Field(&input.ID, idRule),
		validation.Field(&input.UserID, validation.By(matchesIfPresent(ownerID, "cannot change the instrument owner"))),
		validation.Field(&input.CategoryID, validation.Required, validation.Min(int64(1))),
		validation.Field(&input.Name, validation.Required, validation.Length(1, config.MaxInstrumentNameLength)),
		validation.Field(&input.Summary, validation.NotNil, validation.Length(0, config.MaxInstrumentSummaryLength)),
		validation.Field(&input.Description, validation.NotNil, validation.Length(0, config.MaxInstrumentDescriptionLength)),
		validation.Field(&input.ImageURL, validation.NotNil, validation.Length(0, config.MaxImageURLLength)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}

// matchesIfPresent accepts a nil pointer or a pointer to want
func matchesIfPresent[T comparable](want T, message string) validation.RuleFunc {
	return func(value interface{}) error {
		p, ok := value.(*T)
		if !ok || p == nil {
			return nil
		}
		if *p != want {
			return errors.New(message)
		}
		return nil
	}
}
