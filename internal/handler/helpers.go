package handler

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"

	"catalog/internal/auth"
	"catalog/internal/domain"
	"catalog/internal/domain/models"
)

// idPattern accepts unsigned decimal integers only
var idPattern = regexp.MustCompile(`^[0-9]+$`)

// noSuchID stands in for well-formed ids too large for int64.
// Sequences start at 1, so it never matches a row.
const noSuchID int64 = 0

// parseID validates an integer path or query value. Digit strings that
// overflow int64 are well formed but cannot name a row, so they map to
// noSuchID and the lookup reports not found.
func parseID(raw, message string) (int64, error) {
	if !idPattern.MatchString(raw) {
		return 0, fmt.Errorf("%w: %s", domain.ErrValidation, message)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		return noSuchID, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %s", domain.ErrValidation, message)
	}
	return id, nil
}

// parseInstrumentID reads the {id} path value
func parseInstrumentID(r *http.Request) (int64, error) {
	return parseID(r.PathValue("id"), "Instrument ID must be an integer.")
}

// requireIdentity resolves the caller from the Authorization header
func requireIdentity(r *http.Request, resolver auth.Resolver) (models.Identity, error) {
	return resolver.Resolve(r.Context(), r.Header.Get("Authorization"))
}
