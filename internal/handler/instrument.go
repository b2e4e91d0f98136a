package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"catalog/internal/auth"
	"catalog/internal/domain"
	"catalog/internal/domain/models"
	"catalog/internal/domain/services"
	"catalog/internal/httputil"
)

// InstrumentHandler handles instrument HTTP requests
type InstrumentHandler struct {
	instrumentService services.InstrumentService
	resolver          auth.Resolver
	maxBodySize       int64
	logger            *slog.Logger
}

// NewInstrumentHandler creates a new instrument handler
func NewInstrumentHandler(instrumentService services.InstrumentService, resolver auth.Resolver, maxBodySize int64, logger *slog.Logger) *InstrumentHandler {
	return &InstrumentHandler{
		instrumentService: instrumentService,
		resolver:          resolver,
		maxBodySize:       maxBodySize,
		logger:            logger,
	}
}

type instrumentsResponse struct {
	Instruments []models.Instrument `json:"instruments"`
}

// ListInstruments returns every instrument
// GET /instruments/all
func (h *InstrumentHandler) ListInstruments(w http.ResponseWriter, r *http.Request) {
	instruments, err := h.instrumentService.ListInstruments(r.Context())
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, instrumentsResponse{Instruments: instruments})
}

// ListInstrumentsByCategory requires exactly one integer cat parameter
// GET /instruments?cat={categoryId}
func (h *InstrumentHandler) ListInstrumentsByCategory(w http.ResponseWriter, r *http.Request) {
	values, present := r.URL.Query()["cat"]
	if !present {
		httputil.RespondError(w, http.StatusBadRequest, `Endpoint requires an instrument ID, category ID or "/all".`)
		return
	}
	if len(values) != 1 {
		httputil.RespondError(w, http.StatusBadRequest, "Category ID must be an integer")
		return
	}

	categoryID, err := parseID(values[0], "Category ID must be an integer")
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	instruments, err := h.instrumentService.ListInstrumentsByCategory(r.Context(), categoryID)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, instrumentsResponse{Instruments: instruments})
}

// GetInstrument returns one instrument
// GET /instruments/{id}
func (h *InstrumentHandler) GetInstrument(w http.ResponseWriter, r *http.Request) {
	id, err := parseInstrumentID(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	instrument, err := h.instrumentService.GetInstrument(r.Context(), id)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, instrument)
}

// CreateInstrument creates an instrument owned by the caller
// POST /instruments
func (h *InstrumentHandler) CreateInstrument(w http.ResponseWriter, r *http.Request) {
	identity, err := requireIdentity(r, h.resolver)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	input, err := h.parseInput(w, r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	instrument, err := h.instrumentService.CreateInstrument(r.Context(), identity, input)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, instrument)
}

// UpdateInstrument replaces the editable fields of an instrument
// PUT /instruments/{id}
func (h *InstrumentHandler) UpdateInstrument(w http.ResponseWriter, r *http.Request) {
	id, err := parseInstrumentID(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	identity, err := requireIdentity(r, h.resolver)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	// 404 and 403 take precedence over a bad body
	existing, err := h.instrumentService.GetModifiableInstrument(r.Context(), identity, id)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	input, err := h.parseInput(w, r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	updated, err := h.instrumentService.UpdateInstrument(r.Context(), existing, input)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, updated)
}

// DeleteInstrument removes an instrument; deleting a missing one succeeds
// DELETE /instruments/{id}
func (h *InstrumentHandler) DeleteInstrument(w http.ResponseWriter, r *http.Request) {
	id, err := parseInstrumentID(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	identity, err := requireIdentity(r, h.resolver)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	if err := h.instrumentService.DeleteInstrument(r.Context(), identity, id); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondNoContent(w)
}

func (h *InstrumentHandler) parseInput(w http.ResponseWriter, r *http.Request) (*services.InstrumentInput, error) {
	var input services.InstrumentInput
	if err := httputil.ParseJSON(w, r, &input, h.maxBodySize); err != nil {
		return nil, fmt.Errorf("%w: Invalid request body: %v", domain.ErrValidation, err)
	}
	return &input, nil
}
