package handler

import (
	"net/http"

	"catalog/internal/httputil"
)

// Handlers groups the handlers mounted by NewRouter
type Handlers struct {
	Health     *HealthHandler
	Category   *CategoryHandler
	Instrument *InstrumentHandler
}

// NewRouter registers every route on a ServeMux. Requests no route accepts
// get the mux's 404 or 405 status with a JSON error body.
func NewRouter(h Handlers) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.Health.HealthCheck)

	mux.HandleFunc("GET /categories/all", h.Category.ListCategories)
	mux.HandleFunc("GET /categories/{slug}", h.Category.GetCategory)

	mux.HandleFunc("GET /instruments/all", h.Instrument.ListInstruments)
	mux.HandleFunc("GET /instruments", h.Instrument.ListInstrumentsByCategory)
	mux.HandleFunc("POST /instruments", h.Instrument.CreateInstrument)
	mux.HandleFunc("GET /instruments/{id}", h.Instrument.GetInstrument)
	mux.HandleFunc("PUT /instruments/{id}", h.Instrument.UpdateInstrument)
	mux.HandleFunc("DELETE /instruments/{id}", h.Instrument.DeleteInstrument)

	return jsonFallback(mux)
}

func jsonFallback(mux *http.ServeMux) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, pattern := mux.Handler(r)
		if pattern != "" {
			mux.ServeHTTP(w, r)
			return
		}

		// Let the mux decide between 404 and 405 (and set Allow), then
		// replace its plain text body
		rec := &statusRecorder{header: make(http.Header), status: http.StatusNotFound}
		h.ServeHTTP(rec, r)

		if rec.status == http.StatusMethodNotAllowed {
			if allow := rec.header.Get("Allow"); allow != "" {
				w.Header().Set("Allow", allow)
			}
			httputil.RespondError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		httputil.RespondError(w, http.StatusNotFound, "Not found")
	})
}

// statusRecorder keeps the status and headers a handler sets and drops the body
type statusRecorder struct {
	header http.Header
	status int
}

func (s *statusRecorder) Header() http.Header         { return s.header }
func (s *statusRecorder) Write(b []byte) (int, error) { return len(b), nil }
func (s *statusRecorder) WriteHeader(status int)      { s.status = status }
