package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// DefaultMaxBodySize caps request bodies when the caller passes no limit
const DefaultMaxBodySize int64 = 1 << 20

// ParseJSON decodes a single JSON value from the request body into dest.
// Bodies larger than maxBytes are rejected.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}, maxBytes int64) error {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodySize
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return errors.New("request body is required")
		case errors.As(err, &maxErr):
			return fmt.Errorf("request body exceeds %d bytes", maxErr.Limit)
		default:
			return fmt.Errorf("invalid JSON: %w", err)
		}
	}

	if decoder.More() {
		return errors.New("invalid JSON: unexpected data after the request body")
	}

	return nil
}
