package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/hammamikhairi/fatfit/internal/domain"
	"github.com/hammamikhairi/fatfit/internal/tracker"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decode reads a JSON body into v. Any failure is domain.ErrInvalidInput.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty request body", domain.ErrInvalidInput)
		}
		return fmt.Errorf("%w: malformed JSON: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

// upstream selects the status a ProviderError maps to on a route.
type upstream int

const (
	upstreamSearch upstream = iota // 500
	upstreamAI                     // 502
)

// fail maps an error to a status and a JSON body. Server-side failures are
// logged and their details withheld.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, up upstream) {
	var pe *domain.ProviderError
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrAlreadyExists):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.Is(err, tracker.ErrNotConfigured):
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: err.Error()})
	case errors.As(err, &pe):
		s.log.Error("%s %s: %v", r.Method, r.URL.Path, err)
		status := http.StatusInternalServerError
		msg := "Server error contacting FatSecret API"
		if up == upstreamAI {
			status = http.StatusBadGateway
			msg = "Fitness Tribe API error"
		}
		details := pe.Body
		if details == "" {
			details = pe.Error()
		}
		writeJSON(w, status, errorBody{Error: msg, Details: details})
	default:
		s.log.Error("%s %s: %v", r.Method, r.URL.Path, err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Server error."})
	}
}

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type messageBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
