package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	"verivote/internal/enrollment"
	"verivote/internal/roster"
	"verivote/internal/session"
	"verivote/internal/token"
	"verivote/pkg/domain"
	"verivote/pkg/platform/sentinel"
)

type errorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError translates domain errors into the JSON error envelope. Internal
// failures intentionally omit the description so backend details never leak
// to clients.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	resp := errorResponse{Error: codeFor(status)}
	if status != http.StatusInternalServerError {
		resp.Description = err.Error()
	}
	writeJSON(w, status, resp)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidIdentity),
		errors.Is(err, enrollment.ErrInvalidBirthdate):
		return http.StatusBadRequest
	case errors.Is(err, roster.ErrBadCredentials),
		errors.Is(err, token.ErrInvalid),
		errors.Is(err, token.ErrExpired):
		return http.StatusUnauthorized
	case errors.Is(err, session.ErrNotEligible):
		return http.StatusForbidden
	case errors.Is(err, session.ErrAlreadyVoted),
		errors.Is(err, sentinel.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, enrollment.ErrCaptureIncomplete):
		return http.StatusUnprocessableEntity
	case errors.Is(err, sentinel.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, sentinel.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func codeFor(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusUnprocessableEntity:
		return "unprocessable"
	case http.StatusServiceUnavailable:
		return "unavailable"
	default:
		return "internal_error"
	}
}

// decodeJSON rejects malformed or oversized bodies before the handler runs.
func decodeJSON[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var req T
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:       "bad_request",
			Description: "malformed request body",
		})
		return req, false
	}
	return req, true
}

// Sample payloads carry raw float vectors, so the cap is generous but finite.
const maxBodyBytes = 8 << 20
