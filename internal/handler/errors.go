package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tripcrew/tripcrew-api/internal/domain"
)

// ErrorResponse is the JSON body for every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable machine-readable code and a human message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps domain sentinel errors to HTTP statuses:
// 401 unauthenticated, 403 forbidden, 404 not found, 409 for phase and
// window conflicts, 422 for validation failures. Anything unmatched is a 500
// with the detail logged, never leaked.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		respond(w, http.StatusUnauthorized, errorBody("unauthenticated", "authentication required"))
	case errors.Is(err, domain.ErrForbidden):
		respond(w, http.StatusForbidden, errorBody("forbidden", "you do not have access to this resource"))
	case errors.Is(err, domain.ErrNotFound):
		respond(w, http.StatusNotFound, errorBody("not_found", "resource not found"))
	case errors.Is(err, domain.ErrDeadlineMissing):
		respond(w, http.StatusConflict, errorBody("deadline_missing", "the organizer has not set a proposal deadline"))
	case errors.Is(err, domain.ErrDeadlinePassed):
		respond(w, http.StatusConflict, errorBody("deadline_passed", "the proposal deadline has passed"))
	case errors.Is(err, domain.ErrVotingNotOpen):
		respond(w, http.StatusConflict, errorBody("voting_not_open", "voting has not opened yet"))
	case errors.Is(err, domain.ErrVotingClosed):
		respond(w, http.StatusConflict, errorBody("voting_closed", "the voting window has closed"))
	case errors.Is(err, domain.ErrInvalidPhase):
		respond(w, http.StatusConflict, errorBody("invalid_phase", unwrapMessage(err, domain.ErrInvalidPhase)))
	case errors.Is(err, domain.ErrValidation):
		respond(w, http.StatusUnprocessableEntity, errorBody("validation_error", unwrapMessage(err, domain.ErrValidation)))
	default:
		slog.ErrorContext(r.Context(), "unhandled error", "method", r.Method, "path", r.URL.Path, "error", err)
		respond(w, http.StatusInternalServerError, errorBody("internal_error", "internal server error"))
	}
}

// badRequest rejects a request before it reaches the service layer
// (missing or malformed body, bad path parameter).
func badRequest(w http.ResponseWriter, message string) {
	respond(w, http.StatusUnprocessableEntity, errorBody("validation_error", message))
}

func errorBody(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// unwrapMessage extracts the human-readable tail from a wrapped sentinel.
// e.g. "service.TripService.Create: validation error: title is required"
// → "title is required". Falls back to the sentinel's own text when the
// wrapping carries no extra detail.
func unwrapMessage(err, sentinel error) string {
	msg := err.Error()
	marker := sentinel.Error() + ": "
	if i := strings.LastIndex(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return sentinel.Error()
}

// respond writes v as the JSON response body with the given status.
func respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// decode parses the request body into v. A missing or malformed body is a
// client error, reported by the caller via badRequest.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.New("request body is required and must be valid JSON")
	}
	return nil
}
