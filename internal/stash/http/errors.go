package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/oakmount/stash/internal/stash/service"
	"github.com/oakmount/stash/internal/stash/store"
	"github.com/oakmount/stash/pkg/httpx"
	"github.com/oakmount/stash/pkg/slogx"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// decodeJSON parses a request body into dst with a size cap. Unknown
// fields are ignored, so a client that sends owner_id or other
// server-owned fields simply doesn't get to set them. Returns false
// after writing the 400 itself.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))

	if err := dec.Decode(dst); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return false
	}
	return true
}

// writeServiceError maps service-layer failures onto the HTTP error
// taxonomy. Unexpected errors become a generic 500 so internals never
// leak; the detail goes to the log instead.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	log := slogx.FromContext(r.Context())

	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		httpx.WriteJSON(w, http.StatusBadRequest, httpx.ErrorResponse{
			Error:            "validation_error",
			ErrorDescription: verr.Reason,
			Field:            verr.Field,
		})
	case errors.Is(err, service.ErrDuplicateEmail):
		httpx.WriteError(w, http.StatusBadRequest,
			"duplicate_email", "an account with this email already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized,
			"invalid_credentials", "email or password is incorrect")
	case errors.Is(err, store.ErrNotFound):
		// Covers both "absent" and "not yours"; the two must be
		// indistinguishable to the caller.
		httpx.WriteError(w, http.StatusNotFound, "not_found", "resource not found")
	default:
		log.Error("request failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError,
			"server_error", "something went wrong")
	}
}
