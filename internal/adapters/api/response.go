package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/andrescamacho/anac-utility-go/internal/application/common"
	"github.com/andrescamacho/anac-utility-go/internal/domain/shared"
	"github.com/andrescamacho/anac-utility-go/internal/domain/utility"
)

// messageResponse is the body of every error and acknowledgement
type messageResponse struct {
	Msg string `json:"msg"`
}

// badRequestError marks a request the server could not read
type badRequestError struct {
	err error
}

func (e *badRequestError) Error() string { return e.err.Error() }
func (e *badRequestError) Unwrap() error { return e.err }

// writeJSON writes a two-space indented JSON response
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Msg: msg})
}

// writeError maps an error to a status code:
//
//	unreadable body, invalid role      400
//	body too large                     413
//	domain error (bad utility, bundle) 422
//	deadline exceeded                  503
//	anything else                      500
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		common.LoggerFromContext(ctx).Log("ERROR", fmt.Sprintf("Request failed: %v", err), map[string]interface{}{
			"status": status,
		})
	}
	writeMessage(w, status, err.Error())
}

func statusFor(err error) int {
	var (
		badRequest  *badRequestError
		invalidRole *utility.InvalidAgentRoleError
		tooLarge    *http.MaxBytesError
	)
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &invalidRole):
		return http.StatusBadRequest
	case shared.IsDomainError(err):
		return http.StatusUnprocessableEntity
	case errors.As(err, &badRequest):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads a size-limited JSON body into v
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, v interface{}) error {
	body := r.Body
	if limit > 0 {
		body = http.MaxBytesReader(w, r.Body, limit)
	}

	if err := json.NewDecoder(body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || shared.IsDomainError(err) {
			return err
		}
		return &badRequestError{err: fmt.Errorf("invalid request body: %w", err)}
	}
	return nil
}
