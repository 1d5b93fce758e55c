// Package handlers exposes the services over HTTP. Requests are either
// form-encoded or a JSON object of scalars; every response is JSON.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/diewo77/nexusmanager/httpx"
	"github.com/diewo77/nexusmanager/internal/store"
	"github.com/diewo77/nexusmanager/validation"
)

const maxBodyBytes = 1 << 20

// rawFields reads the submitted fields of r.
func rawFields(w http.ResponseWriter, r *http.Request) (validation.RawFields, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		return jsonFields(r)
	}
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}
	return validation.FromValues(r.PostForm), nil
}

func jsonFields(r *http.Request) (validation.RawFields, error) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	out := make(validation.RawFields, len(body))
	for k, val := range body {
		switch x := val.(type) {
		case nil:
			out[k] = ""
		case string:
			out[k] = x
		case bool:
			out[k] = strconv.FormatBool(x)
		case float64:
			out[k] = strconv.FormatFloat(x, 'f', -1, 64)
		default:
			return nil, fmt.Errorf("field %q: expected a scalar", k)
		}
	}
	return out, nil
}

// pathID parses the {id} wildcard. ok is false when it is not a positive
// integer; the caller should answer 404.
func pathID(r *http.Request) (uint, bool) {
	n, err := strconv.ParseUint(r.PathValue("id"), 10, 0)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

func notFound(w http.ResponseWriter) {
	httpx.JSON(w, http.StatusNotFound, httpx.ErrorResponse{
		Error:    "not_found",
		Message:  "record not found",
		Severity: string(store.SeverityDanger),
	})
}

func badRequest(w http.ResponseWriter, err error) {
	httpx.JSON(w, http.StatusBadRequest, httpx.ErrorResponse{
		Error:    "bad_request",
		Message:  err.Error(),
		Severity: string(store.SeverityDanger),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, store.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err. Persistence causes are logged, never sent.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var se *store.Error
	if !errors.As(err, &se) {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("unclassified error")
		httpx.JSON(w, http.StatusInternalServerError, httpx.ErrorResponse{
			Error:    "internal",
			Message:  "internal error",
			Severity: string(store.SeverityDanger),
		})
		return
	}
	if errors.Is(err, store.ErrPersistence) {
		zerolog.Ctx(r.Context()).Error().Err(errors.Unwrap(se)).
			Str("entity", string(se.Entity)).
			Uint("id", se.ID).
			Msg("persistence failure")
	}
	resp := httpx.ErrorResponse{
		Error:    se.Code(),
		Message:  se.Message,
		Severity: string(se.Severity),
		Input:    se.Input,
	}
	if !se.Violations.Empty() {
		resp.Details = se.Violations
	}
	httpx.JSON(w, statusFor(err), resp)
}

func clientURL(id uint) string { return fmt.Sprintf("/clients/%d", id) }
