package v1

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/tinoosan/fanbase/internal/action"
	"github.com/tinoosan/fanbase/internal/errs"
)

const maxBody = 1 << 20

// toJSON writes a JSON response with status code.
func toJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func statusFor(kind errs.Kind) int {
	switch kind {
	case errs.KindNotAuthenticated:
		return http.StatusUnauthorized
	case errs.KindForbidden:
		return http.StatusForbidden
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindValidation:
		return http.StatusUnprocessableEntity
	case errs.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeResult writes the action envelope unchanged; only the status is derived.
func writeResult[T any](w http.ResponseWriter, okStatus int, res action.Result[T]) {
	if res.Error != nil {
		toJSON(w, statusFor(res.Error.Kind), res)
		return
	}
	toJSON(w, okStatus, res)
}

func writeFailure(w http.ResponseWriter, kind errs.Kind, msg string) {
	toJSON(w, statusFor(kind), action.Result[struct{}]{Error: &action.Failure{Kind: kind, Message: msg}})
}

// badRequest answers input the handler could not even parse.
func badRequest(w http.ResponseWriter, msg string) {
	toJSON(w, http.StatusBadRequest, action.Result[struct{}]{Error: &action.Failure{Kind: errs.KindValidation, Message: msg}})
}

// decodeJSON reads a single JSON object and rejects unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		badRequest(w, "invalid JSON body")
		return false
	}
	return true
}
