package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/threedq/threedq/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func (s *server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", "err", err)
	}
}

// respondError maps domain errors to status codes. Storage failures are
// logged with detail but reported generically.
func (s *server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var resp errorResponse
	status := http.StatusInternalServerError

	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
		resp = errorResponse{Error: validationErr.Error(), Field: validationErr.Field}
	case domain.IsValidation(err):
		status = http.StatusBadRequest
		resp = errorResponse{Error: err.Error()}
	case domain.IsNotFound(err):
		status = http.StatusNotFound
		resp = errorResponse{Error: err.Error()}
	case domain.IsConflict(err):
		status = http.StatusConflict
		resp = errorResponse{Error: err.Error()}
	default:
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		resp = errorResponse{Error: "internal error"}
	}

	s.respondJSON(w, status, resp)
}

// decodeJSON reads the request body into v and, for struct targets,
// runs struct validation, mapping both failure modes to domain
// validation errors.
func (s *server) decodeJSON(r *http.Request, v any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return domain.NewValidationError("", "malformed request body: "+err.Error())
	}

	if reflect.Indirect(reflect.ValueOf(v)).Kind() != reflect.Struct {
		return nil
	}

	if err := s.validate.Struct(v); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			first := fieldErrs[0]
			return domain.NewValidationError(first.Field(), "failed "+first.Tag()+" check")
		}
		return domain.NewValidationError("", err.Error())
	}
	return nil
}

func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("id", "must be a positive integer")
	}
	return id, nil
}
