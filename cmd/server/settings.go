package main

import (
	"net/http"
	"strconv"

	"github.com/threedq/threedq/internal/domain"
	"github.com/threedq/threedq/internal/settings"
)

// editableSettings lists the keys the API accepts writes for and
// whether the value must parse as a number. The numbering counter is
// deliberately absent; it only moves inside quote-create transactions.
var editableSettings = map[string]bool{
	settings.KeyCurrency:          false,
	settings.KeyElectricityPerKWh: true,
	settings.KeyLabourRate:        true,
	settings.KeyTaxRate:           true,
	settings.KeyQuotePrefix:       false,
}

func (s *server) handleSettingsGet(w http.ResponseWriter, r *http.Request) {
	values, err := s.settings.All()
	if err != nil {
		s.respondError(w, r, domain.NewStorageError("load settings", err))
		return
	}
	s.respondJSON(w, http.StatusOK, values)
}

func (s *server) handleSettingsUpdate(w http.ResponseWriter, r *http.Request) {
	var payload map[string]string
	if err := s.decodeJSON(r, &payload); err != nil {
		s.respondError(w, r, err)
		return
	}
	if len(payload) == 0 {
		s.respondError(w, r, domain.NewValidationError("", "no settings provided"))
		return
	}

	for key, value := range payload {
		numeric, ok := editableSettings[key]
		if !ok {
			s.respondError(w, r, domain.NewValidationError(key, "is not an editable setting"))
			return
		}
		if numeric {
			if _, err := strconv.ParseFloat(value, 64); err != nil {
				s.respondError(w, r, domain.NewValidationError(key, "must be numeric"))
				return
			}
		}
	}

	for key, value := range payload {
		if err := s.settings.Set(key, value); err != nil {
			s.respondError(w, r, domain.NewStorageError("save setting "+key, err))
			return
		}
	}

	values, err := s.settings.All()
	if err != nil {
		s.respondError(w, r, domain.NewStorageError("load settings", err))
		return
	}
	s.respondJSON(w, http.StatusOK, values)
}
