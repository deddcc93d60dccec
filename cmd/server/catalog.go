package main

import (
	"net/http"

	"github.com/threedq/threedq/internal/catalog"
)

func (s *server) handleFilamentsList(w http.ResponseWriter, r *http.Request) {
	filaments, err := s.catalog.ListFilaments()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, filaments)
}

func (s *server) handleFilamentGet(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	filament, err := s.catalog.GetFilament(id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, filament)
}

func (s *server) handleFilamentCreate(w http.ResponseWriter, r *http.Request) {
	var filament catalog.Filament
	if err := s.decodeJSON(r, &filament); err != nil {
		s.respondError(w, r, err)
		return
	}

	created, err := s.catalog.CreateFilament(filament)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, created)
}

func (s *server) handleFilamentUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var filament catalog.Filament
	if err := s.decodeJSON(r, &filament); err != nil {
		s.respondError(w, r, err)
		return
	}
	filament.ID = id

	if err := s.catalog.UpdateFilament(filament); err != nil {
		s.respondError(w, r, err)
		return
	}

	updated, err := s.catalog.GetFilament(id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, updated)
}

func (s *server) handleFilamentDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.catalog.DeleteFilament(id); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handlePrintersList(w http.ResponseWriter, r *http.Request) {
	printers, err := s.catalog.ListPrinters()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, printers)
}

func (s *server) handlePrinterGet(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	printer, err := s.catalog.GetPrinter(id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, printer)
}

func (s *server) handlePrinterCreate(w http.ResponseWriter, r *http.Request) {
	var printer catalog.Printer
	if err := s.decodeJSON(r, &printer); err != nil {
		s.respondError(w, r, err)
		return
	}

	created, err := s.catalog.CreatePrinter(printer)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, created)
}

func (s *server) handlePrinterUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var printer catalog.Printer
	if err := s.decodeJSON(r, &printer); err != nil {
		s.respondError(w, r, err)
		return
	}
	printer.ID = id

	if err := s.catalog.UpdatePrinter(printer); err != nil {
		s.respondError(w, r, err)
		return
	}

	updated, err := s.catalog.GetPrinter(id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, updated)
}

func (s *server) handlePrinterDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.catalog.DeletePrinter(id); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleHardwareList(w http.ResponseWriter, r *http.Request) {
	items, err := s.catalog.ListHardware()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, items)
}

func (s *server) handleHardwareGet(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	item, err := s.catalog.GetHardware(id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, item)
}

func (s *server) handleHardwareCreate(w http.ResponseWriter, r *http.Request) {
	var item catalog.Hardware
	if err := s.decodeJSON(r, &item); err != nil {
		s.respondError(w, r, err)
		return
	}

	created, err := s.catalog.CreateHardware(item)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, created)
}

func (s *server) handleHardwareUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var item catalog.Hardware
	if err := s.decodeJSON(r, &item); err != nil {
		s.respondError(w, r, err)
		return
	}
	item.ID = id

	if err := s.catalog.UpdateHardware(item); err != nil {
		s.respondError(w, r, err)
		return
	}

	updated, err := s.catalog.GetHardware(id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, updated)
}

func (s *server) handleHardwareDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.catalog.DeleteHardware(id); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
