package server

import (
	"net/http"

	"github.com/bobmcallan/folio/internal/models"
)

// --- Ledger views ---

func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if _, ok := s.requireSessionUser(w, r); !ok {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"institutions": s.app.LedgerService.Ledger(),
	})
}

func (s *Server) handleLedgerFiltered(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if _, ok := s.requireSessionUser(w, r); !ok {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"institutions": s.app.LedgerService.FilteredInstitutions(),
		"period":       s.app.LedgerService.Period(),
		"selected":     s.app.LedgerService.SelectedInstitutions(),
	})
}

func (s *Server) handleInstitutionNames(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if _, ok := s.requireSessionUser(w, r); !ok {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"names": s.app.LedgerService.InstitutionNames(),
	})
}

// --- Mutations ---

func (s *Server) handleInstitutionAdd(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	if _, ok := s.requireSessionUser(w, r); !ok {
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := s.app.LedgerService.AddInstitution(r.Context(), req.Name); err != nil {
		WriteServiceError(w, err)
		return
	}
	s.app.Notifier.Success("Institution added: " + req.Name)
	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"names": s.app.LedgerService.InstitutionNames(),
	})
}

func (s *Server) handleRecordsUpsert(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	if _, ok := s.requireSessionUser(w, r); !ok {
		return
	}

	var req struct {
		Date   models.Date                  `json:"date"`
		Deltas map[string]models.RecordDelta `json:"deltas"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := s.app.LedgerService.UpsertRecords(r.Context(), req.Date, req.Deltas); err != nil {
		WriteServiceError(w, err)
		return
	}
	s.app.Notifier.Success("Records saved for " + req.Date.String())
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"institutions": s.app.LedgerService.Ledger(),
	})
}

// handleRecordsByDate handles DELETE /api/records/{date}.
func (s *Server) handleRecordsByDate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}
	if _, ok := s.requireSessionUser(w, r); !ok {
		return
	}

	date, err := models.ParseDate(PathParam(r, "/api/records/", ""))
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.app.LedgerService.RemoveRecordsByDate(r.Context(), date); err != nil {
		WriteServiceError(w, err)
		return
	}
	s.app.Notifier.Success("Records removed for " + date.String())
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"institutions": s.app.LedgerService.Ledger(),
	})
}

// --- Selection and period ---

func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if _, ok := s.requireSessionUser(w, r); !ok {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"selected": s.app.LedgerService.SelectedInstitutions(),
	})
}

func (s *Server) handleSelectionToggle(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	if _, ok := s.requireSessionUser(w, r); !ok {
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		WriteError(w, http.StatusBadRequest, "name is required")
		return
	}

	s.app.LedgerService.ToggleInstitution(req.Name)
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"selected": s.app.LedgerService.SelectedInstitutions(),
	})
}

func (s *Server) handleSelectAll(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	if _, ok := s.requireSessionUser(w, r); !ok {
		return
	}
	s.app.LedgerService.SelectAll()
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"selected": s.app.LedgerService.SelectedInstitutions(),
	})
}

func (s *Server) handleSelectNone(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	if _, ok := s.requireSessionUser(w, r); !ok {
		return
	}
	s.app.LedgerService.SelectNone()
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"selected": s.app.LedgerService.SelectedInstitutions(),
	})
}

func (s *Server) handlePeriod(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodPut) {
		return
	}
	if _, ok := s.requireSessionUser(w, r); !ok {
		return
	}

	if r.Method == http.MethodPut {
		var req struct {
			Period string `json:"period"`
		}
		if !DecodeJSON(w, r, &req) {
			return
		}
		period, err := models.ParsePeriod(req.Period)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.app.LedgerService.SetPeriod(period)
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"period": s.app.LedgerService.Period(),
	})
}
