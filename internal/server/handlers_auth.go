package server

import (
	"net/http"

	"github.com/bobmcallan/folio/internal/common"
)

// handleAuthLogin handles POST /api/auth/login. It issues a session token and
// starts the ledger session: local cache loads immediately, the remote pull
// is attempted and silently skipped when it fails.
func (s *Server) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		UserID string `json:"user_id"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.UserID == "" {
		WriteError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	token, err := s.app.AuthService.SignIn(r.Context(), req.UserID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to issue token: "+err.Error())
		return
	}

	if err := s.app.LedgerService.LoadForUser(r.Context(), req.UserID); err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"token":        token,
		"state":        s.app.LedgerService.State(),
		"institutions": s.app.LedgerService.InstitutionNames(),
	})
}

// handleAuthLogout handles POST /api/auth/logout. In-memory state is dropped;
// the local cache stays on disk for the next login.
func (s *Server) handleAuthLogout(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	if _, ok := s.requireSessionUser(w, r); !ok {
		return
	}

	s.app.LedgerService.ClearData()
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"state": s.app.LedgerService.State(),
	})
}

// requireSessionUser checks that the request carries a valid bearer token for
// the user owning the active ledger session.
func (s *Server) requireSessionUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := common.UserIDFromContext(r.Context())
	if userID == "" {
		WriteError(w, http.StatusUnauthorized, "Authentication required")
		return "", false
	}
	active := s.app.LedgerService.ActiveUser()
	if active == "" || active != userID {
		WriteError(w, http.StatusUnauthorized, "No active session for this user")
		return "", false
	}
	return userID, true
}
