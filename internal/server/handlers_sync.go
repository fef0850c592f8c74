package server

import (
	"net/http"
	"strconv"
)

// handleSyncPush handles POST /api/sync/push: last-writer-wins overwrite of
// the remote document. The user asked for it, so failures are surfaced.
func (s *Server) handleSyncPush(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	if _, ok := s.requireSessionUser(w, r); !ok {
		return
	}

	if err := s.app.LedgerService.PushToRemote(r.Context()); err != nil {
		s.app.Notifier.Error("Push failed: " + err.Error())
		WriteServiceError(w, err)
		return
	}
	s.app.Notifier.Success("Data pushed to cloud")
	WriteJSON(w, http.StatusOK, map[string]interface{}{"pushed": true})
}

// handleSyncPull handles POST /api/sync/pull: wholesale replace of the ledger
// and selection from remote. A missing remote document is a 404, not a silent
// fallback.
func (s *Server) handleSyncPull(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	if _, ok := s.requireSessionUser(w, r); !ok {
		return
	}

	if err := s.app.LedgerService.PullFromRemote(r.Context()); err != nil {
		s.app.Notifier.Error("Pull failed: " + err.Error())
		WriteServiceError(w, err)
		return
	}
	s.app.Notifier.Success("Data pulled from cloud")
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"institutions": s.app.LedgerService.Ledger(),
	})
}

// handleNotifications handles GET /api/notifications.
func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": s.app.Notifier.Active(),
	})
}

// handleNotificationDismiss handles DELETE /api/notifications/{id}.
func (s *Server) handleNotificationDismiss(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	id, err := strconv.ParseInt(PathParam(r, "/api/notifications/", ""), 10, 64)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid notification id")
		return
	}
	s.app.Notifier.Dismiss(id)
	w.WriteHeader(http.StatusNoContent)
}
