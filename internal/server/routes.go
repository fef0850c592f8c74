package server

import (
	"net/http"
	"time"

	"github.com/bobmcallan/folio/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Auth / session lifecycle
	mux.HandleFunc("/api/auth/login", s.handleAuthLogin)
	mux.HandleFunc("/api/auth/logout", s.handleAuthLogout)

	// Ledger views
	mux.HandleFunc("/api/ledger", s.handleLedger)
	mux.HandleFunc("/api/ledger/filtered", s.handleLedgerFiltered)
	mux.HandleFunc("/api/ledger/institutions", s.handleInstitutionNames)

	// Mutations
	mux.HandleFunc("/api/institutions", s.handleInstitutionAdd)
	mux.HandleFunc("/api/records", s.handleRecordsUpsert)
	mux.HandleFunc("/api/records/", s.handleRecordsByDate)

	// Selection and period
	mux.HandleFunc("/api/selection", s.handleSelection)
	mux.HandleFunc("/api/selection/toggle", s.handleSelectionToggle)
	mux.HandleFunc("/api/selection/all", s.handleSelectAll)
	mux.HandleFunc("/api/selection/none", s.handleSelectNone)
	mux.HandleFunc("/api/period", s.handlePeriod)

	// Explicit sync
	mux.HandleFunc("/api/sync/push", s.handleSyncPush)
	mux.HandleFunc("/api/sync/pull", s.handleSyncPull)

	// Notifications
	mux.HandleFunc("/api/notifications", s.handleNotifications)
	mux.HandleFunc("/api/notifications/", s.handleNotificationDismiss)
}

// handleHealth handles GET /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"state":  s.app.LedgerService.State(),
		"uptime": time.Since(s.app.StartupTime).String(),
	})
}

// handleVersion handles GET /api/version.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"version": common.GetVersion(),
		"full":    common.GetFullVersion(),
	})
}
