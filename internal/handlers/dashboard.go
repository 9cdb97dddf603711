package handlers

import (
	"net/http"
	"strings"

	"colorledger/internal/views/pages"
)

// Dashboard renders the formula notebook.
func Dashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	snapshot := pages.EmptyLedgerSnapshot()
	if service != nil {
		snapshot = pages.NewLedgerSnapshot(service.Book(), service.List(), service.Analytics())
		snapshot.WipeEnabled = service.WipeEnabled()
	}
	if sessionManager != nil {
		snapshot.Flash = sessionManager.PopString(r.Context(), sessionFlashKey)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.Dashboard(snapshot).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// DashboardImport handles the dashboard upload form and redirects back with
// the outcome as a flash message.
func DashboardImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !serviceReady(w, r) {
		return
	}

	_, resp := runImport(w, r)
	message := resp.Message
	if len(resp.Errors) > 0 {
		message += ": " + strings.Join(resp.Errors, "; ")
	}
	if sessionManager != nil {
		sessionManager.Put(r.Context(), sessionFlashKey, message)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
