package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"colorledger/internal/i18n"
	"colorledger/internal/ledger"
	applog "colorledger/internal/log"
)

const sessionFlashKey = "ledger:flash"

var (
	sessionManager *scs.SessionManager
	service        *ledger.Service
	printer        = i18n.New("")
)

// Configure installs the shared dependencies used by the HTTP handlers.
func Configure(sm *scs.SessionManager, svc *ledger.Service, p *i18n.Printer) {
	sessionManager = sm
	service = svc
	if p != nil {
		printer = p
	}
}

// resultResponse is the envelope every mutating API endpoint answers with.
type resultResponse struct {
	Success       bool     `json:"success"`
	Message       string   `json:"message,omitempty"`
	ImportedCount *int     `json:"importedCount,omitempty"`
	Duplicates    int      `json:"duplicates,omitempty"`
	Errors        []string `json:"errors,omitempty"`
	Formula       any      `json:"formula,omitempty"`
}

func serviceReady(w http.ResponseWriter, r *http.Request) bool {
	if service != nil {
		return true
	}
	applog.Debug(r.Context(), "request without ledger service", "path", r.URL.Path)
	writeJSONError(w, http.StatusServiceUnavailable, printer.Sprintf(i18n.ServiceUnavailable))
	return false
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		applog.Error(context.Background(), "failed to encode json response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, resultResponse{Success: false, Message: message})
}
