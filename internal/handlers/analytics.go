package handlers

import "net/http"

// Analytics returns the aggregate summary of the cached formulas.
func Analytics(w http.ResponseWriter, r *http.Request) {
	if !serviceReady(w, r) {
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, service.Analytics())
}
