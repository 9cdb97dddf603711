package handlers

import (
	"net/http"
	"time"

	applog "colorledger/internal/log"
)

type healthResponse struct {
	Status       string    `json:"status"`
	Time         time.Time `json:"time"`
	Book         string    `json:"book,omitempty"`
	Formulas     int       `json:"formulas"`
	CacheVersion uint64    `json:"cacheVersion"`
}

// Health reports whether the ledger is wired and how far its cache has
// advanced. A version of zero means no reload has completed yet.
func Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "starting", Time: time.Now().UTC()}
	if service != nil {
		snapshot := service.Snapshot()
		resp.Status = "ok"
		resp.Book = service.Book()
		resp.Formulas = len(snapshot.Formulas)
		resp.CacheVersion = snapshot.Version
	}

	applog.Debug(r.Context(), "health check", "status", resp.Status, "formulas", resp.Formulas)
	writeJSON(w, http.StatusOK, resp)
}
