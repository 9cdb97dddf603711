package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"colorledger/internal/ledger"
)

func TestHealth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	Health(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected Content-Type application/json, got %q", ct)
	}

	var resp healthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "starting" && resp.Status != "ok" {
		t.Fatalf("unexpected status %q", resp.Status)
	}
	if resp.Time.IsZero() {
		t.Fatal("expected response time to be populated")
	}
}

func TestHealthReportsCacheState(t *testing.T) {
	svc, _ := withTestService(t, ledger.Options{})
	if _, err := svc.ImportRows(context.Background(), append([][]any{sheetHeader}, sampleRows()...)); err != nil {
		t.Fatalf("import: %v", err)
	}

	w := httptest.NewRecorder()
	Health(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	var resp healthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "ok" || resp.Book != "DATA2025" {
		t.Fatalf("expected ready ledger, got %+v", resp)
	}
	if resp.Formulas != 2 || resp.CacheVersion == 0 {
		t.Fatalf("unexpected cache state: %+v", resp)
	}
}
