package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"colorledger/internal/ledger"
)

func TestWipeDisabledWithoutCode(t *testing.T) {
	withTestService(t, ledger.Options{})

	w := httptest.NewRecorder()
	Wipe(w, jsonRequest(http.MethodPost, "/api/wipe", `{"code": "1234"}`))
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", w.Code)
	}
}

func TestWipeChecksCode(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("1234"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	svc, _ := withTestService(t, ledger.Options{WipeCodeHash: string(hash)})
	importSample(t, svc)

	w := httptest.NewRecorder()
	Wipe(w, jsonRequest(http.MethodPost, "/api/wipe", `{"code": "9999"}`))
	if w.Code != http.StatusForbidden || len(svc.List()) != 2 {
		t.Fatalf("expected rejected wipe, got %d with %d formulas", w.Code, len(svc.List()))
	}

	w = httptest.NewRecorder()
	Wipe(w, jsonRequest(http.MethodPost, "/api/wipe", `{"code": "1234"}`))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if len(svc.List()) != 0 {
		t.Fatal("expected ledger to be empty after wipe")
	}
}
