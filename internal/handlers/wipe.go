package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"colorledger/internal/i18n"
	"colorledger/internal/ledger"
	applog "colorledger/internal/log"
)

type wipeRequest struct {
	Code string `json:"code"`
}

// Wipe deletes every formula after checking the confirmation code.
func Wipe(w http.ResponseWriter, r *http.Request) {
	if !serviceReady(w, r) {
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var payload wipeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, printer.Sprintf(i18n.InvalidData, "invalid request payload"))
		return
	}

	err := service.Wipe(r.Context(), payload.Code)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, resultResponse{Success: true, Message: printer.Sprintf(i18n.WipeDone)})
	case errors.Is(err, ledger.ErrWipeDisabled):
		writeJSONError(w, http.StatusForbidden, printer.Sprintf(i18n.WipeDisabled))
	case errors.Is(err, ledger.ErrInvalidWipeCode):
		writeJSONError(w, http.StatusForbidden, printer.Sprintf(i18n.WipeDenied))
	default:
		applog.Error(r.Context(), "wipe failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, printer.Sprintf(i18n.WipeFailed))
	}
}
