package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"colorledger/internal/i18n"
	"colorledger/internal/ledger"
	applog "colorledger/internal/log"
)

type updateFormulaRequest struct {
	ID          string `json:"id"`
	Book        string `json:"book"`
	Page        any    `json:"page"`
	Row         any    `json:"row"`
	SwatchColor string `json:"swatchColor"`
}

// Formulas lists the cached formulas (GET) or updates one formula's
// placement fields (PUT).
func Formulas(w http.ResponseWriter, r *http.Request) {
	if !serviceReady(w, r) {
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, service.List())
	case http.MethodPut:
		updateFormula(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// FormulaResource serves /api/formulas/{id}.
func FormulaResource(w http.ResponseWriter, r *http.Request) {
	if !serviceReady(w, r) {
		return
	}

	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/formulas"), "/")
	if id == "" {
		Formulas(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		formula, err := service.Get(id)
		if err != nil {
			writeJSONError(w, http.StatusNotFound, printer.Sprintf(i18n.FormulaNotFound))
			return
		}
		writeJSON(w, http.StatusOK, formula)
	case http.MethodDelete:
		deleteFormula(w, r, id)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func updateFormula(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var payload updateFormulaRequest
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid formula update payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, printer.Sprintf(i18n.InvalidData, "invalid request payload"))
		return
	}

	page, err := ledger.ParseSlotNumber("page", payload.Page)
	if err != nil {
		writeUpdateError(w, r, payload.ID, err)
		return
	}
	row, err := ledger.ParseSlotNumber("row", payload.Row)
	if err != nil {
		writeUpdateError(w, r, payload.ID, err)
		return
	}

	formula, err := service.Update(ctx, ledger.PlacementUpdate{
		ID:          payload.ID,
		Book:        payload.Book,
		Page:        page,
		Row:         row,
		SwatchColor: payload.SwatchColor,
	})
	if err != nil {
		writeUpdateError(w, r, payload.ID, err)
		return
	}

	writeJSON(w, http.StatusOK, resultResponse{
		Success: true,
		Message: printer.Sprintf(i18n.UpdateDone),
		Formula: formula,
	})
}

func writeUpdateError(w http.ResponseWriter, r *http.Request, id string, err error) {
	var validationErr *ledger.ValidationError
	switch {
	case errors.As(err, &validationErr):
		applog.Debug(r.Context(), "formula update rejected", "id", id, "error", err)
		writeJSONError(w, http.StatusBadRequest, printer.Sprintf(i18n.InvalidData, validationErr.Field+" "+validationErr.Reason))
	case errors.Is(err, ledger.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, printer.Sprintf(i18n.FormulaNotFound))
	default:
		writeJSONError(w, http.StatusInternalServerError, printer.Sprintf(i18n.UpdateFailed))
	}
}

func deleteFormula(w http.ResponseWriter, r *http.Request, id string) {
	err := service.Delete(r.Context(), id)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, resultResponse{Success: true, Message: printer.Sprintf(i18n.DeleteDone)})
	case errors.Is(err, ledger.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, printer.Sprintf(i18n.FormulaNotFound))
	default:
		writeJSONError(w, http.StatusInternalServerError, printer.Sprintf(i18n.DeleteFailed))
	}
}
