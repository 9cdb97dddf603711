package handlers

import (
	"bytes"
	"net/http"
	"strconv"

	"colorledger/internal/i18n"
	applog "colorledger/internal/log"
	"colorledger/internal/spreadsheet"
)

const (
	templateFilename    = "formula_template.xlsx"
	templateContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Template downloads an empty import spreadsheet with one sample row.
func Template(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var buf bytes.Buffer
	if err := spreadsheet.WriteTemplate(&buf); err != nil {
		applog.Error(r.Context(), "failed to build import template", "error", err)
		writeJSONError(w, http.StatusInternalServerError, printer.Sprintf(i18n.TemplateFailed))
		return
	}

	w.Header().Set("Content-Type", templateContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+templateFilename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		applog.Error(r.Context(), "failed to write import template", "error", err)
	}
}
