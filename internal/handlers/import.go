package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"colorledger/internal/i18n"
	"colorledger/internal/ingest"
	"colorledger/internal/ledger"
	applog "colorledger/internal/log"
	"colorledger/internal/spreadsheet"
)

const (
	maxUploadBytes  = 32 << 20
	uploadFieldName = "excelFile"
)

var errMissingUpload = errors.New("handlers: no spreadsheet uploaded")

var readUpload = spreadsheet.Read

type importRequest struct {
	Path string `json:"path"`
}

// Import ingests a spreadsheet uploaded as multipart field "excelFile" or
// named by a JSON body {"path": "..."} on the server's filesystem.
func Import(w http.ResponseWriter, r *http.Request) {
	if !serviceReady(w, r) {
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	status, resp := runImport(w, r)
	writeJSON(w, status, resp)
}

func runImport(w http.ResponseWriter, r *http.Request) (int, resultResponse) {
	ctx := r.Context()

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		result, err := importUpload(w, r)
		return importOutcome(ctx, result, err)
	}

	var payload importRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || strings.TrimSpace(payload.Path) == "" {
		applog.Debug(ctx, "import request without spreadsheet", "error", err)
		return importOutcome(ctx, ledger.ImportResult{}, errMissingUpload)
	}

	applog.Info(ctx, "importing spreadsheet from path", "path", payload.Path)
	result, err := service.Import(ctx, payload.Path)
	return importOutcome(ctx, result, err)
}

func importUpload(w http.ResponseWriter, r *http.Request) (ledger.ImportResult, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile(uploadFieldName)
	if err != nil {
		applog.Debug(r.Context(), "import upload missing", "error", err)
		return ledger.ImportResult{}, errMissingUpload
	}
	defer file.Close()

	ctx := applog.WithAttrs(r.Context(), "upload", header.Filename)
	applog.Info(ctx, "importing uploaded spreadsheet", "size", header.Size)
	rows, err := readUpload(file)
	if err != nil {
		return ledger.ImportResult{}, fmt.Errorf("%w: %w", ledger.ErrUnreadableSpreadsheet, err)
	}
	return service.ImportRows(ctx, rows)
}

func importOutcome(ctx context.Context, result ledger.ImportResult, err error) (int, resultResponse) {
	switch {
	case err == nil:
		count := result.ImportedCount
		return http.StatusOK, resultResponse{
			Success:       true,
			Message:       printer.Sprintf(i18n.ImportDone, count),
			ImportedCount: &count,
			Duplicates:    result.Duplicates,
		}
	case errors.Is(err, ledger.ErrNoNewRecords):
		return http.StatusOK, resultResponse{
			Success:    true,
			Message:    printer.Sprintf(i18n.ImportNoNewRecords),
			Duplicates: result.Duplicates,
		}
	case errors.Is(err, ledger.ErrInvalidRows):
		return http.StatusUnprocessableEntity, resultResponse{
			Message: printer.Sprintf(i18n.ImportInvalid),
			Errors:  printer.RowErrors(result.Errors),
		}
	case errors.Is(err, ingest.ErrEmptySheet):
		return http.StatusBadRequest, resultResponse{Message: printer.Sprintf(i18n.ImportEmpty)}
	case errors.Is(err, errMissingUpload):
		return http.StatusBadRequest, resultResponse{Message: printer.Sprintf(i18n.ImportMissingFile)}
	case errors.Is(err, ledger.ErrUnreadableSpreadsheet):
		applog.Info(ctx, "spreadsheet could not be read", "error", err)
		return http.StatusBadRequest, resultResponse{Message: printer.Sprintf(i18n.ImportUnreadable)}
	default:
		applog.Error(ctx, "import failed", "error", err)
		return http.StatusInternalServerError, resultResponse{Message: printer.Sprintf(i18n.ImportFailed)}
	}
}
