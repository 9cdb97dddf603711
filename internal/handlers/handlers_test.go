package handlers

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"colorledger/internal/db"
	"colorledger/internal/i18n"
	"colorledger/internal/ledger"
	"colorledger/internal/spreadsheet"
)

var databaseSeq atomic.Int64

var sheetHeader = []any{"COLOR_CODE", "MATERIALNAME", "MATERIAL_CODE", "MAT_PERCENT", "MAT", "SERIES_CODE", "CLAB_NO", "FORMULA_DATE"}

func withTestService(t *testing.T, opts ledger.Options) (*ledger.Service, *scs.SessionManager) {
	t.Helper()

	dsn := fmt.Sprintf("file:handlers_%d?mode=memory&cache=shared", databaseSeq.Add(1))
	database, err := gorm.Open(db.Dialector(dsn), db.GormConfig(logger.Silent))
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(database); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	if opts.Book == "" {
		opts.Book = "DATA2025"
	}
	if opts.ReadFile == nil {
		opts.ReadFile = spreadsheet.ReadFile
	}
	svc, err := ledger.New(database, opts)
	if err != nil {
		t.Fatalf("ledger service: %v", err)
	}
	svc.Reload(context.Background())

	originalService, originalSessions, originalPrinter := service, sessionManager, printer
	sm := scs.New()
	Configure(sm, svc, i18n.New("en"))
	t.Cleanup(func() {
		service, sessionManager, printer = originalService, originalSessions, originalPrinter
		sqlDB.Close()
	})
	return svc, sm
}

func workbook(t *testing.T, rows ...[]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	all := append([][]any{sheetHeader}, rows...)
	for idx, row := range all {
		row := row
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", idx+1), &row); err != nil {
			t.Fatalf("write row: %v", err)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func uploadRequest(t *testing.T, target string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(uploadFieldName, "formulas.xlsx")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func sampleRows() [][]any {
	return [][]any{
		{"BN0173", "DIANIX RED", "D01231", 0.212, "PC16/2", "DG", "GL-1", "05/03/2025"},
		{"BN0173", "DIANIX YELLOW", "D01121", 0.23, "PC16/2", "DG", "GL-1", "05/03/2025"},
		{"NV0412", "DIANIX NAVY", "D02210", 1.85, "PC16/2", "TW", "GL-2", "18/04/2025"},
	}
}
