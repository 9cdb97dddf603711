package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"colorledger/internal/analytics"
	"colorledger/internal/config"
	"colorledger/internal/db/mock"
	"colorledger/internal/ingest"
	"colorledger/internal/spreadsheet"
)

func stubEnvironment(t *testing.T, cfg config.Config) {
	t.Helper()

	originalLoad, originalOpen := loadConfigFunc, openDatabaseFunc
	t.Cleanup(func() {
		loadConfigFunc, openDatabaseFunc = originalLoad, originalOpen
	})

	if cfg.Import.Book == "" {
		cfg.Import.Book = config.DefaultBook
	}
	loadConfigFunc = func() (config.Config, error) { return cfg, nil }
	openDatabaseFunc = func(config.DatabaseConfig) (*gorm.DB, error) {
		return mock.New(context.Background())
	}
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	root := newRootCmd(&app{})
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeWorkbook(t *testing.T, rows ...[]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	header := make([]any, len(ingest.Headers))
	for idx, name := range ingest.Headers {
		header[idx] = name
	}
	all := append([][]any{header}, rows...)
	for idx, row := range all {
		row := row
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", idx+1), &row); err != nil {
			t.Fatalf("write row: %v", err)
		}
	}

	path := filepath.Join(t.TempDir(), "import.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func TestListPrintsFormulasInSlotOrder(t *testing.T) {
	stubEnvironment(t, config.Config{})

	out, _, err := execute(t, "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	first := strings.Index(out, "BN0173")
	second := strings.Index(out, "NV0412")
	third := strings.Index(out, "GR0088")
	if first < 0 || second < 0 || third < 0 {
		t.Fatalf("expected every seeded formula in output, got:\n%s", out)
	}
	if !(first < second && second < third) {
		t.Fatalf("expected slot order, got:\n%s", out)
	}
	if !strings.Contains(out, "P1 / R1") {
		t.Fatalf("expected slot labels, got:\n%s", out)
	}
}

func TestListJSON(t *testing.T) {
	stubEnvironment(t, config.Config{})

	out, _, err := execute(t, "list", "--json")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	var formulas []map[string]any
	if err := json.Unmarshal([]byte(out), &formulas); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(formulas) != 3 {
		t.Fatalf("expected 3 formulas, got %d", len(formulas))
	}
}

func TestAnalyticsPrintsSummary(t *testing.T) {
	stubEnvironment(t, config.Config{})

	out, _, err := execute(t, "analytics")
	if err != nil {
		t.Fatalf("analytics failed: %v", err)
	}

	var summary analytics.Summary
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.TotalFormulas != 3 {
		t.Fatalf("expected 3 formulas, got %d", summary.TotalFormulas)
	}
	if summary.DistinctBooks != 2 {
		t.Fatalf("expected 2 books, got %d", summary.DistinctBooks)
	}
}

func TestImportAddsNewFormulas(t *testing.T) {
	stubEnvironment(t, config.Config{Import: config.ImportConfig{Locale: "en"}})
	path := writeWorkbook(t,
		[]any{"YL0520", "DIANIX YELLOW", "D01121", 0.75, "PC20/1", "DG", "GL-9", "01/07/2025"},
		[]any{"BN0173", "DIANIX RED", "D01231", 0.212, "PC16/2", "DG", "GL-1", "05/03/2025"},
	)

	out, _, err := execute(t, "import", path)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if !strings.Contains(out, "Imported 1 new formulas") {
		t.Fatalf("unexpected output: %q", out)
	}
	if !strings.Contains(out, "skipped 1 duplicates") {
		t.Fatalf("expected duplicate count, got %q", out)
	}
}

func TestImportReportsNoNewRecords(t *testing.T) {
	stubEnvironment(t, config.Config{})
	path := writeWorkbook(t,
		[]any{"BN0173", "DIANIX RED", "D01231", 0.212, "PC16/2", "DG", "GL-1", "05/03/2025"},
	)

	out, _, err := execute(t, "import", path)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if !strings.Contains(out, "no new records") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestImportPrintsRowErrors(t *testing.T) {
	stubEnvironment(t, config.Config{})
	path := writeWorkbook(t,
		[]any{"BN0999", "DIANIX RED", "", 0.212, "PC16/2", "DG", "GL-1", "05/03/2025"},
	)

	_, stderr, err := execute(t, "import", path)
	if err == nil {
		t.Fatal("expected import to fail")
	}
	if !strings.Contains(stderr, "row 2") {
		t.Fatalf("expected row error on stderr, got %q", stderr)
	}
}

func TestTemplateWritesWorkbook(t *testing.T) {
	originalLoad := loadConfigFunc
	t.Cleanup(func() { loadConfigFunc = originalLoad })
	loadConfigFunc = func() (config.Config, error) {
		t.Fatal("template must not load configuration")
		return config.Config{}, nil
	}

	path := filepath.Join(t.TempDir(), "template.xlsx")
	if _, _, err := execute(t, "template", "--output", path); err != nil {
		t.Fatalf("template failed: %v", err)
	}

	rows, err := spreadsheet.ReadFile(path)
	if err != nil {
		t.Fatalf("read template: %v", err)
	}
	if len(rows) < 1 || len(rows[0]) != len(ingest.Headers) {
		t.Fatalf("unexpected template rows: %v", rows)
	}
	for idx, name := range ingest.Headers {
		if rows[0][idx] != name {
			t.Fatalf("header %d: expected %q, got %v", idx, name, rows[0][idx])
		}
	}
}

func TestMigrateJSON(t *testing.T) {
	stubEnvironment(t, config.Config{})

	path := filepath.Join(t.TempDir(), "db.json")
	content := `[{"id": "legacy-1", "book": "OLD", "resultCode": "LG0001", "page": 9, "row": 1}]`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write legacy file: %v", err)
	}

	out, _, err := execute(t, "migrate-json", path)
	if err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if !strings.Contains(out, "migrated 1 formulas") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestMigrateJSONRequiresPath(t *testing.T) {
	stubEnvironment(t, config.Config{})

	if _, _, err := execute(t, "migrate-json"); err == nil {
		t.Fatal("expected error without a legacy path")
	}
}

func TestWipe(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("erase-all"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash code: %v", err)
	}
	stubEnvironment(t, config.Config{Admin: config.AdminConfig{WipeCodeHash: string(hash)}})

	if _, _, err := execute(t, "wipe", "--code", "wrong"); err == nil || !strings.Contains(err.Error(), "incorrect") {
		t.Fatalf("expected denied wipe, got %v", err)
	}

	out, _, err := execute(t, "wipe", "--code", "erase-all")
	if err != nil {
		t.Fatalf("wipe failed: %v", err)
	}
	if !strings.Contains(out, "All formulas were deleted") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestWipeDisabledWithoutHash(t *testing.T) {
	stubEnvironment(t, config.Config{})

	_, _, err := execute(t, "wipe", "--code", "anything")
	if err == nil || !strings.Contains(err.Error(), "disabled") {
		t.Fatalf("expected disabled wipe, got %v", err)
	}
}

func TestBookFlagOverridesConfig(t *testing.T) {
	stubEnvironment(t, config.Config{})
	database, err := mock.New(context.Background())
	if err != nil {
		t.Fatalf("mock database: %v", err)
	}
	openDatabaseFunc = func(config.DatabaseConfig) (*gorm.DB, error) { return database, nil }

	path := writeWorkbook(t,
		[]any{"YL0520", "DIANIX YELLOW", "D01121", 0.75, "PC20/1", "DG", "GL-9", "01/07/2025"},
	)
	if _, _, err := execute(t, "--book", "DATA2030", "import", path); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	out, _, err := execute(t, "list", "--json")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	var formulas []struct {
		ResultCode string `json:"resultCode"`
		Book       string `json:"book"`
	}
	if err := json.Unmarshal([]byte(out), &formulas); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	for _, formula := range formulas {
		if formula.ResultCode == "YL0520" {
			if formula.Book != "DATA2030" {
				t.Fatalf("expected book DATA2030, got %q", formula.Book)
			}
			return
		}
	}
	t.Fatalf("imported formula missing from %s", out)
}
