package spreadsheet

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"colorledger/internal/ingest"
)

// TemplateSheet is the sheet name used in the downloadable import template.
const TemplateSheet = "Formulas"

var (
	templateWidths = [ingest.RowWidth]float64{20, 40, 20, 15, 20, 15, 20, 15}

	templateSample = [ingest.RowWidth]any{
		"BN0173",
		"DIANIX RED S-G01",
		"D01231",
		0.2120,
		"PC16/2",
		"DG",
		"GL2506-005",
		time.Date(2025, time.June, 5, 0, 0, 0, 0, time.UTC),
	}
)

// WriteTemplate writes an import template workbook with the expected header
// row and a single sample row.
func WriteTemplate(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", TemplateSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, ingest.RowWidth)
	for idx, name := range ingest.Headers {
		header[idx] = name
	}
	if err := f.SetSheetRow(TemplateSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	sample := templateSample[:]
	if err := f.SetSheetRow(TemplateSheet, "A2", &sample); err != nil {
		return fmt.Errorf("write sample row: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	if err := f.SetCellStyle(TemplateSheet, "A1", columnName(ingest.RowWidth)+"1", headerStyle); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}

	if err := applyNumberFormat(f, ingest.ColMatPercent, "0.0000"); err != nil {
		return err
	}
	if err := applyNumberFormat(f, ingest.ColFormulaDate, "dd/mm/yyyy"); err != nil {
		return err
	}

	for idx, width := range templateWidths {
		col := columnName(idx + 1)
		if err := f.SetColWidth(TemplateSheet, col, col, width); err != nil {
			return fmt.Errorf("column width %s: %w", col, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write template: %w", err)
	}
	return nil
}

func applyNumberFormat(f *excelize.File, column int, format string) error {
	style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &format})
	if err != nil {
		return fmt.Errorf("number format %q: %w", format, err)
	}
	cell := columnName(column+1) + "2"
	if err := f.SetCellStyle(TemplateSheet, cell, cell, style); err != nil {
		return fmt.Errorf("apply number format %q: %w", format, err)
	}
	return nil
}

func columnName(col int) string {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return "A"
	}
	return name
}
