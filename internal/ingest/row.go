// Package ingest turns raw spreadsheet rows into validated, grouped and
// page/row-addressed formulas. Nothing in this package performs I/O.
package ingest

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Column positions of the import spreadsheet.
const (
	ColColorCode = iota
	ColMaterialName
	ColMaterialCode
	ColMatPercent
	ColMat
	ColSeriesCode
	ColClabNo
	ColFormulaDate

	RowWidth
)

// Headers lists the import spreadsheet headers in column order.
var Headers = [RowWidth]string{
	"COLOR_CODE",
	"MATERIALNAME",
	"MATERIAL_CODE",
	"MAT_PERCENT",
	"MAT",
	"SERIES_CODE",
	"CLAB_NO",
	"FORMULA_DATE",
}

// Row is a single data row destructured into the fixed import columns.
// Cell values are nil, string, float64, int, int64 or time.Time.
type Row struct {
	Number       int
	ColorCode    any
	MaterialName any
	MaterialCode any
	MatPercent   any
	Mat          any
	SeriesCode   any
	ClabNo       any
	FormulaDate  any
}

// NewRow destructures raw cells into a Row. Missing trailing cells are
// treated as blank; extra non-blank cells or unsupported cell types make the
// row malformed.
func NewRow(number int, cells []any) (Row, error) {
	for idx, cell := range cells {
		if !supportedCell(cell) {
			return Row{}, &MalformedRowError{
				Row:    number,
				Reason: fmt.Sprintf("column %d holds unsupported value of type %T", idx+1, cell),
			}
		}
		if idx >= RowWidth && !blankCell(cell) {
			return Row{}, &MalformedRowError{
				Row:    number,
				Reason: fmt.Sprintf("unexpected value in column %d, expected %d columns", idx+1, RowWidth),
			}
		}
	}

	var fixed [RowWidth]any
	copy(fixed[:], cells)

	return Row{
		Number:       number,
		ColorCode:    fixed[ColColorCode],
		MaterialName: fixed[ColMaterialName],
		MaterialCode: fixed[ColMaterialCode],
		MatPercent:   fixed[ColMatPercent],
		Mat:          fixed[ColMat],
		SeriesCode:   fixed[ColSeriesCode],
		ClabNo:       fixed[ColClabNo],
		FormulaDate:  fixed[ColFormulaDate],
	}, nil
}

// IsBlankRow reports whether every cell of the row is empty.
func IsBlankRow(cells []any) bool {
	for _, cell := range cells {
		if !blankCell(cell) {
			return false
		}
	}
	return true
}

func supportedCell(v any) bool {
	switch v.(type) {
	case nil, string, float64, int, int64, time.Time:
		return true
	default:
		return false
	}
}

func blankCell(v any) bool {
	s, ok := cellText(v)
	return !ok || s == ""
}

// cellText renders a cell as trimmed text. The boolean is false for nil cells.
func cellText(v any) (string, bool) {
	switch value := v.(type) {
	case nil:
		return "", false
	case string:
		return strings.TrimSpace(value), true
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64), true
	case int:
		return strconv.Itoa(value), true
	case int64:
		return strconv.FormatInt(value, 10), true
	case time.Time:
		if value.IsZero() {
			return "", true
		}
		return FormatDate(value), true
	default:
		return strings.TrimSpace(fmt.Sprint(value)), true
	}
}

// cellNumber interprets a cell as a finite number. Numeric text is accepted.
func cellNumber(v any) (float64, bool) {
	var n float64
	switch value := v.(type) {
	case float64:
		n = value
	case int:
		n = float64(value)
	case int64:
		n = float64(value)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0, false
		}
		n = parsed
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
