package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ErrNoSheets is returned for workbooks without any worksheet.
var ErrNoSheets = errors.New("spreadsheet: workbook has no sheets")

// ReadFile opens the workbook at path and returns the typed cells of its
// first sheet. The header row is returned as-is.
func ReadFile(path string) ([][]any, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %q: %w", path, err)
	}
	defer f.Close()

	return readFirstSheet(f)
}

// Read is ReadFile for an uploaded workbook stream.
func Read(r io.Reader) ([][]any, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	return readFirstSheet(f)
}

func readFirstSheet(f *excelize.File) ([][]any, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}
	sheet := sheets[0]

	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %q: %w", sheet, err)
	}

	c := &converter{
		file:   f,
		sheet:  sheet,
		styles: make(map[int]bool),
	}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		c.date1904 = *props.Date1904
	}

	rows := make([][]any, len(raw))
	for rowIdx, values := range raw {
		cells := make([]any, len(values))
		for colIdx, value := range values {
			cell, err := c.cell(colIdx+1, rowIdx+1, value)
			if err != nil {
				return nil, err
			}
			cells[colIdx] = cell
		}
		rows[rowIdx] = cells
	}
	return rows, nil
}

// converter turns raw cell text into string, float64, bool or time.Time.
type converter struct {
	file     *excelize.File
	sheet    string
	date1904 bool
	// styles caches whether a style id carries a date number format.
	styles map[int]bool
}

func (c *converter) cell(col, row int, value string) (any, error) {
	if value == "" {
		return nil, nil
	}

	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return nil, err
	}

	cellType, err := c.file.GetCellType(c.sheet, name)
	if err != nil {
		return nil, fmt.Errorf("cell %s: %w", name, err)
	}

	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula, excelize.CellTypeError:
		return value, nil
	case excelize.CellTypeBool:
		return value == "1" || strings.EqualFold(value, "true"), nil
	case excelize.CellTypeDate:
		if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
			return t, nil
		}
		return value, nil
	}

	number, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return value, nil
	}

	dated, err := c.dateStyled(name)
	if err != nil {
		return nil, err
	}
	if !dated {
		return number, nil
	}

	t, err := excelize.ExcelDateToTime(number, c.date1904)
	if err != nil {
		return number, nil
	}
	return t, nil
}

func (c *converter) dateStyled(cell string) (bool, error) {
	styleID, err := c.file.GetCellStyle(c.sheet, cell)
	if err != nil {
		return false, fmt.Errorf("cell %s style: %w", cell, err)
	}
	if dated, ok := c.styles[styleID]; ok {
		return dated, nil
	}

	style, err := c.file.GetStyle(styleID)
	if err != nil {
		return false, fmt.Errorf("style %d: %w", styleID, err)
	}

	dated := false
	if style != nil {
		dated = builtinDateFormat(style.NumFmt)
		if !dated && style.CustomNumFmt != nil {
			dated = customDateFormat(*style.CustomNumFmt)
		}
	}
	c.styles[styleID] = dated
	return dated, nil
}

func builtinDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 22:
		return true
	case id >= 45 && id <= 47:
		return true
	}
	return false
}

// customDateFormat reports whether a format code renders a calendar date.
// Quoted literals and bracketed sections such as colors are ignored.
func customDateFormat(code string) bool {
	var b strings.Builder
	quoted, bracketed := false, false
	for _, r := range code {
		switch {
		case r == '"':
			quoted = !quoted
		case quoted:
		case r == '[':
			bracketed = true
		case r == ']':
			bracketed = false
		case bracketed:
		default:
			b.WriteRune(r)
		}
	}

	lower := strings.ToLower(b.String())
	return strings.ContainsAny(lower, "dy") || strings.Contains(lower, "mmm") ||
		(strings.Contains(lower, "m") && !strings.ContainsAny(lower, "hs"))
}
