package ingest

import (
	"errors"
	"time"

	"colorledger/models"
)

// Fragment is the validated content of one spreadsheet row: the ingredient
// it contributes and the keys of the formula it belongs to.
type Fragment struct {
	Row        int
	Key        GroupKey
	ColorCode  string
	Date       time.Time
	Ingredient models.Ingredient
}

// ValidateRow checks one row for completeness and type correctness.
// The returned error is always a *RowValidationError.
func ValidateRow(row Row) (Fragment, error) {
	clabNo, ok := requiredText(row.ClabNo)
	if !ok {
		return Fragment{}, missing(row.Number, ColClabNo)
	}
	mat, ok := requiredText(row.Mat)
	if !ok {
		return Fragment{}, missing(row.Number, ColMat)
	}
	seriesCode, ok := requiredText(row.SeriesCode)
	if !ok {
		return Fragment{}, missing(row.Number, ColSeriesCode)
	}
	materialCode, ok := requiredText(row.MaterialCode)
	if !ok {
		return Fragment{}, missing(row.Number, ColMaterialCode)
	}

	percentage, ok := cellNumber(row.MatPercent)
	if !ok {
		return Fragment{}, &RowValidationError{Row: row.Number, Problem: ProblemPercentNotNumeric, Field: Headers[ColMatPercent]}
	}
	if percentage < 0 {
		return Fragment{}, &RowValidationError{Row: row.Number, Problem: ProblemPercentNegative, Field: Headers[ColMatPercent]}
	}

	date, ok := NormalizeDate(row.FormulaDate)
	if !ok {
		return Fragment{}, &RowValidationError{Row: row.Number, Problem: ProblemInvalidDate, Field: Headers[ColFormulaDate]}
	}

	name, _ := cellText(row.MaterialName)
	colorCode, _ := cellText(row.ColorCode)

	return Fragment{
		Row:       row.Number,
		Key:       GroupKey{ClabNo: clabNo, Mat: mat, SeriesCode: seriesCode},
		ColorCode: colorCode,
		Date:      date,
		Ingredient: models.Ingredient{
			MotherCode: materialCode,
			Name:       name,
			Percentage: percentage,
		},
	}, nil
}

// ValidateRows destructures and validates every data row, collecting one
// error per failing row instead of stopping at the first. Wholly blank rows
// are skipped. firstRow is the spreadsheet row number of rows[0].
func ValidateRows(rows [][]any, firstRow int) ([]Fragment, []error) {
	fragments := make([]Fragment, 0, len(rows))
	var errs []error

	for idx, cells := range rows {
		number := firstRow + idx
		if IsBlankRow(cells) {
			continue
		}

		row, err := NewRow(number, cells)
		if err != nil {
			detail := err.Error()
			var malformed *MalformedRowError
			if errors.As(err, &malformed) {
				detail = malformed.Reason
			}
			errs = append(errs, &RowValidationError{
				Row:     number,
				Problem: ProblemMalformed,
				Detail:  detail,
				Err:     err,
			})
			continue
		}

		fragment, err := ValidateRow(row)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		fragments = append(fragments, fragment)
	}

	return fragments, errs
}

func requiredText(v any) (string, bool) {
	text, ok := cellText(v)
	if !ok || text == "" {
		return "", false
	}
	return text, true
}

func missing(row, column int) error {
	return &RowValidationError{Row: row, Problem: ProblemMissingField, Field: Headers[column]}
}
