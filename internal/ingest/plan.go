package ingest

import "colorledger/models"

// Batch is the outcome of planning an import.
type Batch struct {
	// Formulas are the new, deduplicated formulas ready to be stored.
	Formulas []models.Formula
	// Grouped counts distinct group keys found in the spreadsheet.
	Grouped int
	// Duplicates counts grouped formulas dropped by business key.
	Duplicates int
}

// Plan validates, groups, addresses and deduplicates spreadsheet data rows
// against the existing formulas. Any row error aborts the batch: the
// returned Batch is empty whenever errs is non-empty.
func Plan(rows [][]any, firstRow int, book string, existing []models.Formula) (Batch, []error) {
	fragments, errs := ValidateRows(rows, firstRow)
	if len(errs) > 0 {
		return Batch{}, errs
	}

	grouper := NewGrouper(book, NewSlotAllocator(existing))
	for _, fragment := range fragments {
		grouper.Add(fragment)
	}

	grouped := grouper.Formulas()
	kept, dropped := Dedup(grouped, existing)

	return Batch{
		Formulas:   kept,
		Grouped:    len(grouped),
		Duplicates: dropped,
	}, nil
}
