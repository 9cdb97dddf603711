package ingest

import "colorledger/models"

// Slot is a notebook address.
type Slot struct {
	Page int `json:"page"`
	Row  int `json:"row"`
}

// SlotAllocator hands out consecutive notebook slots, wrapping to a new page
// after models.RowsPerPage rows.
type SlotAllocator struct {
	page int
	row  int
}

// NewSlotAllocator seeds an allocator from the high-water mark of the
// existing formulas: the highest page, and the highest row on that page.
func NewSlotAllocator(existing []models.Formula) *SlotAllocator {
	page := 0
	for _, formula := range existing {
		if formula.Page > page {
			page = formula.Page
		}
	}

	row := 0
	for _, formula := range existing {
		if formula.Page == page && formula.Row > row {
			row = formula.Row
		}
	}

	return SeedSlotAllocator(page, row)
}

// SeedSlotAllocator starts allocation after the given slot. Pages below 1
// restart at page 1 row 0.
func SeedSlotAllocator(page, row int) *SlotAllocator {
	if page < 1 {
		page, row = 1, 0
	}
	if row < 0 {
		row = 0
	}
	return &SlotAllocator{page: page, row: row}
}

// Next returns the slot following the last one handed out.
func (a *SlotAllocator) Next() Slot {
	a.row++
	if a.row > models.RowsPerPage {
		a.row = 1
		a.page++
	}
	return Slot{Page: a.page, Row: a.row}
}

// HighWater returns the most recently allocated (or seeded) slot.
func (a *SlotAllocator) HighWater() Slot {
	return Slot{Page: a.page, Row: a.row}
}
