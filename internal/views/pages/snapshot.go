package pages

import (
	"encoding/json"
	"html/template"
	"sort"

	"colorledger/internal/analytics"
	"colorledger/models"
)

// LedgerSnapshot aggregates the data required to render the dashboard.
type LedgerSnapshot struct {
	Book        string
	Formulas    []models.Formula
	Summary     analytics.Summary
	Flash       string
	WipeEnabled bool
}

// NotebookPage is one printed page of the formula notebook.
type NotebookPage struct {
	Number   int
	Formulas []models.Formula
}

// NewLedgerSnapshot orders formulas by notebook address.
func NewLedgerSnapshot(book string, formulas []models.Formula, summary analytics.Summary) LedgerSnapshot {
	sort.SliceStable(formulas, func(i, j int) bool {
		if formulas[i].Page == formulas[j].Page {
			return formulas[i].Row < formulas[j].Row
		}
		return formulas[i].Page < formulas[j].Page
	})

	return LedgerSnapshot{
		Book:     book,
		Formulas: formulas,
		Summary:  summary,
	}
}

// EmptyLedgerSnapshot returns a snapshot with no formulas.
func EmptyLedgerSnapshot() LedgerSnapshot {
	return LedgerSnapshot{Summary: analytics.Aggregate(nil)}
}

// Pages groups the formulas by notebook page in ascending order.
func (s LedgerSnapshot) Pages() []NotebookPage {
	var pages []NotebookPage
	for _, formula := range s.Formulas {
		if n := len(pages); n == 0 || pages[n-1].Number != formula.Page {
			pages = append(pages, NotebookPage{Number: formula.Page})
		}
		last := &pages[len(pages)-1]
		last.Formulas = append(last.Formulas, formula)
	}
	return pages
}

type snapshotSeeds struct {
	Book      string            `json:"book"`
	Formulas  []models.Formula  `json:"formulas"`
	Analytics analytics.Summary `json:"analytics"`
}

// SeedsJSON encodes the snapshot for client-side scripts. encoding/json
// escapes markup characters, so the payload is safe inside a script element.
func (s LedgerSnapshot) SeedsJSON() template.JS {
	formulas := s.Formulas
	if formulas == nil {
		formulas = []models.Formula{}
	}
	data, err := json.Marshal(snapshotSeeds{Book: s.Book, Formulas: formulas, Analytics: s.Summary})
	if err != nil {
		return template.JS("{}")
	}
	return template.JS(data)
}
