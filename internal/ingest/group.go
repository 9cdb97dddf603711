package ingest

import (
	"github.com/google/uuid"

	"colorledger/models"
)

var newFormulaID = uuid.NewString

// GroupKey identifies the formula a spreadsheet row contributes to.
type GroupKey struct {
	ClabNo     string
	Mat        string
	SeriesCode string
}

// BusinessKey is the natural identity of a formula used for deduplication.
type BusinessKey struct {
	ResultCode string
	YarnType   string
	YarnModel  string
}

// BusinessKeyOf returns the business key of f.
func BusinessKeyOf(f models.Formula) BusinessKey {
	return BusinessKey{ResultCode: f.ResultCode, YarnType: f.YarnType, YarnModel: f.YarnModel}
}

// Grouper accumulates fragments into formulas in first-seen order.
type Grouper struct {
	book     string
	slots    *SlotAllocator
	index    map[GroupKey]int
	formulas []models.Formula
}

// NewGrouper returns a Grouper labelling new formulas with book and
// addressing them with slots.
func NewGrouper(book string, slots *SlotAllocator) *Grouper {
	return &Grouper{
		book:  book,
		slots: slots,
		index: make(map[GroupKey]int),
	}
}

// Add appends the fragment's ingredient to its formula, creating the formula
// and allocating its slot on the first occurrence of the key.
func (g *Grouper) Add(fragment Fragment) {
	idx, ok := g.index[fragment.Key]
	if !ok {
		slot := g.slots.Next()
		g.formulas = append(g.formulas, models.Formula{
			ID:          newFormulaID(),
			Book:        g.book,
			ResultCode:  fragment.ColorCode,
			Date:        FormatDate(fragment.Date),
			YarnType:    fragment.Key.Mat,
			YarnModel:   fragment.Key.SeriesCode,
			Page:        slot.Page,
			Row:         slot.Row,
			SwatchColor: models.DefaultSwatchColor,
			Ingredients: []models.Ingredient{},
		})
		idx = len(g.formulas) - 1
		g.index[fragment.Key] = idx
	}

	ingredient := fragment.Ingredient
	ingredient.FormulaID = g.formulas[idx].ID
	g.formulas[idx].Ingredients = append(g.formulas[idx].Ingredients, ingredient)
}

// Formulas returns the formulas built so far in first-seen order.
func (g *Grouper) Formulas() []models.Formula {
	return g.formulas
}
