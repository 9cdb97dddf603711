// Package analytics summarizes the formula ledger for dashboards.
package analytics

import (
	"sort"
	"time"

	"colorledger/internal/ingest"
	"colorledger/models"
)

// TopIngredientLimit caps the ingredient leaderboard.
const TopIngredientLimit = 5

// Count is one histogram bucket.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// YearTrend holds per-month formula counts for a single year, January first.
type YearTrend struct {
	Year   int     `json:"year"`
	Months [12]int `json:"months"`
}

// IngredientUsage counts how many formula lines use a mother code.
type IngredientUsage struct {
	MotherCode string `json:"motherCode"`
	Name       string `json:"name"`
	Count      int    `json:"count"`
}

// Summary is the aggregate view of a set of formulas.
type Summary struct {
	TotalFormulas  int               `json:"totalFormulas"`
	DistinctBooks  int               `json:"distinctBooks"`
	LatestDate     string            `json:"latestDate,omitempty"`
	ByBook         []Count           `json:"byBook"`
	ByYarnType     []Count           `json:"byYarnType"`
	Trend          []YearTrend       `json:"trend"`
	TopIngredients []IngredientUsage `json:"topIngredients"`
}

// Aggregate computes the Summary for formulas. Formulas whose date cannot be
// parsed are counted in the totals but left out of the trend.
func Aggregate(formulas []models.Formula) Summary {
	books := newTally()
	yarnTypes := newTally()
	ingredients := newIngredientTally()
	years := make(map[int]*YearTrend)

	var latest time.Time
	for _, formula := range formulas {
		books.add(formula.Book)
		yarnTypes.add(formula.YarnType)

		for _, ingredient := range formula.Ingredients {
			ingredients.add(ingredient)
		}

		date, ok := ingest.NormalizeDate(formula.Date)
		if !ok {
			continue
		}
		trend, ok := years[date.Year()]
		if !ok {
			trend = &YearTrend{Year: date.Year()}
			years[date.Year()] = trend
		}
		trend.Months[date.Month()-1]++
		if date.After(latest) {
			latest = date
		}
	}

	summary := Summary{
		TotalFormulas:  len(formulas),
		DistinctBooks:  len(books.order),
		ByBook:         books.sorted(),
		ByYarnType:     yarnTypes.sorted(),
		Trend:          make([]YearTrend, 0, len(years)),
		TopIngredients: ingredients.top(TopIngredientLimit),
	}
	if !latest.IsZero() {
		summary.LatestDate = ingest.FormatDate(latest)
	}

	for _, trend := range years {
		summary.Trend = append(summary.Trend, *trend)
	}
	sort.Slice(summary.Trend, func(i, j int) bool {
		return summary.Trend[i].Year > summary.Trend[j].Year
	})

	return summary
}

// tally counts labels and remembers first-seen order for stable ties.
type tally struct {
	counts map[string]int
	order  []string
}

func newTally() *tally {
	return &tally{counts: make(map[string]int)}
}

func (t *tally) add(label string) {
	if _, ok := t.counts[label]; !ok {
		t.order = append(t.order, label)
	}
	t.counts[label]++
}

func (t *tally) sorted() []Count {
	out := make([]Count, 0, len(t.order))
	for _, label := range t.order {
		out = append(out, Count{Label: label, Count: t.counts[label]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

type ingredientTally struct {
	usage map[string]*IngredientUsage
	order []string
}

func newIngredientTally() *ingredientTally {
	return &ingredientTally{usage: make(map[string]*IngredientUsage)}
}

func (t *ingredientTally) add(ingredient models.Ingredient) {
	usage, ok := t.usage[ingredient.MotherCode]
	if !ok {
		usage = &IngredientUsage{MotherCode: ingredient.MotherCode}
		t.usage[ingredient.MotherCode] = usage
		t.order = append(t.order, ingredient.MotherCode)
	}
	usage.Count++
	if usage.Name == "" {
		usage.Name = ingredient.Name
	}
}

func (t *ingredientTally) top(limit int) []IngredientUsage {
	out := make([]IngredientUsage, 0, len(t.order))
	for _, code := range t.order {
		out = append(out, *t.usage[code])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
