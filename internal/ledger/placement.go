package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	applog "colorledger/internal/log"
	"colorledger/models"
)

var swatchPattern = regexp.MustCompile(`^#(?:[0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)

// PlacementUpdate changes where a formula is filed and how it is shown.
type PlacementUpdate struct {
	ID          string
	Book        string
	Page        int
	Row         int
	SwatchColor string
}

// ParseSlotNumber converts a JSON page or row value into an int. Numbers and
// numeric strings are accepted; anything else is a ValidationError.
func ParseSlotNumber(field string, raw any) (int, error) {
	var value float64
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		value = float64(v)
	case float64:
		value = v
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, &ValidationError{Field: field, Reason: "must be a number"}
		}
		value = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, &ValidationError{Field: field, Reason: "must be a number"}
		}
		value = parsed
	default:
		return 0, &ValidationError{Field: field, Reason: "must be a number"}
	}

	if math.IsNaN(value) || math.IsInf(value, 0) || value != math.Trunc(value) {
		return 0, &ValidationError{Field: field, Reason: "must be a whole number"}
	}
	return int(value), nil
}

func (u PlacementUpdate) validate() (placement, error) {
	if strings.TrimSpace(u.ID) == "" {
		return placement{}, &ValidationError{Field: "id", Reason: "must not be empty"}
	}

	book := strings.TrimSpace(u.Book)
	if book == "" {
		return placement{}, &ValidationError{Field: "book", Reason: "must not be empty"}
	}
	if u.Page < 1 {
		return placement{}, &ValidationError{Field: "page", Reason: "must be at least 1"}
	}
	if u.Row < 1 || u.Row > models.RowsPerPage {
		return placement{}, &ValidationError{Field: "row", Reason: fmt.Sprintf("must be between 1 and %d", models.RowsPerPage)}
	}

	swatch := strings.TrimSpace(u.SwatchColor)
	if swatch == "" {
		swatch = models.DefaultSwatchColor
	}
	if !swatchPattern.MatchString(swatch) {
		return placement{}, &ValidationError{Field: "swatchColor", Reason: "must be a #RGB or #RRGGBB color"}
	}

	return placement{Book: book, Page: u.Page, Row: u.Row, SwatchColor: strings.ToUpper(swatch)}, nil
}

// Update writes the placement fields of one formula and patches the cached
// copy in place. Ingredients are never touched.
func (s *Service) Update(ctx context.Context, update PlacementUpdate) (models.Formula, error) {
	p, err := update.validate()
	if err != nil {
		return models.Formula{}, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	affected, err := updatePlacement(ctx, s.db, update.ID, p, nowFunc().UTC())
	if err != nil {
		applog.Error(ctx, "update formula failed", "error", err, "id", update.ID)
		return models.Formula{}, &StoreWriteError{Op: "update formula", Err: err}
	}
	if affected == 0 {
		return models.Formula{}, ErrNotFound
	}

	patched := s.cache.Patch(update.ID, func(f *models.Formula) {
		f.Book = p.Book
		f.Page = p.Page
		f.Row = p.Row
		f.SwatchColor = p.SwatchColor
	})
	if !patched {
		applog.Warn(ctx, "updated formula missing from cache, reloading", "id", update.ID)
		s.reload(ctx)
	}

	formula, ok := s.cache.Load().Lookup(update.ID)
	if !ok {
		return models.Formula{}, ErrNotFound
	}
	applog.Info(ctx, "formula updated", "id", update.ID, "page", p.Page, "row", p.Row)
	return formula.Clone(), nil
}

// Delete removes one formula with its ingredients from the store and the cache.
func (s *Service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return &ValidationError{Field: "id", Reason: "must not be empty"}
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, err := deleteFormula(ctx, s.db, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		applog.Error(ctx, "delete formula failed", "error", err, "id", id)
		return &StoreWriteError{Op: "delete formula", Err: err}
	}

	if !s.cache.Remove(id) {
		applog.Warn(ctx, "deleted formula missing from cache, reloading", "id", id)
		s.reload(ctx)
	}
	applog.Info(ctx, "formula deleted", "id", id)
	return nil
}
