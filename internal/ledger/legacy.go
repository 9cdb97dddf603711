package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/google/uuid"

	applog "colorledger/internal/log"
	"colorledger/models"
)

// MigratedSuffix is appended to a legacy file once it has been imported.
const MigratedSuffix = ".migrated"

type legacyIngredient struct {
	MotherCode string  `json:"motherCode"`
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
}

type legacyFormula struct {
	ID          string             `json:"id"`
	Book        string             `json:"book"`
	ResultCode  string             `json:"resultCode"`
	Date        string             `json:"date"`
	YarnType    string             `json:"yarnType"`
	YarnModel   string             `json:"yarnModel"`
	Page        int                `json:"page"`
	Row         int                `json:"row"`
	SwatchColor string             `json:"swatchColor"`
	Formula     []legacyIngredient `json:"formula"`
}

func (l legacyFormula) model() models.Formula {
	formula := models.Formula{
		ID:          strings.TrimSpace(l.ID),
		Book:        l.Book,
		ResultCode:  l.ResultCode,
		Date:        l.Date,
		YarnType:    l.YarnType,
		YarnModel:   l.YarnModel,
		Page:        l.Page,
		Row:         l.Row,
		SwatchColor: l.SwatchColor,
		Ingredients: make([]models.Ingredient, 0, len(l.Formula)),
	}
	if formula.ID == "" {
		formula.ID = uuid.NewString()
	}
	if formula.SwatchColor == "" {
		formula.SwatchColor = models.DefaultSwatchColor
	}
	for _, ingredient := range l.Formula {
		formula.Ingredients = append(formula.Ingredients, models.Ingredient{
			FormulaID:  formula.ID,
			MotherCode: ingredient.MotherCode,
			Name:       ingredient.Name,
			Percentage: ingredient.Percentage,
		})
	}
	return formula
}

// MigrateLegacyJSON upserts the formulas of a legacy JSON export by id and
// renames the file to path+MigratedSuffix. Missing files and files that were
// already migrated are skipped. It returns the number of formulas migrated.
func (s *Service) MigrateLegacyJSON(ctx context.Context, path string) (int, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return 0, nil
	}

	marker := path + MigratedSuffix
	if _, err := os.Stat(marker); err == nil {
		applog.Debug(ctx, "legacy file already migrated", "path", path)
		return 0, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read legacy file: %w", err)
	}

	var records []legacyFormula
	if err := json.Unmarshal(data, &records); err != nil {
		return 0, fmt.Errorf("decode legacy file: %w", err)
	}

	formulas := make([]models.Formula, len(records))
	for idx, record := range records {
		formulas[idx] = record.model()
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := upsertFormulas(ctx, s.db, formulas); err != nil {
		applog.Error(ctx, "legacy migration failed", "error", err, "path", path)
		return 0, &StoreWriteError{Op: "migrate legacy formulas", Err: err}
	}

	s.reload(ctx)

	if err := os.Rename(path, marker); err != nil {
		return len(formulas), fmt.Errorf("mark legacy file migrated: %w", err)
	}
	applog.Info(ctx, "legacy formulas migrated", "path", path, "formulas", len(formulas))
	return len(formulas), nil
}
