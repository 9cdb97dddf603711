package ledger

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"colorledger/models"
)

const insertBatchSize = 200

// joinedRow is one line of the formula/ingredient left join. A NULL
// ingredient id marks a formula that has no ingredients.
type joinedRow struct {
	ID           string
	Book         string
	ResultCode   string
	Date         string
	YarnType     string
	YarnModel    string
	Page         int
	Row          int
	SwatchColor  string
	IngredientID sql.NullInt64
	MotherCode   sql.NullString
	Name         sql.NullString
	Percentage   sql.NullFloat64
}

const reloadSelect = `f.id, f.book, f.result_code, f."date", f.yarn_type, f.yarn_model, f.page, f."row", f.swatch_color,
	i.id AS ingredient_id, i.mother_code, i.name, i.percentage`

// loadFormulas reads every formula with its ingredients ordered by page and row.
func loadFormulas(ctx context.Context, database *gorm.DB) ([]models.Formula, error) {
	rows, err := database.WithContext(ctx).
		Table("formulas AS f").
		Select(reloadSelect).
		Joins("LEFT JOIN ingredients AS i ON i.formula_id = f.id").
		Order(`f.page ASC, f."row" ASC, f.id ASC, i.id ASC`).
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	formulas := []models.Formula{}
	for rows.Next() {
		var row joinedRow
		if err := database.ScanRows(rows, &row); err != nil {
			return nil, err
		}

		last := len(formulas) - 1
		if last < 0 || formulas[last].ID != row.ID {
			formulas = append(formulas, models.Formula{
				ID:          row.ID,
				Book:        row.Book,
				ResultCode:  row.ResultCode,
				Date:        row.Date,
				YarnType:    row.YarnType,
				YarnModel:   row.YarnModel,
				Page:        row.Page,
				Row:         row.Row,
				SwatchColor: row.SwatchColor,
				Ingredients: []models.Ingredient{},
			})
			last++
		}

		if !row.IngredientID.Valid {
			continue
		}
		formulas[last].Ingredients = append(formulas[last].Ingredients, models.Ingredient{
			ID:         uint(row.IngredientID.Int64),
			FormulaID:  row.ID,
			MotherCode: row.MotherCode.String,
			Name:       row.Name.String,
			Percentage: row.Percentage.Float64,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return formulas, nil
}

// insertFormulas writes formulas and their ingredients in one transaction.
func insertFormulas(ctx context.Context, database *gorm.DB, formulas []models.Formula) error {
	return database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		headers := make([]models.Formula, len(formulas))
		var ingredients []models.Ingredient
		for idx, formula := range formulas {
			headers[idx] = formula
			headers[idx].Ingredients = nil
			for _, ingredient := range formula.Ingredients {
				ingredient.ID = 0
				ingredient.FormulaID = formula.ID
				ingredients = append(ingredients, ingredient)
			}
		}

		if err := tx.Omit(clause.Associations).CreateInBatches(&headers, insertBatchSize).Error; err != nil {
			return err
		}
		if len(ingredients) == 0 {
			return nil
		}
		return tx.CreateInBatches(&ingredients, insertBatchSize).Error
	})
}

// placement holds the fields a targeted update may change.
type placement struct {
	Book        string
	Page        int
	Row         int
	SwatchColor string
}

func updatePlacement(ctx context.Context, database *gorm.DB, id string, p placement, now time.Time) (int64, error) {
	result := database.WithContext(ctx).
		Model(&models.Formula{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"book":         p.Book,
			"page":         p.Page,
			"row":          p.Row,
			"swatch_color": p.SwatchColor,
			"updated_at":   now,
		})
	return result.RowsAffected, result.Error
}

func deleteFormula(ctx context.Context, database *gorm.DB, id string) (int64, error) {
	var affected int64
	err := database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("formula_id = ?", id).Delete(&models.Ingredient{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.Formula{})
		if result.Error != nil {
			return result.Error
		}
		affected = result.RowsAffected
		if affected == 0 {
			return ErrNotFound
		}
		return nil
	})
	return affected, err
}

func deleteAll(ctx context.Context, database *gorm.DB) error {
	return database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := all.Delete(&models.Ingredient{}).Error; err != nil {
			return err
		}
		return all.Delete(&models.Formula{}).Error
	})
}

// upsertFormulas inserts or replaces formulas by id and replaces their
// ingredient lists.
func upsertFormulas(ctx context.Context, database *gorm.DB, formulas []models.Formula) error {
	return database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, formula := range formulas {
			header := formula
			header.Ingredients = nil
			err := tx.Omit(clause.Associations).
				Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "id"}},
					DoUpdates: clause.AssignmentColumns([]string{"book", "result_code", "date", "yarn_type", "yarn_model", "page", "row", "swatch_color", "updated_at"}),
				}).
				Create(&header).Error
			if err != nil {
				return err
			}

			if err := tx.Where("formula_id = ?", header.ID).Delete(&models.Ingredient{}).Error; err != nil {
				return err
			}
			if len(formula.Ingredients) == 0 {
				continue
			}

			ingredients := make([]models.Ingredient, len(formula.Ingredients))
			for idx, ingredient := range formula.Ingredients {
				ingredient.ID = 0
				ingredient.FormulaID = header.ID
				ingredients[idx] = ingredient
			}
			if err := tx.Create(&ingredients).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
