package mock

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"colorledger/internal/db"
	applog "colorledger/internal/log"
	"colorledger/models"
)

// New returns an in-memory sqlite database seeded with representative dye house data.
func New(ctx context.Context) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database")

	dsn := fmt.Sprintf("file:colorledger-mock-%d?mode=memory&cache=shared", time.Now().UnixNano())
	database, err := gorm.Open(db.Dialector(dsn), db.GormConfig(logger.Silent))
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(database); err != nil {
		return nil, err
	}

	if err := seed(ctx, database); err != nil {
		return nil, err
	}

	applog.Debug(ctx, "mock database ready")
	return database, nil
}

func seed(ctx context.Context, database *gorm.DB) error {
	applog.Debug(ctx, "seeding mock database")

	formulas := []models.Formula{
		{
			Book:        "DATA2025",
			ResultCode:  "BN0173",
			Date:        "05/03/2025",
			YarnType:    "PC16/2",
			YarnModel:   "DG",
			Page:        1,
			Row:         1,
			SwatchColor: "#8B1A1A",
			Ingredients: []models.Ingredient{
				{MotherCode: "D01231", Name: "DIANIX RED S-G01", Percentage: 0.2120},
				{MotherCode: "D01121", Name: "DIANIX YELLOW S-6G", Percentage: 0.2300},
			},
		},
		{
			Book:        "DATA2025",
			ResultCode:  "NV0412",
			Date:        "18/04/2025",
			YarnType:    "PC16/2",
			YarnModel:   "TW",
			Page:        1,
			Row:         2,
			SwatchColor: "#1F2A44",
			Ingredients: []models.Ingredient{
				{MotherCode: "D02210", Name: "DIANIX NAVY S-2G", Percentage: 1.8500},
				{MotherCode: "D01231", Name: "DIANIX RED S-G01", Percentage: 0.0450},
			},
		},
		{
			Book:        "DATA2024",
			ResultCode:  "GR0088",
			Date:        "11/12/2024",
			YarnType:    "CVC30/1",
			YarnModel:   "DG",
			Page:        1,
			Row:         3,
			SwatchColor: models.DefaultSwatchColor,
			Ingredients: []models.Ingredient{
				{MotherCode: "R10045", Name: "REMAZOL GREEN 3B", Percentage: 0.9000},
			},
		},
	}

	return database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for idx := range formulas {
			if err := tx.Create(&formulas[idx]).Error; err != nil {
				return err
			}
		}
		applog.Debug(ctx, "mock database seeded", "formulas", len(formulas))
		return nil
	})
}
