package models

// Ingredient is one colorant contribution owned by a single Formula.
type Ingredient struct {
	ID         uint    `gorm:"primaryKey;autoIncrement" json:"-"`
	FormulaID  string  `gorm:"type:varchar(64);not null;index" json:"-"` // Parent Formula
	MotherCode string  `gorm:"not null" json:"motherCode"`
	Name       string  `json:"name"`
	Percentage float64 `gorm:"not null" json:"percentage"`
}
