package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// DefaultSwatchColor is assigned to formulas whose swatch has not been picked yet.
	DefaultSwatchColor = "#CCCCCC"
	// RowsPerPage is the number of formula rows printed on one notebook page.
	RowsPerPage = 12
)

// Formula is a target color with its ingredient list and notebook address.
type Formula struct {
	ID          string       `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Book        string       `gorm:"index" json:"book"`
	ResultCode  string       `gorm:"index:idx_formulas_business_key" json:"resultCode"`
	Date        string       `json:"date"`
	YarnType    string       `gorm:"index:idx_formulas_business_key" json:"yarnType"`
	YarnModel   string       `gorm:"index:idx_formulas_business_key" json:"yarnModel"`
	Page        int          `gorm:"not null;index:idx_formulas_slot" json:"page"`
	Row         int          `gorm:"not null;index:idx_formulas_slot" json:"row"`
	SwatchColor string       `gorm:"not null;default:'#CCCCCC'" json:"swatchColor"`
	Ingredients []Ingredient `gorm:"foreignKey:FormulaID;constraint:OnDelete:CASCADE" json:"ingredients"`
	CreatedAt   time.Time    `json:"-"`
	UpdatedAt   time.Time    `json:"-"`
}

// BeforeCreate assigns an opaque identifier when none was provided.
func (f *Formula) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

// Clone returns a copy that shares no ingredient storage with f.
func (f Formula) Clone() Formula {
	out := f
	if f.Ingredients != nil {
		out.Ingredients = make([]Ingredient, len(f.Ingredients))
		copy(out.Ingredients, f.Ingredients)
	}
	return out
}
