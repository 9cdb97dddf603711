package pages

import (
	"fmt"
	"html/template"
	"regexp"
	"strconv"
	"strings"

	"colorledger/models"
)

var swatchColorPattern = regexp.MustCompile(`^#(?:[0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)

// DefaultDash returns a dash when the provided value is empty or whitespace.
func DefaultDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "—"
	}
	return value
}

// PercentLabel renders an ingredient percentage with four decimals.
func PercentLabel(percentage float64) string {
	return strconv.FormatFloat(percentage, 'f', 4, 64)
}

// SlotLabel renders a notebook address.
func SlotLabel(page, row int) string {
	return fmt.Sprintf("P%d / R%d", page, row)
}

// SwatchStyle returns the inline style painting a swatch. Unknown values fall
// back to the default swatch color.
func SwatchStyle(color string) template.CSS {
	if !swatchColorPattern.MatchString(color) {
		color = models.DefaultSwatchColor
	}
	return template.CSS("background-color: " + color)
}
