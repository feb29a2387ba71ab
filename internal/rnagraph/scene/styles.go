package scene

import "rna-graph/internal/rnagraph/models"

// ============================================================
// Styles
// ============================================================

const (
	BaseSize     = 5.0
	SelectedSize = 8.0
)

const (
	DashSolid    = "solid"
	DashDot      = "dot"
	DashDash     = "dash"
	DashLongDash = "longdash"
	DashDashDot  = "dashdot"
	DashLongDot  = "longdashdot"
)

var validDashes = map[string]bool{
	DashSolid:    true,
	DashDot:      true,
	DashDash:     true,
	DashLongDash: true,
	DashDashDot:  true,
	DashLongDot:  true,
}

// ValidDash допустимые значения line.dash
func ValidDash(dash string) bool {
	return validDashes[dash]
}

var (
	lineDefault      = models.Color{R: 0, G: 0, B: 0}
	lineNonCanonical = models.Color{R: 255, G: 0, B: 255}
	lineStacking     = models.Color{R: 0, G: 191, B: 191}
)

// DefaultStyle стиль слоя линий до пользовательских правок
func DefaultStyle(t models.InteractionType) models.LineStyle {
	switch t {
	case models.Phosphodiester:
		return models.LineStyle{Color: lineDefault.String(), Dash: DashLongDash, Width: 6}
	case models.CanonicalPair:
		return models.LineStyle{Color: lineDefault.String(), Dash: DashSolid, Width: 4}
	case models.NonCanonicalPair:
		return models.LineStyle{Color: lineNonCanonical.String(), Dash: DashSolid, Width: 4}
	case models.Stacking:
		return models.LineStyle{Color: lineStacking.String(), Dash: DashLongDash, Width: 6}
	}
	return models.LineStyle{Color: lineDefault.String(), Dash: DashSolid, Width: 4}
}
