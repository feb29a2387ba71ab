package models

import (
	"fmt"
	"strconv"
)

// ============================================================
// Color
// ============================================================

// DimAlpha прозрачность для невыбранных точек
const DimAlpha = 0.6

type Color struct {
	R uint8
	G uint8
	B uint8
}

func (c Color) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// Dim возвращает вариант цвета с пониженной непрозрачностью
func (c Color) Dim() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, strconv.FormatFloat(DimAlpha, 'f', -1, 64))
}

// Hex нужен для SVG-превью
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
