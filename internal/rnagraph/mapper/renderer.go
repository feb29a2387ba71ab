package mapper

import (
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"

	"rna-graph/internal/rnagraph/models"
)

const (
	previewWidth   = 800.0
	previewHeight  = 600.0
	previewPadding = 20.0
)

// ============================================================
// Renderer
// ============================================================

// Renderer ортографическая проекция сцены на плоскость XY
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render собирает SVG из видимых слоев сцены
func (r *Renderer) Render(scene *models.Scene) (string, error) {
	if scene == nil {
		return "", fmt.Errorf("scene is nil")
	}
	if len(scene.PointLayers) == 0 {
		return "", fmt.Errorf("scene has no layers")
	}

	proj := newProjection(scene)

	var elements []string
	elements = append(elements, r.renderLines(scene, proj)...)
	elements = append(elements, r.renderPoints(scene, proj)...)

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		formatFloat(previewWidth), formatFloat(previewHeight), formatFloat(previewWidth), formatFloat(previewHeight)))
	builder.WriteString("\n")
	builder.WriteString(fmt.Sprintf(`  <title>%s</title>`, html.EscapeString(scene.Name)))
	builder.WriteString("\n")

	for _, elem := range elements {
		builder.WriteString("  ")
		builder.WriteString(elem)
		builder.WriteString("\n")
	}

	builder.WriteString(`</svg>`)
	return builder.String(), nil
}

// ============================================================
// Projection
// ============================================================

type projection struct {
	minX, maxY float64
	scale      float64
}

func newProjection(scene *models.Scene) projection {
	minX, minY := math.MaxFloat64, math.MaxFloat64
	maxX, maxY := -math.MaxFloat64, -math.MaxFloat64

	for _, layer := range scene.PointLayers {
		for i := range layer.X {
			minX = math.Min(minX, layer.X[i])
			maxX = math.Max(maxX, layer.X[i])
			minY = math.Min(minY, layer.Y[i])
			maxY = math.Max(maxY, layer.Y[i])
		}
	}

	width := maxX - minX
	height := maxY - minY
	scale := 1.0
	if width > 0 || height > 0 {
		sx := (previewWidth - 2*previewPadding) / math.Max(width, 1e-9)
		sy := (previewHeight - 2*previewPadding) / math.Max(height, 1e-9)
		scale = math.Min(sx, sy)
	}

	return projection{minX: minX, maxY: maxY, scale: scale}
}

// SVG: ось Y направлена вниз
func (p projection) apply(x, y float64) (float64, float64) {
	return previewPadding + (x-p.minX)*p.scale, previewPadding + (p.maxY-y)*p.scale
}

// ============================================================
// Element renderers
// ============================================================

func (r *Renderer) renderLines(scene *models.Scene, proj projection) []string {
	var out []string

	for _, layer := range scene.LineLayers {
		if !layer.Visible {
			continue
		}
		dash := dashArray(layer.Style.Dash, layer.Style.Width)
		for _, seg := range layer.Segments {
			x1, y1 := proj.apply(seg.Start[0], seg.Start[1])
			x2, y2 := proj.apply(seg.End[0], seg.End[1])

			elem := fmt.Sprintf(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s"`,
				formatFloat(x1), formatFloat(y1), formatFloat(x2), formatFloat(y2),
				layer.Style.Color, formatFloat(layer.Style.Width))
			if dash != "" {
				elem += fmt.Sprintf(` stroke-dasharray="%s"`, dash)
			}
			out = append(out, elem+` data-type="`+string(layer.Type)+`"/>`)
		}
	}

	return out
}

func (r *Renderer) renderPoints(scene *models.Scene, proj projection) []string {
	var out []string

	for _, layer := range scene.PointLayers {
		if !layer.Visible {
			continue
		}
		for i, key := range layer.Keys {
			cx, cy := proj.apply(layer.X[i], layer.Y[i])
			out = append(out, fmt.Sprintf(`<circle cx="%s" cy="%s" r="%s" fill="%s"><title>%s</title></circle>`,
				formatFloat(cx), formatFloat(cy), formatFloat(layer.Sizes[i]/2), layer.Colors[i],
				html.EscapeString(key.String())))
		}
	}

	return out
}

// ============================================================
// Formatting helpers
// ============================================================

func dashArray(dash string, width float64) string {
	unit := math.Max(width, 1)
	switch dash {
	case "dot":
		return formatFloat(unit) + " " + formatFloat(2*unit)
	case "dash":
		return formatFloat(3*unit) + " " + formatFloat(2*unit)
	case "longdash":
		return formatFloat(6*unit) + " " + formatFloat(2*unit)
	case "dashdot":
		return formatFloat(3*unit) + " " + formatFloat(2*unit) + " " + formatFloat(unit) + " " + formatFloat(2*unit)
	case "longdashdot":
		return formatFloat(6*unit) + " " + formatFloat(2*unit) + " " + formatFloat(unit) + " " + formatFloat(2*unit)
	}
	return ""
}

func formatFloat(val float64) string {
	return strconv.FormatFloat(math.Round(val*100)/100, 'f', -1, 64)
}
