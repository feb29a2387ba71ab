package models

import "gonum.org/v1/gonum/spatial/r3"

// ============================================================
// Interactions
// ============================================================

type InteractionType string

const (
	Phosphodiester   InteractionType = "phosphodiester"
	CanonicalPair    InteractionType = "c_base_base"
	NonCanonicalPair InteractionType = "nc_base_base"
	Stacking         InteractionType = "stacking"
)

const (
	HeteroatomsLayer = "heteroatoms"
	heteroatomsLabel = "Show heteroatoms"
)

// InteractionTypes фиксированный порядок слоев линий
var InteractionTypes = []InteractionType{Phosphodiester, CanonicalPair, NonCanonicalPair, Stacking}

// Label подпись для переключателя в UI
func (t InteractionType) Label() string {
	switch t {
	case Phosphodiester:
		return "Phosphodiester interactions"
	case CanonicalPair:
		return "Canonical interactions"
	case NonCanonicalPair:
		return "Non-canonical interactions"
	case Stacking:
		return "Stacking interactions"
	}
	return string(t)
}

type Edge struct {
	Type InteractionType `json:"type"`
	From ResidueKey      `json:"from"`
	To   ResidueKey      `json:"to"`
	Code string          `json:"code,omitempty"`
}

type Interactions map[InteractionType][]Edge

// Count общее число ребер
func (in Interactions) Count() int {
	total := 0
	for _, edges := range in {
		total += len(edges)
	}
	return total
}

// ============================================================
// Scene
// ============================================================

type Hover struct {
	Residue string `json:"residue"`
	Chain   string `json:"chain"`
	Number  int    `json:"number"`
	X       string `json:"x"`
	Y       string `json:"y"`
	Z       string `json:"z"`
	Text    string `json:"text"`
}

type PointLayer struct {
	Name       string       `json:"name"`
	Class      ResidueClass `json:"class"`
	Keys       []ResidueKey `json:"keys"`
	X          []float64    `json:"x"`
	Y          []float64    `json:"y"`
	Z          []float64    `json:"z"`
	BaseColors []Color      `json:"-"`
	Colors     []string     `json:"colors"`
	Sizes      []float64    `json:"sizes"`
	Hover      []Hover      `json:"hover"`
	Atoms      [][]AtomSite `json:"atoms,omitempty"`
	Visible    bool         `json:"visible"`
}

// Position координата i-й точки слоя
func (l *PointLayer) Position(i int) r3.Vec {
	return r3.Vec{X: l.X[i], Y: l.Y[i], Z: l.Z[i]}
}

type Segment struct {
	From  ResidueKey `json:"from"`
	To    ResidueKey `json:"to"`
	Start [3]float64 `json:"start"`
	End   [3]float64 `json:"end"`
}

type LineStyle struct {
	Color string  `json:"color"`
	Dash  string  `json:"dash"`
	Width float64 `json:"width"`
}

type LineLayer struct {
	Type     InteractionType `json:"type"`
	Label    string          `json:"label"`
	Segments []Segment       `json:"segments"`
	Style    LineStyle       `json:"style"`
	Visible  bool            `json:"visible"`
}

type Option struct {
	Label    string `json:"label"`
	Value    string `json:"value"`
	Disabled bool   `json:"disabled"`
}

type Camera struct {
	Eye    [3]float64 `json:"eye"`
	Center [3]float64 `json:"center"`
	Up     [3]float64 `json:"up"`
}

type Scene struct {
	Name                string        `json:"name"`
	Format              Format        `json:"format"`
	Composition         string        `json:"composition"`
	Generation          uint64        `json:"generation"`
	PointLayers         []*PointLayer `json:"pointLayers"`
	LineLayers          []*LineLayer  `json:"lineLayers"`
	Options             []Option      `json:"options"`
	HeteroOption        Option        `json:"heteroOption"`
	Selection           *ResidueKey   `json:"selection,omitempty"`
	Camera              *Camera       `json:"camera,omitempty"`
	InteractionsPending bool          `json:"interactionsPending"`
}

// NewHeteroOption переключатель слоя гетероатомов
func NewHeteroOption(disabled bool) Option {
	return Option{Label: heteroatomsLabel, Value: HeteroatomsLayer, Disabled: disabled}
}

// PointLayer ищет слой точек по имени
func (s *Scene) PointLayer(name string) *PointLayer {
	for _, l := range s.PointLayers {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// LineLayer ищет слой линий по типу взаимодействия
func (s *Scene) LineLayer(t InteractionType) *LineLayer {
	for _, l := range s.LineLayers {
		if l.Type == t {
			return l
		}
	}
	return nil
}

// Clone глубокая копия: state-машина не трогает исходную сцену
func (s *Scene) Clone() *Scene {
	if s == nil {
		return nil
	}
	out := *s

	if s.PointLayers != nil {
		out.PointLayers = make([]*PointLayer, len(s.PointLayers))
	}
	for i, l := range s.PointLayers {
		cp := *l
		cp.Keys = append([]ResidueKey(nil), l.Keys...)
		cp.X = append([]float64(nil), l.X...)
		cp.Y = append([]float64(nil), l.Y...)
		cp.Z = append([]float64(nil), l.Z...)
		cp.BaseColors = append([]Color(nil), l.BaseColors...)
		cp.Colors = append([]string(nil), l.Colors...)
		cp.Sizes = append([]float64(nil), l.Sizes...)
		cp.Hover = append([]Hover(nil), l.Hover...)
		if l.Atoms != nil {
			cp.Atoms = make([][]AtomSite, len(l.Atoms))
			for j, atoms := range l.Atoms {
				cp.Atoms[j] = append([]AtomSite(nil), atoms...)
			}
		}
		out.PointLayers[i] = &cp
	}

	if s.LineLayers != nil {
		out.LineLayers = make([]*LineLayer, len(s.LineLayers))
	}
	for i, l := range s.LineLayers {
		cp := *l
		cp.Segments = append([]Segment(nil), l.Segments...)
		out.LineLayers[i] = &cp
	}

	out.Options = append([]Option(nil), s.Options...)
	if s.Selection != nil {
		sel := *s.Selection
		out.Selection = &sel
	}
	if s.Camera != nil {
		cam := *s.Camera
		out.Camera = &cam
	}
	return &out
}
