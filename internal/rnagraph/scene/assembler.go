package scene

import (
	"fmt"

	"rna-graph/internal/common/metrics"
	"rna-graph/internal/rnagraph/models"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
)

// ============================================================
// Assembler
// ============================================================

// порядок слоев точек
var pointClasses = []models.ResidueClass{models.ClassRNA, models.ClassDNA, models.ClassHetero}

type Assembler struct {
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewAssembler(logger *zap.Logger, m *metrics.Metrics) *Assembler {
	return &Assembler{
		logger:  logger.Named("scene"),
		metrics: m,
	}
}

// Assemble собирает сцену из точек и взаимодействий.
// interactions == nil дает сцену только со слоями точек.
func (a *Assembler) Assemble(s *models.Structure, points []models.ResiduePoint, interactions models.Interactions) *models.Scene {
	scene := &models.Scene{
		Name:   s.Name,
		Format: s.Format,
	}

	for _, class := range pointClasses {
		if layer := buildPointLayer(class, points); layer != nil {
			scene.PointLayers = append(scene.PointLayers, layer)
		}
	}
	scene.HeteroOption = models.NewHeteroOption(scene.PointLayer(models.HeteroatomsLayer) == nil)

	a.attach(scene, interactions)
	return scene
}

// AttachInteractions строит слои линий на копии уже собранной сцены
func (a *Assembler) AttachInteractions(scene *models.Scene, interactions models.Interactions) *models.Scene {
	out := scene.Clone()
	a.attach(out, interactions)
	return out
}

func (a *Assembler) attach(scene *models.Scene, interactions models.Interactions) {
	index := positions(scene)

	scene.LineLayers = nil
	scene.Options = make([]models.Option, 0, len(models.InteractionTypes))
	scene.InteractionsPending = false

	for _, t := range models.InteractionTypes {
		var segments []models.Segment
		dropped := 0

		for _, edge := range interactions[t] {
			from, ok1 := index[edge.From]
			to, ok2 := index[edge.To]
			if !ok1 || !ok2 {
				dropped++
				continue
			}
			segments = append(segments, models.Segment{
				From:  edge.From,
				To:    edge.To,
				Start: [3]float64{from.X, from.Y, from.Z},
				End:   [3]float64{to.X, to.Y, to.Z},
			})
		}

		if dropped > 0 {
			a.metrics.DroppedEdges.WithLabelValues(string(t)).Add(float64(dropped))
			a.logger.Debug("dropped unresolved edges",
				zap.String("type", string(t)),
				zap.Int("count", dropped),
			)
		}

		scene.Options = append(scene.Options, models.Option{
			Label:    t.Label(),
			Value:    string(t),
			Disabled: len(segments) == 0,
		})
		if len(segments) == 0 {
			continue
		}

		a.metrics.InteractionsAttached.WithLabelValues(string(t)).Add(float64(len(segments)))
		scene.LineLayers = append(scene.LineLayers, &models.LineLayer{
			Type:     t,
			Label:    t.Label(),
			Segments: segments,
			Style:    DefaultStyle(t),
			Visible:  false,
		})
	}
}

// positions индекс ключ остатка -> координата точки; при дублях побеждает первая
func positions(scene *models.Scene) map[models.ResidueKey]r3.Vec {
	index := make(map[models.ResidueKey]r3.Vec)
	for _, layer := range scene.PointLayers {
		for i, key := range layer.Keys {
			if _, ok := index[key]; !ok {
				index[key] = layer.Position(i)
			}
		}
	}
	return index
}

func buildPointLayer(class models.ResidueClass, points []models.ResiduePoint) *models.PointLayer {
	layer := &models.PointLayer{
		Name:    layerName(class),
		Class:   class,
		Visible: class.IsNucleotide(),
	}

	for _, p := range points {
		if p.Class != class {
			continue
		}
		layer.Keys = append(layer.Keys, p.Key)
		layer.X = append(layer.X, p.Centroid.X)
		layer.Y = append(layer.Y, p.Centroid.Y)
		layer.Z = append(layer.Z, p.Centroid.Z)
		layer.BaseColors = append(layer.BaseColors, p.Color)
		layer.Colors = append(layer.Colors, p.Color.String())
		layer.Sizes = append(layer.Sizes, BaseSize)
		layer.Hover = append(layer.Hover, hover(p))
		if class == models.ClassHetero {
			layer.Atoms = append(layer.Atoms, p.Atoms)
		}
	}

	if len(layer.Keys) == 0 {
		return nil
	}
	return layer
}

func layerName(class models.ResidueClass) string {
	if class == models.ClassHetero {
		return models.HeteroatomsLayer
	}
	return string(class)
}

func hover(p models.ResiduePoint) models.Hover {
	h := models.Hover{
		Residue: p.Key.Name,
		Chain:   p.Key.Chain,
		Number:  p.Key.Number,
		X:       fmt.Sprintf("%.2f", p.Centroid.X),
		Y:       fmt.Sprintf("%.2f", p.Centroid.Y),
		Z:       fmt.Sprintf("%.2f", p.Centroid.Z),
	}

	kind := "Nucleotide"
	if p.Class == models.ClassHetero {
		kind = "Residue"
	}
	h.Text = fmt.Sprintf("%s: %s%d<br>Chain: %s<br>x: %s<br>y: %s<br>z: %s",
		kind, p.Key.Name, p.Key.Number, p.Key.Chain, h.X, h.Y, h.Z)
	return h
}
