package geometry

import (
	"rna-graph/internal/rnagraph/models"

	"gonum.org/v1/gonum/spatial/r3"
)

// ============================================================
// Palette
// ============================================================

var (
	colorA      = models.Color{R: 225, G: 246, B: 0}
	colorG      = models.Color{R: 228, G: 34, B: 23}
	colorC      = models.Color{R: 0, G: 128, B: 255}
	colorU      = models.Color{R: 34, G: 177, B: 76}
	colorT      = models.Color{R: 255, G: 127, B: 39}
	colorI      = models.Color{R: 163, G: 73, B: 164}
	colorHetero = models.Color{R: 128, G: 128, B: 128}
)

// BaseColor цвет точки по классу и имени остатка
func BaseColor(class models.ResidueClass, name string) models.Color {
	if class == models.ClassHetero {
		return colorHetero
	}

	base := name
	if class == models.ClassDNA && len(name) == 2 {
		base = name[1:]
	}
	switch base {
	case "A":
		return colorA
	case "G":
		return colorG
	case "C":
		return colorC
	case "U":
		return colorU
	case "T":
		return colorT
	case "I":
		return colorI
	}
	return colorHetero
}

// ============================================================
// Reducer
// ============================================================

// Centroid среднее координат атомов; ok=false если координат нет
func Centroid(atoms []*models.Atom) (r3.Vec, bool) {
	var sum r3.Vec
	n := 0
	for _, atom := range atoms {
		if !atom.HasCoord {
			continue
		}
		sum = r3.Add(sum, atom.Coord)
		n++
	}
	if n == 0 {
		return r3.Vec{}, false
	}
	return r3.Scale(1/float64(n), sum), true
}

// Reduce одна точка на нуклеотид или гетероатомную группу.
// Остатки без атомов пропускаются.
func Reduce(residue *models.Residue) (models.ResiduePoint, bool) {
	if residue.Class != models.ClassHetero && !residue.Class.IsNucleotide() {
		return models.ResiduePoint{}, false
	}

	centroid, ok := Centroid(residue.Atoms)
	if !ok {
		return models.ResiduePoint{}, false
	}

	point := models.ResiduePoint{
		Key:      residue.Key(),
		Class:    residue.Class,
		Centroid: centroid,
		Color:    BaseColor(residue.Class, residue.Name),
	}

	if residue.Class == models.ClassHetero {
		point.Atoms = make([]models.AtomSite, 0, len(residue.Atoms))
		for _, atom := range residue.Atoms {
			if !atom.HasCoord {
				continue
			}
			point.Atoms = append(point.Atoms, models.AtomSite{
				Name:    atom.Name,
				Element: atom.Element,
				X:       atom.Coord.X,
				Y:       atom.Coord.Y,
				Z:       atom.Coord.Z,
			})
		}
	}

	return point, true
}

// ReduceAll точки в порядке обхода структуры
func ReduceAll(s *models.Structure) []models.ResiduePoint {
	var points []models.ResiduePoint
	for _, residue := range s.Residues() {
		if point, ok := Reduce(residue); ok {
			points = append(points, point)
		}
	}
	return points
}
