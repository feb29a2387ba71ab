package classify

import (
	"errors"

	"rna-graph/internal/rnagraph/models"
)

// ============================================================
// Nomenclature tables
// ============================================================

var rnaNucleotides = map[string]bool{"A": true, "C": true, "G": true, "U": true, "I": true}

var dnaNucleotides = map[string]bool{"DA": true, "DC": true, "DG": true, "DU": true, "DI": true, "DT": true}

// ============================================================
// Verdict
// ============================================================

var (
	ErrNoNucleotides      = errors.New("no nucleotides found")
	ErrMissingCoordinates = errors.New("missing coordinates")
)

type Verdict string

const (
	VerdictValid              Verdict = "valid-rna-or-dna"
	VerdictNoNucleotides      Verdict = "no-nucleotides-found"
	VerdictMissingCoordinates Verdict = "missing-coordinates"
)

// Err ошибка, соответствующая вердикту (nil для valid)
func (v Verdict) Err() error {
	switch v {
	case VerdictNoNucleotides:
		return ErrNoNucleotides
	case VerdictMissingCoordinates:
		return ErrMissingCoordinates
	}
	return nil
}

type Composition string

const (
	CompositionRNA    Composition = "RNA"
	CompositionDNA    Composition = "DNA"
	CompositionHybrid Composition = "Hybrid"
	CompositionOther  Composition = "Other"
)

// ============================================================
// Classifier
// ============================================================

// Tag класс остатка по имени и HETATM-флагу
func Tag(name string, het bool) models.ResidueClass {
	switch {
	case rnaNucleotides[name]:
		return models.ClassRNA
	case dnaNucleotides[name]:
		return models.ClassDNA
	case het:
		return models.ClassHetero
	}
	return models.ClassUnclassified
}

// Classify проставляет классы остаткам и выносит общий вердикт.
// Проверка нуклеотидов идет раньше проверки координат.
func Classify(s *models.Structure) (*models.Structure, Verdict) {
	nucleotides := 0
	withCoords := false

	for _, residue := range s.Residues() {
		residue.Class = Tag(residue.Name, residue.Het)
		if residue.Class.IsNucleotide() {
			nucleotides++
		}
		for _, atom := range residue.Atoms {
			if atom.HasCoord {
				withCoords = true
			}
		}
	}

	switch {
	case nucleotides == 0:
		return s, VerdictNoNucleotides
	case !withCoords:
		return s, VerdictMissingCoordinates
	}
	return s, VerdictValid
}

// CompositionOf RNA / DNA / Hybrid / Other по уже размеченной структуре
func CompositionOf(s *models.Structure) Composition {
	var rna, dna bool
	for _, residue := range s.Residues() {
		switch residue.Class {
		case models.ClassRNA:
			rna = true
		case models.ClassDNA:
			dna = true
		}
	}

	switch {
	case rna && dna:
		return CompositionHybrid
	case rna:
		return CompositionRNA
	case dna:
		return CompositionDNA
	}
	return CompositionOther
}
