package classify

import (
	"testing"

	"rna-graph/internal/rnagraph/models"

	"github.com/stretchr/testify/assert"
)

func structureOf(residues ...*models.Residue) *models.Structure {
	chain := &models.Chain{ID: "A", Residues: residues}
	return &models.Structure{Format: models.FormatPDB, Chains: []*models.Chain{chain}}
}

func residue(name string, het bool, hasCoord bool) *models.Residue {
	r := &models.Residue{Name: name, ChainID: "A", Het: het}
	r.Atoms = []*models.Atom{{Name: "X", HasCoord: hasCoord, Residue: r}}
	return r
}

func TestTag(t *testing.T) {
	tests := []struct {
		name string
		het  bool
		want models.ResidueClass
	}{
		{"A", false, models.ClassRNA},
		{"U", false, models.ClassRNA},
		{"I", false, models.ClassRNA},
		{"DA", false, models.ClassDNA},
		{"DT", false, models.ClassDNA},
		{"DI", false, models.ClassDNA},
		{"T", false, models.ClassUnclassified},
		{"ALA", false, models.ClassUnclassified},
		{"MG", true, models.ClassHetero},
		{"PSU", true, models.ClassHetero},
		{"HOH", true, models.ClassHetero},
		{"WAT", true, models.ClassHetero},
		{"G", true, models.ClassRNA},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tag(tt.name, tt.het))
		})
	}
}

func TestClassify(t *testing.T) {
	t.Run("valid rna structure", func(t *testing.T) {
		s := structureOf(residue("G", false, true), residue("MG", true, true), residue("ALA", false, true))

		out, verdict := Classify(s)

		assert.Equal(t, VerdictValid, verdict)
		assert.NoError(t, verdict.Err())
		residues := out.Residues()
		assert.Equal(t, models.ClassRNA, residues[0].Class)
		assert.Equal(t, models.ClassHetero, residues[1].Class)
		assert.Equal(t, models.ClassUnclassified, residues[2].Class)
	})

	t.Run("no nucleotides regardless of coordinates", func(t *testing.T) {
		for _, hasCoord := range []bool{true, false} {
			s := structureOf(residue("ALA", false, hasCoord), residue("MG", true, hasCoord))

			_, verdict := Classify(s)

			assert.Equal(t, VerdictNoNucleotides, verdict)
			assert.ErrorIs(t, verdict.Err(), ErrNoNucleotides)
		}
	})

	t.Run("empty structure has no nucleotides", func(t *testing.T) {
		_, verdict := Classify(&models.Structure{})
		assert.Equal(t, VerdictNoNucleotides, verdict)
	})

	t.Run("nucleotides without coordinates", func(t *testing.T) {
		s := structureOf(residue("G", false, false), residue("C", false, false))

		_, verdict := Classify(s)

		assert.Equal(t, VerdictMissingCoordinates, verdict)
		assert.ErrorIs(t, verdict.Err(), ErrMissingCoordinates)
	})
}

func TestCompositionOf(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		want  Composition
	}{
		{"rna", []string{"G", "C"}, CompositionRNA},
		{"dna", []string{"DG", "DC"}, CompositionDNA},
		{"hybrid", []string{"G", "DC"}, CompositionHybrid},
		{"other", []string{"ALA"}, CompositionOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var residues []*models.Residue
			for _, n := range tt.names {
				residues = append(residues, residue(n, false, true))
			}
			s, _ := Classify(structureOf(residues...))
			assert.Equal(t, tt.want, CompositionOf(s))
		})
	}
}
