package interaction

import (
	"context"

	"rna-graph/internal/rnagraph/models"

	"gonum.org/v1/gonum/spatial/r3"
)

// MaxLinkDistance предел длины ковалентной связи O3'-P, Å
const MaxLinkDistance = 2.0

// старые PDB-файлы используют "*" вместо штриха
var o3Names = []string{"O3'", "O3*"}

// BackboneAnnotator встроенный аннотатор: фосфодиэфирные связи между
// соседними нуклеотидами цепи по геометрии O3'(i)-P(i+1)
type BackboneAnnotator struct{}

func NewBackboneAnnotator() *BackboneAnnotator {
	return &BackboneAnnotator{}
}

func (b *BackboneAnnotator) Annotate(ctx context.Context, s *models.Structure) (*Annotation, error) {
	annotation := &Annotation{}

	for _, chain := range s.Chains {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var prev *models.Residue
		for _, residue := range chain.Residues {
			if !residue.Class.IsNucleotide() {
				continue
			}
			if prev != nil && linked(prev, residue) {
				annotation.BasePhosphates = append(annotation.BasePhosphates, Relation{
					NT1: nucleotide(prev),
					NT2: nucleotide(residue),
				})
			}
			prev = residue
		}
	}

	return annotation, nil
}

func linked(a, b *models.Residue) bool {
	o3, ok := atomCoord(a, o3Names...)
	if !ok {
		return false
	}
	p, ok := atomCoord(b, "P")
	if !ok {
		return false
	}
	return r3.Norm(r3.Sub(p, o3)) <= MaxLinkDistance
}

func atomCoord(r *models.Residue, names ...string) (r3.Vec, bool) {
	for _, atom := range r.Atoms {
		if !atom.HasCoord {
			continue
		}
		for _, name := range names {
			if atom.Name == name {
				return atom.Coord, true
			}
		}
	}
	return r3.Vec{}, false
}

func nucleotide(r *models.Residue) Nucleotide {
	return Nucleotide{Auth: Auth{Chain: r.ChainID, Number: r.Number, Name: r.Name}}
}
