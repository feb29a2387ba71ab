package interaction

import (
	"context"

	"rna-graph/internal/rnagraph/models"
)

// ============================================================
// Annotation
// ============================================================

// CanonicalLW код Леонтиса-Вестхофа для канонической пары
const CanonicalLW = "cWW"

type Auth struct {
	Chain  string `json:"chain"`
	Number int    `json:"number"`
	Name   string `json:"name"`
}

type Nucleotide struct {
	Auth Auth `json:"auth"`
}

// Key приводит нуклеотид аннотатора к ключу остатка
func (n Nucleotide) Key() models.ResidueKey {
	return models.ResidueKey{Chain: n.Auth.Chain, Number: n.Auth.Number, Name: n.Auth.Name}
}

type Relation struct {
	NT1 Nucleotide `json:"nt1"`
	NT2 Nucleotide `json:"nt2"`
	LW  string     `json:"lw,omitempty"`
}

// Annotation ответ аннотатора в формате RNApolis
type Annotation struct {
	BasePairs      []Relation `json:"basePairs"`
	BasePhosphates []Relation `json:"basePhosphateInteractions"`
	Stackings      []Relation `json:"stackings"`
}

// Annotator находит взаимодействия в структуре
type Annotator interface {
	Annotate(ctx context.Context, s *models.Structure) (*Annotation, error)
}
