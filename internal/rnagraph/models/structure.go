package models

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// ============================================================
// Formats & classes
// ============================================================

type Format string

const (
	FormatPDB   Format = "pdb"
	FormatMMCIF Format = "mmcif"
)

type ResidueClass string

const (
	ClassRNA          ResidueClass = "rna"
	ClassDNA          ResidueClass = "dna"
	ClassHetero       ResidueClass = "hetero"
	ClassUnclassified ResidueClass = "unclassified"
)

// IsNucleotide сообщает, относится ли класс к RNA/DNA
func (c ResidueClass) IsNucleotide() bool {
	return c == ClassRNA || c == ClassDNA
}

// ============================================================
// Structure model
// ============================================================

type Atom struct {
	Name     string
	Element  string
	Coord    r3.Vec
	HasCoord bool
	Residue  *Residue // обратная ссылка, не владеет
}

type Residue struct {
	Name    string
	Number  int
	InsCode string
	ChainID string
	Het     bool
	Atoms   []*Atom
	Class   ResidueClass
}

// Key возвращает ключ идентичности остатка (chain + number + name)
func (r *Residue) Key() ResidueKey {
	return ResidueKey{Chain: r.ChainID, Number: r.Number, Name: r.Name}
}

type Chain struct {
	ID       string
	Residues []*Residue
}

type Structure struct {
	Format Format
	Name   string
	Chains []*Chain
	Models int
	Source []byte
}

// Residues обходит остатки в порядке файла
func (s *Structure) Residues() []*Residue {
	var out []*Residue
	for _, chain := range s.Chains {
		out = append(out, chain.Residues...)
	}
	return out
}

// ============================================================
// Identity key
// ============================================================

type ResidueKey struct {
	Chain  string `json:"chain"`
	Number int    `json:"number"`
	Name   string `json:"name"`
}

func (k ResidueKey) String() string {
	return fmt.Sprintf("%s:%s%d", k.Chain, k.Name, k.Number)
}

// ============================================================
// Derived geometry
// ============================================================

type AtomSite struct {
	Name    string  `json:"name"`
	Element string  `json:"element"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
}

type ResiduePoint struct {
	Key      ResidueKey
	Class    ResidueClass
	Centroid r3.Vec
	Color    Color
	Atoms    []AtomSite // только для hetero
}
