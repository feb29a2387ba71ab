package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"rna-graph/internal/rnagraph/models"
)

// ============================================================
// Errors
// ============================================================

var ErrUnsupportedFormat = errors.New("unsupported file format")

// ParseError ошибка токенизации входного файла
type ParseError struct {
	Format models.Format
	Line   int
	Msg    string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: line %d: %s", e.Format, e.Line, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Format, e.Msg)
}

// ============================================================
// Decoder
// ============================================================

// Parser внешний парсер структуры: поток текста -> модель
type Parser interface {
	Parse(r io.Reader) (*models.Structure, error)
}

// FormatFromFilename определяет формат по расширению загруженного файла
func FormatFromFilename(filename string) (models.Format, error) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")) {
	case "pdb":
		return models.FormatPDB, nil
	case "cif":
		return models.FormatMMCIF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filename)
}

// ForFormat возвращает парсер для формата
func ForFormat(format models.Format) (Parser, error) {
	switch format {
	case models.FormatPDB:
		return PDBParser{}, nil
	case models.FormatMMCIF:
		return CIFParser{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// Decode байты + формат -> модель структуры
func Decode(data []byte, format models.Format) (*models.Structure, error) {
	p, err := ForFormat(format)
	if err != nil {
		return nil, err
	}

	if !utf8.Valid(data) {
		return nil, &ParseError{Format: format, Msg: "input is not valid UTF-8 text"}
	}

	structure, err := p.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	structure.Source = data
	return structure, nil
}

// ============================================================
// Structure builder
// ============================================================

type atomRecord struct {
	het      bool
	name     string
	element  string
	resName  string
	chain    string
	number   int
	insCode  string
	x, y, z  float64
	hasCoord bool
}

type residueID struct {
	chain   string
	number  int
	insCode string
	name    string
}

// builder раскладывает атомы по цепям и остаткам в порядке файла
type builder struct {
	structure *models.Structure
	chains    map[string]*models.Chain
	residues  map[residueID]*models.Residue
}

func newBuilder(format models.Format) *builder {
	return &builder{
		structure: &models.Structure{Format: format},
		chains:    make(map[string]*models.Chain),
		residues:  make(map[residueID]*models.Residue),
	}
}

func (b *builder) add(rec atomRecord) {
	residue := b.getResidue(rec)
	if rec.het {
		residue.Het = true
	}

	atom := &models.Atom{
		Name:     rec.name,
		Element:  rec.element,
		HasCoord: rec.hasCoord,
		Residue:  residue,
	}
	if rec.hasCoord {
		atom.Coord.X, atom.Coord.Y, atom.Coord.Z = rec.x, rec.y, rec.z
	}
	residue.Atoms = append(residue.Atoms, atom)
}

func (b *builder) getChain(id string) *models.Chain {
	if chain, ok := b.chains[id]; ok {
		return chain
	}
	chain := &models.Chain{ID: id}
	b.chains[id] = chain
	b.structure.Chains = append(b.structure.Chains, chain)
	return chain
}

func (b *builder) getResidue(rec atomRecord) *models.Residue {
	id := residueID{chain: rec.chain, number: rec.number, insCode: rec.insCode, name: rec.resName}
	if residue, ok := b.residues[id]; ok {
		return residue
	}

	chain := b.getChain(rec.chain)
	residue := &models.Residue{
		Name:    rec.resName,
		Number:  rec.number,
		InsCode: rec.insCode,
		ChainID: rec.chain,
		Class:   models.ClassUnclassified,
	}
	chain.Residues = append(chain.Residues, residue)
	b.residues[id] = residue
	return residue
}

func (b *builder) finish(modelCount int) *models.Structure {
	if modelCount == 0 && len(b.structure.Chains) > 0 {
		modelCount = 1
	}
	b.structure.Models = modelCount
	return b.structure
}

// elementFromName запасной вариант, когда колонка элемента пустая
func elementFromName(name string) string {
	name = strings.TrimLeft(name, "0123456789")
	if name == "" {
		return ""
	}
	return name[:1]
}
