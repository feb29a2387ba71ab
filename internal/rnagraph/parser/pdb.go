package parser

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"rna-graph/internal/rnagraph/models"
)

// ============================================================
// PDB Parser
// ============================================================

// minAtomLineLen последняя колонка координаты z
const minAtomLineLen = 54

type PDBParser struct{}

type pdbParser struct {
	b          *builder
	line       string
	lineNo     int
	modelCount int
	firstDone  bool
}

// Parse читает ATOM/HETATM записи с фиксированными колонками.
// Берется только первая модель (NMR-ансамбли).
func (PDBParser) Parse(r io.Reader) (*models.Structure, error) {
	p := &pdbParser{b: newBuilder(models.FormatPDB)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	for scanner.Scan() {
		p.lineNo++
		p.line = strings.TrimRight(scanner.Text(), "\r")
		if err := p.parseLine(); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &ParseError{Format: models.FormatPDB, Line: p.lineNo, Msg: err.Error()}
	}

	return p.b.finish(p.modelCount), nil
}

func (p *pdbParser) parseLine() error {
	switch p.cols(1, 6) {
	case "HEADER":
		if id := p.cols(63, 66); id != "" {
			p.b.structure.Name = id
		}
	case "MODEL":
		p.modelCount++
	case "ENDMDL":
		p.firstDone = true
	case "ATOM", "HETATM":
		if p.firstDone {
			return nil
		}
		return p.parseAtom()
	}
	return nil
}

func (p *pdbParser) parseAtom() error {
	if len(p.line) < minAtomLineLen {
		return p.errorf("truncated atom record (%d columns)", len(p.line))
	}

	rec := atomRecord{
		het:     p.cols(1, 6) == "HETATM",
		name:    p.cols(13, 16),
		resName: p.cols(18, 20),
		chain:   p.cols(22, 22),
		insCode: p.cols(27, 27),
		element: p.cols(77, 78),
	}
	if rec.resName == "" {
		return p.errorf("empty residue name")
	}
	if rec.element == "" {
		rec.element = elementFromName(rec.name)
	}

	number, err := strconv.Atoi(p.cols(23, 26))
	if err != nil {
		return p.errorf("invalid residue number %q", p.cols(23, 26))
	}
	rec.number = number

	rec.hasCoord = true
	for i, target := range []*float64{&rec.x, &rec.y, &rec.z} {
		start := 31 + i*8
		raw := p.cols(start, start+7)
		if raw == "" {
			rec.hasCoord = false
			continue
		}
		val, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return p.errorf("invalid coordinate %q", raw)
		}
		*target = val
	}

	p.b.add(rec)
	return nil
}

func (p *pdbParser) errorf(format string, args ...any) error {
	return &ParseError{Format: models.FormatPDB, Line: p.lineNo, Msg: fmt.Sprintf(format, args...)}
}

// cols возвращает колонки [start, end] (нумерация с 1) без пробелов
func (p *pdbParser) cols(start, end int) string {
	rs, re := start-1, end
	if rs >= len(p.line) || rs < 0 {
		return ""
	}
	if re > len(p.line) {
		re = len(p.line)
	}
	if re < rs {
		return ""
	}
	return strings.TrimSpace(p.line[rs:re])
}
