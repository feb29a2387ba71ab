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
// mmCIF Parser
// ============================================================

const atomSitePrefix = "_atom_site."

var coordColumns = [3]string{"Cartn_x", "Cartn_y", "Cartn_z"}

type CIFParser struct{}

type cifState int

const (
	cifOutside cifState = iota
	cifLoopHeader
	cifLoopBody
)

type cifParser struct {
	b      *builder
	lineNo int

	state    cifState
	tags     []string
	atomLoop bool
	pending  []string
	columns  map[string]int

	textField  bool
	firstModel string
	modelSeen  map[string]bool
}

// Parse читает loop_ с тегами _atom_site.* как списки токенов.
// Остальные категории пропускаются.
func (CIFParser) Parse(r io.Reader) (*models.Structure, error) {
	p := &cifParser{
		b:         newBuilder(models.FormatMMCIF),
		modelSeen: make(map[string]bool),
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	for scanner.Scan() {
		p.lineNo++
		if err := p.parseLine(strings.TrimRight(scanner.Text(), "\r")); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &ParseError{Format: models.FormatMMCIF, Line: p.lineNo, Msg: err.Error()}
	}
	if err := p.endLoop(); err != nil {
		return nil, err
	}

	return p.b.finish(len(p.modelSeen)), nil
}

func (p *cifParser) parseLine(line string) error {
	// многострочные значения ;...; пропускаются целиком
	if strings.HasPrefix(line, ";") {
		if p.atomLoop && p.state == cifLoopBody {
			return p.errorf("multi-line values are not supported in %s", atomSitePrefix)
		}
		p.textField = !p.textField
		return nil
	}
	if p.textField {
		return nil
	}

	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		return nil

	case strings.HasPrefix(trimmed, "#"):
		if p.state == cifLoopBody {
			return p.endLoop()
		}
		return nil

	case strings.HasPrefix(trimmed, "data_"):
		if err := p.endLoop(); err != nil {
			return err
		}
		if p.b.structure.Name == "" {
			p.b.structure.Name = strings.TrimPrefix(trimmed, "data_")
		}
		return nil

	case trimmed == "loop_":
		if err := p.endLoop(); err != nil {
			return err
		}
		p.state = cifLoopHeader
		return nil

	case strings.HasPrefix(trimmed, "_"):
		if p.state == cifLoopHeader {
			tag := strings.Fields(trimmed)[0]
			p.tags = append(p.tags, tag)
			if strings.HasPrefix(tag, atomSitePrefix) {
				p.atomLoop = true
			}
			return nil
		}
		if err := p.endLoop(); err != nil {
			return err
		}
		return p.parseItem(trimmed)
	}

	if p.state == cifLoopHeader {
		if err := p.startBody(); err != nil {
			return err
		}
	}
	if p.state != cifLoopBody || !p.atomLoop {
		return nil
	}

	tokens, err := tokenize(trimmed)
	if err != nil {
		return p.errorf("%v", err)
	}
	p.pending = append(p.pending, tokens...)
	for len(p.pending) >= len(p.tags) {
		if err := p.parseRow(p.pending[:len(p.tags)]); err != nil {
			return err
		}
		p.pending = p.pending[len(p.tags):]
	}
	return nil
}

// parseItem одиночные пары tag value вне loop_
func (p *cifParser) parseItem(line string) error {
	tag, rest, _ := strings.Cut(line, " ")
	if tag != "_entry.id" {
		return nil
	}
	tokens, err := tokenize(strings.TrimSpace(rest))
	if err != nil {
		return p.errorf("%v", err)
	}
	if len(tokens) > 0 && !isNull(tokens[0]) {
		p.b.structure.Name = tokens[0]
	}
	return nil
}

func (p *cifParser) startBody() error {
	p.state = cifLoopBody
	if !p.atomLoop {
		return nil
	}

	p.columns = make(map[string]int, len(p.tags))
	for i, tag := range p.tags {
		p.columns[strings.TrimPrefix(tag, atomSitePrefix)] = i
	}
	for _, required := range coordColumns {
		if _, ok := p.columns[required]; !ok {
			return p.errorf("missing column %s%s", atomSitePrefix, required)
		}
	}
	if p.column("auth_comp_id", "label_comp_id") < 0 {
		return p.errorf("missing residue name column")
	}
	if p.column("auth_seq_id", "label_seq_id") < 0 {
		return p.errorf("missing residue number column")
	}
	if p.column("auth_asym_id", "label_asym_id") < 0 {
		return p.errorf("missing chain column")
	}
	return nil
}

func (p *cifParser) endLoop() error {
	if p.state == cifLoopBody && p.atomLoop && len(p.pending) > 0 {
		return p.errorf("truncated %s row: %d of %d values", atomSitePrefix, len(p.pending), len(p.tags))
	}
	p.state = cifOutside
	p.tags = nil
	p.atomLoop = false
	p.pending = nil
	return nil
}

func (p *cifParser) parseRow(row []string) error {
	model := p.value(row, "pdbx_PDB_model_num")
	if model != "" {
		p.modelSeen[model] = true
		if p.firstModel == "" {
			p.firstModel = model
		}
		if model != p.firstModel {
			return nil
		}
	}

	rec := atomRecord{
		het:     p.value(row, "group_PDB") == "HETATM",
		name:    p.value(row, "auth_atom_id", "label_atom_id"),
		element: p.value(row, "type_symbol"),
		resName: p.value(row, "auth_comp_id", "label_comp_id"),
		chain:   p.value(row, "auth_asym_id", "label_asym_id"),
		insCode: p.value(row, "pdbx_PDB_ins_code"),
	}
	if rec.resName == "" {
		return p.errorf("empty residue name")
	}
	if rec.element == "" {
		rec.element = elementFromName(rec.name)
	}

	rawNumber := p.value(row, "auth_seq_id", "label_seq_id")
	number, err := strconv.Atoi(rawNumber)
	if err != nil {
		return p.errorf("invalid residue number %q", rawNumber)
	}
	rec.number = number

	rec.hasCoord = true
	for i, target := range []*float64{&rec.x, &rec.y, &rec.z} {
		raw := row[p.columns[coordColumns[i]]]
		if isNull(raw) {
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

// column индекс первой найденной колонки или -1
func (p *cifParser) column(names ...string) int {
	for _, name := range names {
		if idx, ok := p.columns[name]; ok {
			return idx
		}
	}
	return -1
}

// value первое непустое значение из перечисленных колонок
func (p *cifParser) value(row []string, names ...string) string {
	for _, name := range names {
		idx, ok := p.columns[name]
		if !ok {
			continue
		}
		if v := row[idx]; !isNull(v) {
			return v
		}
	}
	return ""
}

func (p *cifParser) errorf(format string, args ...any) error {
	return &ParseError{Format: models.FormatMMCIF, Line: p.lineNo, Msg: fmt.Sprintf(format, args...)}
}

func isNull(v string) bool {
	return v == "?" || v == "."
}

// tokenize делит строку по пробелам с учетом кавычек '...' и "..."
func tokenize(line string) ([]string, error) {
	var tokens []string
	i := 0
	for i < len(line) {
		for i < len(line) && isSpace(line[i]) {
			i++
		}
		if i >= len(line) {
			break
		}

		quote := line[i]
		if quote != '\'' && quote != '"' {
			start := i
			for i < len(line) && !isSpace(line[i]) {
				i++
			}
			tokens = append(tokens, line[start:i])
			continue
		}

		// закрывающая кавычка должна стоять перед пробелом или концом строки
		start := i + 1
		end := -1
		for j := start; j < len(line); j++ {
			if line[j] == quote && (j+1 == len(line) || isSpace(line[j+1])) {
				end = j
				break
			}
		}
		if end < 0 {
			return nil, fmt.Errorf("unterminated quoted value")
		}
		tokens = append(tokens, line[start:end])
		i = end + 1
	}
	return tokens, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}
