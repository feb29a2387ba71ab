package mapper

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"rna-graph/internal/common/metrics"
	"rna-graph/internal/rnagraph/classify"
	"rna-graph/internal/rnagraph/geometry"
	"rna-graph/internal/rnagraph/interaction"
	"rna-graph/internal/rnagraph/models"
	"rna-graph/internal/rnagraph/parser"
	"rna-graph/internal/rnagraph/scene"

	"go.uber.org/zap"
)

// ============================================================
// User messages
// ============================================================

const (
	MsgUnsupportedFormat  = "Error: Unsupported file format. Please upload a PDB or CIF file."
	MsgDecodeFailed       = "Error: The file could not be read. Please check that it is a valid PDB or CIF file."
	MsgNoNucleotides      = "Error: No RNA or DNA nucleotides were found in the uploaded structure."
	MsgMissingCoordinates = "Error: The uploaded structure does not contain atom coordinates."
)

// UserMessage текст ошибки загрузки для UI
func UserMessage(err error) string {
	var perr *parser.ParseError
	switch {
	case errors.Is(err, parser.ErrUnsupportedFormat):
		return MsgUnsupportedFormat
	case errors.As(err, &perr):
		return MsgDecodeFailed
	case errors.Is(err, classify.ErrNoNucleotides):
		return MsgNoNucleotides
	case errors.Is(err, classify.ErrMissingCoordinates):
		return MsgMissingCoordinates
	}
	return MsgDecodeFailed
}

func outcome(err error) string {
	var perr *parser.ParseError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, parser.ErrUnsupportedFormat):
		return "unsupported_format"
	case errors.As(err, &perr):
		return "decode_error"
	case errors.Is(err, classify.ErrNoNucleotides):
		return "no_nucleotides"
	case errors.Is(err, classify.ErrMissingCoordinates):
		return "missing_coordinates"
	}
	return "error"
}

// ============================================================
// Pipeline
// ============================================================

// Prepared синхронная часть загрузки: структура и сцена без линий
type Prepared struct {
	Structure *models.Structure
	Scene     *models.Scene
}

type Pipeline struct {
	extractor *interaction.Extractor
	assembler *scene.Assembler
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

func New(annotator interaction.Annotator, logger *zap.Logger, m *metrics.Metrics) *Pipeline {
	return &Pipeline{
		extractor: interaction.NewExtractor(annotator, logger, m),
		assembler: scene.NewAssembler(logger, m),
		logger:    logger.Named("pipeline"),
		metrics:   m,
	}
}

// Prepare decode → classify → reduce → слои точек.
// Линии взаимодействий достраиваются позже через Attach.
func (p *Pipeline) Prepare(filename string, data []byte) (prepared *Prepared, err error) {
	start := time.Now()
	defer func() {
		p.metrics.Uploads.WithLabelValues(outcome(err)).Inc()
		p.metrics.PipelineDuration.WithLabelValues("prepare").Observe(time.Since(start).Seconds())
	}()

	format, err := parser.FormatFromFilename(filename)
	if err != nil {
		return nil, err
	}

	s, err := parser.Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filename, err)
	}
	if s.Name == "" {
		base := filepath.Base(filename)
		s.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	s, verdict := classify.Classify(s)
	if err := verdict.Err(); err != nil {
		return nil, fmt.Errorf("classify %s: %w", filename, err)
	}

	points := geometry.ReduceAll(s)
	sc := p.assembler.Assemble(s, points, nil)
	sc.Composition = string(classify.CompositionOf(s))
	sc.InteractionsPending = true

	p.logger.Info("structure prepared",
		zap.String("name", s.Name),
		zap.String("format", string(s.Format)),
		zap.Int("residues", len(s.Residues())),
		zap.Int("points", len(points)),
		zap.Int("models", s.Models),
	)
	return &Prepared{Structure: s, Scene: sc}, nil
}

// Interactions вызывает аннотатор; ошибок не возвращает
func (p *Pipeline) Interactions(ctx context.Context, s *models.Structure) models.Interactions {
	return p.extractor.Extract(ctx, s)
}

// Attach возвращает копию сцены со слоями линий
func (p *Pipeline) Attach(sc *models.Scene, interactions models.Interactions) *models.Scene {
	return p.assembler.AttachInteractions(sc, interactions)
}

// Convert вся цепочка за один вызов
func (p *Pipeline) Convert(ctx context.Context, filename string, data []byte) (*models.Scene, error) {
	prepared, err := p.Prepare(filename, data)
	if err != nil {
		return nil, err
	}
	interactions := p.Interactions(ctx, prepared.Structure)
	return p.Attach(prepared.Scene, interactions), nil
}
