package interaction

import (
	"context"
	"fmt"
	"time"

	"rna-graph/internal/common/metrics"
	"rna-graph/internal/rnagraph/models"

	"go.uber.org/zap"
)

// ============================================================
// Extractor
// ============================================================

type Extractor struct {
	annotator Annotator
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

func NewExtractor(annotator Annotator, logger *zap.Logger, m *metrics.Metrics) *Extractor {
	return &Extractor{
		annotator: annotator,
		logger:    logger.Named("interaction"),
		metrics:   m,
	}
}

// Extract никогда не возвращает ошибку: любой сбой аннотатора
// (в том числе panic) дает пустой набор взаимодействий
func (e *Extractor) Extract(ctx context.Context, s *models.Structure) (out models.Interactions) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			e.fail(fmt.Errorf("annotator panic: %v", r))
			out = models.Interactions{}
		}
		e.metrics.PipelineDuration.WithLabelValues("interactions").Observe(time.Since(start).Seconds())
	}()

	annotation, err := e.annotator.Annotate(ctx, s)
	if err != nil {
		e.fail(err)
		return models.Interactions{}
	}
	if annotation == nil {
		return models.Interactions{}
	}

	out = Map(annotation)
	e.logger.Debug("interactions extracted",
		zap.String("structure", s.Name),
		zap.Int("edges", out.Count()),
	)
	return out
}

func (e *Extractor) fail(err error) {
	e.metrics.ExtractionFailures.Inc()
	e.logger.Warn("interaction extraction failed", zap.Error(err))
}

// Map раскладывает отношения аннотатора по типам взаимодействий
func Map(a *Annotation) models.Interactions {
	out := models.Interactions{}

	for _, rel := range a.BasePairs {
		t := models.NonCanonicalPair
		if rel.LW == CanonicalLW {
			t = models.CanonicalPair
		}
		out[t] = append(out[t], edge(t, rel))
	}
	for _, rel := range a.BasePhosphates {
		out[models.Phosphodiester] = append(out[models.Phosphodiester], edge(models.Phosphodiester, rel))
	}
	for _, rel := range a.Stackings {
		out[models.Stacking] = append(out[models.Stacking], edge(models.Stacking, rel))
	}
	return out
}

func edge(t models.InteractionType, rel Relation) models.Edge {
	return models.Edge{Type: t, From: rel.NT1.Key(), To: rel.NT2.Key(), Code: rel.LW}
}
