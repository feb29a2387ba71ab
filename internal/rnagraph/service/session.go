package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"rna-graph/internal/common/metrics"
	"rna-graph/internal/rnagraph/mapper"
	"rna-graph/internal/rnagraph/models"
	"rna-graph/internal/rnagraph/repository"
	"rna-graph/internal/rnagraph/state"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNoScene         = errors.New("no structure uploaded")
)

// ============================================================
// Workspace
// ============================================================

// Workspace состояние одной сессии. Сцены неизменяемы:
// каждое изменение публикует новый указатель.
type Workspace struct {
	ID string

	mu         sync.Mutex
	scene      *models.Scene
	structure  *models.Structure
	generation uint64
}

func (w *Workspace) Scene() *models.Scene {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.scene
}

// ============================================================
// Session Manager
// ============================================================

type SessionManager struct {
	mu         sync.Mutex
	workspaces map[string]*Workspace

	pipeline *mapper.Pipeline
	journal  *repository.Repository
	async    bool
	logger   *zap.Logger
	metrics  *metrics.Metrics

	inflight sync.WaitGroup
}

// NewSessionManager journal может быть nil: тогда загрузки не журналируются
func NewSessionManager(pipeline *mapper.Pipeline, journal *repository.Repository, async bool, logger *zap.Logger, m *metrics.Metrics) *SessionManager {
	return &SessionManager{
		workspaces: make(map[string]*Workspace),
		pipeline:   pipeline,
		journal:    journal,
		async:      async,
		logger:     logger.Named("sessions"),
		metrics:    m,
	}
}

func (m *SessionManager) Create() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.NewString()
	m.workspaces[id] = &Workspace{ID: id}
	m.metrics.ActiveSessions.Inc()
	return id
}

func (m *SessionManager) Get(id string) (*Workspace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ws, ok := m.workspaces[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return ws, nil
}

func (m *SessionManager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	_, ok := m.workspaces[id]
	delete(m.workspaces, id)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	m.metrics.ActiveSessions.Dec()

	if m.journal != nil {
		if err := m.journal.DeleteSession(ctx, id); err != nil {
			m.logger.Warn("journal cleanup failed", zap.String("session", id), zap.Error(err))
		}
	}
	return nil
}

// Upload заменяет сцену сессии. При ошибке прежняя сцена остается.
func (m *SessionManager) Upload(ctx context.Context, id, filename string, data []byte) (*models.Scene, error) {
	ws, err := m.Get(id)
	if err != nil {
		return nil, err
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()

	prepared, err := m.pipeline.Prepare(filename, data)
	m.record(ctx, id, filename, data, prepared, err)
	if err != nil {
		return nil, err
	}

	ws.generation++
	gen := ws.generation
	prepared.Scene.Generation = gen
	ws.structure = prepared.Structure

	if !m.async {
		interactions := m.pipeline.Interactions(ctx, prepared.Structure)
		ws.scene = m.pipeline.Attach(prepared.Scene, interactions)
		return ws.scene, nil
	}

	ws.scene = prepared.Scene
	m.inflight.Add(1)
	go m.extract(ws, gen, prepared.Structure)
	return ws.scene, nil
}

// extract прикрепляет взаимодействия, только если за время расчета
// в сессию не загрузили новую структуру
func (m *SessionManager) extract(ws *Workspace, gen uint64, s *models.Structure) {
	defer m.inflight.Done()

	interactions := m.pipeline.Interactions(context.Background(), s)

	ws.mu.Lock()
	defer ws.mu.Unlock()

	if ws.generation != gen {
		m.metrics.StaleResults.Inc()
		m.logger.Debug("stale interactions dropped",
			zap.String("session", ws.ID),
			zap.Uint64("generation", gen),
			zap.Uint64("current", ws.generation),
		)
		return
	}
	ws.scene = m.pipeline.Attach(ws.scene, interactions)
}

func (m *SessionManager) Scene(id string) (*models.Scene, error) {
	ws, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	sc := ws.Scene()
	if sc == nil {
		return nil, ErrNoScene
	}
	return sc, nil
}

func (m *SessionManager) Apply(id string, ev state.Event) (*models.Scene, error) {
	ws, err := m.Get(id)
	if err != nil {
		return nil, err
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()

	if ws.scene == nil {
		return nil, ErrNoScene
	}
	next, err := state.Apply(ws.scene, ev)
	if err != nil {
		return nil, err
	}
	m.metrics.Events.WithLabelValues(string(ev.Kind)).Inc()
	ws.scene = next
	return next, nil
}

func (m *SessionManager) Uploads(ctx context.Context, id string) ([]repository.Upload, error) {
	if _, err := m.Get(id); err != nil {
		return nil, err
	}
	if m.journal == nil {
		return []repository.Upload{}, nil
	}
	return m.journal.List(ctx, id)
}

// Wait дожидается фоновых расчетов взаимодействий
func (m *SessionManager) Wait() {
	m.inflight.Wait()
}

func (m *SessionManager) record(ctx context.Context, id, filename string, data []byte, prepared *mapper.Prepared, err error) {
	if m.journal == nil {
		return
	}

	u := repository.Upload{
		SessionID: id,
		Filename:  filename,
		SizeBytes: int64(len(data)),
		Outcome:   "ok",
	}
	if err != nil {
		u.Outcome = "rejected"
		u.Message = mapper.UserMessage(err)
	} else {
		u.Format = string(prepared.Structure.Format)
		u.StructureName = prepared.Structure.Name
		for _, l := range prepared.Scene.PointLayers {
			u.Points += len(l.Keys)
		}
	}

	if _, jerr := m.journal.Record(ctx, u); jerr != nil {
		m.logger.Warn("journal write failed", zap.String("session", id), zap.Error(jerr))
	}
}
