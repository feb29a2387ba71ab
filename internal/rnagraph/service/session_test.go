package service

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"

	"rna-graph/internal/common/metrics"
	"rna-graph/internal/rnagraph/interaction"
	"rna-graph/internal/rnagraph/mapper"
	"rna-graph/internal/rnagraph/models"
	"rna-graph/internal/rnagraph/repository"
	"rna-graph/internal/rnagraph/state"
	"rna-graph/internal/testutil"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// gatedAnnotator блокирует первый вызов до закрытия release
type gatedAnnotator struct {
	release chan struct{}
	calls   atomic.Int32
	inner   interaction.Annotator
}

func (a *gatedAnnotator) Annotate(ctx context.Context, s *models.Structure) (*interaction.Annotation, error) {
	if a.calls.Add(1) == 1 {
		<-a.release
	}
	return a.inner.Annotate(ctx, s)
}

func newManager(t *testing.T, annotator interaction.Annotator, async bool, journal *repository.Repository) (*SessionManager, *metrics.Metrics) {
	t.Helper()
	m := metrics.New(false)
	p := mapper.New(annotator, zap.NewNop(), m)
	return NewSessionManager(p, journal, async, zap.NewNop(), m), m
}

func newJournal(t *testing.T) *repository.Repository {
	t.Helper()
	db, err := repository.OpenSQLite(filepath.Join(t.TempDir(), "uploads.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := repository.New(db)
	require.NoError(t, repo.Init(context.Background(), "../../../migrations/001_init_uploads.sql"))
	return repo
}

func TestSessions(t *testing.T) {
	mgr, m := newManager(t, interaction.NewBackboneAnnotator(), false, nil)

	id := mgr.Create()
	assert.Equal(t, 1.0, promtest.ToFloat64(m.ActiveSessions))

	_, err := mgr.Scene(id)
	assert.ErrorIs(t, err, ErrNoScene)

	_, err = mgr.Scene("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, mgr.Delete(context.Background(), id))
	assert.ErrorIs(t, mgr.Delete(context.Background(), id), ErrSessionNotFound)
	assert.Equal(t, 0.0, promtest.ToFloat64(m.ActiveSessions))
}

func TestUploadSync(t *testing.T) {
	mgr, _ := newManager(t, interaction.NewBackboneAnnotator(), false, nil)
	id := mgr.Create()

	sc, err := mgr.Upload(context.Background(), id, "1gca.pdb", testutil.GCDuplexPDB())
	require.NoError(t, err)

	assert.Equal(t, uint64(1), sc.Generation)
	assert.False(t, sc.InteractionsPending)
	require.Len(t, sc.LineLayers, 1)

	current, err := mgr.Scene(id)
	require.NoError(t, err)
	assert.Same(t, sc, current)
}

func TestUploadAsync(t *testing.T) {
	mgr, _ := newManager(t, interaction.NewBackboneAnnotator(), true, nil)
	id := mgr.Create()

	sc, err := mgr.Upload(context.Background(), id, "1gca.pdb", testutil.GCDuplexPDB())
	require.NoError(t, err)
	assert.True(t, sc.InteractionsPending)

	mgr.Wait()

	current, err := mgr.Scene(id)
	require.NoError(t, err)
	assert.False(t, current.InteractionsPending)
	assert.Equal(t, uint64(1), current.Generation)
	require.Len(t, current.LineLayers, 1)
	assert.Empty(t, sc.LineLayers)
}

func TestStaleInteractionsDropped(t *testing.T) {
	gate := &gatedAnnotator{release: make(chan struct{}), inner: interaction.NewBackboneAnnotator()}
	mgr, m := newManager(t, gate, true, nil)
	id := mgr.Create()

	_, err := mgr.Upload(context.Background(), id, "first.pdb", testutil.GCDuplexPDB())
	require.NoError(t, err)

	second := testutil.PDB(
		testutil.PDBAtom("ATOM", 1, "P", "A", "B", 7, 1, 1, 1, "P"),
		testutil.PDBAtom("ATOM", 2, "P", "U", "B", 8, 9, 9, 9, "P"),
	)
	_, err = mgr.Upload(context.Background(), id, "second.pdb", second)
	require.NoError(t, err)

	close(gate.release)
	mgr.Wait()

	current, err := mgr.Scene(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), current.Generation)
	assert.Equal(t, "second", current.Name)
	assert.False(t, current.InteractionsPending)
	assert.Empty(t, current.LineLayers)
	assert.Equal(t, 1.0, promtest.ToFloat64(m.StaleResults))
}

func TestFailedUploadKeepsScene(t *testing.T) {
	mgr, _ := newManager(t, interaction.NewBackboneAnnotator(), false, nil)
	id := mgr.Create()

	before, err := mgr.Upload(context.Background(), id, "1gca.pdb", testutil.GCDuplexPDB())
	require.NoError(t, err)

	_, err = mgr.Upload(context.Background(), id, "notes.txt", []byte("hello"))
	require.Error(t, err)
	assert.Equal(t, mapper.MsgUnsupportedFormat, mapper.UserMessage(err))

	after, err := mgr.Scene(id)
	require.NoError(t, err)
	assert.Same(t, before, after)
	assert.Equal(t, uint64(1), after.Generation)
}

func TestApply(t *testing.T) {
	mgr, m := newManager(t, interaction.NewBackboneAnnotator(), false, nil)
	id := mgr.Create()

	_, err := mgr.Apply(id, state.Event{Kind: state.EventClear})
	assert.ErrorIs(t, err, ErrNoScene)

	_, err = mgr.Upload(context.Background(), id, "1gca.pdb", testutil.GCDuplexPDB())
	require.NoError(t, err)

	key := models.ResidueKey{Chain: "A", Number: 1, Name: "G"}
	sc, err := mgr.Apply(id, state.Event{Kind: state.EventPick, Key: &key})
	require.NoError(t, err)
	require.NotNil(t, sc.Selection)

	current, _ := mgr.Scene(id)
	assert.Equal(t, key, *current.Selection)
	assert.Equal(t, 1.0, promtest.ToFloat64(m.Events.WithLabelValues("pick")))

	_, err = mgr.Apply(id, state.Event{Kind: "zoom"})
	assert.ErrorIs(t, err, state.ErrUnknownEvent)
}

func TestUploadJournal(t *testing.T) {
	journal := newJournal(t)
	mgr, _ := newManager(t, interaction.NewBackboneAnnotator(), false, journal)
	id := mgr.Create()
	ctx := context.Background()

	_, err := mgr.Upload(ctx, id, "1gca.pdb", testutil.GCDuplexPDB())
	require.NoError(t, err)
	_, err = mgr.Upload(ctx, id, "prot.pdb", testutil.PDB(testutil.PDBAtom("ATOM", 1, "CA", "ALA", "A", 1, 0, 0, 0, "C")))
	require.Error(t, err)

	uploads, err := mgr.Uploads(ctx, id)
	require.NoError(t, err)
	require.Len(t, uploads, 2)
	assert.Equal(t, "ok", uploads[0].Outcome)
	assert.Equal(t, "1GCA", uploads[0].StructureName)
	assert.Equal(t, "pdb", uploads[0].Format)
	assert.Equal(t, 2, uploads[0].Points)
	assert.Equal(t, "rejected", uploads[1].Outcome)
	assert.Equal(t, mapper.MsgNoNucleotides, uploads[1].Message)

	require.NoError(t, mgr.Delete(ctx, id))
	left, err := journal.List(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, left)
}
