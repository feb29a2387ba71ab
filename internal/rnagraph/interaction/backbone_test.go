package interaction

import (
	"context"
	"testing"

	"rna-graph/internal/rnagraph/classify"
	"rna-graph/internal/rnagraph/models"
	"rna-graph/internal/rnagraph/parser"
	"rna-graph/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, data []byte) *models.Structure {
	t.Helper()
	s, err := parser.Decode(data, models.FormatPDB)
	require.NoError(t, err)
	s, _ = classify.Classify(s)
	return s
}

func TestBackboneAnnotator(t *testing.T) {
	t.Run("links consecutive nucleotides", func(t *testing.T) {
		s := decode(t, testutil.GCDuplexPDB())

		a, err := NewBackboneAnnotator().Annotate(context.Background(), s)
		require.NoError(t, err)

		require.Len(t, a.BasePhosphates, 1)
		assert.Equal(t, models.ResidueKey{Chain: "A", Number: 1, Name: "G"}, a.BasePhosphates[0].NT1.Key())
		assert.Equal(t, models.ResidueKey{Chain: "A", Number: 2, Name: "C"}, a.BasePhosphates[0].NT2.Key())
		assert.Empty(t, a.BasePairs)
		assert.Empty(t, a.Stackings)
	})

	t.Run("legacy O3* atom name", func(t *testing.T) {
		s := decode(t, testutil.PDB(
			testutil.PDBAtom("ATOM", 1, "O3*", "G", "A", 1, 0, 0, 0, "O"),
			testutil.PDBAtom("ATOM", 2, "P", "C", "A", 2, 1.6, 0, 0, "P"),
		))

		a, err := NewBackboneAnnotator().Annotate(context.Background(), s)
		require.NoError(t, err)
		require.Len(t, a.BasePhosphates, 1)
		assert.Equal(t, "G", a.BasePhosphates[0].NT1.Auth.Name)
	})

	t.Run("distant residues are not linked", func(t *testing.T) {
		s := decode(t, testutil.PDB(
			testutil.PDBAtom("ATOM", 1, "O3'", "G", "A", 1, 0, 0, 0, "O"),
			testutil.PDBAtom("ATOM", 2, "P", "C", "A", 2, 5, 0, 0, "P"),
		))

		a, err := NewBackboneAnnotator().Annotate(context.Background(), s)
		require.NoError(t, err)
		assert.Empty(t, a.BasePhosphates)
	})

	t.Run("chains are not linked to each other", func(t *testing.T) {
		s := decode(t, testutil.PDB(
			testutil.PDBAtom("ATOM", 1, "O3'", "G", "A", 1, 0, 0, 0, "O"),
			testutil.PDBAtom("ATOM", 2, "P", "C", "B", 2, 1, 0, 0, "P"),
		))

		a, err := NewBackboneAnnotator().Annotate(context.Background(), s)
		require.NoError(t, err)
		assert.Empty(t, a.BasePhosphates)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewBackboneAnnotator().Annotate(ctx, decode(t, testutil.GCDuplexPDB()))
		assert.ErrorIs(t, err, context.Canceled)
	})
}
