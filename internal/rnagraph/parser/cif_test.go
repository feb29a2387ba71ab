package parser

import (
	"errors"
	"strings"
	"testing"

	"rna-graph/internal/rnagraph/models"
	"rna-graph/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cifHeader = `data_test
loop_
_atom_site.group_PDB
_atom_site.label_atom_id
_atom_site.label_comp_id
_atom_site.label_asym_id
_atom_site.label_seq_id
_atom_site.Cartn_x
_atom_site.Cartn_y
_atom_site.Cartn_z
_atom_site.pdbx_PDB_model_num
`

func TestDecodeCIF(t *testing.T) {
	t.Run("reads atom_site loop with author fields", func(t *testing.T) {
		s, err := Decode([]byte(testutil.MinimalCIF), models.FormatMMCIF)
		require.NoError(t, err)

		assert.Equal(t, models.FormatMMCIF, s.Format)
		assert.Equal(t, "1ABC", s.Name)
		require.Len(t, s.Chains, 2)

		g := s.Chains[0].Residues[0]
		assert.Equal(t, models.ResidueKey{Chain: "A", Number: 1, Name: "G"}, g.Key())
		require.Len(t, g.Atoms, 2)
		assert.Equal(t, "O5'", g.Atoms[1].Name)
		assert.InDelta(t, 3.0, g.Atoms[1].Coord.X, 1e-9)
		assert.False(t, g.Het)

		mg := s.Chains[1].Residues[0]
		assert.Equal(t, 101, mg.Number)
		assert.True(t, mg.Het)
	})

	t.Run("rows may wrap across lines", func(t *testing.T) {
		data := cifHeader + "ATOM P G A 1\n1.0 2.0 3.0 1\n#\n"

		s, err := Decode([]byte(data), models.FormatMMCIF)
		require.NoError(t, err)
		require.Len(t, s.Residues(), 1)
		assert.InDelta(t, 3.0, s.Residues()[0].Atoms[0].Coord.Z, 1e-9)
	})

	t.Run("unknown coordinates are kept as missing", func(t *testing.T) {
		data := cifHeader + "ATOM P G A 1 ? ? ? 1\n"

		s, err := Decode([]byte(data), models.FormatMMCIF)
		require.NoError(t, err)
		assert.False(t, s.Residues()[0].Atoms[0].HasCoord)
	})

	t.Run("keeps only the first model", func(t *testing.T) {
		data := cifHeader +
			"ATOM P G A 1 1.0 1.0 1.0 1\n" +
			"ATOM P G A 1 9.0 9.0 9.0 2\n" +
			"ATOM P C A 2 9.0 9.0 9.0 2\n"

		s, err := Decode([]byte(data), models.FormatMMCIF)
		require.NoError(t, err)
		assert.Equal(t, 2, s.Models)
		require.Len(t, s.Residues(), 1)
		assert.Len(t, s.Residues()[0].Atoms, 1)
	})

	t.Run("skips unrelated categories and text fields", func(t *testing.T) {
		data := "data_x\n" +
			"_struct.title\n;\nloop_\n_atom_site.fake\n;\n" +
			"loop_\n_citation.id\n_citation.title\n1 'A title'\n#\n" +
			strings.TrimPrefix(cifHeader, "data_test\n") +
			"ATOM P G A 1 1.0 1.0 1.0 1\n"

		s, err := Decode([]byte(data), models.FormatMMCIF)
		require.NoError(t, err)
		assert.Equal(t, "x", s.Name)
		assert.Len(t, s.Residues(), 1)
	})
}

func TestDecodeCIFErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"truncated row at eof", cifHeader + "ATOM P G A 1 1.0 2.0\n"},
		{"truncated row before comment", cifHeader + "ATOM P G A 1 1.0\n#\n"},
		{"non numeric coordinate", cifHeader + "ATOM P G A 1 x 2.0 3.0 1\n"},
		{"non numeric residue number", cifHeader + "ATOM P G A one 1.0 2.0 3.0 1\n"},
		{"unterminated quote", cifHeader + "ATOM 'P G A 1 1.0 2.0 3.0 1\n"},
		{"missing coordinate column", "data_x\nloop_\n_atom_site.label_comp_id\n_atom_site.label_seq_id\nG 1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data), models.FormatMMCIF)
			require.Error(t, err)

			var perr *ParseError
			assert.True(t, errors.As(err, &perr))
		})
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{`ATOM 1 P`, []string{"ATOM", "1", "P"}},
		{`ATOM "O5'" G`, []string{"ATOM", "O5'", "G"}},
		{`'a b' c`, []string{"a b", "c"}},
		{"x\t y", []string{"x", "y"}},
		{`it's fine`, []string{"it's", "fine"}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := tokenize(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
