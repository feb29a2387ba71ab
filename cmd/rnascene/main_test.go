package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"rna-graph/internal/rnagraph/models"
	"rna-graph/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func run(args ...string) (string, error) {
	cmd := newRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSceneCommand(t *testing.T) {
	path := writeFile(t, "1gca.pdb", testutil.GCDuplexPDB())

	t.Run("json", func(t *testing.T) {
		out, err := run("scene", path)
		require.NoError(t, err)

		var sc models.Scene
		require.NoError(t, json.Unmarshal([]byte(out), &sc))
		assert.Equal(t, "1GCA", sc.Name)
		assert.Len(t, sc.LineLayers, 1)
	})

	t.Run("layer summary", func(t *testing.T) {
		out, err := run("scene", "--layers", path)
		require.NoError(t, err)

		assert.Contains(t, out, "1GCA (pdb, RNA)")
		assert.Contains(t, out, "lines   phosphodiester 1")
		assert.Contains(t, out, "option  heteroatoms    disabled")
	})

	t.Run("rejected file", func(t *testing.T) {
		_, err := run("scene", writeFile(t, "notes.txt", []byte("hello")))
		require.Error(t, err)
		assert.Equal(t, "Error: Unsupported file format. Please upload a PDB or CIF file.", err.Error())
	})

	t.Run("missing argument", func(t *testing.T) {
		_, err := run("scene")
		assert.Error(t, err)
	})
}

func TestPreviewCommand(t *testing.T) {
	path := writeFile(t, "1gca.pdb", testutil.GCDuplexPDB())

	out, err := run("preview", "--all", path)
	require.NoError(t, err)

	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "<line")
	assert.Contains(t, out, "<circle")
}
