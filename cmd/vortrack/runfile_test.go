package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/notargets/vortrack/store"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRun = `
name: tilted
mesh:
  box: [4, 4, 4]
  hi: [4, 4, 4]
first: 0
last: 2
workers: 3
strategy: roundrobin
store:
  backend: sqlite
vortices:
  - point: [1.37, 1.52, 0]
    dir: [0.13, -0.07, 1]
    velocity: [0.15, 0.05, 0]
    charge: 1
`

func writeRun(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testRun), 0o644))
	return path
}

func TestLoadRunFile(t *testing.T) {
	rf, err := loadRunFile(writeRun(t))
	require.NoError(t, err)

	assert.Equal(t, "tilted", rf.Name)
	assert.Equal(t, [3]int{4, 4, 4}, rf.Mesh.Box)
	assert.Equal(t, 2, rf.Last)
	assert.Equal(t, 3, rf.Workers)
	assert.Equal(t, "sqlite", rf.Store.Backend)
	// Unset keys keep their defaults
	assert.Equal(t, 1.0, rf.Dt)
	require.Len(t, rf.Vortices, 1)
	assert.Equal(t, [3]float64{0.15, 0.05, 0}, rf.Vortices[0].Velocity)

	_, err = loadRunFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestFlagsOverrideRunFile(t *testing.T) {
	var rflags runFlags
	cmd := &cobra.Command{Use: "test"}
	rflags.register(cmd)
	require.NoError(t, cmd.Flags().Parse([]string{
		"--config", writeRun(t), "--box", "2,3,4", "--workers", "1",
	}))

	rf, err := rflags.resolve(cmd)
	require.NoError(t, err)
	assert.Equal(t, [3]int{2, 3, 4}, rf.Mesh.Box)
	assert.Equal(t, 1, rf.Workers)
	assert.Equal(t, "roundrobin", rf.Strategy)

	var bad runFlags
	cmd = &cobra.Command{Use: "test"}
	bad.register(cmd)
	require.NoError(t, cmd.Flags().Parse([]string{"--box", "2,3"}))
	_, err = bad.resolve(cmd)
	assert.Error(t, err)
}

func TestRunExtractStoresResults(t *testing.T) {
	rf, err := loadRunFile(writeRun(t))
	require.NoError(t, err)
	rf.Store.Path = filepath.Join(t.TempDir(), "vortrack.db")
	rf.Store.Archive = true

	require.NoError(t, runExtract(rf))

	s, err := store.Open(rf.Store.Backend, rf.Store.Path)
	require.NoError(t, err)
	defer s.Close()

	keys, err := s.Keys(store.MatrixPrefix(rf.Name))
	require.NoError(t, err)
	assert.Equal(t, []string{"tilted.tm.0.1", "tilted.tm.1.2"}, keys)

	for step := 0; step <= 2; step++ {
		data, err := s.Get(store.LinesKey(rf.Name, step))
		require.NoError(t, err, "step %d", step)
		_, lines, err := store.DecodeLines(data)
		require.NoError(t, err)
		if len(lines) != 1 {
			t.Fatalf("step %d: expected 1 line, got %d", step, len(lines))
		}
		assert.Equal(t, 0, lines[0].GID)
	}

	_, err = store.GetMesh(s, rf.Name)
	assert.NoError(t, err)

	// A second run reuses the archived graph and punctures
	require.NoError(t, runExtract(rf))
}

func TestRunExtractRejectsEmptyRange(t *testing.T) {
	rf := defaultRunFile()
	rf.Last = rf.First
	assert.Error(t, runExtract(rf))
}

func TestStoredGraphOfOtherMeshIsRebuilt(t *testing.T) {
	s, err := store.OpenBadger("")
	require.NoError(t, err)
	defer s.Close()

	rf := defaultRunFile()
	rf.Mesh.Box = [3]int{2, 3, 4}
	first, err := rf.tetMesh()
	require.NoError(t, err)
	_, err = rf.graph(first, s)
	require.NoError(t, err)

	// Same node count, different connectivity
	rf.Mesh.Box = [3]int{4, 3, 2}
	second, err := rf.tetMesh()
	require.NoError(t, err)
	require.Equal(t, len(first.Vertices), len(second.Vertices))

	g, err := rf.graph(second, s)
	require.NoError(t, err)
	assert.True(t, second.Matches(g))

	stored, err := store.GetMesh(s, rf.Name)
	require.NoError(t, err)
	assert.True(t, second.Matches(stored))

	// A matching stored graph is reused
	again, err := rf.graph(second, s)
	require.NoError(t, err)
	assert.Equal(t, stored, again)
}
