package cmd

import (
	"bytes"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/meshclean/InputParameters"
	"github.com/notargets/meshclean/mesh"
	"github.com/notargets/meshclean/mesh/readers"
)

func TestRunJob(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "plates.yaml.zst")
	out := filepath.Join(dir, "plates_clean.json")
	msh := mesh.SplitPlates(1.e-5)
	require.NoError(t, msh.AddNode(mesh.N(99, 7, 7, 7)))
	require.NoError(t, readers.WriteMeshFile(in, msh))

	var rp InputParameters.RunParameters
	require.NoError(t, rp.Parse([]byte(`
Title: Test Case
Mesh: `+in+`
Output: `+out+`
Steps:
  - Operation: equivalence
    Tolerance: 0.001
  - Operation: removeUnused
  - Operation: freeEdges
  - Operation: patches
    Seeds: [1]
    AngleTolerances: [1]
  - Operation: joints
    PIDSets: [[1], [1]]
`)))
	var buf, logs bytes.Buffer
	require.NoError(t, RunJob(&rp, slog.New(slog.NewTextHandler(&logs, nil)), &buf))
	assert.Contains(t, logs.String(), `level=INFO msg="nodes equivalenced" removed=2`)
	assert.Contains(t, logs.String(), `msg="unassociated nodes removed" count=1`)
	assert.Contains(t, buf.String(), "Equivalenced 2 nodes")
	assert.Contains(t, buf.String(), "11 -> 5")
	assert.Contains(t, buf.String(), "Removed 1 unassociated nodes")
	assert.Contains(t, buf.String(), "Non-manifold edges: 0")
	assert.Contains(t, buf.String(), "[1 2 3 4]")

	got, err := readers.ReadMeshFile(out)
	require.NoError(t, err)
	assert.Equal(t, 10, got.NumNodes())
	assert.Equal(t, 4, got.NumElements())
	e, _ := got.Element(3)
	assert.Equal(t, []int{5, 13, 14, 6}, e.Nodes)
}

func TestRunJob_StepError(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "strip.yaml")
	require.NoError(t, readers.WriteMeshFile(in, mesh.QuadStrip(2)))
	rp := InputParameters.RunParameters{
		Mesh:  in,
		Steps: []InputParameters.Step{{Operation: InputParameters.OpPatches, Seeds: []int{42}, AngleTolerances: []float64{10}}},
	}
	err := RunJob(&rp, slog.New(slog.DiscardHandler), &bytes.Buffer{})
	assert.True(t, errors.Is(err, mesh.ErrLookup))
	assert.Contains(t, err.Error(), "step 0 (patches)")
}

func TestPartFileName(t *testing.T) {
	assert.Equal(t, "fem_pid=3.yaml.gz", partFileName("fem.yaml.gz", 3))
	assert.Equal(t, filepath.Join("out", "fem_pid=1.json"), partFileName(filepath.Join("out", "fem.json"), 1))
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "plates.yaml")
	out := filepath.Join(dir, "plates_rbe3.yaml.gz")
	require.NoError(t, readers.WriteMeshFile(in, mesh.SplitPlates(1.e-4)))

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"rbe3", "-F", in, "-o", out, "--tol", "0.001"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "Created 2 RBE3 elements")
	got, err := readers.ReadMeshFile(out)
	require.NoError(t, err)
	assert.Equal(t, 2, got.NumRigidElements())

	buf.Reset()
	rootCmd.SetArgs([]string{"closest", "-F", in, "-Q", in, "--tol", "0.001", "-k", "2"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "11: 11(0) 5(")

	buf.Reset()
	rootCmd.SetArgs([]string{"equivalence", "-F", in, "--tol", "0.001", "--dryRun"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "Candidate pairs: 2")
	assert.Contains(t, buf.String(), "Would equivalence 2 nodes")
	assert.Contains(t, buf.String(), "11 -> 5")
	assert.Contains(t, buf.String(), "12 -> 6")
	unchanged, err := readers.ReadMeshFile(in)
	require.NoError(t, err)
	assert.Equal(t, 12, unchanged.NumNodes())

	buf.Reset()
	rootCmd.SetArgs([]string{"split", "-F", in, "-o", filepath.Join(dir, "part.json.lz4")})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "Property 1: 4 elements, 12 nodes")
	part, err := readers.ReadMeshFile(filepath.Join(dir, "part_pid=1.json.lz4"))
	require.NoError(t, err)
	assert.Equal(t, 4, part.NumElements())

	buf.Reset()
	rootCmd.SetArgs([]string{"joints", "-F", in, "-g", "1", "-g", "x"})
	assert.Error(t, rootCmd.Execute())
}
