package equivalence

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/meshclean/mesh"
	"github.com/notargets/meshclean/spatial"
)

func cfgWith(tol float64) Config {
	cfg := DefaultConfig()
	cfg.Tolerance = tol
	return cfg
}

var errHook = errors.New("hook failed")

// failingMesh fails the nth call of one mutation hook, after the earlier
// calls have reached the store.
type failingMesh struct {
	*mesh.Mesh
	removeAt, insertAt int
	removes, inserts   int
}

func (f *failingMesh) RemoveNode(id int) error {
	if f.removes++; f.removes == f.removeAt {
		return errHook
	}
	return f.Mesh.RemoveNode(id)
}

func (f *failingMesh) InsertRigidElement(e mesh.RigidElement) error {
	if f.inserts++; f.inserts == f.insertAt {
		return errHook
	}
	return f.Mesh.InsertRigidElement(e)
}

func TestEquivalence_ThreeNodes(t *testing.T) {
	m := mesh.MustBuild([]mesh.Node{
		mesh.N(1, 0, 0, 0), mesh.N(2, 0, 0, 0.001), mesh.N(3, 10, 0, 0),
	}, []mesh.Element{mesh.T(1, 1, 2, 3)})
	var buf bytes.Buffer
	cfg := cfgWith(0.01)
	cfg.Logger = slog.New(slog.NewTextHandler(&buf, nil))

	merged, err := NewEquivalencer(m, cfg).Equivalence()
	require.NoError(t, err)
	assert.Equal(t, map[int]int{2: 1}, merged)
	assert.Equal(t, 2, m.NumNodes())
	_, ok := m.Node(3)
	assert.True(t, ok)
	e, _ := m.Element(1)
	assert.Equal(t, []int{1, 1, 3}, e.Nodes)
	assert.Contains(t, buf.String(), "element collapsed by node merge")
	assert.NotContains(t, buf.String(), "level=INFO", "summaries stay at debug")
	require.NoError(t, m.CheckReferences())
}

func TestEquivalence_SplitPlates(t *testing.T) {
	m := mesh.SplitPlates(1.e-4)
	merged, err := NewEquivalencer(m, cfgWith(1.e-3)).Equivalence()
	require.NoError(t, err)
	assert.Equal(t, map[int]int{11: 5, 12: 6}, merged)
	e, _ := m.Element(3)
	assert.Equal(t, []int{5, 13, 14, 6}, e.Nodes)
	require.NoError(t, m.CheckReferences())

	// Idempotent
	merged, err = NewEquivalencer(m, cfgWith(1.e-3)).Equivalence()
	require.NoError(t, err)
	assert.Empty(t, merged)

	// A tolerance below the gap finds nothing
	m = mesh.SplitPlates(1.e-2)
	merged, err = NewEquivalencer(m, cfgWith(1.e-3)).Equivalence()
	require.NoError(t, err)
	assert.Empty(t, merged)
	assert.Equal(t, 12, m.NumNodes())
}

func TestEquivalence_TransitiveCluster(t *testing.T) {
	// 30 -- 10 -- 20 chained at 0.8 tol spacing; 30 and 20 are 1.6 apart
	m := mesh.MustBuild([]mesh.Node{
		mesh.N(10, 0, 0, 0), mesh.N(20, 0.8, 0, 0), mesh.N(30, -0.8, 0, 0), mesh.N(40, 5, 0, 0),
	}, []mesh.Element{mesh.T(1, 20, 30, 40)})
	merged, err := NewEquivalencer(m, cfgWith(1)).Equivalence()
	require.NoError(t, err)
	assert.Equal(t, map[int]int{20: 10, 30: 10}, merged)
	e, _ := m.Element(1)
	assert.Equal(t, []int{10, 10, 40}, e.Nodes)
}

func TestEquivalence_MinIDSurvives(t *testing.T) {
	m := mesh.MustBuild([]mesh.Node{
		mesh.N(9, 1, 1, 1), mesh.N(4, 1, 1, 1), mesh.N(7, 1, 1, 1),
	}, nil)
	merged, err := NewEquivalencer(m, cfgWith(1.e-6)).Equivalence()
	require.NoError(t, err)
	assert.Equal(t, map[int]int{7: 4, 9: 4}, merged)
	assert.Equal(t, []mesh.Node{mesh.N(4, 1, 1, 1)}, m.Nodes())
}

func TestEquivalence_Subset(t *testing.T) {
	m := mesh.MustBuild([]mesh.Node{
		mesh.N(1, 0, 0, 0), mesh.N(2, 0, 0, 0),
		mesh.N(3, 5, 0, 0), mesh.N(4, 5, 0, 0),
	}, nil)
	cfg := cfgWith(1.e-3)
	cfg.Subset = []int{4}
	merged, err := NewEquivalencer(m, cfg).Equivalence()
	require.NoError(t, err)
	assert.Equal(t, map[int]int{4: 3}, merged, "the pair outside the subset stays")
	assert.Equal(t, 3, m.NumNodes())

	cfg.Subset = []int{1, 99, 98}
	_, err = NewEquivalencer(m, cfg).Equivalence()
	var le *mesh.LookupError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, []int{98, 99}, le.IDs)

	cfg.Subset = []int{}
	_, err = NewEquivalencer(m, cfg).Equivalence()
	assert.True(t, errors.Is(err, mesh.ErrValidation))
}

func TestEquivalence_Validation(t *testing.T) {
	m := mesh.QuadStrip(1)
	for _, tol := range []float64{0, -1, math.NaN()} {
		_, err := NewEquivalencer(m, cfgWith(tol)).Equivalence()
		assert.True(t, errors.Is(err, mesh.ErrValidation), "tolerance %v", tol)
	}
	cfg := cfgWith(1)
	cfg.MaxCandidates = 0
	_, err := NewEquivalencer(m, cfg).Equivalence()
	assert.True(t, errors.Is(err, mesh.ErrValidation))
}

func TestEquivalence_AttributeMismatch(t *testing.T) {
	nodes := []mesh.Node{mesh.N(1, 0, 0, 0), mesh.N(2, 0, 0, 0)}
	nodes[1].CD = 3
	m := mesh.MustBuild(nodes, nil)

	_, err := NewEquivalencer(m, cfgWith(1.e-6)).Equivalence()
	var ce *mesh.ConsistencyError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 2, ce.NodeID)
	assert.Equal(t, 2, m.NumNodes())

	cfg := cfgWith(1.e-6)
	cfg.AllowAttributeMismatch = true
	merged, err := NewEquivalencer(m, cfg).Equivalence()
	require.NoError(t, err)
	assert.Equal(t, map[int]int{2: 1}, merged)
	n, _ := m.Node(1)
	assert.Equal(t, 0, n.CD, "the survivor keeps its own attributes")
}

func TestEquivalence_RigidReferencesAndRollback(t *testing.T) {
	m := mesh.SplitPlates(0)
	require.NoError(t, m.InsertRigidElement(mesh.RigidElement{ID: 1, RefNode: 12, RefComponents: allDOF,
		Groups: []mesh.WeightGroup{{Weight: 1, Components: allDOF, Nodes: []int{11, 1}}}}))
	merged, err := NewEquivalencer(m, cfgWith(1.e-6)).Equivalence()
	require.NoError(t, err)
	assert.Equal(t, map[int]int{11: 5, 12: 6}, merged)
	r := m.RigidElements()[0]
	assert.Equal(t, 6, r.RefNode)
	assert.Equal(t, []int{5, 1}, r.Groups[0].Nodes)

	// An element already pointing at a missing node fails the dry run and
	// nothing is changed
	m = mesh.SplitPlates(0)
	require.NoError(t, m.AddElement(mesh.T(9, 1, 2, 500)))
	before := m.Elements()
	_, err = NewEquivalencer(m, cfgWith(1.e-6)).Equivalence()
	assert.True(t, errors.Is(err, mesh.ErrConsistency))
	assert.Equal(t, before, m.Elements())
	assert.Equal(t, 12, m.NumNodes())
}

func TestEquivalence_HookFailureRollsBack(t *testing.T) {
	m := mesh.SplitPlates(0)
	elems, nodes := m.Elements(), m.Nodes()
	repo := &failingMesh{Mesh: m, removeAt: 2}

	merged, err := NewEquivalencer(repo, cfgWith(1.e-6)).Equivalence()
	assert.ErrorIs(t, err, errHook)
	assert.Nil(t, merged)
	assert.Equal(t, 2, repo.removes)
	assert.Equal(t, elems, m.Elements(), "rewritten references are restored")
	assert.Equal(t, nodes, m.Nodes(), "the first removed node is restored")
	require.NoError(t, m.CheckReferences())
}

func TestEquivalence_EmptyMesh(t *testing.T) {
	merged, err := NewEquivalencer(mesh.NewMesh(), cfgWith(0.01)).Equivalence()
	var ve *mesh.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "point set", ve.Field)
	assert.Nil(t, merged)

	created, err := NewRigidLinkBuilder(mesh.NewMesh(), cfgWith(0.01)).Build()
	assert.True(t, errors.Is(err, mesh.ErrValidation))
	assert.Empty(t, created)

	// A lone node has nothing to merge with
	m := mesh.MustBuild([]mesh.Node{mesh.N(7, 1, 2, 3)}, nil)
	merged, err = NewEquivalencer(m, cfgWith(0.01)).Equivalence()
	require.NoError(t, err)
	assert.Empty(t, merged)
	assert.Equal(t, 1, m.NumNodes())
}

func TestEquivalence_DistanceBound(t *testing.T) {
	m := mesh.MustBuild([]mesh.Node{
		mesh.N(1, 0, 0, 0), mesh.N(2, 0.5, 0, 0), mesh.N(3, 0, 0.9, 0), mesh.N(4, 0, 0, 1.1),
	}, nil)
	pairs, err := NewEquivalencer(m, cfgWith(1)).Pairs()
	require.NoError(t, err)
	for _, p := range pairs {
		assert.LessOrEqual(t, p.Distance, 1.)
		assert.Less(t, p.A, p.B)
	}
	require.Len(t, pairs, 3, "node 4 is out of range of everything")
	want := []NodePair{
		{A: 1, B: 2, Distance: 0.5},
		{A: 1, B: 3, Distance: 0.9},
		{A: 2, B: 3, Distance: math.Hypot(0.5, 0.9)},
	}
	for i, w := range want {
		assert.Equal(t, [2]int{w.A, w.B}, [2]int{pairs[i].A, pairs[i].B})
		assert.InDelta(t, w.Distance, pairs[i].Distance, 1e-12)
	}
}

func TestClusters(t *testing.T) {
	assert.Empty(t, Clusters(nil))
	got := Clusters([]NodePair{{A: 5, B: 8}, {A: 3, B: 8}, {A: 20, B: 21}})
	assert.Equal(t, map[int]int{5: 3, 8: 3, 21: 20}, got)
}

func TestRigidLinkBuilder(t *testing.T) {
	m := mesh.SplitPlates(1.e-4)
	require.NoError(t, m.InsertRigidElement(mesh.RigidElement{ID: 40, RefNode: 1, RefComponents: allDOF,
		Groups: []mesh.WeightGroup{{Weight: 1, Components: allDOF, Nodes: []int{2}}}}))
	created, err := NewRigidLinkBuilder(m, cfgWith(1.e-3)).Build()
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, mesh.RigidElement{ID: 41, RefNode: 5, RefComponents: "123456",
		Groups: []mesh.WeightGroup{{Weight: 1, Components: "123456", Nodes: []int{11}}}}, created[0])
	assert.Equal(t, 42, created[1].ID)
	assert.Equal(t, 6, created[1].RefNode)
	assert.Equal(t, 3, m.NumRigidElements())
	assert.Equal(t, 12, m.NumNodes(), "rigid links never merge")

	// Nothing in range creates nothing
	created, err = NewRigidLinkBuilder(mesh.QuadStrip(2), cfgWith(0.1)).Build()
	require.NoError(t, err)
	assert.Empty(t, created)
}

func TestRigidLinkBuilder_HookFailureRollsBack(t *testing.T) {
	m := mesh.SplitPlates(1.e-4)
	repo := &failingMesh{Mesh: m, insertAt: 2}

	created, err := NewRigidLinkBuilder(repo, cfgWith(1.e-3)).Build()
	assert.ErrorIs(t, err, errHook)
	assert.Nil(t, created)
	assert.Equal(t, 2, repo.inserts)
	assert.Equal(t, 0, m.NumRigidElements(), "the first link is withdrawn")
	assert.Equal(t, 1, m.NextFreeID(mesh.RigidKind))

	// The same mesh builds cleanly once the hook stops failing
	created, err = NewRigidLinkBuilder(m, cfgWith(1.e-3)).Build()
	require.NoError(t, err)
	assert.Len(t, created, 2)
	assert.Equal(t, 1, created[0].ID)
}

func TestFindClosest(t *testing.T) {
	ref := []spatial.Point{
		{ID: 100, Pos: r3.Vec{X: 1, Y: 2, Z: 3}},
		{ID: 200, Pos: r3.Vec{X: 1, Y: 2, Z: 3.05}},
		{ID: 300, Pos: r3.Vec{X: -4}},
	}
	got, err := FindClosest(ref, []r3.Vec{{X: 1, Y: 2, Z: 3}, {X: 50}}, 2, 0.1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Len(t, got[0], 2)
	assert.Equal(t, spatial.Neighbor{ID: 100, Distance: 0}, got[0][0])
	assert.Equal(t, 200, got[0][1].ID)
	assert.NotNil(t, got[1])
	assert.Empty(t, got[1])

	_, err = FindClosest(ref, nil, 0, 0.1)
	assert.True(t, errors.Is(err, mesh.ErrValidation))
	_, err = FindClosest(ref, nil, 1, -0.1)
	assert.True(t, errors.Is(err, mesh.ErrValidation))
	_, err = FindClosest(nil, nil, 1, 0.1)
	assert.True(t, errors.Is(err, mesh.ErrValidation))
}
