package mesh

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestMesh_Construction(t *testing.T) {
	m := QuadStrip(3)
	assert.Equal(t, 8, m.NumNodes())
	assert.Equal(t, 3, m.NumElements())
	require.NoError(t, m.CheckReferences())

	// Enumerations are sorted and detached from the store
	elems := m.Elements()
	require.Len(t, elems, 3)
	assert.Equal(t, []int{1, 3, 4, 2}, elems[0].Nodes)
	assert.Equal(t, "CQUAD4", elems[0].Card)
	elems[0].Nodes[0] = 99
	e, ok := m.Element(1)
	require.True(t, ok)
	assert.Equal(t, 1, e.Nodes[0])

	err := m.AddNode(N(1, 5, 5, 5))
	assert.True(t, errors.Is(err, ErrValidation))
	err = m.AddElement(Element{ID: 9, Type: Quad4, Nodes: []int{1, 2, 3}})
	assert.True(t, errors.Is(err, ErrValidation), "quad with three nodes must be rejected")
}

func TestMesh_RewriteAndRemove(t *testing.T) {
	m := SplitPlates(0)

	require.NoError(t, m.RewriteElementReference(ElementKind, 3, 11, 5))
	e, _ := m.Element(3)
	assert.Equal(t, []int{5, 13, 14, 12}, e.Nodes)
	require.NoError(t, m.RemoveNode(11))
	_, ok := m.Node(11)
	assert.False(t, ok)
	require.NoError(t, m.CheckReferences())

	// Node 12 is still referenced by element 3
	require.NoError(t, m.RemoveNode(12))
	err := m.CheckReferences()
	var ce *ConsistencyError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 3, ce.ElementID)
	assert.Equal(t, 12, ce.NodeID)

	err = m.RewriteElementReference(ElementKind, 1, 16, 1)
	assert.True(t, errors.Is(err, ErrConsistency), "element 1 does not use node 16")
	err = m.RewriteElementReference(ElementKind, 42, 1, 2)
	assert.True(t, errors.Is(err, ErrLookup))
	err = m.RewriteElementReference(ElementKind, 1, 1, 11)
	assert.True(t, errors.Is(err, ErrConsistency), "node 11 was removed")
	err = m.RemoveNode(11)
	assert.True(t, errors.Is(err, ErrLookup))
}

func TestMesh_BatchRollback(t *testing.T) {
	m := SplitPlates(0)
	before := m.Elements()
	beforeNodes := m.Nodes()

	b := m.Begin()
	require.NoError(t, m.RewriteElementReference(ElementKind, 3, 11, 5))
	require.NoError(t, m.RewriteElementReference(ElementKind, 3, 12, 6))
	require.NoError(t, m.RemoveNode(11))
	require.NoError(t, m.RemoveNode(12))
	require.NoError(t, m.InsertRigidElement(RigidElement{ID: 1, RefNode: 1, RefComponents: "123456",
		Groups: []WeightGroup{{Weight: 1, Components: "123456", Nodes: []int{2}}}}))
	require.NoError(t, m.RemoveElement(4))
	b.Rollback()

	assert.Equal(t, before, m.Elements())
	assert.Equal(t, beforeNodes, m.Nodes())
	assert.Equal(t, 0, m.NumRigidElements())

	// Commit keeps the changes, a later Rollback is a no-op
	b = m.Begin()
	require.NoError(t, m.RemoveElement(4))
	b.Commit()
	b.Rollback()
	assert.Equal(t, 3, m.NumElements())

	// Nested batch only undoes its own changes
	outer := m.Begin()
	require.NoError(t, m.RemoveElement(3))
	inner := m.Begin()
	require.NoError(t, m.RemoveElement(2))
	inner.Rollback()
	assert.Equal(t, 2, m.NumElements())
	outer.Rollback()
	assert.Equal(t, 3, m.NumElements())
}

func TestMesh_RigidElements(t *testing.T) {
	m := SplitPlates(0)
	assert.Equal(t, 1, m.NextFreeID(RigidKind))
	r := RigidElement{ID: 7, RefNode: 5, RefComponents: "123456",
		Groups: []WeightGroup{{Weight: 1, Components: "123456", Nodes: []int{11}}}}
	require.NoError(t, m.InsertRigidElement(r))
	assert.Equal(t, 8, m.NextFreeID(RigidKind))
	assert.Equal(t, []int{5, 11}, r.NodeIDs())

	err := m.InsertRigidElement(r)
	assert.True(t, errors.Is(err, ErrValidation))
	err = m.InsertRigidElement(RigidElement{ID: 8, RefNode: 500})
	assert.True(t, errors.Is(err, ErrLookup))

	require.NoError(t, m.RewriteElementReference(RigidKind, 7, 11, 6))
	got := m.RigidElements()
	require.Len(t, got, 1)
	assert.Equal(t, []int{6}, got[0].Groups[0].Nodes)

	assert.Equal(t, 17, m.NextFreeID(NodeKind))
	assert.Equal(t, 5, m.NextFreeID(ElementKind))
	assert.Equal(t, 2, m.NextFreeID(PropertyKind))
}

func TestElement_Geometry(t *testing.T) {
	m := FoldedQuadStrip()
	e1, _ := m.Element(1)
	n, err := e1.Normal(m)
	require.NoError(t, err)
	assert.InDelta(t, 1, n.Z, 1e-12)

	e3, _ := m.Element(3)
	n, err = e3.Normal(m)
	require.NoError(t, err)
	assert.InDelta(t, -1, n.X, 1e-12)
	assert.InDelta(t, 1, r3.Norm(n), 1e-12)

	c, err := e1.Centroid(m)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, c.X, 1e-12)
	assert.InDelta(t, 0.5, c.Y, 1e-12)

	tri := T(10, 1, 3, 2)
	n, err = tri.Normal(m)
	require.NoError(t, err)
	assert.InDelta(t, 1, n.Z, 1e-12)

	degenerate := T(11, 1, 3, 5)
	_, err = degenerate.Normal(m)
	assert.True(t, errors.Is(err, ErrConsistency))

	hexa := Element{ID: 12, Type: Other, Card: "CHEXA", Nodes: []int{1, 2, 3, 4, 5, 6, 7, 8}}
	_, err = hexa.Normal(m)
	var ut *UnsupportedTypeError
	require.True(t, errors.As(err, &ut))
	assert.Equal(t, "CHEXA", ut.Card)
	c, err = hexa.Centroid(m)
	require.NoError(t, err)
	assert.False(t, math.IsNaN(c.X))

	missing := T(13, 1, 3, 99)
	_, err = missing.Normal(m)
	assert.True(t, errors.Is(err, ErrLookup))
}

func TestParseElementType(t *testing.T) {
	assert.Equal(t, Tri3, ParseElementType("CTRIA3"))
	assert.Equal(t, Quad4, ParseElementType("cquad4"))
	assert.Equal(t, Other, ParseElementType("CHEXA"))
	assert.Equal(t, "Other", Other.String())
	assert.Equal(t, 4, Quad4.GetNumNodes())
	assert.False(t, Other.IsShell())
}

func TestMesh_PrintStatistics(t *testing.T) {
	m := QuadStrip(2)
	m.Title = "strip"
	var buf bytes.Buffer
	m.PrintStatistics(&buf)
	assert.Contains(t, buf.String(), "Nodes: 6")
	assert.Contains(t, buf.String(), "CQUAD4: 2")
}
