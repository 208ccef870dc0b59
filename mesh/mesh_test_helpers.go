package mesh

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Fixture meshes shared by the package tests of the cleanup algorithms.

// MustBuild assembles a mesh from node and element lists and panics on any
// construction error.
func MustBuild(nodes []Node, elems []Element) *Mesh {
	m := NewMesh()
	for _, n := range nodes {
		if err := m.AddNode(n); err != nil {
			panic(err)
		}
	}
	for _, e := range elems {
		if err := m.AddElement(e); err != nil {
			panic(err)
		}
	}
	return m
}

// N is shorthand for a node at (x, y, z) with default attributes.
func N(id int, x, y, z float64) Node {
	return Node{ID: id, XYZ: r3.Vec{X: x, Y: y, Z: z}}
}

// Q is shorthand for a CQUAD4 on property 1.
func Q(id int, n1, n2, n3, n4 int) Element {
	return Element{ID: id, Type: Quad4, PID: 1, Nodes: []int{n1, n2, n3, n4}}
}

// T is shorthand for a CTRIA3 on property 1.
func T(id int, n1, n2, n3 int) Element {
	return Element{ID: id, Type: Tri3, PID: 1, Nodes: []int{n1, n2, n3}}
}

// QuadStrip is a flat strip of nq unit quads along +x in the z=0 plane.
//
//	2---4---6---8 ...
//	| 1 | 2 | 3 |
//	1---3---5---7 ...
//
// Node 2i+1 sits at (i,0,0), node 2i+2 at (i,1,0); quad k uses
// (2k-1, 2k+1, 2k+2, 2k). Every normal is +z.
func QuadStrip(nq int) *Mesh {
	var (
		nodes []Node
		elems []Element
	)
	for i := 0; i <= nq; i++ {
		nodes = append(nodes, N(2*i+1, float64(i), 0, 0), N(2*i+2, float64(i), 1, 0))
	}
	for k := 1; k <= nq; k++ {
		elems = append(elems, Q(k, 2*k-1, 2*k+1, 2*k+2, 2*k))
	}
	return MustBuild(nodes, elems)
}

// FoldedQuadStrip is a four quad strip with a 90 degree fold along the edge
// shared by quads 2 and 3. Quads 1 and 2 lie in z=0 with normal +z, quads 3
// and 4 stand in the x=2 plane with normal -x.
func FoldedQuadStrip() *Mesh {
	nodes := []Node{
		N(1, 0, 0, 0), N(2, 0, 1, 0),
		N(3, 1, 0, 0), N(4, 1, 1, 0),
		N(5, 2, 0, 0), N(6, 2, 1, 0),
		N(7, 2, 0, 1), N(8, 2, 1, 1),
		N(9, 2, 0, 2), N(10, 2, 1, 2),
	}
	elems := []Element{
		Q(1, 1, 3, 4, 2),
		Q(2, 3, 5, 6, 4),
		Q(3, 5, 7, 8, 6),
		Q(4, 7, 9, 10, 8),
	}
	return MustBuild(nodes, elems)
}

// SplitPlates is two 2x1 quad plates authored independently that meet along
// the line x=2. Plate A owns nodes 1..6, plate B owns nodes 11..16 and its
// nodes on the seam (11, 12) are offset by gap in z from A's (5, 6).
//
//	2---4---6 12--14--16
//	| 1 | 2 | | 3 | 4 |
//	1---3---5 11--13--15
func SplitPlates(gap float64) *Mesh {
	nodes := []Node{
		N(1, 0, 0, 0), N(2, 0, 1, 0),
		N(3, 1, 0, 0), N(4, 1, 1, 0),
		N(5, 2, 0, 0), N(6, 2, 1, 0),
		N(11, 2, 0, gap), N(12, 2, 1, gap),
		N(13, 3, 0, 0), N(14, 3, 1, 0),
		N(15, 4, 0, 0), N(16, 4, 1, 0),
	}
	elems := []Element{
		Q(1, 1, 3, 4, 2),
		Q(2, 3, 5, 6, 4),
		Q(3, 11, 13, 14, 12),
		Q(4, 13, 15, 16, 14),
	}
	return MustBuild(nodes, elems)
}
