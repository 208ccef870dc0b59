// Package spatial provides a static nearest-neighbor index over 3D points.
//
// An Index is a snapshot: it never observes later changes to the point set it
// was built from, and has to be rebuilt after any insertion or removal.
// Queries do not mutate the tree and may run concurrently.
package spatial

import (
	"container/heap"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/meshclean/mesh"
)

// Point is an identified position.
type Point struct {
	ID  int
	Pos r3.Vec
}

// Neighbor is a query result.
type Neighbor struct {
	ID       int
	Distance float64
}

// Index is a kd-tree over a fixed point set.
type Index struct {
	tree *kdtree.Tree
	n    int
}

// Build indexes a non-empty point set with unique ids.
func Build(points []Point) (*Index, error) {
	const op = "spatial.Build"
	if len(points) == 0 {
		return nil, &mesh.ValidationError{Op: op, Field: "point set", Value: 0, Reason: "cannot index an empty point set"}
	}
	pts := make(idPoints, len(points))
	seen := make(map[int]struct{}, len(points))
	for i, p := range points {
		if _, dup := seen[p.ID]; dup {
			return nil, &mesh.ValidationError{Op: op, Field: "point id", Value: p.ID, Reason: "duplicate id"}
		}
		if !finite(p.Pos) {
			return nil, &mesh.ValidationError{Op: op, Field: "position", Value: p.Pos,
				Reason: "non-finite coordinate"}
		}
		seen[p.ID] = struct{}{}
		pts[i] = idPoint(p)
	}
	// kdtree.New reorders pts in place; it is a private copy.
	return &Index{tree: kdtree.New(pts, false), n: len(pts)}, nil
}

// FromNodes builds an index over node positions.
func FromNodes(nodes []mesh.Node) (*Index, error) {
	points := make([]Point, len(nodes))
	for i, n := range nodes {
		points[i] = Point{ID: n.ID, Pos: n.XYZ}
	}
	return Build(points)
}

// Len is the number of indexed points.
func (idx *Index) Len() int { return idx.n }

// Query returns up to k indexed points within radius of p, nearest first.
// Equal distances are ordered by id, and when more than k points tie at the
// cutoff distance the lowest ids are returned. A member of the indexed set is its own
// zero distance neighbor.
func (idx *Index) Query(p r3.Vec, k int, radius float64) []Neighbor {
	if k < 1 || radius < 0 || math.IsNaN(radius) {
		return nil
	}
	keep := newBoundedKeeper(k, radius)
	idx.tree.NearestSet(keep, idPoint{ID: math.MinInt, Pos: p})

	found := make([]Neighbor, 0, len(keep.Heap))
	for _, c := range keep.Heap {
		if c.Comparable == nil {
			continue // Sentinel carrying the radius bound
		}
		found = append(found, Neighbor{ID: c.Comparable.(idPoint).ID, Distance: math.Sqrt(c.Dist)})
	}
	sort.Slice(found, func(i, j int) bool {
		if found[i].Distance != found[j].Distance {
			return found[i].Distance < found[j].Distance
		}
		return found[i].ID < found[j].ID
	})
	return found
}

func finite(v r3.Vec) bool {
	for _, x := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// boundedKeeper keeps the k nearest points no farther than a radius. It is
// an NKeeper whose sentinel starts at the squared radius instead of +Inf, so
// the tree search prunes everything outside the ball. The heap is ordered on
// (distance, id), so among equidistant points the lowest ids are kept.
type boundedKeeper struct {
	kdtree.Heap
	k int
}

func newBoundedKeeper(k int, radius float64) *boundedKeeper {
	bk := &boundedKeeper{Heap: make(kdtree.Heap, 1, k), k: k}
	bk.Heap[0].Dist = radius * radius
	return bk
}

// Less puts the sentinel, then the farthest point with the largest id, on top.
func (bk *boundedKeeper) Less(i, j int) bool {
	a, b := bk.Heap[i], bk.Heap[j]
	if a.Comparable == nil || b.Comparable == nil {
		return a.Comparable == nil && b.Comparable != nil
	}
	if a.Dist != b.Dist {
		return a.Dist > b.Dist
	}
	return a.Comparable.(idPoint).ID > b.Comparable.(idPoint).ID
}

func (bk *boundedKeeper) Keep(c kdtree.ComparableDist) {
	top := bk.Heap[0]
	if c.Dist > top.Dist {
		return
	}
	if len(bk.Heap) < bk.k {
		heap.Push(bk, c)
		return
	}
	if top.Comparable != nil && c.Dist == top.Dist &&
		c.Comparable.(idPoint).ID > top.Comparable.(idPoint).ID {
		return
	}
	bk.Heap[0] = c
	heap.Fix(bk, 0)
}

func (bk *boundedKeeper) Max() kdtree.ComparableDist {
	return bk.Heap[0]
}
