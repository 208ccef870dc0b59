package spatial

import (
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

// idPoint is the kdtree.Comparable stored in the tree.
type idPoint struct {
	ID  int
	Pos r3.Vec
}

func (p idPoint) coord(d kdtree.Dim) float64 {
	switch d {
	case 0:
		return p.Pos.X
	case 1:
		return p.Pos.Y
	default:
		return p.Pos.Z
	}
}

func (p idPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	return p.coord(d) - c.(idPoint).coord(d)
}

func (p idPoint) Dims() int { return 3 }

// Distance is the squared euclidean distance, as kdtree expects.
func (p idPoint) Distance(c kdtree.Comparable) float64 {
	d := r3.Sub(p.Pos, c.(idPoint).Pos)
	return r3.Dot(d, d)
}

// idPoints is the kdtree.Interface over the build set.
type idPoints []idPoint

func (p idPoints) Index(i int) kdtree.Comparable         { return p[i] }
func (p idPoints) Len() int                              { return len(p) }
func (p idPoints) Pivot(d kdtree.Dim) int                { return plane{idPoints: p, Dim: d}.Pivot() }
func (p idPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

// plane sorts the points along one dimension for median selection.
type plane struct {
	kdtree.Dim
	idPoints
}

func (p plane) Less(i, j int) bool {
	return p.idPoints[i].coord(p.Dim) < p.idPoints[j].coord(p.Dim)
}
func (p plane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.idPoints = p.idPoints[start:end]
	return p
}
func (p plane) Swap(i, j int) {
	p.idPoints[i], p.idPoints[j] = p.idPoints[j], p.idPoints[i]
}
