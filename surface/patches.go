package surface

import (
	"fmt"
	"math"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/meshclean/mesh"
)

// UnitTolerance is how far a normal's length may stray from 1.
const UnitTolerance = 1.e-6

// PatchGroup is the set of elements reached from one seed.
type PatchGroup struct {
	Seed           int
	AngleTolerance float64 // Degrees
	Elements       *roaring.Bitmap
	Order          []int // Acceptance order, seed first
}

// IDs returns the member element ids in ascending order.
func (g PatchGroup) IDs() []int {
	ids := make([]int, 0, g.Elements.GetCardinality())
	it := g.Elements.Iterator()
	for it.HasNext() {
		ids = append(ids, int(it.Next()))
	}
	return ids
}

func (g PatchGroup) Contains(eid int) bool {
	return eid >= 0 && eid <= math.MaxUint32 && g.Elements.Contains(uint32(eid))
}

func (g PatchGroup) Len() int { return int(g.Elements.GetCardinality()) }

// ExtractPatches grows one patch per seed across the adjacency, accepting a
// neighbor when the angle between its normal and the normal of the element
// it was reached from is within that seed's tolerance in degrees. A single
// tolerance applies to every seed. Seeds are independent so patches may
// overlap.
func ExtractPatches(adj *AdjacencyMap, normals map[int]r3.Vec, seeds []int, angleTolerances []float64) (groups []PatchGroup, err error) {
	const op = "ExtractPatches"
	if len(seeds) == 0 {
		return nil, &mesh.ValidationError{Op: op, Field: "seeds", Value: seeds, Reason: "no seed elements"}
	}
	tols := angleTolerances
	switch {
	case len(tols) == 1 && len(seeds) > 1:
		tols = make([]float64, len(seeds))
		for i := range tols {
			tols[i] = angleTolerances[0]
		}
	case len(tols) != len(seeds):
		return nil, &mesh.ValidationError{Op: op, Field: "angle tolerances", Value: len(tols),
			Reason: fmt.Sprintf("need one per seed (%d) or a single shared value", len(seeds))}
	}
	for i, tol := range tols {
		if math.IsNaN(tol) || tol < 0 {
			return nil, &mesh.ValidationError{Op: op, Field: "angle tolerance", Value: tol,
				Reason: fmt.Sprintf("seed %d needs a non-negative angle", seeds[i])}
		}
	}
	if err = checkPatchInputs(op, adj, normals, seeds); err != nil {
		return
	}

	groups = make([]PatchGroup, len(seeds))
	for i, seed := range seeds {
		groups[i] = grow(adj, normals, seed, tols[i])
	}
	return
}

func checkPatchInputs(op string, adj *AdjacencyMap, normals map[int]r3.Vec, seeds []int) error {
	var unknown []int
	for _, s := range seeds {
		if _, ok := adj.types[s]; !ok {
			unknown = append(unknown, s)
		}
	}
	if len(unknown) != 0 {
		sort.Ints(unknown)
		return &mesh.LookupError{Op: op, Kind: mesh.ElementKind, IDs: unknown}
	}
	for _, eid := range adj.ElementIDs() {
		if t := adj.types[eid]; !t.IsShell() {
			return &mesh.UnsupportedTypeError{Op: op, ElementID: eid, Type: t}
		}
		if eid < 0 || eid > math.MaxUint32 {
			return &mesh.ValidationError{Op: op, Field: "element id", Value: eid,
				Reason: "patch membership needs ids in the uint32 range"}
		}
		if _, ok := normals[eid]; !ok {
			return &mesh.ConsistencyError{Op: op, ElementID: eid, Reason: "element has no normal"}
		}
	}
	ids := make([]int, 0, len(normals))
	for eid := range normals {
		ids = append(ids, eid)
	}
	sort.Ints(ids)
	for _, eid := range ids {
		if l := r3.Norm(normals[eid]); math.IsNaN(l) || math.Abs(l-1) > UnitTolerance {
			return &mesh.ConsistencyError{Op: op, ElementID: eid, Value: l, Reason: "normal is not unit length"}
		}
	}
	return nil
}

// grow is a FIFO flood fill; neighbors are visited in ascending id order so
// the acceptance order is reproducible.
func grow(adj *AdjacencyMap, normals map[int]r3.Vec, seed int, tol float64) PatchGroup {
	g := PatchGroup{
		Seed:           seed,
		AngleTolerance: tol,
		Elements:       roaring.New(),
		Order:          []int{seed},
	}
	g.Elements.Add(uint32(seed))
	queue := []int{seed}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, nb := range adj.Neighbors(cur) {
			if g.Elements.Contains(uint32(nb)) {
				continue
			}
			if Angle(normals[cur], normals[nb]) <= tol {
				g.Elements.Add(uint32(nb))
				g.Order = append(g.Order, nb)
				queue = append(queue, nb)
			}
		}
	}
	return g
}

// Angle is the angle between two unit vectors in degrees.
func Angle(n1, n2 r3.Vec) float64 {
	c := math.Max(-1, math.Min(1, r3.Dot(n1, n2)))
	return math.Acos(c) * 180 / math.Pi
}
