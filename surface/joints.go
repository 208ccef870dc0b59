package surface

import (
	"math"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/notargets/meshclean/mesh"
)

// Joints returns the ascending ids of the nodes used by at least one element
// of every property group. With ribs, spars and skins as three groups that
// is the set of skin nodes on rib/spar intersections.
func Joints(elements []mesh.Element, pidSets [][]int) ([]int, error) {
	const op = "Joints"
	if len(pidSets) == 0 {
		return nil, &mesh.ValidationError{Op: op, Field: "property groups", Value: 0, Reason: "no property groups"}
	}
	byPID := make(map[int]*roaring.Bitmap)
	for _, e := range elements {
		bm, ok := byPID[e.PID]
		if !ok {
			bm = roaring.New()
			byPID[e.PID] = bm
		}
		for _, nid := range e.Nodes {
			if nid < 0 || nid > math.MaxUint32 {
				return nil, &mesh.ValidationError{Op: op, Field: "node id", Value: nid,
					Reason: "joint search needs ids in the uint32 range"}
			}
			bm.Add(uint32(nid))
		}
	}
	groups := make([]*roaring.Bitmap, len(pidSets))
	for i, pids := range pidSets {
		groups[i] = roaring.New()
		for _, pid := range pids {
			if bm, ok := byPID[pid]; ok {
				groups[i].Or(bm)
			}
		}
	}
	joint := roaring.FastAnd(groups...)
	ids := make([]int, 0, joint.GetCardinality())
	it := joint.Iterator()
	for it.HasNext() {
		ids = append(ids, int(it.Next()))
	}
	return ids, nil
}
