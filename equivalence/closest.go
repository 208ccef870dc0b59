package equivalence

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/meshclean/mesh"
	"github.com/notargets/meshclean/spatial"
	"github.com/notargets/meshclean/utils"
)

// FindClosest returns, for every query position, up to k reference points
// within tolerance, nearest first. A query with no match gets an empty slice.
func FindClosest(reference []spatial.Point, query []r3.Vec, k int, tolerance float64) ([][]spatial.Neighbor, error) {
	const op = "FindClosest"
	if math.IsNaN(tolerance) || tolerance <= 0 {
		return nil, &mesh.ValidationError{Op: op, Field: "tolerance", Value: tolerance, Reason: "must be positive"}
	}
	if k < 1 {
		return nil, &mesh.ValidationError{Op: op, Field: "k", Value: k, Reason: "must be at least 1"}
	}
	idx, err := spatial.Build(reference)
	if err != nil {
		return nil, err
	}
	out := make([][]spatial.Neighbor, len(query))
	err = utils.ParallelFor(0, len(query), func(kMin, kMax int) error {
		for i := kMin; i < kMax; i++ {
			if out[i] = idx.Query(query[i], k, tolerance); out[i] == nil {
				out[i] = []spatial.Neighbor{}
			}
		}
		return nil
	})
	return out, err
}
