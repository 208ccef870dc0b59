package equivalence

import (
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/meshclean/mesh"
	"github.com/notargets/meshclean/spatial"
	"github.com/notargets/meshclean/utils"
)

// NodePair is a candidate duplicate, A < B.
type NodePair struct {
	A, B     int
	Distance float64
}

// findPairs returns the deduplicated candidate pairs of the active node set,
// sorted by (A, B). Every returned pair is within cfg.Tolerance.
func findPairs(repo mesh.Repository, cfg Config, op string) (pairs []NodePair, err error) {
	if err = cfg.validate(op); err != nil {
		return
	}
	var (
		nodes  = repo.Nodes()
		inSet  map[int]bool
		byID   = make(map[int]r3.Vec, len(nodes))
		anchor []mesh.Node
	)
	if len(nodes) == 0 {
		return nil, &mesh.ValidationError{Op: op, Field: "point set", Value: 0,
			Reason: "no active nodes to compare"}
	}
	for _, n := range nodes {
		byID[n.ID] = n.XYZ
	}
	if cfg.Subset != nil {
		inSet = make(map[int]bool, len(cfg.Subset))
		var unknown []int
		for _, id := range cfg.Subset {
			if _, ok := byID[id]; !ok {
				unknown = append(unknown, id)
				continue
			}
			inSet[id] = true
		}
		if len(unknown) != 0 {
			sort.Ints(unknown)
			return nil, &mesh.LookupError{Op: op, Kind: mesh.NodeKind, IDs: unknown}
		}
		for _, n := range nodes {
			if inSet[n.ID] {
				anchor = append(anchor, n)
			}
		}
	} else {
		anchor = nodes
	}
	if len(nodes) == 1 {
		return
	}

	// The tree holds every active node so that subset anchors still see
	// duplicates outside the subset
	idx, err := spatial.FromNodes(nodes)
	if err != nil {
		return
	}
	found := make([][]spatial.Neighbor, len(anchor))
	err = utils.ParallelFor(cfg.Parallelism, len(anchor), func(kMin, kMax int) error {
		for k := kMin; k < kMax; k++ {
			found[k] = idx.Query(anchor[k].XYZ, cfg.MaxCandidates, cfg.Tolerance)
		}
		return nil
	})
	if err != nil {
		return
	}

	// Anchors are subset members, so every pair already touches the subset
	seen := make(map[[2]int]bool)
	for k, nbrs := range found {
		a := anchor[k].ID
		for _, nb := range nbrs {
			if nb.ID == a {
				continue
			}
			key := [2]int{min(a, nb.ID), max(a, nb.ID)}
			if seen[key] {
				continue
			}
			seen[key] = true
			d := r3.Norm(r3.Sub(byID[key[0]], byID[key[1]]))
			if d > cfg.Tolerance {
				continue
			}
			pairs = append(pairs, NodePair{A: key[0], B: key[1], Distance: d})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
	return
}
