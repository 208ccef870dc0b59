package equivalence

import (
	"fmt"
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/notargets/meshclean/mesh"
	"github.com/notargets/meshclean/utils"
)

// Equivalencer merges near-coincident nodes of a repository into the lowest
// id of each cluster.
type Equivalencer struct {
	repo mesh.Repository
	cfg  Config
	log  *slog.Logger
}

func NewEquivalencer(repo mesh.Repository, cfg Config) *Equivalencer {
	return &Equivalencer{repo: repo, cfg: cfg, log: utils.OrDiscard(cfg.Logger)}
}

// Pairs runs pair discovery only. The repository is not touched.
func (eq *Equivalencer) Pairs() ([]NodePair, error) {
	return findPairs(eq.repo, eq.cfg, "Equivalencer.Pairs")
}

// Equivalence merges every cluster of candidate pairs and returns the
// removed id -> surviving id map. Element and rigid element references to a
// removed node are rewritten to the survivor before the node is removed. On
// error the repository is left as it was.
func (eq *Equivalencer) Equivalence() (merged map[int]int, err error) {
	const op = "Equivalencer.Equivalence"
	var pairs []NodePair
	if pairs, err = findPairs(eq.repo, eq.cfg, op); err != nil {
		return nil, err
	}
	merged = Clusters(pairs)
	eq.log.Debug("node equivalence pairs", "pairs", len(pairs), "removed", len(merged),
		"tolerance", eq.cfg.Tolerance)
	if len(merged) == 0 {
		return
	}
	if err = eq.checkAttributes(op, merged); err != nil {
		return nil, err
	}

	// Simulate the rewrite on copies and check the outcome before the first hook
	elems, rigid := eq.repo.Elements(), eq.repo.RigidElements()
	var (
		elemEdits  = make(map[int][]int)
		rigidEdits = make(map[int][]int)
		collapsed  []int
	)
	for i := range elems {
		e := &elems[i]
		if olds := remap(e.Nodes, merged); len(olds) != 0 {
			elemEdits[e.ID] = olds
			if hasRepeat(e.Nodes) {
				collapsed = append(collapsed, e.ID)
			}
		}
	}
	for i := range rigid {
		r := &rigid[i]
		var olds []int
		if s, ok := merged[r.RefNode]; ok {
			olds = append(olds, r.RefNode)
			r.RefNode = s
		}
		for _, g := range r.Groups {
			olds = append(olds, remap(g.Nodes, merged)...)
		}
		if olds = unique(olds); len(olds) != 0 {
			rigidEdits[r.ID] = olds
		}
	}
	active := func(id int) bool {
		if _, gone := merged[id]; gone {
			return false
		}
		_, ok := eq.repo.Node(id)
		return ok
	}
	if err = mesh.CheckReferences(elems, rigid, active); err != nil {
		return nil, fmt.Errorf("%s: merge would leave the mesh inconsistent: %w", op, err)
	}

	b := eq.repo.Begin()
	defer b.Rollback()
	if err = applyEdits(eq.repo, mesh.ElementKind, elemEdits, merged); err != nil {
		return nil, err
	}
	if err = applyEdits(eq.repo, mesh.RigidKind, rigidEdits, merged); err != nil {
		return nil, err
	}
	for _, id := range sortedKeys(merged) {
		if err = eq.repo.RemoveNode(id); err != nil {
			return nil, err
		}
	}
	b.Commit()

	for _, eid := range collapsed {
		eq.log.Warn("element collapsed by node merge", "element", eid)
	}
	eq.log.Debug("nodes equivalenced", "removed", len(merged),
		"elements rewritten", len(elemEdits), "rigid elements rewritten", len(rigidEdits))
	return
}

// Clusters resolves the transitive closure of the pairs and maps every
// member of a cluster except its minimum id to that minimum.
func Clusters(pairs []NodePair) map[int]int {
	g := simple.NewUndirectedGraph()
	for _, p := range pairs {
		g.SetEdge(simple.Edge{F: simple.Node(p.A), T: simple.Node(p.B)})
	}
	merged := make(map[int]int)
	for _, cc := range topo.ConnectedComponents(g) {
		survivor := cc[0].ID()
		for _, n := range cc[1:] {
			survivor = min(survivor, n.ID())
		}
		for _, n := range cc {
			if n.ID() != survivor {
				merged[int(n.ID())] = int(survivor)
			}
		}
	}
	return merged
}

func (eq *Equivalencer) checkAttributes(op string, merged map[int]int) error {
	if eq.cfg.AllowAttributeMismatch {
		return nil
	}
	for _, id := range sortedKeys(merged) {
		n, _ := eq.repo.Node(id)
		s, _ := eq.repo.Node(merged[id])
		var field string
		switch {
		case n.CD != s.CD:
			field = "CD"
		case n.PS != s.PS:
			field = "PS"
		case n.SEID != s.SEID:
			field = "SEID"
		default:
			continue
		}
		return &mesh.ConsistencyError{Op: op, NodeID: id,
			Reason: fmt.Sprintf("%s differs from surviving node %d", field, s.ID)}
	}
	return nil
}

func applyEdits(repo mesh.Repository, kind mesh.IDKind, edits map[int][]int, merged map[int]int) error {
	for _, eid := range sortedKeys(edits) {
		for _, old := range edits[eid] {
			if err := repo.RewriteElementReference(kind, eid, old, merged[old]); err != nil {
				return err
			}
		}
	}
	return nil
}

// remap replaces merged ids in place and returns the distinct replaced ids
func remap(ids []int, merged map[int]int) (olds []int) {
	for i, id := range ids {
		if s, ok := merged[id]; ok {
			olds = append(olds, id)
			ids[i] = s
		}
	}
	return unique(olds)
}

func unique(ids []int) []int {
	if len(ids) < 2 {
		return ids
	}
	sort.Ints(ids)
	out := ids[:1]
	for _, id := range ids[1:] {
		if id != out[len(out)-1] {
			out = append(out, id)
		}
	}
	return out
}

func hasRepeat(ids []int) bool {
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return true
		}
		seen[id] = true
	}
	return false
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
