// Package surface builds edge adjacency over shell elements and grows
// curvature-bounded patches across it.
package surface

import (
	"log/slog"
	"sort"

	"github.com/notargets/meshclean/mesh"
	"github.com/notargets/meshclean/utils"
)

// Edge is an undirected element edge keyed by its sorted node ids.
type Edge [2]int

func NewEdge(a, b int) Edge {
	if b < a {
		a, b = b, a
	}
	return Edge{a, b}
}

type EdgeKind uint8

const (
	Free EdgeKind = iota
	Interior
	NonManifold
)

func (k EdgeKind) String() string {
	return [...]string{"Free", "Interior", "NonManifold"}[k]
}

// AdjacencyConfig selects how non-shell elements are treated. Lenient
// (the zero value) skips them, Strict rejects them.
type AdjacencyConfig struct {
	Strict bool
	Logger *slog.Logger
}

// AdjacencyMap maps each shell edge to the elements using it.
type AdjacencyMap struct {
	incident  map[Edge][]int // Ascending element ids
	elemEdges map[int][]Edge
	types     map[int]mesh.ElementType
}

// BuildAdjacency connects the Tri3/Quad4 elements among elements, optionally
// restricted to the ids in restrictTo (nil for all).
func BuildAdjacency(elements []mesh.Element, restrictTo []int, cfg AdjacencyConfig) (adj *AdjacencyMap, err error) {
	const op = "BuildAdjacency"
	var (
		logger = utils.OrDiscard(cfg.Logger)
		byID   = make(map[int]int, len(elements))
		use    = elements
	)
	for i, e := range elements {
		byID[e.ID] = i
	}
	if restrictTo != nil {
		var unknown []int
		use = make([]mesh.Element, 0, len(restrictTo))
		taken := make(map[int]bool, len(restrictTo))
		for _, id := range restrictTo {
			i, ok := byID[id]
			if !ok {
				unknown = append(unknown, id)
				continue
			}
			if !taken[id] {
				taken[id] = true
				use = append(use, elements[i])
			}
		}
		if len(unknown) != 0 {
			sort.Ints(unknown)
			return nil, &mesh.LookupError{Op: op, Kind: mesh.ElementKind, IDs: unknown}
		}
	}

	adj = &AdjacencyMap{
		incident:  make(map[Edge][]int),
		elemEdges: make(map[int][]Edge),
		types:     make(map[int]mesh.ElementType),
	}
	var skipped int
	for _, e := range use {
		if !e.Type.IsShell() {
			if cfg.Strict {
				return nil, &mesh.UnsupportedTypeError{Op: op, ElementID: e.ID, Type: e.Type, Card: e.Card}
			}
			skipped++
			continue
		}
		adj.types[e.ID] = e.Type
		nn := len(e.Nodes)
		for i := 0; i < nn; i++ {
			a, b := e.Nodes[i], e.Nodes[(i+1)%nn]
			if a == b {
				continue // Collapsed edge
			}
			edge := NewEdge(a, b)
			ids := adj.incident[edge]
			if i := sort.SearchInts(ids, e.ID); i < len(ids) && ids[i] == e.ID {
				continue
			}
			adj.incident[edge] = insertSorted(ids, e.ID)
			adj.elemEdges[e.ID] = append(adj.elemEdges[e.ID], edge)
		}
	}
	if skipped != 0 {
		logger.Debug("non-shell elements skipped", "count", skipped)
	}
	return
}

func insertSorted(ids []int, id int) []int {
	i := sort.SearchInts(ids, id)
	if i < len(ids) && ids[i] == id {
		return ids
	}
	ids = append(ids, 0)
	copy(ids[i+1:], ids[i:])
	ids[i] = id
	return ids
}

func (adj *AdjacencyMap) NumEdges() int    { return len(adj.incident) }
func (adj *AdjacencyMap) NumElements() int { return len(adj.types) }

// Incident returns the ascending ids of the elements using edge.
func (adj *AdjacencyMap) Incident(edge Edge) []int {
	return append([]int(nil), adj.incident[edge]...)
}

func (adj *AdjacencyMap) Kind(edge Edge) EdgeKind {
	switch n := len(adj.incident[edge]); {
	case n == 2:
		return Interior
	case n > 2:
		return NonManifold
	default:
		return Free
	}
}

// Type reports the shape of an element in the map.
func (adj *AdjacencyMap) Type(eid int) (t mesh.ElementType, ok bool) {
	t, ok = adj.types[eid]
	return
}

// Edges returns every edge in ascending order.
func (adj *AdjacencyMap) Edges() []Edge {
	return adj.edgesWhere(func(Edge) bool { return true })
}

// ElementIDs returns the ids of the mapped elements in ascending order.
func (adj *AdjacencyMap) ElementIDs() []int {
	ids := make([]int, 0, len(adj.types))
	for id := range adj.types {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Neighbors returns the ascending ids of the elements sharing an edge with
// eid, eid itself excluded.
func (adj *AdjacencyMap) Neighbors(eid int) (nbrs []int) {
	for _, edge := range adj.elemEdges[eid] {
		for _, id := range adj.incident[edge] {
			if id != eid {
				nbrs = insertSorted(nbrs, id)
			}
		}
	}
	return
}

// FreeEdges returns the edges used by exactly one element.
func (adj *AdjacencyMap) FreeEdges() []Edge {
	return adj.edgesWhere(func(e Edge) bool { return adj.Kind(e) == Free })
}

// NonManifoldEdges returns the edges used by more than two elements.
func (adj *AdjacencyMap) NonManifoldEdges() []Edge {
	return adj.edgesWhere(func(e Edge) bool { return adj.Kind(e) == NonManifold })
}

func (adj *AdjacencyMap) edgesWhere(keep func(Edge) bool) (edges []Edge) {
	for e := range adj.incident {
		if keep(e) {
			edges = append(edges, e)
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i][0] != edges[j][0] {
			return edges[i][0] < edges[j][0]
		}
		return edges[i][1] < edges[j][1]
	})
	return
}
