package mesh

import (
	"fmt"
	"io"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

// Node is a grid point. The auxiliary attributes travel with the node
// through a merge: the survivor keeps its own record.
type Node struct {
	ID   int
	XYZ  r3.Vec // Position in the reference frame
	CP   int    // Coordinate system the position was authored in
	CD   int    // Displacement coordinate system
	PS   int    // Permanent single point constraint code
	SEID int    // Superelement id
}

// Element is a connectivity record. Card keeps the source card name so that
// Other elements round trip through readers and writers.
type Element struct {
	ID    int
	Type  ElementType
	Card  string
	PID   int
	Nodes []int
}

func (e Element) clone() Element {
	e.Nodes = append([]int(nil), e.Nodes...)
	return e
}

// References reports whether the element lists node nid.
func (e Element) References(nid int) bool {
	for _, n := range e.Nodes {
		if n == nid {
			return true
		}
	}
	return false
}

// WeightGroup is one weighted set of dependent grid points of a rigid element.
type WeightGroup struct {
	Weight     float64
	Components string
	Nodes      []int
}

// RigidElement is an RBE3 style distributed constraint.
type RigidElement struct {
	ID            int
	RefNode       int
	RefComponents string
	Groups        []WeightGroup
}

// NodeIDs returns the reference node followed by every dependent node.
func (r RigidElement) NodeIDs() (ids []int) {
	ids = append(ids, r.RefNode)
	for _, g := range r.Groups {
		ids = append(ids, g.Nodes...)
	}
	return
}

func (r RigidElement) clone() RigidElement {
	groups := make([]WeightGroup, len(r.Groups))
	for i, g := range r.Groups {
		g.Nodes = append([]int(nil), g.Nodes...)
		groups[i] = g
	}
	r.Groups = groups
	return r
}

// NodeLookup resolves node ids to node records.
type NodeLookup interface {
	Node(id int) (Node, bool)
}

// Repository is the mesh store the cleanup algorithms enumerate and mutate.
// Enumerations return copies sorted by id; every change goes through the
// mutation hooks.
type Repository interface {
	NodeLookup
	Nodes() []Node
	Elements() []Element
	RigidElements() []RigidElement

	RemoveNode(id int) error
	RemoveElement(id int) error
	// RewriteElementReference replaces every occurrence of oldID with newID in
	// the node list of the shell (ElementKind) or rigid (RigidKind) element.
	RewriteElementReference(kind IDKind, elementID, oldID, newID int) error
	InsertRigidElement(e RigidElement) error
	NextFreeID(kind IDKind) int

	// Begin opens a batch; hook calls made before Commit are undone by Rollback.
	Begin() Batch
}

// Batch groups mutations so that they are applied all-or-nothing. Rollback
// after Commit is a no-op, so the usual pattern is a deferred Rollback.
type Batch interface {
	Commit()
	Rollback()
}

// Mesh is the in-memory Repository.
type Mesh struct {
	Title string

	nodes    map[int]Node
	elements map[int]Element
	rigid    map[int]RigidElement

	journal []func()
	depth   int
}

// NewMesh creates an empty mesh
func NewMesh() *Mesh {
	return &Mesh{
		nodes:    make(map[int]Node),
		elements: make(map[int]Element),
		rigid:    make(map[int]RigidElement),
	}
}

// AddNode inserts a node during construction.
func (m *Mesh) AddNode(n Node) error {
	if _, exists := m.nodes[n.ID]; exists {
		return &ValidationError{Op: "AddNode", Field: "node id", Value: n.ID, Reason: "duplicate id"}
	}
	m.nodes[n.ID] = n
	m.record(func() { delete(m.nodes, n.ID) })
	return nil
}

// AddElement inserts an element during construction. The node references are
// not resolved here, CheckReferences does that once the mesh is complete.
func (m *Mesh) AddElement(e Element) error {
	if _, exists := m.elements[e.ID]; exists {
		return &ValidationError{Op: "AddElement", Field: "element id", Value: e.ID, Reason: "duplicate id"}
	}
	if n := e.Type.GetNumNodes(); n != 0 && len(e.Nodes) != n {
		return &ValidationError{Op: "AddElement", Field: "node count", Value: len(e.Nodes),
			Reason: fmt.Sprintf("element %d of type %s needs %d nodes", e.ID, e.Type, n)}
	}
	e = e.clone()
	if e.Card == "" {
		e.Card = e.Type.CardName()
	}
	m.elements[e.ID] = e
	m.record(func() { delete(m.elements, e.ID) })
	return nil
}

func (m *Mesh) Node(id int) (n Node, ok bool) {
	n, ok = m.nodes[id]
	return
}

func (m *Mesh) Element(id int) (e Element, ok bool) {
	if e, ok = m.elements[id]; ok {
		e = e.clone()
	}
	return
}

func (m *Mesh) NumNodes() int         { return len(m.nodes) }
func (m *Mesh) NumElements() int      { return len(m.elements) }
func (m *Mesh) NumRigidElements() int { return len(m.rigid) }

func (m *Mesh) Nodes() []Node {
	nodes := make([]Node, 0, len(m.nodes))
	for _, n := range m.nodes {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	return nodes
}

func (m *Mesh) Elements() []Element {
	elems := make([]Element, 0, len(m.elements))
	for _, e := range m.elements {
		elems = append(elems, e.clone())
	}
	sort.Slice(elems, func(i, j int) bool { return elems[i].ID < elems[j].ID })
	return elems
}

func (m *Mesh) RigidElements() []RigidElement {
	elems := make([]RigidElement, 0, len(m.rigid))
	for _, r := range m.rigid {
		elems = append(elems, r.clone())
	}
	sort.Slice(elems, func(i, j int) bool { return elems[i].ID < elems[j].ID })
	return elems
}

func (m *Mesh) RemoveNode(id int) error {
	n, ok := m.nodes[id]
	if !ok {
		return &LookupError{Op: "RemoveNode", Kind: NodeKind, IDs: []int{id}}
	}
	delete(m.nodes, id)
	m.record(func() { m.nodes[id] = n })
	return nil
}

func (m *Mesh) RemoveElement(id int) error {
	e, ok := m.elements[id]
	if !ok {
		return &LookupError{Op: "RemoveElement", Kind: ElementKind, IDs: []int{id}}
	}
	delete(m.elements, id)
	m.record(func() { m.elements[id] = e })
	return nil
}

func (m *Mesh) RewriteElementReference(kind IDKind, elementID, oldID, newID int) error {
	const op = "RewriteElementReference"
	if _, ok := m.nodes[newID]; !ok {
		return &ConsistencyError{Op: op, ElementID: elementID, NodeID: newID,
			Reason: "replacement node is not in the active node set"}
	}
	switch kind {
	case ElementKind:
		prev, ok := m.elements[elementID]
		if !ok {
			return &LookupError{Op: op, Kind: ElementKind, IDs: []int{elementID}}
		}
		next := prev.clone()
		if !replaceAll(next.Nodes, oldID, newID) {
			return &ConsistencyError{Op: op, ElementID: elementID, NodeID: oldID,
				Reason: "element does not reference node"}
		}
		m.elements[elementID] = next
		m.record(func() { m.elements[elementID] = prev })
	case RigidKind:
		prev, ok := m.rigid[elementID]
		if !ok {
			return &LookupError{Op: op, Kind: RigidKind, IDs: []int{elementID}}
		}
		next := prev.clone()
		found := false
		if next.RefNode == oldID {
			next.RefNode, found = newID, true
		}
		for _, g := range next.Groups {
			if replaceAll(g.Nodes, oldID, newID) {
				found = true
			}
		}
		if !found {
			return &ConsistencyError{Op: op, ElementID: elementID, NodeID: oldID,
				Reason: "rigid element does not reference node"}
		}
		m.rigid[elementID] = next
		m.record(func() { m.rigid[elementID] = prev })
	default:
		return &ValidationError{Op: op, Field: "kind", Value: kind, Reason: "only element and rigid element references can be rewritten"}
	}
	return nil
}

func replaceAll(ids []int, oldID, newID int) (found bool) {
	for i, id := range ids {
		if id == oldID {
			ids[i] = newID
			found = true
		}
	}
	return
}

func (m *Mesh) InsertRigidElement(r RigidElement) error {
	const op = "InsertRigidElement"
	if _, exists := m.rigid[r.ID]; exists {
		return &ValidationError{Op: op, Field: "rigid element id", Value: r.ID, Reason: "duplicate id"}
	}
	for _, nid := range r.NodeIDs() {
		if _, ok := m.nodes[nid]; !ok {
			return &LookupError{Op: op, Kind: NodeKind, IDs: []int{nid}}
		}
	}
	r = r.clone()
	m.rigid[r.ID] = r
	m.record(func() { delete(m.rigid, r.ID) })
	return nil
}

// NextFreeID returns one above the largest id in use for the kind, or 1 for
// an empty namespace.
func (m *Mesh) NextFreeID(kind IDKind) int {
	maxID := 0
	switch kind {
	case NodeKind:
		for id := range m.nodes {
			maxID = max(maxID, id)
		}
	case ElementKind:
		for id := range m.elements {
			maxID = max(maxID, id)
		}
	case RigidKind:
		for id := range m.rigid {
			maxID = max(maxID, id)
		}
	case PropertyKind:
		for _, e := range m.elements {
			maxID = max(maxID, e.PID)
		}
	}
	return maxID + 1
}

func (m *Mesh) record(undo func()) {
	if m.depth > 0 {
		m.journal = append(m.journal, undo)
	}
}

type meshBatch struct {
	m    *Mesh
	mark int
	done bool
}

func (m *Mesh) Begin() Batch {
	m.depth++
	return &meshBatch{m: m, mark: len(m.journal)}
}

func (b *meshBatch) Commit() {
	if b.done {
		return
	}
	b.done = true
	b.m.endBatch()
}

func (b *meshBatch) Rollback() {
	if b.done {
		return
	}
	b.done = true
	j := b.m.journal
	for i := len(j) - 1; i >= b.mark; i-- {
		j[i]()
	}
	b.m.journal = j[:b.mark]
	b.m.endBatch()
}

func (m *Mesh) endBatch() {
	m.depth--
	if m.depth == 0 {
		m.journal = nil
	}
}

// CheckReferences verifies that every shell and rigid element references
// only active nodes.
func (m *Mesh) CheckReferences() error {
	return CheckReferences(m.Elements(), m.RigidElements(), func(id int) bool {
		_, ok := m.nodes[id]
		return ok
	})
}

// CheckReferences reports the first (lowest element id) reference for which
// active returns false.
func CheckReferences(elems []Element, rigid []RigidElement, active func(int) bool) error {
	const op = "CheckReferences"
	for _, e := range elems {
		for _, nid := range e.Nodes {
			if !active(nid) {
				return &ConsistencyError{Op: op, ElementID: e.ID, NodeID: nid,
					Reason: "element references a node that is not in the active set"}
			}
		}
	}
	for _, r := range rigid {
		for _, nid := range r.NodeIDs() {
			if !active(nid) {
				return &ConsistencyError{Op: op, ElementID: r.ID, NodeID: nid,
					Reason: "rigid element references a node that is not in the active set"}
			}
		}
	}
	return nil
}

// PrintStatistics prints mesh statistics
func (m *Mesh) PrintStatistics(w io.Writer) {
	fmt.Fprintf(w, "Mesh Statistics:\n")
	if m.Title != "" {
		fmt.Fprintf(w, "  Title: %s\n", m.Title)
	}
	fmt.Fprintf(w, "  Nodes: %d\n", len(m.nodes))
	fmt.Fprintf(w, "  Elements: %d\n", len(m.elements))
	fmt.Fprintf(w, "  Rigid elements: %d\n", len(m.rigid))

	typeCounts := make(map[string]int)
	for _, e := range m.elements {
		typeCounts[e.Card]++
	}
	cards := make([]string, 0, len(typeCounts))
	for c := range typeCounts {
		cards = append(cards, c)
	}
	sort.Strings(cards)
	fmt.Fprintf(w, "  Element cards:\n")
	for _, c := range cards {
		fmt.Fprintf(w, "    %s: %d\n", c, typeCounts[c])
	}
}
