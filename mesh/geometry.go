package mesh

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Positions resolves the element's node list to coordinates.
func (e Element) Positions(nodes NodeLookup) ([]r3.Vec, error) {
	xyz := make([]r3.Vec, len(e.Nodes))
	for i, nid := range e.Nodes {
		n, ok := nodes.Node(nid)
		if !ok {
			return nil, &LookupError{Op: "Element.Positions", Kind: NodeKind, IDs: []int{nid}}
		}
		xyz[i] = n.XYZ
	}
	return xyz, nil
}

// Centroid is the average of the element's node positions.
func (e Element) Centroid(nodes NodeLookup) (c r3.Vec, err error) {
	var xyz []r3.Vec
	if xyz, err = e.Positions(nodes); err != nil {
		return
	}
	if len(xyz) == 0 {
		err = &ConsistencyError{Op: "Element.Centroid", ElementID: e.ID, Reason: "element has no nodes"}
		return
	}
	for _, p := range xyz {
		c = r3.Add(c, p)
	}
	c = r3.Scale(1/float64(len(xyz)), c)
	return
}

// Normal returns the unit normal of a shell element.
//
//	Tri3:  (x1 - x0) x (x2 - x0)
//	Quad4: (x2 - x0) x (x3 - x1), the cross product of the diagonals
func (e Element) Normal(nodes NodeLookup) (n r3.Vec, err error) {
	const op = "Element.Normal"
	if !e.Type.IsShell() {
		err = &UnsupportedTypeError{Op: op, ElementID: e.ID, Type: e.Type, Card: e.Card}
		return
	}
	var xyz []r3.Vec
	if xyz, err = e.Positions(nodes); err != nil {
		return
	}
	switch e.Type {
	case Tri3:
		n = r3.Cross(r3.Sub(xyz[1], xyz[0]), r3.Sub(xyz[2], xyz[0]))
	case Quad4:
		n = r3.Cross(r3.Sub(xyz[2], xyz[0]), r3.Sub(xyz[3], xyz[1]))
	}
	norm := r3.Norm(n)
	if norm == 0 {
		err = &ConsistencyError{Op: op, ElementID: e.ID, Reason: "degenerate element has no normal"}
		return
	}
	n = r3.Scale(1/norm, n)
	return
}
