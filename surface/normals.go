package surface

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/meshclean/mesh"
)

// ElementNormals computes the unit normal of every element. Only Tri3 and
// Quad4 are accepted and a degenerate element is an error.
func ElementNormals(elements []mesh.Element, nodes mesh.NodeLookup) (map[int]r3.Vec, error) {
	normals := make(map[int]r3.Vec, len(elements))
	for _, e := range elements {
		n, err := e.Normal(nodes)
		if err != nil {
			return nil, err
		}
		normals[e.ID] = n
	}
	return normals, nil
}

// Shells filters elements down to Tri3 and Quad4.
func Shells(elements []mesh.Element) (shells []mesh.Element) {
	for _, e := range elements {
		if e.Type.IsShell() {
			shells = append(shells, e)
		}
	}
	return
}
