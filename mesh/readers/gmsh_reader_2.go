package readers

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/meshclean/mesh"
)

// ParseGmsh22 reads an ASCII Gmsh MSH 2.2 file. Node and element ids are
// kept; the physical tag (first element tag) becomes the property id.
// Higher order elements are skipped.
func ParseGmsh22(r io.Reader) (*mesh.Mesh, error) {
	scanner := bufio.NewScanner(r)
	msh := mesh.NewMesh()
	var haveFormat bool

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch line {
		case "$MeshFormat":
			if err := readMeshFormat22(scanner); err != nil {
				return nil, err
			}
			haveFormat = true

		case "$Nodes":
			if err := readNodes22(scanner, msh); err != nil {
				return nil, err
			}

		case "$Elements":
			if err := readElements22(scanner, msh); err != nil {
				return nil, err
			}

		case "$PhysicalNames", "$Periodic", "$NodeData", "$ElementData", "$ElementNodeData":
			// Skip sections that carry nothing for cleanup
			skipTo(scanner, "$End"+line[1:])
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner error: %v", err)
	}
	if !haveFormat {
		return nil, fmt.Errorf("could not find $MeshFormat section")
	}
	if err := msh.CheckReferences(); err != nil {
		return nil, err
	}
	return msh, nil
}

func skipTo(scanner *bufio.Scanner, endMarker string) {
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == endMarker {
			break
		}
	}
}

// readMeshFormat22 reads the MeshFormat section
func readMeshFormat22(scanner *bufio.Scanner) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in MeshFormat")
	}
	parts := strings.Fields(scanner.Text())
	if len(parts) < 3 {
		return fmt.Errorf("invalid MeshFormat line")
	}
	if !strings.HasPrefix(parts[0], "2.") {
		return fmt.Errorf("unsupported Gmsh format version: %s", parts[0])
	}
	if parts[1] != "0" {
		return fmt.Errorf("binary Gmsh files are not supported")
	}
	skipTo(scanner, "$EndMeshFormat")
	return nil
}

// readNodes22 reads nodes in v2.2 format
func readNodes22(scanner *bufio.Scanner, msh *mesh.Mesh) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in Nodes")
	}
	numNodes, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return fmt.Errorf("invalid node count: %v", err)
	}

	for i := 0; i < numNodes; i++ {
		if !scanner.Scan() {
			return fmt.Errorf("unexpected EOF reading nodes")
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) < 4 {
			return fmt.Errorf("invalid node line: %s", scanner.Text())
		}
		nodeID, err := strconv.Atoi(parts[0])
		if err != nil {
			return fmt.Errorf("invalid node id: %v", err)
		}
		var xyz [3]float64
		for j := range xyz {
			if xyz[j], err = strconv.ParseFloat(parts[1+j], 64); err != nil {
				return fmt.Errorf("node %d: invalid coordinate: %v", nodeID, err)
			}
		}
		if err = msh.AddNode(mesh.Node{ID: nodeID, XYZ: r3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}}); err != nil {
			return err
		}
	}
	skipTo(scanner, "$EndNodes")
	return nil
}

// readElements22 reads elements in v2.2 format
func readElements22(scanner *bufio.Scanner, msh *mesh.Mesh) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in Elements")
	}
	numElements, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return fmt.Errorf("invalid element count: %v", err)
	}

	for i := 0; i < numElements; i++ {
		if !scanner.Scan() {
			return fmt.Errorf("unexpected EOF reading elements")
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) < 4 {
			return fmt.Errorf("invalid element line")
		}
		elemID, _ := strconv.Atoi(parts[0])
		elemType, _ := strconv.Atoi(parts[1])
		numTags, _ := strconv.Atoi(parts[2])
		if len(parts) < 3+numTags {
			return fmt.Errorf("element %d: invalid element tags", elemID)
		}
		var pid int
		if numTags > 0 {
			pid, _ = strconv.Atoi(parts[3])
		}

		shape, ok := gmshElementType22[elemType]
		if !ok {
			// Skip unknown element types
			continue
		}
		nodeStart := 3 + numTags
		if len(parts) < nodeStart+shape.numNodes {
			return fmt.Errorf("element %d: expected %d nodes, got %d",
				elemID, shape.numNodes, len(parts)-nodeStart)
		}
		nodeIDs := make([]int, shape.numNodes)
		for j := range nodeIDs {
			if nodeIDs[j], err = strconv.Atoi(parts[nodeStart+j]); err != nil {
				return fmt.Errorf("element %d: invalid node id: %v", elemID, err)
			}
		}
		if err = msh.AddElement(mesh.Element{
			ID:    elemID,
			Type:  mesh.ParseElementType(shape.card),
			Card:  shape.card,
			PID:   pid,
			Nodes: nodeIDs,
		}); err != nil {
			return err
		}
	}
	skipTo(scanner, "$EndElements")
	return nil
}

// gmshElementType22 maps the linear Gmsh v2.2 element types to bulk-data cards
var gmshElementType22 = map[int]su2Shape{
	1:  {"CBAR", 2},   // 2-node line
	2:  {"CTRIA3", 3}, // 3-node triangle
	3:  {"CQUAD4", 4}, // 4-node quadrangle
	4:  {"CTETRA", 4}, // 4-node tetrahedron
	5:  {"CHEXA", 8},  // 8-node hexahedron
	6:  {"CPENTA", 6}, // 6-node prism
	7:  {"CPYRAM", 5}, // 5-node pyramid
	15: {"CONM2", 1},  // 1-node point
}
