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

// ParseSU2 reads an SU2 native format mesh. SU2 numbers points and elements
// from 0; they become ids from 1. Volume elements keep property 0 and every
// boundary marker is imported as shell elements on property marker index + 1
// so marker surfaces can be cleaned and split into patches.
func ParseSU2(r io.Reader) (*mesh.Mesh, error) {
	msh := mesh.NewMesh()
	scanner := bufio.NewScanner(r)

	var ndime int
	var hasNDIME, hasNPOIN bool
	nextElementID := 1

	nextLine := func() (string, bool) {
		for scanner.Scan() {
			line := scanner.Text()
			// Skip comments (text after %)
			if idx := strings.Index(line, "%"); idx >= 0 {
				line = line[:idx]
			}
			if line = strings.TrimSpace(line); line != "" {
				return line, true
			}
		}
		return "", false
	}

	readElement := func(fields []string, pid int) error {
		vtk, err := strconv.Atoi(fields[0])
		if err != nil {
			return fmt.Errorf("invalid element type: %v", err)
		}
		shape, ok := su2ElementTypeMap[vtk]
		if !ok {
			return fmt.Errorf("unknown element type: %d", vtk)
		}
		if len(fields) < shape.numNodes+1 {
			return fmt.Errorf("element type %s expects %d nodes, got %d fields",
				shape.card, shape.numNodes, len(fields)-1)
		}
		nodes := make([]int, shape.numNodes)
		for j := range nodes {
			idx, err := strconv.Atoi(fields[1+j])
			if err != nil {
				return fmt.Errorf("invalid node index: %v", err)
			}
			if idx < 0 || idx >= msh.NumNodes() {
				return fmt.Errorf("node index %d out of range [0,%d)", idx, msh.NumNodes())
			}
			nodes[j] = idx + 1
		}
		// Legacy format may have an explicit element index at end of line (ignored)
		err = msh.AddElement(mesh.Element{
			ID:    nextElementID,
			Type:  mesh.ParseElementType(shape.card),
			Card:  shape.card,
			PID:   pid,
			Nodes: nodes,
		})
		nextElementID++
		return err
	}

	for {
		line, ok := nextLine()
		if !ok {
			break
		}
		switch {
		case strings.HasPrefix(line, "NDIME="):
			hasNDIME = true
			fmt.Sscanf(line, "NDIME=%d", &ndime)
			if ndime != 2 && ndime != 3 {
				return nil, fmt.Errorf("unsupported dimension: NDIME=%d", ndime)
			}

		case strings.HasPrefix(line, "NPOIN="):
			if !hasNDIME {
				return nil, fmt.Errorf("NPOIN= before NDIME=")
			}
			hasNPOIN = true
			var npoin int
			fmt.Sscanf(line, "NPOIN=%d", &npoin)
			for i := 0; i < npoin; i++ {
				pline, ok := nextLine()
				if !ok {
					return nil, fmt.Errorf("unexpected EOF reading nodes")
				}
				fields := strings.Fields(pline)
				if len(fields) < ndime {
					return nil, fmt.Errorf("invalid node line: expected at least %d coordinates", ndime)
				}
				var coords [3]float64 // Always store 3D coordinates
				for j := 0; j < ndime; j++ {
					var err error
					if coords[j], err = strconv.ParseFloat(fields[j], 64); err != nil {
						return nil, fmt.Errorf("invalid coordinate: %v", err)
					}
				}
				if err := msh.AddNode(mesh.Node{ID: i + 1,
					XYZ: r3.Vec{X: coords[0], Y: coords[1], Z: coords[2]}}); err != nil {
					return nil, err
				}
			}

		case strings.HasPrefix(line, "NELEM="):
			var nelem int
			fmt.Sscanf(line, "NELEM=%d", &nelem)
			for i := 0; i < nelem; i++ {
				eline, ok := nextLine()
				if !ok {
					return nil, fmt.Errorf("unexpected EOF reading elements")
				}
				fields := strings.Fields(eline)
				if len(fields) < 2 {
					return nil, fmt.Errorf("invalid element line")
				}
				if err := readElement(fields, 0); err != nil {
					return nil, err
				}
			}

		case strings.HasPrefix(line, "NMARK="):
			var nmark int
			fmt.Sscanf(line, "NMARK=%d", &nmark)
			for i := 0; i < nmark; i++ {
				markerLine, ok := nextLine()
				if !ok {
					return nil, fmt.Errorf("unexpected EOF reading marker %d", i)
				}
				if !strings.HasPrefix(markerLine, "MARKER_TAG=") {
					return nil, fmt.Errorf("expected MARKER_TAG=, got: %s", markerLine)
				}
				tagName := strings.TrimSpace(strings.TrimPrefix(markerLine, "MARKER_TAG="))

				elemLine, ok := nextLine()
				if !ok {
					return nil, fmt.Errorf("unexpected EOF reading marker elements for %s", tagName)
				}
				var nMarkerElems int
				if _, err := fmt.Sscanf(elemLine, "MARKER_ELEMS=%d", &nMarkerElems); err != nil {
					return nil, fmt.Errorf("invalid MARKER_ELEMS line: %s", elemLine)
				}
				for j := 0; j < nMarkerElems; j++ {
					bline, ok := nextLine()
					if !ok {
						return nil, fmt.Errorf("unexpected EOF reading boundary elements of %s", tagName)
					}
					fields := strings.Fields(bline)
					if len(fields) < 2 {
						return nil, fmt.Errorf("invalid boundary element line")
					}
					if err := readElement(fields, i+1); err != nil {
						return nil, fmt.Errorf("marker %s: %w", tagName, err)
					}
				}
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %v", err)
	}
	// Validate that we read the required sections
	if !hasNDIME {
		return nil, fmt.Errorf("missing required NDIME= section")
	}
	if !hasNPOIN {
		return nil, fmt.Errorf("missing required NPOIN= section")
	}
	return msh, nil
}

type su2Shape struct {
	card     string
	numNodes int
}

// su2ElementTypeMap maps SU2/VTK element type identifiers to bulk-data cards
var su2ElementTypeMap = map[int]su2Shape{
	3:  {"CBAR", 2},   // VTK_LINE
	5:  {"CTRIA3", 3}, // VTK_TRIANGLE
	9:  {"CQUAD4", 4}, // VTK_QUAD
	10: {"CTETRA", 4}, // VTK_TETRA
	12: {"CHEXA", 8},  // VTK_HEXAHEDRON
	13: {"CPENTA", 6}, // VTK_WEDGE
	14: {"CPYRAM", 5}, // VTK_PYRAMID
}
