package mesh

import "strings"

// ElementType is the closed set of element shapes the cleanup algorithms
// distinguish. Anything that is not a linear triangle or quad is Other.
type ElementType int

const (
	Other ElementType = iota
	Tri3
	Quad4
)

func (e ElementType) String() string {
	switch e {
	case Tri3:
		return "Tri3"
	case Quad4:
		return "Quad4"
	default:
		return "Other"
	}
}

// IsShell reports whether the element is one of the supported shells.
func (e ElementType) IsShell() bool {
	return e == Tri3 || e == Quad4
}

// GetNumNodes returns the corner node count, 0 for Other.
func (e ElementType) GetNumNodes() int {
	switch e {
	case Tri3:
		return 3
	case Quad4:
		return 4
	default:
		return 0
	}
}

// CardName is the bulk-data card written for the type.
func (e ElementType) CardName() string {
	switch e {
	case Tri3:
		return "CTRIA3"
	case Quad4:
		return "CQUAD4"
	default:
		return ""
	}
}

// ParseElementType maps a card or type name onto the closed set. Unknown
// names are Other, never an error.
func ParseElementType(name string) ElementType {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "CTRIA3", "TRI3", "TRIANGLE":
		return Tri3
	case "CQUAD4", "QUAD4", "QUAD":
		return Quad4
	default:
		return Other
	}
}

// IDKind names an id namespace in the mesh store.
type IDKind int

const (
	NodeKind IDKind = iota
	ElementKind
	RigidKind
	PropertyKind
)

func (k IDKind) String() string {
	return [...]string{"node", "element", "rigid element", "property"}[k]
}
