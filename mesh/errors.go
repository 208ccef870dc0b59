package mesh

import (
	"errors"
	"fmt"
)

// Sentinels matched by the typed errors below through errors.Is.
var (
	ErrValidation      = errors.New("validation error")
	ErrLookup          = errors.New("lookup error")
	ErrUnsupportedType = errors.New("unsupported element type")
	ErrConsistency     = errors.New("consistency error")
)

// ValidationError reports a malformed argument: a bad tolerance, an empty
// point set, a malformed seed list.
type ValidationError struct {
	Op     string
	Field  string
	Value  interface{}
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid %s (%v): %s", e.Op, e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// LookupError reports ids that were referenced but are not present.
type LookupError struct {
	Op   string
	Kind IDKind
	IDs  []int
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s: unknown %s ids %v", e.Op, e.Kind, e.IDs)
}

func (e *LookupError) Is(target error) bool { return target == ErrLookup }

// UnsupportedTypeError reports a non-shell element where only Tri3/Quad4 are
// accepted.
type UnsupportedTypeError struct {
	Op        string
	ElementID int
	Type      ElementType
	Card      string
}

func (e *UnsupportedTypeError) Error() string {
	card := e.Card
	if card == "" {
		card = e.Type.String()
	}
	return fmt.Sprintf("%s: element %d has unsupported type %s, only %s and %s are supported",
		e.Op, e.ElementID, card, Tri3, Quad4)
}

func (e *UnsupportedTypeError) Is(target error) bool { return target == ErrUnsupportedType }

// ConsistencyError reports a violated post-condition. ElementID and NodeID
// are zero when they do not apply; Value carries the computed quantity that
// failed the check (a norm, a distance).
type ConsistencyError struct {
	Op        string
	ElementID int
	NodeID    int
	Value     float64
	Reason    string
}

func (e *ConsistencyError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, e.Reason)
	if e.ElementID != 0 {
		msg += fmt.Sprintf(" [element %d]", e.ElementID)
	}
	if e.NodeID != 0 {
		msg += fmt.Sprintf(" [node %d]", e.NodeID)
	}
	if e.Value != 0 {
		msg += fmt.Sprintf(" [value %g]", e.Value)
	}
	return msg
}

func (e *ConsistencyError) Is(target error) bool { return target == ErrConsistency }
