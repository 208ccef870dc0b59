// Package equivalence finds near-coincident nodes and either merges them or
// ties them together with rigid elements.
package equivalence

import (
	"log/slog"
	"math"

	"github.com/notargets/meshclean/mesh"
)

// Config controls pair discovery.
type Config struct {
	Tolerance     float64 // Spherical merge radius, > 0
	MaxCandidates int     // Neighbors examined per anchor, the anchor itself included
	// Subset limits the anchors to these node ids; nil means every node.
	// A pair is kept when at least one of its ids is in the subset.
	Subset      []int
	Parallelism int // Query workers, < 1 uses GOMAXPROCS

	// AllowAttributeMismatch lets nodes with different CD/PS/SEID merge. The
	// survivor's attributes are kept either way.
	AllowAttributeMismatch bool

	Logger *slog.Logger
}

func DefaultConfig() Config {
	return Config{
		Tolerance:     1.e-6,
		MaxCandidates: 4,
	}
}

func (c Config) validate(op string) error {
	if math.IsNaN(c.Tolerance) || c.Tolerance <= 0 {
		return &mesh.ValidationError{Op: op, Field: "tolerance", Value: c.Tolerance, Reason: "must be positive"}
	}
	if c.MaxCandidates < 1 {
		return &mesh.ValidationError{Op: op, Field: "max candidates", Value: c.MaxCandidates, Reason: "must be at least 1"}
	}
	if c.Subset != nil && len(c.Subset) == 0 {
		return &mesh.ValidationError{Op: op, Field: "subset", Value: "[]", Reason: "an empty subset selects nothing, use nil for all nodes"}
	}
	return nil
}
