// Package cleanup holds whole-model edits that complement node
// equivalencing: dropping orphan nodes, cutting a model on a symmetry plane
// and splitting it by property.
package cleanup

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/notargets/meshclean/mesh"
	"github.com/notargets/meshclean/utils"
)

// RemoveUnassociatedNodes removes every node that no element or rigid
// element references and returns the removed ids in ascending order.
func RemoveUnassociatedNodes(repo mesh.Repository, logger *slog.Logger) (removed []int, err error) {
	used := make(map[int]bool)
	for _, e := range repo.Elements() {
		for _, nid := range e.Nodes {
			used[nid] = true
		}
	}
	for _, r := range repo.RigidElements() {
		for _, nid := range r.NodeIDs() {
			used[nid] = true
		}
	}
	for _, n := range repo.Nodes() {
		if !used[n.ID] {
			removed = append(removed, n.ID)
		}
	}
	if len(removed) == 0 {
		return
	}
	b := repo.Begin()
	defer b.Rollback()
	for _, id := range removed {
		if err = repo.RemoveNode(id); err != nil {
			return nil, err
		}
	}
	b.Commit()
	utils.OrDiscard(logger).Debug("unassociated nodes removed", "count", len(removed))
	return
}

// Axis is the negative half space removed by CutModel.
type Axis int

const (
	NegX Axis = iota
	NegY
	NegZ
)

func (a Axis) String() string { return [...]string{"-x", "-y", "-z"}[a] }

func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "-x", "x":
		return NegX, nil
	case "-y", "y":
		return NegY, nil
	case "-z", "z":
		return NegZ, nil
	}
	return 0, &mesh.ValidationError{Op: "ParseAxis", Field: "axis", Value: s, Reason: "want one of -x, -y, -z"}
}

func (a Axis) coord(n mesh.Node) float64 {
	switch a {
	case NegX:
		return n.XYZ.X
	case NegY:
		return n.XYZ.Y
	default:
		return n.XYZ.Z
	}
}

// CutResult lists what CutModel removed.
type CutResult struct {
	Elements []int
	Nodes    []int
}

// CutModel removes the elements whose centroid lies on or below zero along
// the axis, then the nodes strictly below zero that no remaining element or
// rigid element uses. Rigid elements touching a removed element's nodes are
// kept, so a node below the plane survives when a rigid element needs it.
func CutModel(repo mesh.Repository, axis Axis, logger *slog.Logger) (res CutResult, err error) {
	const op = "CutModel"
	if axis < NegX || axis > NegZ {
		return res, &mesh.ValidationError{Op: op, Field: "axis", Value: int(axis), Reason: "want -x, -y or -z"}
	}
	used := make(map[int]bool)
	for _, e := range repo.Elements() {
		c, cerr := e.Centroid(repo)
		if cerr != nil {
			return CutResult{}, fmt.Errorf("%s: %w", op, cerr)
		}
		if axis.coord(mesh.Node{XYZ: c}) <= 0 {
			res.Elements = append(res.Elements, e.ID)
			continue
		}
		for _, nid := range e.Nodes {
			used[nid] = true
		}
	}
	for _, r := range repo.RigidElements() {
		for _, nid := range r.NodeIDs() {
			used[nid] = true
		}
	}
	for _, n := range repo.Nodes() {
		if axis.coord(n) < 0 && !used[n.ID] {
			res.Nodes = append(res.Nodes, n.ID)
		}
	}

	b := repo.Begin()
	defer b.Rollback()
	for _, eid := range res.Elements {
		if err = repo.RemoveElement(eid); err != nil {
			return CutResult{}, err
		}
	}
	for _, nid := range res.Nodes {
		if err = repo.RemoveNode(nid); err != nil {
			return CutResult{}, err
		}
	}
	b.Commit()
	utils.OrDiscard(logger).Debug("model cut", "axis", axis.String(),
		"elements removed", len(res.Elements), "nodes removed", len(res.Nodes))
	return
}
