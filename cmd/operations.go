/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/notargets/meshclean/InputParameters"
	"github.com/notargets/meshclean/cleanup"
	"github.com/notargets/meshclean/equivalence"
	"github.com/notargets/meshclean/mesh"
	"github.com/notargets/meshclean/surface"
)

// applyStep runs one operation against msh and prints its summary to w.
func applyStep(msh *mesh.Mesh, step InputParameters.Step, logger *slog.Logger, w io.Writer) (err error) {
	switch step.Operation {
	case InputParameters.OpEquivalence:
		var merged map[int]int
		if merged, err = equivalence.NewEquivalencer(msh, equivalenceConfig(step, logger)).Equivalence(); err != nil {
			return
		}
		logger.Info("nodes equivalenced", "removed", len(merged))
		fmt.Fprintf(w, "Equivalenced %d nodes\n", len(merged))
		for _, id := range sortedIDs(merged) {
			fmt.Fprintf(w, "  %d -> %d\n", id, merged[id])
		}

	case InputParameters.OpRBE3:
		var created []mesh.RigidElement
		if created, err = equivalence.NewRigidLinkBuilder(msh, equivalenceConfig(step, logger)).Build(); err != nil {
			return
		}
		logger.Info("rigid links created", "count", len(created))
		fmt.Fprintf(w, "Created %d RBE3 elements\n", len(created))
		for _, r := range created {
			fmt.Fprintf(w, "  RBE3 %d: %d <- %v\n", r.ID, r.RefNode, r.Groups[0].Nodes)
		}

	case InputParameters.OpRemoveUnused:
		var removed []int
		if removed, err = cleanup.RemoveUnassociatedNodes(msh, logger); err != nil {
			return
		}
		logger.Info("unassociated nodes removed", "count", len(removed))
		fmt.Fprintf(w, "Removed %d unassociated nodes\n", len(removed))

	case InputParameters.OpCut:
		var (
			axis cleanup.Axis
			res  cleanup.CutResult
		)
		if axis, err = cleanup.ParseAxis(step.Axis); err != nil {
			return
		}
		if res, err = cleanup.CutModel(msh, axis, logger); err != nil {
			return
		}
		logger.Info("model cut", "axis", axis.String(), "elements", len(res.Elements), "nodes", len(res.Nodes))
		fmt.Fprintf(w, "Cut %s: removed %d elements and %d nodes\n", axis, len(res.Elements), len(res.Nodes))

	case InputParameters.OpFreeEdges:
		var adj *surface.AdjacencyMap
		if adj, err = surface.BuildAdjacency(msh.Elements(), step.Elements, adjacencyConfig(step, logger)); err != nil {
			return
		}
		free, nonManifold := adj.FreeEdges(), adj.NonManifoldEdges()
		fmt.Fprintf(w, "Free edges: %d\n", len(free))
		for _, e := range free {
			fmt.Fprintf(w, "  %d %d\n", e[0], e[1])
		}
		fmt.Fprintf(w, "Non-manifold edges: %d\n", len(nonManifold))
		for _, e := range nonManifold {
			fmt.Fprintf(w, "  %d %d %v\n", e[0], e[1], adj.Incident(e))
		}

	case InputParameters.OpPatches:
		var groups []surface.PatchGroup
		if groups, err = extractPatches(msh, step, logger); err != nil {
			return
		}
		for _, g := range groups {
			fmt.Fprintf(w, "Patch seed %d (%g deg): %d elements\n  %v\n", g.Seed, g.AngleTolerance, g.Len(), g.IDs())
		}

	case InputParameters.OpJoints:
		var joints []int
		if joints, err = surface.Joints(msh.Elements(), step.PIDSets); err != nil {
			return
		}
		fmt.Fprintf(w, "Joint nodes: %d\n  %v\n", len(joints), joints)

	default:
		return fmt.Errorf("unknown operation %q", step.Operation)
	}
	return
}

func equivalenceConfig(step InputParameters.Step, logger *slog.Logger) equivalence.Config {
	cfg := equivalence.DefaultConfig()
	cfg.Tolerance = step.Tolerance
	if step.MaxCandidates != 0 {
		cfg.MaxCandidates = step.MaxCandidates
	}
	cfg.Subset = step.Subset
	cfg.AllowAttributeMismatch = step.AllowAttributeMismatch
	cfg.Logger = logger
	return cfg
}

func adjacencyConfig(step InputParameters.Step, logger *slog.Logger) surface.AdjacencyConfig {
	return surface.AdjacencyConfig{Strict: step.Strict, Logger: logger}
}

func extractPatches(msh *mesh.Mesh, step InputParameters.Step, logger *slog.Logger) ([]surface.PatchGroup, error) {
	shells := surface.Shells(msh.Elements())
	if step.Strict && len(shells) != msh.NumElements() {
		// Let the builder name the first offender
		shells = msh.Elements()
	}
	adj, err := surface.BuildAdjacency(shells, nil, adjacencyConfig(step, logger))
	if err != nil {
		return nil, err
	}
	normals, err := surface.ElementNormals(surface.Shells(shells), msh)
	if err != nil {
		return nil, err
	}
	return surface.ExtractPatches(adj, normals, step.Seeds, step.AngleTolerances)
}

func sortedIDs(m map[int]int) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
