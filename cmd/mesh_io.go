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

	"github.com/spf13/cobra"

	"github.com/notargets/meshclean/InputParameters"
	"github.com/notargets/meshclean/equivalence"
	"github.com/notargets/meshclean/mesh"
	"github.com/notargets/meshclean/mesh/readers"
)

const meshFormats = "YAML/JSON (.yaml, .yml, .json), SU2 (.su2) or Gmsh 2.2 (.msh), optionally .gz/.zst/.lz4 compressed"

func addMeshFlags(c *cobra.Command, writes bool) {
	c.Flags().StringP("meshFile", "F", "", "mesh file to read, "+meshFormats)
	if writes {
		c.Flags().StringP("output", "o", "", "write the modified mesh here (.yaml/.json, optionally compressed)")
	}
}

func addToleranceFlags(c *cobra.Command) {
	def := equivalence.DefaultConfig()
	c.Flags().Float64P("tol", "t", def.Tolerance, "spherical tolerance")
	c.Flags().IntP("maxCandidates", "n", def.MaxCandidates, "neighbors checked per node, the node itself included")
	c.Flags().IntSlice("subset", nil, "only consider pairs touching these node ids")
}

func toleranceStep(c *cobra.Command, op string) (step InputParameters.Step, err error) {
	step.Operation = op
	if step.Tolerance, err = c.Flags().GetFloat64("tol"); err != nil {
		return
	}
	if step.MaxCandidates, err = c.Flags().GetInt("maxCandidates"); err != nil {
		return
	}
	if c.Flags().Changed("subset") {
		if step.Subset, err = c.Flags().GetIntSlice("subset"); err != nil {
			return
		}
		if step.Subset == nil {
			step.Subset = []int{}
		}
	}
	return
}

func loadMesh(c *cobra.Command, flag string) (*mesh.Mesh, error) {
	fileName, err := c.Flags().GetString(flag)
	if err != nil {
		return nil, err
	}
	if len(fileName) == 0 {
		return nil, fmt.Errorf("must supply a mesh file (--%s) in %s format", flag, meshFormats)
	}
	return readers.ReadMeshFile(fileName)
}

// runOnMesh is the body shared by the single operation commands.
func runOnMesh(c *cobra.Command, step InputParameters.Step) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	msh, err := loadMesh(c, "meshFile")
	if err != nil {
		return err
	}
	if err = applyStep(msh, step, logger, c.OutOrStdout()); err != nil {
		return err
	}
	if c.Flags().Lookup("output") == nil {
		return nil
	}
	out, _ := c.Flags().GetString("output")
	if out == "" {
		return nil
	}
	if err = readers.WriteMeshFile(out, msh); err != nil {
		return err
	}
	logger.Info("mesh written", "file", out, "nodes", msh.NumNodes(), "elements", msh.NumElements())
	return nil
}
