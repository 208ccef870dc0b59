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
	"github.com/spf13/cobra"

	"github.com/notargets/meshclean/InputParameters"
)

// CutCmd represents the cut command
var CutCmd = &cobra.Command{
	Use:   "cut",
	Short: "Remove the half of a model on the negative side of an axis",
	Long: `Remove the elements whose centroid is on or below zero along the axis and
the nodes below zero no remaining element needs. Aircraft models are usually
cut on -y to keep the right half.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		axis, _ := cmd.Flags().GetString("axis")
		return runOnMesh(cmd, InputParameters.Step{Operation: InputParameters.OpCut, Axis: axis})
	},
}

func init() {
	rootCmd.AddCommand(CutCmd)
	addMeshFlags(CutCmd, true)
	CutCmd.Flags().String("axis", "-y", "half space to remove: -x, -y or -z")
}
