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

// FreeEdgesCmd represents the freeEdges command
var FreeEdgesCmd = &cobra.Command{
	Use:   "freeEdges",
	Short: "List shell edges not shared by exactly two elements",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		step := InputParameters.Step{Operation: InputParameters.OpFreeEdges}
		if cmd.Flags().Changed("elements") {
			if step.Elements, err = cmd.Flags().GetIntSlice("elements"); err != nil {
				return
			}
		}
		step.Strict, _ = cmd.Flags().GetBool("strict")
		return runOnMesh(cmd, step)
	},
}

func init() {
	rootCmd.AddCommand(FreeEdgesCmd)
	addMeshFlags(FreeEdgesCmd, false)
	FreeEdgesCmd.Flags().IntSlice("elements", nil, "restrict to these element ids")
	FreeEdgesCmd.Flags().Bool("strict", false, "fail on non-shell elements instead of skipping them")
}
