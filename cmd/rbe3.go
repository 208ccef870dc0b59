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

// RBE3Cmd represents the rbe3 command
var RBE3Cmd = &cobra.Command{
	Use:   "rbe3",
	Short: "Tie nodes closer than a tolerance together with RBE3 elements",
	RunE: func(cmd *cobra.Command, args []string) error {
		step, err := toleranceStep(cmd, InputParameters.OpRBE3)
		if err != nil {
			return err
		}
		return runOnMesh(cmd, step)
	},
}

func init() {
	rootCmd.AddCommand(RBE3Cmd)
	addMeshFlags(RBE3Cmd, true)
	addToleranceFlags(RBE3Cmd)
}
