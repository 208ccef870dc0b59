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

// RemoveUnusedCmd represents the removeUnused command
var RemoveUnusedCmd = &cobra.Command{
	Use:   "removeUnused",
	Short: "Remove nodes no element or rigid element references",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOnMesh(cmd, InputParameters.Step{Operation: InputParameters.OpRemoveUnused})
	},
}

func init() {
	rootCmd.AddCommand(RemoveUnusedCmd)
	addMeshFlags(RemoveUnusedCmd, true)
}
