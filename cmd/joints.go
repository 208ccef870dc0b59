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
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/notargets/meshclean/InputParameters"
)

// JointsCmd represents the joints command
var JointsCmd = &cobra.Command{
	Use:   "joints",
	Short: "List the nodes shared by every group of property ids",
	Long: `List the nodes shared by every group of property ids. Each -g flag is one
comma separated group, e.g. ribs, spars and skin:

	meshclean joints -F wing.yaml -g 11,12,13 -g 21,22 -g 1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		groups, err := cmd.Flags().GetStringArray("group")
		if err != nil {
			return err
		}
		step := InputParameters.Step{Operation: InputParameters.OpJoints}
		for _, g := range groups {
			var pids []int
			for _, f := range strings.Split(g, ",") {
				pid, err := strconv.Atoi(strings.TrimSpace(f))
				if err != nil {
					return fmt.Errorf("property group %q: %w", g, err)
				}
				pids = append(pids, pid)
			}
			step.PIDSets = append(step.PIDSets, pids)
		}
		return runOnMesh(cmd, step)
	},
}

func init() {
	rootCmd.AddCommand(JointsCmd)
	addMeshFlags(JointsCmd, false)
	JointsCmd.Flags().StringArrayP("group", "g", nil, "comma separated property ids, repeat per group")
}
