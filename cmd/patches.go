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

// PatchesCmd represents the patches command
var PatchesCmd = &cobra.Command{
	Use:   "patches",
	Short: "Grow curvature bounded shell patches from seed elements",
	Long: `Grow one patch per seed element across shared CTRIA3/CQUAD4 edges. A
neighbor joins when the angle between its normal and the normal of the element
it was reached from is within the seed's angle tolerance (degrees). A single
tolerance applies to every seed.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		step := InputParameters.Step{Operation: InputParameters.OpPatches}
		if step.Seeds, err = cmd.Flags().GetIntSlice("seeds"); err != nil {
			return
		}
		var angles []string
		if angles, err = cmd.Flags().GetStringSlice("angle"); err != nil {
			return
		}
		for _, a := range angles {
			var tol float64
			if tol, err = strconv.ParseFloat(strings.TrimSpace(a), 64); err != nil {
				return fmt.Errorf("angle tolerance %q: %w", a, err)
			}
			step.AngleTolerances = append(step.AngleTolerances, tol)
		}
		step.Strict, _ = cmd.Flags().GetBool("strict")
		return runOnMesh(cmd, step)
	},
}

func init() {
	rootCmd.AddCommand(PatchesCmd)
	addMeshFlags(PatchesCmd, false)
	PatchesCmd.Flags().IntSliceP("seeds", "s", nil, "seed element ids")
	PatchesCmd.Flags().StringSliceP("angle", "a", []string{"40"}, "angle tolerance in degrees, one per seed or one for all")
	PatchesCmd.Flags().Bool("strict", false, "fail on non-shell elements instead of skipping them")
}
