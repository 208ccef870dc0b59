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
)

// EquivalenceCmd represents the equivalence command
var EquivalenceCmd = &cobra.Command{
	Use:   "equivalence",
	Short: "Merge nodes closer than a tolerance into the lowest id",
	Long: `Merge nodes closer than a tolerance. Each cluster of close nodes collapses
into its lowest id and every element and rigid element reference is rewritten.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		step, err := toleranceStep(cmd, InputParameters.OpEquivalence)
		if err != nil {
			return err
		}
		step.AllowAttributeMismatch, _ = cmd.Flags().GetBool("allowAttributeMismatch")
		if dry, _ := cmd.Flags().GetBool("dryRun"); !dry {
			return runOnMesh(cmd, step)
		}
		logger, err := newLogger()
		if err != nil {
			return err
		}
		msh, err := loadMesh(cmd, "meshFile")
		if err != nil {
			return err
		}
		pairs, err := equivalence.NewEquivalencer(msh, equivalenceConfig(step, logger)).Pairs()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Candidate pairs: %d\n", len(pairs))
		for _, p := range pairs {
			fmt.Fprintf(cmd.OutOrStdout(), "  %d %d %g\n", p.A, p.B, p.Distance)
		}
		merged := equivalence.Clusters(pairs)
		fmt.Fprintf(cmd.OutOrStdout(), "Would equivalence %d nodes\n", len(merged))
		for _, id := range sortedIDs(merged) {
			fmt.Fprintf(cmd.OutOrStdout(), "  %d -> %d\n", id, merged[id])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(EquivalenceCmd)
	addMeshFlags(EquivalenceCmd, true)
	addToleranceFlags(EquivalenceCmd)
	EquivalenceCmd.Flags().Bool("allowAttributeMismatch", false, "merge nodes whose CD/PS/SEID differ")
	EquivalenceCmd.Flags().Bool("dryRun", false, "list candidate pairs and the merge plan without changing the mesh")
}
