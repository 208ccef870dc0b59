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
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/meshclean/equivalence"
	"github.com/notargets/meshclean/spatial"
)

// ClosestCmd represents the closest command
var ClosestCmd = &cobra.Command{
	Use:   "closest",
	Short: "Match the nodes of one mesh to the closest nodes of another",
	Long: `Match every node of the query mesh (-Q) to up to k nodes of the reference
mesh (-F) within a tolerance. Neither mesh is modified.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, err := loadMesh(cmd, "meshFile")
		if err != nil {
			return err
		}
		query, err := loadMesh(cmd, "queryFile")
		if err != nil {
			return err
		}
		tol, _ := cmd.Flags().GetFloat64("tol")
		k, _ := cmd.Flags().GetInt("k")

		var (
			points []spatial.Point
			qNodes = query.Nodes()
			qxyz   = make([]r3.Vec, len(qNodes))
		)
		for _, n := range ref.Nodes() {
			points = append(points, spatial.Point{ID: n.ID, Pos: n.XYZ})
		}
		for i, n := range qNodes {
			qxyz[i] = n.XYZ
		}
		found, err := equivalence.FindClosest(points, qxyz, k, tol)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		for i, nbrs := range found {
			fmt.Fprintf(w, "%d:", qNodes[i].ID)
			for _, nb := range nbrs {
				fmt.Fprintf(w, " %d(%g)", nb.ID, nb.Distance)
			}
			fmt.Fprintln(w)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ClosestCmd)
	addMeshFlags(ClosestCmd, false)
	ClosestCmd.Flags().StringP("queryFile", "Q", "", "mesh whose nodes are matched against the reference mesh")
	ClosestCmd.Flags().Float64P("tol", "t", 1.e-3, "spherical tolerance")
	ClosestCmd.Flags().IntP("k", "k", 1, "matches reported per query node")
}
