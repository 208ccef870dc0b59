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
	"os"

	"github.com/spf13/cobra"

	"github.com/notargets/meshclean/InputParameters"
	"github.com/notargets/meshclean/mesh/readers"
	"github.com/notargets/meshclean/utils"
)

const exampleRunFile = `
########################################
Title: "Wing cleanup"
Mesh: wing.yaml.gz
Output: wing_clean.yaml
Steps:
  - Operation: equivalence
    Tolerance: 0.001
  - Operation: removeUnused
  - Operation: patches
    Seeds: [1, 200]
    AngleTolerances: [40]
########################################
`

// RunCmd represents the run command
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Apply the operations of a YAML run file in order",
	RunE: func(cmd *cobra.Command, args []string) error {
		fileName, _ := cmd.Flags().GetString("inputFile")
		if len(fileName) == 0 {
			return fmt.Errorf("must supply a run file (-I, --inputFile), for example:%s", exampleRunFile)
		}
		data, err := os.ReadFile(fileName)
		if err != nil {
			return err
		}
		rp := &InputParameters.RunParameters{}
		if err = rp.Parse(data); err != nil {
			return err
		}
		rp.Print()
		logger, err := newLogger()
		if err != nil {
			return err
		}
		return RunJob(rp, logger, cmd.OutOrStdout())
	},
}

// RunJob reads the run file's mesh, applies every step in order and writes
// the result when an output is named. The first failing step stops the job;
// steps before it stay applied to the in-memory mesh but nothing is written.
func RunJob(rp *InputParameters.RunParameters, logger *slog.Logger, w io.Writer) error {
	msh, err := readers.ReadMeshFile(rp.Mesh)
	if err != nil {
		return err
	}
	for i, step := range rp.Steps {
		logger.Info("step", "index", i, "operation", step.Operation)
		if err = applyStep(msh, step, logger, w); err != nil {
			return fmt.Errorf("step %d (%s): %w", i, step.Operation, err)
		}
		logger.Debug("step done", "index", i, utils.MemUsage())
	}
	msh.PrintStatistics(w)
	if rp.Output == "" {
		return nil
	}
	return readers.WriteMeshFile(rp.Output, msh)
}

func init() {
	rootCmd.AddCommand(RunCmd)
	RunCmd.Flags().StringP("inputFile", "I", "", "YAML run file naming the mesh and the operations to apply")
}
