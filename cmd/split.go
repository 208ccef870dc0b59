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
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/notargets/meshclean/cleanup"
	"github.com/notargets/meshclean/mesh/readers"
)

// SplitCmd represents the split command
var SplitCmd = &cobra.Command{
	Use:   "split",
	Short: "Write one mesh file per property id",
	Long: `Write the elements of each property id, with the nodes they use, to a file
of their own. The -o name is a template: fem.yaml.gz gives fem_pid=1.yaml.gz,
fem_pid=2.yaml.gz and so on.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			return fmt.Errorf("must supply an output template (-o)")
		}
		logger, err := newLogger()
		if err != nil {
			return err
		}
		msh, err := loadMesh(cmd, "meshFile")
		if err != nil {
			return err
		}
		parts, err := cleanup.SplitByProperty(msh, logger)
		if err != nil {
			return err
		}
		for _, p := range parts {
			fileName := partFileName(output, p.PID)
			if err = readers.WriteMeshFile(fileName, p.Mesh); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Property %d: %d elements, %d nodes -> %s\n",
				p.PID, p.Mesh.NumElements(), p.Mesh.NumNodes(), fileName)
		}
		logger.Info("model split by property", "parts", len(parts))
		return nil
	},
}

// partFileName inserts _pid=<pid> ahead of the format extension.
func partFileName(output string, pid int) string {
	base, _ := readers.SplitCompression(output)
	suffix := output[len(base):]
	ext := filepath.Ext(base)
	return fmt.Sprintf("%s_pid=%d%s%s", strings.TrimSuffix(base, ext), pid, ext, suffix)
}

func init() {
	rootCmd.AddCommand(SplitCmd)
	addMeshFlags(SplitCmd, true)
}
