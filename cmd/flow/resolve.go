package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/meikuraledutech/flow"
	"github.com/spf13/cobra"
)

func newResolveCmd() *cobra.Command {
	var nodesPath string

	cmd := &cobra.Command{
		Use:   "resolve [text...]",
		Short: "Substitute {{node.field}} variables in text",
		Long: `Substitutes every {{node.field}} token with the matching value from the nodes file.
Unresolvable tokens are printed unchanged. Reads the text from stdin when no argument is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			nodes, err := loadNodes(nodesPath)
			if err != nil {
				return err
			}

			content := strings.Join(args, " ")
			if len(args) == 0 {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				content = string(raw)
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), flow.ResolveVariables(content, nodes))
			return err
		},
	}

	cmd.Flags().StringVarP(&nodesPath, "nodes", "n", "", "YAML/JSON file with the list of nodes and their output_data")
	return cmd
}
