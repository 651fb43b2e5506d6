package main

import (
	"fmt"

	"github.com/meikuraledutech/flow"
	"github.com/spf13/cobra"
)

func newEvaluateCmd() *cobra.Command {
	var (
		nodesPath      string
		conditionsPath string
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate a condition set against node outputs",
		Long:  `Prints true or false for the condition set (conditions + root_logic) in the conditions file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			nodes, err := loadNodes(nodesPath)
			if err != nil {
				return err
			}

			var set flow.ConditionSet
			if err := loadYAML(conditionsPath, &set); err != nil {
				return err
			}
			if len(set.Conditions) > 0 && set.RootLogic != flow.LogicAnd && set.RootLogic != flow.LogicOr {
				return fmt.Errorf("root_logic must be AND or OR, got %q", set.RootLogic)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), set.Evaluate(nodes))
			return err
		},
	}

	cmd.Flags().StringVarP(&nodesPath, "nodes", "n", "", "YAML/JSON file with the list of nodes and their output_data")
	cmd.Flags().StringVarP(&conditionsPath, "conditions", "c", "", "YAML/JSON file with conditions and root_logic")
	_ = cmd.MarkFlagRequired("conditions")
	return cmd
}
