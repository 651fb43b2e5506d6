package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "flow",
		Short: "Resolve workflow variables and evaluate branching conditions",
		Long: `flow resolves {{node.field}} references against node outputs and evaluates
AND/OR condition sets, either one-off from files or as an HTTP service.`,
		SilenceUsage: true,
	}

	root.AddCommand(newResolveCmd(), newEvaluateCmd(), newServeCmd())
	return root
}
