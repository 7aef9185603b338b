package main

import "github.com/spf13/cobra"

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "demo",
		Short:         "Steward demo: run shell commands as a supervised process pool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRunCmd())
	root.AddCommand(newExecCmd())
	root.AddCommand(newCheckCmd())

	return root
}
