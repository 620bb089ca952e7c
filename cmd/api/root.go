package main

import "github.com/spf13/cobra"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "helpdesk",
		Short:         "Student helpdesk service",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMigrateCmd())
	return cmd
}
