package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/giantswarm/agentharness/pkg/project"
)

// newVersionCmd creates the Cobra command for displaying the application version.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of agentharness",
		Long:  `All software has versions. This is agentharness's.`,
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s, commit: %s)\n",
				project.Name, project.Version(), project.BuildTimestamp(), project.GitSHA())
		},
	}
}
