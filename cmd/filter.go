package cmd

import (
	"github.com/spf13/cobra"
)

// filterCmd represents the filter command.
var filterCmd = newFilterCmd()

func newFilterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "filter",
		Short: "Split the mutation log into excluded and included mutants",
		Long: `Classify every mutant in the log against the ordered exclusion rules and
write excluded-mutations.txt, included-mutations.txt and filter-summary.md.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			args, err := runArgsFromConfig(true, false, false)
			if err != nil {
				return err
			}

			return workflow.Run(cmd.Context(), args)
		},
	}
}

func init() {
	rootCmd.AddCommand(filterCmd)
}
