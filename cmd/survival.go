package cmd

import (
	"github.com/spf13/cobra"
)

// survivalCmd represents the survival command.
var survivalCmd = newSurvivalCmd()

func newSurvivalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "survival",
		Short: "Group surviving mutants into test coverage gap categories",
		Long: `Categorize the surviving mutants named by --survivors (or survival.ids in
the config file) and write survival-analysis.md.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			args, err := runArgsFromConfig(false, true, false)
			if err != nil {
				return err
			}

			return workflow.Run(cmd.Context(), args)
		},
	}
}

func init() {
	rootCmd.AddCommand(survivalCmd)
}
