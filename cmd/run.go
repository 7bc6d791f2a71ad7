package cmd

import (
	"github.com/spf13/cobra"
)

var runCheckFlag bool

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Filter the mutation log and analyse surviving mutations",
		Long: `Run both triage paths over the same mutation log and write every report
artifact. With --check nothing is written; the freshly rendered artifacts are
compared with the stored ones and any difference is printed as a unified diff.

` + inputsHelp,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			args, err := runArgsFromConfig(true, true, runCheckFlag)
			if err != nil {
				return err
			}

			return workflow.Run(cmd.Context(), args)
		},
	}

	cmd.Flags().BoolVar(&runCheckFlag, checkFlagName, false, "compare against stored artifacts instead of writing")

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}
