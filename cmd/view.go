package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gooze.dev/pkg/triage/internal/domain"
	m "gooze.dev/pkg/triage/internal/model"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view [artifact]",
		Short: "View a previously generated report",
		Long: `View a report from the reports directory. Defaults to survival-analysis.md;
pass filter-summary.md to see the filter summary.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			viewArgs := domain.ViewArgs{Reports: m.Path(viper.GetString(outputFlagName))}
			if len(args) == 1 {
				viewArgs.Artifact = args[0]
			}

			return workflow.View(cmd.Context(), viewArgs)
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
