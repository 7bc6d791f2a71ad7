package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gooze.dev/pkg/triage/internal/adapter"
	"gooze.dev/pkg/triage/internal/domain"
	domainmocks "gooze.dev/pkg/triage/internal/domain/mocks"
	m "gooze.dev/pkg/triage/internal/model"
)

// newTestRootCmd builds a root command with its own persistent flags bound to
// viper. The package root command's bindings are restored on cleanup.
func newTestRootCmd(t *testing.T, subcommands ...*cobra.Command) (*cobra.Command, *bytes.Buffer) {
	t.Helper()

	viper.Set(logFilenameKey, filepath.Join(t.TempDir(), "triage.log"))
	t.Cleanup(func() { viper.Set(logFilenameKey, defaultLogFilename) })

	cmd := newRootCmd()
	configureRootFlags(cmd)
	t.Cleanup(func() { bindRootFlags(rootCmd.PersistentFlags()) })

	cmd.AddCommand(subcommands...)

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})

	return cmd, out
}

func withMockWorkflow(t *testing.T) *domainmocks.MockWorkflow {
	t.Helper()

	mockWorkflow := domainmocks.NewMockWorkflow(t)
	originalWorkflow := workflow
	workflow = mockWorkflow

	t.Cleanup(func() { workflow = originalWorkflow })

	return mockWorkflow
}

func TestNewRootCmd(t *testing.T) {
	cmd := newRootCmd()
	assert.Equal(t, "triage", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.Equal(t, rootLongDescription, cmd.Long)
}

func TestRootCmd_HelpOutput(t *testing.T) {
	cmd, out := newTestRootCmd(t)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())

	help := out.String()
	assert.Contains(t, help, "Inputs:")
	assert.Contains(t, help, "--survivors")
	assert.Contains(t, help, "--min-cluster")
}

func TestRootCmd_RegistersSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, sub := range rootCmd.Commands() {
		names[sub.Name()] = true
	}

	for _, want := range []string{"run", "filter", "survival", "view", "init", "version"} {
		assert.True(t, names[want], want)
	}
}

func TestRunArgsFromConfig_Defaults(t *testing.T) {
	newTestRootCmd(t)

	args, err := runArgsFromConfig(true, false, false)
	require.NoError(t, err)

	assert.Equal(t, m.Path(defaultInputLog), args.Log)
	assert.Equal(t, m.Path(defaultReportsDir), args.Reports)
	assert.True(t, args.Filter)
	assert.False(t, args.Survival)
	assert.Empty(t, args.RulesFile)
	assert.Empty(t, args.SurvivorsFile)
	assert.Nil(t, args.Survivors)
	assert.Equal(t, defaultProtocols, args.Protocols)
	assert.Equal(t, domain.ReportOptions{Project: defaultProject, Preview: defaultPreview, MinCluster: defaultMinCluster}, args.Report)
}

func TestRunArgsFromConfig_InlineSurvivors(t *testing.T) {
	newTestRootCmd(t)

	viper.Set(survivorsKey, []interface{}{58, 59, 60})
	t.Cleanup(func() { viper.Set(survivorsKey, nil) })

	args, err := runArgsFromConfig(false, true, false)
	require.NoError(t, err)
	assert.Equal(t, []int{58, 59, 60}, args.Survivors)
}

func TestRunArgsFromConfig_Env(t *testing.T) {
	newTestRootCmd(t)
	t.Setenv("TRIAGE_REPORT_PROJECT", "Vault")
	t.Setenv("TRIAGE_SURVIVAL_IDS_FILE", "ids.txt")

	args, err := runArgsFromConfig(false, true, false)
	require.NoError(t, err)
	assert.Equal(t, "Vault", args.Report.Project)
	assert.Equal(t, m.Path("ids.txt"), args.SurvivorsFile)
}

func TestRunArgsFromConfig_EnvSurvivors(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []int
	}{
		{name: "comma separated", value: "58,59,60", want: []int{58, 59, 60}},
		{name: "space separated", value: "58 59 60", want: []int{58, 59, 60}},
		{name: "bracketed list", value: "[58, 59, 60]", want: []int{58, 59, 60}},
		{name: "single id", value: "170", want: []int{170}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			newTestRootCmd(t)
			t.Setenv("TRIAGE_SURVIVAL_IDS", tt.value)

			args, err := runArgsFromConfig(false, true, false)
			require.NoError(t, err)
			assert.Equal(t, tt.want, args.Survivors)
		})
	}
}

func TestRunArgsFromConfig_EnvSurvivorsInvalid(t *testing.T) {
	newTestRootCmd(t)
	t.Setenv("TRIAGE_SURVIVAL_IDS", "58,sixty")

	_, err := runArgsFromConfig(false, true, false)
	require.ErrorIs(t, err, adapter.ErrInvalidSurvivor)
}

func TestSurvivalCmd_EnvSurvivorsReachWorkflow(t *testing.T) {
	mockWorkflow := withMockWorkflow(t)
	cmd, _ := newTestRootCmd(t, newSurvivalCmd())
	t.Setenv("TRIAGE_SURVIVAL_IDS", "58 59")

	mockWorkflow.On("Run", mock.Anything, mock.MatchedBy(func(args domain.RunArgs) bool {
		return len(args.Survivors) == 2 && args.Survivors[0] == 58 && args.Survivors[1] == 59
	})).Return(nil)

	cmd.SetArgs([]string{"survival"})
	require.NoError(t, cmd.Execute())
}

func TestSurvivalCmd_InvalidEnvSurvivorsFailBeforeRun(t *testing.T) {
	withMockWorkflow(t)
	cmd, _ := newTestRootCmd(t, newSurvivalCmd())
	t.Setenv("TRIAGE_SURVIVAL_IDS", "x")

	cmd.SetArgs([]string{"survival"})
	require.ErrorIs(t, cmd.Execute(), adapter.ErrInvalidSurvivor)
}

func TestRunCmd_PassesFlags(t *testing.T) {
	mockWorkflow := withMockWorkflow(t)
	cmd, _ := newTestRootCmd(t, newRunCmd())

	mockWorkflow.On("Run", mock.Anything, mock.MatchedBy(func(args domain.RunArgs) bool {
		return args.Filter && args.Survival && args.Check &&
			args.Log == m.Path("out/mutants.log") &&
			args.Reports == m.Path("./reports") &&
			args.SurvivorsFile == m.Path("ids.txt") &&
			len(args.Protocols) == 2 && args.Protocols[0] == "balancer" &&
			args.Report.Project == "Vault" &&
			args.Report.Preview == 3
	})).Return(nil)

	cmd.SetArgs([]string{
		"run", "--check",
		"-l", "out/mutants.log",
		"-o", "./reports",
		"-s", "ids.txt",
		"--protocol", "balancer", "--protocol", "curve",
		"--project", "Vault",
		"--preview", "3",
	})
	require.NoError(t, cmd.Execute())
}

func TestRunCmd_ReturnsWorkflowError(t *testing.T) {
	mockWorkflow := withMockWorkflow(t)
	cmd, _ := newTestRootCmd(t, newRunCmd())

	mockWorkflow.On("Run", mock.Anything, mock.Anything).Return(domain.ErrDrift)

	cmd.SetArgs([]string{"run"})
	require.ErrorIs(t, cmd.Execute(), domain.ErrDrift)
}

func TestRunCmd_RejectsPositionalArgs(t *testing.T) {
	withMockWorkflow(t)
	cmd, _ := newTestRootCmd(t, newRunCmd())

	cmd.SetArgs([]string{"run", "extra"})
	require.Error(t, cmd.Execute())
}

func TestFilterAndSurvivalCmds_SelectPaths(t *testing.T) {
	tests := []struct {
		name         string
		sub          *cobra.Command
		wantFilter   bool
		wantSurvival bool
	}{
		{name: "filter", sub: newFilterCmd(), wantFilter: true},
		{name: "survival", sub: newSurvivalCmd(), wantSurvival: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockWorkflow := withMockWorkflow(t)
			cmd, _ := newTestRootCmd(t, tt.sub)

			mockWorkflow.On("Run", mock.Anything, mock.MatchedBy(func(args domain.RunArgs) bool {
				return args.Filter == tt.wantFilter && args.Survival == tt.wantSurvival && !args.Check
			})).Return(nil)

			cmd.SetArgs([]string{tt.name})
			require.NoError(t, cmd.Execute())
		})
	}
}
