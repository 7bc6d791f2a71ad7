// Package cmd provides the root command and CLI setup for triage.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"gooze.dev/pkg/triage/internal/adapter"
	"gooze.dev/pkg/triage/internal/controller"
	"gooze.dev/pkg/triage/internal/domain"
	m "gooze.dev/pkg/triage/internal/model"
)

var fsAdapter adapter.ArtifactFSAdapter
var reportStore adapter.ReportStore
var survivorSource adapter.SurvivorSource
var yamlLoader *adapter.YAMLLoader
var pager *controller.Pager
var workflow domain.Workflow
var ui controller.UI

// reportsOutputDirFlag is a root-level flag shared by commands that read/write reports.
var reportsOutputDirFlag string

var (
	inputLogFlag   string
	verboseFlag    bool
	projectFlag    string
	rulesFileFlag  string
	survivorsFlag  string
	findingsFlag   string
	protocolsFlag  []string
	previewFlag    int
	minClusterFlag int
)

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	pager = controller.NewPager(os.Stdout, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalArtifactFSAdapter()
	reportStore = adapter.NewReportStore(fsAdapter)
	survivorSource = adapter.NewSurvivorSource(fsAdapter)
	yamlLoader = adapter.NewYAMLLoader(fsAdapter)
	workflow = domain.NewWorkflow(
		fsAdapter,
		reportStore,
		survivorSource,
		yamlLoader,
		yamlLoader,
		ui,
		pager,
	)
}

const inputsHelp = `Inputs:
  - mutation log     one mutant per line: id,type,file,location,description
  - surviving ids    integers separated by commas, spaces or newlines (# comments)`

const rootLongDescription = `Triage is a companion to mutation testing of smart contracts. It filters
low-value mutants out of a mutation log and groups surviving mutants into
test coverage gap categories.

` + inputsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "triage",
		Short: "Mutation log triage and survival gap analysis",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

// rootFlagKeys maps each persistent flag to the config key it feeds.
var rootFlagKeys = []struct {
	flag string
	key  string
}{
	{outputFlagName, outputFlagName},
	{logFlagName, inputLogKey},
	{verboseFlagName, logVerboseKey},
	{projectFlagName, projectKey},
	{rulesFlagName, rulesFileKey},
	{survivorsFlagName, survivorsFileKey},
	{findingsFlagName, findingsFileKey},
	{protocolFlagName, protocolsKey},
	{previewFlagName, previewKey},
	{minClusterFlagName, minClusterKey},
}

func configureRootFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringVarP(&reportsOutputDirFlag, outputFlagName, "o", viper.GetString(outputFlagName), "output directory for triage reports")
	flags.StringVarP(&inputLogFlag, logFlagName, "l", viper.GetString(inputLogKey), "mutation log to triage")
	flags.BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "write debug level logs")
	flags.StringVar(&projectFlag, projectFlagName, viper.GetString(projectKey), "project name used in report titles")
	flags.StringVar(&rulesFileFlag, rulesFlagName, viper.GetString(rulesFileKey), "YAML file with extra exclusion categories")
	flags.StringVarP(&survivorsFlag, survivorsFlagName, "s", viper.GetString(survivorsFileKey), "file listing surviving mutation ids")
	flags.StringVar(&findingsFlag, findingsFlagName, viper.GetString(findingsFileKey), "YAML file with curated gap cluster findings (default: bundled)")
	flags.StringArrayVar(&protocolsFlag, protocolFlagName, viper.GetStringSlice(protocolsKey), "protocol name marking DeFi integration code (can be repeated)")
	flags.IntVar(&previewFlag, previewFlagName, viper.GetInt(previewKey), "example mutations shown per gap category")
	flags.IntVar(&minClusterFlag, minClusterFlagName, viper.GetInt(minClusterKey), "shortest run of consecutive survivors reported")

	bindRootFlags(flags)
}

func bindRootFlags(flags *pflag.FlagSet) {
	for _, fk := range rootFlagKeys {
		bindFlagToConfig(flags.Lookup(fk.flag), fk.key)
	}
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// runArgsFromConfig collects the run arguments from flags, config and env.
func runArgsFromConfig(filter, survival, check bool) (domain.RunArgs, error) {
	survivors, err := inlineSurvivors()
	if err != nil {
		return domain.RunArgs{}, err
	}

	return domain.RunArgs{
		Log:           m.Path(viper.GetString(inputLogKey)),
		Reports:       m.Path(viper.GetString(outputFlagName)),
		Filter:        filter,
		Survival:      survival,
		Check:         check,
		RulesFile:     m.Path(viper.GetString(rulesFileKey)),
		Survivors:     survivors,
		SurvivorsFile: m.Path(viper.GetString(survivorsFileKey)),
		Protocols:     viper.GetStringSlice(protocolsKey),
		FindingsFile:  m.Path(viper.GetString(findingsFileKey)),
		Report: domain.ReportOptions{
			Project:    viper.GetString(projectKey),
			Preview:    viper.GetInt(previewKey),
			MinCluster: viper.GetInt(minClusterKey),
		},
	}, nil
}

// inlineSurvivors reads survival.ids. A YAML list arrives as a slice; an
// environment variable arrives as a string and uses the survivors file syntax.
// The result is nil only when the key is unset.
func inlineSurvivors() ([]int, error) {
	if !viper.IsSet(survivorsKey) {
		return nil, nil
	}

	raw, ok := viper.Get(survivorsKey).(string)
	if !ok {
		return viper.GetIntSlice(survivorsKey), nil
	}

	ids, err := adapter.ParseSurvivors(raw)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", survivorsKey, err)
	}

	if ids == nil {
		ids = []int{}
	}

	return ids, nil
}
