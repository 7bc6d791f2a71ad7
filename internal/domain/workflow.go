package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gooze.dev/pkg/triage/internal/adapter"
	"gooze.dev/pkg/triage/internal/controller"
	m "gooze.dev/pkg/triage/internal/model"
)

var (
	// ErrNoSurvivors is returned when the survival path has no ID list to work from.
	ErrNoSurvivors = errors.New("no surviving mutation ids supplied")
	// ErrDrift is returned by a check run when stored artifacts differ from a fresh render.
	ErrDrift = errors.New("report artifacts are out of date")
)

// RunArgs contains the arguments for a triage run.
type RunArgs struct {
	Log     m.Path
	Reports m.Path

	Filter   bool
	Survival bool
	// Check compares rendered artifacts with the stored ones instead of writing.
	Check bool

	RulesFile m.Path

	Survivors     []int
	SurvivorsFile m.Path
	Protocols     []string
	FindingsFile  m.Path

	Report ReportOptions
}

// ViewArgs contains the arguments for viewing a stored report.
type ViewArgs struct {
	Reports  m.Path
	Artifact string
}

// Viewer displays a markdown document.
type Viewer interface {
	Show(ctx context.Context, title string, markdown []byte) error
}

// Workflow runs the triage pipeline: read, parse, classify/categorize, write.
type Workflow interface {
	Run(ctx context.Context, args RunArgs) error
	View(ctx context.Context, args ViewArgs) error
}

type workflow struct {
	adapter.ArtifactFSAdapter
	adapter.ReportStore
	adapter.SurvivorSource
	adapter.RulesLoader
	adapter.FindingsLoader
	controller.UI
	Viewer
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.ArtifactFSAdapter,
	reportStore adapter.ReportStore,
	survivors adapter.SurvivorSource,
	rules adapter.RulesLoader,
	findings adapter.FindingsLoader,
	ui controller.UI,
	viewer Viewer,
) Workflow {
	return &workflow{
		ArtifactFSAdapter: fsAdapter,
		ReportStore:       reportStore,
		SurvivorSource:    survivors,
		RulesLoader:       rules,
		FindingsLoader:    findings,
		UI:                ui,
		Viewer:            viewer,
	}
}

type artifact struct {
	name    string
	content []byte
}

func (w *workflow) Run(ctx context.Context, args RunArgs) error {
	if err := w.Start(ctx, startOptions(args)...); err != nil {
		slog.Error("Failed to start UI", "error", err)
		return err
	}
	defer w.Close(ctx)

	// Rules, survivors and findings are all loaded before the log is read.
	engine, err := w.ruleEngine(ctx, args)
	if err != nil {
		return err
	}

	survivors, err := w.survivors(ctx, args)
	if err != nil {
		return err
	}

	findings, err := w.findings(ctx, args)
	if err != nil {
		return err
	}

	lines, err := w.ReadLines(ctx, args.Log)
	if err != nil {
		slog.Error("Failed to read mutation log", "path", args.Log, "error", err)
		return fmt.Errorf("read mutation log: %w", err)
	}

	parsed := ParseLog(lines)
	w.DisplayParseResult(ctx, len(parsed.Records), parsed.Malformed)

	var artifacts []artifact

	if args.Filter {
		artifacts = append(artifacts, w.filterArtifacts(ctx, engine, parsed, args.Report)...)
	}

	if args.Survival {
		artifacts = append(artifacts, w.survivalArtifact(ctx, parsed, survivors, findings, args))
	}

	if args.Check {
		return w.check(ctx, args.Reports, artifacts)
	}

	return w.save(ctx, args.Reports, artifacts)
}

func startOptions(args RunArgs) []controller.StartOption {
	switch {
	case args.Check:
		return []controller.StartOption{controller.WithCheckMode()}
	case args.Filter && !args.Survival:
		return []controller.StartOption{controller.WithFilterMode()}
	case args.Survival && !args.Filter:
		return []controller.StartOption{controller.WithSurvivalMode()}
	}

	return nil
}

func (w *workflow) ruleEngine(ctx context.Context, args RunArgs) (*RuleEngine, error) {
	engine := DefaultRuleEngine()
	if !args.Filter || args.RulesFile == "" {
		return engine, nil
	}

	extra, err := w.LoadRules(ctx, args.RulesFile)
	if err != nil {
		slog.Error("Failed to load exclusion rules", "path", args.RulesFile, "error", err)
		return nil, fmt.Errorf("load rules: %w", err)
	}

	engine, err = engine.Extend(extra)
	if err != nil {
		slog.Error("Invalid exclusion rules", "path", args.RulesFile, "error", err)
		return nil, fmt.Errorf("compile rules: %w", err)
	}

	return engine, nil
}

func (w *workflow) survivors(ctx context.Context, args RunArgs) ([]int, error) {
	if !args.Survival {
		return nil, nil
	}

	if args.SurvivorsFile != "" {
		ids, err := w.LoadSurvivors(ctx, args.SurvivorsFile)
		if err != nil {
			slog.Error("Failed to load surviving ids", "path", args.SurvivorsFile, "error", err)
			return nil, fmt.Errorf("load survivors: %w", err)
		}

		return ids, nil
	}

	if args.Survivors == nil {
		return nil, ErrNoSurvivors
	}

	return args.Survivors, nil
}

func (w *workflow) filterArtifacts(ctx context.Context, engine *RuleEngine, parsed ParseResult, opts ReportOptions) []artifact {
	result := Filter(engine, parsed.Records)
	result.Summary.Malformed = len(parsed.Malformed)

	w.DisplayFilterSummary(ctx, result.Summary)

	return []artifact{
		{name: ExcludedArtifact, content: RenderPartition(result.Excluded)},
		{name: IncludedArtifact, content: RenderPartition(result.Included)},
		{name: SummaryArtifact, content: RenderFilterSummary(result.Summary, opts)},
	}
}

func (w *workflow) findings(ctx context.Context, args RunArgs) ([]m.Finding, error) {
	if !args.Survival {
		return nil, nil
	}

	findings, err := w.LoadFindings(ctx, args.FindingsFile)
	if err != nil {
		slog.Error("Failed to load gap findings", "path", args.FindingsFile, "error", err)
		return nil, fmt.Errorf("load findings: %w", err)
	}

	return findings, nil
}

func (w *workflow) survivalArtifact(
	ctx context.Context,
	parsed ParseResult,
	survivors []int,
	findings []m.Finding,
	args RunArgs,
) artifact {
	opts := args.Report.withDefaults()

	analysis := NewCategorizer(args.Protocols).Categorize(parsed.Records, survivors)
	analysis.Clusters = DetectClusters(analysis, opts.MinCluster)
	analysis.Findings = findings

	w.DisplaySurvivalAnalysis(ctx, analysis)

	return artifact{name: SurvivalArtifact, content: RenderSurvivalReport(analysis, opts)}
}

func (w *workflow) save(ctx context.Context, reports m.Path, artifacts []artifact) error {
	paths := make([]m.Path, 0, len(artifacts))

	for _, a := range artifacts {
		if err := w.SaveArtifact(ctx, reports, a.name, a.content); err != nil {
			return fmt.Errorf("save artifacts: %w", err)
		}

		paths = append(paths, w.JoinPath(string(reports), a.name))
	}

	w.DisplayArtifacts(ctx, paths)

	return nil
}

func (w *workflow) check(ctx context.Context, reports m.Path, artifacts []artifact) error {
	drifted := 0

	for _, a := range artifacts {
		diff, err := w.Compare(ctx, reports, a.name, a.content)
		if err != nil {
			slog.Error("Failed to compare artifact", "name", a.name, "error", err)
			return fmt.Errorf("compare artifacts: %w", err)
		}

		if diff != "" {
			drifted++
		}

		w.DisplayDrift(ctx, a.name, diff)
	}

	if drifted > 0 {
		return fmt.Errorf("%d of %d artifacts differ: %w", drifted, len(artifacts), ErrDrift)
	}

	return nil
}

func (w *workflow) View(ctx context.Context, args ViewArgs) error {
	name := args.Artifact
	if name == "" {
		name = SurvivalArtifact
	}

	content, err := w.LoadArtifact(ctx, args.Reports, name)
	if err != nil {
		slog.Error("Failed to load report", "reports", args.Reports, "name", name, "error", err)
		return fmt.Errorf("load report: %w", err)
	}

	return w.Show(ctx, name, content)
}
