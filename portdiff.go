package portdiff

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/acarl005/stripansi"

	"github.com/ethereum-optimism/infra/op-portdiff/classifier"
	"github.com/ethereum-optimism/infra/op-portdiff/logging"
	"github.com/ethereum-optimism/infra/op-portdiff/parser"
	"github.com/ethereum-optimism/infra/op-portdiff/reporting"
	"github.com/ethereum-optimism/infra/op-portdiff/runner"
	"github.com/ethereum-optimism/infra/op-portdiff/types"
	"github.com/ethereum-optimism/optimism/op-service/cliapp"
)

// portDiff implements the cliapp.Lifecycle interface.
var _ cliapp.Lifecycle = &portDiff{}

// Comparison is the outcome of one comparison run
type Comparison struct {
	RunID          string
	ReferenceName  string
	PortedName     string
	Reference      *types.TestRunResult
	Ported         *types.TestRunResult
	Classification types.Classification
	Report         string // Rendered Markdown document
	ReportPath     string
	Duration       time.Duration
}

// portDiff runs both implementations once, compares them and writes the report.
type portDiff struct {
	config    *Config
	version   string
	executor  runner.Executor
	parser    parser.OutputParser
	renderer  *reporting.MarkdownRenderer
	formatter ResultFormatter
	result    *Comparison

	running atomic.Bool

	shutdownCallback func(error) // Callback to signal application shutdown
}

func New(ctx context.Context, config *Config, version string, shutdownCallback func(error)) (*portDiff, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}
	if config.Log == nil {
		return nil, errors.New("config logger is required")
	}
	if shutdownCallback == nil {
		shutdownCallback = func(error) {}
	}

	config.Log.Debug("Creating op-portdiff with config",
		"configFile", config.ConfigFile,
		"reference", config.Reference.Name(),
		"ported", config.Ported.Name(),
		"report", config.ReportPath,
		"logDir", config.LogDir,
		"failOnRegression", config.FailOnRegression)

	return &portDiff{
		config:   config,
		version:  version,
		executor: runner.NewExecutor(config.Log),
		parser:   parser.NewOutputParser(),
		renderer: reporting.NewMarkdownRenderer().
			WithTitle(config.Title).
			WithImplementationNames(config.Reference.Name(), config.Ported.Name()),
		formatter:        NewConsoleResultFormatter(config.Log, os.Stdout),
		shutdownCallback: shutdownCallback,
	}, nil
}

// Start performs a single comparison and then signals shutdown.
// Start implements the cliapp.Lifecycle interface.
func (p *portDiff) Start(ctx context.Context) error {
	p.running.Store(true)
	p.config.Log.Info("Starting op-portdiff", "version", p.version)

	result, err := p.compare(ctx)
	if err != nil {
		p.config.Log.Error("Runtime error comparing implementations", "error", err)
		return err
	}
	p.result = result

	if p.config.FailOnRegression && result.Classification.HasRegressions() {
		p.config.Log.Warn("Ported implementation has regressions, returning exit code 1",
			"regressions", len(result.Classification.Regressions))
		return NewRegressionError(result.Classification.RegressionNames())
	}

	go func() {
		p.shutdownCallback(nil)
	}()
	return nil
}

// Stop implements the cliapp.Lifecycle interface.
func (p *portDiff) Stop(ctx context.Context) error {
	if !p.running.Load() {
		p.config.Log.Debug("op-portdiff already stopped, nothing to do")
		return nil
	}
	p.running.Store(false)
	p.config.Log.Info("op-portdiff stopped")
	return nil
}

// Stopped implements the cliapp.Lifecycle interface.
func (p *portDiff) Stopped() bool {
	return !p.running.Load()
}

// Result returns the last comparison, nil before Start completes
func (p *portDiff) Result() *Comparison {
	return p.result
}

// compare collects both outputs and produces the report. Every returned error is a RuntimeError.
func (p *portDiff) compare(ctx context.Context) (*Comparison, error) {
	start := time.Now()

	captures, err := p.collect(ctx)
	if err != nil {
		return nil, NewRuntimeError(err)
	}
	// An interrupt is never a result; nothing is parsed or written.
	if ctx.Err() != nil {
		return nil, NewRuntimeError(fmt.Errorf("comparison interrupted: %w", context.Cause(ctx)))
	}
	refCapture, portedCapture := captures[0], captures[1]

	reference := p.parser.Parse(refCapture.Output, p.config.Reference.Dialect)
	ported := p.parser.Parse(portedCapture.Output, p.config.Ported.Dialect)
	p.config.Log.Debug("Parsed outputs",
		"referenceFailures", reference.FailureCount(),
		"portedFailures", ported.FailureCount())

	classification := classifier.Classify(reference, ported)
	report := p.renderer.Render(reference, ported, classification)

	if err := reporting.WriteReport(p.config.ReportPath, report); err != nil {
		return nil, NewRuntimeError(fmt.Errorf("failed to write report: %w", err))
	}
	if err := p.writeHTMLReport(report); err != nil {
		return nil, NewRuntimeError(err)
	}

	runID, err := p.saveRawOutput(refCapture, portedCapture)
	if err != nil {
		return nil, NewRuntimeError(err)
	}

	result := &Comparison{
		RunID:          runID,
		ReferenceName:  p.config.Reference.Name(),
		PortedName:     p.config.Ported.Name(),
		Reference:      reference,
		Ported:         ported,
		Classification: classification,
		Report:         report,
		ReportPath:     p.config.ReportPath,
		Duration:       time.Since(start),
	}

	if err := p.formatter.FormatResults(result); err != nil {
		return nil, NewRuntimeError(fmt.Errorf("failed to print results: %w", err))
	}

	p.config.Log.Info("Comparison completed",
		"run_id", result.RunID,
		"regressions", len(classification.Regressions),
		"improvements", len(classification.Improvements),
		"common", len(classification.Common),
		"report", result.ReportPath,
		"duration", result.Duration)
	return result, nil
}

// collect returns the reference and ported captures in that order, reading pre-captured
// files and running the remaining runners.
func (p *portDiff) collect(ctx context.Context) ([]*runner.Capture, error) {
	impls := []Implementation{p.config.Reference, p.config.Ported}
	captures := make([]*runner.Capture, len(impls))

	var specs []runner.RunnerSpec
	var pending []int
	for i, impl := range impls {
		if !impl.Captured() {
			specs = append(specs, impl.Runner)
			pending = append(pending, i)
			continue
		}
		data, err := os.ReadFile(impl.OutputFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s output: %w", impl.Role, err)
		}
		output := string(data)
		if impl.Runner.StripANSI {
			output = stripansi.Strip(output)
		}
		p.config.Log.Info("Using pre-captured output", "role", impl.Role, "file", impl.OutputFile)
		captures[i] = &runner.Capture{
			Name:    impl.Name(),
			Output:  output,
			Success: true,
		}
	}

	ran, err := p.run(ctx, specs)
	if err != nil {
		return nil, err
	}
	for j, i := range pending {
		capture := ran[j]
		if capture.Failed() {
			p.config.Log.Warn("Runner did not produce test output", "role", impls[i].Role, "reason", capture.FailureReason)
		} else {
			p.config.Log.Info("Runner finished", "role", impls[i].Role, "exit_code", capture.ExitCode, "duration", capture.Duration)
		}
		captures[i] = capture
	}
	return captures, nil
}

func (p *portDiff) run(ctx context.Context, specs []runner.RunnerSpec) ([]*runner.Capture, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	if !p.config.Serial {
		return runner.ExecuteAll(ctx, p.executor, specs...)
	}

	captures := make([]*runner.Capture, 0, len(specs))
	for _, spec := range specs {
		capture, err := p.executor.Execute(ctx, spec)
		if err != nil {
			return nil, fmt.Errorf("failed to execute %s: %w", spec.Name, err)
		}
		captures = append(captures, capture)
	}
	return captures, nil
}

func (p *portDiff) writeHTMLReport(report string) error {
	if p.config.HTMLReportPath == "" {
		return nil
	}
	renderer, err := reporting.NewHTMLRenderer()
	if err != nil {
		return err
	}
	page, err := renderer.Render(p.config.Title, report)
	if err != nil {
		return fmt.Errorf("failed to render HTML report: %w", err)
	}
	if err := reporting.WriteReport(p.config.HTMLReportPath, page); err != nil {
		return fmt.Errorf("failed to write HTML report: %w", err)
	}
	p.config.Log.Info("Wrote HTML report", "path", p.config.HTMLReportPath)
	return nil
}

// saveRawOutput stores both captures under the log directory and returns the run ID. It is a
// no-op returning an empty ID when no log directory is configured.
func (p *portDiff) saveRawOutput(reference, ported *runner.Capture) (string, error) {
	if p.config.LogDir == "" {
		return "", nil
	}
	sink, err := logging.NewRawOutputSink(p.config.LogDir, "")
	if err != nil {
		return "", fmt.Errorf("failed to create raw output sink: %w", err)
	}
	if err := sink.Consume(p.config.Reference.Role, reference); err != nil {
		return "", err
	}
	if err := sink.Consume(p.config.Ported.Role, ported); err != nil {
		return "", err
	}
	if err := sink.Complete(); err != nil {
		return "", err
	}
	p.config.Log.Info("Saved raw runner output", "dir", sink.RunDir())
	return sink.RunID(), nil
}
