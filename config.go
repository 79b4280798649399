package portdiff

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/ethereum-optimism/infra/op-portdiff/flags"
	"github.com/ethereum-optimism/infra/op-portdiff/reporting"
	"github.com/ethereum-optimism/infra/op-portdiff/runner"
	"github.com/ethereum-optimism/infra/op-portdiff/types"
)

// RunnerConfig is one implementation's entry in the config file
type RunnerConfig struct {
	Name         string        `yaml:"name"`
	Dir          string        `yaml:"dir"`           // Relative paths resolve against the config file's directory
	Build        []string      `yaml:"build"`         // Optional build step, eg. [make]
	Command      []string      `yaml:"command"`       // Test command, eg. [./anitomy_test]
	BuildTimeout time.Duration `yaml:"build_timeout"` // 0 means no limit
	Timeout      time.Duration `yaml:"timeout"`       // 0 means runner.DefaultRunTimeout
	StripANSI    *bool         `yaml:"strip_ansi"`    // Defaults to true
	Dialect      string        `yaml:"dialect"`       // Output dialect, defaults to the entry's role
	Output       string        `yaml:"output"`        // Pre-captured output file; the runner is skipped when set
}

// FileConfig is the YAML config file layout
type FileConfig struct {
	Title      string       `yaml:"title"`
	Report     string       `yaml:"report"`
	HTMLReport string       `yaml:"html_report"`
	LogDir     string       `yaml:"logdir"`
	Reference  RunnerConfig `yaml:"reference"`
	Ported     RunnerConfig `yaml:"ported"`
}

// Implementation is one side of the comparison after defaults and overrides are applied
type Implementation struct {
	Role       string        // runner.RoleReference or runner.RolePorted
	Dialect    types.Dialect // How the output is parsed
	OutputFile string        // Pre-captured output; the runner is skipped when set
	Runner     runner.RunnerSpec
}

// Name returns the display name used in the report
func (i Implementation) Name() string {
	return i.Runner.Name
}

// Captured reports whether the output is read from a file instead of a runner
func (i Implementation) Captured() bool {
	return i.OutputFile != ""
}

// Config holds the application configuration
type Config struct {
	ConfigFile       string
	Title            string
	ReportPath       string
	HTMLReportPath   string // Optional HTML rendering of the report, empty disables it
	LogDir           string // Directory to store raw runner output, empty disables it
	FailOnRegression bool
	Serial           bool // Whether to run the two runners one after the other
	Reference        Implementation
	Ported           Implementation
	Log              log.Logger
}

// flagValues are the command line values that override the config file
type flagValues struct {
	configFile       string
	report           string
	htmlReport       string
	referenceOutput  string
	portedOutput     string
	logDir           string
	title            string
	timeout          time.Duration
	failOnRegression bool
	serial           bool
}

// NewConfig creates a new Config from cli context
func NewConfig(ctx *cli.Context, log log.Logger) (*Config, error) {
	return buildConfig(flagValues{
		configFile:       ctx.String(flags.Config.Name),
		report:           ctx.String(flags.Report.Name),
		htmlReport:       ctx.String(flags.HTMLReport.Name),
		referenceOutput:  ctx.String(flags.ReferenceOutput.Name),
		portedOutput:     ctx.String(flags.PortedOutput.Name),
		logDir:           ctx.String(flags.LogDir.Name),
		title:            ctx.String(flags.Title.Name),
		timeout:          ctx.Duration(flags.Timeout.Name),
		failOnRegression: ctx.Bool(flags.FailOnRegression.Name),
		serial:           ctx.Bool(flags.Serial.Name),
	}, log)
}

func buildConfig(fv flagValues, log log.Logger) (*Config, error) {
	if log == nil {
		return nil, errors.New("logger is required")
	}
	if fv.configFile == "" && (fv.referenceOutput == "" || fv.portedOutput == "") {
		return nil, errors.New("a config file is required unless both --reference-output and --ported-output are set")
	}

	file := &FileConfig{}
	baseDir := ""
	if fv.configFile != "" {
		absConfig, err := filepath.Abs(fv.configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve absolute path for config file '%s': %w", fv.configFile, err)
		}
		file, err = LoadFileConfig(absConfig)
		if err != nil {
			return nil, err
		}
		fv.configFile = absConfig
		baseDir = filepath.Dir(absConfig)
	}

	reference, err := newImplementation(runner.RoleReference, file.Reference, baseDir, fv.referenceOutput, fv.timeout)
	if err != nil {
		return nil, err
	}
	ported, err := newImplementation(runner.RolePorted, file.Ported, baseDir, fv.portedOutput, fv.timeout)
	if err != nil {
		return nil, err
	}

	return &Config{
		ConfigFile:       fv.configFile,
		Title:            firstNonEmpty(fv.title, file.Title, reporting.DefaultTitle),
		ReportPath:       firstNonEmpty(fv.report, file.Report, reporting.DefaultReportPath),
		HTMLReportPath:   firstNonEmpty(fv.htmlReport, file.HTMLReport),
		LogDir:           firstNonEmpty(fv.logDir, file.LogDir),
		FailOnRegression: fv.failOnRegression,
		Serial:           fv.serial,
		Reference:        reference,
		Ported:           ported,
		Log:              log,
	}, nil
}

// LoadFileConfig reads and decodes a YAML config file
func LoadFileConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return &cfg, nil
}

func newImplementation(role string, rc RunnerConfig, baseDir, outputOverride string, timeoutOverride time.Duration) (Implementation, error) {
	impl := Implementation{Role: role}

	defaultName := reporting.DefaultReferenceName
	impl.Dialect = types.DialectReference
	if role == runner.RolePorted {
		defaultName = reporting.DefaultPortedName
		impl.Dialect = types.DialectPorted
	}
	if rc.Dialect != "" {
		dialect, err := types.ParseDialect(rc.Dialect)
		if err != nil {
			return Implementation{}, fmt.Errorf("%s: %w", role, err)
		}
		impl.Dialect = dialect
	}

	stripANSI := true
	if rc.StripANSI != nil {
		stripANSI = *rc.StripANSI
	}
	timeout := rc.Timeout
	if timeoutOverride > 0 {
		timeout = timeoutOverride
	}
	if timeout == 0 {
		timeout = runner.DefaultRunTimeout
	}

	impl.Runner = runner.RunnerSpec{
		Name:         firstNonEmpty(rc.Name, defaultName),
		Dir:          resolvePath(baseDir, rc.Dir),
		Build:        rc.Build,
		Command:      rc.Command,
		BuildTimeout: rc.BuildTimeout,
		Timeout:      timeout,
		StripANSI:    stripANSI,
	}

	switch {
	case outputOverride != "":
		abs, err := filepath.Abs(outputOverride)
		if err != nil {
			return Implementation{}, fmt.Errorf("failed to resolve absolute path for %s output '%s': %w", role, outputOverride, err)
		}
		impl.OutputFile = abs
	case rc.Output != "":
		impl.OutputFile = resolvePath(baseDir, rc.Output)
	}

	if impl.Captured() {
		return impl, nil
	}
	if len(rc.Command) == 0 {
		return Implementation{}, fmt.Errorf("%s: a command or a pre-captured output file is required", role)
	}
	if err := impl.Runner.Validate(); err != nil {
		return Implementation{}, fmt.Errorf("%s: %w", role, err)
	}
	return impl, nil
}

// resolvePath anchors a relative path to baseDir; an empty baseDir keeps it relative to the
// working directory.
func resolvePath(baseDir, path string) string {
	if path == "" || baseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
