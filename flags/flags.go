package flags

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	opservice "github.com/ethereum-optimism/optimism/op-service"
	oplog "github.com/ethereum-optimism/optimism/op-service/log"
)

const EnvVarPrefix = "OP_PORTDIFF"

var (
	Config = &cli.StringFlag{
		Name:    "config",
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "CONFIG"),
		Usage:   "Path to the runner config file (eg. 'portdiff.yaml')",
	}
	Report = &cli.StringFlag{
		Name:    "report",
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "REPORT"),
		Usage:   "Path of the Markdown report to write. Defaults to the config file value, then 'test/REPORT.md'",
	}
	HTMLReport = &cli.StringFlag{
		Name:    "html-report",
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "HTML_REPORT"),
		Usage:   "Also write the report as a standalone HTML page to this path. Empty disables it",
	}
	ReferenceOutput = &cli.StringFlag{
		Name:    "reference-output",
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "REFERENCE_OUTPUT"),
		Usage:   "Read the reference test output from this file instead of running the reference runner",
	}
	PortedOutput = &cli.StringFlag{
		Name:    "ported-output",
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "PORTED_OUTPUT"),
		Usage:   "Read the ported test output from this file instead of running the ported runner",
	}
	LogDir = &cli.StringFlag{
		Name:    "logdir",
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "LOGDIR"),
		Usage:   "Directory to store the raw runner output of each run. Empty disables raw output logging",
	}
	FailOnRegression = &cli.BoolFlag{
		Name:    "fail-on-regression",
		Value:   false,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "FAIL_ON_REGRESSION"),
		Usage:   "Exit with code 1 when the ported implementation fails tests the reference passes",
	}
	Title = &cli.StringFlag{
		Name:    "title",
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "TITLE"),
		Usage:   "Report title. Defaults to the config file value, then 'Port Test Comparison Report'",
	}
	Timeout = &cli.DurationFlag{
		Name:    "timeout",
		Value:   0,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "TIMEOUT"),
		Usage:   "Run timeout applied to both runners (e.g. '60s', '5m'). 0 keeps the configured timeouts",
		Action: func(_ *cli.Context, d time.Duration) error {
			return validateTimeout(d)
		},
	}
	Serial = &cli.BoolFlag{
		Name:    "serial",
		Value:   false,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "SERIAL"),
		Usage:   "Run the reference and ported runners one after the other instead of concurrently",
	}
)

var optionalFlags = []cli.Flag{
	Config,
	Report,
	HTMLReport,
	ReferenceOutput,
	PortedOutput,
	LogDir,
	FailOnRegression,
	Title,
	Timeout,
	Serial,
}
var Flags []cli.Flag

func init() {
	optionalFlags = append(optionalFlags, oplog.CLIFlags(EnvVarPrefix)...)

	Flags = optionalFlags
}

func validateTimeout(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("timeout cannot be negative, got %s", d)
	}
	return nil
}
