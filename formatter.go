package portdiff

import (
	"fmt"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ethereum-optimism/infra/op-portdiff/reporting"
	"github.com/ethereum-optimism/infra/op-portdiff/types"
)

// ResultFormatter is responsible for formatting and displaying comparison results.
type ResultFormatter interface {
	FormatResults(result *Comparison) error
}

var _ ResultFormatter = (*ConsoleResultFormatter)(nil)

// ConsoleResultFormatter implements the ResultFormatter interface.
type ConsoleResultFormatter struct {
	logger log.Logger
	out    io.Writer
}

// NewConsoleResultFormatter creates a new ConsoleResultFormatter writing to out, or to
// stdout when out is nil.
func NewConsoleResultFormatter(logger log.Logger, out io.Writer) *ConsoleResultFormatter {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleResultFormatter{
		logger: logger,
		out:    out,
	}
}

// FormatResults prints the summary table followed by the classification counts.
func (f *ConsoleResultFormatter) FormatResults(result *Comparison) error {
	if result == nil {
		return fmt.Errorf("comparison result cannot be nil")
	}
	f.logger.Debug("Printing results...")

	ref := types.SummaryOf(result.Reference)
	ported := types.SummaryOf(result.Ported)

	t := table.NewWriter()
	t.SetOutputMirror(f.out)
	t.SetTitle("Port Comparison Results")

	t.AppendHeader(table.Row{
		"Implementation", "Passed", "Failed", "Total", "Success Rate", "Failures",
	})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Implementation", WidthMax: 40, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Total", Align: text.AlignRight},
		{Name: "Success Rate", Align: text.AlignRight},
		{Name: "Failures", Align: text.AlignRight},
	})

	t.AppendRow(table.Row{
		result.ReferenceName, ref.Passed, ref.Failed, ref.Total, reporting.FormatRate(ref.SuccessRate), result.Reference.FailureCount(),
	})
	t.AppendRow(table.Row{
		result.PortedName, ported.Passed, ported.Failed, ported.Total, reporting.FormatRate(ported.SuccessRate), result.Ported.FailureCount(),
	})

	switch {
	case result.Classification.HasRegressions():
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	case len(result.Classification.Common) > 0:
		t.SetStyle(table.StyleColoredBlackOnYellowWhite)
	default:
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	}

	t.AppendFooter(table.Row{
		"DIFFERENCE",
		fmt.Sprintf("%+d", ported.Passed-ref.Passed),
		fmt.Sprintf("%+d", ported.Failed-ref.Failed),
		"",
		fmt.Sprintf("%+.2f%%", ported.SuccessRate-ref.SuccessRate),
		"",
	})

	t.Render()

	c := result.Classification
	fmt.Fprintf(f.out, "Regressions: %d\n", len(c.Regressions))
	for _, name := range c.RegressionNames() {
		fmt.Fprintf(f.out, "  ✗ %s\n", name)
	}
	fmt.Fprintf(f.out, "Improvements: %d\n", len(c.Improvements))
	for _, name := range c.ImprovementNames() {
		fmt.Fprintf(f.out, "  ✓ %s\n", name)
	}
	fmt.Fprintf(f.out, "Common failures: %d\n", len(c.Common))
	if result.ReportPath != "" {
		fmt.Fprintf(f.out, "Report written to %s\n", result.ReportPath)
	}
	return nil
}
