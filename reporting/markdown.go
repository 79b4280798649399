package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ethereum-optimism/infra/op-portdiff/types"
)

const (
	DefaultTitle         = "Port Test Comparison Report"
	DefaultReferenceName = "Reference"
	DefaultPortedName    = "Ported"

	NoRegressionsText = "✅ No regressions found!"
	NoCommonText      = "No common failures."

	// GeneratedTimeLayout matches the output of date(1).
	GeneratedTimeLayout = time.UnixDate
)

// MarkdownRenderer turns a comparison of two test runs into a Markdown document
type MarkdownRenderer struct {
	title         string
	referenceName string
	portedName    string
	now           func() time.Time
}

// NewMarkdownRenderer creates a renderer with default title and implementation names
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{
		title:         DefaultTitle,
		referenceName: DefaultReferenceName,
		portedName:    DefaultPortedName,
		now:           time.Now,
	}
}

// WithTitle sets the top-level document heading
func (r *MarkdownRenderer) WithTitle(title string) *MarkdownRenderer {
	if title != "" {
		r.title = title
	}
	return r
}

// WithImplementationNames sets the display names used in tables and section text
func (r *MarkdownRenderer) WithImplementationNames(reference, ported string) *MarkdownRenderer {
	if reference != "" {
		r.referenceName = reference
	}
	if ported != "" {
		r.portedName = ported
	}
	return r
}

// WithClock overrides the source of the generation timestamp
func (r *MarkdownRenderer) WithClock(now func() time.Time) *MarkdownRenderer {
	if now != nil {
		r.now = now
	}
	return r
}

// NoImprovementsText is the placeholder used when the port fixes nothing.
func (r *MarkdownRenderer) NoImprovementsText() string {
	return fmt.Sprintf("No improvements over %s implementation.", r.referenceName)
}

// Render produces the full report. The only non-deterministic part is the
// generation timestamp taken from the renderer's clock.
func (r *MarkdownRenderer) Render(reference, ported *types.TestRunResult, c types.Classification) string {
	refSummary := types.SummaryOf(reference)
	portSummary := types.SummaryOf(ported)

	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteString("\n")
	}

	line("# %s", r.title)
	line("")
	line("Generated: %s", r.now().Format(GeneratedTimeLayout))
	line("")

	line("## Summary")
	line("")
	line("%s", r.summaryTable(refSummary, portSummary))
	line("")

	line("### Difference")
	line("")
	line("- **Passed**: %+d", portSummary.Passed-refSummary.Passed)
	line("- **Failed**: %+d", portSummary.Failed-refSummary.Failed)
	line("- **Success Rate**: %+.2f%%", portSummary.SuccessRate-refSummary.SuccessRate)
	line("")

	line("## Regressions")
	line("")
	line("Test cases that **pass in %s** but **fail in %s**: %d", r.referenceName, r.portedName, len(c.Regressions))
	line("")
	if len(c.Regressions) == 0 {
		line("%s", NoRegressionsText)
		line("")
	}
	for i, rec := range c.Regressions {
		line("### %d. %s", i+1, rec.Name)
		line("")
		writeErrors(&b, rec.Errors)
		line("")
	}

	line("## Improvements")
	line("")
	line("Test cases that **fail in %s** but **pass in %s**: %d", r.referenceName, r.portedName, len(c.Improvements))
	line("")
	if len(c.Improvements) == 0 {
		line("%s", r.NoImprovementsText())
		line("")
	}
	for i, rec := range c.Improvements {
		line("### %d. %s", i+1, rec.Name)
		line("")
		line("%s errors:", r.referenceName)
		line("")
		writeErrors(&b, rec.Errors)
		line("")
	}

	line("## Common Failures")
	line("")
	line("Test cases that **fail in both** implementations: %d", len(c.Common))
	line("")
	if len(c.Common) == 0 {
		line("%s", NoCommonText)
		line("")
		return b.String()
	}

	refFailures := types.FailureSetOf(reference)
	portFailures := types.FailureSetOf(ported)

	line("<details>")
	line("<summary>Click to expand common failures</summary>")
	line("")
	for i, name := range c.Common {
		line("### %d. %s", i+1, name)
		line("")

		refRec, _ := refFailures.Get(name)
		line("**%s errors:**", r.referenceName)
		line("")
		writeErrors(&b, refRec.Errors)
		line("")

		portRec, _ := portFailures.Get(name)
		line("**%s errors:**", r.portedName)
		line("")
		writeErrors(&b, portRec.Errors)
		line("")
	}
	line("</details>")
	line("")

	return b.String()
}

func (r *MarkdownRenderer) summaryTable(reference, ported types.TestRunSummary) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Implementation", "Passed", "Failed", "Total", "Success Rate"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Implementation", Align: text.AlignLeft},
	})
	t.AppendRow(summaryRow(r.referenceName, reference))
	t.AppendRow(summaryRow(r.portedName, ported))
	return t.RenderMarkdown()
}

func summaryRow(name string, s types.TestRunSummary) table.Row {
	return table.Row{name, s.Passed, s.Failed, s.Total, FormatRate(s.SuccessRate)}
}

func writeErrors(b *strings.Builder, errs []string) {
	for _, e := range errs {
		fmt.Fprintf(b, "- %s\n", e)
	}
}

// FormatRate renders a success rate with two decimals and a percent sign, eg. "66.67%"
func FormatRate(rate float64) string {
	return fmt.Sprintf("%.2f%%", rate)
}
