package reporting

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethereum-optimism/infra/op-portdiff/classifier"
	"github.com/ethereum-optimism/infra/op-portdiff/types"
)

var fixedTime = time.Date(2026, time.October, 14, 9, 30, 0, 0, time.UTC)

func newTestRenderer() *MarkdownRenderer {
	return NewMarkdownRenderer().
		WithTitle("Anitomy Dart Port Test Comparison Report").
		WithImplementationNames("C++", "Dart").
		WithClock(func() time.Time { return fixedTime })
}

func run(summary types.TestRunSummary, records ...types.FailureRecord) *types.TestRunResult {
	return &types.TestRunResult{
		Summary:  summary,
		Failures: types.NewFailureSet(records...),
	}
}

// section returns the text between a "## heading" line and the next "## " heading.
func section(t *testing.T, doc, heading string) string {
	t.Helper()
	start := strings.Index(doc, "## "+heading+"\n")
	require.GreaterOrEqual(t, start, 0, "missing section %q", heading)
	rest := doc[start+len("## "+heading+"\n"):]
	if end := strings.Index(rest, "\n## "); end >= 0 {
		rest = rest[:end]
	}
	return rest
}

func TestMarkdownRenderer_Header(t *testing.T) {
	doc := newTestRenderer().Render(run(types.TestRunSummary{}), run(types.TestRunSummary{}), types.Classification{})

	assert.True(t, strings.HasPrefix(doc, "# Anitomy Dart Port Test Comparison Report\n\nGenerated: "))
	assert.Contains(t, doc, "Generated: Wed Oct 14 09:30:00 UTC 2026\n")
}

func TestMarkdownRenderer_SummaryAndDifference(t *testing.T) {
	reference := run(types.TestRunSummary{Passed: 90, Failed: 10, Total: 100, SuccessRate: 90})
	ported := run(types.TestRunSummary{Passed: 85, Failed: 15, Total: 100, SuccessRate: 85.5})

	doc := newTestRenderer().Render(reference, ported, types.Classification{})

	summary := section(t, doc, "Summary")
	assert.Contains(t, summary, "| Implementation | Passed | Failed | Total | Success Rate |")
	assert.Contains(t, summary, "| C++ | 90 | 10 | 100 | 90.00% |")
	assert.Contains(t, summary, "| Dart | 85 | 15 | 100 | 85.50% |")

	assert.Contains(t, summary, "### Difference\n\n- **Passed**: -5\n- **Failed**: +5\n- **Success Rate**: -4.50%\n")
}

func TestMarkdownRenderer_DifferenceHasExplicitSignForZero(t *testing.T) {
	s := types.TestRunSummary{Passed: 10, Total: 10, SuccessRate: 100}

	doc := newTestRenderer().Render(run(s), run(s), types.Classification{})

	assert.Contains(t, doc, "- **Passed**: +0\n")
	assert.Contains(t, doc, "- **Failed**: +0\n")
	assert.Contains(t, doc, "- **Success Rate**: +0.00%\n")
}

func TestMarkdownRenderer_EmptyStates(t *testing.T) {
	r := newTestRenderer()
	doc := r.Render(run(types.TestRunSummary{}), run(types.TestRunSummary{}), classifier.Classify(nil, nil))

	regressions := section(t, doc, "Regressions")
	assert.Contains(t, regressions, "Test cases that **pass in C++** but **fail in Dart**: 0")
	assert.Contains(t, regressions, NoRegressionsText)

	improvements := section(t, doc, "Improvements")
	assert.Contains(t, improvements, "Test cases that **fail in C++** but **pass in Dart**: 0")
	assert.Contains(t, improvements, "No improvements over C++ implementation.")

	common := section(t, doc, "Common Failures")
	assert.Contains(t, common, "Test cases that **fail in both** implementations: 0")
	assert.Contains(t, common, NoCommonText)
	assert.NotContains(t, common, "<details>")
}

func TestMarkdownRenderer_DisjointFailures(t *testing.T) {
	reference := run(types.TestRunSummary{}, types.FailureRecord{Name: "A.mkv", Errors: []string{"expected X"}})
	ported := run(types.TestRunSummary{}, types.FailureRecord{Name: "B.mkv", Errors: []string{"expected Y"}})

	doc := newTestRenderer().Render(reference, ported, classifier.Classify(reference, ported))

	regressions := section(t, doc, "Regressions")
	assert.Contains(t, regressions, ": 1\n")
	assert.Contains(t, regressions, "### 1. B.mkv\n\n- expected Y\n")
	assert.NotContains(t, regressions, NoRegressionsText)

	improvements := section(t, doc, "Improvements")
	assert.Contains(t, improvements, "### 1. A.mkv\n\nC++ errors:\n\n- expected X\n")
	assert.NotContains(t, improvements, "No improvements")

	common := section(t, doc, "Common Failures")
	assert.Contains(t, common, NoCommonText)
}

func TestMarkdownRenderer_CommonFailuresShowBothSides(t *testing.T) {
	reference := run(types.TestRunSummary{}, types.FailureRecord{Name: "C.mkv", Errors: []string{"reference error"}})
	ported := run(types.TestRunSummary{}, types.FailureRecord{Name: "C.mkv", Errors: []string{"ported error", "second line"}})

	doc := newTestRenderer().Render(reference, ported, classifier.Classify(reference, ported))

	assert.Contains(t, section(t, doc, "Regressions"), NoRegressionsText)
	assert.Contains(t, section(t, doc, "Improvements"), "No improvements over C++ implementation.")

	common := section(t, doc, "Common Failures")
	assert.Contains(t, common, "implementations: 1\n")
	assert.Contains(t, common, "<details>\n<summary>Click to expand common failures</summary>\n")
	assert.Contains(t, common, "### 1. C.mkv\n\n**C++ errors:**\n\n- reference error\n\n**Dart errors:**\n\n- ported error\n- second line\n")
	assert.True(t, strings.HasSuffix(doc, "</details>\n\n"))
	assert.NotContains(t, common, NoCommonText)
}

func TestMarkdownRenderer_SectionOrder(t *testing.T) {
	doc := newTestRenderer().Render(nil, nil, types.Classification{})

	headings := []string{"## Summary", "### Difference", "## Regressions", "## Improvements", "## Common Failures"}
	last := -1
	for _, h := range headings {
		idx := strings.Index(doc, h)
		require.Greater(t, idx, last, "heading %q out of order", h)
		last = idx
	}
}

func TestMarkdownRenderer_EnumeratesSubsections(t *testing.T) {
	ported := run(types.TestRunSummary{},
		types.FailureRecord{Name: "one.mkv", Errors: []string{"e1"}},
		types.FailureRecord{Name: "two.mkv", Errors: []string{"e2"}},
		types.FailureRecord{Name: "three.mkv", Errors: []string{"e3"}},
	)

	doc := newTestRenderer().Render(run(types.TestRunSummary{}), ported, classifier.Classify(nil, ported))

	regressions := section(t, doc, "Regressions")
	assert.Contains(t, regressions, "### 1. one.mkv")
	assert.Contains(t, regressions, "### 2. two.mkv")
	assert.Contains(t, regressions, "### 3. three.mkv")
	assert.Less(t, strings.Index(regressions, "one.mkv"), strings.Index(regressions, "two.mkv"))
}

func TestMarkdownRenderer_Defaults(t *testing.T) {
	r := NewMarkdownRenderer().WithTitle("").WithImplementationNames("", "")

	doc := r.Render(nil, nil, types.Classification{})
	assert.True(t, strings.HasPrefix(doc, "# "+DefaultTitle+"\n"))
	assert.Contains(t, doc, "| "+DefaultReferenceName+" | 0 | 0 | 0 | 0.00% |")
	assert.Contains(t, doc, "| "+DefaultPortedName+" | 0 | 0 | 0 | 0.00% |")
}

func TestMarkdownRenderer_Deterministic(t *testing.T) {
	reference := run(types.TestRunSummary{Passed: 1}, types.FailureRecord{Name: "A.mkv", Errors: []string{"x"}})
	ported := run(types.TestRunSummary{Passed: 2}, types.FailureRecord{Name: "A.mkv", Errors: []string{"y"}})
	c := classifier.Classify(reference, ported)

	r := newTestRenderer()
	assert.Equal(t, r.Render(reference, ported, c), r.Render(reference, ported, c))
}

func TestWriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "REPORT.md")

	require.NoError(t, WriteReport(path, "# report\n"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# report\n", string(content))

	assert.Error(t, WriteReport("", "x"))
}

func TestFormatRate(t *testing.T) {
	assert.Equal(t, "0.00%", FormatRate(0))
	assert.Equal(t, "66.67%", FormatRate(66.666))
	assert.Equal(t, "100.00%", FormatRate(100))
}
