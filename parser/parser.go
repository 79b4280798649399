// Package parser turns the console output of a test runner into a normalized
// types.TestRunResult. It is the only place that knows what the runners print; callers
// only pick a dialect.
package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ethereum-optimism/infra/op-portdiff/types"
)

var (
	passedRegex      = regexp.MustCompile(`Passed:\s*(\d+)`)
	failedRegex      = regexp.MustCompile(`Failed:\s*(\d+)`)
	totalRegex       = regexp.MustCompile(`Total:\s*(\d+)`)
	successRateRegex = regexp.MustCompile(`Success Rate:\s*([\d.]+)%`)

	// entryMarkerRegex matches the "N. " prefix that opens each failure entry.
	entryMarkerRegex = regexp.MustCompile(`(?m)^\d+\.\s+`)
)

// OutputParser handles parsing test runner output
type OutputParser interface {
	// Parse never fails: sections that are missing or malformed yield zero values.
	Parse(output string, dialect types.Dialect) *types.TestRunResult
}

// outputParser implements OutputParser interface
type outputParser struct{}

// NewOutputParser creates a new output parser
func NewOutputParser() OutputParser {
	return &outputParser{}
}

// Parse is a convenience wrapper around the default OutputParser.
func Parse(output string, dialect types.Dialect) *types.TestRunResult {
	return NewOutputParser().Parse(output, dialect)
}

// Parse parses test output into a TestRunResult
func (p *outputParser) Parse(output string, dialect types.Dialect) *types.TestRunResult {
	output = strings.ReplaceAll(output, "\r\n", "\n")

	result := &types.TestRunResult{
		Summary: parseSummary(output),
	}

	strategy, ok := strategies[dialect]
	if !ok {
		// Unknown dialects still get their summary; there is no safe section boundary.
		result.Failures = types.NewFailureSet()
		return result
	}

	section, found := strategy.locate(output)
	if !found {
		result.Failures = types.NewFailureSet()
		return result
	}

	result.Failures = types.NewFailureSet(parseEntries(section, strategy.keepLine)...)
	return result
}

func parseSummary(output string) types.TestRunSummary {
	return types.TestRunSummary{
		Passed:      findInt(passedRegex, output),
		Failed:      findInt(failedRegex, output),
		Total:       findInt(totalRegex, output),
		SuccessRate: findFloat(successRateRegex, output),
	}
}

func findInt(re *regexp.Regexp, output string) int {
	m := re.FindStringSubmatch(output)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

func findFloat(re *regexp.Regexp, output string) float64 {
	m := re.FindStringSubmatch(output)
	if m == nil {
		return 0
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return f
}

// parseEntries splits a failures section on numbered markers. Whatever precedes the
// first marker is the heading and is discarded.
func parseEntries(section string, keepLine func(string) bool) []types.FailureRecord {
	markers := entryMarkerRegex.FindAllStringIndex(section, -1)
	records := make([]types.FailureRecord, 0, len(markers))

	for i, m := range markers {
		end := len(section)
		if i+1 < len(markers) {
			end = markers[i+1][0]
		}
		if rec, ok := parseEntry(section[m[1]:end], keepLine); ok {
			records = append(records, rec)
		}
	}
	return records
}

func parseEntry(entry string, keepLine func(string) bool) (types.FailureRecord, bool) {
	lines := strings.Split(strings.TrimSpace(entry), "\n")

	rec := types.FailureRecord{
		Name: strings.TrimSpace(lines[0]),
	}
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" || !keepLine(line) {
			continue
		}
		rec.Errors = append(rec.Errors, line)
	}

	if rec.Name == "" || len(rec.Errors) == 0 {
		return types.FailureRecord{}, false
	}
	return rec, true
}
