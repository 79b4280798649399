package parser

import (
	"regexp"
	"strings"

	"github.com/ethereum-optimism/infra/op-portdiff/types"
)

const portedFailuresHeading = "Failures:"

var (
	// referenceFailuresRegex captures everything after a "Failures" heading line.
	referenceFailuresRegex = regexp.MustCompile(`(?s)Failures:?\s*\n(.*)`)

	// buildNoisePrefixes are emitted by the reference build tooling and are not test diagnostics.
	buildNoisePrefixes = []string{"make:"}
)

// sectionStrategy describes where a dialect's failures section lives and which of its
// detail lines are diagnostics.
type sectionStrategy struct {
	locate   func(output string) (string, bool)
	keepLine func(line string) bool
}

var strategies = map[types.Dialect]sectionStrategy{
	types.DialectReference: {
		locate:   locateToEnd,
		keepLine: isNotBuildNoise,
	},
	types.DialectPorted: {
		locate:   locateToBlankLine,
		keepLine: keepAll,
	},
}

// locateToEnd returns the text from the line after the "Failures" heading to the end of
// the output.
func locateToEnd(output string) (string, bool) {
	m := referenceFailuresRegex.FindStringSubmatch(output)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// locateToBlankLine returns the text after the "Failures:" heading up to the first blank
// line or the end of the output.
func locateToBlankLine(output string) (string, bool) {
	idx := strings.Index(output, portedFailuresHeading)
	if idx < 0 {
		return "", false
	}
	section := output[idx+len(portedFailuresHeading):]
	if end := strings.Index(section, "\n\n"); end >= 0 {
		section = section[:end]
	}
	return section, true
}

func isNotBuildNoise(line string) bool {
	for _, prefix := range buildNoisePrefixes {
		if strings.HasPrefix(line, prefix) {
			return false
		}
	}
	return true
}

func keepAll(string) bool {
	return true
}
