// Package classifier computes the differential between the failure sets of a reference
// and a ported test run.
package classifier

import (
	"github.com/ethereum-optimism/infra/op-portdiff/types"
)

// Classify splits the failures of both runs into regressions, improvements and common
// failures. Test names are compared byte for byte. Nil results are treated as runs
// without failures.
func Classify(reference, ported *types.TestRunResult) types.Classification {
	refFailures := types.FailureSetOf(reference)
	portFailures := types.FailureSetOf(ported)

	c := types.Classification{
		Regressions:  make([]types.FailureRecord, 0),
		Improvements: make([]types.FailureRecord, 0),
		Common:       make([]string, 0),
	}

	for _, rec := range portFailures.Records() {
		if refFailures.Has(rec.Name) {
			c.Common = append(c.Common, rec.Name)
		} else {
			c.Regressions = append(c.Regressions, rec)
		}
	}

	for _, rec := range refFailures.Records() {
		if !portFailures.Has(rec.Name) {
			c.Improvements = append(c.Improvements, rec)
		}
	}

	return c
}
