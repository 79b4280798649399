// Package exitcodes defines the standard exit codes used by op-portdiff.
package exitcodes

// Exit code constants used by op-portdiff
// These constants define the exit codes that the application uses to indicate
// various states when it exits:
//
// * Success (0): Used when the comparison completed, including when regressions were
// found but fail-on-regression is off
// * Regression (1): Used when regressions were found and fail-on-regression is set
// * RuntimeErr (2): Used for runtime errors such as bad configuration or unwritable reports
const (
	Success    = 0 // Comparison completed
	Regression = 1 // Ported implementation regressed
	RuntimeErr = 2 // Runtime errors
)
