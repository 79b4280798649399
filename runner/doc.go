// Package runner builds and runs the reference and ported test suites as external
// processes and captures their combined output.
//
// The main components are:
//   - Executor: runs the optional build step and the test command of one RunnerSpec,
//     applying per-step timeouts and substituting a failure reason for the output when
//     the process cannot produce one
//   - ExecuteAll: runs several specs concurrently and returns their captures in order
//
// Nothing in this package interprets the captured text; that is the parser's job.
package runner
