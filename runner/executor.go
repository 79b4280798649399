package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/acarl005/stripansi"
	"github.com/ethereum/go-ethereum/log"
)

var _ Executor = (*executor)(nil)

// Executor builds and runs one implementation's test suite and captures its output.
type Executor interface {
	// Execute returns an error for an unusable spec or when ctx is done before the run
	// finishes. Build failures, timeouts and commands that cannot be started are reported
	// through Capture.FailureReason, with the reason substituted for the output.
	Execute(ctx context.Context, spec RunnerSpec) (*Capture, error)
}

// RunnerSpec describes how to build and run one implementation's test suite
type RunnerSpec struct {
	Name         string        // Display name, e.g. "C++ (Original)"
	Dir          string        // Working directory for build and run
	Build        []string      // Optional build command run before the tests
	Command      []string      // Test command
	BuildTimeout time.Duration // 0 means no limit
	Timeout      time.Duration // Run timeout, 0 means no limit
	StripANSI    bool          // Remove terminal escape sequences from the captured output
}

// Validate checks that the spec can be executed
func (s RunnerSpec) Validate() error {
	if s.Name == "" {
		return errors.New("runner name cannot be empty")
	}
	if len(s.Command) == 0 || s.Command[0] == "" {
		return fmt.Errorf("runner %s: command cannot be empty", s.Name)
	}
	if len(s.Build) > 0 && s.Build[0] == "" {
		return fmt.Errorf("runner %s: build command cannot be empty", s.Name)
	}
	if s.Timeout < 0 || s.BuildTimeout < 0 {
		return fmt.Errorf("runner %s: timeouts cannot be negative", s.Name)
	}
	return nil
}

// Capture is the outcome of one runner invocation
type Capture struct {
	Name          string
	Output        string // stdout followed by stderr, or FailureReason when the run failed
	ExitCode      int    // -1 when the test command did not run to completion
	Success       bool   // Test command exited with code 0
	Duration      time.Duration
	TimedOut      bool
	FailureReason string
}

// Failed reports whether the run was replaced by a failure reason.
func (c *Capture) Failed() bool {
	return c.FailureReason != ""
}

type executor struct {
	log        log.Logger
	cmdBuilder func(ctx context.Context, name string, arg ...string) *exec.Cmd
}

// NewExecutor creates a new executor
func NewExecutor(logger log.Logger) Executor {
	if logger == nil {
		logger = log.Root()
	}
	return &executor{
		log:        logger,
		cmdBuilder: exec.CommandContext,
	}
}

// Execute runs the build step, when configured, and then the test command
func (e *executor) Execute(ctx context.Context, spec RunnerSpec) (*Capture, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	if ctx.Err() != nil {
		return nil, interrupted(ctx, spec)
	}

	start := time.Now()
	capture := &Capture{Name: spec.Name, ExitCode: -1}

	if len(spec.Build) > 0 {
		e.log.Info("Building tests", "runner", spec.Name, "command", strings.Join(spec.Build, " "), "dir", spec.Dir)
		if err := e.build(ctx, spec); err != nil {
			if ctx.Err() != nil {
				return nil, interrupted(ctx, spec)
			}
			return e.fail(capture, start, fmt.Sprintf("Error building %s tests: %s", spec.Name, err)), nil
		}
	}

	e.log.Info("Running tests", "runner", spec.Name, "command", strings.Join(spec.Command, " "), "dir", spec.Dir)

	runCtx, cancel := withOptionalTimeout(ctx, spec.Timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := e.command(runCtx, spec.Dir, spec.Command)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	if ctx.Err() != nil {
		return nil, interrupted(ctx, spec)
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		capture.TimedOut = true
		return e.fail(capture, start, fmt.Sprintf("Error running %s tests: command '%s' timed out after %s",
			spec.Name, strings.Join(spec.Command, " "), spec.Timeout)), nil
	}
	if runErr != nil {
		exitErr := &exec.ExitError{}
		if !errors.As(runErr, &exitErr) {
			return e.fail(capture, start, fmt.Sprintf("Error running %s tests: %s", spec.Name, runErr)), nil
		}
		// A non-zero exit is how test runners report failing tests; the output still counts.
		capture.ExitCode = exitErr.ExitCode()
	} else {
		capture.ExitCode = 0
	}

	output := stdout.String() + stderr.String()
	if spec.StripANSI {
		output = stripansi.Strip(output)
	}

	capture.Output = output
	capture.Success = capture.ExitCode == 0
	capture.Duration = time.Since(start)

	e.log.Info("Tests finished", "runner", spec.Name, "exitCode", capture.ExitCode,
		"duration", capture.Duration, "bytes", len(output))
	return capture, nil
}

func (e *executor) build(ctx context.Context, spec RunnerSpec) error {
	buildCtx, cancel := withOptionalTimeout(ctx, spec.BuildTimeout)
	defer cancel()

	var stderr bytes.Buffer
	cmd := e.command(buildCtx, spec.Dir, spec.Build)
	cmd.Stderr = &stderr

	err := cmd.Run()
	if errors.Is(buildCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("build timed out after %s", spec.BuildTimeout)
	}
	if err == nil {
		return nil
	}

	exitErr := &exec.ExitError{}
	if errors.As(err, &exitErr) && stderr.Len() > 0 {
		return errors.New(strings.TrimSpace(stderr.String()))
	}
	return err
}

func (e *executor) command(ctx context.Context, dir string, argv []string) *exec.Cmd {
	cmd := e.cmdBuilder(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	// Bound the wait for output pipes held open by orphaned grandchildren after a kill.
	cmd.WaitDelay = DefaultWaitDelay
	return cmd
}

func (e *executor) fail(capture *Capture, start time.Time, reason string) *Capture {
	capture.FailureReason = reason
	capture.Output = reason
	capture.Success = false
	capture.Duration = time.Since(start)
	e.log.Error("Test runner failed", "runner", capture.Name, "reason", reason, "timedOut", capture.TimedOut)
	return capture
}

// interrupted reports a run abandoned because the caller's context ended. It is not a
// runner failure, so no capture is produced.
func interrupted(ctx context.Context, spec RunnerSpec) error {
	return fmt.Errorf("%s tests interrupted: %w", spec.Name, context.Cause(ctx))
}

func withOptionalTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}
