package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/ethereum-optimism/infra/op-portdiff/runner"
)

const (
	RunDirectoryPrefix = "testrun-" // Standardized prefix for run directories
	rawOutputSuffix    = ".log"
	runSummaryFilename = "runners.log"
)

// RawOutputSink stores the captured output of each runner so a report can be traced
// back to the exact text it was parsed from.
type RawOutputSink struct {
	baseDir string
	runID   string

	mu      sync.Mutex
	written []string
}

// NewRawOutputSink creates a sink writing under baseDir/testrun-<runID>. An empty runID
// gets a fresh UUID.
func NewRawOutputSink(baseDir, runID string) (*RawOutputSink, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("base directory cannot be empty")
	}
	if runID == "" {
		runID = uuid.New().String()
	}
	return &RawOutputSink{
		baseDir: baseDir,
		runID:   runID,
	}, nil
}

// RunID returns the identifier of the run directory
func (s *RawOutputSink) RunID() string {
	return s.runID
}

// RunDir returns the directory this sink writes to
func (s *RawOutputSink) RunDir() string {
	return filepath.Join(s.baseDir, RunDirectoryPrefix+s.runID)
}

// Consume writes one runner's output to <role>.log
func (s *RawOutputSink) Consume(role string, capture *runner.Capture) error {
	if role == "" {
		return fmt.Errorf("role cannot be empty")
	}
	if capture == nil {
		return fmt.Errorf("capture for %s cannot be nil", role)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.RunDir(), 0755); err != nil {
		return fmt.Errorf("failed to create run directory %s: %w", s.RunDir(), err)
	}

	path := filepath.Join(s.RunDir(), role+rawOutputSuffix)
	if err := os.WriteFile(path, []byte(capture.Output), 0644); err != nil {
		return fmt.Errorf("failed to write raw output for %s: %w", role, err)
	}

	s.written = append(s.written, fmt.Sprintf("%s: name=%q exit_code=%d success=%t timed_out=%t duration=%s failure=%q",
		role, capture.Name, capture.ExitCode, capture.Success, capture.TimedOut, capture.Duration, capture.FailureReason))
	return nil
}

// Complete writes a one-line-per-runner overview of everything consumed
func (s *RawOutputSink) Complete() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.RunDir(), 0755); err != nil {
		return fmt.Errorf("failed to create run directory %s: %w", s.RunDir(), err)
	}

	var content []byte
	for _, line := range s.written {
		content = append(content, line...)
		content = append(content, '\n')
	}

	path := filepath.Join(s.RunDir(), runSummaryFilename)
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write runner summary: %w", err)
	}
	return nil
}
