package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethereum-optimism/infra/op-portdiff/runner"
)

func TestNewRawOutputSink(t *testing.T) {
	_, err := NewRawOutputSink("", "run")
	assert.Error(t, err)

	sink, err := NewRawOutputSink(t.TempDir(), "")
	require.NoError(t, err)
	_, err = uuid.Parse(sink.RunID())
	assert.NoError(t, err, "an empty run ID should be replaced by a UUID")

	sink, err = NewRawOutputSink("/base", "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", sink.RunID())
	assert.Equal(t, filepath.Join("/base", "testrun-abc"), sink.RunDir())
}

func TestRawOutputSink_ConsumeAndComplete(t *testing.T) {
	baseDir := t.TempDir()
	sink, err := NewRawOutputSink(baseDir, "run-1")
	require.NoError(t, err)

	require.NoError(t, sink.Consume(runner.RoleReference, &runner.Capture{
		Name:     "C++",
		Output:   "Passed: 10\n",
		Success:  true,
		Duration: time.Second,
	}))
	require.NoError(t, sink.Consume(runner.RolePorted, &runner.Capture{
		Name:          "Dart",
		Output:        "Error running Dart tests: boom",
		ExitCode:      -1,
		FailureReason: "Error running Dart tests: boom",
	}))
	require.NoError(t, sink.Complete())

	runDir := filepath.Join(baseDir, "testrun-run-1")

	content, err := os.ReadFile(filepath.Join(runDir, "reference.log"))
	require.NoError(t, err)
	assert.Equal(t, "Passed: 10\n", string(content))

	content, err = os.ReadFile(filepath.Join(runDir, "ported.log"))
	require.NoError(t, err)
	assert.Equal(t, "Error running Dart tests: boom", string(content))

	summary, err := os.ReadFile(filepath.Join(runDir, "runners.log"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(summary)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `reference: name="C++" exit_code=0 success=true`)
	assert.Contains(t, lines[1], `ported: name="Dart" exit_code=-1 success=false`)
	assert.Contains(t, lines[1], `failure="Error running Dart tests: boom"`)
}

func TestRawOutputSink_InvalidInput(t *testing.T) {
	sink, err := NewRawOutputSink(t.TempDir(), "run")
	require.NoError(t, err)

	assert.Error(t, sink.Consume("", &runner.Capture{}))
	assert.Error(t, sink.Consume(runner.RolePorted, nil))
}
