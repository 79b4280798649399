package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	portdiff "github.com/ethereum-optimism/infra/op-portdiff"
	"github.com/ethereum-optimism/infra/op-portdiff/exitcodes"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "success", err: nil, want: exitcodes.Success},
		{name: "regression", err: portdiff.NewRegressionError([]string{"a"}), want: exitcodes.Regression},
		{name: "joined regression", err: errors.Join(fmt.Errorf("failed to start: %w", portdiff.NewRegressionError(nil)), nil), want: exitcodes.Regression},
		{name: "runtime error", err: portdiff.NewRuntimeError(errors.New("bad config")), want: exitcodes.RuntimeErr},
		{name: "untyped error", err: errors.New("unexpected"), want: exitcodes.RuntimeErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}
