package portdiff

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuntimeError(t *testing.T) {
	base := errors.New("config file not found")
	err := NewRuntimeError(base)

	assert.Equal(t, "runtime error: config file not found", err.Error())
	assert.ErrorIs(t, err, base)
	assert.True(t, IsRuntimeError(err))
	assert.True(t, IsRuntimeError(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsRuntimeError(base))
	assert.False(t, IsRuntimeError(nil))
	assert.False(t, IsRegressionError(err))
}

func TestRegressionError(t *testing.T) {
	err := NewRegressionError([]string{"test_a", "test_b"})

	assert.Equal(t, "2 regression(s): test_a, test_b", err.Error())
	assert.True(t, IsRegressionError(err))
	assert.True(t, IsRegressionError(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsRegressionError(errors.New("other")))
	assert.False(t, IsRegressionError(nil))
	assert.False(t, IsRuntimeError(err))
}
