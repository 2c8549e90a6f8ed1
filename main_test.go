package main

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/kennylevinsen/gcodetsp/optimize"
	"github.com/kennylevinsen/gcodetsp/problem"
	"github.com/kennylevinsen/gcodetsp/solver"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	invocation := &solver.InvocationError{Layer: 1, Err: errors.New("exit status 1")}
	assert.Equal(t, exitSolver, exitCode(invocation))
	assert.Equal(t, exitResult, exitCode(&problem.ResultParseError{Layer: 1, Reason: "x"}))
	assert.Equal(t, exitResource, exitCode(fmt.Errorf("wrapped: %w", &optimize.ResourceError{Layer: 2, Op: "write"})))

	canceled := &solver.InvocationError{Layer: 1, Err: context.Canceled}
	assert.Equal(t, exitStopped, exitCode(canceled))
	assert.Equal(t, exitStopped, exitCode(context.Canceled))
}
