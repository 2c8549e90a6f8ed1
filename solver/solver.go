// Package solver runs the external TSP solver.
package solver

import "github.com/pkg/errors"

import "bytes"
import "context"
import "fmt"
import "os/exec"
import "time"

// A Job names the files of one layer's solver run. The solver reads
// ParameterFile, which points it at ProblemFile, and writes TourFile.
type Job struct {
	Layer         int
	ParameterFile string
	ProblemFile   string
	TourFile      string
}

type Solver interface {
	Solve(ctx context.Context, job Job) error
}

// InvocationError is returned when the solver could not be started, exited
// abnormally or ran out of time. The layer has no usable tour.
type InvocationError struct {
	Layer  int
	Err    error
	Output string
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("layer %d: solver failed: %s", e.Layer, e.Err)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

// Exec runs a solver program such as LKH with the parameter file as its
// only argument.
type Exec struct {
	Program string

	// 0 means no limit.
	Timeout time.Duration
}

func (s *Exec) Solve(ctx context.Context, job Job) error {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	var output bytes.Buffer
	cmd := exec.CommandContext(ctx, s.Program, job.ParameterFile)
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = errors.Wrap(ctxErr, err.Error())
		}
		return &InvocationError{Layer: job.Layer, Err: err, Output: output.String()}
	}
	return nil
}
