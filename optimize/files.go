package optimize

import "github.com/kennylevinsen/gcodetsp/solver"

import "fmt"
import "os"
import "path/filepath"
import "strconv"

// ResourceError is a failure to write, read or remove a layer's files.
type ResourceError struct {
	Layer int
	Op    string
	Path  string
	Err   error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("layer %d: %s %s: %s", e.Layer, e.Op, e.Path, e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}

type layerFiles struct {
	Parameters string
	Problem    string
	Tour       string
}

func (o *Optimizer) files(index int) layerFiles {
	n := strconv.Itoa(index)
	return layerFiles{
		Parameters: filepath.Join(o.Options.WorkDir, n+".par"),
		Problem:    filepath.Join(o.Options.WorkDir, n+".tsp"),
		Tour:       filepath.Join(o.Options.WorkDir, "result_"+n+".tour"),
	}
}

func (f layerFiles) job(index int) solver.Job {
	return solver.Job{
		Layer:         index,
		ParameterFile: f.Parameters,
		ProblemFile:   f.Problem,
		TourFile:      f.Tour,
	}
}

func (f layerFiles) remove(index int) error {
	for _, path := range []string{f.Parameters, f.Problem, f.Tour} {
		if err := os.Remove(path); err != nil {
			return &ResourceError{Layer: index, Op: "remove", Path: path, Err: err}
		}
	}
	return nil
}

func writeFile(index int, path, contents string) error {
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		return &ResourceError{Layer: index, Op: "write", Path: path, Err: err}
	}
	return nil
}

func openFile(index int, path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ResourceError{Layer: index, Op: "read", Path: path, Err: err}
	}
	return f, nil
}
