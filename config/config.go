// Package config loads the optimizer settings file.
package config

import "github.com/kennylevinsen/gcodetsp/optimize"
import "github.com/kennylevinsen/gcodetsp/problem"
import "github.com/kennylevinsen/gcodetsp/vm"

import "github.com/pkg/errors"
import "gopkg.in/yaml.v2"

import "fmt"
import "os"
import "strings"
import "time"

type Config struct {
	// Path to the LKH executable.
	Program string `yaml:"program"`

	MinimumNodes        int     `yaml:"minimum_nodes"`
	Precision           int     `yaml:"precision"`
	Runs                int     `yaml:"num_runs"`
	MaxMergeLength      float64 `yaml:"max_merge_length"`
	CandidateSetType    string  `yaml:"candidate_set_type"`
	PopmusicInitialTour bool    `yaml:"popmusic_initial_tour"`

	Parallel      bool          `yaml:"parallel"`
	MaxWorkers    int           `yaml:"max_workers"`
	SolverTimeout time.Duration `yaml:"solver_timeout"`
	WorkDir       string        `yaml:"work_dir"`

	TravelFeedrate      float64 `yaml:"travel_feedrate"`
	PositionMode        string  `yaml:"position_mode"`
	ExtruderMode        string  `yaml:"extruder_mode"`
	CoordinatePrecision int     `yaml:"coordinate_precision"`
	RemoveBogusMoves    bool    `yaml:"remove_bogus_moves"`

	// Travel moves deviating less than this from a straight line are
	// joined. 0 disables joining.
	ColinearTolerance float64 `yaml:"colinear_tolerance"`
}

func Default() Config {
	return Config{
		MinimumNodes:        optimize.DefaultMinimumNodes,
		Precision:           1000,
		Runs:                1,
		CandidateSetType:    "POPMUSIC",
		Parallel:            true,
		TravelFeedrate:      9000,
		PositionMode:        "absolute",
		ExtruderMode:        "relative",
		CoordinatePrecision: 3,
		RemoveBogusMoves:    true,
		ColinearTolerance:   0.0001,
	}
}

// Reads a settings file on top of the defaults. JSON files load as well.
func Load(path string) (Config, error) {
	c := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return c, errors.Wrap(err, "could not read settings")
	}
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return c, errors.Wrapf(err, "could not parse settings %s", path)
	}
	return c, nil
}

func (c Config) Validate() error {
	if c.Program == "" {
		return errors.New("no solver program configured")
	}
	if _, err := os.Stat(c.Program); err != nil {
		return errors.Wrap(err, "solver program not found")
	}
	if c.MinimumNodes < 1 {
		return errors.New(fmt.Sprintf("minimum_nodes must be at least 1, got %d", c.MinimumNodes))
	}
	if c.Runs < 1 {
		return errors.New(fmt.Sprintf("num_runs must be at least 1, got %d", c.Runs))
	}
	if c.MaxMergeLength < 0 {
		return errors.New("max_merge_length cannot be negative")
	}
	if c.MaxWorkers < 0 {
		return errors.New("max_workers cannot be negative")
	}
	if c.SolverTimeout < 0 {
		return errors.New("solver_timeout cannot be negative")
	}
	if c.ColinearTolerance < 0 {
		return errors.New("colinear_tolerance cannot be negative")
	}
	if c.CoordinatePrecision < 0 {
		return errors.New("coordinate_precision cannot be negative")
	}
	if _, err := ParseMode(c.PositionMode); err != nil {
		return errors.Wrap(err, "position_mode")
	}
	if _, err := ParseMode(c.ExtruderMode); err != nil {
		return errors.Wrap(err, "extruder_mode")
	}
	return nil
}

// Accepts "absolute" or "relative", in any case.
func ParseMode(s string) (vm.CoordinatesMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "absolute", "abs":
		return vm.Absolute, nil
	case "relative", "rel":
		return vm.Relative, nil
	}
	return vm.NotSet, errors.New(fmt.Sprintf("unknown mode %q", s))
}

func (c Config) ProblemOptions() problem.Options {
	return problem.Options{
		MergeLength:         c.MaxMergeLength,
		Precision:           c.Precision,
		Runs:                c.Runs,
		CandidateSet:        c.CandidateSetType,
		PopmusicInitialTour: c.PopmusicInitialTour,
	}
}

func (c Config) OptimizerOptions() optimize.Options {
	return optimize.Options{
		Problem:      c.ProblemOptions(),
		MinimumNodes: c.MinimumNodes,
		Parallel:     c.Parallel,
		MaxWorkers:   c.MaxWorkers,
		WorkDir:      c.WorkDir,
	}
}
