package main

import "github.com/kennylevinsen/gcodetsp/config"
import "github.com/kennylevinsen/gcodetsp/export"
import "github.com/kennylevinsen/gcodetsp/optimize"
import "github.com/kennylevinsen/gcodetsp/problem"
import "github.com/kennylevinsen/gcodetsp/report"
import "github.com/kennylevinsen/gcodetsp/solver"
import "github.com/kennylevinsen/gcodetsp/streaming"
import "github.com/kennylevinsen/gcodetsp/vector"
import "github.com/kennylevinsen/gcodetsp/vm"
import "github.com/cheggaaa/pb"

import "context"
import "errors"
import "flag"
import "fmt"
import "io"
import "log/slog"
import "os"
import "time"

var (
	configFile = flag.String("config", "", "Settings file (YAML or JSON)")
	inputFile  = flag.String("input", "", "G-code file to optimize")
	outputFile = flag.String("output", "", "Location to dump optimized G-code")
	dumpStdout = flag.Bool("stdout", false, "Output to stdout")
	csvFile    = flag.String("csv", "", "Location to dump per-layer node counts")
	logFile    = flag.String("log", "", "Log file (default <input>.log, - to disable)")
	sequential = flag.Bool("sequential", false, "Solve one layer at a time")
	feedLimit  = flag.Float64("feedlimit", -1, "Maximum feedrate")
	device     = flag.String("device", "", "Serial device of the printer")
	baud       = flag.Int("baud", 115200, "Serial baud rate")
	quiet      = flag.Bool("quiet", false, "No progress or statistics")
)

const (
	exitUsage = 1 + iota
	exitIO
	exitParse
	exitSolver
	exitResult
	exitResource
	exitStopped
)

func openLog() (*slog.Logger, func()) {
	path := *logFile
	if path == "" {
		path = *inputFile + ".log"
	}
	if path == "-" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open log file: %s\n", err)
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}
	}
	return slog.New(slog.NewTextHandler(f, nil)), func() { f.Close() }
}

// Progress goes to stderr, so -stdout stays clean.
func newBar(total int) *pb.ProgressBar {
	pBar := pb.New(total)
	pBar.Output = os.Stderr
	pBar.Format("[=> ]")
	return pBar.Start()
}

func exitCode(err error) int {
	var (
		invocation *solver.InvocationError
		result     *problem.ResultParseError
		resource   *optimize.ResourceError
	)
	switch {
	case errors.Is(err, context.Canceled):
		return exitStopped
	case errors.As(err, &invocation):
		return exitSolver
	case errors.As(err, &result):
		return exitResult
	case errors.As(err, &resource):
		return exitResource
	}
	return exitSolver
}

func main() {
	os.Exit(run())
}

func run() int {
	// Parse arguments
	flag.Parse()
	if len(flag.Args()) > 0 {
		flag.Usage()
		return exitUsage
	}

	if *inputFile == "" {
		fmt.Fprintf(os.Stderr, "Error: No file provided\n")
		flag.Usage()
		return exitUsage
	}

	if *outputFile == "" && *device == "" && !*dumpStdout {
		fmt.Fprintf(os.Stderr, "Error: No output location provided\n")
		flag.Usage()
		return exitUsage
	}

	log, closeLog := openLog()
	defer closeLog()

	cfg := config.Default()
	if *configFile != "" {
		var err error
		if cfg, err = config.Load(*configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			return exitUsage
		}
	}
	if *sequential {
		cfg.Parallel = false
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Invalid settings: %s\n", err)
		return exitUsage
	}
	positionMode, _ := config.ParseMode(cfg.PositionMode)
	extruderMode, _ := config.ParseMode(cfg.ExtruderMode)

	ctx, stop := signalContext(context.Background())
	defer stop()

	startTime := time.Now()

	// Parse
	fhandle, err := os.Open(*inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Could not open file: %s\n", err)
		return exitIO
	}
	m := vm.Machine{TravelFeedrate: cfg.TravelFeedrate, Log: log}
	program, err := m.Process(fhandle)
	fhandle.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Could not parse file: %s\n", err)
		return exitParse
	}
	lo, hi := program.Info()
	log.Info("parsed program", "layers", len(program.Layers), "nodes", program.NodeCount(),
		"min", vector.String(lo), "max", vector.String(hi))
	if len(program.Warnings) > 0 && !*quiet {
		fmt.Fprintf(os.Stderr, "Warning: %d commands were dropped or ignored, see log\n", len(program.Warnings))
	}

	if *feedLimit > 0 {
		program.LimitFeedrate(*feedLimit)
	}

	// Solve
	opts := cfg.OptimizerOptions()
	opts.Source = *inputFile
	if opts.WorkDir == "" {
		dir, err := os.MkdirTemp("", "gcodetsp")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: Could not create work directory: %s\n", err)
			return exitIO
		}
		defer os.RemoveAll(dir)
		opts.WorkDir = dir
	}

	o := optimize.Optimizer{
		Solver:  &solver.Exec{Program: cfg.Program, Timeout: cfg.SolverTimeout},
		Options: opts,
		Log:     log,
	}

	var pBar *pb.ProgressBar
	if !*quiet {
		pBar = newBar(len(program.Layers))
		o.Progress = func(int) { pBar.Increment() }
	}

	w := export.NewWriter(positionMode, extruderMode)
	err = o.Run(ctx, program, w)
	if pBar != nil {
		pBar.Finish()
	}
	if err != nil {
		log.Error("optimization failed", "err", err)
		fmt.Fprintf(os.Stderr, "Error: Optimization failed: %s\n", err)
		return exitCode(err)
	}

	if cfg.RemoveBogusMoves {
		optimize.OptBogusMoves(w)
	}
	if cfg.ColinearTolerance > 0 {
		optimize.OptVector(w, cfg.ColinearTolerance)
	}

	// Handle output
	output := w.String(cfg.CoordinatePrecision)

	if *dumpStdout {
		fmt.Print(output)
	}

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, []byte(output), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error: Could not write to file: %s\n", err)
			return exitIO
		}
	}

	if *csvFile != "" {
		f, err := os.Create(*csvFile)
		if err == nil {
			err = report.WriteCSV(f, o.Stats(program))
			f.Close()
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: Could not write summary: %s\n", err)
			return exitIO
		}
	}

	if !*quiet {
		fmt.Fprintln(os.Stderr)
		report.Print(os.Stderr, program.Stats, w.Stats, time.Since(startTime))
	}

	if *device != "" {
		return stream(ctx, w.Lines(cfg.CoordinatePrecision), log)
	}
	return 0
}

func stream(ctx context.Context, lines []string, log *slog.Logger) int {
	startTime := time.Now()
	s, err := streaming.Connect(*device, *baud)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Unable to connect to device: %s\n", err)
		return exitIO
	}
	s.Log = log

	var pBar *pb.ProgressBar
	if !*quiet {
		pBar = newBar(len(lines))
	}

	progress := make(chan int)
	result := make(chan error, 1)
	go func() {
		result <- s.Send(lines, progress)
	}()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			select {
			case <-done:
				return
			default:
			}
			s.Stop()
		case <-done:
		}
	}()

	for range progress {
		if pBar != nil {
			pBar.Increment()
		}
	}
	if pBar != nil {
		pBar.Finish()
	}

	if err := <-result; err != nil {
		if ctx.Err() != nil {
			return exitStopped
		}
		fmt.Fprintf(os.Stderr, "\nSend failed: %s\n", err)
		s.Stop()
		return exitIO
	}
	s.Close()
	fmt.Fprintf(os.Stderr, "%s\n", time.Now().Sub(startTime).String())
	return 0
}
