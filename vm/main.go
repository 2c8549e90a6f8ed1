package vm

import "github.com/kennylevinsen/gcodetsp/gcode"
import "github.com/kennylevinsen/gcodetsp/vector"

import "io"
import "log/slog"

//
// Modes
//

type CoordinatesMode int

const (
	NotSet CoordinatesMode = iota
	Absolute
	Relative
)

func (m CoordinatesMode) String() string {
	switch m {
	case Absolute:
		return "absolute"
	case Relative:
		return "relative"
	}
	return "not set"
}

type UnitsMode int

const (
	UnitsNotSet UnitsMode = iota
	Millimeters
	Inches
)

func (u UnitsMode) String() string {
	switch u {
	case Millimeters:
		return "mm"
	case Inches:
		return "in"
	}
	return "units"
}

//
// Program model
//

type Stats struct {
	ExtrusionDistance float64
	TravelDistance    float64
	ExtrudeMoves      int
	TravelMoves       int
	Units             UnitsMode
}

func (s *Stats) IncrementExtrusion(d float64) {
	s.ExtrusionDistance += d
	s.ExtrudeMoves++
}

func (s *Stats) IncrementTravel(d float64) {
	s.TravelDistance += d
	s.TravelMoves++
}

// A layer is the unit of optimization: a travel graph whose extruding
// segments must be kept.
//
// Nodes is indexed from 0, but nodes are addressed from 1 everywhere else;
// node 1 is the entry point. Extrusions and Feedrates are keyed by the slice
// index of a segment's destination, which is the 1-based index of its
// source: key k describes the segment from node k to node k+1. Feedrates[0]
// holds the layer's default travel feedrate.
type Layer struct {
	Z           float64
	Nodes       []vector.Point
	Extrusions  map[int]float64
	Feedrates   map[int]float64
	EndCommands []string
}

func NewLayer(z float64, entry vector.Point) *Layer {
	return &Layer{
		Z:          z,
		Nodes:      []vector.Point{entry},
		Extrusions: make(map[int]float64),
		Feedrates:  make(map[int]float64),
	}
}

type Program struct {
	PositionMode CoordinatesMode
	ExtruderMode CoordinatesMode
	Units        UnitsMode

	Preamble  []string
	Postamble []string
	Layers    []*Layer

	Stats    Stats
	Warnings []Warning
}

//
// Parser state
//

type Machine struct {
	// Where the head is assumed to be before the first command.
	StartPosition vector.Point

	// Travel feedrate used for the first layer until one is seen.
	TravelFeedrate float64

	Log *slog.Logger

	program *Program
	layer   *Layer

	currentZ       float64
	cursor         vector.Point
	lastExtrusion  float64
	feedrate       float64
	travelFeedrate float64
	pending        bool
}

func (vm *Machine) init() {
	if vm.Log == nil {
		vm.Log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	vm.program = &Program{}
	vm.cursor = vm.StartPosition
	vm.currentZ = 0
	vm.lastExtrusion = 0
	vm.feedrate = 0
	vm.travelFeedrate = vm.TravelFeedrate
	vm.pending = false

	vm.layer = NewLayer(vm.StartPosition.Z(), vm.StartPosition)
	if vm.travelFeedrate > 0 {
		vm.layer.Feedrates[0] = vm.travelFeedrate
	}
	vm.program.Layers = append(vm.program.Layers, vm.layer)
}

//
// Dispatch
//

func (vm *Machine) run(line gcode.Line) error {
	switch line.Category {
	case gcode.Blank, gcode.Ignore:
		return nil
	case gcode.Move:
		return vm.move(line)
	case gcode.Home:
		return vm.home(line)
	case gcode.SetPosition:
		return vm.setPosition(line)
	case gcode.SetUnits:
		vm.setUnits(line)
	case gcode.SetPositionMode:
		vm.setPositionMode(line)
	case gcode.SetExtruderMode:
		vm.setExtruderMode(line)
	case gcode.Passthrough:
		vm.passthrough(line)
	case gcode.Unknown:
		vm.warn(&UnknownCommandWarning{LineNumber: line.Number, Command: line.Command})
	}
	return nil
}

// Builds the program model from a G-code program. The machine can be reused.
func (vm *Machine) Process(r io.Reader) (*Program, error) {
	vm.init()

	s := gcode.NewScanner(r)
	for s.Scan() {
		if err := vm.run(s.Line()); err != nil {
			return nil, err
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}

	vm.finish()
	return vm.program, nil
}

// Commands seen during the final layer belong to the end of the program.
func (vm *Machine) finish() {
	layers := vm.program.Layers
	if len(layers) > 1 {
		last := layers[len(layers)-1]
		vm.program.Postamble = last.EndCommands
		last.EndCommands = nil
	}
}
