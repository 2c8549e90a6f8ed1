package vm

import "github.com/kennylevinsen/gcodetsp/gcode"
import "github.com/kennylevinsen/gcodetsp/vector"

// Handles G0/G1.
//
// Consecutive travel moves collapse into a single pending node, since the
// path between them is re-planned anyway. A move that extrudes at a new Z
// starts a new layer, entered from the current position.
func (vm *Machine) move(line gcode.Line) error {
	relative := vm.program.PositionMode == Relative

	base := vm.cursor
	if relative {
		base = vector.Point{}
	}
	target, err := vector.ExtractCoordinates(line.Args, base)
	if err != nil {
		return vm.parseError(line, err)
	}

	e, hasE, err := line.GetWord('E')
	if err != nil {
		return vm.parseError(line, err)
	}
	f, hasF, err := line.GetWord('F')
	if err != nil {
		return vm.parseError(line, err)
	}

	var extrusion float64
	if hasE {
		extrusion = e
		if vm.program.ExtruderMode != Relative {
			extrusion -= vm.lastExtrusion
		}
	}
	extrudes := extrusion > 0

	var dest vector.Point
	var distance float64
	if relative {
		dest = vm.cursor.Add(target)
		distance = vector.DistanceToOrigin(target)
	} else {
		dest = target
		distance = vector.Distance(vm.cursor, dest)
	}

	if extrudes {
		vm.program.Stats.IncrementExtrusion(distance)
	} else {
		vm.program.Stats.IncrementTravel(distance)
	}

	if hasF {
		vm.feedrate = f
		if !extrudes {
			vm.travelFeedrate = f
		}
	}

	if extrudes && dest.Z() != vm.currentZ {
		vm.newLayer(dest.Z())
	}

	layer := vm.layer
	if !extrudes && vm.pending {
		layer.Nodes[len(layer.Nodes)-1] = dest
	} else {
		layer.Nodes = append(layer.Nodes, dest)
	}

	k := len(layer.Nodes) - 1
	if extrudes {
		layer.Extrusions[k] = extrusion
	}
	if vm.feedrate > 0 {
		layer.Feedrates[k] = vm.feedrate
	}
	vm.pending = !extrudes

	vm.cursor = dest
	if hasE {
		vm.lastExtrusion = e
	}
	return nil
}

func (vm *Machine) newLayer(z float64) {
	vm.currentZ = z
	vm.layer = NewLayer(z, vm.cursor)
	if vm.travelFeedrate > 0 {
		vm.layer.Feedrates[0] = vm.travelFeedrate
	}
	vm.program.Layers = append(vm.program.Layers, vm.layer)
	vm.pending = false
}

// Handles G28. Homing is a travel to the given coordinates, origin by
// default. Bare axis letters home that axis.
func (vm *Machine) home(line gcode.Line) error {
	args := make([]string, 0, len(line.Args))
	for _, arg := range line.Args {
		if len(arg) > 1 {
			args = append(args, arg)
		}
	}

	target, err := vector.ExtractCoordinates(args, vector.Point{})
	if err != nil {
		return vm.parseError(line, err)
	}

	vm.program.Stats.IncrementTravel(vector.Distance(vm.cursor, target))
	vm.cursor = target
	vm.layer.Nodes = append(vm.layer.Nodes, target)
	vm.pending = false
	return nil
}

// Handles G92. The position is overwritten without moving. An E word resets
// the extrusion total, which absolute extrusion programs do between layers.
func (vm *Machine) setPosition(line gcode.Line) error {
	pos, err := vector.ExtractCoordinates(line.Args, vm.cursor)
	if err != nil {
		return vm.parseError(line, err)
	}
	e, hasE, err := line.GetWord('E')
	if err != nil {
		return vm.parseError(line, err)
	}

	vm.cursor = pos
	if hasE {
		vm.lastExtrusion = e
	}
	return nil
}

func (vm *Machine) passthrough(line gcode.Line) {
	if len(vm.program.Layers) == 1 {
		vm.program.Preamble = append(vm.program.Preamble, line.Text)
	} else {
		vm.layer.EndCommands = append(vm.layer.EndCommands, line.Text)
	}
}

//
// Modes
//

func (vm *Machine) setUnits(line gcode.Line) {
	if vm.program.Units != UnitsNotSet {
		vm.warn(&ModeConflictWarning{LineNumber: line.Number, Command: line.Command, Mode: "units"})
	}
	if line.Command == "G20" {
		vm.program.Units = Inches
	} else {
		vm.program.Units = Millimeters
	}
	vm.program.Stats.Units = vm.program.Units
}

func (vm *Machine) setPositionMode(line gcode.Line) {
	if vm.program.PositionMode != NotSet {
		vm.warn(&ModeConflictWarning{LineNumber: line.Number, Command: line.Command, Mode: "position"})
	}
	if line.Command == "G91" {
		vm.program.PositionMode = Relative
	} else {
		vm.program.PositionMode = Absolute
	}
}

func (vm *Machine) setExtruderMode(line gcode.Line) {
	if vm.program.ExtruderMode != NotSet {
		vm.warn(&ModeConflictWarning{LineNumber: line.Number, Command: line.Command, Mode: "extruder"})
	}
	if line.Command == "M83" {
		vm.program.ExtruderMode = Relative
	} else {
		vm.program.ExtruderMode = Absolute
	}
}
