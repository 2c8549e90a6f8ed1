package gcode

import "strings"

// The command categories the optimizer knows how to handle.
type Category int

const (
	Blank Category = iota
	Move
	SetUnits
	Home
	SetPositionMode
	SetExtruderMode
	SetPosition
	Passthrough
	Ignore
	Unknown
)

func (c Category) String() string {
	switch c {
	case Blank:
		return "blank"
	case Move:
		return "move"
	case SetUnits:
		return "set-units"
	case Home:
		return "home"
	case SetPositionMode:
		return "set-position-mode"
	case SetExtruderMode:
		return "set-extruder-mode"
	case SetPosition:
		return "set-position"
	case Passthrough:
		return "passthrough"
	case Ignore:
		return "ignore"
	case Unknown:
		return "unknown"
	}
	return "invalid"
}

var (
	categories = map[string]Category{
		"G0":  Move,
		"G1":  Move,
		"G00": Move,
		"G01": Move,

		"G20": SetUnits,
		"G21": SetUnits,

		"G28": Home,

		"G90": SetPositionMode,
		"G91": SetPositionMode,

		"M82": SetExtruderMode,
		"M83": SetExtruderMode,

		"G92": SetPosition,

		// Dwell, bed probing
		"G4":  Passthrough,
		"G29": Passthrough,
		"G80": Passthrough,

		// Motors
		"M17": Passthrough,
		"M84": Passthrough,

		// Temperatures
		"M104": Passthrough,
		"M109": Passthrough,
		"M140": Passthrough,
		"M190": Passthrough,

		// Fan
		"M106": Passthrough,
		"M107": Passthrough,

		// Limits and acceleration
		"M201": Passthrough,
		"M203": Passthrough,
		"M204": Passthrough,
		"M205": Passthrough,

		// Firmware and printer specific settings
		"M115":   Passthrough,
		"M117":   Passthrough,
		"M142":   Passthrough,
		"M221":   Passthrough,
		"M302":   Passthrough,
		"M555":   Passthrough,
		"M569":   Passthrough,
		"M572":   Passthrough,
		"M593":   Passthrough,
		"M862.1": Passthrough,
		"M862.3": Passthrough,
		"M862.5": Passthrough,
		"M862.6": Passthrough,
		"M900":   Passthrough,

		// Build percentage and weight telemetry go stale once layers are reordered
		"M73": Ignore,
		"M74": Ignore,
	}
)

// Classifies a command word.
func Classify(command string) Category {
	if command == "" {
		return Blank
	}
	command = normalize(command)
	if c, ok := categories[command]; ok {
		return c
	}
	if isToolSelect(command) {
		return Passthrough
	}
	return Unknown
}

// Tn selects tool n.
func isToolSelect(command string) bool {
	if len(command) < 2 || command[0] != 'T' {
		return false
	}
	return strings.Trim(command[1:], "0123456789") == ""
}
