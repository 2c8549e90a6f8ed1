package export

import "github.com/kennylevinsen/gcodetsp/vector"
import "github.com/kennylevinsen/gcodetsp/vm"

import "strconv"
import "strings"

func floatToString(f float64, p int) string {
	x := strconv.FormatFloat(f, 'f', p, 64)

	// Hacky way to remove silly zeroes
	if strings.IndexRune(x, '.') != -1 {
		for x[len(x)-1] == '0' {
			x = x[:len(x)-1]
		}
		if x[len(x)-1] == '.' {
			x = x[:len(x)-1]
		}
	}

	if x == "-0" {
		return "0"
	}
	return x
}

// A single emitted move. Coords are what ends up in the program, relative
// to the previous position if the output uses relative positioning.
type Move struct {
	Extrude  bool
	Coords   vector.Point
	E        float64
	Feedrate float64

	// Absolute destination and distance covered.
	Position vector.Point
	Length   float64
}

// A block is either a move or a verbatim command.
type Block struct {
	Move *Move
	Raw  string
}

// Writer accumulates the optimized program.
type Writer struct {
	PositionMode vm.CoordinatesMode
	ExtruderMode vm.CoordinatesMode

	Blocks []Block
	Stats  vm.Stats

	position  vector.Point
	extrusion float64
}

func NewWriter(positionMode, extruderMode vm.CoordinatesMode) *Writer {
	return &Writer{
		PositionMode: positionMode,
		ExtruderMode: extruderMode,
	}
}

func (w *Writer) put(b Block) {
	w.Blocks = append(w.Blocks, b)
}

// Adds a verbatim command.
func (w *Writer) Command(text string) {
	w.put(Block{Raw: text})
}

func (w *Writer) Commands(lines []string) {
	for _, l := range lines {
		w.Command(l)
	}
}

// Puts in the header block: homing, modes and the program's preamble.
func (w *Writer) Header(p *vm.Program, source string) {
	w.Command(";Generated with gcodetsp")
	if source != "" {
		w.Command(";Original file: " + source)
	}
	w.Command("G28")

	w.Stats.Units = p.Units
	switch p.Units {
	case vm.Millimeters:
		w.Command("G21")
	case vm.Inches:
		w.Command("G20")
	}

	switch w.PositionMode {
	case vm.Absolute:
		w.Command("G90")
	case vm.Relative:
		w.Command("G91")
	}

	switch w.ExtruderMode {
	case vm.Absolute:
		w.Command("M82")
	case vm.Relative:
		w.Command("M83")
	}

	w.Commands(p.Preamble)
	w.Command("G92 E0")
	w.extrusion = 0
}

func (w *Writer) Footer(p *vm.Program) {
	w.Commands(p.Postamble)
}

// Fetch the generated gcode lines.
func (w *Writer) Lines(precision int) []string {
	lines := make([]string, 0, len(w.Blocks))
	for _, b := range w.Blocks {
		if b.Move == nil {
			lines = append(lines, b.Raw)
			continue
		}
		lines = append(lines, b.Move.Export(precision))
	}
	return lines
}

func (w *Writer) String(precision int) string {
	var b strings.Builder
	for _, l := range w.Lines(precision) {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.String()
}

// Renders the move. Coordinates use the given precision, extrusion 5 decimals
// and feedrate 3.
func (m *Move) Export(precision int) string {
	var b strings.Builder
	if m.Extrude {
		b.WriteString("G1")
	} else {
		b.WriteString("G0")
	}
	b.WriteString(" X" + floatToString(m.Coords[0], precision))
	b.WriteString(" Y" + floatToString(m.Coords[1], precision))
	b.WriteString(" Z" + floatToString(m.Coords[2], precision))
	if m.Extrude {
		b.WriteString(" E" + floatToString(m.E, 5))
	}
	if m.Feedrate > 0 {
		b.WriteString(" F" + floatToString(m.Feedrate, 3))
	}
	return b.String()
}
