package optimize

import (
	"testing"

	"github.com/kennylevinsen/gcodetsp/export"
	"github.com/kennylevinsen/gcodetsp/vector"
	"github.com/kennylevinsen/gcodetsp/vm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func travelLayer(points ...vector.Point) *vm.Layer {
	l := vm.NewLayer(0, points[0])
	l.Nodes = append(l.Nodes, points[1:]...)
	return l
}

func put(w *export.Writer, m *export.Move) {
	w.Blocks = append(w.Blocks, export.Block{Move: m})
}

func TestOptBogusMoves(t *testing.T) {
	w := export.NewWriter(vm.Absolute, vm.Relative)
	w.Command("G28")
	put(w, &export.Move{Position: vector.Point{}, Feedrate: 9000})
	w.Command("M106 S255")
	put(w, &export.Move{Position: vector.Point{5, 0, 0}, Coords: vector.Point{5, 0, 0}, Length: 5})
	put(w, &export.Move{Extrude: true, Position: vector.Point{5, 0, 0}, Coords: vector.Point{5, 0, 0}, E: 0.1})
	w.Stats.TravelMoves = 2

	OptBogusMoves(w)

	assert.Equal(t, []string{
		"G28",
		"M106 S255",
		"G0 X5 Y0 Z0 F9000",
		"G1 X5 Y0 Z0 E0.1",
	}, w.Lines(3))
	assert.Equal(t, 1, w.Stats.TravelMoves)
}

func TestOptVectorColinear(t *testing.T) {
	l := travelLayer(vector.Point{0, 0, 0}, vector.Point{5, 0, 0}, vector.Point{10, 0, 0}, vector.Point{10, 5, 0})
	l.Extrusions[3] = 0.5
	l.Feedrates[0] = 9000

	w := export.NewWriter(vm.Absolute, vm.Relative)
	w.Path(l)
	require.Equal(t, 3, w.Stats.TravelMoves)

	OptVector(w, 1e-6)

	assert.Equal(t, []string{
		"G0 X10 Y0 Z0 F9000",
		"G1 X10 Y5 Z0 E0.5",
	}, w.Lines(3))
	assert.Equal(t, 1, w.Stats.TravelMoves)
	assert.InDelta(t, 10.0, w.Stats.TravelDistance, 1e-9)
}

func TestOptVectorNearlyColinear(t *testing.T) {
	l := travelLayer(vector.Point{0, 0, 0}, vector.Point{5, 0.001, 0}, vector.Point{10, 0, 0})

	w := export.NewWriter(vm.Absolute, vm.Relative)
	w.Path(l)
	require.Greater(t, w.Stats.TravelDistance, 10.0)

	OptVector(w, 0.01)

	assert.Equal(t, []string{"G0 X10 Y0 Z0"}, w.Lines(3))
	assert.InDelta(t, 10.0, w.Stats.TravelDistance, 1e-9)
}

func TestOptVectorKeepsCorners(t *testing.T) {
	l := travelLayer(vector.Point{0, 0, 0}, vector.Point{5, 5, 0}, vector.Point{10, 0, 0})

	w := export.NewWriter(vm.Relative, vm.Relative)
	w.Path(l)
	OptVector(w, 1e-6)

	// The zero-length entry move is absorbed, the corner stays.
	assert.Equal(t, []string{
		"G0 X5 Y5 Z0",
		"G0 X5 Y-5 Z0",
	}, w.Lines(3))
}

func TestOptVectorStopsAtCommands(t *testing.T) {
	w := export.NewWriter(vm.Absolute, vm.Relative)
	put(w, &export.Move{Position: vector.Point{5, 0, 0}, Coords: vector.Point{5, 0, 0}, Length: 5})
	w.Command("M400")
	put(w, &export.Move{Position: vector.Point{10, 0, 0}, Coords: vector.Point{10, 0, 0}, Length: 5})

	OptVector(w, 1e-6)

	assert.Len(t, w.Blocks, 3)
}
