package export

import "github.com/kennylevinsen/gcodetsp/problem"
import "github.com/kennylevinsen/gcodetsp/vector"
import "github.com/kennylevinsen/gcodetsp/vm"

import "fmt"

// Emits the move from original node origin to original node destination.
//
// A move between neighbouring nodes extrudes if the segment between them
// did, in whichever direction it is now travelled. Feedrates follow the same
// rule; any other move is a travel at the layer's default travel feedrate.
func (w *Writer) Line(layer *vm.Layer, origin, destination int) {
	n := layer.Node(destination)

	coords := n
	if w.PositionMode == vm.Relative {
		coords = n.Sub(w.position)
	}

	key := 0
	switch destination - origin {
	case 1:
		key = origin
	case -1:
		key = destination
	}

	m := Move{Coords: coords, Position: n, Length: vector.Distance(w.position, n)}

	if e, ok := layer.Extrusion(key); ok && key != 0 {
		if w.ExtruderMode == vm.Absolute {
			e += w.extrusion
		}
		w.extrusion = e

		m.Extrude = true
		m.E = e
		w.Stats.IncrementExtrusion(m.Length)
	} else {
		w.Stats.IncrementTravel(m.Length)
	}

	if f := layer.Feedrate(key); f > 0 {
		m.Feedrate = f
	}

	w.put(Block{Move: &m})
	w.position = n
}

// Walks the layer in its original order.
func (w *Writer) Path(layer *vm.Layer) {
	if layer.Len() == 0 {
		return
	}
	w.Line(layer, 1, 1)
	for i := 2; i <= layer.Len(); i++ {
		w.Line(layer, i-1, i)
	}
}

// Emits a solved tour. The tour holds encoded node ids, starting at 1.
// Consecutive ids are expanded back into the original nodes merged between
// them, in the direction they are travelled.
func (w *Writer) Tour(index int, layer *vm.Layer, tour []int, merge problem.MergeMap) error {
	lookup := func(id int) (int, error) {
		i, ok := merge[id]
		if !ok {
			return 0, &problem.ResultParseError{Layer: index, Reason: fmt.Sprintf("node %d is not part of the problem", id)}
		}
		return i, nil
	}

	entry, err := lookup(1)
	if err != nil {
		return err
	}
	w.Line(layer, entry, entry)

	for i := 1; i < len(tour); i++ {
		prev, next := tour[i-1], tour[i]
		from, err := lookup(prev)
		if err != nil {
			return err
		}
		to, err := lookup(next)
		if err != nil {
			return err
		}

		switch next - prev {
		case 1:
			for j := from; j < to; j++ {
				w.Line(layer, j, j+1)
			}
		case -1:
			for j := from; j > to; j-- {
				w.Line(layer, j, j-1)
			}
		default:
			w.Line(layer, from, to)
		}
	}
	return nil
}
