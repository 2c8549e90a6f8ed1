package optimize

import "github.com/kennylevinsen/gcodetsp/export"
import "github.com/kennylevinsen/gcodetsp/vector"
import "github.com/kennylevinsen/gcodetsp/vm"

// Kills redundant partial travel moves.
// When a travel move ends on the line from where the previous travel move
// started to where it ends itself, the two become a single move. Extruding
// moves and verbatim commands are never touched.
func OptVector(w *export.Writer, tolerance float64) {
	var (
		blocks    = make([]export.Block, 0, len(w.Blocks))
		pos, from vector.Point
		chain     bool
	)

	for _, b := range w.Blocks {
		m := b.Move
		if m == nil {
			blocks = append(blocks, b)
			chain = false
			continue
		}

		if !m.Extrude && chain {
			prev := blocks[len(blocks)-1].Move
			length1 := vector.Distance(from, pos) + vector.Distance(pos, m.Position)
			length2 := vector.Distance(from, m.Position)
			if length1-length2 < tolerance {
				merged := *m
				merged.Length = length2
				if w.PositionMode == vm.Relative {
					merged.Coords = m.Position.Sub(from)
				}
				if merged.Feedrate == 0 {
					merged.Feedrate = prev.Feedrate
				}
				blocks[len(blocks)-1] = export.Block{Move: &merged}
				pos = m.Position
				w.Stats.TravelMoves--
				w.Stats.TravelDistance -= length1 - length2
				continue
			}
		}

		blocks = append(blocks, b)
		from, pos = pos, m.Position
		chain = !m.Extrude
	}
	w.Blocks = blocks
}
