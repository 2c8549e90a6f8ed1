package optimize

import "github.com/kennylevinsen/gcodetsp/export"

// Kills travel moves that go nowhere.
// Merged nodes and layer entries often produce a travel to the current
// position. A feedrate set by such a move is handed to the next move that
// doesn't set its own.
func OptBogusMoves(w *export.Writer) {
	var (
		feedrate float64
		blocks   = make([]export.Block, 0, len(w.Blocks))
	)

	for _, b := range w.Blocks {
		m := b.Move
		if m == nil {
			blocks = append(blocks, b)
			continue
		}

		if !m.Extrude && m.Length == 0 {
			if m.Feedrate > 0 {
				feedrate = m.Feedrate
			}
			w.Stats.TravelMoves--
			continue
		}

		if m.Feedrate == 0 && feedrate > 0 {
			m.Feedrate = feedrate
		}
		feedrate = 0
		blocks = append(blocks, b)
	}
	w.Blocks = blocks
}
