package vm

import "github.com/kennylevinsen/gcodetsp/vector"

// Number of nodes in the layer.
func (l *Layer) Len() int {
	return len(l.Nodes)
}

// Returns node i, counting from 1.
func (l *Layer) Node(i int) vector.Point {
	return l.Nodes[i-1]
}

// Reports whether the segment from node k to node k+1 extrudes.
func (l *Layer) Mandatory(k int) bool {
	_, ok := l.Extrusions[k]
	return ok
}

// Returns the extrusion along the segment from node k to node k+1.
func (l *Layer) Extrusion(k int) (float64, bool) {
	e, ok := l.Extrusions[k]
	return e, ok
}

// Returns the feedrate for the segment from node k to node k+1, or the
// default travel feedrate for k == 0. Zero means unknown.
func (l *Layer) Feedrate(k int) float64 {
	return l.Feedrates[k]
}

// Limit feedrate.
func (p *Program) LimitFeedrate(feed float64) {
	for _, l := range p.Layers {
		for k, f := range l.Feedrates {
			if f > feed {
				l.Feedrates[k] = feed
			}
		}
	}
}

// Total number of nodes over all layers.
func (p *Program) NodeCount() int {
	var n int
	for _, l := range p.Layers {
		n += l.Len()
	}
	return n
}

// Generate bounding box information
func (p *Program) Info() (lo, hi vector.Point) {
	first := true
	for _, l := range p.Layers {
		for _, n := range l.Nodes {
			if first {
				lo, hi = n, n
				first = false
				continue
			}
			for axis := 0; axis < 3; axis++ {
				if n[axis] < lo[axis] {
					lo[axis] = n[axis]
				} else if n[axis] > hi[axis] {
					hi[axis] = n[axis]
				}
			}
		}
	}
	return
}
