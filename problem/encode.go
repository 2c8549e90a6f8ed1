// Package problem turns a layer into a TSP instance for LKH and reads the
// solved tour back.
//
// Runs of extruding segments are collapsed into a single fixed edge between
// their end points, so the solver only sees the points it may reorder. The
// merge map records which original node each encoded node stands for.
package problem

import "github.com/kennylevinsen/gcodetsp/vector"
import "github.com/kennylevinsen/gcodetsp/vm"

import "fmt"
import "math"
import "strings"

type Options struct {
	// Longest extrusion run merged into a single edge. 0 disables the limit.
	MergeLength float64

	Precision           int
	Runs                int
	CandidateSet        string
	PopmusicInitialTour bool
}

// Encoded node id -> original node index.
type MergeMap map[int]int

type Problem struct {
	Layer     int
	Dimension int
	Merge     MergeMap

	// Encoded ids k for which (k, k+1) is a fixed edge.
	Anchors []int

	Text string
}

// Encodes a layer. Every segment that extrudes ends up inside a fixed edge,
// and the closing edge (Dimension, 1) pins the tour's start and end to the
// layer's entry and exit.
func Encode(index int, layer *vm.Layer, opts Options) *Problem {
	limit := opts.MergeLength
	if limit <= 0 {
		limit = math.Inf(1)
	}

	var (
		nodes    strings.Builder
		merge    = make(MergeMap)
		anchors  []int
		count    int
		extruded bool
		distance float64
		last     vector.Point
	)

	emit := func(i int, p vector.Point) {
		count++
		fmt.Fprintf(&nodes, "%d %.3f %.3f %.3f\n", count, p[0], p[1], p[2])
		merge[count] = i
	}

	for i := 1; i <= layer.Len(); i++ {
		node := layer.Node(i)
		extrude := layer.Mandatory(i)

		if !extrude || !extruded {
			emit(i, node)
			if extrude {
				anchors = append(anchors, count)
			} else {
				distance = 0
			}
		} else {
			distance += vector.Distance(last, node)
			if distance > limit {
				// Close the current run here and open the next one
				emit(i, node)
				emit(i, node)
				anchors = append(anchors, count)
				distance = 0
			}
		}

		extruded = extrude
		last = node
	}
	if extruded {
		emit(layer.Len(), last)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "NAME: Layer %d\n", index)
	fmt.Fprintf(&b, "COMMENT: Print optimization for layer %d\n", index)
	b.WriteString("TYPE: TSP\n")
	fmt.Fprintf(&b, "DIMENSION: %d\n", count)
	b.WriteString("EDGE_WEIGHT_TYPE: EUC_3D\n")
	b.WriteString("NODE_COORD_SECTION\n")
	b.WriteString(nodes.String())
	b.WriteString("FIXED_EDGES_SECTION\n")
	for _, k := range anchors {
		fmt.Fprintf(&b, "%d %d\n", k, k+1)
	}
	fmt.Fprintf(&b, "%d %d\n", count, 1)
	b.WriteString("-1\nEOF\n")

	return &Problem{
		Layer:     index,
		Dimension: count,
		Merge:     merge,
		Anchors:   anchors,
		Text:      b.String(),
	}
}

// LKH run parameters.
type Parameters struct {
	ProblemFile         string
	TourFile            string
	Precision           int
	Runs                int
	CandidateSet        string
	PopmusicInitialTour bool
}

func NewParameters(problemFile, tourFile string, opts Options) Parameters {
	return Parameters{
		ProblemFile:         problemFile,
		TourFile:            tourFile,
		Precision:           opts.Precision,
		Runs:                opts.Runs,
		CandidateSet:        opts.CandidateSet,
		PopmusicInitialTour: opts.PopmusicInitialTour,
	}
}

func (p Parameters) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "PROBLEM_FILE = %s\n", p.ProblemFile)
	fmt.Fprintf(&b, "TOUR_FILE = %s\n", p.TourFile)
	fmt.Fprintf(&b, "PRECISION = %d\n", p.Precision)
	fmt.Fprintf(&b, "RUNS = %d\n", p.Runs)
	if p.CandidateSet != "" {
		fmt.Fprintf(&b, "CANDIDATE_SET_TYPE = %s\n", p.CandidateSet)
	}
	if p.PopmusicInitialTour {
		b.WriteString("POPMUSIC_INITIAL_TOUR = YES\n")
	}
	return b.String()
}
