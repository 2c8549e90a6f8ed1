package problem

import (
	"strings"
	"sync"
	"testing"

	"github.com/kennylevinsen/gcodetsp/vector"
	"github.com/kennylevinsen/gcodetsp/vm"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A layer along the X axis, one unit between nodes. mandatory lists the
// segments k -> k+1 that extrude.
func lineLayer(n int, mandatory ...int) *vm.Layer {
	l := vm.NewLayer(0.2, vector.Point{1, 0, 0.2})
	for i := 2; i <= n; i++ {
		l.Nodes = append(l.Nodes, vector.Point{float64(i), 0, 0.2})
	}
	for _, k := range mandatory {
		l.Extrusions[k] = 0.1
	}
	return l
}

func TestEncodeMergesRuns(t *testing.T) {
	p := Encode(4, lineLayer(6, 2, 3, 4), Options{})

	assert.Equal(t, 4, p.Dimension)
	assert.Equal(t, MergeMap{1: 1, 2: 2, 3: 5, 4: 6}, p.Merge)
	assert.Equal(t, []int{2}, p.Anchors)

	assert.Equal(t, `NAME: Layer 4
COMMENT: Print optimization for layer 4
TYPE: TSP
DIMENSION: 4
EDGE_WEIGHT_TYPE: EUC_3D
NODE_COORD_SECTION
1 1.000 0.000 0.200
2 2.000 0.000 0.200
3 5.000 0.000 0.200
4 6.000 0.000 0.200
FIXED_EDGES_SECTION
2 3
4 1
-1
EOF
`, p.Text)
}

func TestEncodeWithoutExtrusion(t *testing.T) {
	p := Encode(0, lineLayer(5), Options{})

	assert.Equal(t, 5, p.Dimension)
	assert.Empty(t, p.Anchors)
	for i := 1; i <= 5; i++ {
		assert.Equal(t, i, p.Merge[i])
	}
	assert.Contains(t, p.Text, "FIXED_EDGES_SECTION\n5 1\n-1\nEOF\n")
}

func TestEncodeSeparateRuns(t *testing.T) {
	// Runs 1-2 and 4-6 are separated by travel moves.
	p := Encode(1, lineLayer(7, 1, 4, 5), Options{})

	assert.Equal(t, MergeMap{1: 1, 2: 2, 3: 3, 4: 4, 5: 6, 6: 7}, p.Merge)
	assert.Equal(t, []int{1, 4}, p.Anchors)
	assert.Contains(t, p.Text, "FIXED_EDGES_SECTION\n1 2\n4 5\n6 1\n-1\n")
}

func TestEncodeSplitIsStrict(t *testing.T) {
	layer := lineLayer(6, 1, 2, 3, 4)

	// The run covers 1 unit per node. At exactly the limit it stays whole.
	p := Encode(0, layer, Options{MergeLength: 3})
	assert.Equal(t, MergeMap{1: 1, 2: 5, 3: 6}, p.Merge)
	assert.Equal(t, []int{1}, p.Anchors)

	// Past the limit the run is cut at the node where it was exceeded, and
	// both halves stay fixed.
	p = Encode(0, layer, Options{MergeLength: 2.5})
	assert.Equal(t, MergeMap{1: 1, 2: 4, 3: 4, 4: 5, 5: 6}, p.Merge)
	assert.Equal(t, []int{1, 3}, p.Anchors)
	assert.Contains(t, p.Text, "FIXED_EDGES_SECTION\n1 2\n3 4\n5 1\n-1\n")
}

func TestEncodeEveryMandatorySegmentCovered(t *testing.T) {
	layer := lineLayer(12, 2, 3, 5, 6, 7, 10)
	p := Encode(0, layer, Options{MergeLength: 1.5})

	fixed := make(map[int]bool)
	for _, a := range p.Anchors {
		from, to := p.Merge[a], p.Merge[a+1]
		for k := from; k < to; k++ {
			fixed[k] = true
		}
	}
	for k := range layer.Extrusions {
		assert.True(t, fixed[k], "segment %d", k)
	}
}

func TestParameters(t *testing.T) {
	params := NewParameters("/tmp/3.tsp", "/tmp/result_3.tour", Options{
		Precision:           1000,
		Runs:                2,
		CandidateSet:        "POPMUSIC",
		PopmusicInitialTour: true,
	})
	assert.Equal(t, `PROBLEM_FILE = /tmp/3.tsp
TOUR_FILE = /tmp/result_3.tour
PRECISION = 1000
RUNS = 2
CANDIDATE_SET_TYPE = POPMUSIC
POPMUSIC_INITIAL_TOUR = YES
`, params.String())

	params = NewParameters("a.tsp", "a.tour", Options{Precision: 100, Runs: 1})
	assert.Equal(t, "PROBLEM_FILE = a.tsp\nTOUR_FILE = a.tour\nPRECISION = 100\nRUNS = 1\n", params.String())
}

const tourFile = `NAME : 3.tour
COMMENT : Length = 12
TYPE : TOUR
DIMENSION : 4
TOUR_SECTION
1
3
4
2
-1
EOF
`

func TestReadTour(t *testing.T) {
	merge := MergeMap{1: 1, 2: 2, 3: 5, 4: 6}
	tour, err := ReadTour(3, strings.NewReader(tourFile), merge)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 4, 2}, tour)
}

func TestReadTourErrors(t *testing.T) {
	merge := MergeMap{1: 1, 2: 2, 3: 5, 4: 6}
	cases := map[string]string{
		"missing section": "NAME : x\nEOF\n",
		"unterminated":    "TOUR_SECTION\n1\n2\n3\n4\n",
		"not a number":    "TOUR_SECTION\n1\nx\n-1\n",
		"unknown node":    "TOUR_SECTION\n1\n2\n3\n9\n-1\n",
		"repeated node":   "TOUR_SECTION\n1\n2\n2\n3\n-1\n",
		"short tour":      "TOUR_SECTION\n1\n2\n3\n-1\n",
	}
	for name, input := range cases {
		_, err := ReadTour(5, strings.NewReader(input), merge)
		var perr *ResultParseError
		if assert.ErrorAs(t, err, &perr, name) {
			assert.Equal(t, 5, perr.Layer, name)
		}
	}
}

func TestNormalizeTour(t *testing.T) {
	// Rotated so that node 1 comes first.
	assert.Equal(t, []int{1, 2, 3, 4}, NormalizeTour([]int{3, 4, 1, 2}, 4))

	// Leaving node 1 through the closing edge means walking backwards.
	assert.Equal(t, []int{1, 3, 2, 4}, NormalizeTour([]int{1, 4, 2, 3}, 4))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, NormalizeTour([]int{3, 2, 1, 5, 4}, 5))

	// Already oriented.
	assert.Equal(t, []int{1, 3, 2, 4}, NormalizeTour([]int{1, 3, 2, 4}, 4))
}

func TestMergeTable(t *testing.T) {
	table := NewMergeTable()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(layer int) {
			defer wg.Done()
			assert.NoError(t, table.Store(layer, MergeMap{1: layer}))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 16, table.Len())
	layers := table.Layers()
	require.Len(t, layers, 16)
	for i, l := range layers {
		assert.Equal(t, i, l)
	}

	m, ok := table.Load(7)
	require.True(t, ok)
	assert.Equal(t, MergeMap{1: 7}, m)

	_, ok = table.Load(42)
	assert.False(t, ok)

	err := table.Store(7, MergeMap{})
	assert.True(t, errors.Is(err, ErrDuplicateLayer))
}
