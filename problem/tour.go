package problem

import "bufio"
import "fmt"
import "io"
import "strconv"
import "strings"

// ResultParseError means the solver's tour cannot be trusted: the tour
// section is missing or malformed, or it does not match the encoding.
type ResultParseError struct {
	Layer  int
	Line   int
	Reason string
}

func (e *ResultParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("layer %d: tour line %d: %s", e.Layer, e.Line, e.Reason)
	}
	return fmt.Sprintf("layer %d: tour: %s", e.Layer, e.Reason)
}

// Reads the TOUR_SECTION of an LKH tour file. Every id must be in merge,
// exactly once.
func ReadTour(layer int, r io.Reader, merge MergeMap) ([]int, error) {
	var (
		tour       []int
		seen       = make(map[int]bool, len(merge))
		inSection  bool
		terminated bool
		number     int
	)

	fail := func(format string, args ...interface{}) error {
		return &ResultParseError{Layer: layer, Line: number, Reason: fmt.Sprintf(format, args...)}
	}

	s := bufio.NewScanner(r)
	for s.Scan() {
		number++
		line := strings.TrimSpace(s.Text())

		if !inSection {
			inSection = strings.HasPrefix(line, "TOUR_SECTION")
			continue
		}

		id, err := strconv.Atoi(line)
		if err != nil {
			return nil, fail("invalid node id %q", line)
		}
		if id == -1 {
			terminated = true
			break
		}
		if _, ok := merge[id]; !ok {
			return nil, fail("node %d is not part of the problem", id)
		}
		if seen[id] {
			return nil, fail("node %d visited twice", id)
		}
		seen[id] = true
		tour = append(tour, id)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}

	number = 0
	switch {
	case !inSection:
		return nil, fail("no TOUR_SECTION")
	case !terminated:
		return nil, fail("TOUR_SECTION not terminated by -1")
	case len(tour) != len(merge):
		return nil, fail("tour visits %d of %d nodes", len(tour), len(merge))
	}
	return tour, nil
}

// Rotates the tour to start at node 1 and orients it so that it ends at
// last, the layer's exit node, when the closing edge allows it.
func NormalizeTour(tour []int, last int) []int {
	start := -1
	for i, id := range tour {
		if id == 1 {
			start = i
			break
		}
	}
	if start == -1 {
		return tour
	}

	out := make([]int, 0, len(tour))
	out = append(out, tour[start:]...)
	out = append(out, tour[:start]...)

	if len(out) > 2 && out[1] == last {
		for i, j := 1, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}
