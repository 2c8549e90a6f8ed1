// Package report prints run statistics and the per-layer summary.
package report

import "github.com/kennylevinsen/gcodetsp/optimize"
import "github.com/kennylevinsen/gcodetsp/vm"

import "github.com/dustin/go-humanize"

import "encoding/csv"
import "fmt"
import "io"
import "strconv"
import "time"

func distance(d float64, units vm.UnitsMode) string {
	return humanize.CommafWithDigits(d, 2) + " " + units.String()
}

func percent(base, optimized float64) string {
	if base == 0 {
		return "n/a"
	}
	return strconv.FormatFloat((optimized-base)/base*100, 'f', 1, 64) + "%"
}

func stats(w io.Writer, title string, s vm.Stats) {
	fmt.Fprintf(w, "%s:\n", title)
	fmt.Fprintf(w, "  Extruding moves:    %s\n", humanize.Comma(int64(s.ExtrudeMoves)))
	fmt.Fprintf(w, "  Travel moves:       %s\n", humanize.Comma(int64(s.TravelMoves)))
	fmt.Fprintf(w, "  Extrusion distance: %s\n", distance(s.ExtrusionDistance, s.Units))
	fmt.Fprintf(w, "  Travel distance:    %s\n", distance(s.TravelDistance, s.Units))
}

// Prints the input and output statistics side by side with the change in
// travel distance.
func Print(w io.Writer, base, optimized vm.Stats, elapsed time.Duration) {
	stats(w, "Base G-code", base)
	fmt.Fprintln(w)
	stats(w, "Optimized G-code", optimized)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Travel distance change: %s\n", percent(base.TravelDistance, optimized.TravelDistance))
	if elapsed > 0 {
		fmt.Fprintf(w, "Optimization completed in %s\n", elapsed.Round(time.Millisecond))
	}
}

// Writes a Layer,Nodes,Merged row for every solved layer.
func WriteCSV(w io.Writer, layers []optimize.LayerStat) error {
	c := csv.NewWriter(w)
	if err := c.Write([]string{"Layer", "Nodes", "Merged"}); err != nil {
		return err
	}
	for _, l := range layers {
		row := []string{strconv.Itoa(l.Layer), strconv.Itoa(l.Nodes), strconv.Itoa(l.Merged)}
		if err := c.Write(row); err != nil {
			return err
		}
	}
	c.Flush()
	return c.Error()
}
