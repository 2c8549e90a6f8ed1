package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/kennylevinsen/gcodetsp/optimize"
	"github.com/kennylevinsen/gcodetsp/vm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrint(t *testing.T) {
	base := vm.Stats{
		ExtrusionDistance: 12345.678,
		TravelDistance:    20000,
		ExtrudeMoves:      15000,
		TravelMoves:       1200,
		Units:             vm.Millimeters,
	}
	optimized := base
	optimized.TravelDistance = 15000

	var b bytes.Buffer
	Print(&b, base, optimized, 1500*time.Millisecond)
	out := b.String()

	assert.Contains(t, out, "Base G-code:\n")
	assert.Contains(t, out, "Optimized G-code:\n")
	assert.Contains(t, out, "Extruding moves:    15,000\n")
	assert.Contains(t, out, "Extrusion distance: 12,345.67 mm\n")
	assert.Contains(t, out, "Travel distance:    20,000 mm\n")
	assert.Contains(t, out, "Travel distance change: -25.0%\n")
	assert.Contains(t, out, "Optimization completed in 1.5s\n")
}

func TestPrintNoTravel(t *testing.T) {
	var b bytes.Buffer
	Print(&b, vm.Stats{}, vm.Stats{}, 0)
	assert.Contains(t, b.String(), "Travel distance change: n/a\n")
	assert.NotContains(t, b.String(), "completed")
}

func TestWriteCSV(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, WriteCSV(&b, []optimize.LayerStat{
		{Layer: 1, Nodes: 120, Merged: 40},
		{Layer: 3, Nodes: 80, Merged: 31},
	}))
	assert.Equal(t, "Layer,Nodes,Merged\n1,120,40\n3,80,31\n", b.String())
}
