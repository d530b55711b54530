// Package chart renders analytics results as raster images.
// It is a pure function layer: (labels, values) in, encoded bytes out,
// no state and no store access.
package chart

import (
	"bytes"
	"errors"
	"fmt"

	gochart "github.com/wcharczuk/go-chart/v2"
)

// ErrInvalidInput is returned when labels and values do not line up.
var ErrInvalidInput = errors.New("invalid chart input")

// RenderBarChart renders one bar per label as a PNG image.
// labels and values must have the same non-zero length; the only error paths
// are a length mismatch and a renderer failure.
func RenderBarChart(labels []string, values []float64) ([]byte, error) {
	if len(labels) != len(values) {
		return nil, fmt.Errorf("%w: %d labels but %d values", ErrInvalidInput, len(labels), len(values))
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("%w: no bars to draw", ErrInvalidInput)
	}

	bars := make([]gochart.Value, len(labels))
	for i := range labels {
		bars[i] = gochart.Value{Label: labels[i], Value: values[i]}
	}

	graph := gochart.BarChart{
		Title:    "Weekly average trips by region",
		Width:    1024,
		Height:   512,
		BarWidth: 60,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart.RenderBarChart: %w", err)
	}
	return buf.Bytes(), nil
}
