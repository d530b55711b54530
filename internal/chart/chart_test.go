package chart_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvaldez/trip-analytics/internal/chart"
)

// pngMagic is the fixed 8-byte PNG file signature.
var pngMagic = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}

func TestRenderBarChart(t *testing.T) {
	img, err := chart.RenderBarChart(
		[]string{"north", "south", "east"},
		[]float64{3.5, 1.0, 2.25},
	)

	require.NoError(t, err)
	require.Greater(t, len(img), len(pngMagic))
	assert.Equal(t, pngMagic, img[:len(pngMagic)], "output must be PNG-encoded")
}

func TestRenderBarChart_LengthMismatch(t *testing.T) {
	_, err := chart.RenderBarChart([]string{"north", "south"}, []float64{1.0})

	assert.ErrorIs(t, err, chart.ErrInvalidInput)
}

func TestRenderBarChart_Empty(t *testing.T) {
	_, err := chart.RenderBarChart(nil, nil)

	assert.ErrorIs(t, err, chart.ErrInvalidInput)
}
