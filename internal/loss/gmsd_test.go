package loss

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/percept-ml/percept/internal/tensor"
)

func TestScharrKernelsBalance(t *testing.T) {
	// Both orientations must reject constant regions.
	for k, kernel := range scharrKernels {
		var sum float64
		for _, v := range kernel {
			sum += v
		}
		assert.InDelta(t, 0.0, sum, 1e-12, "kernel %d must sum to zero", k)
	}
}

func TestScharrEdgesVanishOnConstantInput(t *testing.T) {
	img, err := tensor.Full(tensor.Shape{1, 4, 4, 1}, 0.7)
	require.NoError(t, err)
	edges := scharrEdges(img)
	assert.Equal(t, 4, edges.Height())
	assert.Equal(t, 4, edges.Width())
	assert.Equal(t, 2, edges.Channels())
	for _, v := range edges.Data() {
		assert.InDelta(t, 0.0, v, 1e-12)
	}
}

func TestGMSDFlatImagesScoreZero(t *testing.T) {
	// Two flat images at different levels have identical (zero) edge maps, so
	// the similarity field is constant and its deviation is zero.
	yTrue, err := tensor.Full(tensor.Shape{1, 4, 4, 1}, 0.2)
	require.NoError(t, err)
	yPred, err := tensor.Full(tensor.Shape{1, 4, 4, 1}, 0.9)
	require.NoError(t, err)

	out, err := NewGMSD().Evaluate(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, out[0], 1e-12)
}

func TestGMSDIdenticalInputsScoreZero(t *testing.T) {
	img := testRamp(t, 6, 6)
	out, err := NewGMSD().Evaluate(img, img.Clone())
	require.NoError(t, err)
	assert.InDelta(t, 0.0, out[0], 1e-12)
}

func TestGMSDPenalizesLostEdges(t *testing.T) {
	// A hard vertical edge against a flat prediction: the similarity field
	// drops near the edge and stays 1 in flat regions, so it has spread.
	yTrue, err := tensor.FromSlice([]float64{
		0, 0, 1, 1,
		0, 0, 1, 1,
		0, 0, 1, 1,
		0, 0, 1, 1,
	}, tensor.Shape{1, 4, 4, 1})
	require.NoError(t, err)
	yPred, err := tensor.Full(tensor.Shape{1, 4, 4, 1}, 0.5)
	require.NoError(t, err)

	out, err := NewGMSD().Evaluate(yTrue, yPred)
	require.NoError(t, err)
	assert.Greater(t, out[0], 0.0)
}

func TestGMSDImageTooSmall(t *testing.T) {
	img, err := tensor.Full(tensor.Shape{1, 2, 2, 1}, 0)
	require.NoError(t, err)
	_, err = NewGMSD().Evaluate(img, img.Clone())
	assert.Error(t, err)
}
