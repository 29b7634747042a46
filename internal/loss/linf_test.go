package loss

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/percept-ml/percept/internal/tensor"
)

func TestLInfIdenticalInputsScoreZero(t *testing.T) {
	img := testRamp(t, 4, 4)
	out, err := NewLInf().Evaluate(img, img.Clone())
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, out)
}

func TestLInfChannelMeanOfSpatialMax(t *testing.T) {
	// Two pixels, two channels. Worst error is 0.3 on channel 0 and 0.2 on
	// channel 1, so the loss is their mean.
	yTrue, err := tensor.FromSlice([]float64{
		0.5, 0.5, // pixel (0,0)
		0.5, 0.5, // pixel (0,1)
	}, tensor.Shape{1, 1, 2, 2})
	require.NoError(t, err)
	yPred, err := tensor.FromSlice([]float64{
		0.6, 0.7,
		0.2, 0.55,
	}, tensor.Shape{1, 1, 2, 2})
	require.NoError(t, err)

	out, err := NewLInf().Evaluate(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, out[0], 1e-12)
}

func TestLInfIgnoresWellMatchedRegions(t *testing.T) {
	// A single bad pixel dominates no matter how much of the image agrees.
	yTrue, err := tensor.Full(tensor.Shape{1, 4, 4, 1}, 0.5)
	require.NoError(t, err)
	yPred := yTrue.Clone()
	yPred.Data()[5] = 0.9

	out, err := NewLInf().Evaluate(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 0.4, out[0], 1e-12)
}

func TestLInfPerSampleIndependence(t *testing.T) {
	yTrue, err := tensor.Full(tensor.Shape{2, 1, 2, 1}, 0)
	require.NoError(t, err)
	yPred, err := tensor.FromSlice([]float64{0, 0, 0.25, 0.75}, tensor.Shape{2, 1, 2, 1})
	require.NoError(t, err)

	out, err := NewLInf().Evaluate(yTrue, yPred)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.75}, out)
}

func TestLInfShapeMismatch(t *testing.T) {
	a, err := tensor.Full(tensor.Shape{1, 2, 2, 1}, 0)
	require.NoError(t, err)
	b, err := tensor.Full(tensor.Shape{1, 2, 2, 3}, 0)
	require.NoError(t, err)
	_, err = NewLInf().Evaluate(a, b)
	assert.Error(t, err)
}
