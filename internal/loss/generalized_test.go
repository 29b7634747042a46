package loss

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/percept-ml/percept/internal/tensor"
)

func TestNewGeneralizedRejectsBadParams(t *testing.T) {
	tests := []struct {
		name  string
		alpha float64
		beta  float64
	}{
		{"alpha zero", 0, 1},
		{"alpha two", 2, 1},
		{"beta zero", 1, 0},
		{"beta negative", 1, -0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGeneralized(tt.alpha, tt.beta)
			assert.Error(t, err)
		})
	}
}

func TestGeneralizedIdenticalInputsScoreZero(t *testing.T) {
	img, err := tensor.FromSlice([]float64{0.1, 0.5, 0.9, 0.3}, tensor.Shape{1, 2, 2, 1})
	require.NoError(t, err)

	g, err := NewGeneralized(DefaultAlpha, DefaultBeta)
	require.NoError(t, err)
	out, err := g.Evaluate(img, img.Clone())
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, out)
}

func TestGeneralizedCharbonnier(t *testing.T) {
	// With alpha=1 and beta=1 the element penalty is sqrt(1+d^2)-1.
	yTrue, err := tensor.Full(tensor.Shape{1, 2, 2, 1}, 0)
	require.NoError(t, err)
	yPred, err := tensor.FromSlice([]float64{0.3, 0.6, 0.9, 1.2}, tensor.Shape{1, 2, 2, 1})
	require.NoError(t, err)

	g, err := NewGeneralized(1, 1)
	require.NoError(t, err)
	out, err := g.Evaluate(yTrue, yPred)
	require.NoError(t, err)
	// (sqrt(1.09)+sqrt(1.36)+sqrt(1.81)+sqrt(2.44)-4)/4
	assert.InDelta(t, 0.27940834, out[0], 1e-6)
}

func TestGeneralizedNearQuadratic(t *testing.T) {
	// alpha just below 2 approximates half the mean squared error.
	yTrue, err := tensor.Full(tensor.Shape{1, 2, 2, 1}, 0)
	require.NoError(t, err)
	yPred, err := tensor.FromSlice([]float64{0.3, 0.6, 0.9, 1.2}, tensor.Shape{1, 2, 2, 1})
	require.NoError(t, err)

	g, err := NewGeneralized(1.9999, 1)
	require.NoError(t, err)
	out, err := g.Evaluate(yTrue, yPred)
	require.NoError(t, err)
	// mean(d^2)/2 = (0.09+0.36+0.81+1.44)/8
	assert.InDelta(t, 0.3375, out[0], 1e-3)
}

func TestGeneralizedPerSampleIndependence(t *testing.T) {
	yTrue, err := tensor.Full(tensor.Shape{2, 1, 2, 1}, 0)
	require.NoError(t, err)
	yPred, err := tensor.FromSlice([]float64{0, 0, 1, 1}, tensor.Shape{2, 1, 2, 1})
	require.NoError(t, err)

	g, err := NewGeneralized(1, 1)
	require.NoError(t, err)
	out, err := g.Evaluate(yTrue, yPred)
	require.NoError(t, err)
	assert.Equal(t, 0.0, out[0])
	assert.InDelta(t, math.Sqrt2-1, out[1], 1e-9)
}

func TestGeneralizedShapeMismatch(t *testing.T) {
	a, err := tensor.Full(tensor.Shape{1, 2, 2, 1}, 0)
	require.NoError(t, err)
	b, err := tensor.Full(tensor.Shape{1, 2, 2, 3}, 0)
	require.NoError(t, err)

	g, err := NewGeneralized(DefaultAlpha, DefaultBeta)
	require.NoError(t, err)
	_, err = g.Evaluate(a, b)
	assert.Error(t, err)
}
