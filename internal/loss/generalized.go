package loss

import (
	"math"

	"github.com/pkg/errors"

	"github.com/percept-ml/percept/internal/tensor"
)

// Default parameters for the generalized robust error function.
const (
	// DefaultAlpha gives a smooth, differentiable L1-like penalty.
	DefaultAlpha = 1.0
	// DefaultBeta rescales inputs in [0, 255] terms so the penalty shape is
	// calibrated to 8-bit pixel differences.
	DefaultBeta = 1.0 / 255.0
)

// Generalized is the general robust error function of Barron
// (https://arxiv.org/pdf/1701.03077.pdf), restricted to a fixed shape
// parameter per instance.
//
// alpha controls the penalty's convexity: alpha near 1 behaves like a
// smoothed L1 loss, alpha approaching 2 behaves like L2/MSE. beta rescales
// the input difference to the data's working range. The formula divides by
// both alpha and |2-alpha|, so alpha must not be exactly 0 or 2.
type Generalized struct {
	alpha float64
	beta  float64
}

// NewGeneralized creates a generalized error function with the given shape
// and scale parameters. It fails when alpha is exactly 0 or 2, or when beta
// is not positive.
func NewGeneralized(alpha, beta float64) (*Generalized, error) {
	if alpha == 0 || alpha == 2 {
		return nil, errors.Errorf("generalized loss: alpha must not be exactly 0 or 2, got %g", alpha)
	}
	if beta <= 0 {
		return nil, errors.Errorf("generalized loss: beta must be positive, got %g", beta)
	}
	return &Generalized{alpha: alpha, beta: beta}, nil
}

// Evaluate returns, per sample, the mean generalized error over all pixels
// and channels, rescaled by beta.
func (g *Generalized) Evaluate(yTrue, yPred *tensor.Image) ([]float64, error) {
	if err := checkPair(yTrue, yPred); err != nil {
		return nil, errors.Wrap(err, "generalized loss")
	}
	shape := math.Abs(2 - g.alpha)
	out := make([]float64, yTrue.Batch())
	for i := range out {
		td := yTrue.SampleData(i)
		pd := yPred.SampleData(i)
		var sum float64
		for j := range td {
			d := (pd[j] - td[j]) / g.beta
			sum += (shape / g.alpha) * (math.Pow(d*d/shape+1, g.alpha/2) - 1)
		}
		out[i] = sum / float64(len(td)) * g.beta
	}
	return out, nil
}
