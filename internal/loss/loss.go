// Package loss implements the differentiable image-similarity metrics used
// to train pixel-to-pixel generation models, plus a mask-aware wrapper that
// composes several weighted metrics over a single model output.
//
// Every metric consumes a pair of NHWC image batches and produces one scalar
// per batch sample. All metrics are distance-like: identical inputs score 0.
package loss

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/percept-ml/percept/internal/tensor"
)

// Loss computes a per-sample distance between a ground-truth batch and a
// prediction batch of identical shape. The returned slice has one entry per
// batch sample.
//
// Implementations are immutable after construction and safe for concurrent
// use.
type Loss interface {
	Evaluate(yTrue, yPred *tensor.Image) ([]float64, error)
}

// checkPair validates that the two batches have identical shapes.
func checkPair(yTrue, yPred *tensor.Image) error {
	if !yTrue.Shape().Equal(yPred.Shape()) {
		return errors.Errorf("shape mismatch: y_true %v vs y_pred %v", yTrue.Shape(), yPred.Shape())
	}
	return nil
}

// meanPerSample reduces an image batch to one mean per sample, averaging
// over the height, width and channel axes.
func meanPerSample(img *tensor.Image) []float64 {
	out := make([]float64, img.Batch())
	for i := range out {
		sample := img.SampleData(i)
		out[i] = floats.Sum(sample) / float64(len(sample))
	}
	return out
}
