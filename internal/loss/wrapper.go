package loss

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"k8s.io/klog/v2"

	"github.com/percept-ml/percept/internal/tensor"
)

// registration binds one metric to its weight and optional mask channel.
// Records are immutable once appended.
type registration struct {
	fn          Loss
	weight      float64
	maskChannel int
}

// Wrapper composes several weighted, independently masked losses over a
// single model output.
//
// Training pipelines cannot feed per-sample auxiliary data (masks) to a loss
// alongside the batch, so masks travel as extra channels stacked onto the
// end of the ground-truth batch: a (4, 128, 128, 3) truth with three masks
// arrives as (4, 128, 128, 6). Evaluate splits those channels back off and
// applies the selected mask to both inputs before each registered metric
// runs.
//
// Register every loss before the first Evaluate call; registrations are not
// synchronized against concurrent evaluation.
type Wrapper struct {
	registrations   []registration
	maskPropagation float64
}

// NewWrapper creates an empty loss wrapper with masks applied at full
// strength.
func NewWrapper() *Wrapper {
	return &Wrapper{maskPropagation: 1.0}
}

// SetMaskPropagation controls how strongly masks attenuate pixels outside
// the masked region: 1 applies masks fully, 0 lets everything through
// unmasked.
func (w *Wrapper) SetMaskPropagation(prop float64) {
	w.maskPropagation = prop
}

// AddLoss appends fn to the loss chain with the given weight. maskChannel
// names the ground-truth channel holding the per-pixel weight map for this
// loss; -1 registers the loss unmasked.
func (w *Wrapper) AddLoss(fn Loss, weight float64, maskChannel int) {
	klog.V(2).Infof("registering loss %T (weight: %g, mask channel: %d)", fn, weight, maskChannel)
	w.registrations = append(w.registrations, registration{
		fn:          fn,
		weight:      weight,
		maskChannel: maskChannel,
	})
}

// Evaluate runs every registered loss in insertion order and returns the
// weighted per-sample sum. With no registrations it returns all zeros.
func (w *Wrapper) Evaluate(yTrue, yPred *tensor.Image) ([]float64, error) {
	if yTrue.Batch() != yPred.Batch() || yTrue.Height() != yPred.Height() || yTrue.Width() != yPred.Width() {
		return nil, errors.Errorf("loss wrapper: batch/spatial mismatch: y_true %v vs y_pred %v",
			yTrue.Shape(), yPred.Shape())
	}
	total := make([]float64, yTrue.Batch())
	for _, reg := range w.registrations {
		klog.V(3).Infof("evaluating loss %T (weight: %g, mask channel: %d)", reg.fn, reg.weight, reg.maskChannel)
		maskedTrue, maskedPred, err := w.applyMask(yTrue, yPred, reg.maskChannel)
		if err != nil {
			return nil, err
		}
		vals, err := reg.fn.Evaluate(maskedTrue, maskedPred)
		if err != nil {
			return nil, errors.Wrapf(err, "loss wrapper: %T", reg.fn)
		}
		floats.AddScaled(total, reg.weight, vals)
	}
	return total, nil
}

// applyMask splits the requested mask channel out of the ground truth and
// multiplies it into the first three channels of both batches. With
// maskChannel -1 the first three channels pass through untouched and any
// trailing mask channels are dropped.
func (w *Wrapper) applyMask(yTrue, yPred *tensor.Image, maskChannel int) (*tensor.Image, *tensor.Image, error) {
	if yTrue.Channels() < 3 || yPred.Channels() < 3 {
		return nil, nil, errors.Errorf("loss wrapper: inputs must carry at least 3 image channels, got %d and %d",
			yTrue.Channels(), yPred.Channels())
	}
	if maskChannel == -1 {
		return yTrue.SliceChannels(0, 3), yPred.SliceChannels(0, 3), nil
	}
	if maskChannel < 0 || maskChannel >= yTrue.Channels() {
		return nil, nil, errors.Errorf("loss wrapper: mask channel %d out of range for %d ground-truth channels",
			maskChannel, yTrue.Channels())
	}
	mask := yTrue.Channel(maskChannel)
	if w.maskPropagation != 1 {
		mask = mask.Scale(w.maskPropagation).AddScalar(1 - w.maskPropagation)
	}
	return yTrue.SliceChannels(0, 3).MulBroadcast(mask),
		yPred.SliceChannels(0, 3).MulBroadcast(mask),
		nil
}
