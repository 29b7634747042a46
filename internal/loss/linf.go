package loss

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/percept-ml/percept/internal/tensor"
)

// LInf is the L-infinity norm loss: the worst-case absolute pixel error per
// channel, averaged over channels. Unlike mean-based losses it reacts to a
// single badly wrong region regardless of how well the rest of the image
// matches.
type LInf struct{}

// NewLInf creates an L-infinity norm loss.
func NewLInf() *LInf {
	return &LInf{}
}

// Evaluate returns, per sample, the channel-mean of the spatial maximum
// absolute error.
func (l *LInf) Evaluate(yTrue, yPred *tensor.Image) ([]float64, error) {
	if err := checkPair(yTrue, yPred); err != nil {
		return nil, errors.Wrap(err, "l-inf loss")
	}
	channels := yTrue.Channels()
	out := make([]float64, yTrue.Batch())
	channelMax := make([]float64, channels)
	for i := range out {
		td := yTrue.SampleData(i)
		pd := yPred.SampleData(i)
		for c := range channelMax {
			channelMax[c] = 0
		}
		for j := range td {
			if d := math.Abs(td[j] - pd[j]); d > channelMax[j%channels] {
				channelMax[j%channels] = d
			}
		}
		out[i] = floats.Sum(channelMax) / float64(channels)
	}
	return out, nil
}
