package loss

import (
	"math"

	"github.com/pkg/errors"

	"github.com/percept-ml/percept/internal/tensor"
)

// DefaultMultiscaleFilterSize keeps the window usable at the coarse scales
// the default five-level pyramid reaches on small training crops.
const DefaultMultiscaleFilterSize = 4

// DefaultPowerFactors returns the per-scale exponents from the original
// MS-SSIM publication. Index 0 weights the full resolution; each following
// index weights the image downsampled by another factor of 2.
func DefaultPowerFactors() []float64 {
	return []float64{0.0448, 0.2856, 0.3001, 0.2363, 0.1333}
}

// MultiscaleSSIM is the multiscale structural dissimilarity loss
// 1 - MS-SSIM. The number of scales is the length of the power-factor
// sequence.
type MultiscaleSSIM struct {
	k1           float64
	k2           float64
	filterSize   int
	filterSigma  float64
	maxValue     float64
	powerFactors []float64
}

// NewMultiscaleSSIM creates a multiscale structural dissimilarity loss.
// powerFactors must be non-empty; the other parameters follow NewSSIM.
func NewMultiscaleSSIM(k1, k2 float64, filterSize int, filterSigma, maxValue float64, powerFactors []float64) (*MultiscaleSSIM, error) {
	if err := validateSSIMParams(filterSize, filterSigma, maxValue); err != nil {
		return nil, errors.Wrap(err, "multiscale ssim")
	}
	if len(powerFactors) == 0 {
		return nil, errors.New("multiscale ssim: power factors must not be empty")
	}
	factors := make([]float64, len(powerFactors))
	copy(factors, powerFactors)
	return &MultiscaleSSIM{
		k1:           k1,
		k2:           k2,
		filterSize:   filterSize,
		filterSigma:  filterSigma,
		maxValue:     maxValue,
		powerFactors: factors,
	}, nil
}

// Evaluate returns 1 - MS-SSIM per sample. The configured filter size is
// clamped to the smallest spatial size the image reaches after levels-1
// halvings, so the window never outgrows the coarsest used scale.
func (s *MultiscaleSSIM) Evaluate(yTrue, yPred *tensor.Image) ([]float64, error) {
	if err := checkPair(yTrue, yPred); err != nil {
		return nil, errors.Wrap(err, "multiscale ssim")
	}
	levels := len(s.powerFactors)
	size := s.filterSize
	if smallest := smallestScale(yTrue.Height(), levels-1); size > smallest {
		size = smallest
	}
	if size < 1 {
		return nil, errors.Errorf("multiscale ssim: image height %d vanishes after %d halvings",
			yTrue.Height(), levels-1)
	}
	kernel := gaussianKernel(size, s.filterSigma)
	c1 := (s.k1 * s.maxValue) * (s.k1 * s.maxValue)
	c2 := (s.k2 * s.maxValue) * (s.k2 * s.maxValue)

	combined := make([]float64, yTrue.Batch())
	for i := range combined {
		combined[i] = 1
	}
	cur0, cur1 := yTrue, yPred
	for level := 0; level < levels; level++ {
		if cur0.Height() < size || cur0.Width() < size {
			return nil, errors.Errorf("multiscale ssim: scale %d is %dx%d, smaller than the %d-pixel filter",
				level, cur0.Height(), cur0.Width(), size)
		}
		similarity, cs := ssimStats(cur0, cur1, kernel, size, c1, c2)
		if level < levels-1 {
			// Intermediate scales contribute only their contrast-structure
			// term, clamped at zero before the fractional power.
			for i := range combined {
				combined[i] *= math.Pow(math.Max(cs[i], 0), s.powerFactors[level])
			}
			cur0 = cur0.AvgPool2()
			cur1 = cur1.AvgPool2()
		} else {
			for i := range combined {
				combined[i] *= math.Pow(math.Max(similarity[i], 0), s.powerFactors[level])
			}
		}
	}
	out := make([]float64, len(combined))
	for i, v := range combined {
		out[i] = 1 - v
	}
	return out, nil
}

// smallestScale returns size floor-halved steps times: the smallest spatial
// dimension the multiscale pyramid will reach.
func smallestScale(size, steps int) int {
	for ; steps > 0; steps-- {
		size /= 2
	}
	return size
}
