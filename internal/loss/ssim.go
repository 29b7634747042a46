package loss

import (
	"math"

	"github.com/pkg/errors"

	"github.com/percept-ml/percept/internal/tensor"
)

// Default SSIM parameters, matching the reference publication.
const (
	DefaultK1          = 0.01
	DefaultK2          = 0.03
	DefaultFilterSize  = 11
	DefaultFilterSigma = 1.5
	DefaultMaxValue    = 1.0
)

// SSIM is the structural dissimilarity loss (1 - SSIM) / 2, built on
// windowed luminance/contrast/structure statistics under a Gaussian window.
// 0 means identical, 1 maximally dissimilar.
type SSIM struct {
	k1          float64
	k2          float64
	filterSize  int
	filterSigma float64
	maxValue    float64
	kernel      []float64
}

// NewSSIM creates a structural dissimilarity loss. k1 and k2 are the usual
// stability constants relative to the dynamic range maxValue; filterSize and
// filterSigma describe the Gaussian window.
func NewSSIM(k1, k2 float64, filterSize int, filterSigma, maxValue float64) (*SSIM, error) {
	if err := validateSSIMParams(filterSize, filterSigma, maxValue); err != nil {
		return nil, errors.Wrap(err, "ssim")
	}
	return &SSIM{
		k1:          k1,
		k2:          k2,
		filterSize:  filterSize,
		filterSigma: filterSigma,
		maxValue:    maxValue,
		kernel:      gaussianKernel(filterSize, filterSigma),
	}, nil
}

// Evaluate returns (1 - SSIM) / 2 per sample, averaged over window positions
// and channels.
func (s *SSIM) Evaluate(yTrue, yPred *tensor.Image) ([]float64, error) {
	if err := checkPair(yTrue, yPred); err != nil {
		return nil, errors.Wrap(err, "ssim")
	}
	if yTrue.Height() < s.filterSize || yTrue.Width() < s.filterSize {
		return nil, errors.Errorf("ssim: image %dx%d is smaller than the %d-pixel filter",
			yTrue.Height(), yTrue.Width(), s.filterSize)
	}
	c1 := (s.k1 * s.maxValue) * (s.k1 * s.maxValue)
	c2 := (s.k2 * s.maxValue) * (s.k2 * s.maxValue)
	similarity, _ := ssimStats(yTrue, yPred, s.kernel, s.filterSize, c1, c2)
	out := make([]float64, len(similarity))
	for i, v := range similarity {
		out[i] = (1 - v) / 2
	}
	return out, nil
}

func validateSSIMParams(filterSize int, filterSigma, maxValue float64) error {
	if filterSize < 1 {
		return errors.Errorf("filter size must be at least 1, got %d", filterSize)
	}
	if filterSigma <= 0 {
		return errors.Errorf("filter sigma must be positive, got %g", filterSigma)
	}
	if maxValue <= 0 {
		return errors.Errorf("max value must be positive, got %g", maxValue)
	}
	return nil
}

// gaussianKernel builds a normalized size x size Gaussian window, flattened
// row-major.
func gaussianKernel(size int, sigma float64) []float64 {
	kernel := make([]float64, size*size)
	center := float64(size-1) / 2
	var sum float64
	for i := 0; i < size; i++ {
		dy := (float64(i) - center) / sigma
		for j := 0; j < size; j++ {
			dx := (float64(j) - center) / sigma
			v := math.Exp(-0.5 * (dy*dy + dx*dx))
			kernel[i*size+j] = v
			sum += v
		}
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// ssimStats computes the per-sample mean SSIM index and the per-sample mean
// contrast-structure term over all valid window positions and channels.
// Both inputs must share a shape at least as large as the window.
func ssimStats(yTrue, yPred *tensor.Image, kernel []float64, size int, c1, c2 float64) (similarity, cs []float64) {
	bank := [][]float64{kernel}
	mu0 := yTrue.DepthwiseConv(bank, size, size)
	mu1 := yPred.DepthwiseConv(bank, size, size)
	m00 := yTrue.Mul(yTrue).DepthwiseConv(bank, size, size)
	m11 := yPred.Mul(yPred).DepthwiseConv(bank, size, size)
	m01 := yTrue.Mul(yPred).DepthwiseConv(bank, size, size)

	simMap := mu0.Clone()
	csMap := mu0.Clone()
	sd := simMap.Data()
	cd := csMap.Data()
	d0 := mu0.Data()
	d1 := mu1.Data()
	e00 := m00.Data()
	e11 := m11.Data()
	e01 := m01.Data()
	for i := range d0 {
		num0 := 2 * d0[i] * d1[i]
		den0 := d0[i]*d0[i] + d1[i]*d1[i]
		luminance := (num0 + c1) / (den0 + c1)
		num1 := 2 * e01[i]
		den1 := e00[i] + e11[i]
		contrast := (num1 - num0 + c2) / (den1 - den0 + c2)
		sd[i] = luminance * contrast
		cd[i] = contrast
	}
	return meanPerSample(simMap), meanPerSample(csMap)
}
