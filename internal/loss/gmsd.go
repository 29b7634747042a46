package loss

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"github.com/percept-ml/percept/internal/tensor"
)

// gmsdEpsilon keeps the similarity ratio finite in flat regions where both
// edge responses vanish.
const gmsdEpsilon = 0.0025

// scharrKernelSize is the side length of the modified Scharr bank.
const scharrKernelSize = 5

// scharrKernels is a 5x5 two-orientation modified Scharr bank: index 0
// responds to vertical gradients (d/dy), index 1 to horizontal (d/dx). The
// bank is applied depthwise, so every color channel yields two edge
// responses.
var scharrKernels = [][]float64{
	{
		0.0007, 0.0052, 0.0370, 0.0052, 0.0007,
		0.0037, 0.1187, 0.2589, 0.1187, 0.0037,
		0.0000, 0.0000, 0.0000, 0.0000, 0.0000,
		-0.0037, -0.1187, -0.2589, -0.1187, -0.0037,
		-0.0007, -0.0052, -0.0370, -0.0052, -0.0007,
	},
	{
		0.0007, 0.0037, 0.0000, -0.0037, -0.0007,
		0.0052, 0.1187, 0.0000, -0.1187, -0.0052,
		0.0370, 0.2589, 0.0000, -0.2589, -0.0370,
		0.0052, 0.1187, 0.0000, -0.1187, -0.0052,
		0.0007, 0.0037, 0.0000, -0.0037, -0.0007,
	},
}

// GMSD is the gradient magnitude similarity deviation loss: the standard
// deviation of a bounded per-pixel edge-similarity field. It tracks
// structural degradation at a fraction of the cost of multiscale SSIM.
//
// References:
//
//	http://www4.comp.polyu.edu.hk/~cslzhang/IQA/GMSD/GMSD.htm
//	https://arxiv.org/ftp/arxiv/papers/1308/1308.3052.pdf
type GMSD struct{}

// NewGMSD creates a gradient magnitude similarity deviation loss.
func NewGMSD() *GMSD {
	return &GMSD{}
}

// Evaluate returns, per sample, the population standard deviation of the
// edge-similarity field over the spatial and channel axes.
func (g *GMSD) Evaluate(yTrue, yPred *tensor.Image) ([]float64, error) {
	if err := checkPair(yTrue, yPred); err != nil {
		return nil, errors.Wrap(err, "gmsd")
	}
	// Reflect padding by 2 needs at least 3 pixels per axis.
	if yTrue.Height() < 3 || yTrue.Width() < 3 {
		return nil, errors.Errorf("gmsd: image %dx%d is too small for the 5x5 edge kernels",
			yTrue.Height(), yTrue.Width())
	}
	trueEdge := scharrEdges(yTrue)
	predEdge := scharrEdges(yPred)

	gms := trueEdge.Clone()
	gd := gms.Data()
	td := trueEdge.Data()
	pd := predEdge.Data()
	for i := range gd {
		upper := 2 * td[i] * pd[i]
		lower := td[i]*td[i] + pd[i]*pd[i]
		gd[i] = (upper + gmsdEpsilon) / (lower + gmsdEpsilon)
	}

	out := make([]float64, gms.Batch())
	for i := range out {
		out[i] = stat.PopStdDev(gms.SampleData(i), nil)
	}
	return out, nil
}

// scharrEdges returns the per-orientation edge responses for every channel.
// Reflect padding keeps the output at the input's spatial size.
func scharrEdges(img *tensor.Image) *tensor.Image {
	return img.PadReflect(2).DepthwiseConv(scharrKernels, scharrKernelSize, scharrKernelSize)
}
