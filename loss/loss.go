// Copyright 2025 The Percept Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package loss provides differentiable image-similarity losses for training
// pixel-to-pixel generation models, and a wrapper for composing several
// weighted, per-channel-masked losses over a single model output.
//
// Every loss maps a (ground truth, prediction) pair of NHWC image batches to
// one scalar per batch sample; identical inputs score 0.
//
// Example:
//
//	ssim, err := loss.NewSSIM(loss.DefaultK1, loss.DefaultK2,
//	    loss.DefaultFilterSize, loss.DefaultFilterSigma, loss.DefaultMaxValue)
//	if err != nil {
//	    return err
//	}
//	w := loss.NewWrapper()
//	w.AddLoss(ssim, 1.0, -1)       // unmasked
//	w.AddLoss(loss.NewGradient(), 0.5, 3) // masked by truth channel 3
//	perSample, err := w.Evaluate(yTrue, yPred)
package loss

import (
	"github.com/percept-ml/percept/internal/loss"
)

// Loss computes a per-sample distance between two same-shaped image batches.
type Loss = loss.Loss

// Default parameters for the generalized error function and the SSIM family.
const (
	DefaultAlpha                = loss.DefaultAlpha
	DefaultBeta                 = loss.DefaultBeta
	DefaultK1                   = loss.DefaultK1
	DefaultK2                   = loss.DefaultK2
	DefaultFilterSize           = loss.DefaultFilterSize
	DefaultFilterSigma          = loss.DefaultFilterSigma
	DefaultMaxValue             = loss.DefaultMaxValue
	DefaultMultiscaleFilterSize = loss.DefaultMultiscaleFilterSize
)

// DefaultPowerFactors returns the per-scale MS-SSIM exponents from the
// original publication.
func DefaultPowerFactors() []float64 {
	return loss.DefaultPowerFactors()
}

// Generalized is the parametrized robust error function of Barron,
// interpolating between L1-like and L2-like penalties.
type Generalized = loss.Generalized

// NewGeneralized creates a generalized error function. alpha must not be
// exactly 0 or 2; beta must be positive.
func NewGeneralized(alpha, beta float64) (*Generalized, error) {
	return loss.NewGeneralized(alpha, beta)
}

// Gradient penalizes mismatched first- and second-order spatial derivatives.
type Gradient = loss.Gradient

// NewGradient creates a gradient loss.
func NewGradient() *Gradient {
	return loss.NewGradient()
}

// SSIM is the single-scale structural dissimilarity loss (1 - SSIM) / 2.
type SSIM = loss.SSIM

// NewSSIM creates a structural dissimilarity loss.
func NewSSIM(k1, k2 float64, filterSize int, filterSigma, maxValue float64) (*SSIM, error) {
	return loss.NewSSIM(k1, k2, filterSize, filterSigma, maxValue)
}

// MultiscaleSSIM is the multiscale structural dissimilarity loss 1 - MS-SSIM.
type MultiscaleSSIM = loss.MultiscaleSSIM

// NewMultiscaleSSIM creates a multiscale structural dissimilarity loss.
func NewMultiscaleSSIM(k1, k2 float64, filterSize int, filterSigma, maxValue float64, powerFactors []float64) (*MultiscaleSSIM, error) {
	return loss.NewMultiscaleSSIM(k1, k2, filterSize, filterSigma, maxValue, powerFactors)
}

// GMSD is the gradient magnitude similarity deviation loss.
type GMSD = loss.GMSD

// NewGMSD creates a gradient magnitude similarity deviation loss.
func NewGMSD() *GMSD {
	return loss.NewGMSD()
}

// LInf is the L-infinity norm loss: worst-case local error per channel,
// averaged over channels.
type LInf = loss.LInf

// NewLInf creates an L-infinity norm loss.
func NewLInf() *LInf {
	return loss.NewLInf()
}

// Wrapper composes several weighted, independently masked losses over a
// single model output.
type Wrapper = loss.Wrapper

// NewWrapper creates an empty loss wrapper.
func NewWrapper() *Wrapper {
	return loss.NewWrapper()
}
