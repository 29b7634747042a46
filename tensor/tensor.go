// Copyright 2025 The Percept Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the batched image tensor consumed by the percept
// loss metrics.
//
// An Image is a rank-4 NHWC (batch, height, width, channels) tensor backed
// by a flat float64 slice. Ground-truth batches may carry extra trailing
// channels holding per-pixel masks; see the loss package.
//
// Example:
//
//	pixels := make([]float64, 4*64*64*3)
//	batch, err := tensor.FromSlice(pixels, tensor.Shape{4, 64, 64, 3})
package tensor

import (
	"github.com/percept-ml/percept/internal/tensor"
)

// Shape represents the dimensions of an image batch in NHWC order.
type Shape = tensor.Shape

// Image is a batched image tensor in NHWC layout.
type Image = tensor.Image

// New creates a zero-filled image batch with the given shape.
func New(shape Shape) (*Image, error) {
	return tensor.New(shape)
}

// FromSlice creates an image batch from a flat NHWC slice.
// The slice is copied into the image's memory.
func FromSlice(data []float64, shape Shape) (*Image, error) {
	return tensor.FromSlice(data, shape)
}

// Full creates an image batch filled with a constant value.
func Full(shape Shape, value float64) (*Image, error) {
	return tensor.Full(shape, value)
}
