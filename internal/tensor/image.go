package tensor

import "fmt"

// Image is a batched image tensor in NHWC layout (batch, height, width,
// channels), backed by a flat contiguous float64 slice.
//
// All operations are pure: they allocate and return a new Image and never
// mutate their receiver or operands. An Image is therefore safe to share
// between concurrent evaluations.
type Image struct {
	n, h, w, c int
	data       []float64
}

// New creates a zero-filled image batch with the given shape.
func New(shape Shape) (*Image, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	return &Image{
		n:    shape[0],
		h:    shape[1],
		w:    shape[2],
		c:    shape[3],
		data: make([]float64, shape.NumElements()),
	}, nil
}

// FromSlice creates an image batch from a flat NHWC slice.
// The slice is copied into the image's memory.
func FromSlice(data []float64, shape Shape) (*Image, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}
	img := &Image{
		n:    shape[0],
		h:    shape[1],
		w:    shape[2],
		c:    shape[3],
		data: make([]float64, len(data)),
	}
	copy(img.data, data)
	return img, nil
}

// Full creates an image batch filled with a constant value.
func Full(shape Shape, value float64) (*Image, error) {
	img, err := New(shape)
	if err != nil {
		return nil, err
	}
	for i := range img.data {
		img.data[i] = value
	}
	return img, nil
}

// Batch returns the number of samples in the batch.
func (t *Image) Batch() int { return t.n }

// Height returns the spatial height.
func (t *Image) Height() int { return t.h }

// Width returns the spatial width.
func (t *Image) Width() int { return t.w }

// Channels returns the channel count.
func (t *Image) Channels() int { return t.c }

// Shape returns the image's shape as (batch, height, width, channels).
func (t *Image) Shape() Shape {
	return Shape{t.n, t.h, t.w, t.c}
}

// NumElements returns the total number of elements.
func (t *Image) NumElements() int { return len(t.data) }

// Data returns the flat NHWC slice backing the image.
//
// WARNING: Modifications to the returned slice will modify the image.
func (t *Image) Data() []float64 { return t.data }

// SampleData returns the contiguous slice holding sample i, in HWC order.
func (t *Image) SampleData(i int) []float64 {
	size := t.h * t.w * t.c
	return t.data[i*size : (i+1)*size]
}

// At returns the element at (batch, height, width, channel).
func (t *Image) At(n, h, w, c int) float64 {
	return t.data[t.index(n, h, w, c)]
}

// Clone returns a deep copy of the image.
func (t *Image) Clone() *Image {
	out := t.like(t.h, t.w, t.c)
	copy(out.data, t.data)
	return out
}

func (t *Image) index(n, h, w, c int) int {
	return ((n*t.h+h)*t.w+w)*t.c + c
}

// like allocates an uninitialized image with the receiver's batch size and
// the given spatial/channel dimensions.
func (t *Image) like(h, w, c int) *Image {
	return &Image{n: t.n, h: h, w: w, c: c, data: make([]float64, t.n*h*w*c)}
}
