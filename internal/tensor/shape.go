package tensor

import "fmt"

// Shape represents the dimensions of an image batch.
// Image batches are always rank 4 in NHWC order: (batch, height, width,
// channels).
type Shape []int

// NumElements returns the total number of elements described by the shape.
func (s Shape) NumElements() int {
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks that the shape is rank 4 with all dimensions > 0.
func (s Shape) Validate() error {
	if len(s) != 4 {
		return fmt.Errorf("image shape must be rank 4 (batch, height, width, channels), got rank %d: %v", len(s), s)
	}
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be > 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}
