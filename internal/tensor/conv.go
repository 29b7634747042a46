package tensor

import "fmt"

// Spatial kernels: reflect padding, depthwise cross-correlation, and 2x2
// average pooling. Direct nested loops; the batches these losses see are
// small enough that im2col-style rewrites have not been worth it.

// PadReflect returns the image reflect-padded by p pixels on both spatial
// axes. Reflection excludes the border pixel itself (TensorFlow REFLECT
// semantics), so p must be at most dim-1.
func (t *Image) PadReflect(p int) *Image {
	if p < 0 || p > t.h-1 || p > t.w-1 {
		panic(fmt.Sprintf("tensor: pad reflect: padding %d invalid for %dx%d image", p, t.h, t.w))
	}
	out := t.like(t.h+2*p, t.w+2*p, t.c)
	for n := 0; n < t.n; n++ {
		for h := 0; h < out.h; h++ {
			sh := reflectIndex(h-p, t.h)
			for w := 0; w < out.w; w++ {
				sw := reflectIndex(w-p, t.w)
				src := t.index(n, sh, sw, 0)
				dst := out.index(n, h, w, 0)
				copy(out.data[dst:dst+t.c], t.data[src:src+t.c])
			}
		}
	}
	return out
}

func reflectIndex(i, size int) int {
	if i < 0 {
		return -i
	}
	if i >= size {
		return 2*size - 2 - i
	}
	return i
}

// DepthwiseConv applies every kernel in the bank to every channel
// independently (valid padding, stride 1, cross-correlation). Each kernel is
// a flattened kh*kw row-major slice. The output has C*K channels, with the K
// responses for input channel c stored at channels c*K .. c*K+K-1.
func (t *Image) DepthwiseConv(kernels [][]float64, kh, kw int) *Image {
	if kh > t.h || kw > t.w {
		panic(fmt.Sprintf("tensor: depthwise conv: kernel %dx%d larger than image %dx%d", kh, kw, t.h, t.w))
	}
	for k, kernel := range kernels {
		if len(kernel) != kh*kw {
			panic(fmt.Sprintf("tensor: depthwise conv: kernel %d has %d weights, want %d", k, len(kernel), kh*kw))
		}
	}
	nk := len(kernels)
	oh := t.h - kh + 1
	ow := t.w - kw + 1
	out := t.like(oh, ow, t.c*nk)
	for n := 0; n < t.n; n++ {
		for y := 0; y < oh; y++ {
			for x := 0; x < ow; x++ {
				dst := out.index(n, y, x, 0)
				for c := 0; c < t.c; c++ {
					for k, kernel := range kernels {
						var sum float64
						for i := 0; i < kh; i++ {
							row := t.index(n, y+i, x, c)
							for j := 0; j < kw; j++ {
								sum += kernel[i*kw+j] * t.data[row+j*t.c]
							}
						}
						out.data[dst+c*nk+k] = sum
					}
				}
			}
		}
	}
	return out
}

// AvgPool2 downsamples the image by 2x2 average pooling with stride 2.
// Odd spatial dimensions round up: border windows average over the pixels
// actually covered, so no zero bias leaks in from padding.
func (t *Image) AvgPool2() *Image {
	oh := (t.h + 1) / 2
	ow := (t.w + 1) / 2
	out := t.like(oh, ow, t.c)
	for n := 0; n < t.n; n++ {
		for y := 0; y < oh; y++ {
			hSpan := min(2, t.h-2*y)
			for x := 0; x < ow; x++ {
				wSpan := min(2, t.w-2*x)
				dst := out.index(n, y, x, 0)
				for c := 0; c < t.c; c++ {
					var sum float64
					for i := 0; i < hSpan; i++ {
						for j := 0; j < wSpan; j++ {
							sum += t.data[t.index(n, 2*y+i, 2*x+j, c)]
						}
					}
					out.data[dst+c] = sum / float64(hSpan*wSpan)
				}
			}
		}
	}
	return out
}
